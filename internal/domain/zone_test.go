package domain_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/waste-report-service/internal/domain"
)

func testZone() domain.AdmissibleZone {
	return domain.AdmissibleZone{
		North:       10.2,
		South:       9.0,
		East:        -13.0,
		West:        -14.2,
		Center:      domain.Coordinate{Lat: 9.6412, Lng: -13.5784},
		MaxRadiusKm: 60,
	}
}

func TestAdmissibleZone_Validate(t *testing.T) {
	zone := testZone()

	t.Run("center is admissible", func(t *testing.T) {
		verdict := zone.Validate(zone.Center)
		assert.True(t, verdict.Admissible)
		assert.InDelta(t, 0, verdict.DistanceKm, 0.001)
	})

	t.Run("point well inside both bounds", func(t *testing.T) {
		verdict := zone.Validate(domain.Coordinate{Lat: 9.7, Lng: -13.6})
		assert.True(t, verdict.Admissible)
		assert.Less(t, verdict.DistanceKm, 60.0)
	})

	t.Run("missing coordinate pair", func(t *testing.T) {
		verdict := zone.Validate(domain.Coordinate{})
		assert.False(t, verdict.Admissible)
		assert.Equal(t, domain.ZoneReasonMissingCoordinate, verdict.Reason)
	})

	t.Run("NaN coordinate", func(t *testing.T) {
		verdict := zone.Validate(domain.Coordinate{Lat: math.NaN(), Lng: -13.5})
		assert.False(t, verdict.Admissible)
		assert.Equal(t, domain.ZoneReasonMissingCoordinate, verdict.Reason)
	})

	t.Run("outside the rectangle", func(t *testing.T) {
		verdict := zone.Validate(domain.Coordinate{Lat: 10.5, Lng: -13.5784})
		assert.False(t, verdict.Admissible)
		assert.Equal(t, domain.ZoneReasonOutsideRectangle, verdict.Reason)
	})

	t.Run("inside the rectangle but beyond the radius", func(t *testing.T) {
		// ~61 km north of the center, still south of the 10.2 boundary
		verdict := zone.Validate(domain.Coordinate{Lat: 10.19, Lng: -13.5784})
		assert.False(t, verdict.Admissible)
		assert.Equal(t, domain.ZoneReasonOutsideRadius, verdict.Reason)
		assert.Greater(t, verdict.DistanceKm, 60.0)
	})

	t.Run("just inside the radius", func(t *testing.T) {
		// ~55 km north of the center
		verdict := zone.Validate(domain.Coordinate{Lat: 10.14, Lng: -13.5784})
		assert.True(t, verdict.Admissible)
		assert.Greater(t, verdict.DistanceKm, 50.0)
		assert.Less(t, verdict.DistanceKm, 60.0)
	})

	t.Run("far away coordinate", func(t *testing.T) {
		verdict := zone.Validate(domain.Coordinate{Lat: 48.8566, Lng: 2.3522})
		assert.False(t, verdict.Admissible)
	})
}

func TestCoordinate_IsMissing(t *testing.T) {
	assert.True(t, domain.Coordinate{}.IsMissing())
	assert.True(t, domain.Coordinate{Lat: math.NaN(), Lng: 1}.IsMissing())
	assert.True(t, domain.Coordinate{Lat: 1, Lng: math.Inf(1)}.IsMissing())
	assert.False(t, domain.Coordinate{Lat: 9.64, Lng: -13.57}.IsMissing())
	// A zero on a single axis is a real coordinate
	assert.False(t, domain.Coordinate{Lat: 0, Lng: -13.57}.IsMissing())
}
