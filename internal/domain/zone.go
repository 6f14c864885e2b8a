package domain

import (
	"github.com/waste-report-service/internal/pkg/utils"
)

// Причины отклонения координаты. Наружу не отдаются - только для
// диагностики и аудита, чтобы не раскрывать геометрию зоны перебором.
const (
	ZoneReasonMissingCoordinate = "missing_coordinate"
	ZoneReasonOutsideRectangle  = "outside_rectangle"
	ZoneReasonOutsideRadius     = "outside_radius"
)

// AdmissibleZone - зона приёма отчётов: прямоугольная рамка плюс
// круг от центра. Координата должна пройти обе проверки, круг строже
// (углы прямоугольника могут лежать за радиусом).
type AdmissibleZone struct {
	North       float64
	South       float64
	East        float64
	West        float64
	Center      Coordinate
	MaxRadiusKm float64
}

// ZoneVerdict - результат проверки координаты
type ZoneVerdict struct {
	Admissible bool    `json:"admissible"`
	DistanceKm float64 `json:"distance_km"`
	Reason     string  `json:"reason,omitempty"`
}

// Validate проверяет допустимость координаты. Чистая функция, без I/O.
func (z AdmissibleZone) Validate(coord Coordinate) ZoneVerdict {
	if coord.IsMissing() {
		return ZoneVerdict{Admissible: false, Reason: ZoneReasonMissingCoordinate}
	}

	distance := utils.HaversineDistance(z.Center.Lat, z.Center.Lng, coord.Lat, coord.Lng)

	if coord.Lat > z.North || coord.Lat < z.South || coord.Lng > z.East || coord.Lng < z.West {
		return ZoneVerdict{Admissible: false, DistanceKm: distance, Reason: ZoneReasonOutsideRectangle}
	}

	if distance > z.MaxRadiusKm {
		return ZoneVerdict{Admissible: false, DistanceKm: distance, Reason: ZoneReasonOutsideRadius}
	}

	return ZoneVerdict{Admissible: true, DistanceKm: distance}
}
