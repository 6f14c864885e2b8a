package domain

import "math"

// Coordinate представляет координаты точки
type Coordinate struct {
	Lat float64 `json:"lat" db:"lat"`
	Lng float64 `json:"lng" db:"lng"`
}

// IsMissing сообщает, что координата отсутствует или непригодна.
// Пара (0,0) трактуется как "не передана" - реальных отчётов из
// Гвинейского залива не бывает.
func (c Coordinate) IsMissing() bool {
	if math.IsNaN(c.Lat) || math.IsNaN(c.Lng) {
		return true
	}
	if math.IsInf(c.Lat, 0) || math.IsInf(c.Lng, 0) {
		return true
	}
	return c.Lat == 0 && c.Lng == 0
}
