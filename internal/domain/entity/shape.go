package entity

import "github.com/paulmach/orb"

// Shape — область на снимке: либо сырой список вершин, либо готовый полигон.
type Shape interface {
	isShape()
}

// RawPoints упорядоченный список вершин (x, y) без замыкающей точки.
type RawPoints []orb.Point

func (RawPoints) isShape() {}

// PreparedPolygon уже собранный полигон (внешнее кольцо и, возможно, дыры).
type PreparedPolygon struct {
	Polygon orb.Polygon
}

func (PreparedPolygon) isShape() {}

// Rect возвращает прямоугольник как список вершин по часовой стрелке.
func Rect(x1, y1, x2, y2 float64) RawPoints {
	return RawPoints{{x1, y1}, {x2, y1}, {x2, y2}, {x1, y2}}
}
