package geometry

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/planar"
	"github.com/peterstace/simplefeatures/geom"

	"detection-eval/internal/domain/entity"
)

// Polygon область, готовая к геометрическим запросам.
//
// Площадь и пересечения считаются по solid: это сам полигон, а при нулевой
// площади его выпуклая оболочка, расширенная на RepairBuffer.
// Периметр всегда берётся у исходной формы.
type Polygon struct {
	shape     orb.Polygon
	area      float64
	length    float64
	solid     geom.Geometry
	solidArea float64
	repaired  bool
}

// NewPolygon собирает полигон из списка вершин.
// Список считается незамкнутым: замыкающая вершина добавляется всегда,
// поэтому повтор первой точки в конце — обычная вершина.
func NewPolygon(points entity.RawPoints) (*Polygon, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points", entity.ErrInvalidGeometry)
	}
	if len(points) < 3 && !coincident(points) {
		return nil, fmt.Errorf("%w: %d points, need at least 3", entity.ErrInvalidGeometry, len(points))
	}
	ring := make(orb.Ring, len(points), len(points)+1)
	copy(ring, points)
	return FromOrb(orb.Polygon{append(ring, points[0])})
}

// FromOrb оборачивает готовый полигон.
func FromOrb(p orb.Polygon) (*Polygon, error) {
	if len(p) == 0 || len(p[0]) == 0 {
		return nil, fmt.Errorf("%w: empty polygon", entity.ErrInvalidGeometry)
	}
	if outer := openRing(p[0]); len(outer) < 3 && !coincident(outer) {
		return nil, fmt.Errorf("%w: outer ring has %d points, need at least 3", entity.ErrInvalidGeometry, len(outer))
	}
	shape := make(orb.Polygon, len(p))
	for i, ring := range p {
		shape[i] = closeRing(ring)
	}

	poly := &Polygon{
		shape:  shape,
		area:   math.Abs(planar.Area(shape)),
		length: planar.Length(shape),
	}

	var err error
	if poly.area == 0 {
		poly.solid, err = repair(shape)
		poly.repaired = true
	} else {
		poly.solid, err = geom.UnmarshalWKT(wkt.MarshalString(dedupe(shape)))
		if err != nil {
			err = fmt.Errorf("%w: %v", entity.ErrInvalidGeometry, err)
		}
	}
	if err != nil {
		return nil, err
	}

	poly.solidArea = poly.solid.Area()
	if !(poly.solidArea > 0) || math.IsInf(poly.solidArea, 0) {
		return nil, fmt.Errorf("%w: area %v", entity.ErrDegenerateGeometry, poly.solidArea)
	}
	return poly, nil
}

// Area площадь, по которой считаются отношения (после ремонта).
func (p *Polygon) Area() float64 {
	return p.solidArea
}

// RawArea площадь исходной формы.
func (p *Polygon) RawArea() float64 {
	return p.area
}

// Length периметр исходной формы.
func (p *Polygon) Length() float64 {
	return p.length
}

// Repaired сообщает, была ли нулевая площадь заменена буфером.
func (p *Polygon) Repaired() bool {
	return p.repaired
}

// Shape исходный полигон.
func (p *Polygon) Shape() orb.Polygon {
	return p.shape
}

// Centroid центр масс области.
func (p *Polygon) Centroid() orb.Point {
	xy, ok := p.solid.Centroid().XY()
	if !ok {
		return orb.Point{}
	}
	return orb.Point{xy.X, xy.Y}
}

// Bounds охватывающий прямоугольник области, по которой считается площадь.
func (p *Polygon) Bounds() orb.Bound {
	seq := p.solid.DumpCoordinates()
	if seq.Length() == 0 {
		return orb.Bound{}
	}
	first := seq.GetXY(0)
	b := orb.Bound{Min: orb.Point{first.X, first.Y}, Max: orb.Point{first.X, first.Y}}
	for i := 1; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		b = b.Extend(orb.Point{xy.X, xy.Y})
	}
	return b
}

// IntersectionArea площадь пересечения двух областей.
func (p *Polygon) IntersectionArea(other *Polygon) (float64, error) {
	overlap, err := geom.Intersection(p.solid, other.solid)
	if err != nil {
		return 0, fmt.Errorf("intersection: %w", err)
	}
	return overlap.Area(), nil
}

func coincident(points []orb.Point) bool {
	for _, pt := range points[1:] {
		if pt != points[0] {
			return false
		}
	}
	return true
}

func openRing(ring orb.Ring) []orb.Point {
	if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		return ring[:len(ring)-1]
	}
	return ring
}

func closeRing(points []orb.Point) orb.Ring {
	ring := make(orb.Ring, len(points), len(points)+1)
	copy(ring, points)
	if len(ring) > 0 && ring[0] != ring[len(ring)-1] {
		ring = append(ring, ring[0])
	}
	return ring
}

// dedupe убирает подряд идущие одинаковые вершины: валидатор полигонов их не любит.
func dedupe(p orb.Polygon) orb.Polygon {
	out := make(orb.Polygon, len(p))
	for i, ring := range p {
		r := make(orb.Ring, 0, len(ring))
		for j, pt := range ring {
			if j > 0 && pt == ring[j-1] {
				continue
			}
			r = append(r, pt)
		}
		out[i] = r
	}
	return out
}
