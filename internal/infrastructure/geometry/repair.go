package geometry

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/peterstace/simplefeatures/geom"

	"detection-eval/internal/domain/entity"
)

// RepairBuffer расстояние, на которое расширяется форма нулевой площади.
const RepairBuffer = 0.05

// repair заменяет форму нулевой площади выпуклой оболочкой, расширенной на
// RepairBuffer. Дуги аппроксимируются одним отрезком на четверть окружности.
func repair(shape orb.Polygon) (geom.Geometry, error) {
	var pts []geom.Point
	for _, ring := range shape {
		for _, pt := range ring {
			pts = append(pts, geom.XY{X: pt[0], Y: pt[1]}.AsPoint())
		}
	}
	hull := hullVertices(geom.NewMultiPoint(pts).AsGeometry().ConvexHull())

	var cloud []geom.XY
	switch len(hull) {
	case 0:
		return geom.Geometry{}, fmt.Errorf("%w: empty hull", entity.ErrDegenerateGeometry)
	case 1:
		cloud = bufferPoint(hull[0], RepairBuffer)
	case 2:
		cloud = bufferSegment(hull[0], hull[1], RepairBuffer)
	default:
		cloud = bufferConvex(hull, RepairBuffer)
	}

	out := make([]geom.Point, len(cloud))
	for i, xy := range cloud {
		out[i] = xy.AsPoint()
	}
	buffered := geom.NewMultiPoint(out).AsGeometry().ConvexHull()
	if !(buffered.Area() > 0) {
		return geom.Geometry{}, fmt.Errorf("%w: buffered hull has no area", entity.ErrDegenerateGeometry)
	}
	return buffered, nil
}

// hullVertices различные вершины оболочки в порядке обхода.
func hullVertices(hull geom.Geometry) []geom.XY {
	seq := hull.DumpCoordinates()
	out := make([]geom.XY, 0, seq.Length())
	for i := 0; i < seq.Length(); i++ {
		xy := seq.GetXY(i)
		if len(out) > 0 && (xy == out[len(out)-1] || xy == out[0]) {
			continue
		}
		out = append(out, xy)
	}
	return out
}

func bufferPoint(c geom.XY, r float64) []geom.XY {
	return []geom.XY{
		{X: c.X + r, Y: c.Y},
		{X: c.X, Y: c.Y + r},
		{X: c.X - r, Y: c.Y},
		{X: c.X, Y: c.Y - r},
	}
}

func bufferSegment(a, b geom.XY, r float64) []geom.XY {
	dx, dy := b.X-a.X, b.Y-a.Y
	l := math.Hypot(dx, dy)
	dx, dy = dx/l*r, dy/l*r
	nx, ny := -dy, dx
	return []geom.XY{
		{X: a.X + nx, Y: a.Y + ny},
		{X: a.X - dx, Y: a.Y - dy},
		{X: a.X - nx, Y: a.Y - ny},
		{X: b.X - nx, Y: b.Y - ny},
		{X: b.X + dx, Y: b.Y + dy},
		{X: b.X + nx, Y: b.Y + ny},
	}
}

// bufferConvex смещает каждую вершину по нормалям обоих примыкающих рёбер.
// Если нормали расходятся больше чем на прямой угол, добавляется точка по
// биссектрисе.
func bufferConvex(hull []geom.XY, r float64) []geom.XY {
	n := len(hull)
	normal := func(i int) (float64, float64) {
		a, b := hull[i], hull[(i+1)%n]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		// Знак не важен: оболочка облака берёт внешние точки с обеих сторон.
		return dy / l, -dx / l
	}

	out := make([]geom.XY, 0, n*6)
	for i := 0; i < n; i++ {
		v := hull[i]
		px, py := normal((i + n - 1) % n)
		qx, qy := normal(i)
		for _, d := range [][2]float64{{px, py}, {qx, qy}} {
			out = append(out,
				geom.XY{X: v.X + d[0]*r, Y: v.Y + d[1]*r},
				geom.XY{X: v.X - d[0]*r, Y: v.Y - d[1]*r},
			)
		}
		if px*qx+py*qy < 0 {
			bx, by := px+qx, py+qy
			if l := math.Hypot(bx, by); l > 0 {
				out = append(out,
					geom.XY{X: v.X + bx/l*r, Y: v.Y + by/l*r},
					geom.XY{X: v.X - bx/l*r, Y: v.Y - by/l*r},
				)
			}
		}
	}
	return out
}
