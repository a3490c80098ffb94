package geometry

import (
	"fmt"
	"log"

	"detection-eval/internal/domain/entity"
)

// Normalizer приводит входные формы к полигонам и отсеивает вырожденную разметку.
type Normalizer struct {
	// Logger получает предупреждения о ремонте нулевой площади. nil — молча.
	Logger *log.Logger
}

// Normalize строит полигоны разметки и детекций.
// Области разметки с нулевым периметром (метки "не учитывать") отбрасываются,
// детекции не отбрасываются никогда.
func (n Normalizer) Normalize(groundTruths, detections []entity.Shape) ([]*Polygon, []*Polygon, error) {
	gts := make([]*Polygon, 0, len(groundTruths))
	for i, s := range groundTruths {
		p, err := n.polygon(s)
		if err != nil {
			return nil, nil, fmt.Errorf("ground truth %d: %w", i, err)
		}
		if p.Length() == 0 {
			continue
		}
		if p.Repaired() {
			n.warn("ground truth %d has zero area, buffered to %.4f", i, p.Area())
		}
		gts = append(gts, p)
	}

	dets := make([]*Polygon, 0, len(detections))
	for i, s := range detections {
		p, err := n.polygon(s)
		if err != nil {
			return nil, nil, fmt.Errorf("detection %d: %w", i, err)
		}
		if p.Repaired() {
			n.warn("detection %d has zero area, buffered to %.4f", i, p.Area())
		}
		dets = append(dets, p)
	}

	return gts, dets, nil
}

func (n Normalizer) polygon(s entity.Shape) (*Polygon, error) {
	switch v := s.(type) {
	case entity.RawPoints:
		return NewPolygon(v)
	case entity.PreparedPolygon:
		return FromOrb(v.Polygon)
	case nil:
		return nil, fmt.Errorf("%w: nil shape", entity.ErrInvalidGeometry)
	default:
		return nil, fmt.Errorf("%w: unsupported shape %T", entity.ErrInvalidGeometry, s)
	}
}

func (n Normalizer) warn(format string, args ...any) {
	if n.Logger != nil {
		n.Logger.Printf(format, args...)
	}
}
