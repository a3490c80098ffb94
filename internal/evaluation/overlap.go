package evaluation

import (
	"gonum.org/v1/gonum/mat"

	"detection-eval/internal/infrastructure/geometry"
)

// Overlaps матрицы перекрытий: строки — разметка, столбцы — детекции.
type Overlaps struct {
	// Precision[g][d] = area(G ∩ D) / area(D)
	Precision *mat.Dense
	// Recall[g][d] = area(G ∩ D) / area(G)
	Recall *mat.Dense
}

// BuildOverlaps считает обе матрицы. Оба списка должны быть непустыми.
// Отношения не обрезаются до [0, 1].
func BuildOverlaps(groundTruths, detections []*geometry.Polygon) (Overlaps, error) {
	precision := mat.NewDense(len(groundTruths), len(detections), nil)
	recall := mat.NewDense(len(groundTruths), len(detections), nil)

	for g, gt := range groundTruths {
		for d, det := range detections {
			overlap, err := gt.IntersectionArea(det)
			if err != nil {
				return Overlaps{}, err
			}
			precision.Set(g, d, overlap/det.Area())
			recall.Set(g, d, overlap/gt.Area())
		}
	}

	return Overlaps{Precision: precision, Recall: recall}, nil
}
