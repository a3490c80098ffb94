package evaluation

import "detection-eval/internal/domain/entity"

func shapes(polys ...entity.RawPoints) []entity.Shape {
	out := make([]entity.Shape, len(polys))
	for i, p := range polys {
		out[i] = p
	}
	return out
}

var groundTruths = shapes(
	entity.RawPoints{{2, 2}, {9, 2}, {9, 4}, {2, 4}},
	entity.RawPoints{{5, 7}, {20, 7}, {20, 11}, {5, 11}},
	entity.RawPoints{{3, 13}, {11, 13}, {11, 15}, {3, 15}},
	entity.RawPoints{{4, 16}, {8, 16}, {8, 19}, {4, 19}},
	entity.RawPoints{{9, 20}, {12, 20}, {12, 22}, {9, 22}},
)

var detections = shapes(
	entity.RawPoints{{13, 2}, {19, 2}, {19, 5}, {13, 5}},
	entity.RawPoints{{3, 7}, {8, 7}, {8, 11}, {3, 11}},
	entity.RawPoints{{10, 7}, {20, 7}, {20, 11}, {10, 11}},
	entity.RawPoints{{3, 13}, {10, 13}, {10, 19}, {3, 19}},
	entity.RawPoints{{9, 20}, {12, 20}, {12, 22}, {9, 22}},
	entity.RawPoints{{17, 17}, {20, 17}, {20, 20}, {17, 20}},
	entity.RawPoints{{17, 10}, {19, 10}, {19, 15}, {17, 15}},
)

var precisionMatrix = [][]float64{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 0.6, 1, 0, 0, 0, 0.2},
	{0, 0, 0, 1.0 / 3.0, 0, 0, 0},
	{0, 0, 0, 2.0 / 7.0, 0, 0, 0},
	{0, 0, 0, 0, 1, 0, 0},
}

var recallMatrix = [][]float64{
	{0, 0, 0, 0, 0, 0, 0},
	{0, 0.2, 2.0 / 3.0, 0, 0, 0, 1.0 / 30.0},
	{0, 0, 0, 0.875, 0, 0, 0},
	{0, 0, 0, 1, 0, 0, 0},
	{0, 0, 0, 0, 1, 0, 0},
}
