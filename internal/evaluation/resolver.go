package evaluation

import (
	"gonum.org/v1/gonum/mat"

	"detection-eval/internal/domain/entity"
)

// matchSets партнёры, прошедшие порог по одной матрице.
type matchSets struct {
	byGroundTruth [][]int // для каждой разметки — индексы детекций
	byDetection   [][]int // для каждой детекции — индексы разметки
}

func thresholdSets(m *mat.Dense, threshold float64) matchSets {
	rows, cols := m.Dims()
	sets := matchSets{
		byGroundTruth: make([][]int, rows),
		byDetection:   make([][]int, cols),
	}
	for g := 0; g < rows; g++ {
		for d := 0; d < cols; d++ {
			if m.At(g, d) >= threshold {
				sets.byGroundTruth[g] = append(sets.byGroundTruth[g], d)
				sets.byDetection[d] = append(sets.byDetection[d], g)
			}
		}
	}
	return sets
}

// oneToOne пары, где каждый — единственный партнёр другого.
func (s matchSets) oneToOne() map[entity.Pair]struct{} {
	pairs := make(map[entity.Pair]struct{})
	for g, dets := range s.byGroundTruth {
		if len(dets) != 1 {
			continue
		}
		d := dets[0]
		if len(s.byDetection[d]) == 1 && s.byDetection[d][0] == g {
			pairs[entity.Pair{GroundTruth: g, Detection: d}] = struct{}{}
		}
	}
	return pairs
}

// Resolve классифицирует совпадения.
//
// Взаимно однозначная пара должна быть такой одновременно по матрице точности
// и по матрице полноты. Разбиение принимается, если детекции из набора по
// точности вместе покрывают разметку не меньше чем на RecallThreshold;
// слияние симметрично.
func Resolve(o Overlaps, p Params) entity.Classification {
	rows, cols := o.Precision.Dims()
	byPrecision := thresholdSets(o.Precision, p.PrecisionThreshold)
	byRecall := thresholdSets(o.Recall, p.RecallThreshold)

	c := entity.Classification{GroundTruthCount: rows, DetectionCount: cols}

	precisionPairs := byPrecision.oneToOne()
	recallPairs := byRecall.oneToOne()
	// Обход по строкам, чтобы порядок пар не зависел от обхода map.
	for g, dets := range byPrecision.byGroundTruth {
		if len(dets) != 1 {
			continue
		}
		pair := entity.Pair{GroundTruth: g, Detection: dets[0]}
		_, inPrecision := precisionPairs[pair]
		_, inRecall := recallPairs[pair]
		if inPrecision && inRecall {
			c.OneToOne = append(c.OneToOne, pair)
		}
	}

	for g, dets := range byPrecision.byGroundTruth {
		if len(dets) < 2 {
			continue
		}
		var covered float64
		for _, d := range dets {
			covered += o.Recall.At(g, d)
		}
		if covered < p.RecallThreshold {
			continue
		}
		k := len(dets)
		credit := p.ScatterPunishment(k)
		c.Splits = append(c.Splits, entity.Split{
			GroundTruth:       g,
			Detections:        dets,
			GroundTruthCredit: credit,
			DetectionCredit:   float64(k) * credit,
		})
	}

	for d, gts := range byRecall.byDetection {
		if len(gts) < 2 {
			continue
		}
		var covered float64
		for _, g := range gts {
			covered += o.Precision.At(g, d)
		}
		if covered < p.PrecisionThreshold {
			continue
		}
		k := len(gts)
		credit := p.ScatterPunishment(k)
		c.Merges = append(c.Merges, entity.Merge{
			Detection:         d,
			GroundTruths:      gts,
			GroundTruthCredit: float64(k) * credit,
			DetectionCredit:   credit,
		})
	}

	return c
}

// partners объединение наборов по точности и по полноте, по возрастанию индексов.
func partners(o Overlaps, p Params) entity.Matches {
	byPrecision := thresholdSets(o.Precision, p.PrecisionThreshold)
	byRecall := thresholdSets(o.Recall, p.RecallThreshold)
	return entity.Matches{
		GroundTruths: union(byPrecision.byGroundTruth, byRecall.byGroundTruth),
		Detections:   union(byPrecision.byDetection, byRecall.byDetection),
	}
}

func union(a, b [][]int) [][]int {
	out := make([][]int, len(a))
	for i := range a {
		out[i] = mergeSorted(a[i], b[i])
	}
	return out
}

func mergeSorted(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		switch {
		case j == len(b) || (i < len(a) && a[i] < b[j]):
			out = append(out, a[i])
			i++
		case i == len(a) || b[j] < a[i]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
