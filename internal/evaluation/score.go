package evaluation

import "detection-eval/internal/domain/entity"

// Aggregate сводит классификацию в итоговые точность и полноту.
func Aggregate(c entity.Classification) entity.MatchResult {
	gtCount := float64(c.GroundTruthCount)
	detCount := float64(c.DetectionCount)
	if c.GroundTruthCount == 0 || c.DetectionCount == 0 {
		return degenerate(c.GroundTruthCount, c.DetectionCount)
	}

	matchedG := float64(len(c.OneToOne))
	matchedD := float64(len(c.OneToOne))
	for _, s := range c.Splits {
		matchedG += s.GroundTruthCredit
		matchedD += s.DetectionCredit
	}
	for _, m := range c.Merges {
		matchedG += m.GroundTruthCredit
		matchedD += m.DetectionCredit
	}

	return entity.MatchResult{
		Precision:           matchedD / detCount,
		Recall:              matchedG / gtCount,
		MatchedDetections:   matchedD,
		DetectionCount:      detCount,
		MatchedGroundTruths: matchedG,
		GroundTruthCount:    gtCount,
	}
}

// degenerate нулевой результат, когда одной из сторон нечего сравнивать.
func degenerate(groundTruths, detections int) entity.MatchResult {
	return entity.MatchResult{
		DetectionCount:   float64(detections),
		GroundTruthCount: float64(groundTruths),
	}
}
