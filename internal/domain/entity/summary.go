package entity

// Summary копит массы совпадений по нескольким снимкам.
type Summary struct {
	Units               int
	MatchedDetections   float64
	DetectionCount      float64
	MatchedGroundTruths float64
	GroundTruthCount    float64
}

// Add учитывает результат ещё одного снимка.
func (s *Summary) Add(r MatchResult) {
	s.Units++
	s.MatchedDetections += r.MatchedDetections
	s.DetectionCount += r.DetectionCount
	s.MatchedGroundTruths += r.MatchedGroundTruths
	s.GroundTruthCount += r.GroundTruthCount
}

// Precision средняя точность по всем детекциям.
func (s Summary) Precision() float64 {
	if s.DetectionCount == 0 {
		return 0
	}
	return s.MatchedDetections / s.DetectionCount
}

// Recall средняя полнота по всем областям разметки.
func (s Summary) Recall() float64 {
	if s.GroundTruthCount == 0 {
		return 0
	}
	return s.MatchedGroundTruths / s.GroundTruthCount
}
