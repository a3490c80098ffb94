package entity

// MatchResult итог оценки одного снимка.
type MatchResult struct {
	Precision           float64
	Recall              float64
	MatchedDetections   float64 // сумма MatchD
	DetectionCount      float64 // |D|
	MatchedGroundTruths float64 // сумма MatchG
	GroundTruthCount    float64 // |G| после отсева вырожденных
}

// Pair взаимно однозначное совпадение разметки и детекции.
type Pair struct {
	GroundTruth int
	Detection   int
}

// Split одна область разметки покрыта несколькими детекциями.
type Split struct {
	GroundTruth       int
	Detections        []int
	GroundTruthCredit float64
	DetectionCredit   float64
}

// Merge одна детекция покрывает несколько областей разметки.
type Merge struct {
	Detection         int
	GroundTruths      []int
	GroundTruthCredit float64
	DetectionCredit   float64
}

// Classification разбор всех принятых совпадений.
// Индексы разметки считаются после отсева вырожденных областей.
type Classification struct {
	OneToOne         []Pair
	Splits           []Split
	Merges           []Merge
	GroundTruthCount int
	DetectionCount   int
}

// Matches списки партнёров для каждой области разметки и каждой детекции.
type Matches struct {
	GroundTruths [][]int
	Detections   [][]int
}
