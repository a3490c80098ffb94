package evaluation

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"detection-eval/internal/domain/entity"
)

func newEvaluator(t *testing.T, p Params) *ObjectAreaEvaluator {
	t.Helper()
	e, err := NewObjectAreaEvaluator(p)
	require.NoError(t, err)
	return e
}

func requireResult(t *testing.T, want, got entity.MatchResult) {
	t.Helper()
	require.InDelta(t, want.Precision, got.Precision, 1e-9, "precision")
	require.InDelta(t, want.Recall, got.Recall, 1e-9, "recall")
	require.InDelta(t, want.MatchedDetections, got.MatchedDetections, 1e-9, "matched detections")
	require.Equal(t, want.DetectionCount, got.DetectionCount, "detection count")
	require.InDelta(t, want.MatchedGroundTruths, got.MatchedGroundTruths, 1e-9, "matched ground truths")
	require.Equal(t, want.GroundTruthCount, got.GroundTruthCount, "ground truth count")
}

func TestEvaluate_FixtureFullCredit(t *testing.T) {
	p := DefaultParams()
	p.ScatterPunishment = ConstantPunishment(1)

	got, err := newEvaluator(t, p).Evaluate(groundTruths, detections)
	require.NoError(t, err)

	require.Equal(t, entity.MatchResult{
		Precision:           0.5714285714285714,
		Recall:              0.8,
		MatchedDetections:   4,
		DetectionCount:      7,
		MatchedGroundTruths: 4,
		GroundTruthCount:    5,
	}, got)
}

func TestEvaluate_FixtureDefaultPunishment(t *testing.T) {
	got, err := newEvaluator(t, DefaultParams()).Evaluate(groundTruths, detections)
	require.NoError(t, err)

	// Одна пара 1:1, разбиение (0.8 / 1.6) и слияние (1.6 / 0.8).
	requireResult(t, entity.MatchResult{
		Precision:           3.4 / 7,
		Recall:              3.4 / 5,
		MatchedDetections:   3.4,
		DetectionCount:      7,
		MatchedGroundTruths: 3.4,
		GroundTruthCount:    5,
	}, got)
}

func TestEvaluate_PerfectMatch(t *testing.T) {
	square := entity.RawPoints{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	got, err := newEvaluator(t, DefaultParams()).Evaluate(shapes(square), shapes(square))
	require.NoError(t, err)

	require.Equal(t, entity.MatchResult{
		Precision: 1, Recall: 1,
		MatchedDetections: 1, DetectionCount: 1,
		MatchedGroundTruths: 1, GroundTruthCount: 1,
	}, got)
}

func TestEvaluate_Disjoint(t *testing.T) {
	got, err := newEvaluator(t, DefaultParams()).Evaluate(
		shapes(entity.RawPoints{{0, 0}, {1, 0}, {1, 1}, {0, 1}}),
		shapes(entity.RawPoints{{100, 100}, {101, 100}, {101, 101}, {100, 101}}),
	)
	require.NoError(t, err)
	require.Equal(t, entity.MatchResult{DetectionCount: 1, GroundTruthCount: 1}, got)
}

func TestEvaluate_NoDetections(t *testing.T) {
	e := newEvaluator(t, DefaultParams())

	got, err := e.Evaluate(shapes(entity.Rect(0, 0, 5, 5)), nil)
	require.NoError(t, err)
	require.Equal(t, entity.MatchResult{GroundTruthCount: 1}, got)

	got, err = e.Evaluate(groundTruths, nil)
	require.NoError(t, err)
	require.Equal(t, entity.MatchResult{GroundTruthCount: 5}, got)
}

func TestEvaluate_NoGroundTruths(t *testing.T) {
	got, err := newEvaluator(t, DefaultParams()).Evaluate(nil, detections)
	require.NoError(t, err)
	require.Equal(t, entity.MatchResult{DetectionCount: 7}, got)
}

func TestEvaluate_ZeroPerimeterGroundTruthIsPruned(t *testing.T) {
	marker := entity.RawPoints{{5, 5}, {5, 5}, {5, 5}}
	square := entity.Rect(0, 0, 10, 10)
	e := newEvaluator(t, DefaultParams())

	got, err := e.Evaluate(shapes(marker, square), shapes(square))
	require.NoError(t, err)
	require.Equal(t, 1.0, got.GroundTruthCount)
	require.Equal(t, 1.0, got.Recall)

	// Только метка: разметки не остаётся.
	got, err = e.Evaluate(shapes(marker), shapes(square))
	require.NoError(t, err)
	require.Equal(t, entity.MatchResult{DetectionCount: 1}, got)

	m, err := e.MatchDetections(shapes(marker, square), shapes(square))
	require.NoError(t, err)
	require.Equal(t, [][]int{{0}}, m.GroundTruths)
	require.Equal(t, [][]int{{0}}, m.Detections)
}

func TestEvaluate_DetectionsAreNeverPruned(t *testing.T) {
	marker := entity.RawPoints{{50, 50}}
	got, err := newEvaluator(t, DefaultParams()).Evaluate(shapes(entity.Rect(0, 0, 10, 10)), shapes(marker))
	require.NoError(t, err)
	require.Equal(t, 1.0, got.DetectionCount)
}

func TestEvaluate_InvalidGeometry(t *testing.T) {
	_, err := newEvaluator(t, DefaultParams()).Evaluate(
		shapes(entity.RawPoints{{0, 0}, {1, 1}}),
		shapes(entity.Rect(0, 0, 1, 1)),
	)
	require.ErrorIs(t, err, entity.ErrInvalidGeometry)
}

func TestEvaluate_Idempotent(t *testing.T) {
	e := newEvaluator(t, DefaultParams())
	first, err := e.Evaluate(groundTruths, detections)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]entity.MatchResult, 8)
	errs := make([]error, len(results))
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = e.Evaluate(groundTruths, detections)
		}(i)
	}
	wg.Wait()

	for i, r := range results {
		require.NoError(t, errs[i])
		require.Equal(t, first, r)
	}
}

func TestClassify_Fixture(t *testing.T) {
	c, err := newEvaluator(t, DefaultParams()).Classify(groundTruths, detections)
	require.NoError(t, err)

	require.Len(t, c.Splits, 1)
	require.Equal(t, 1, c.Splits[0].GroundTruth)
	require.Equal(t, []int{1, 2}, c.Splits[0].Detections)

	require.Equal(t, []entity.Pair{{GroundTruth: 4, Detection: 4}}, c.OneToOne)
}

func TestMatchDetections_Fixture(t *testing.T) {
	m, err := newEvaluator(t, DefaultParams()).MatchDetections(groundTruths, detections)
	require.NoError(t, err)

	require.Equal(t, [][]int{{}, {1, 2}, {3}, {3}, {4}}, m.GroundTruths)
	require.Equal(t, [][]int{{}, {1}, {1}, {2, 3}, {4}, {}, {}}, m.Detections)
}

func TestMatchDetections_NoDetections(t *testing.T) {
	m, err := newEvaluator(t, DefaultParams()).MatchDetections(groundTruths, nil)
	require.NoError(t, err)
	require.Len(t, m.GroundTruths, 5)
	require.Empty(t, m.Detections)
}

func TestNewObjectAreaEvaluator_RejectsThresholds(t *testing.T) {
	for _, tc := range []struct {
		name      string
		precision float64
		recall    float64
	}{
		{"zero precision", 0, 0.8},
		{"one precision", 1, 0.8},
		{"negative recall", 0.4, -0.1},
		{"recall above one", 0.4, 1.5},
	} {
		t.Run(tc.name, func(t *testing.T) {
			p := DefaultParams()
			p.PrecisionThreshold = tc.precision
			p.RecallThreshold = tc.recall
			_, err := NewObjectAreaEvaluator(p)
			require.ErrorIs(t, err, entity.ErrConfiguration)
		})
	}

	_, err := NewObjectAreaEvaluator(Params{PrecisionThreshold: 0.4, RecallThreshold: 0.8})
	require.ErrorIs(t, err, entity.ErrConfiguration)
}

func TestEvaluate_ZeroAreaThreePointShapes(t *testing.T) {
	segment := entity.RawPoints{{2, 5}, {8, 5}, {2, 5}}
	square := entity.Rect(0, 0, 10, 10)
	e := newEvaluator(t, DefaultParams())

	got, err := e.Evaluate(shapes(square), shapes(segment))
	require.NoError(t, err)
	require.Equal(t, 1.0, got.DetectionCount)
	require.Equal(t, 1.0, got.GroundTruthCount)

	got, err = e.Evaluate(shapes(segment), shapes(square))
	require.NoError(t, err)
	require.Equal(t, 1.0, got.GroundTruthCount)
	require.Equal(t, 1.0, got.DetectionCount)
}
