package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"detection-eval/internal/domain/entity"
	"detection-eval/internal/evaluation"
	"detection-eval/internal/infrastructure/storage"
)

type fakeDetector struct {
	regions      []entity.Shape
	err          error
	highlightErr error

	// onDetect вызывается внутри Detect, пока идёт оценка.
	onDetect func()
}

func (d *fakeDetector) Detect(ctx context.Context, imageData []byte) ([]entity.Shape, error) {
	if d.onDetect != nil {
		d.onDetect()
	}
	return d.regions, d.err
}

func (d *fakeDetector) HighlightRegions(imageData []byte, groundTruths, detections []entity.Shape) ([]byte, error) {
	if d.highlightErr != nil {
		return nil, d.highlightErr
	}
	return []byte("highlighted"), nil
}

func newService(t *testing.T, detector *fakeDetector) (*EvaluationService, *SessionService) {
	t.Helper()
	repo := storage.NewMemorySessionRepository()
	sessions := NewSessionService(repo)
	evaluator, err := evaluation.NewObjectAreaEvaluator(evaluation.DefaultParams())
	require.NoError(t, err)
	if detector == nil {
		return NewEvaluationService(sessions, repo, evaluator, nil), sessions
	}
	return NewEvaluationService(sessions, repo, evaluator, detector), sessions
}

func TestEvaluationService_EvaluateDocument(t *testing.T) {
	svc, sessions := newService(t, nil)
	ctx := context.Background()

	_, err := sessions.BeginEvaluate(ctx, 1, 10)
	require.NoError(t, err)

	out, err := svc.EvaluateDocument(ctx, 1, 10, []byte(`{
		"ground_truths": [[[0,0],[10,0],[10,10],[0,10]]],
		"detections": [[[0,0],[10,0],[10,10],[0,10]], [[50,50],[60,50],[60,60],[50,60]]]
	}`))
	require.NoError(t, err)
	require.Equal(t, 0.5, out.Result.Precision)
	require.Equal(t, 1.0, out.Result.Recall)
	require.Equal(t, []entity.Pair{{GroundTruth: 0, Detection: 0}}, out.Classification.OneToOne)
	require.Equal(t, 1, out.Summary.Units)

	session, err := sessions.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, session.State)
	require.Equal(t, 2.0, session.Summary.DetectionCount)
}

func TestEvaluationService_EvaluateDocumentInvalidGeometry(t *testing.T) {
	svc, _ := newService(t, nil)

	_, err := svc.EvaluateDocument(context.Background(), 1, 10, []byte(`{
		"ground_truths": [[[0,0],[10,0]]],
		"detections": [[[0,0],[10,0],[10,10]]]
	}`))
	require.ErrorIs(t, err, entity.ErrInvalidGeometry)
}

func TestEvaluationService_CheckFlow(t *testing.T) {
	detector := &fakeDetector{regions: []entity.Shape{entity.Rect(0, 0, 5, 10), entity.Rect(5, 0, 10, 10)}}
	svc, sessions := newService(t, detector)
	ctx := context.Background()

	_, err := sessions.BeginCheck(ctx, 1, 10)
	require.NoError(t, err)

	session, err := svc.AcceptGroundTruth(ctx, 1, 10, []byte(`[[[0,0],[10,0],[10,10],[0,10]]]`))
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, session.State)
	require.Len(t, session.GroundTruths, 1)

	out, err := svc.ProcessPhoto(ctx, 1, 10, []byte("photo"))
	require.NoError(t, err)
	require.Len(t, out.Classification.Splits, 1)
	require.Equal(t, []int{0, 1}, out.Classification.Splits[0].Detections)
	require.InDelta(t, 0.8, out.Result.Recall, 1e-9)
	require.InDelta(t, 0.8, out.Result.Precision, 1e-9)
	require.Equal(t, []byte("highlighted"), out.Highlighted)

	session, err = sessions.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, session.State)
	require.Nil(t, session.GroundTruths)
}

func TestEvaluationService_ProcessPhotoWithoutGroundTruth(t *testing.T) {
	svc, _ := newService(t, &fakeDetector{})

	_, err := svc.ProcessPhoto(context.Background(), 1, 10, []byte("photo"))
	require.Error(t, err)
}

func TestEvaluationService_DetectorError(t *testing.T) {
	detector := &fakeDetector{err: errors.New("boom")}
	svc, _ := newService(t, detector)
	ctx := context.Background()

	_, err := svc.AcceptGroundTruth(ctx, 1, 10, []byte(`[[[0,0],[10,0],[10,10]]]`))
	require.NoError(t, err)

	_, err = svc.ProcessPhoto(ctx, 1, 10, []byte("photo"))
	require.EqualError(t, err, "boom")
}

func TestEvaluationService_ProcessingStateDuringDetection(t *testing.T) {
	detector := &fakeDetector{regions: []entity.Shape{entity.Rect(0, 0, 10, 10)}}
	svc, sessions := newService(t, detector)
	ctx := context.Background()

	var during entity.SessionState
	var nested error
	detector.onDetect = func() {
		session, err := sessions.Get(ctx, 1, 10)
		require.NoError(t, err)
		during = session.State
		_, nested = svc.ProcessPhoto(ctx, 1, 10, []byte("photo"))
	}

	_, err := svc.AcceptGroundTruth(ctx, 1, 10, []byte(`[[[0,0],[10,0],[10,10],[0,10]]]`))
	require.NoError(t, err)

	out, err := svc.ProcessPhoto(ctx, 1, 10, []byte("photo"))
	require.NoError(t, err)
	require.Equal(t, 1.0, out.Result.Recall)
	require.Equal(t, entity.StateProcessing, during)
	require.ErrorIs(t, nested, ErrBusy)

	session, err := sessions.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateMainMenu, session.State)
}

func TestEvaluationService_FailedDetectionRestoresState(t *testing.T) {
	detector := &fakeDetector{err: errors.New("boom")}
	svc, sessions := newService(t, detector)
	ctx := context.Background()

	_, err := svc.AcceptGroundTruth(ctx, 1, 10, []byte(`[[[0,0],[10,0],[10,10]]]`))
	require.NoError(t, err)

	_, err = svc.ProcessPhoto(ctx, 1, 10, []byte("photo"))
	require.Error(t, err)

	session, err := sessions.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingPhoto, session.State)
	require.Len(t, session.GroundTruths, 1)
}

func TestEvaluationService_InvalidDocumentRestoresState(t *testing.T) {
	svc, sessions := newService(t, nil)
	ctx := context.Background()

	_, err := sessions.BeginEvaluate(ctx, 1, 10)
	require.NoError(t, err)

	_, err = svc.EvaluateDocument(ctx, 1, 10, []byte(`{
		"ground_truths": [[[0,0],[10,0]]],
		"detections": [[[0,0],[10,0],[10,10]]]
	}`))
	require.ErrorIs(t, err, entity.ErrInvalidGeometry)

	session, err := sessions.Get(ctx, 1, 10)
	require.NoError(t, err)
	require.Equal(t, entity.StateAwaitingAnnotations, session.State)
}

func TestEvaluationService_HighlightErrorKeepsResult(t *testing.T) {
	detector := &fakeDetector{
		regions:      []entity.Shape{entity.Rect(0, 0, 10, 10)},
		highlightErr: errors.New("no opencv"),
	}
	svc, _ := newService(t, detector)
	ctx := context.Background()

	_, err := svc.AcceptGroundTruth(ctx, 1, 10, []byte(`[[[0,0],[10,0],[10,10],[0,10]]]`))
	require.NoError(t, err)

	out, err := svc.ProcessPhoto(ctx, 1, 10, []byte("photo"))
	require.NoError(t, err)
	require.Nil(t, out.Highlighted)
	require.Equal(t, 1.0, out.Result.Precision)
}

func TestEvaluationService_NoDetector(t *testing.T) {
	svc, _ := newService(t, nil)

	_, err := svc.ProcessPhoto(context.Background(), 1, 10, []byte("photo"))
	require.Error(t, err)
}
