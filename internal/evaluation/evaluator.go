package evaluation

import (
	"log"

	"detection-eval/internal/domain/entity"
	"detection-eval/internal/domain/port"
	"detection-eval/internal/infrastructure/geometry"
)

// ObjectAreaEvaluator сравнивает разметку с детекциями по методу Wolf & Jolion
// ("Object count/Area Graphs for the Evaluation of Object Detection and
// Segmentation Algorithms").
//
// Не хранит состояния между вызовами, безопасен для параллельного использования.
type ObjectAreaEvaluator struct {
	params     Params
	normalizer geometry.Normalizer
}

// Option настройка оценщика.
type Option func(*ObjectAreaEvaluator)

// WithLogger включает предупреждения о ремонте форм нулевой площади.
func WithLogger(logger *log.Logger) Option {
	return func(e *ObjectAreaEvaluator) {
		e.normalizer.Logger = logger
	}
}

// NewObjectAreaEvaluator проверяет параметры и создаёт оценщик.
func NewObjectAreaEvaluator(params Params, opts ...Option) (*ObjectAreaEvaluator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	e := &ObjectAreaEvaluator{params: params}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Params параметры, с которыми создан оценщик.
func (e *ObjectAreaEvaluator) Params() Params {
	return e.params
}

// Evaluate возвращает точность, полноту и массы совпадений для одного снимка.
func (e *ObjectAreaEvaluator) Evaluate(groundTruths, detections []entity.Shape) (entity.MatchResult, error) {
	c, err := e.Classify(groundTruths, detections)
	if err != nil {
		return entity.MatchResult{}, err
	}
	return Aggregate(c), nil
}

// Classify возвращает принятые совпадения с точными наборами индексов.
func (e *ObjectAreaEvaluator) Classify(groundTruths, detections []entity.Shape) (entity.Classification, error) {
	o, gtCount, detCount, err := e.overlaps(groundTruths, detections)
	if err != nil {
		return entity.Classification{}, err
	}
	if o == nil {
		return entity.Classification{GroundTruthCount: gtCount, DetectionCount: detCount}, nil
	}
	return Resolve(*o, e.params), nil
}

// MatchDetections для каждой области разметки и каждой детекции возвращает
// партнёров, прошедших порог точности или порог полноты.
func (e *ObjectAreaEvaluator) MatchDetections(groundTruths, detections []entity.Shape) (entity.Matches, error) {
	o, gtCount, detCount, err := e.overlaps(groundTruths, detections)
	if err != nil {
		return entity.Matches{}, err
	}
	if o == nil {
		return entity.Matches{
			GroundTruths: make([][]int, gtCount),
			Detections:   make([][]int, detCount),
		}, nil
	}
	return partners(*o, e.params), nil
}

// overlaps нормализует формы и строит матрицы. nil без ошибки — одна из
// сторон пуста и матрицы не строятся.
func (e *ObjectAreaEvaluator) overlaps(groundTruths, detections []entity.Shape) (*Overlaps, int, int, error) {
	gts, dets, err := e.normalizer.Normalize(groundTruths, detections)
	if err != nil {
		return nil, 0, 0, err
	}
	if len(gts) == 0 || len(dets) == 0 {
		return nil, len(gts), len(dets), nil
	}

	o, err := BuildOverlaps(gts, dets)
	if err != nil {
		return nil, 0, 0, err
	}
	return &o, len(gts), len(dets), nil
}

// Проверка реализации интерфейса
var _ port.Evaluator = (*ObjectAreaEvaluator)(nil)
