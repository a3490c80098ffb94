package port

import "detection-eval/internal/domain/entity"

// Evaluator интерфейс оценщика детекций
type Evaluator interface {
	// Evaluate сравнивает разметку одного снимка с детекциями
	Evaluate(groundTruths, detections []entity.Shape) (entity.MatchResult, error)

	// Classify возвращает принятые совпадения с наборами индексов
	Classify(groundTruths, detections []entity.Shape) (entity.Classification, error)
}
