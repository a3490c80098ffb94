package app

import (
	"context"
	"errors"
	"log"

	"detection-eval/internal/domain/entity"
	"detection-eval/internal/domain/port"
	"detection-eval/internal/evaluation"
)

// ErrBusy оценка для пользователя уже идёт.
var ErrBusy = errors.New("evaluation is already in progress")

type EvaluationService struct {
	sessions  *SessionService
	repo      port.SessionRepository
	evaluator port.Evaluator
	detector  port.RegionDetector
}

// EvaluationOutput содержит оценку снимка, разбор совпадений и картинку с подсветкой.
type EvaluationOutput struct {
	Result         entity.MatchResult
	Classification entity.Classification
	Summary        entity.Summary
	Highlighted    []byte
}

// NewEvaluationService создаёт сервис оценки детекций.
func NewEvaluationService(sessions *SessionService, repo port.SessionRepository, evaluator port.Evaluator, detector port.RegionDetector) *EvaluationService {
	return &EvaluationService{
		sessions:  sessions,
		repo:      repo,
		evaluator: evaluator,
		detector:  detector,
	}
}

// EvaluateDocument оценивает документ с разметкой и детекциями и возвращает пользователя в меню.
func (s *EvaluationService) EvaluateDocument(ctx context.Context, userID, chatID int64, data []byte) (*EvaluationOutput, error) {
	groundTruths, detections, err := ParseAnnotations(data)
	if err != nil {
		return nil, err
	}

	restore, err := s.beginProcessing(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	out, err := s.evaluate(groundTruths, detections)
	if err != nil {
		restore()
		return nil, err
	}

	session, err := s.record(ctx, userID, chatID, out.Result)
	if err != nil {
		return nil, err
	}
	out.Summary = session.Summary
	return out, nil
}

// AcceptGroundTruth запоминает эталонную разметку и ждёт снимок.
func (s *EvaluationService) AcceptGroundTruth(ctx context.Context, userID, chatID int64, data []byte) (*entity.Session, error) {
	groundTruths, err := ParseGroundTruth(data)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.SetState(ctx, userID, chatID, entity.StateAwaitingPhoto)
	if err != nil {
		return nil, err
	}
	session.GroundTruths = groundTruths
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ProcessPhoto запускает детектор на снимке и сравнивает найденное с сохранённой разметкой.
func (s *EvaluationService) ProcessPhoto(ctx context.Context, userID, chatID int64, photo []byte) (*EvaluationOutput, error) {
	if s.detector == nil {
		return nil, errors.New("detector is not configured")
	}

	session, err := s.sessions.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if session.GroundTruths == nil {
		return nil, errors.New("ground truth is not found")
	}
	groundTruths := session.GroundTruths

	restore, err := s.beginProcessing(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	detections, err := s.detector.Detect(ctx, photo)
	if err != nil {
		restore()
		return nil, err
	}

	out, err := s.evaluate(groundTruths, detections)
	if err != nil {
		restore()
		return nil, err
	}

	out.Highlighted, err = s.detector.HighlightRegions(photo, groundTruths, detections)
	if err != nil {
		log.Printf("Error highlighting regions: %v", err)
	}

	session, err = s.record(ctx, userID, chatID, out.Result)
	if err != nil {
		return nil, err
	}
	out.Summary = session.Summary
	return out, nil
}

// beginProcessing переводит сессию в StateProcessing. Возвращённая функция
// возвращает прежнее состояние, если оценка не удалась: пользователь может
// прислать исправленный документ или другое фото.
func (s *EvaluationService) beginProcessing(ctx context.Context, userID, chatID int64) (func(), error) {
	session, err := s.sessions.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}
	if session.State == entity.StateProcessing {
		return nil, ErrBusy
	}
	prev := session.State

	if err := s.repo.UpdateState(ctx, userID, entity.StateProcessing); err != nil {
		return nil, err
	}
	return func() {
		if err := s.repo.UpdateState(ctx, userID, prev); err != nil {
			log.Printf("Error restoring state for user %d: %v", userID, err)
		}
	}, nil
}

func (s *EvaluationService) evaluate(groundTruths, detections []entity.Shape) (*EvaluationOutput, error) {
	if s.evaluator == nil {
		return nil, errors.New("evaluator is not configured")
	}

	c, err := s.evaluator.Classify(groundTruths, detections)
	if err != nil {
		return nil, err
	}

	return &EvaluationOutput{Result: evaluation.Aggregate(c), Classification: c}, nil
}

// record добавляет результат в статистику и возвращает пользователя в меню.
func (s *EvaluationService) record(ctx context.Context, userID, chatID int64, result entity.MatchResult) (*entity.Session, error) {
	session, err := s.sessions.Get(ctx, userID, chatID)
	if err != nil {
		return nil, err
	}

	session.Summary.Add(result)
	session.SetState(entity.StateMainMenu)
	if err := s.repo.Save(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}
