package container

import (
	app "detection-eval/internal/application"
	"detection-eval/internal/domain/port"
)

type Container struct {
	SessionService    *app.SessionService
	EvaluationService *app.EvaluationService
}

func New(sessionRepo port.SessionRepository, evaluator port.Evaluator, detector port.RegionDetector) *Container {
	sessionService := app.NewSessionService(sessionRepo)
	evaluationService := app.NewEvaluationService(sessionService, sessionRepo, evaluator, detector)

	return &Container{
		SessionService:    sessionService,
		EvaluationService: evaluationService,
	}
}
