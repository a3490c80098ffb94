package main

import (
	"log"
	"os"

	"detection-eval/config"
	telegram "detection-eval/internal/api"
	"detection-eval/internal/container"
	"detection-eval/internal/evaluation"
	"detection-eval/internal/infrastructure/storage"
	"detection-eval/internal/infrastructure/vision"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if cfg.TelegramToken == "" {
		log.Fatal("TELEGRAM_TOKEN is required")
	}

	// Оценщик пишет предупреждения о ремонте вырожденных областей в общий лог
	evaluator, err := evaluation.NewObjectAreaEvaluator(cfg.Params(),
		evaluation.WithLogger(log.New(os.Stderr, "evaluation: ", log.LstdFlags)))
	if err != nil {
		log.Fatalf("Failed to create evaluator: %v", err)
	}

	// Создаём хранилище сессий
	sessionRepo := storage.NewMemorySessionRepository()

	// Собираем сервисы приложения
	appContainer := container.New(sessionRepo, evaluator, vision.NewContourDetector(cfg.DetectorMinArea))

	// Создаём бота
	bot, err := telegram.NewBot(cfg.TelegramToken, appContainer)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}

	log.Printf("Bot is running (t_p=%.2f, t_r=%.2f, f_sc=%.2f)...",
		cfg.PrecisionThreshold, cfg.RecallThreshold, cfg.ScatterPunishment)
	if err := bot.Run(); err != nil {
		log.Fatalf("Bot error: %v", err)
	}
}
