package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"detection-eval/internal/domain/entity"
	"detection-eval/internal/evaluation"
)

type Config struct {
	TelegramToken string

	PrecisionThreshold float64
	RecallThreshold    float64
	ScatterPunishment  float64

	// DetectorMinArea минимальная площадь контура детектора, в пикселях.
	DetectorMinArea int
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		TelegramToken:      os.Getenv("TELEGRAM_TOKEN"),
		PrecisionThreshold: evaluation.DefaultPrecisionThreshold,
		RecallThreshold:    evaluation.DefaultRecallThreshold,
		ScatterPunishment:  evaluation.DefaultScatterPunishment,
		DetectorMinArea:    100,
	}

	if err := floatEnv("EVAL_PRECISION_THRESHOLD", &cfg.PrecisionThreshold); err != nil {
		return nil, err
	}
	if err := floatEnv("EVAL_RECALL_THRESHOLD", &cfg.RecallThreshold); err != nil {
		return nil, err
	}
	if err := floatEnv("EVAL_SCATTER_PUNISHMENT", &cfg.ScatterPunishment); err != nil {
		return nil, err
	}
	if v := os.Getenv("DETECTOR_MIN_AREA"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%w: DETECTOR_MIN_AREA=%q", entity.ErrConfiguration, v)
		}
		cfg.DetectorMinArea = n
	}

	if cfg.ScatterPunishment < 0 || cfg.ScatterPunishment > 1 {
		return nil, fmt.Errorf("%w: EVAL_SCATTER_PUNISHMENT %v is outside [0, 1]", entity.ErrConfiguration, cfg.ScatterPunishment)
	}
	if err := cfg.Params().Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Params параметры оценщика из конфигурации.
func (c *Config) Params() evaluation.Params {
	return evaluation.Params{
		PrecisionThreshold: c.PrecisionThreshold,
		RecallThreshold:    c.RecallThreshold,
		ScatterPunishment:  evaluation.ConstantPunishment(c.ScatterPunishment),
	}
}

func floatEnv(key string, dst *float64) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%w: %s=%q", entity.ErrConfiguration, key, v)
	}
	*dst = f
	return nil
}
