package evaluation

import (
	"fmt"

	"detection-eval/internal/domain/entity"
)

const (
	DefaultPrecisionThreshold = 0.4
	DefaultRecallThreshold    = 0.8
	DefaultScatterPunishment  = 0.8
)

// ScatterPunishment f_sc(k): доля зачёта для разбиения или слияния из k областей.
type ScatterPunishment func(groupSize int) float64

// ConstantPunishment не зависит от размера группы.
func ConstantPunishment(credit float64) ScatterPunishment {
	return func(int) float64 { return credit }
}

// Params параметры оценки Wolf & Jolion.
type Params struct {
	PrecisionThreshold float64 // t_p
	RecallThreshold    float64 // t_r
	ScatterPunishment  ScatterPunishment
}

// DefaultParams пороги 0.4 / 0.8 и постоянный штраф 0.8.
func DefaultParams() Params {
	return Params{
		PrecisionThreshold: DefaultPrecisionThreshold,
		RecallThreshold:    DefaultRecallThreshold,
		ScatterPunishment:  ConstantPunishment(DefaultScatterPunishment),
	}
}

// Validate проверяет, что оба порога лежат строго внутри (0, 1).
func (p Params) Validate() error {
	if !(p.PrecisionThreshold > 0 && p.PrecisionThreshold < 1) {
		return fmt.Errorf("%w: precision threshold %v is outside (0, 1)", entity.ErrConfiguration, p.PrecisionThreshold)
	}
	if !(p.RecallThreshold > 0 && p.RecallThreshold < 1) {
		return fmt.Errorf("%w: recall threshold %v is outside (0, 1)", entity.ErrConfiguration, p.RecallThreshold)
	}
	if p.ScatterPunishment == nil {
		return fmt.Errorf("%w: scatter punishment is not set", entity.ErrConfiguration)
	}
	return nil
}
