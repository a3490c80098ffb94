//go:build !gocv
// +build !gocv

package vision

import (
	"context"
	"errors"

	"detection-eval/internal/domain/entity"
)

// ErrNotEnabled сборка без тега gocv.
var ErrNotEnabled = errors.New("gocv build tag is not enabled")

type ContourDetector struct {
	MinArea        float64
	ApproxEpsilon  float64
	MaxSide        int
	CannyThreshold [2]float32
}

// NewContourDetector создаёт детектор-заглушку (без OpenCV).
func NewContourDetector(minArea int) *ContourDetector {
	return &ContourDetector{
		MinArea:        float64(minArea),
		ApproxEpsilon:  0.01,
		MaxSide:        1024,
		CannyThreshold: [2]float32{50, 150},
	}
}

// Detect возвращает ошибку, если сборка без тега gocv.
func (d *ContourDetector) Detect(ctx context.Context, imageData []byte) ([]entity.Shape, error) {
	_ = imageData
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return nil, ErrNotEnabled
}

// HighlightRegions возвращает ошибку, если сборка без тега gocv.
func (d *ContourDetector) HighlightRegions(imageData []byte, groundTruths, detections []entity.Shape) ([]byte, error) {
	_ = imageData
	_ = groundTruths
	_ = detections
	return nil, ErrNotEnabled
}
