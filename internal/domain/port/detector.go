package port

import (
	"context"

	"detection-eval/internal/domain/entity"
)

// RegionDetector интерфейс детектора областей
type RegionDetector interface {
	// Detect находит области на изображении и возвращает их контуры
	Detect(ctx context.Context, imageData []byte) ([]entity.Shape, error)

	// HighlightRegions рисует разметку и детекции поверх изображения
	HighlightRegions(imageData []byte, groundTruths, detections []entity.Shape) ([]byte, error)
}
