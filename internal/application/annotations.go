package app

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/paulmach/orb"

	"detection-eval/internal/domain/entity"
)

// ErrBadDocument документ с разметкой не удалось разобрать.
var ErrBadDocument = errors.New("bad annotation document")

// AnnotationDocument JSON-документ с областями одного снимка.
// Каждая область — массив вершин [x, y].
type AnnotationDocument struct {
	GroundTruths [][]orb.Point `json:"ground_truths"`
	Detections   [][]orb.Point `json:"detections"`
}

// ParseAnnotations разбирает документ с разметкой и детекциями.
func ParseAnnotations(data []byte) ([]entity.Shape, []entity.Shape, error) {
	var doc AnnotationDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	if doc.GroundTruths == nil && doc.Detections == nil {
		return nil, nil, fmt.Errorf("%w: neither ground_truths nor detections present", ErrBadDocument)
	}
	return toShapes(doc.GroundTruths), toShapes(doc.Detections), nil
}

// ParseGroundTruth разбирает документ, где важна только разметка.
// Допускается и голый массив областей.
func ParseGroundTruth(data []byte) ([]entity.Shape, error) {
	var regions [][]orb.Point
	if err := json.Unmarshal(data, &regions); err == nil {
		return toShapes(regions), nil
	}

	var doc AnnotationDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadDocument, err)
	}
	if doc.GroundTruths == nil {
		return nil, fmt.Errorf("%w: ground_truths is missing", ErrBadDocument)
	}
	return toShapes(doc.GroundTruths), nil
}

func toShapes(regions [][]orb.Point) []entity.Shape {
	shapes := make([]entity.Shape, len(regions))
	for i, r := range regions {
		shapes[i] = entity.RawPoints(r)
	}
	return shapes
}
