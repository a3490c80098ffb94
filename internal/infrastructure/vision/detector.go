//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"math"

	"github.com/paulmach/orb"
	"gocv.io/x/gocv"

	"detection-eval/internal/domain/entity"
)

// ContourDetector находит замкнутые контуры и возвращает их упрощённые полигоны.
type ContourDetector struct {
	MinArea        float64    // минимальная площадь контура в пикселях исходного снимка
	ApproxEpsilon  float64    // точность упрощения как доля периметра контура
	MaxSide        int        // снимки крупнее приводятся к этой стороне
	CannyThreshold [2]float32 // пороги детектора границ
}

// NewContourDetector создаёт детектор с минимальной площадью области.
func NewContourDetector(minArea int) *ContourDetector {
	return &ContourDetector{
		MinArea:        float64(minArea),
		ApproxEpsilon:  0.01,
		MaxSide:        1024,
		CannyThreshold: [2]float32{50, 150},
	}
}

// Detect возвращает контуры найденных областей в координатах исходного снимка.
// Отмена ctx проверяется между этапами обработки.
func (d *ContourDetector) Detect(ctx context.Context, imageData []byte) ([]entity.Shape, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	// Приводим изображение к стандартному размеру для стабильных порогов.
	scale := 1.0
	if mat.Cols() > d.MaxSide || mat.Rows() > d.MaxSide {
		scale = float64(d.MaxSide) / float64(max(mat.Cols(), mat.Rows()))
		newW := int(float64(mat.Cols()) * scale)
		newH := int(float64(mat.Rows()) * scale)
		resized := gocv.NewMat()
		gocv.Resize(mat, &resized, image.Pt(newW, newH), 0, 0, gocv.InterpolationArea)
		mat.Close()
		mat = resized
	}

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorBGRToGray)

	blur := gocv.NewMat()
	defer blur.Close()
	gocv.GaussianBlur(gray, &blur, image.Pt(5, 5), 0, 0, gocv.BorderDefault)

	edges := gocv.NewMat()
	defer edges.Close()
	gocv.Canny(blur, &edges, d.CannyThreshold[0], d.CannyThreshold[1])

	// Замыкаем разрывы в границах, иначе контуры получаются незамкнутыми.
	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(3, 3))
	defer kernel.Close()
	closed := gocv.NewMat()
	defer closed.Close()
	gocv.Dilate(edges, &closed, kernel)

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	contours := gocv.FindContours(closed, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	minArea := d.MinArea * scale * scale
	regions := make([]entity.Shape, 0, contours.Size())
	for i := 0; i < contours.Size(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		c := contours.At(i)
		if gocv.ContourArea(c) < minArea {
			continue
		}

		approx := gocv.ApproxPolyDP(c, d.ApproxEpsilon*gocv.ArcLength(c, true), true)
		pts := approx.ToPoints()
		approx.Close()
		if len(pts) < 3 {
			continue
		}

		region := make(entity.RawPoints, len(pts))
		for j, p := range pts {
			region[j] = orb.Point{float64(p.X) / scale, float64(p.Y) / scale}
		}
		regions = append(regions, region)
	}

	return regions, nil
}

// HighlightRegions рисует разметку зелёным, детекции красным и возвращает JPEG.
func (d *ContourDetector) HighlightRegions(imageData []byte, groundTruths, detections []entity.Shape) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	green := color.RGBA{G: 255, A: 255}
	red := color.RGBA{R: 255, A: 255}
	drawShapes(&mat, groundTruths, green)
	drawShapes(&mat, detections, red)

	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

func drawShapes(mat *gocv.Mat, shapes []entity.Shape, c color.RGBA) {
	outlines := make([][]image.Point, 0, len(shapes))
	for _, s := range shapes {
		if pts := outline(s); len(pts) > 1 {
			outlines = append(outlines, pts)
		}
	}
	if len(outlines) == 0 {
		return
	}

	pv := gocv.NewPointsVectorFromPoints(outlines)
	defer pv.Close()
	gocv.Polylines(mat, pv, true, c, 2)
}

// outline внешнее кольцо формы в пикселях.
func outline(s entity.Shape) []image.Point {
	var ring []orb.Point
	switch v := s.(type) {
	case entity.RawPoints:
		ring = v
	case entity.PreparedPolygon:
		if len(v.Polygon) > 0 {
			ring = v.Polygon[0]
		}
	}

	pts := make([]image.Point, len(ring))
	for i, p := range ring {
		pts[i] = image.Pt(int(math.Round(p[0])), int(math.Round(p[1])))
	}
	return pts
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}
