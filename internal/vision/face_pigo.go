package vision

import (
	"fmt"
	"image"
	"image/draw"
	"os"

	pigo "github.com/esimov/pigo/core"
)

// PigoDetector runs the pigo pixel-intensity cascade. It is pure Go and the
// default detector.
type PigoDetector struct {
	classifier *pigo.Pigo
	minSize    int
	quality    float32
}

// NewPigoDetector unpacks a pigo cascade file (e.g. "facefinder").
func NewPigoDetector(cascadePath string, minSize int, quality float64) (*PigoDetector, error) {
	cascade, err := os.ReadFile(cascadePath)
	if err != nil {
		return nil, fmt.Errorf("read face cascade failed: %w", err)
	}
	classifier, err := pigo.NewPigo().Unpack(cascade)
	if err != nil {
		return nil, fmt.Errorf("unpack face cascade failed: %w", err)
	}
	if minSize <= 0 {
		minSize = 20
	}
	return &PigoDetector{classifier: classifier, minSize: minSize, quality: float32(quality)}, nil
}

func (d *PigoDetector) Detect(img image.Image) []image.Rectangle {
	b := img.Bounds()
	nrgba := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(nrgba, nrgba.Bounds(), img, b.Min, draw.Src)

	cols, rows := b.Dx(), b.Dy()
	params := pigo.CascadeParams{
		MinSize:     d.minSize,
		MaxSize:     max(cols, rows),
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(nrgba),
			Rows:   rows,
			Cols:   cols,
			Dim:    cols,
		},
	}

	dets := d.classifier.RunCascade(params, 0)
	dets = d.classifier.ClusterDetections(dets, 0.18)

	rects := make([]image.Rectangle, 0, len(dets))
	for _, det := range dets {
		if det.Q <= d.quality {
			continue
		}
		half := det.Scale / 2
		rects = append(rects, image.Rect(
			b.Min.X+det.Col-half, b.Min.Y+det.Row-half,
			b.Min.X+det.Col+half, b.Min.Y+det.Row+half,
		))
	}
	return rects
}
