package vision

import (
	"image"
	"math"
)

// FaceRegion is the area of the frame the normalizer crops to. When Found is
// false, Rect is the full frame.
type FaceRegion struct {
	Rect  image.Rectangle
	Found bool
}

// FaceDetector returns candidate face boxes in image coordinates.
type FaceDetector interface {
	Detect(img image.Image) []image.Rectangle
}

type FaceLocator struct {
	detector FaceDetector
	margin   float64
}

// NewFaceLocator builds a locator. A nil detector always yields the full frame.
func NewFaceLocator(detector FaceDetector, margin float64) *FaceLocator {
	if margin < 0 {
		margin = 0
	}
	return &FaceLocator{detector: detector, margin: margin}
}

// Locate picks the largest candidate, pads it by margin*max(w,h) on every side
// and clips it to the image. The result is never empty and never leaves the frame.
func (l *FaceLocator) Locate(img image.Image) FaceRegion {
	frame := img.Bounds()
	full := FaceRegion{Rect: frame}
	if l == nil || l.detector == nil {
		return full
	}

	var best image.Rectangle
	bestArea := 0
	for _, r := range l.detector.Detect(img) {
		r = r.Canon().Intersect(frame)
		if a := r.Dx() * r.Dy(); a > bestArea {
			best = r
			bestArea = a
		}
	}
	if bestArea == 0 {
		return full
	}

	pad := int(math.Round(float64(max(best.Dx(), best.Dy())) * l.margin))
	padded := image.Rect(
		clamp(best.Min.X-pad, frame.Min.X, frame.Max.X),
		clamp(best.Min.Y-pad, frame.Min.Y, frame.Max.Y),
		clamp(best.Max.X+pad, frame.Min.X, frame.Max.X),
		clamp(best.Max.Y+pad, frame.Min.Y, frame.Max.Y),
	)
	if padded.Empty() {
		return full
	}
	return FaceRegion{Rect: padded, Found: true}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
