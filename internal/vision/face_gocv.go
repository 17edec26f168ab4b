//go:build gocv

package vision

import (
	"errors"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// HaarDetector wraps an OpenCV Haar cascade (haarcascade_frontalface_default.xml).
// CascadeClassifier is not safe for concurrent use, so Detect is serialized.
type HaarDetector struct {
	mu  sync.Mutex
	cls gocv.CascadeClassifier
}

func NewHaarDetector(cascadePath string) (*HaarDetector, error) {
	cls := gocv.NewCascadeClassifier()
	if !cls.Load(cascadePath) {
		cls.Close()
		return nil, errors.New("load haar cascade failed")
	}
	return &HaarDetector{cls: cls}, nil
}

func newHaarDetector(cascadePath string) (FaceDetector, error) {
	d, err := NewHaarDetector(cascadePath)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func (d *HaarDetector) Detect(img image.Image) []image.Rectangle {
	mat, err := gocv.ImageToMatRGB(img)
	if err != nil {
		return nil
	}
	defer mat.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	gocv.CvtColor(mat, &gray, gocv.ColorRGBToGray)

	d.mu.Lock()
	rects := d.cls.DetectMultiScale(gray)
	d.mu.Unlock()

	off := img.Bounds().Min
	for i := range rects {
		rects[i] = rects[i].Add(off)
	}
	return rects
}

func (d *HaarDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cls.Close()
}
