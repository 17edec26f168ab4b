package vision

import (
	"path/filepath"
	"strings"
)

// NewDetector picks a detector from the cascade file: OpenCV Haar XML files go
// to the gocv detector, anything else is treated as a pigo cascade. An empty
// path disables detection and every scan uses the full frame.
func NewDetector(cascadePath string, minSize int, quality float64) (FaceDetector, error) {
	if cascadePath == "" {
		return nil, nil
	}
	if strings.EqualFold(filepath.Ext(cascadePath), ".xml") {
		return newHaarDetector(cascadePath)
	}
	d, err := NewPigoDetector(cascadePath, minSize, quality)
	if err != nil {
		return nil, err
	}
	return d, nil
}
