//go:build !gocv

package vision

import "errors"

var errNoOpenCV = errors.New("haar cascades need a build with -tags gocv")

func newHaarDetector(string) (FaceDetector, error) {
	return nil, errNoOpenCV
}
