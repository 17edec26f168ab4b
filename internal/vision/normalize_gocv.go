//go:build gocv

package vision

import (
	"image"

	"gocv.io/x/gocv"
)

// resizeGray shrinks with INTER_AREA and enlarges with INTER_LINEAR.
func resizeGray(src *image.Gray, width, height int) *image.Gray {
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	if sw == width && sh == height {
		return src
	}
	mat, err := grayToMat(src)
	if err != nil {
		return src
	}
	defer mat.Close()

	interp := gocv.InterpolationLinear
	if sw >= width && sh >= height {
		interp = gocv.InterpolationArea
	}
	out := gocv.NewMat()
	defer out.Close()
	gocv.Resize(mat, &out, image.Pt(width, height), 0, 0, interp)

	dst := image.NewGray(image.Rect(0, 0, width, height))
	copy(dst.Pix, out.ToBytes())
	return dst
}

// equalizeHist runs cv::equalizeHist and writes the result back in place.
func equalizeHist(img *image.Gray) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	if w == 0 || h == 0 {
		return
	}
	mat, err := grayToMat(img)
	if err != nil {
		return
	}
	defer mat.Close()

	out := gocv.NewMat()
	defer out.Close()
	gocv.EqualizeHist(mat, &out)

	pix := out.ToBytes()
	for y := 0; y < h; y++ {
		copy(img.Pix[y*img.Stride:y*img.Stride+w], pix[y*w:(y+1)*w])
	}
}

// grayToMat packs the rows tightly, since Stride may exceed the width.
func grayToMat(img *image.Gray) (gocv.Mat, error) {
	w, h := img.Bounds().Dx(), img.Bounds().Dy()
	buf := make([]byte, w*h)
	for y := 0; y < h; y++ {
		copy(buf[y*w:(y+1)*w], img.Pix[y*img.Stride:y*img.Stride+w])
	}
	return gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, buf)
}
