package vision

import (
	"image"

	"golang.org/x/image/draw"
)

// Plane is a single-channel image in row-major order with values in 0..255.
type Plane struct {
	Width  int
	Height int
	Pix    []float32
}

// Normalize crops to the region, converts to grayscale, resizes to
// width x height and equalizes the histogram. A region that does not overlap
// the image falls back to the full frame.
func Normalize(img image.Image, region FaceRegion, width, height int) Plane {
	frame := img.Bounds()
	crop := region.Rect.Intersect(frame)
	if crop.Empty() {
		crop = frame
	}

	gray := image.NewGray(image.Rect(0, 0, crop.Dx(), crop.Dy()))
	draw.Draw(gray, gray.Bounds(), img, crop.Min, draw.Src)

	resized := resizeGray(gray, width, height)
	equalizeHist(resized)

	out := Plane{Width: width, Height: height, Pix: make([]float32, width*height)}
	for y := 0; y < height; y++ {
		row := resized.Pix[y*resized.Stride : y*resized.Stride+width]
		for x, v := range row {
			out.Pix[y*width+x] = float32(v)
		}
	}
	return out
}
