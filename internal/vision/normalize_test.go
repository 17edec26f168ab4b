package vision

import (
	"image"
	"image/color"
	"testing"
)

func gradient(w, h int) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(64 + (x*64)/w)})
		}
	}
	return img
}

func TestNormalizeOutputSize(t *testing.T) {
	tests := []struct {
		name   string
		img    image.Image
		region FaceRegion
	}{
		{name: "downscale full frame", img: gradient(200, 120), region: FaceRegion{Rect: image.Rect(0, 0, 200, 120)}},
		{name: "downscale crop", img: gradient(200, 120), region: FaceRegion{Rect: image.Rect(50, 10, 150, 110), Found: true}},
		{name: "upscale tiny", img: gradient(10, 12), region: FaceRegion{Rect: image.Rect(0, 0, 10, 12)}},
		{name: "collapsed crop uses full frame", img: gradient(64, 64), region: FaceRegion{Rect: image.Rect(500, 500, 600, 600), Found: true}},
		{name: "rgba input", img: image.NewRGBA(image.Rect(0, 0, 96, 96)), region: FaceRegion{Rect: image.Rect(0, 0, 96, 96)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Normalize(tt.img, tt.region, 48, 48)
			if p.Width != 48 || p.Height != 48 || len(p.Pix) != 48*48 {
				t.Fatalf("unexpected plane %dx%d len %d", p.Width, p.Height, len(p.Pix))
			}
			for i, v := range p.Pix {
				if v < 0 || v > 255 {
					t.Fatalf("pixel %d out of range: %v", i, v)
				}
			}
		})
	}
}

func TestNormalizeEqualizesContrast(t *testing.T) {
	p := Normalize(gradient(96, 96), FaceRegion{Rect: image.Rect(0, 0, 96, 96)}, 48, 48)
	lo, hi := p.Pix[0], p.Pix[0]
	for _, v := range p.Pix {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if lo != 0 || hi != 255 {
		t.Fatalf("expected equalized range 0..255, got %v..%v", lo, hi)
	}
}

func TestNormalizeUniformImageUnchanged(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 60, 60))
	for i := range img.Pix {
		img.Pix[i] = 90
	}
	p := Normalize(img, FaceRegion{Rect: img.Bounds()}, 48, 48)
	for i, v := range p.Pix {
		if v != 90 {
			t.Fatalf("pixel %d = %v, want 90", i, v)
		}
	}
}

func TestEqualizeHistStretchesTwoLevels(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 4))
	for i := range img.Pix {
		img.Pix[i] = 100
		if i%2 == 1 {
			img.Pix[i] = 120
		}
	}
	equalizeHist(img)
	for i, v := range img.Pix {
		want := uint8(0)
		if i%2 == 1 {
			want = 255
		}
		if v != want {
			t.Fatalf("pixel %d = %d, want %d", i, v, want)
		}
	}
}

func TestResizeGrayShrinksUniform(t *testing.T) {
	src := image.NewGray(image.Rect(0, 0, 96, 96))
	for i := range src.Pix {
		src.Pix[i] = 77
	}
	dst := resizeGray(src, 48, 48)
	if dst.Bounds().Dx() != 48 || dst.Bounds().Dy() != 48 {
		t.Fatalf("bounds = %v", dst.Bounds())
	}
	for i, v := range dst.Pix {
		if v != 77 {
			t.Fatalf("pixel %d = %d, want 77", i, v)
		}
	}
}
