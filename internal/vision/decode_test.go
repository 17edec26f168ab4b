package vision

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestDecode(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 8, 6))
	src.Set(1, 1, color.RGBA{R: 200, A: 255})

	tests := []struct {
		name    string
		data    []byte
		wantErr bool
	}{
		{name: "png", data: encodePNG(t, src)},
		{name: "empty", data: nil, wantErr: true},
		{name: "garbage", data: []byte("definitely not an image"), wantErr: true},
		{name: "truncated png", data: encodePNG(t, src)[:20], wantErr: true},
		{name: "png after leading junk", data: append([]byte("--boundary\r\n\r\n"), encodePNG(t, src)...)},
		{name: "png past junk limit", data: append(bytes.Repeat([]byte{0}, maxLeadingJunk), encodePNG(t, src)...), wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := Decode(tt.data)
			if tt.wantErr {
				if !errors.Is(err, ErrUndecodable) {
					t.Fatalf("expected ErrUndecodable, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if got := img.Bounds().Size(); got != (image.Point{X: 8, Y: 6}) {
				t.Fatalf("unexpected size %v", got)
			}
		})
	}
}
