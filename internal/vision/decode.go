package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

var ErrUndecodable = errors.New("image bytes could not be decoded")

// maxLeadingJunk bounds how far into the payload a JPEG or PNG header is
// searched for when the bytes do not start with a known magic.
const maxLeadingJunk = 1024

var embeddedMagics = [][]byte{
	{0xFF, 0xD8, 0xFF},
	{0x89, 'P', 'N', 'G', '\r', '\n', 0x1A, '\n'},
}

// Decode turns raw upload bytes into an image using every registered format
// (JPEG, PNG, GIF, BMP, WebP). When that fails, a JPEG or PNG header found
// within the first maxLeadingJunk bytes is decoded from that offset.
func Decode(data []byte) (image.Image, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty payload", ErrUndecodable)
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err == nil {
		return checkBounds(img)
	}
	if off := embeddedStart(data); off > 0 {
		if img, _, rerr := image.Decode(bytes.NewReader(data[off:])); rerr == nil {
			return checkBounds(img)
		}
	}
	return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
}

// embeddedStart returns the earliest offset past zero of a JPEG or PNG header,
// or -1.
func embeddedStart(data []byte) int {
	head := data
	if len(head) > maxLeadingJunk {
		head = head[:maxLeadingJunk]
	}
	best := -1
	for _, magic := range embeddedMagics {
		i := bytes.Index(head[1:], magic)
		if i < 0 {
			continue
		}
		if i++; best < 0 || i < best {
			best = i
		}
	}
	return best
}

func checkBounds(img image.Image) (image.Image, error) {
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: zero-sized image", ErrUndecodable)
	}
	return img, nil
}
