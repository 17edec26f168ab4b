package vision

import (
	"errors"
	"fmt"
)

var ErrShapeMismatch = errors.New("tensor shape does not match model contract")

// NormMode selects how 0..255 pixel values reach the model.
type NormMode string

const (
	// NormAuto passes raw values to models that rescale internally and
	// divides by 255 for the rest.
	NormAuto      NormMode = "auto"
	NormRaw       NormMode = "raw"
	NormDivide255 NormMode = "divide255"
)

// ParseNormMode maps a config string to a mode, defaulting to auto.
func ParseNormMode(s string) NormMode {
	switch NormMode(s) {
	case NormRaw, NormDivide255:
		return NormMode(s)
	default:
		return NormAuto
	}
}

// Tensor is the model-ready input for one image.
type Tensor struct {
	Shape  []int64
	Data   []float32
	Scaled bool
}

// Adapt lays the plane out in the contract's axis order, replicating the
// single gray channel across every declared channel.
func Adapt(p Plane, c ModelContract, mode NormMode) (*Tensor, error) {
	if p.Width != c.Width || p.Height != c.Height {
		return nil, fmt.Errorf("%w: plane %dx%d, contract %dx%d", ErrShapeMismatch, p.Width, p.Height, c.Width, c.Height)
	}
	if len(p.Pix) != p.Width*p.Height {
		return nil, fmt.Errorf("%w: plane holds %d values for %dx%d", ErrShapeMismatch, len(p.Pix), p.Width, p.Height)
	}

	scale := float32(1)
	scaled := false
	if mode == NormDivide255 || (mode == NormAuto && !c.Rescaling) {
		scale = 1.0 / 255.0
		scaled = true
	}

	channels := c.Channels
	if c.Layout == LayoutNoChannel || channels <= 0 {
		channels = 1
	}
	size := p.Width * p.Height
	data := make([]float32, size*channels)

	switch c.Layout {
	case LayoutChannelFirst:
		for ch := 0; ch < channels; ch++ {
			base := ch * size
			for i, v := range p.Pix {
				data[base+i] = v * scale
			}
		}
	default:
		for i, v := range p.Pix {
			v *= scale
			for ch := 0; ch < channels; ch++ {
				data[i*channels+ch] = v
			}
		}
	}

	shape := c.Shape()
	if want := shapeSize(shape); int64(len(data)) != want {
		return nil, fmt.Errorf("%w: %d values for shape %v", ErrShapeMismatch, len(data), shape)
	}
	return &Tensor{Shape: shape, Data: data, Scaled: scaled}, nil
}

func shapeSize(shape []int64) int64 {
	n := int64(1)
	for _, d := range shape {
		n *= d
	}
	return n
}
