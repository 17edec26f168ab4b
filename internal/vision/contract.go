package vision

import "fmt"

// Layout is the axis order a model declares for its input.
type Layout int

const (
	// LayoutChannelLast is (N,H,W,C). It is also the layout assumed for shapes
	// that cannot be classified.
	LayoutChannelLast Layout = iota
	// LayoutChannelFirst is (N,C,H,W).
	LayoutChannelFirst
	// LayoutNoChannel is (N,H,W).
	LayoutNoChannel
)

func (l Layout) String() string {
	switch l {
	case LayoutChannelFirst:
		return "NCHW"
	case LayoutNoChannel:
		return "NHW"
	default:
		return "NHWC"
	}
}

// ModelContract describes the tensor a loaded model accepts. It is fixed for
// the lifetime of a loaded engine.
type ModelContract struct {
	Layout   Layout
	Height   int
	Width    int
	Channels int
	// Rescaling is true when the model divides by 255 itself and expects raw 0..255 input.
	Rescaling bool
	// Fallback is true when the declared shape was not recognised and the
	// default channel-last layout was assumed.
	Fallback bool
}

// Shape is the full input shape including the batch axis of 1.
func (c ModelContract) Shape() []int64 {
	switch c.Layout {
	case LayoutChannelFirst:
		return []int64{1, int64(c.Channels), int64(c.Height), int64(c.Width)}
	case LayoutNoChannel:
		return []int64{1, int64(c.Height), int64(c.Width)}
	default:
		return []int64{1, int64(c.Height), int64(c.Width), int64(c.Channels)}
	}
}

func (c ModelContract) String() string {
	return fmt.Sprintf("%s%v", c.Layout, c.Shape())
}

// Size is the target spatial resolution used when a model leaves its height
// or width dynamic.
type Size struct {
	Width  int
	Height int
}

// ParseContract classifies the model's declared input dims. Dynamic dims
// (<= 0) take the target resolution. Unrecognised shapes fall back to
// channel-last with a single channel at the target resolution.
func ParseContract(dims []int64, target Size, rescaling bool) ModelContract {
	fallback := ModelContract{
		Layout:    LayoutChannelLast,
		Height:    target.Height,
		Width:     target.Width,
		Channels:  1,
		Rescaling: rescaling,
		Fallback:  true,
	}

	switch len(dims) {
	case 4:
		c1, last := dims[1], dims[3]
		if isChannelCount(c1) {
			h, w := dimOr(dims[2], target.Height), dimOr(dims[3], target.Width)
			if (h == target.Height && w == target.Width) || !isChannelCount(last) {
				return ModelContract{
					Layout:    LayoutChannelFirst,
					Height:    h,
					Width:     w,
					Channels:  int(c1),
					Rescaling: rescaling,
				}
			}
		}
		if isChannelCount(last) {
			return ModelContract{
				Layout:    LayoutChannelLast,
				Height:    dimOr(dims[1], target.Height),
				Width:     dimOr(dims[2], target.Width),
				Channels:  int(last),
				Rescaling: rescaling,
			}
		}
	case 3:
		return ModelContract{
			Layout:    LayoutNoChannel,
			Height:    dimOr(dims[1], target.Height),
			Width:     dimOr(dims[2], target.Width),
			Channels:  1,
			Rescaling: rescaling,
		}
	}
	return fallback
}

func isChannelCount(d int64) bool {
	return d == 1 || d == 3
}

func dimOr(d int64, fallback int) int {
	if d <= 0 {
		return fallback
	}
	return int(d)
}
