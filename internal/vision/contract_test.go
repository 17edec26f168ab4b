package vision

import (
	"reflect"
	"testing"
)

func TestParseContract(t *testing.T) {
	target := Size{Width: 48, Height: 48}
	tests := []struct {
		name     string
		dims     []int64
		layout   Layout
		shape    []int64
		fallback bool
	}{
		{name: "nhwc gray", dims: []int64{1, 48, 48, 1}, layout: LayoutChannelLast, shape: []int64{1, 48, 48, 1}},
		{name: "nhwc rgb dynamic batch", dims: []int64{-1, 48, 48, 3}, layout: LayoutChannelLast, shape: []int64{1, 48, 48, 3}},
		{name: "nchw rgb", dims: []int64{1, 3, 48, 48}, layout: LayoutChannelFirst, shape: []int64{1, 3, 48, 48}},
		{name: "nchw gray other size", dims: []int64{1, 1, 64, 64}, layout: LayoutChannelFirst, shape: []int64{1, 1, 64, 64}},
		{name: "nchw dynamic spatial", dims: []int64{-1, 3, -1, -1}, layout: LayoutChannelFirst, shape: []int64{1, 3, 48, 48}},
		{name: "nhwc dynamic spatial", dims: []int64{-1, -1, -1, 3}, layout: LayoutChannelLast, shape: []int64{1, 48, 48, 3}},
		{name: "no channel", dims: []int64{1, 48, 48}, layout: LayoutNoChannel, shape: []int64{1, 48, 48}},
		{name: "no channel dynamic", dims: []int64{-1, -1, -1}, layout: LayoutNoChannel, shape: []int64{1, 48, 48}},
		{name: "five channels falls back", dims: []int64{1, 48, 48, 5}, layout: LayoutChannelLast, shape: []int64{1, 48, 48, 1}, fallback: true},
		{name: "flat falls back", dims: []int64{1, 2304}, layout: LayoutChannelLast, shape: []int64{1, 48, 48, 1}, fallback: true},
		{name: "empty falls back", dims: nil, layout: LayoutChannelLast, shape: []int64{1, 48, 48, 1}, fallback: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ParseContract(tt.dims, target, false)
			if c.Layout != tt.layout {
				t.Fatalf("layout = %v, want %v", c.Layout, tt.layout)
			}
			if !reflect.DeepEqual(c.Shape(), tt.shape) {
				t.Fatalf("shape = %v, want %v", c.Shape(), tt.shape)
			}
			if c.Fallback != tt.fallback {
				t.Fatalf("fallback = %v, want %v", c.Fallback, tt.fallback)
			}
		})
	}
}
