//go:build !gocv

package vision

import (
	"image"
	"math"

	"golang.org/x/image/draw"
)

// resizeGray shrinks with area averaging and enlarges bilinearly.
func resizeGray(src *image.Gray, width, height int) *image.Gray {
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()
	if sw == width && sh == height {
		return src
	}
	if sw >= width && sh >= height {
		return areaResize(src, width, height)
	}
	dst := image.NewGray(image.Rect(0, 0, width, height))
	draw.BiLinear.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// areaResize averages every source pixel a destination pixel covers, weighting
// partially covered pixels by their overlap. Done separably: columns then rows.
func areaResize(src *image.Gray, width, height int) *image.Gray {
	sw, sh := src.Bounds().Dx(), src.Bounds().Dy()

	horiz := make([]float64, width*sh)
	wx := areaWeights(sw, width)
	for y := 0; y < sh; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+sw]
		for x, taps := range wx {
			var acc float64
			for _, t := range taps {
				acc += float64(row[t.idx]) * t.w
			}
			horiz[y*width+x] = acc
		}
	}

	dst := image.NewGray(image.Rect(0, 0, width, height))
	wy := areaWeights(sh, height)
	for y, taps := range wy {
		for x := 0; x < width; x++ {
			var acc float64
			for _, t := range taps {
				acc += horiz[t.idx*width+x] * t.w
			}
			dst.Pix[y*dst.Stride+x] = uint8(math.Min(255, math.Max(0, math.Round(acc))))
		}
	}
	return dst
}

type tap struct {
	idx int
	w   float64
}

// areaWeights returns, for every output index, the source indices it covers
// and their normalized overlap weights.
func areaWeights(srcLen, dstLen int) [][]tap {
	scale := float64(srcLen) / float64(dstLen)
	out := make([][]tap, dstLen)
	for i := range out {
		start := float64(i) * scale
		end := start + scale
		for s := int(start); s < srcLen && float64(s) < end; s++ {
			lo := math.Max(start, float64(s))
			hi := math.Min(end, float64(s+1))
			if hi > lo {
				out[i] = append(out[i], tap{idx: s, w: (hi - lo) / scale})
			}
		}
	}
	return out
}

// equalizeHist spreads the cumulative histogram over 0..255 in place. An image
// with a single intensity is left unchanged.
func equalizeHist(img *image.Gray) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	total := w * h
	if total == 0 {
		return
	}

	var hist [256]int
	for y := 0; y < h; y++ {
		for _, v := range img.Pix[y*img.Stride : y*img.Stride+w] {
			hist[v]++
		}
	}

	var cdf [256]int
	run := 0
	cdfMin := 0
	for i, c := range hist {
		run += c
		cdf[i] = run
		if cdfMin == 0 && run > 0 {
			cdfMin = run
		}
	}
	if cdfMin == total {
		return
	}

	var lut [256]uint8
	denom := float64(total - cdfMin)
	for i := range lut {
		v := math.Round(float64(cdf[i]-cdfMin) * 255 / denom)
		lut[i] = uint8(math.Min(255, math.Max(0, v)))
	}
	for y := 0; y < h; y++ {
		row := img.Pix[y*img.Stride : y*img.Stride+w]
		for x, v := range row {
			row[x] = lut[v]
		}
	}
}
