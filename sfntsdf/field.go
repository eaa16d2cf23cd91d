package sfntsdf

import (
	"math"
	"sync"
)

// defaultAngleThreshold is the corner-detection cutoff used when coloring
// edges: consecutive edges turning more sharply than this get distinct
// channel colors so the per-channel median preserves the corner.
const defaultAngleThreshold = math.Pi / 3

// field is a generated multi-channel-plus-true-distance field: Pixels is
// row-major, four float32 channels per pixel (R, G, B directional distance
// plus A true distance), each normalized to [0, 1] with 0.5 at the edge.
type field struct {
	width, height int
	pixels        []float32
	bounds        Rect
	scale         float64
}

// generateField rasterizes o's outline into a size x size field using
// pixelRange pixels of distance padding on each side. It returns nil if the
// outline produced no usable edges (e.g. every segment was degenerate),
// which the oracle treats the same as an empty glyph.
func generateField(o *outline, size int, pixelRange float64) *field {
	sh := shapeFromOutline(o)
	if sh.edgeCount() == 0 {
		return nil
	}
	assignColors(sh, defaultAngleThreshold)

	bounds := sh.bounds
	if bounds.IsEmpty() {
		return nil
	}

	padded := bounds.Expand(pixelRange)
	scale := calculateScale(padded, size, pixelRange)
	occupiedW := padded.Width() * scale
	occupiedH := padded.Height() * scale
	translateX := (float64(size) - occupiedW) / 2
	translateY := (float64(size) - occupiedH) / 2

	f := &field{
		width:  size,
		height: size,
		pixels: make([]float32, size*size*4),
		bounds: padded,
		scale:  scale,
	}
	generateDistanceField(f, sh, translateX, translateY, pixelRange)
	return f
}

func calculateScale(bounds Rect, size int, padding float64) float64 {
	available := float64(size) - 2*padding
	if available <= 0 {
		available = float64(size)
	}
	w, h := bounds.Width(), bounds.Height()
	switch {
	case w <= 0 && h <= 0:
		return 1
	case w <= 0:
		return available / h
	case h <= 0:
		return available / w
	default:
		return min(available/w, available/h)
	}
}

// generateDistanceField fills f.pixels, splitting rows across goroutines
// the way a CPU rasterizer would split scanlines across cores.
func generateDistanceField(f *field, sh *shape, translateX, translateY, pixelRange float64) {
	const numWorkers = 4
	rowsPerWorker := (f.height + numWorkers - 1) / numWorkers

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, f.height)
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			processRows(f, sh, start, end, translateX, translateY, pixelRange)
		}(start, end)
	}
	wg.Wait()
}

func processRows(f *field, sh *shape, startRow, endRow int, translateX, translateY, pixelRange float64) {
	for y := startRow; y < endRow; y++ {
		for x := 0; x < f.width; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			ox := (px-translateX)/f.scale + f.bounds.MinX
			oy := (py-translateY)/f.scale + f.bounds.MinY
			p := Point{X: ox, Y: oy}

			r := channelDistance(sh, p, selectRed)
			g := channelDistance(sh, p, selectGreen)
			b := channelDistance(sh, p, selectBlue)
			trueDist := channelDistance(sh, p, nil)

			off := (y*f.width + x) * 4
			f.pixels[off+0] = distanceToUnit(r.Distance, pixelRange, f.scale)
			f.pixels[off+1] = distanceToUnit(g.Distance, pixelRange, f.scale)
			f.pixels[off+2] = distanceToUnit(b.Distance, pixelRange, f.scale)
			f.pixels[off+3] = distanceToUnit(trueDist.Distance, pixelRange, f.scale)
		}
	}
}

// channelDistance returns the minimum signed distance over edges selected
// by sel, or over every edge if sel is nil (used for the true-distance
// channel) or if no edge matched the selector.
func channelDistance(sh *shape, p Point, sel edgeSelector) SignedDistance {
	min := Infinite()
	for _, c := range sh.contours {
		for i := range c.edges {
			if sel != nil && !sel(c.edges[i].Color) {
				continue
			}
			min = min.Combine(c.edges[i].SignedDistance(p))
		}
	}
	if sel != nil && min.Distance == math.MaxFloat64 {
		return channelDistance(sh, p, nil)
	}
	return min
}

// distanceToUnit maps a signed outline-space distance to [0, 1], 0.5 at
// the edge: the value is 0.5 + distancePx/(2*pixelRange), so distances of
// -pixelRange..+pixelRange pixels span the full range before clamping.
func distanceToUnit(distance, pixelRange, scale float64) float32 {
	distPx := distance * scale
	v := 0.5 + distPx/(2*pixelRange)
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	return float32(v)
}
