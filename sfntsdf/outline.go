package sfntsdf

import (
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// op is the kind of path operation in an extracted outline.
type op uint8

const (
	opMoveTo op = iota
	opLineTo
	opQuadTo
	opCubicTo
)

// segment is one drawing operation in an outline, in font units.
//
//   - opMoveTo/opLineTo: points[0] is the target.
//   - opQuadTo: points[0] is the control point, points[1] is the target.
//   - opCubicTo: points[0], points[1] are controls, points[2] is the target.
type segment struct {
	op     op
	points [3]Point
}

// outline is the vector path of one glyph, extracted at a specific pixel
// size. An empty Segments slice with a non-zero Advance is a glyph with no
// visible ink (e.g. space).
type outline struct {
	segments []segment
	bounds   Rect
	advance  float64
}

func (o *outline) isEmpty() bool { return len(o.segments) == 0 }

// extractOutline loads gid's outline from font at the given pixels-per-em,
// using buf as scratch space across repeated calls.
func extractOutline(font *sfnt.Font, buf *sfnt.Buffer, gid sfnt.GlyphIndex, ppemSize float64) (*outline, error) {
	ppem := fixed.Int26_6(ppemSize * 64)

	segments, err := font.LoadGlyph(buf, gid, ppem, nil)
	if err != nil {
		return nil, err
	}

	advance := glyphAdvance(font, buf, gid, ppem)
	if len(segments) == 0 {
		return &outline{advance: advance}, nil
	}

	out := &outline{
		segments: make([]segment, 0, len(segments)),
		advance:  advance,
	}

	minX, minY := float64(1e10), float64(1e10)
	maxX, maxY := float64(-1e10), float64(-1e10)
	track := func(p Point) {
		minX, minY = min(minX, p.X), min(minY, p.Y)
		maxX, maxY = max(maxX, p.X), max(maxY, p.Y)
	}

	for _, seg := range segments {
		switch seg.Op {
		case sfnt.SegmentOpMoveTo:
			p := fixedToPoint(seg.Args[0])
			track(p)
			out.segments = append(out.segments, segment{op: opMoveTo, points: [3]Point{p}})
		case sfnt.SegmentOpLineTo:
			p := fixedToPoint(seg.Args[0])
			track(p)
			out.segments = append(out.segments, segment{op: opLineTo, points: [3]Point{p}})
		case sfnt.SegmentOpQuadTo:
			c, p := fixedToPoint(seg.Args[0]), fixedToPoint(seg.Args[1])
			track(c)
			track(p)
			out.segments = append(out.segments, segment{op: opQuadTo, points: [3]Point{c, p}})
		case sfnt.SegmentOpCubeTo:
			c1, c2, p := fixedToPoint(seg.Args[0]), fixedToPoint(seg.Args[1]), fixedToPoint(seg.Args[2])
			track(c1)
			track(c2)
			track(p)
			out.segments = append(out.segments, segment{op: opCubicTo, points: [3]Point{c1, c2, p}})
		}
	}

	out.bounds = Rect{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
	return out, nil
}

func fixedToPoint(p fixed.Point26_6) Point {
	return Point{X: float64(p.X) / 64, Y: float64(p.Y) / 64}
}

func glyphAdvance(font *sfnt.Font, buf *sfnt.Buffer, gid sfnt.GlyphIndex, ppem fixed.Int26_6) float64 {
	advance, err := font.GlyphAdvance(buf, gid, ppem, 0)
	if err != nil {
		return 0
	}
	return float64(advance) / 64
}
