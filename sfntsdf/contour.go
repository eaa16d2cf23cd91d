package sfntsdf

// contour is a closed path of edges; a glyph typically has one per loop in
// its outline (outer boundary plus any holes).
type contour struct {
	edges   []Edge
	winding float64
}

func newContour() *contour { return &contour{edges: make([]Edge, 0)} }

func (c *contour) addEdge(e Edge) { c.edges = append(c.edges, e) }

func (c *contour) bounds() Rect {
	if len(c.edges) == 0 {
		return Rect{}
	}
	b := c.edges[0].Bounds()
	for i := 1; i < len(c.edges); i++ {
		b = b.Union(c.edges[i].Bounds())
	}
	return b
}

// calculateWinding computes the signed area via the shoelace formula:
// positive means counter-clockwise (an outer contour), negative clockwise
// (a hole).
func (c *contour) calculateWinding() {
	var area float64
	for i := range c.edges {
		area += c.edges[i].StartPoint().Cross(c.edges[i].EndPoint())
	}
	c.winding = area / 2
}

// shape is a complete glyph: one or more contours plus their combined
// bounds.
type shape struct {
	contours []*contour
	bounds   Rect
}

func newShape() *shape { return &shape{contours: make([]*contour, 0)} }

func (s *shape) addContour(c *contour) { s.contours = append(s.contours, c) }

func (s *shape) calculateBounds() {
	if len(s.contours) == 0 {
		s.bounds = Rect{}
		return
	}
	s.bounds = s.contours[0].bounds()
	for i := 1; i < len(s.contours); i++ {
		s.bounds = s.bounds.Union(s.contours[i].bounds())
	}
}

func (s *shape) edgeCount() int {
	n := 0
	for _, c := range s.contours {
		n += len(c.edges)
	}
	return n
}

// shapeFromOutline converts an extracted glyph outline into a shape of
// colored edges, skipping degenerate zero-length lines.
func shapeFromOutline(o *outline) *shape {
	s := newShape()
	if o == nil || len(o.segments) == 0 {
		return s
	}

	var cur *contour
	var pos Point

	for _, seg := range o.segments {
		switch seg.op {
		case opMoveTo:
			if cur != nil && len(cur.edges) > 0 {
				cur.calculateWinding()
				s.addContour(cur)
			}
			cur = newContour()
			pos = seg.points[0]

		case opLineTo:
			if cur == nil {
				cur = newContour()
			}
			end := seg.points[0]
			if end.Sub(pos).LengthSquared() > 1e-12 {
				cur.addEdge(NewLinearEdge(pos, end))
			}
			pos = end

		case opQuadTo:
			if cur == nil {
				cur = newContour()
			}
			control, end := seg.points[0], seg.points[1]
			cur.addEdge(NewQuadraticEdge(pos, control, end))
			pos = end

		case opCubicTo:
			if cur == nil {
				cur = newContour()
			}
			c1, c2, end := seg.points[0], seg.points[1], seg.points[2]
			cur.addEdge(NewCubicEdge(pos, c1, c2, end))
			pos = end
		}
	}

	if cur != nil && len(cur.edges) > 0 {
		cur.calculateWinding()
		s.addContour(cur)
	}

	s.calculateBounds()
	return s
}

// assignColors colors edges so the per-channel median preserves sharp
// corners: a new color starts whenever consecutive edges turn more than
// angleThreshold radians.
func assignColors(sh *shape, angleThreshold float64) {
	for _, c := range sh.contours {
		if len(c.edges) > 0 {
			assignContourColors(c, angleThreshold)
		}
	}
}

func assignContourColors(c *contour, angleThreshold float64) {
	n := len(c.edges)
	if n == 1 {
		c.edges[0].Color = ColorWhite
		return
	}

	var corners []int
	for i := 0; i < n; i++ {
		dirOut := c.edges[i].DirectionAt(1).Normalized()
		dirIn := c.edges[(i+1)%n].DirectionAt(0).Normalized()
		if AngleBetween(dirOut, dirIn) > angleThreshold {
			corners = append(corners, i)
		}
	}

	if len(corners) == 0 {
		for i := range c.edges {
			c.edges[i].Color = ColorWhite
		}
		return
	}

	colors := []EdgeColor{ColorCyan, ColorMagenta, ColorYellow}
	colorIdx := 0
	for i := 0; i < len(corners); i++ {
		start := corners[i]
		end := corners[(i+1)%len(corners)]
		color := colors[colorIdx%len(colors)]
		colorIdx++
		if end <= start {
			end += n
		}
		for j := start + 1; j <= end; j++ {
			c.edges[j%n].Color = color
		}
	}

	for _, idx := range corners {
		prev := c.edges[idx].Color
		next := c.edges[(idx+1)%n].Color
		if prev == next {
			c.edges[idx].Color = ColorWhite
		} else {
			c.edges[idx].Color = prev | next
		}
	}
}

type edgeSelector func(EdgeColor) bool

func selectRed(c EdgeColor) bool   { return c.HasRed() }
func selectGreen(c EdgeColor) bool { return c.HasGreen() }
func selectBlue(c EdgeColor) bool  { return c.HasBlue() }
