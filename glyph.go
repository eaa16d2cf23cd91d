package fontatlas

// GlyphMetrics carries the measurements a renderer needs to place a glyph,
// all at the Variant Atlas's generation size. The zero value is the
// placeholder used for a glyph that has been reserved but not yet filled.
type GlyphMetrics struct {
	Width, Height int
	Advance       float64
	OffsetX       float64
	OffsetY       float64

	// Plane bounds, in glyph-local units, as reported by the SDF oracle.
	PlaneLeft, PlaneBottom, PlaneRight, PlaneTop float64
}

// GlyphLocation is the atlas's internal record for one cached code point.
// It is created by reserveGlyph or addGlyph and, per the stable-handle
// invariant, mutated in place by fillGlyph/markEmpty rather than replaced —
// any GlyphInfo built from the location's Page handle before the fill
// observes the new pixels once the client re-reads UVs after a flush.
type GlyphLocation struct {
	Page    *Page
	X, Y    int
	Width   int
	Height  int
	Metrics GlyphMetrics

	// Empty is true when the glyph has no visible pixels (e.g. space).
	// Empty implies Width == 0 && Height == 0.
	Empty bool

	// Missing is true when the font does not contain this code point.
	Missing bool

	// reservedW/H and reservedX/Y record the shelf slot reserveGlyph
	// already committed to on a mixed page, sized to the variant's
	// generation size since the real pixel size isn't known until
	// generation. fillGlyph blits straight into this slot — skipping a
	// second tryAdd — whenever the generated glyph fits inside it, which
	// is what keeps Page constant across the reservation/fill boundary.
	// Zero for Latin glyphs (one page, no ambiguity) and for addGlyph
	// entries (no prior reservation). reservedW is the sentinel: 0 means
	// "no committed slot to honor".
	reservedW, reservedH int
	reservedX, reservedY int
}

// GlyphInfo is the client-facing view of a GlyphLocation: normalized UVs,
// the generation size the pixels were produced at, and whether the pixels
// are already present.
type GlyphInfo struct {
	CodePoint CodePoint
	GenSize   int

	// Texture is the opaque handle of the page hosting (or that will host)
	// this glyph's pixels. It is valid immediately, even while Cached is
	// false, per the stable-handle-before-pixels pattern.
	Texture Handle

	PageWidth  int
	PageHeight int

	U0, V0, U1, V1 float32

	Metrics GlyphMetrics
	Cached  bool
	Empty   bool
	Missing bool
}

func newGlyphInfo(cp CodePoint, genSize int, loc *GlyphLocation, cached bool) GlyphInfo {
	info := GlyphInfo{
		CodePoint: cp,
		GenSize:   genSize,
		Metrics:   loc.Metrics,
		Cached:    cached,
		Empty:     loc.Empty,
		Missing:   loc.Missing,
	}
	if loc.Page != nil {
		info.Texture = loc.Page.Handle()
		info.PageWidth = loc.Page.Width()
		info.PageHeight = loc.Page.Height()
		if info.PageWidth > 0 && info.PageHeight > 0 {
			info.U0 = float32(loc.X) / float32(info.PageWidth)
			info.V0 = float32(loc.Y) / float32(info.PageHeight)
			info.U1 = float32(loc.X+loc.Width) / float32(info.PageWidth)
			info.V1 = float32(loc.Y+loc.Height) / float32(info.PageHeight)
		}
	}
	return info
}
