package fontatlas

// Status is a point-in-time observability snapshot of a FontAtlas.
type Status struct {
	AtlasCount  int
	PageCount   int
	GlyphCount  int
	MemoryBytes int64
}
