package fontatlas

// OracleMetrics is the measurement record an SDFOracle reports alongside
// generated pixels: integer-valued width/height/advance plus plane bounds
// in glyph-local units.
type OracleMetrics struct {
	Width, Height int
	Advance       float64
	PlaneLeft     float64
	PlaneBottom   float64
	PlaneRight    float64
	PlaneTop      float64
}

// GeneratedField is the result of one oracle generation call: metrics plus
// a flat row-major pixel buffer of floats in [0, 1], three channels (RGB,
// from Generate) or four (RGBA, from GenerateMTSDF/GenerateMTSDFVar).
type GeneratedField struct {
	Metrics OracleMetrics
	Pixels  []float32
	Channels int
}

// SDFOracle is the client-supplied collaborator that turns a font plus a
// code point into signed-distance-field pixels. The atlas never parses
// fonts or computes distance fields itself — it only drives this interface.
//
// A nil *GeneratedField with a nil error means the glyph exists in the font
// but produced no visible pixels (e.g. U+0020 SPACE); the atlas records
// that as Empty, not as an error. A non-nil error means generation itself
// failed (e.g. a corrupt glyph outline). FontAtlas logs such an error and
// records the glyph as Empty (not Missing); GetGlyph's caller never sees
// it. workerpool.Pool returns it to the caller of GenerateGlyph or
// GenerateBatch.
type SDFOracle interface {
	// LoadFont loads font bytes into the oracle. Idempotent for a given
	// bytes identity — callers may invoke it once per distinct font and
	// the oracle is expected to recognize repeats cheaply.
	LoadFont(fontBytes []byte) error

	// HasGlyph reports whether the most recently loaded font contains cp.
	HasGlyph(cp CodePoint) (bool, error)

	// Generate produces a 3-channel (RGB) signed-distance field.
	Generate(cp CodePoint, fontSize int, pixelRange float64) (*GeneratedField, error)

	// GenerateMTSDF produces a 4-channel (RGBA) multi-channel-plus-true-
	// distance field.
	GenerateMTSDF(cp CodePoint, fontSize int, pixelRange float64) (*GeneratedField, error)

	// SetVariationAxes configures variable-font axis coordinates applied
	// by subsequent GenerateMTSDFVar calls.
	SetVariationAxes(axes map[string]float32)

	// ClearVariationAxes removes any configured variation axes.
	ClearVariationAxes()

	// GenerateMTSDFVar is GenerateMTSDF honoring the axes most recently
	// passed to SetVariationAxes (or the font defaults, if none were set
	// or ClearVariationAxes was called since).
	GenerateMTSDFVar(cp CodePoint, fontSize int, pixelRange float64) (*GeneratedField, error)
}
