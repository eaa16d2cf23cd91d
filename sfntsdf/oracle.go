package sfntsdf

import (
	"bytes"
	"log/slog"
	"sync"

	"golang.org/x/image/font/sfnt"

	"github.com/gogpu/fontatlas"
)

// Oracle is the reference fontatlas.SDFOracle: it loads a font with
// golang.org/x/image/font/sfnt and rasterizes multi-channel signed distance
// fields straight from the parsed outlines. One Oracle holds one loaded
// font at a time; LoadFont is idempotent for repeated identical bytes.
//
// Oracle is not safe for concurrent use — the same contract fontatlas
// itself relies on (its core drives one oracle from a single mutex) and
// that workerpool.Pool honors by giving every worker its own Oracle.
type Oracle struct {
	mu sync.Mutex

	fontBytes []byte
	font      *sfnt.Font
	buf       sfnt.Buffer

	axes map[string]float32
}

// New returns an Oracle with no font loaded yet.
func New() *Oracle {
	return &Oracle{}
}

// LoadFont parses fontBytes if they differ from the font currently loaded.
func (o *Oracle) LoadFont(fontBytes []byte) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.font != nil && bytes.Equal(o.fontBytes, fontBytes) {
		return nil
	}
	font, err := sfnt.Parse(fontBytes)
	if err != nil {
		return &LoadError{Err: err}
	}
	o.font = font
	o.fontBytes = append([]byte(nil), fontBytes...)
	slogger().Debug("sfntsdf: font loaded", slog.Int("bytes", len(fontBytes)))
	return nil
}

// HasGlyph reports whether the loaded font maps cp to a real glyph (glyph
// index 0, notdef, counts as absent).
func (o *Oracle) HasGlyph(cp fontatlas.CodePoint) (bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.font == nil {
		return false, fontatlas.ErrNilOracle
	}
	gid, err := o.font.GlyphIndex(&o.buf, rune(cp))
	if err != nil {
		return false, err
	}
	return gid != 0, nil
}

// Generate produces a 3-channel RGB field.
func (o *Oracle) Generate(cp fontatlas.CodePoint, fontSize int, pixelRange float64) (*fontatlas.GeneratedField, error) {
	return o.generate(cp, fontSize, pixelRange, 3)
}

// GenerateMTSDF produces a 4-channel RGBA (MSDF + true distance) field.
func (o *Oracle) GenerateMTSDF(cp fontatlas.CodePoint, fontSize int, pixelRange float64) (*fontatlas.GeneratedField, error) {
	return o.generate(cp, fontSize, pixelRange, 4)
}

// SetVariationAxes records variation-axis coordinates. golang.org/x/image's
// sfnt parser does not instantiate variable-font axes, so the coordinates
// are stored but do not currently change generated output; callers on a
// non-variable font see no behavioral difference between Generate* and
// Generate*Var.
func (o *Oracle) SetVariationAxes(axes map[string]float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.axes = axes
}

// ClearVariationAxes discards any axes set by SetVariationAxes.
func (o *Oracle) ClearVariationAxes() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.axes = nil
}

// GenerateMTSDFVar is GenerateMTSDF honoring the axes passed to
// SetVariationAxes (see its doc comment for the current limitation).
func (o *Oracle) GenerateMTSDFVar(cp fontatlas.CodePoint, fontSize int, pixelRange float64) (*fontatlas.GeneratedField, error) {
	return o.generate(cp, fontSize, pixelRange, 4)
}

func (o *Oracle) generate(cp fontatlas.CodePoint, fontSize int, pixelRange float64, channels int) (*fontatlas.GeneratedField, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.font == nil {
		return nil, fontatlas.ErrNilOracle
	}

	gid, err := o.font.GlyphIndex(&o.buf, rune(cp))
	if err != nil {
		return nil, err
	}
	if gid == 0 {
		return nil, nil
	}

	out, err := extractOutline(o.font, &o.buf, gid, float64(fontSize))
	if err != nil {
		return nil, err
	}
	if out.isEmpty() {
		return nil, nil
	}

	f := generateField(out, fontSize, pixelRange)
	if f == nil {
		return nil, nil
	}

	pixels := f.pixels
	if channels == 3 {
		pixels = dropAlpha(f.pixels)
	}

	return &fontatlas.GeneratedField{
		Metrics: fontatlas.OracleMetrics{
			Width:       f.width,
			Height:      f.height,
			Advance:     out.advance,
			PlaneLeft:   f.bounds.MinX,
			PlaneBottom: f.bounds.MinY,
			PlaneRight:  f.bounds.MaxX,
			PlaneTop:    f.bounds.MaxY,
		},
		Pixels:   pixels,
		Channels: channels,
	}, nil
}

func dropAlpha(rgba []float32) []float32 {
	rgb := make([]float32, 0, len(rgba)/4*3)
	for i := 0; i+4 <= len(rgba); i += 4 {
		rgb = append(rgb, rgba[i], rgba[i+1], rgba[i+2])
	}
	return rgb
}
