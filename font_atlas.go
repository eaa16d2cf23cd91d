package fontatlas

import (
	"log/slog"
	"math"
	"strconv"
	"sync"
)

// GlyphRequest is the input to GetGlyph: which code point, in which
// variant, at what render size, plus the font data and variable-font axes
// needed if generation turns out to be necessary.
type GlyphRequest struct {
	VariantID  string
	CodePoint  CodePoint
	RenderSize int
	FontBytes  []byte
	Axes       map[string]float32
}

// pendingGlyph is one entry in the drain FIFO: everything drain needs to
// generate a glyph without re-consulting the request that created it.
type pendingGlyph struct {
	variant   *VariantAtlas
	cp        CodePoint
	genSize   int
	fontBytes []byte
	axes      map[string]float32
}

// FontAtlas is the public facade: it maps (variant-id, render-size) pairs
// onto Variant Atlases, owns the deferred-batch scheduler, and drives the
// SDF oracle. All mutation is serialized by mu, which stands in for the
// single logical executor the scheduling model assumes.
type FontAtlas struct {
	mu     sync.Mutex
	config Config

	backend TextureBackend
	oracle  SDFOracle

	scheduler     Scheduler
	onGlyphsReady func()

	variants map[string]*VariantAtlas
	fifo     []pendingGlyph

	drainScheduled bool
	closed         bool
}

// NewFontAtlas constructs a FontAtlas over the given backend and oracle,
// applying DefaultConfig with opts layered on top. The returned atlas uses
// an AsyncScheduler until SetScheduler is called.
func NewFontAtlas(backend TextureBackend, oracle SDFOracle, opts ...Option) (*FontAtlas, error) {
	if backend == nil {
		return nil, ErrNilBackend
	}
	if oracle == nil {
		return nil, ErrNilOracle
	}
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	propagateLogger(backend)
	propagateLogger(oracle)
	return &FontAtlas{
		config:    cfg,
		backend:   backend,
		oracle:    oracle,
		scheduler: AsyncScheduler{},
		variants:  make(map[string]*VariantAtlas),
	}, nil
}

// SetScheduler replaces the scheduler used to run future drains.
func (f *FontAtlas) SetScheduler(s Scheduler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scheduler = s
}

// SetOnGlyphsReady registers the callback invoked once per non-empty
// drain, after every touched Variant Atlas has been flushed.
func (f *FontAtlas) SetOnGlyphsReady(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onGlyphsReady = fn
}

func variantKey(variantID string, genSize int) string {
	return variantID + "_" + strconv.Itoa(genSize)
}

// GetGlyph looks up or reserves req.CodePoint in the Variant Atlas selected
// by req.VariantID and the generation size mapped from req.RenderSize. A
// cache hit returns immediately with Cached=true. A miss reserves a
// placeholder Location, enqueues generation, and schedules a drain if one
// is not already outstanding.
func (f *FontAtlas) GetGlyph(req GlyphRequest) (GlyphInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return GlyphInfo{}, ErrAtlasClosed
	}
	if len(req.FontBytes) == 0 {
		return GlyphInfo{}, ErrEmptyFontBytes
	}

	genSize := f.config.genSizeFor(req.RenderSize)
	va := f.variantFor(req.VariantID, genSize)

	if loc, ok := va.lookup(req.CodePoint); ok {
		cached := !va.isPending(req.CodePoint)
		return newGlyphInfo(req.CodePoint, genSize, loc, cached), nil
	}

	loc, err := va.reserveGlyph(req.CodePoint)
	if err != nil {
		return GlyphInfo{}, err
	}
	f.fifo = append(f.fifo, pendingGlyph{
		variant:   va,
		cp:        req.CodePoint,
		genSize:   genSize,
		fontBytes: req.FontBytes,
		axes:      req.Axes,
	})
	f.scheduleDrainLocked()
	return newGlyphInfo(req.CodePoint, genSize, loc, false), nil
}

// variantFor returns the Variant Atlas for (variantID, genSize), creating
// it on first use. Must be called with mu held.
func (f *FontAtlas) variantFor(variantID string, genSize int) *VariantAtlas {
	key := variantKey(variantID, genSize)
	va, ok := f.variants[key]
	if !ok {
		va = newVariantAtlas(variantID, genSize, f.config.PageSize, f.config.MaxMixedPages, f.backend)
		f.variants[key] = va
	}
	return va
}

// scheduleDrainLocked schedules a drain if none is outstanding. Must be
// called with mu held.
func (f *FontAtlas) scheduleDrainLocked() {
	if f.drainScheduled {
		return
	}
	f.drainScheduled = true
	f.scheduler.Schedule(f.drain)
}

// drain runs one generation batch: it takes the current FIFO snapshot,
// resolves every entry against the oracle, flushes every touched page, and
// invokes the ready callback exactly once. Requests enqueued while drain
// runs land in the next FIFO and trigger their own drain.
func (f *FontAtlas) drain() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return
	}
	snapshot := f.fifo
	f.fifo = nil
	f.drainScheduled = false
	if len(snapshot) == 0 {
		return
	}

	Logger().Debug("fontatlas: draining batch", slog.Int("size", len(snapshot)))

	touched := make(map[*VariantAtlas]struct{}, len(snapshot))
	for _, pg := range snapshot {
		f.resolveOne(pg)
		touched[pg.variant] = struct{}{}
	}
	for va := range touched {
		if err := va.flushDirty(); err != nil {
			Logger().Error("fontatlas: page flush failed",
				slog.String("variant", va.variantID), slog.Any("err", err))
		}
	}
	if f.onGlyphsReady != nil {
		f.onGlyphsReady()
	}
}

// resolveOne runs one pending glyph through the oracle and writes the
// outcome back into its Variant Atlas. Called with mu held.
func (f *FontAtlas) resolveOne(pg pendingGlyph) {
	if err := f.oracle.LoadFont(pg.fontBytes); err != nil {
		Logger().Error("fontatlas: loadFont failed during drain", slog.Any("err", err))
		pg.variant.markEmpty(pg.cp, true)
		return
	}
	has, err := f.oracle.HasGlyph(pg.cp)
	if err != nil {
		Logger().Error("fontatlas: hasGlyph failed during drain", slog.Any("err", err))
		pg.variant.markEmpty(pg.cp, true)
		return
	}
	if !has {
		pg.variant.markEmpty(pg.cp, true)
		return
	}

	field, err := f.generate(pg.cp, pg.genSize, pg.axes)
	if err != nil {
		Logger().Error("fontatlas: generation failed", slog.Any("codePoint", pg.cp), slog.Any("err", err))
		pg.variant.markEmpty(pg.cp, false)
		return
	}
	if field == nil {
		pg.variant.markEmpty(pg.cp, false)
		return
	}

	pixels := convertField(field)
	metrics := glyphMetricsFromOracle(field.Metrics)
	if err := pg.variant.fillGlyph(pg.cp, pixels, field.Metrics.Width, field.Metrics.Height, metrics); err != nil {
		Logger().Error("fontatlas: fillGlyph failed", slog.Any("codePoint", pg.cp), slog.Any("err", err))
	}
}

// generate invokes the variation-axes oracle entry point if axes is
// non-empty, else the plain MTSDF entry point.
func (f *FontAtlas) generate(cp CodePoint, genSize int, axes map[string]float32) (*GeneratedField, error) {
	if len(axes) > 0 {
		f.oracle.SetVariationAxes(axes)
		return f.oracle.GenerateMTSDFVar(cp, genSize, f.config.PixelRange)
	}
	f.oracle.ClearVariationAxes()
	return f.oracle.GenerateMTSDF(cp, genSize, f.config.PixelRange)
}

// PrefabLatin synchronously warms the Latin page of the Variant Atlas
// selected by (variantID, fontSize): every Latin code point not already
// cached is generated immediately. It does not enqueue, does not schedule
// a drain, and does not invoke the ready callback.
func (f *FontAtlas) PrefabLatin(variantID string, fontSize int, fontBytes []byte, axes map[string]float32) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return ErrAtlasClosed
	}
	if len(fontBytes) == 0 {
		return ErrEmptyFontBytes
	}
	if err := f.oracle.LoadFont(fontBytes); err != nil {
		return err
	}

	genSize := f.config.genSizeFor(fontSize)
	va := f.variantFor(variantID, genSize)

	for _, cp := range latinCodePoints() {
		if _, ok := va.lookup(cp); ok && !va.isPending(cp) {
			continue
		}

		has, err := f.oracle.HasGlyph(cp)
		if err != nil {
			Logger().Error("fontatlas: hasGlyph failed during prefab", slog.Any("err", err))
			if _, err := va.reserveGlyph(cp); err != nil {
				return err
			}
			va.markEmpty(cp, true)
			continue
		}
		if !has {
			if _, err := va.reserveGlyph(cp); err != nil {
				return err
			}
			va.markEmpty(cp, true)
			continue
		}

		field, err := f.generate(cp, genSize, axes)
		if err != nil {
			Logger().Error("fontatlas: generation failed during prefab", slog.Any("err", err))
			if _, rerr := va.reserveGlyph(cp); rerr != nil {
				return rerr
			}
			va.markEmpty(cp, false)
			continue
		}
		if field == nil {
			if _, err := va.reserveGlyph(cp); err != nil {
				return err
			}
			va.markEmpty(cp, false)
			continue
		}

		pixels := convertField(field)
		metrics := glyphMetricsFromOracle(field.Metrics)
		if err := va.addGlyph(cp, pixels, field.Metrics.Width, field.Metrics.Height, metrics); err != nil {
			return err
		}
	}

	if err := va.flushDirty(); err != nil {
		return err
	}
	Logger().Info("fontatlas: prefabLatin complete",
		slog.String("variant", variantID), slog.Int("genSize", genSize))
	return nil
}

// Tick runs the pending drain synchronously if the atlas's scheduler is a
// *ManualScheduler. It is a no-op with any other Scheduler.
func (f *FontAtlas) Tick() {
	f.mu.Lock()
	s := f.scheduler
	f.mu.Unlock()
	if ms, ok := s.(*ManualScheduler); ok {
		ms.Tick()
	}
}

// HasPendingWork reports whether the FIFO is non-empty or a drain is
// outstanding.
func (f *FontAtlas) HasPendingWork() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.fifo) > 0 || f.drainScheduled
}

// Status reports aggregate counters across every Variant Atlas.
func (f *FontAtlas) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()

	var st Status
	st.AtlasCount = len(f.variants)
	for _, va := range f.variants {
		st.PageCount += va.pageCount()
		st.GlyphCount += va.glyphCount()
		st.MemoryBytes += va.bytes()
	}
	return st
}

// Close tears down every Variant Atlas's pages and texture handles. A drain
// that is scheduled but has not started is not waited for: it finds the
// atlas closed and does nothing. A drain already running holds the atlas
// lock, so Close returns only after it finishes. Once Close returns,
// GetGlyph and PrefabLatin return ErrAtlasClosed; a second Close returns
// nil.
func (f *FontAtlas) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed {
		return nil
	}
	f.closed = true

	var firstErr error
	for _, va := range f.variants {
		if err := va.close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	f.variants = nil
	f.fifo = nil
	return firstErr
}

func glyphMetricsFromOracle(m OracleMetrics) GlyphMetrics {
	return GlyphMetrics{
		Width:       m.Width,
		Height:      m.Height,
		Advance:     m.Advance,
		PlaneLeft:   m.PlaneLeft,
		PlaneBottom: m.PlaneBottom,
		PlaneRight:  m.PlaneRight,
		PlaneTop:    m.PlaneTop,
	}
}

// convertField converts a GeneratedField's [0,1] float pixels into an RGBA
// byte buffer, promoting 3-channel input to opaque alpha.
func convertField(field *GeneratedField) []byte {
	w, h := field.Metrics.Width, field.Metrics.Height
	out := make([]byte, w*h*4)
	ch := field.Channels
	if ch <= 0 {
		ch = 4
	}
	n := w * h
	for i := 0; i < n; i++ {
		for c := 0; c < 4; c++ {
			switch {
			case c < ch:
				out[i*4+c] = toByte(field.Pixels[i*ch+c])
			case c == 3:
				out[i*4+3] = 255
			default:
				out[i*4+c] = 0
			}
		}
	}
	return out
}

func toByte(v float32) byte {
	f := float64(v)
	if f < 0 {
		f = 0
	}
	if f > 1 {
		f = 1
	}
	return byte(math.Round(f * 255))
}
