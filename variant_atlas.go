package fontatlas

import "log/slog"

// VariantAtlas is the cache for one (variant-id, generation-size) pair: a
// dedicated Latin page plus a growing list of mixed pages, a code-point
// index, and the set of code points currently pending generation.
//
// A VariantAtlas performs no locking of its own — it is always driven from
// inside the FontAtlas mutex, which is the single logical executor the
// scheduling model assumes.
type VariantAtlas struct {
	variantID     string
	genSize       int
	pageSize      int
	maxMixedPages int
	backend       TextureBackend

	latinPage  *Page
	mixedPages []*Page

	index   map[CodePoint]*GlyphLocation
	pending map[CodePoint]struct{}
}

func newVariantAtlas(variantID string, genSize, pageSize, maxMixedPages int, backend TextureBackend) *VariantAtlas {
	return &VariantAtlas{
		variantID:     variantID,
		genSize:       genSize,
		pageSize:      pageSize,
		maxMixedPages: maxMixedPages,
		backend:       backend,
		index:         make(map[CodePoint]*GlyphLocation),
		pending:       make(map[CodePoint]struct{}),
	}
}

// lookup returns the cached Location for cp, if any, bumping its page's
// last-accessed timestamp.
func (v *VariantAtlas) lookup(cp CodePoint) (*GlyphLocation, bool) {
	loc, ok := v.index[cp]
	if ok && loc.Page != nil {
		loc.Page.touch()
	}
	return loc, ok
}

// isPending reports whether cp has been reserved but not yet filled.
func (v *VariantAtlas) isPending(cp CodePoint) bool {
	_, ok := v.pending[cp]
	return ok
}

// reserveGlyph marks cp pending and inserts a placeholder Location pointing
// at the page that will host its pixels: the Latin page for Latin code
// points, or a mixed page committed to at the variant's generation size for
// everything else. Committing a real shelf slot now — rather than just
// naming a page — is what lets fillGlyph land on the exact same Page later:
// see reserveMixedSlot.
func (v *VariantAtlas) reserveGlyph(cp CodePoint) (*GlyphLocation, error) {
	loc := &GlyphLocation{}
	if IsLatin(cp) {
		page, err := v.ensureLatinPage()
		if err != nil {
			return nil, err
		}
		loc.Page = page
	} else {
		page, x, y, committed, err := v.reserveMixedSlot(cp)
		if err != nil {
			return nil, err
		}
		loc.Page = page
		if committed {
			loc.reservedX, loc.reservedY = x, y
			loc.reservedW, loc.reservedH = v.genSize, v.genSize
		}
	}
	v.index[cp] = loc
	v.pending[cp] = struct{}{}
	return loc, nil
}

// reserveMixedSlot commits shelf space for a glyph of the variant's
// generation size — the best estimate of the real pixel size available
// before generation has run — mirroring allocate's page search and
// new-page fallback. Committing real space, rather than just picking a
// page, is what makes reservation headroom-aware: without it, every
// reservation made before the next drain would land on the same page
// regardless of how many glyphs it can actually hold.
//
// If the generation size doesn't even fit a brand-new page (genSize
// configured larger than pageSize), the returned page is a best-effort
// guess only: committed is false, no rectangle was consumed, and
// fillGlyph must run its own real-size search rather than trust (x, y).
// Unlike fillGlyph's tryAdd, a reservation-time size mismatch is never
// fatal — the real size, known only at fill, is the authoritative check.
func (v *VariantAtlas) reserveMixedSlot(cp CodePoint) (page *Page, x, y int, committed bool, err error) {
	for _, p := range v.mixedPages {
		if x, y, ok := p.tryAdd(v.genSize, v.genSize); ok {
			return p, x, y, true, nil
		}
	}
	fresh, err := v.newMixedPage()
	if err != nil {
		return nil, 0, 0, false, err
	}
	if x, y, ok := fresh.tryAdd(v.genSize, v.genSize); ok {
		return fresh, x, y, true, nil
	}
	return fresh, 0, 0, false, nil
}

// fillGlyph writes generated pixels for cp and mutates the existing
// reserved Location in place. A mixed-page reservation's committed slot is
// honored as long as the generated glyph fits inside it, keeping Page
// identical to what reserveGlyph already handed the client; only a glyph
// that overflows its committed slot falls over to a fresh search (and,
// rarely, a different Page), the same way a Latin glyph that overflows the
// Latin page is always fatal rather than silently re-pointed.
func (v *VariantAtlas) fillGlyph(cp CodePoint, pixels []byte, w, h int, metrics GlyphMetrics) error {
	loc, ok := v.index[cp]
	if !ok {
		loc = &GlyphLocation{}
		v.index[cp] = loc
	}

	page, x, y, err := v.allocateForFill(cp, loc, w, h)
	if err != nil {
		return err
	}
	page.blit(x, y, w, h, pixels)

	loc.Page = page
	loc.X, loc.Y = x, y
	loc.Width, loc.Height = w, h
	loc.Metrics = metrics
	loc.Empty = false
	loc.Missing = false
	loc.reservedW, loc.reservedH = 0, 0
	delete(v.pending, cp)
	return nil
}

// allocateForFill resolves the Page and rectangle a generated glyph should
// land in. Latin glyphs always use the single Latin page, fatally on
// overflow. A mixed glyph that fits within its reservation's committed slot
// uses that slot directly, without a further tryAdd — the slot was already
// consumed when reserved. Anything else (no reservation, e.g. addGlyph; or
// a glyph too big for its committed slot) falls back to the original
// search-existing-then-create-fresh allocation.
func (v *VariantAtlas) allocateForFill(cp CodePoint, loc *GlyphLocation, w, h int) (page *Page, x, y int, err error) {
	if IsLatin(cp) {
		page, err = v.ensureLatinPage()
		if err != nil {
			return nil, 0, 0, err
		}
		x, y, ok := page.tryAdd(w, h)
		if !ok {
			return nil, 0, 0, &LatinPageOverflowError{
				VariantID: v.variantID, GenSize: v.genSize, CodePoint: cp,
				Width: w, Height: h, PageSize: v.pageSize,
			}
		}
		return page, x, y, nil
	}

	if loc.reservedW > 0 && loc.Page != nil && w <= loc.reservedW && h <= loc.reservedH {
		return loc.Page, loc.reservedX, loc.reservedY, nil
	}

	if loc.reservedW > 0 {
		Logger().Debug("fontatlas: glyph outgrew its reserved slot, re-searching",
			slog.String("variant", v.variantID), slog.Any("codePoint", cp),
			slog.Int("width", w), slog.Int("height", h),
			slog.Int("reservedSize", loc.reservedW))
	}
	return v.allocate(cp, w, h)
}

// addGlyph is fillGlyph for the synchronous prefab path: no prior
// reservation is assumed.
func (v *VariantAtlas) addGlyph(cp CodePoint, pixels []byte, w, h int, metrics GlyphMetrics) error {
	return v.fillGlyph(cp, pixels, w, h, metrics)
}

// markEmpty flags cp's reserved entry as empty (and, if missing is true, as
// missing from the font) and clears it from the pending set.
func (v *VariantAtlas) markEmpty(cp CodePoint, missing bool) {
	loc, ok := v.index[cp]
	if !ok {
		loc = &GlyphLocation{}
		v.index[cp] = loc
	}
	loc.Width, loc.Height = 0, 0
	loc.Empty = true
	loc.Missing = missing
	delete(v.pending, cp)
}

func (v *VariantAtlas) ensureLatinPage() (*Page, error) {
	if v.latinPage == nil {
		page, err := newPage(v.backend, v.pageSize, v.pageSize)
		if err != nil {
			return nil, err
		}
		v.latinPage = page
	}
	return v.latinPage, nil
}

func (v *VariantAtlas) newMixedPage() (*Page, error) {
	if len(v.mixedPages) >= v.maxMixedPages {
		Logger().Warn("fontatlas: mixed page cap reached, allocating anyway",
			slog.String("variant", v.variantID),
			slog.Int("genSize", v.genSize),
			slog.Int("maxMixedPages", v.maxMixedPages))
	}
	page, err := newPage(v.backend, v.pageSize, v.pageSize)
	if err != nil {
		return nil, err
	}
	v.mixedPages = append(v.mixedPages, page)
	Logger().Info("fontatlas: new mixed page allocated",
		slog.String("variant", v.variantID),
		slog.Int("genSize", v.genSize),
		slog.Int("mixedPageCount", len(v.mixedPages)))
	return page, nil
}

// allocate places a w x h mixed-class glyph for cp, trying the existing
// mixed pages (in order) before creating a fresh one. Called by
// allocateForFill either for a glyph with no reservation to honor (the
// addGlyph path) or one that outgrew the slot its reservation committed.
func (v *VariantAtlas) allocate(cp CodePoint, w, h int) (page *Page, x, y int, err error) {
	for _, p := range v.mixedPages {
		if x, y, ok := p.tryAdd(w, h); ok {
			return p, x, y, nil
		}
	}
	fresh, err := v.newMixedPage()
	if err != nil {
		return nil, 0, 0, err
	}
	x, y, ok := fresh.tryAdd(w, h)
	if !ok {
		return nil, 0, 0, &FreshPageOverflowError{
			VariantID: v.variantID, GenSize: v.genSize, CodePoint: cp,
			Width: w, Height: h, PageSize: v.pageSize,
		}
	}
	return fresh, x, y, nil
}

// flushDirty pushes every page with pending pixel writes to its backend.
func (v *VariantAtlas) flushDirty() error {
	if v.latinPage != nil {
		if err := v.latinPage.flush(); err != nil {
			return err
		}
	}
	for _, p := range v.mixedPages {
		if err := p.flush(); err != nil {
			return err
		}
	}
	return nil
}

func (v *VariantAtlas) pageCount() int {
	n := len(v.mixedPages)
	if v.latinPage != nil {
		n++
	}
	return n
}

func (v *VariantAtlas) glyphCount() int {
	return len(v.index)
}

func (v *VariantAtlas) mixedPageCount() int {
	return len(v.mixedPages)
}

func (v *VariantAtlas) bytes() int64 {
	var total int64
	if v.latinPage != nil {
		total += v.latinPage.bytes()
	}
	for _, p := range v.mixedPages {
		total += p.bytes()
	}
	return total
}

func (v *VariantAtlas) close() error {
	if v.latinPage != nil {
		if err := v.latinPage.destroy(); err != nil {
			return err
		}
	}
	for _, p := range v.mixedPages {
		if err := p.destroy(); err != nil {
			return err
		}
	}
	return nil
}
