package fontatlas

import "testing"

func TestVariantAtlas_ReserveThenFillClearsPending(t *testing.T) {
	va := newVariantAtlas("v", 32, 64, 8, newFakeBackend())

	loc, err := va.reserveGlyph('A')
	if err != nil {
		t.Fatalf("reserveGlyph: %v", err)
	}
	if !va.isPending('A') {
		t.Fatal("expected 'A' to be pending after reserveGlyph")
	}
	if loc.Page == nil {
		t.Fatal("reserved location must already reference a page")
	}

	pixels := make([]byte, 4*4*4)
	if err := va.fillGlyph('A', pixels, 4, 4, GlyphMetrics{Width: 4, Height: 4}); err != nil {
		t.Fatalf("fillGlyph: %v", err)
	}
	if va.isPending('A') {
		t.Fatal("expected 'A' to no longer be pending after fillGlyph")
	}

	// Pointer-identity invariant: the Location returned by reserveGlyph is
	// the same one mutated by fillGlyph.
	got, ok := va.lookup('A')
	if !ok || got != loc {
		t.Fatal("fillGlyph must mutate the reserved Location in place, not replace it")
	}
	if got.Width != 4 || got.Height != 4 {
		t.Fatalf("filled location dims = %dx%d, want 4x4", got.Width, got.Height)
	}
}

func TestVariantAtlas_LatinAndMixedUseSeparatePages(t *testing.T) {
	va := newVariantAtlas("v", 32, 64, 8, newFakeBackend())

	latinLoc, err := va.reserveGlyph('A')
	if err != nil {
		t.Fatalf("reserveGlyph('A'): %v", err)
	}
	mixedLoc, err := va.reserveGlyph(0x4E00)
	if err != nil {
		t.Fatalf("reserveGlyph(CJK): %v", err)
	}
	if latinLoc.Page == mixedLoc.Page {
		t.Fatal("Latin and non-Latin code points must not share a page")
	}
}

func TestVariantAtlas_MarkEmptyClearsPendingAndZeroesRect(t *testing.T) {
	va := newVariantAtlas("v", 32, 64, 8, newFakeBackend())
	if _, err := va.reserveGlyph(' '); err != nil {
		t.Fatalf("reserveGlyph: %v", err)
	}
	va.markEmpty(' ', false)

	loc, ok := va.lookup(' ')
	if !ok {
		t.Fatal("expected an entry for ' ' after markEmpty")
	}
	if va.isPending(' ') {
		t.Fatal("markEmpty must clear pending")
	}
	if !loc.Empty || loc.Missing {
		t.Fatalf("got Empty=%v Missing=%v, want Empty=true Missing=false", loc.Empty, loc.Missing)
	}
	if loc.Width != 0 || loc.Height != 0 {
		t.Fatalf("empty glyph dims = %dx%d, want 0x0", loc.Width, loc.Height)
	}
}

func TestVariantAtlas_LatinPageOverflowIsFatal(t *testing.T) {
	va := newVariantAtlas("v", 32, 8, 8, newFakeBackend()) // page far too small for any glyph
	if _, err := va.reserveGlyph('A'); err != nil {
		t.Fatalf("reserveGlyph: %v", err)
	}
	pixels := make([]byte, 20*20*4)
	err := va.fillGlyph('A', pixels, 20, 20, GlyphMetrics{})
	if err == nil {
		t.Fatal("expected an error filling a glyph larger than the Latin page")
	}
	if _, ok := err.(*LatinPageOverflowError); !ok {
		t.Fatalf("got %T, want *LatinPageOverflowError", err)
	}
}

func TestVariantAtlas_MixedPageOverflowAllocatesFreshPage(t *testing.T) {
	va := newVariantAtlas("v", 32, 16, 8, newFakeBackend())
	pixelsSmall := make([]byte, 8*8*4)
	if _, err := va.reserveGlyph(0x4E00); err != nil {
		t.Fatalf("reserveGlyph: %v", err)
	}
	if err := va.fillGlyph(0x4E00, pixelsSmall, 8, 8, GlyphMetrics{}); err != nil {
		t.Fatalf("fillGlyph: %v", err)
	}
	if va.mixedPageCount() != 1 {
		t.Fatalf("mixedPageCount = %d, want 1", va.mixedPageCount())
	}

	// A second glyph too wide for the remaining shelf space forces a new page.
	if _, err := va.reserveGlyph(0x4E01); err != nil {
		t.Fatalf("reserveGlyph: %v", err)
	}
	if err := va.fillGlyph(0x4E01, pixelsSmall, 8, 8, GlyphMetrics{}); err != nil {
		t.Fatalf("fillGlyph: %v", err)
	}
	if va.mixedPageCount() != 2 {
		t.Fatalf("mixedPageCount = %d, want 2 (second glyph should not fit the first page's shelf)", va.mixedPageCount())
	}
}

// TestVariantAtlas_MixedReservationPageSurvivesFill is the stable-handle-
// before-pixels invariant itself: with an oracle that honors the
// requested generation size (the reference sfntsdf oracle always does),
// reserving a run of mixed glyphs ahead of any fill must hand out the
// same Page that fillGlyph later writes into, even once enough of them
// have landed to spill into a second page.
func TestVariantAtlas_MixedReservationPageSurvivesFill(t *testing.T) {
	const genSize = 32
	va := newVariantAtlas("v", genSize, 128, 64, newFakeBackend())

	cps := make([]CodePoint, 20)
	reserved := make([]*GlyphLocation, 20)
	for i := range cps {
		cps[i] = CodePoint(0x4E00 + i)
		loc, err := va.reserveGlyph(cps[i])
		if err != nil {
			t.Fatalf("reserveGlyph(%d): %v", i, err)
		}
		reserved[i] = loc
	}

	if va.mixedPageCount() < 2 {
		t.Fatalf("mixedPageCount = %d after reservation, want >= 2", va.mixedPageCount())
	}

	pixels := make([]byte, genSize*genSize*4)
	for i, cp := range cps {
		wantPage := reserved[i].Page
		if err := va.fillGlyph(cp, pixels, genSize, genSize, GlyphMetrics{Width: genSize, Height: genSize}); err != nil {
			t.Fatalf("fillGlyph(%d): %v", i, err)
		}
		loc, ok := va.lookup(cp)
		if !ok {
			t.Fatalf("code point %d missing from index after fill", i)
		}
		if loc.Page != wantPage {
			t.Fatalf("code point %d: Page changed between reservation and fill", i)
		}
	}
}
