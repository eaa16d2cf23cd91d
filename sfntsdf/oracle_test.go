package sfntsdf

import (
	"os"
	"testing"

	"github.com/gogpu/fontatlas"
)

// testFontPath returns a system TTF usable for tests, skipping if none is
// found (TTC collections are not supported by golang.org/x/image/font/sfnt).
func testFontPath(t *testing.T) string {
	t.Helper()

	candidates := []string{
		"C:\\Windows\\Fonts\\arial.ttf",
		"C:\\Windows\\Fonts\\calibri.ttf",
		"/Library/Fonts/Arial.ttf",
		"/System/Library/Fonts/Supplemental/Arial.ttf",
		"/System/Library/Fonts/Supplemental/Courier New.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/usr/share/fonts/liberation/LiberationSans-Regular.ttf",
		"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	t.Skip("no TTF font available on this system")
	return ""
}

func loadTestFont(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(testFontPath(t))
	if err != nil {
		t.Fatalf("failed to read font: %v", err)
	}
	return data
}

func TestOracle_LoadFontIsIdempotent(t *testing.T) {
	data := loadTestFont(t)
	o := New()
	if err := o.LoadFont(data); err != nil {
		t.Fatalf("LoadFont: %v", err)
	}
	if err := o.LoadFont(data); err != nil {
		t.Fatalf("second LoadFont: %v", err)
	}
}

func TestOracle_HasGlyphLatin(t *testing.T) {
	data := loadTestFont(t)
	o := New()
	if err := o.LoadFont(data); err != nil {
		t.Fatalf("LoadFont: %v", err)
	}

	has, err := o.HasGlyph('A')
	if err != nil {
		t.Fatalf("HasGlyph: %v", err)
	}
	if !has {
		t.Error("expected 'A' to be present in a standard Latin font")
	}
}

func TestOracle_HasGlyphMissing(t *testing.T) {
	data := loadTestFont(t)
	o := New()
	if err := o.LoadFont(data); err != nil {
		t.Fatalf("LoadFont: %v", err)
	}

	// U+10FFFF is outside any realistic cmap.
	has, err := o.HasGlyph(0x10FFFF)
	if err != nil {
		t.Fatalf("HasGlyph: %v", err)
	}
	if has {
		t.Error("expected U+10FFFF to be absent")
	}
}

func TestOracle_GenerateMTSDFProducesFourChannels(t *testing.T) {
	data := loadTestFont(t)
	o := New()
	if err := o.LoadFont(data); err != nil {
		t.Fatalf("LoadFont: %v", err)
	}

	field, err := o.GenerateMTSDF('A', 32, 4)
	if err != nil {
		t.Fatalf("GenerateMTSDF: %v", err)
	}
	if field == nil {
		t.Fatal("expected a non-nil field for 'A'")
	}
	if field.Channels != 4 {
		t.Errorf("Channels = %d, want 4", field.Channels)
	}
	if got, want := len(field.Pixels), field.Metrics.Width*field.Metrics.Height*4; got != want {
		t.Errorf("len(Pixels) = %d, want %d", got, want)
	}
	if field.Metrics.Width != 32 || field.Metrics.Height != 32 {
		t.Errorf("Metrics dims = %dx%d, want 32x32", field.Metrics.Width, field.Metrics.Height)
	}
}

func TestOracle_GenerateSpaceIsEmpty(t *testing.T) {
	data := loadTestFont(t)
	o := New()
	if err := o.LoadFont(data); err != nil {
		t.Fatalf("LoadFont: %v", err)
	}

	field, err := o.GenerateMTSDF(' ', 32, 4)
	if err != nil {
		t.Fatalf("GenerateMTSDF: %v", err)
	}
	if field != nil {
		t.Error("expected a nil field for the space glyph")
	}
}

func TestOracle_GenerateMissingGlyphIsNilField(t *testing.T) {
	data := loadTestFont(t)
	o := New()
	if err := o.LoadFont(data); err != nil {
		t.Fatalf("LoadFont: %v", err)
	}

	// GenerateMTSDF on a code point with no glyph index returns (nil, nil)
	// per the SDFOracle contract, not an error.
	field, err := o.GenerateMTSDF(0x10FFFF, 32, 4)
	if err != nil {
		t.Fatalf("GenerateMTSDF: %v", err)
	}
	if field != nil {
		t.Error("expected nil field for a missing glyph")
	}
}

var _ fontatlas.SDFOracle = (*Oracle)(nil)
