package fontatlas

import (
	"errors"
	"fmt"
)

// Sentinel errors for conditions with no payload worth inspecting.
var (
	// ErrAtlasClosed is returned by GetGlyph and PrefabLatin on a FontAtlas
	// after Close.
	ErrAtlasClosed = errors.New("fontatlas: atlas is closed")

	// ErrNilBackend is returned when a nil TextureBackend is supplied.
	ErrNilBackend = errors.New("fontatlas: texture backend must not be nil")

	// ErrNilOracle is returned when a nil SDFOracle is supplied.
	ErrNilOracle = errors.New("fontatlas: sdf oracle must not be nil")

	// ErrEmptyFontBytes is returned when a request carries no font data.
	ErrEmptyFontBytes = errors.New("fontatlas: font bytes must not be empty")
)

// LatinPageOverflowError reports that the dedicated Latin page could not
// fit a glyph from the 62-code-point Latin set. This is a fatal,
// programmer-facing condition: the Latin set must fit in one page at any
// supported generation size, so it signals an inconsistent configuration
// (page size too small for the chosen generation size or font).
type LatinPageOverflowError struct {
	VariantID string
	GenSize   int
	CodePoint CodePoint
	Width     int
	Height    int
	PageSize  int
}

func (e *LatinPageOverflowError) Error() string {
	return fmt.Sprintf("fontatlas: latin page overflow: variant %q gen-size %d cannot fit glyph U+%04X (%dx%d) in a %dx%d page",
		e.VariantID, e.GenSize, uint32(e.CodePoint), e.Width, e.Height, e.PageSize, e.PageSize)
}

// FreshPageOverflowError reports that a brand-new mixed page could not fit
// a single glyph — the glyph itself is larger than a page.
type FreshPageOverflowError struct {
	VariantID string
	GenSize   int
	CodePoint CodePoint
	Width     int
	Height    int
	PageSize  int
}

func (e *FreshPageOverflowError) Error() string {
	return fmt.Sprintf("fontatlas: fresh page overflow: variant %q gen-size %d glyph U+%04X (%dx%d) exceeds a %dx%d page; raise pageSize or lower genSize",
		e.VariantID, e.GenSize, uint32(e.CodePoint), e.Width, e.Height, e.PageSize, e.PageSize)
}

// ConfigError reports an invalid Config field.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("fontatlas: invalid config field %s: %s", e.Field, e.Reason)
}

// WorkerInitFailureError wraps the error returned by an SDF-oracle factory
// during worker-pool construction. Per the pool's lifecycle, any factory
// failure is fatal to the whole pool: the pool never starts in a
// partially-initialized state.
type WorkerInitFailureError struct {
	WorkerIndex int
	Err         error
}

func (e *WorkerInitFailureError) Error() string {
	return fmt.Sprintf("fontatlas: worker %d failed to initialize: %v", e.WorkerIndex, e.Err)
}

func (e *WorkerInitFailureError) Unwrap() error { return e.Err }
