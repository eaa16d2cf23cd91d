package fontatlas

// Config holds the tunable parameters of a FontAtlas. Construct one with
// DefaultConfig and override fields with Option functions, or build one
// directly and call Validate before use.
type Config struct {
	// GenSizes is the ascending sequence of generation sizes a render size
	// gets mapped onto. Must be non-empty and strictly ascending.
	GenSizes []int

	// SizeThresholds has len(GenSizes)-1 entries. GetGlyph scans these in
	// order and returns GenSizes[i] for the first threshold >= renderSize,
	// or the last GenSize if none match.
	SizeThresholds []int

	// PageSize is the side length, in pixels, of a square Page.
	PageSize int

	// MaxMixedPages caps the number of non-Latin pages per Variant Atlas.
	// Reaching the cap logs a warning and allocation continues (eviction
	// is a non-goal, see DESIGN.md).
	MaxMixedPages int

	// PixelRange is the distance range, in pixels, passed to the SDF
	// oracle on every generation call.
	PixelRange float64
}

// DefaultConfig returns the spec-mandated defaults: gen sizes {32, 64,
// 128}, thresholds {40, 80}, a 1024px page, 8 mixed pages, pixel range 4.
func DefaultConfig() Config {
	return Config{
		GenSizes:       []int{32, 64, 128},
		SizeThresholds: []int{40, 80},
		PageSize:       1024,
		MaxMixedPages:  8,
		PixelRange:     4,
	}
}

// Option configures a Config field during FontAtlas construction.
type Option func(*Config)

// WithGenSizes overrides the generation-size ladder.
func WithGenSizes(sizes ...int) Option {
	return func(c *Config) { c.GenSizes = sizes }
}

// WithSizeThresholds overrides the render-size thresholds.
func WithSizeThresholds(thresholds ...int) Option {
	return func(c *Config) { c.SizeThresholds = thresholds }
}

// WithPageSize overrides the page side length in pixels.
func WithPageSize(size int) Option {
	return func(c *Config) { c.PageSize = size }
}

// WithMaxMixedPages overrides the per-variant mixed-page cap.
func WithMaxMixedPages(n int) Option {
	return func(c *Config) { c.MaxMixedPages = n }
}

// WithPixelRange overrides the distance range passed to the SDF oracle.
func WithPixelRange(r float64) Option {
	return func(c *Config) { c.PixelRange = r }
}

// Validate reports whether the configuration is internally consistent.
func (c *Config) Validate() error {
	if len(c.GenSizes) == 0 {
		return &ConfigError{Field: "GenSizes", Reason: "must be non-empty"}
	}
	for i, s := range c.GenSizes {
		if s <= 0 {
			return &ConfigError{Field: "GenSizes", Reason: "entries must be positive"}
		}
		if i > 0 && c.GenSizes[i-1] >= s {
			return &ConfigError{Field: "GenSizes", Reason: "must be strictly ascending"}
		}
	}
	if len(c.SizeThresholds) != len(c.GenSizes)-1 {
		return &ConfigError{Field: "SizeThresholds", Reason: "must have len(GenSizes)-1 entries"}
	}
	if c.PageSize <= 0 {
		return &ConfigError{Field: "PageSize", Reason: "must be positive"}
	}
	if c.MaxMixedPages <= 0 {
		return &ConfigError{Field: "MaxMixedPages", Reason: "must be positive"}
	}
	if c.PixelRange <= 0 {
		return &ConfigError{Field: "PixelRange", Reason: "must be positive"}
	}
	return nil
}

// genSizeFor implements the spec's generation-size selection: scan
// SizeThresholds in order, returning GenSizes[i] for the first threshold
// >= renderSize, else the last GenSize.
func (c *Config) genSizeFor(renderSize int) int {
	for i, threshold := range c.SizeThresholds {
		if renderSize <= threshold {
			return c.GenSizes[i]
		}
	}
	return c.GenSizes[len(c.GenSizes)-1]
}
