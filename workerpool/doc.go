// Package workerpool implements the parallel SDF-generation pool used by
// bulk glyph production (BMFont-style batch export and similar callers). It
// is independent of fontatlas.FontAtlas's on-demand deferred batch, which
// stays single-threaded to keep its atlas-write serialization trivial.
package workerpool
