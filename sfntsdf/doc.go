// Package sfntsdf is the reference fontatlas.SDFOracle: it parses TTF/OTF
// fonts with golang.org/x/image/font/sfnt and renders multi-channel signed
// distance fields directly from the extracted glyph outlines, without a
// WASM boundary.
package sfntsdf
