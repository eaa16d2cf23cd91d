// Package texture is a reference, pure-Go fontatlas.TextureBackend: it
// keeps each page's pixels in a plain CPU buffer with no device or windowing
// dependency. It exists so the root package is usable standalone, without a
// GPU context, and so tests and examples have something concrete to pass to
// fontatlas.NewFontAtlas. Callers targeting a real GPU should use gputex (or
// their own backend) instead.
package texture
