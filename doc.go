// Package fontatlas caches signed-distance-field glyph pixels in shared
// GPU-style texture pages and serves them to a text-rendering client on
// demand.
//
// A [FontAtlas] maps a (variant, render size) pair to a [VariantAtlas],
// which in turn packs glyph pixels into fixed-size [Page] buffers using a
// row-shelf allocator. Requests for glyphs that are not yet cached are
// reserved immediately — the caller gets a stable texture handle before any
// pixels exist — and the actual generation work is deferred to a scheduler
// tick so that many requests in the same synchronous turn coalesce into a
// single generation batch.
//
// Generation itself is delegated to a client-supplied [SDFOracle] and the
// resulting texture updates to a client-supplied [TextureBackend]; neither
// text shaping nor rendering is in scope here. Reference implementations of
// both collaborators live in the sfntsdf and texture subpackages.
package fontatlas
