package fontatlas

// Handle is an opaque reference to a texture created by a TextureBackend.
// The atlas never inspects it; it only ever passes it back to the same
// backend or hands it to the client inside a GlyphInfo.
type Handle any

// TextureBackend creates and updates the GPU (or software) texture that
// backs a Page's pixel buffer. Implementations are client-supplied; the
// texture and gputex packages provide reference ones.
type TextureBackend interface {
	// Create allocates a new width x height RGBA texture, uploading
	// initial as its starting contents. initial is exactly width*height*4
	// bytes; the caller keeps using the same slice as the page's CPU-side
	// buffer after Create returns.
	Create(width, height int, initial []byte) (Handle, error)

	// Update replaces the full contents of handle with buffer, which is
	// exactly the width*height*4 bytes passed to Create. buffer may be
	// read synchronously during the call; the caller retains ownership of
	// the slice and may reuse it once Update returns.
	Update(handle Handle, buffer []byte) error

	// Destroy releases a texture created by Create. Called at most once
	// per handle, when the owning Variant Atlas is torn down.
	Destroy(handle Handle) error
}
