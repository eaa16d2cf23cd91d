package texture

import (
	"errors"
	"log/slog"
	"sync"

	"github.com/gogpu/fontatlas"
)

// ErrDestroyed is returned by Update or Destroy on a texture that has
// already been destroyed.
var ErrDestroyed = errors.New("texture: already destroyed")

// Texture is one CPU-side RGBA buffer created by a Backend. It implements
// fontatlas.Handle by being the handle itself: the atlas never inspects a
// Handle, so a pointer to the concrete type is as good as any opaque token,
// and it lets tests read back pixels directly without a backend lookup.
type Texture struct {
	mu        sync.RWMutex
	width     int
	height    int
	pixels    []byte
	destroyed bool
}

// Width returns the texture's width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture's height in pixels.
func (t *Texture) Height() int { return t.height }

// Pixels returns a copy of the texture's current RGBA contents, exactly as
// last passed to Update (or Create, if Update was never called).
func (t *Texture) Pixels() []byte {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]byte, len(t.pixels))
	copy(out, t.pixels)
	return out
}

// Backend is a reference fontatlas.TextureBackend backed by plain Go
// slices. It performs no I/O and needs no GPU context, so it is the
// default a caller reaches for in tests, examples, and any headless use of
// the atlas (e.g. server-side glyph generation for a BMFont-style export).
type Backend struct{}

// New returns a Backend ready for use.
func New() *Backend { return &Backend{} }

// Create allocates a Texture and copies initial into it.
func (b *Backend) Create(width, height int, initial []byte) (fontatlas.Handle, error) {
	buf := make([]byte, len(initial))
	copy(buf, initial)
	slogger().Debug("texture: created", slog.Int("width", width), slog.Int("height", height))
	return &Texture{width: width, height: height, pixels: buf}, nil
}

// Update replaces the texture's contents with buffer.
func (b *Backend) Update(handle fontatlas.Handle, buffer []byte) error {
	t := handle.(*Texture)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrDestroyed
	}
	if len(buffer) != len(t.pixels) {
		t.pixels = make([]byte, len(buffer))
	}
	copy(t.pixels, buffer)
	return nil
}

// Destroy marks the texture destroyed and releases its buffer. Further
// Update calls return ErrDestroyed.
func (b *Backend) Destroy(handle fontatlas.Handle) error {
	t := handle.(*Texture)
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.destroyed {
		return ErrDestroyed
	}
	t.destroyed = true
	t.pixels = nil
	slogger().Debug("texture: destroyed", slog.Int("width", t.width), slog.Int("height", t.height))
	return nil
}

var _ fontatlas.TextureBackend = (*Backend)(nil)
