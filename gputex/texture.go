//go:build !nogpu

package gputex

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/core"

	"github.com/gogpu/fontatlas"
)

// Errors returned by Texture and Backend operations.
var (
	// ErrReleased is returned when operating on a released texture.
	ErrReleased = errors.New("gputex: texture has been released")

	// ErrSizeMismatch is returned when a buffer's length does not match
	// the texture's width*height*4.
	ErrSizeMismatch = errors.New("gputex: buffer size does not match texture dimensions")
)

// DefaultUsage combines CopyDst (writable from the CPU side),
// TextureBinding (sampleable by a shader) and CopySrc (pixels can be read
// back for debugging). Create does not record usage flags on the Texture it
// returns.
const DefaultUsage = gputypes.TextureUsageCopyDst | gputypes.TextureUsageCopySrc | gputypes.TextureUsageTextureBinding

// Texture is a GPU-resource-shaped handle: real dimensions, format, and a
// real gputypes/core type system end to end, but the device-queue upload
// itself is a stub — this mirrors the teacher codebase's own
// internal/gpu texture wrapper, which carries the identical TODO against
// core.QueueWriteTexture pending that API landing in gogpu/wgpu. Width,
// height and format are recorded, and Destroy marks the texture released
// (a single flag; repeated Destroy calls are no-ops, there is no reference
// count). No device texture is allocated, so TextureID stays zero, and no
// bytes reach a device. Usage flags are not stored and the label is empty.
type Texture struct {
	mu sync.RWMutex

	textureID core.TextureID
	viewID    core.TextureViewID

	width, height int
	format        gputypes.TextureFormat
	label         string

	released atomic.Bool
}

// Width returns the texture's width in pixels.
func (t *Texture) Width() int { return t.width }

// Height returns the texture's height in pixels.
func (t *Texture) Height() int { return t.height }

// Format returns the texture's pixel format.
func (t *Texture) Format() gputypes.TextureFormat { return t.format }

// TextureID returns the underlying wgpu texture ID. Zero for a stub
// texture that was never actually allocated on a device.
func (t *Texture) TextureID() core.TextureID {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.textureID
}

// IsReleased reports whether Destroy has been called on this texture.
func (t *Texture) IsReleased() bool { return t.released.Load() }

func (t *Texture) String() string {
	status := "active"
	if t.IsReleased() {
		status = "released"
	}
	return fmt.Sprintf("gputex.Texture[%s %dx%d %s]", t.label, t.width, t.height, status)
}

// Backend is the reference GPU fontatlas.TextureBackend: every Page it
// backs gets one RGBA8 Texture sized to the page, created and updated
// through this Backend. Backend itself is stateless — it holds no device
// handle because the reference wgpu core API this is grounded on does not
// yet expose one (see Texture's doc comment) — so a zero Backend is ready
// to use, the same way the source file it is adapted from accepted a nil
// *gpu.Backend for stub/testing mode.
type Backend struct{}

// New returns a Backend ready for use.
func New() *Backend { return &Backend{} }

// Create allocates a Texture sized width x height, RGBA8, and uploads
// initial as its starting contents (stubbed, see Texture's doc comment).
func (b *Backend) Create(width, height int, initial []byte) (fontatlas.Handle, error) {
	if len(initial) != width*height*4 {
		return nil, ErrSizeMismatch
	}
	tex := &Texture{
		width:  width,
		height: height,
		format: gputypes.TextureFormatRGBA8Unorm,
		// textureID and viewID stay zero: no device texture is allocated,
		// see Texture's doc comment.
	}
	slogger().Debug("gputex: texture created", slog.Int("width", width), slog.Int("height", height))
	return tex, nil
}

// Update uploads buffer to handle's GPU texture (stubbed, see Texture's
// doc comment). The call is validated and accounted for even though the
// actual device write does not happen yet.
func (b *Backend) Update(handle fontatlas.Handle, buffer []byte) error {
	tex := handle.(*Texture)
	if tex.IsReleased() {
		return ErrReleased
	}
	if len(buffer) != tex.width*tex.height*4 {
		return fmt.Errorf("%w: texture is %dx%d, buffer has %d bytes",
			ErrSizeMismatch, tex.width, tex.height, len(buffer))
	}

	// TODO: core.QueueWriteTexture(queue, &gputypes.ImageCopyTexture{
	//     Texture: uintptr(tex.textureID.Raw()),
	//     Origin:  gputypes.Origin3D{},
	//     Aspect:  gputypes.TextureAspectAll,
	// }, buffer, &gputypes.TextureDataLayout{
	//     BytesPerRow:  uint32(tex.width * 4),
	//     RowsPerImage: uint32(tex.height),
	// }, &gputypes.Extent3D{
	//     Width: uint32(tex.width), Height: uint32(tex.height), DepthOrArrayLayers: 1,
	// })
	// once gogpu/wgpu/core exposes a queue handle to Backend.
	return nil
}

// Destroy releases handle's GPU resources (stubbed) and marks it
// unusable. Idempotent.
func (b *Backend) Destroy(handle fontatlas.Handle) error {
	tex := handle.(*Texture)
	if tex.released.Swap(true) {
		return nil
	}
	tex.mu.Lock()
	tex.textureID = core.TextureID{}
	tex.viewID = core.TextureViewID{}
	tex.mu.Unlock()
	slogger().Debug("gputex: texture released", slog.String("texture", tex.String()))
	// TODO: core.TextureViewDrop(tex.viewID); core.TextureDrop(tex.textureID)
	// once those calls exist.
	return nil
}

var _ fontatlas.TextureBackend = (*Backend)(nil)
