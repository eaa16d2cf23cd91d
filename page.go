package fontatlas

import "time"

const pageGutter = 1

// pageShelf is one horizontal strip of a Page's row-shelf packer: items are
// placed left to right until none fit, then a new shelf starts below the
// tallest item seen on the previous one.
type pageShelf struct {
	y      int
	height int
	x      int
}

// Page is one square RGBA texture inside a Variant Atlas, packed with a
// row-shelf allocator and a 1-pixel gutter between glyphs to prevent
// bilinear sampling bleed. Pixels are kept in a CPU-side buffer and pushed
// to the TextureBackend only when flush is called, so many glyphs added in
// one tick coalesce into a single Update call.
type Page struct {
	width, height int
	backend       TextureBackend
	handle        Handle

	pixels []byte // width*height*4, RGBA

	shelves []pageShelf

	dirty   bool
	dirtyY0 int
	dirtyY1 int

	lastAccessed time.Time
}

// newPage allocates a page's CPU buffer and backend texture. The buffer
// starts fully transparent.
func newPage(backend TextureBackend, width, height int) (*Page, error) {
	pixels := make([]byte, width*height*4)
	handle, err := backend.Create(width, height, pixels)
	if err != nil {
		return nil, err
	}
	return &Page{
		width:   width,
		height:  height,
		backend: backend,
		handle:  handle,
		pixels:  pixels,
	}, nil
}

// Handle returns the opaque texture handle clients pass back to their own
// renderer. Stable for the lifetime of the Page.
func (p *Page) Handle() Handle { return p.handle }

// Width returns the page's side length in pixels.
func (p *Page) Width() int { return p.width }

// Height returns the page's side length in pixels.
func (p *Page) Height() int { return p.height }

// LastAccessed returns the time of the most recent tryAdd or touch on this
// page. Used by callers implementing their own variant-level LRU policy;
// this package does not evict on it.
func (p *Page) LastAccessed() time.Time { return p.lastAccessed }

// touch bumps the page's last-accessed timestamp without packing anything.
func (p *Page) touch() { p.lastAccessed = time.Now() }

// tryAdd reserves a w x h rectangle using row-shelf packing and returns its
// top-left corner. It does not touch pixel contents — callers blit
// separately via blit, once generation has actually produced pixels.
func (p *Page) tryAdd(w, h int) (x, y int, ok bool) {
	p.touch()
	paddedW := w + pageGutter
	paddedH := h + pageGutter

	for i := range p.shelves {
		shelf := &p.shelves[i]
		if shelf.x+paddedW > p.width {
			continue
		}
		if h > shelf.height {
			if i != len(p.shelves)-1 {
				continue
			}
			if shelf.y+paddedH > p.height {
				continue
			}
			shelf.height = h
		}
		x, y = shelf.x, shelf.y
		shelf.x += paddedW
		return x, y, true
	}

	newY := 0
	if n := len(p.shelves); n > 0 {
		last := p.shelves[n-1]
		newY = last.y + last.height + pageGutter
	}
	if newY+paddedH > p.height {
		return 0, 0, false
	}
	p.shelves = append(p.shelves, pageShelf{y: newY, height: h, x: paddedW})
	return 0, newY, true
}

// blit copies a row-major RGBA buffer of size w x h into the page at
// (x, y), flipping vertically: source row 0 (the oracle's top scanline)
// lands at destination row y+h-1, matching the bottom-left texture origin
// convention the rest of the package assumes. It marks the affected rows
// dirty for the next flush.
func (p *Page) blit(x, y, w, h int, src []byte) {
	for row := 0; row < h; row++ {
		srcOff := row * w * 4
		dstY := y + h - 1 - row
		dstOff := (dstY*p.width + x) * 4
		copy(p.pixels[dstOff:dstOff+w*4], src[srcOff:srcOff+w*4])
	}
	p.markDirty(y, y+h-1)
}

func (p *Page) markDirty(y0, y1 int) {
	if !p.dirty {
		p.dirty = true
		p.dirtyY0, p.dirtyY1 = y0, y1
		return
	}
	if y0 < p.dirtyY0 {
		p.dirtyY0 = y0
	}
	if y1 > p.dirtyY1 {
		p.dirtyY1 = y1
	}
}

// flush pushes accumulated pixel changes to the backend texture if any are
// pending, then clears the dirty flag. The full buffer is sent regardless
// of the dirty rectangle's extent, since TextureBackend.Update replaces a
// texture's entire contents.
func (p *Page) flush() error {
	if !p.dirty {
		return nil
	}
	if err := p.backend.Update(p.handle, p.pixels); err != nil {
		return err
	}
	p.dirty = false
	return nil
}

// bytes reports the page's CPU-side memory footprint.
func (p *Page) bytes() int64 {
	return int64(len(p.pixels))
}

func (p *Page) destroy() error {
	return p.backend.Destroy(p.handle)
}
