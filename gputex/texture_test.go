//go:build !nogpu

package gputex

import "testing"

func TestBackend_CreateSizeMismatch(t *testing.T) {
	b := New()
	if _, err := b.Create(4, 4, make([]byte, 3)); err == nil {
		t.Error("expected error for undersized initial buffer")
	}
}

func TestBackend_CreateUpdateDestroy(t *testing.T) {
	b := New()
	h, err := b.Create(8, 8, make([]byte, 8*8*4))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	tex := h.(*Texture)
	if tex.IsReleased() {
		t.Fatal("new texture reports released")
	}

	if err := b.Update(h, make([]byte, 8*8*4)); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := b.Destroy(h); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if !tex.IsReleased() {
		t.Error("expected texture to report released after Destroy")
	}
	if err := b.Update(h, make([]byte, 8*8*4)); err == nil {
		t.Error("expected Update after Destroy to fail")
	}
	if err := b.Destroy(h); err != nil {
		t.Errorf("second Destroy should be a no-op, got %v", err)
	}
}
