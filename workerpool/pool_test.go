package workerpool

import (
	"errors"
	"testing"

	"github.com/gogpu/fontatlas"
)

// fakeOracle produces a deterministic field for any code point: one pixel
// whose red channel encodes the code point, so tests can check batch
// ordering without caring about real SDF math.
type fakeOracle struct {
	loadErr error
}

func (f *fakeOracle) LoadFont(b []byte) error { return f.loadErr }
func (f *fakeOracle) HasGlyph(cp fontatlas.CodePoint) (bool, error) { return true, nil }

func (f *fakeOracle) Generate(cp fontatlas.CodePoint, fontSize int, pixelRange float64) (*fontatlas.GeneratedField, error) {
	return f.field(cp, 3), nil
}

func (f *fakeOracle) GenerateMTSDF(cp fontatlas.CodePoint, fontSize int, pixelRange float64) (*fontatlas.GeneratedField, error) {
	return f.field(cp, 4), nil
}

func (f *fakeOracle) SetVariationAxes(map[string]float32) {}
func (f *fakeOracle) ClearVariationAxes()                 {}

func (f *fakeOracle) GenerateMTSDFVar(cp fontatlas.CodePoint, fontSize int, pixelRange float64) (*fontatlas.GeneratedField, error) {
	return f.field(cp, 4), nil
}

func (f *fakeOracle) field(cp fontatlas.CodePoint, channels int) *fontatlas.GeneratedField {
	pixels := make([]float32, channels)
	pixels[0] = float32(cp) / 255
	return &fontatlas.GeneratedField{
		Metrics:  fontatlas.OracleMetrics{Width: 1, Height: 1},
		Pixels:   pixels,
		Channels: channels,
	}
}

func newFakeFactory() OracleFactory {
	return func() (fontatlas.SDFOracle, error) { return &fakeOracle{}, nil }
}

func TestPool_GenerateGlyph(t *testing.T) {
	p, err := NewPool(2, newFakeFactory(), []byte("font"))
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer p.Dispose()

	field, err := p.GenerateGlyph('A', 32, 4)
	if err != nil {
		t.Fatalf("GenerateGlyph: %v", err)
	}
	if field.Pixels[0] != float32('A')/255 {
		t.Errorf("got pixel %v, want encoding of 'A'", field.Pixels[0])
	}
}

func TestPool_GenerateBatchPreservesOrder(t *testing.T) {
	p, err := NewPool(4, newFakeFactory(), []byte("font"))
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer p.Dispose()

	cps := make([]fontatlas.CodePoint, 0, 62)
	for c := fontatlas.CodePoint('0'); c <= '9'; c++ {
		cps = append(cps, c)
	}
	for c := fontatlas.CodePoint('a'); c <= 'z'; c++ {
		cps = append(cps, c)
	}

	fields, errs := p.GenerateBatch(cps, 32, 4)
	if len(fields) != len(cps) {
		t.Fatalf("got %d fields, want %d", len(fields), len(cps))
	}
	for i, cp := range cps {
		if errs[i] != nil {
			t.Fatalf("unexpected error at %d: %v", i, errs[i])
		}
		want := float32(cp) / 255
		if fields[i].Pixels[0] != want {
			t.Errorf("index %d: got pixel %v, want %v (code point %v out of order)", i, fields[i].Pixels[0], want, cp)
		}
	}
}

func TestPool_WorkerInitFailure(t *testing.T) {
	attempt := 0
	factory := func() (fontatlas.SDFOracle, error) {
		attempt++
		if attempt == 2 {
			return nil, errors.New("boom")
		}
		return &fakeOracle{}, nil
	}

	_, err := NewPool(4, factory, []byte("font"))
	if err == nil {
		t.Fatal("expected error from failing factory")
	}
	var initErr *fontatlas.WorkerInitFailureError
	if !errors.As(err, &initErr) {
		t.Fatalf("got %T, want *fontatlas.WorkerInitFailureError", err)
	}
}

func TestPool_DisposeIsIdempotent(t *testing.T) {
	p, err := NewPool(2, newFakeFactory(), []byte("font"))
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	p.Dispose()
	p.Dispose()
}

// flakyOracle fails to generate exactly one code point, simulating a
// corrupt glyph outline mid-task (the failure mode left as an open
// question upstream and resolved here: the oracle stays in service).
type flakyOracle struct {
	fail fontatlas.CodePoint
}

func (f *flakyOracle) LoadFont(b []byte) error                     { return nil }
func (f *flakyOracle) HasGlyph(fontatlas.CodePoint) (bool, error)   { return true, nil }
func (f *flakyOracle) SetVariationAxes(map[string]float32)         {}
func (f *flakyOracle) ClearVariationAxes()                         {}

func (f *flakyOracle) Generate(cp fontatlas.CodePoint, fontSize int, pixelRange float64) (*fontatlas.GeneratedField, error) {
	return f.generate(cp)
}

func (f *flakyOracle) GenerateMTSDF(cp fontatlas.CodePoint, fontSize int, pixelRange float64) (*fontatlas.GeneratedField, error) {
	return f.generate(cp)
}

func (f *flakyOracle) GenerateMTSDFVar(cp fontatlas.CodePoint, fontSize int, pixelRange float64) (*fontatlas.GeneratedField, error) {
	return f.generate(cp)
}

func (f *flakyOracle) generate(cp fontatlas.CodePoint) (*fontatlas.GeneratedField, error) {
	if cp == f.fail {
		return nil, errors.New("corrupt glyph outline")
	}
	return &fontatlas.GeneratedField{
		Metrics:  fontatlas.OracleMetrics{Width: 1, Height: 1},
		Pixels:   []float32{1, 1, 1, 1},
		Channels: 4,
	}, nil
}

// TestPool_WorkerSurvivesMidTaskError exercises the §12.2 resolution: one
// job's oracle error is reported on that job's own reply, and the worker
// keeps serving later jobs from the shared channel rather than being torn
// down or respawned.
func TestPool_WorkerSurvivesMidTaskError(t *testing.T) {
	p, err := NewPool(1, func() (fontatlas.SDFOracle, error) { return &flakyOracle{fail: 'B'}, nil }, []byte("font"))
	if err != nil {
		t.Fatalf("NewPool: %v", err)
	}
	defer p.Dispose()

	cps := []fontatlas.CodePoint{'A', 'B', 'C'}
	fields, errs := p.GenerateBatch(cps, 32, 4)

	if errs[0] != nil || fields[0] == nil {
		t.Fatalf("'A': got field=%v err=%v, want a successful result", fields[0], errs[0])
	}
	if errs[1] == nil {
		t.Fatal("'B': expected the oracle's error to surface, got nil")
	}
	if fields[1] != nil {
		t.Fatal("'B': expected a nil field alongside the error")
	}
	if errs[2] != nil || fields[2] == nil {
		t.Fatalf("'C': got field=%v err=%v, want a successful result after the prior job's error", fields[2], errs[2])
	}
}
