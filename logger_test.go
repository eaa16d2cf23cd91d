package fontatlas

import (
	"log/slog"
	"testing"
)

// loggingOracle embeds fakeOracle and records the logger it was handed,
// implementing loggerSetter the same way sfntsdf.Oracle does.
type loggingOracle struct {
	*fakeOracle
	got *slog.Logger
}

func (o *loggingOracle) SetLogger(l *slog.Logger) { o.got = l }

func TestNewFontAtlas_PropagatesLoggerToCollaborators(t *testing.T) {
	custom := slog.Default()
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })
	SetLogger(custom)

	oracle := &loggingOracle{fakeOracle: newFakeOracle(4)}
	atlas, err := NewFontAtlas(newFakeBackend(), oracle)
	if err != nil {
		t.Fatalf("NewFontAtlas: %v", err)
	}
	defer atlas.Close()

	if oracle.got != custom {
		t.Fatal("expected NewFontAtlas to propagate the current logger to an oracle implementing loggerSetter")
	}
}

func TestSetLogger_PropagatesToRegisteredCollaborators(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	oracle := &loggingOracle{fakeOracle: newFakeOracle(4)}
	atlas, err := NewFontAtlas(newFakeBackend(), oracle)
	if err != nil {
		t.Fatalf("NewFontAtlas: %v", err)
	}
	defer atlas.Close()

	later := slog.Default()
	SetLogger(later)
	if oracle.got != later {
		t.Fatal("expected a later SetLogger call to reach a collaborator registered at construction time")
	}
}
