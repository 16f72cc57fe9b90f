package debugdraw

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

type discardWorld struct{}

func (discardWorld) Render(*DrawList) error { return nil }

func TestLoggerDefaultSilent(t *testing.T) {
	l := Logger()
	if l == nil {
		t.Fatal("Logger() returned nil")
	}
	for _, level := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(context.Background(), level) {
			t.Errorf("default logger should not be enabled for %v", level)
		}
	}
}

func TestSetLoggerNilRestoresSilent(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	SetLogger(slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)))
	SetLogger(nil)

	if Logger().Enabled(context.Background(), slog.LevelError) {
		t.Error("SetLogger(nil) should restore the silent logger")
	}
}

func TestRendererLogs(t *testing.T) {
	orig := Logger()
	t.Cleanup(func() { SetLogger(orig) })

	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	r, err := New(discardWorld{}, WithMaxVertices(2))
	if err != nil {
		t.Fatal(err)
	}
	r.Cube(mgl32.Vec3{}, -1)
	r.Line3D(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, mgl32.Vec4{1, 1, 1, 1})
	r.Line3D(mgl32.Vec3{}, mgl32.Vec3{1, 0, 0}, mgl32.Vec4{1, 1, 1, 1})
	if err := r.Update(); err != nil {
		t.Fatal(err)
	}
	r.Finalize()

	out := buf.String()
	for _, want := range []string{
		"renderer initialized",
		"primitive rejected",
		"non-positive size",
		"vertex budget exceeded",
		"renderer finalized",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("expected log output to contain %q, got:\n%s", want, out)
		}
	}
}
