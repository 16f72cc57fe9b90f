package debugdraw_test

import (
	"testing"
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"

	"github.com/go-theft-auto/debugdraw"
)

func TestOptionDefaults(t *testing.T) {
	if d := debugdraw.ApplyAndGet(nil, debugdraw.OptDuration); d != 0 {
		t.Errorf("default duration = %v, want 0", d)
	}
	if !debugdraw.ApplyAndGet(nil, debugdraw.OptDepthTest) {
		t.Error("depth test should default to true")
	}
	if debugdraw.ApplyAndGet(nil, debugdraw.OptFade) != nil {
		t.Error("fade should default to nil")
	}
	if c := debugdraw.ApplyAndGet(nil, debugdraw.OptColor); c != (mgl32.Vec4{1, 1, 1, 1}) {
		t.Errorf("default color = %v", c)
	}
}

func TestOptionHelpers(t *testing.T) {
	opts := []debugdraw.Option{
		debugdraw.WithDuration(2 * time.Second),
		debugdraw.WithFade(ease.OutQuad),
		debugdraw.WithDepthTest(false),
		nil,
		debugdraw.WithOutline(),
	}

	if d := debugdraw.ApplyAndGet(opts, debugdraw.OptDuration); d != 2*time.Second {
		t.Errorf("duration = %v", d)
	}
	if debugdraw.ApplyAndGet(opts, debugdraw.OptFade) == nil {
		t.Error("fade not set")
	}
	if debugdraw.ApplyAndGet(opts, debugdraw.OptDepthTest) {
		t.Error("depth test not disabled")
	}
	if !debugdraw.ApplyAndGet(opts, debugdraw.OptOutline) {
		t.Error("outline not set")
	}
	if _, ok := debugdraw.ApplyAndCheck(opts, debugdraw.OptColor); ok {
		t.Error("color should not be reported as set")
	}
}

func TestCustomOptKey(t *testing.T) {
	optLabel := debugdraw.NewOptKey("label", "none")
	if optLabel.Name() != "label" || optLabel.Default() != "none" {
		t.Errorf("unexpected key %q default %q", optLabel.Name(), optLabel.Default())
	}

	opts := []debugdraw.Option{debugdraw.WithOpt(optLabel, "velocity")}
	got, ok := debugdraw.ApplyAndCheck(opts, optLabel)
	if !ok || got != "velocity" {
		t.Errorf("got %q (set=%v), want velocity", got, ok)
	}

	// A key with the same name but another type falls back to its default.
	optLabelInt := debugdraw.NewOptKey("label", 7)
	if v := debugdraw.ApplyAndGet(opts, optLabelInt); v != 7 {
		t.Errorf("mismatched type should return default, got %d", v)
	}
}
