package raster

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/debugdraw"
)

func TestClipNear(t *testing.T) {
	tests := []struct {
		name   string
		a, b   mgl32.Vec4
		wantOK bool
		wantAW float32
		wantBW float32
	}{
		{"both in front", mgl32.Vec4{0, 0, 0, 1}, mgl32.Vec4{1, 0, 0, 2}, true, 1, 2},
		{"both behind", mgl32.Vec4{0, 0, 0, -1}, mgl32.Vec4{1, 0, 0, -2}, false, -1, -2},
		{"a behind", mgl32.Vec4{0, 0, 0, -1}, mgl32.Vec4{2, 0, 0, 1}, true, nearW, 1},
		{"b behind", mgl32.Vec4{2, 0, 0, 1}, mgl32.Vec4{0, 0, 0, -1}, true, 1, nearW},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, b, ok := ClipNear(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tt.wantOK)
			}
			if !closeTo(a.W(), tt.wantAW) || !closeTo(b.W(), tt.wantBW) {
				t.Errorf("w = (%v, %v), want (%v, %v)", a.W(), b.W(), tt.wantAW, tt.wantBW)
			}
		})
	}
}

// closeTo compares with an absolute tolerance; w values near the clip plane
// are too small for a relative one.
func closeTo(a, b float32) bool {
	return math.Abs(float64(a-b)) < 1e-7
}

func TestClipNearKeepsClippedEndInFront(t *testing.T) {
	a, b, ok := ClipNear(mgl32.Vec4{0, 0, 0, -3}, mgl32.Vec4{1, 0, 0, 0.5})
	if !ok {
		t.Fatal("segment should survive")
	}
	if a.W() <= 0 || math.Abs(float64(a.W()-nearW)) > 1e-6 || b.W() != 0.5 {
		t.Errorf("w = (%v, %v), want clipped end at the near plane", a.W(), b.W())
	}
}

func TestClipNearInterpolatesPosition(t *testing.T) {
	a, _, ok := ClipNear(mgl32.Vec4{0, 0, 0, -1}, mgl32.Vec4{2, 0, 0, 1})
	if !ok {
		t.Fatal("segment should survive")
	}
	// w crosses nearW just past the midpoint.
	if !mgl32.FloatEqualThreshold(a.X(), 1, 1e-4) {
		t.Errorf("clipped x = %v, want ~1", a.X())
	}
}

func newList(t *testing.T) *debugdraw.DrawList {
	t.Helper()
	dl := debugdraw.AcquireDrawList()
	t.Cleanup(func() { debugdraw.ReleaseDrawList(dl) })
	dl.SetViewport(100, 100)
	return dl
}

func TestExpandLine(t *testing.T) {
	dl := newList(t)
	dl.AddLine(mgl32.Vec3{10, 20, 0}, mgl32.Vec3{30, 20, 0}, debugdraw.ColorRed)
	dl.Finalize()

	tris := Expand(dl, dl.CmdBuffer[0], Target{Width: 100, Height: 100, LineWidth: 2}, nil, nil)
	if len(tris) != 2 {
		t.Fatalf("expected a quad (2 triangles), got %d", len(tris))
	}
	for _, tri := range tris {
		for _, p := range tri {
			if p.Y < 19-1e-3 || p.Y > 21+1e-3 {
				t.Errorf("y = %v outside the 2px line", p.Y)
			}
			if p.X < 10-1e-3 || p.X > 30+1e-3 {
				t.Errorf("x = %v outside the segment", p.X)
			}
			if p.Color != (mgl32.Vec4{1, 0, 0, 1}) {
				t.Errorf("color = %v, want red", p.Color)
			}
		}
	}
}

func TestExpandTriangles(t *testing.T) {
	dl := newList(t)
	dl.AddQuad(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{50, 0, 0}, mgl32.Vec3{50, 50, 0}, mgl32.Vec3{0, 50, 0}, debugdraw.ColorWhite)
	dl.Finalize()

	tris := Expand(dl, dl.CmdBuffer[0], Target{Width: 200, Height: 200}, nil, nil)
	if len(tris) != 2 {
		t.Fatalf("expected 2 triangles, got %d", len(tris))
	}
	// The 2D projection follows the viewport, the target only scales.
	if p := tris[0][2]; !mgl32.FloatEqualThreshold(p.X, 100, 1e-3) || !mgl32.FloatEqualThreshold(p.Y, 100, 1e-3) {
		t.Errorf("corner = (%v, %v), want (100, 100)", p.X, p.Y)
	}
}

func TestExpandSkipsBehindCamera(t *testing.T) {
	dl := newList(t)
	dl.ViewProjection3D = mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100)
	dl.SetState(debugdraw.RenderState{Space: debugdraw.Space3D})
	dl.AddTriangle(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{1, 0, 5}, mgl32.Vec3{0, 1, 5}, debugdraw.ColorWhite)
	dl.AddLine(mgl32.Vec3{0, 0, 5}, mgl32.Vec3{0, 0, 10}, debugdraw.ColorWhite)
	dl.Finalize()

	target := Target{Width: 100, Height: 100}
	for _, cmd := range dl.CmdBuffer {
		if tris := Expand(dl, cmd, target, nil, nil); len(tris) != 0 {
			t.Errorf("%v behind the camera produced %d triangles", cmd.Mode, len(tris))
		}
	}
}

func TestExpandVertexFunc(t *testing.T) {
	dl := newList(t)
	dl.AddLine(mgl32.Vec3{10, 50, 0}, mgl32.Vec3{20, 50, 0}, debugdraw.ColorWhite)
	dl.Finalize()

	shift := func(c mgl32.Vec4) mgl32.Vec4 {
		c[0] += c[3]
		return c
	}
	tris := Expand(dl, dl.CmdBuffer[0], Target{Width: 100, Height: 100, LineWidth: 1}, shift, nil)
	for _, tri := range tris {
		for _, p := range tri {
			if p.X < 60-1e-3 || p.X > 70+1e-3 {
				t.Errorf("x = %v, want within [60, 70]", p.X)
			}
		}
	}
}

func TestExpandEmptyTarget(t *testing.T) {
	dl := newList(t)
	dl.AddLine(mgl32.Vec3{}, mgl32.Vec3{1, 1, 0}, debugdraw.ColorWhite)
	dl.Finalize()

	if tris := Expand(dl, dl.CmdBuffer[0], Target{}, nil, nil); len(tris) != 0 {
		t.Errorf("expected nothing for an empty target, got %d", len(tris))
	}
}
