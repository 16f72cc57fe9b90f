package software_test

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/debugdraw"
	"github.com/go-theft-auto/debugdraw/backend/software"
)

var red = mgl32.Vec4{1, 0, 0, 1}

func setup(t *testing.T, opts ...software.Option) (*debugdraw.Renderer, *software.World) {
	t.Helper()
	world := software.New(100, 100, opts...)
	r, err := debugdraw.New(world, debugdraw.WithViewport(100, 100))
	if err != nil {
		t.Fatalf("New() returned error: %v", err)
	}
	t.Cleanup(r.Finalize)
	return r, world
}

func update(t *testing.T, r *debugdraw.Renderer) {
	t.Helper()
	if err := r.Update(); err != nil {
		t.Fatalf("Update() returned error: %v", err)
	}
}

func pixel(w *software.World, x, y int) color.RGBA {
	return w.Image().RGBAAt(x, y)
}

func isRed(c color.RGBA) bool   { return c.R > 250 && c.G == 0 && c.B == 0 }
func isBlack(c color.RGBA) bool { return c.R == 0 && c.G == 0 && c.B == 0 }

func TestSquareFillsPixels(t *testing.T) {
	r, world := setup(t)

	r.Square(mgl32.Vec3{50, 50, 0}, mgl32.Vec3{20, 20, 0}, red)
	update(t, r)

	if c := pixel(world, 50, 50); !isRed(c) {
		t.Errorf("centre pixel = %v, want red", c)
	}
	if c := pixel(world, 45, 55); !isRed(c) {
		t.Errorf("inner pixel = %v, want red", c)
	}
	if c := pixel(world, 5, 5); !isBlack(c) {
		t.Errorf("corner pixel = %v, want black", c)
	}
	if c := pixel(world, 61, 50); !isBlack(c) {
		t.Errorf("pixel outside = %v, want black", c)
	}
}

func TestLine2DCoversRow(t *testing.T) {
	r, world := setup(t)

	r.Line2D(mgl32.Vec3{0, 10.5, 0}, mgl32.Vec3{100, 10.5, 0}, red)
	update(t, r)

	for _, x := range []int{1, 50, 98} {
		if c := pixel(world, x, 10); !isRed(c) {
			t.Errorf("pixel (%d, 10) = %v, want red", x, c)
		}
	}
	if c := pixel(world, 50, 12); !isBlack(c) {
		t.Errorf("pixel below the line = %v, want black", c)
	}
}

func TestFrameIsClearedEachUpdate(t *testing.T) {
	r, world := setup(t, software.WithClearColor(color.White))

	r.Square(mgl32.Vec3{50, 50, 0}, mgl32.Vec3{20, 20, 0}, red)
	update(t, r)
	update(t, r)

	if c := pixel(world, 50, 50); c != (color.RGBA{255, 255, 255, 255}) {
		t.Errorf("expected cleared white pixel, got %v", c)
	}
	if world.Frames() != 2 {
		t.Errorf("Frames() = %d, want 2", world.Frames())
	}
}

func TestFragmentProgram(t *testing.T) {
	r, world := setup(t)

	green := world.RegisterFragmentProgram(func(c color.NRGBA) color.NRGBA {
		return color.NRGBA{G: 255, A: c.A}
	})
	r.SetFragmentProgram(green)
	r.Square(mgl32.Vec3{50, 50, 0}, mgl32.Vec3{20, 20, 0}, red)
	update(t, r)

	if c := pixel(world, 50, 50); c.G < 250 || c.R != 0 {
		t.Errorf("expected the fragment program to turn the square green, got %v", c)
	}

	// A deleted program falls back to the default.
	world.DeleteFragmentProgram(green)
	r.Square(mgl32.Vec3{50, 50, 0}, mgl32.Vec3{20, 20, 0}, red)
	update(t, r)
	if c := pixel(world, 50, 50); !isRed(c) {
		t.Errorf("expected default program after delete, got %v", c)
	}
}

func TestVertexProgram(t *testing.T) {
	r, world := setup(t)

	// Shift everything half a viewport to the right.
	shift := world.RegisterVertexProgram(func(c mgl32.Vec4) mgl32.Vec4 {
		c[0] += c[3]
		return c
	})
	r.SetVertexProgram(shift)
	r.Square(mgl32.Vec3{25, 50, 0}, mgl32.Vec3{10, 10, 0}, red)
	update(t, r)

	if c := pixel(world, 75, 50); !isRed(c) {
		t.Errorf("shifted pixel = %v, want red", c)
	}
	if c := pixel(world, 25, 50); !isBlack(c) {
		t.Errorf("original pixel = %v, want black", c)
	}
}

func TestDepthTestPaintsInSubmissionOrder(t *testing.T) {
	r, world := setup(t, software.WithLineWidth(2))

	// Identity view-projection: z only matters to a depth buffer.
	r.Line3D(mgl32.Vec3{-1, 0, -0.5}, mgl32.Vec3{1, 0, -0.5}, red)
	r.Line3D(mgl32.Vec3{-1, 0, 0.5}, mgl32.Vec3{1, 0, 0.5}, mgl32.Vec4{0, 1, 0, 1})
	update(t, r)

	if c := pixel(world, 50, 49); c.G < 250 || c.R > 5 {
		t.Errorf("later line should cover the nearer one, got %v", c)
	}
}

func TestCubeInPerspective(t *testing.T) {
	r, world := setup(t, software.WithLineWidth(2))

	proj := mgl32.Perspective(mgl32.DegToRad(60), 1, 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{3, 3, 3}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	r.SetViewProjection(proj.Mul4(view))
	r.Cube(mgl32.Vec3{}, 1)
	update(t, r)

	lit := 0
	img := world.Image()
	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if !isBlack(img.RGBAAt(x, y)) {
				lit++
			}
		}
	}
	if lit == 0 {
		t.Fatal("cube produced no pixels")
	}
	if lit > 100*100/2 {
		t.Errorf("wireframe cube lit %d pixels, expected edges only", lit)
	}
}

func TestWritePNG(t *testing.T) {
	r, world := setup(t)

	r.Square(mgl32.Vec3{50, 50, 0}, mgl32.Vec3{20, 20, 0}, red)
	update(t, r)

	var buf bytes.Buffer
	if err := world.WritePNG(&buf); err != nil {
		t.Fatalf("WritePNG() returned error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 100 {
		t.Errorf("unexpected bounds %v", b)
	}
}

func TestResize(t *testing.T) {
	r, world := setup(t)

	world.Resize(40, 20)
	r.SetViewport(40, 20)
	r.Square(mgl32.Vec3{20, 10, 0}, mgl32.Vec3{4, 4, 0}, red)
	update(t, r)

	if b := world.Image().Bounds(); b.Dx() != 40 || b.Dy() != 20 {
		t.Fatalf("unexpected bounds %v", b)
	}
	if c := pixel(world, 20, 10); !isRed(c) {
		t.Errorf("centre pixel = %v, want red", c)
	}
}
