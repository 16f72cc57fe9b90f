// Command gen renders every debug primitive with sample data through the
// software backend and saves PNG screenshots to doc/imgs/.
//
// Usage:
//
//	go run ./doc/gen/
package main

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/debugdraw"
	"github.com/go-theft-auto/debugdraw/backend/software"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// screenshot defines a single primitive screenshot to capture.
type screenshot struct {
	name   string                                             // filename without extension
	width  int                                                // viewport width
	height int                                                // viewport height
	draw   func(r *debugdraw.Renderer, world *software.World) // primitive drawing function
}

var (
	red    = mgl32.Vec4{1, 0.25, 0.25, 1}
	green  = mgl32.Vec4{0.3, 0.9, 0.4, 1}
	blue   = mgl32.Vec4{0.3, 0.5, 1, 1}
	yellow = mgl32.Vec4{1, 0.9, 0.2, 1}
	grey   = mgl32.Vec4{0.4, 0.4, 0.45, 1}
)

func run() error {
	outDir := filepath.Join("doc", "imgs")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}

	shots := buildScreenshots()

	for _, s := range shots {
		if err := capture(s, outDir); err != nil {
			return fmt.Errorf("capture %s: %w", s.name, err)
		}
		fmt.Printf("  %s.png (%dx%d)\n", s.name, s.width, s.height)
	}

	fmt.Printf("\nGenerated %d screenshots in %s/\n", len(shots), outDir)
	return nil
}

func capture(s screenshot, outDir string) error {
	world := software.New(s.width, s.height,
		software.WithClearColor(color.RGBA{31, 31, 36, 255}),
		software.WithLineWidth(1.5))

	// Fresh renderer per screenshot to avoid state leaking between captures.
	r, err := debugdraw.New(world, debugdraw.WithViewport(s.width, s.height))
	if err != nil {
		return err
	}
	defer r.Finalize()

	proj := mgl32.Perspective(mgl32.DegToRad(50), float32(s.width)/float32(s.height), 0.1, 100)
	view := mgl32.LookAtV(mgl32.Vec3{4, 3, 5}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
	r.SetViewProjection(proj.Mul4(view))

	s.draw(r, world)
	if err := r.Update(); err != nil {
		return err
	}

	path := filepath.Join(outDir, s.name+".png")
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return world.WritePNG(f)
}

// buildScreenshots returns the list of all primitive screenshots to generate.
func buildScreenshots() []screenshot {
	return []screenshot{
		{
			name: "square", width: 200, height: 120,
			draw: func(r *debugdraw.Renderer, _ *software.World) {
				r.Square(mgl32.Vec3{60, 60, 0}, mgl32.Vec3{60, 60, 0}, red)
				r.Square(mgl32.Vec3{140, 60, 0}, mgl32.Vec3{60, 40, 0}, green, debugdraw.WithOutline())
			},
		},
		{
			name: "line2d", width: 200, height: 120,
			draw: func(r *debugdraw.Renderer, _ *software.World) {
				r.Line2D(mgl32.Vec3{20, 20, 0}, mgl32.Vec3{180, 100, 0}, yellow)
				r.Line2D(mgl32.Vec3{20, 100, 0}, mgl32.Vec3{180, 20, 0}, blue)
			},
		},
		{
			name: "lines2d", width: 200, height: 120,
			draw: func(r *debugdraw.Renderer, _ *software.World) {
				pts := make([]mgl32.Vec3, 0, 40)
				for i := 0; i < 40; i++ {
					x := 10 + float32(i)*4.6
					y := 60 + 40*float32(math.Sin(float64(i)*math.Pi/10))
					pts = append(pts, mgl32.Vec3{x, y, 0})
				}
				r.Lines2D(pts, green)
			},
		},
		{
			name: "cube", width: 240, height: 160,
			draw: func(r *debugdraw.Renderer, _ *software.World) {
				drawGrid(r)
				r.Cube(mgl32.Vec3{0, 0.5, 0}, 1)
				r.Cube(mgl32.Vec3{1.5, 0.25, 0}, 0.5, debugdraw.WithColor(red))
			},
		},
		{
			name: "lines3d", width: 240, height: 160,
			draw: func(r *debugdraw.Renderer, _ *software.World) {
				drawGrid(r)
				r.Line3D(mgl32.Vec3{}, mgl32.Vec3{1.5, 0, 0}, red)
				r.Line3D(mgl32.Vec3{}, mgl32.Vec3{0, 1.5, 0}, green)
				r.Line3D(mgl32.Vec3{}, mgl32.Vec3{0, 0, 1.5}, blue)
				helix := make([]mgl32.Vec3, 0, 64)
				for i := 0; i < 64; i++ {
					a := float64(i) * 0.3
					helix = append(helix, mgl32.Vec3{float32(math.Cos(a)), float32(i) * 0.03, float32(math.Sin(a))})
				}
				r.Lines3D(helix, yellow)
			},
		},
		{
			name: "programs", width: 240, height: 160,
			draw: func(r *debugdraw.Renderer, world *software.World) {
				invert := world.RegisterFragmentProgram(func(c color.NRGBA) color.NRGBA {
					return color.NRGBA{R: 255 - c.R, G: 255 - c.G, B: 255 - c.B, A: c.A}
				})
				lift := world.RegisterVertexProgram(func(c mgl32.Vec4) mgl32.Vec4 {
					c[1] += 0.3 * c[3]
					return c
				})

				r.Cube(mgl32.Vec3{-1, 0.5, 0}, 1)
				r.SetFragmentProgram(invert)
				r.SetVertexProgram(lift)
				r.Cube(mgl32.Vec3{1, 0.5, 0}, 1, debugdraw.WithColor(blue))
				r.SetVertexProgram(debugdraw.DefaultVertexProgram)
				r.SetFragmentProgram(debugdraw.DefaultFragmentProgram)
			},
		},
	}
}

func drawGrid(r *debugdraw.Renderer) {
	for i := -3; i <= 3; i++ {
		f := float32(i)
		r.Line3D(mgl32.Vec3{f, 0, -3}, mgl32.Vec3{f, 0, 3}, grey)
		r.Line3D(mgl32.Vec3{-3, 0, f}, mgl32.Vec3{3, 0, f}, grey)
	}
}
