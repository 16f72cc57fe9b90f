// Package software provides a CPU render world for the debug renderer.
// It rasterizes draw lists into an image, which makes it suitable for
// headless tools, screenshots and tests.
//
// There is no depth buffer: DrawCmd.DepthTest is ignored and primitives are
// painted in submission order.
package software

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/vector"

	"github.com/go-theft-auto/debugdraw"
	"github.com/go-theft-auto/debugdraw/internal/raster"
)

// VertexFunc transforms a clip-space position. It plays the role of a
// vertex program.
type VertexFunc func(clip mgl32.Vec4) mgl32.Vec4

// FragmentFunc maps a primitive color to the written color. It plays the
// role of a fragment program.
type FragmentFunc func(c color.NRGBA) color.NRGBA

// World rasterizes debug draw lists into an RGBA image.
type World struct {
	mu sync.Mutex

	img        *image.RGBA
	clearColor color.Color
	lineWidth  float32

	vertexPrograms   map[debugdraw.VertexProgram]VertexFunc
	fragmentPrograms map[debugdraw.FragmentProgram]FragmentFunc
	nextProgram      uint32

	z      *vector.Rasterizer
	tris   []raster.Triangle
	frames int
}

// Option configures a World.
type Option func(*World)

// WithLineWidth sets the width of lines in pixels.
func WithLineWidth(width float32) Option {
	return func(w *World) {
		if width > 0 {
			w.lineWidth = width
		}
	}
}

// WithClearColor sets the color the image is cleared to before each frame.
func WithClearColor(c color.Color) Option {
	return func(w *World) { w.clearColor = c }
}

// New creates a software render world of the given size.
func New(width, height int, opts ...Option) *World {
	w := &World{
		img:              image.NewRGBA(image.Rect(0, 0, width, height)),
		clearColor:       color.Black,
		lineWidth:        1,
		vertexPrograms:   make(map[debugdraw.VertexProgram]VertexFunc),
		fragmentPrograms: make(map[debugdraw.FragmentProgram]FragmentFunc),
		z:                vector.NewRasterizer(width, height),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// RegisterVertexProgram registers fn and returns its handle.
func (w *World) RegisterVertexProgram(fn VertexFunc) debugdraw.VertexProgram {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextProgram++
	h := debugdraw.VertexProgram(w.nextProgram)
	w.vertexPrograms[h] = fn
	return h
}

// RegisterFragmentProgram registers fn and returns its handle.
func (w *World) RegisterFragmentProgram(fn FragmentFunc) debugdraw.FragmentProgram {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextProgram++
	h := debugdraw.FragmentProgram(w.nextProgram)
	w.fragmentPrograms[h] = fn
	return h
}

// DeleteVertexProgram forgets a vertex program handle.
func (w *World) DeleteVertexProgram(h debugdraw.VertexProgram) {
	w.mu.Lock()
	delete(w.vertexPrograms, h)
	w.mu.Unlock()
}

// DeleteFragmentProgram forgets a fragment program handle.
func (w *World) DeleteFragmentProgram(h debugdraw.FragmentProgram) {
	w.mu.Lock()
	delete(w.fragmentPrograms, h)
	w.mu.Unlock()
}

// Render clears the image and rasterizes the draw list into it.
func (w *World) Render(dl *debugdraw.DrawList) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	bounds := w.img.Bounds()
	draw.Draw(w.img, bounds, image.NewUniform(w.clearColor), image.Point{}, draw.Src)
	w.frames++

	if dl == nil {
		return nil
	}
	dl.Finalize()

	target := raster.Target{Width: bounds.Dx(), Height: bounds.Dy(), LineWidth: w.lineWidth}
	for _, cmd := range dl.CmdBuffer {
		vfn, ffn := w.programs(cmd)
		w.tris = raster.Expand(dl, cmd, target, raster.VertexFunc(vfn), w.tris[:0])
		w.fill(w.tris, ffn)
	}
	return nil
}

// programs resolves the command's handles, falling back to the defaults.
func (w *World) programs(cmd debugdraw.DrawCmd) (VertexFunc, FragmentFunc) {
	var vfn VertexFunc
	var ffn FragmentFunc
	if cmd.VertexProgram != debugdraw.DefaultVertexProgram {
		fn, ok := w.vertexPrograms[cmd.VertexProgram]
		if !ok {
			debugdraw.Logger().Warn("software: unknown vertex program", "handle", cmd.VertexProgram)
		}
		vfn = fn
	}
	if cmd.FragmentProgram != debugdraw.DefaultFragmentProgram {
		fn, ok := w.fragmentPrograms[cmd.FragmentProgram]
		if !ok {
			debugdraw.Logger().Warn("software: unknown fragment program", "handle", cmd.FragmentProgram)
		}
		ffn = fn
	}
	return vfn, ffn
}

// fill rasterizes triangles, merging runs of the same color into one path
// so shared edges are not blended twice.
func (w *World) fill(tris []raster.Triangle, ffn FragmentFunc) {
	bounds := w.img.Bounds()
	pathOpen := false
	var current color.NRGBA

	flush := func() {
		if !pathOpen {
			return
		}
		c := current
		if ffn != nil {
			c = ffn(c)
		}
		w.z.Draw(w.img, bounds, image.NewUniform(c), image.Point{})
		pathOpen = false
	}

	for _, t := range tris {
		c := toNRGBA(t[0].Color)
		if c.A == 0 {
			continue
		}
		if pathOpen && c != current {
			flush()
		}
		if !pathOpen {
			w.z.Reset(bounds.Dx(), bounds.Dy())
			w.z.DrawOp = draw.Over
			current = c
			pathOpen = true
		}

		// Same winding everywhere so overlapping coverage accumulates.
		if cross(t) < 0 {
			t[1], t[2] = t[2], t[1]
		}
		w.z.MoveTo(t[0].X, t[0].Y)
		w.z.LineTo(t[1].X, t[1].Y)
		w.z.LineTo(t[2].X, t[2].Y)
		w.z.ClosePath()
	}
	flush()
}

func cross(t raster.Triangle) float32 {
	return (t[1].X-t[0].X)*(t[2].Y-t[0].Y) - (t[1].Y-t[0].Y)*(t[2].X-t[0].X)
}

func toNRGBA(c mgl32.Vec4) color.NRGBA {
	u := debugdraw.PackColor(c)
	r, g, b, a := debugdraw.UnpackRGBA(u)
	return color.NRGBA{R: r, G: g, B: b, A: a}
}

// Image returns the rendered image. It is overwritten by the next Render.
func (w *World) Image() *image.RGBA {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.img
}

// Frames returns how many frames were rendered.
func (w *World) Frames() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.frames
}

// Resize replaces the target image. Pair it with Renderer.SetViewport so
// 2D primitives keep their pixel positions.
func (w *World) Resize(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.img = image.NewRGBA(image.Rect(0, 0, width, height))
	w.z = vector.NewRasterizer(width, height)
}

// WritePNG encodes the current image as PNG.
func (w *World) WritePNG(out io.Writer) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := png.Encode(out, w.img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
