// Package ebitengine provides an Ebitengine render world for the debug
// renderer. Fragment programs are Kage shaders; vertex programs are Go
// functions applied in clip space.
//
// Ebitengine images carry no depth buffer, so DrawCmd.DepthTest is ignored
// and primitives are painted in submission order.
package ebitengine

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/hajimehoshi/ebiten/v2"

	"github.com/go-theft-auto/debugdraw"
	"github.com/go-theft-auto/debugdraw/internal/raster"
)

// ErrNoTarget is returned by Render before SetTarget was called.
var ErrNoTarget = errors.New("ebitengine: no target image")

// maxBatchVertices keeps batches addressable with uint16 indices.
const maxBatchVertices = 0xFFFF - 3

// VertexFunc transforms a clip-space position.
type VertexFunc func(clip mgl32.Vec4) mgl32.Vec4

// World draws debug draw lists onto an ebiten.Image.
type World struct {
	mu sync.Mutex

	target    *ebiten.Image
	white     *ebiten.Image
	lineWidth float32

	shaders        map[debugdraw.FragmentProgram]*ebiten.Shader
	vertexPrograms map[debugdraw.VertexProgram]VertexFunc
	nextProgram    uint32

	tris     []raster.Triangle
	vertices []ebiten.Vertex
	indices  []uint16
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

// NewWorld creates an Ebitengine render world. Call SetTarget before the
// first Render, typically from the game's Draw method.
func NewWorld(opts ...Option) *World {
	w := &World{
		lineWidth:      1,
		shaders:        make(map[debugdraw.FragmentProgram]*ebiten.Shader),
		vertexPrograms: make(map[debugdraw.VertexProgram]VertexFunc),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// SetTarget sets the image subsequent frames are drawn onto.
func (w *World) SetTarget(img *ebiten.Image) {
	w.mu.Lock()
	w.target = img
	w.mu.Unlock()
}

// CompileFragmentProgram compiles a Kage shader. The shader receives the
// primitive color as the Fragment color argument.
func (w *World) CompileFragmentProgram(src []byte) (debugdraw.FragmentProgram, error) {
	sh, err := ebiten.NewShader(src)
	if err != nil {
		return 0, fmt.Errorf("compile kage shader: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.nextProgram++
	h := debugdraw.FragmentProgram(w.nextProgram)
	w.shaders[h] = sh
	return h, nil
}

// DeleteFragmentProgram releases a compiled shader.
func (w *World) DeleteFragmentProgram(h debugdraw.FragmentProgram) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if sh, ok := w.shaders[h]; ok {
		sh.Deallocate()
		delete(w.shaders, h)
	}
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

// Render draws the draw list onto the target image. The target is not
// cleared; debug geometry is drawn over the frame.
func (w *World) Render(dl *debugdraw.DrawList) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.target == nil {
		return ErrNoTarget
	}
	if dl == nil {
		return nil
	}
	dl.Finalize()

	if w.white == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		w.white = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}

	b := w.target.Bounds()
	target := raster.Target{Width: b.Dx(), Height: b.Dy(), LineWidth: w.lineWidth}

	for _, cmd := range dl.CmdBuffer {
		var vfn raster.VertexFunc
		if cmd.VertexProgram != debugdraw.DefaultVertexProgram {
			fn, ok := w.vertexPrograms[cmd.VertexProgram]
			if !ok {
				debugdraw.Logger().Warn("ebitengine: unknown vertex program", "handle", cmd.VertexProgram)
			}
			vfn = raster.VertexFunc(fn)
		}

		var shader *ebiten.Shader
		if cmd.FragmentProgram != debugdraw.DefaultFragmentProgram {
			sh, ok := w.shaders[cmd.FragmentProgram]
			if !ok {
				debugdraw.Logger().Warn("ebitengine: unknown fragment program", "handle", cmd.FragmentProgram)
			}
			shader = sh
		}

		w.tris = raster.Expand(dl, cmd, target, vfn, w.tris[:0])
		w.drawTriangles(w.tris, shader, float32(b.Min.X), float32(b.Min.Y))
	}
	return nil
}

// drawTriangles submits triangles in batches of at most maxBatchVertices.
func (w *World) drawTriangles(tris []raster.Triangle, shader *ebiten.Shader, ox, oy float32) {
	for len(tris) > 0 {
		n := min(len(tris), maxBatchVertices/3)
		w.vertices, w.indices = appendTriangles(w.vertices[:0], w.indices[:0], tris[:n], ox, oy)
		tris = tris[n:]

		if shader != nil {
			w.target.DrawTrianglesShader(w.vertices, w.indices, shader, &ebiten.DrawTrianglesShaderOptions{})
			continue
		}
		w.target.DrawTriangles(w.vertices, w.indices, w.white, &ebiten.DrawTrianglesOptions{})
	}
}

// appendTriangles converts screen triangles into Ebitengine vertices and
// indices. ox and oy offset the positions to the target's origin.
func appendTriangles(vertices []ebiten.Vertex, indices []uint16, tris []raster.Triangle, ox, oy float32) ([]ebiten.Vertex, []uint16) {
	for _, t := range tris {
		base := uint16(len(vertices))
		for _, p := range t {
			vertices = append(vertices, ebiten.Vertex{
				DstX:   p.X + ox,
				DstY:   p.Y + oy,
				SrcX:   1,
				SrcY:   1,
				ColorR: p.Color[0],
				ColorG: p.Color[1],
				ColorB: p.Color[2],
				ColorA: p.Color[3],
			})
		}
		indices = append(indices, base, base+1, base+2)
	}
	return vertices, indices
}
