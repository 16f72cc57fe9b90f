// Package raster projects debug draw lists into screen-space triangles for
// the CPU-side backends.
package raster

import (
	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/debugdraw"
)

// nearW is the smallest clip-space w kept in front of the camera.
const nearW = 1e-5

// Point is a projected vertex in target pixels.
type Point struct {
	X, Y  float32
	Color mgl32.Vec4
}

// Triangle is a screen-space triangle.
type Triangle [3]Point

// VertexFunc transforms a clip-space position. It stands in for a vertex
// program on backends without a programmable vertex stage.
type VertexFunc func(clip mgl32.Vec4) mgl32.Vec4

// Target describes the pixel grid the triangles are produced for.
type Target struct {
	Width, Height int
	LineWidth     float32
}

// Expand appends the screen-space triangles of cmd to dst.
// Lines become quads LineWidth pixels wide. Lines crossing the near plane
// are clipped; triangles with a vertex behind the camera are skipped.
func Expand(dl *debugdraw.DrawList, cmd debugdraw.DrawCmd, t Target, vfn VertexFunc, dst []Triangle) []Triangle {
	if t.Width <= 0 || t.Height <= 0 {
		return dst
	}
	m := dl.Matrix(cmd.Space)
	indices := dl.Indices(cmd)

	clip := func(idx uint16) (mgl32.Vec4, mgl32.Vec4) {
		v := dl.CommandVertex(cmd, idx)
		c := m.Mul4x1(mgl32.Vec4{v.Pos[0], v.Pos[1], v.Pos[2], 1})
		if vfn != nil {
			c = vfn(c)
		}
		return c, debugdraw.UnpackColor(v.Color)
	}

	switch cmd.Mode {
	case debugdraw.ModeLines:
		for i := 0; i+1 < len(indices); i += 2 {
			a, ca := clip(indices[i])
			b, cb := clip(indices[i+1])
			var ok bool
			a, b, ok = ClipNear(a, b)
			if !ok {
				continue
			}
			dst = appendLine(dst, t.project(a, ca), t.project(b, cb), t.LineWidth)
		}
	case debugdraw.ModeTriangles:
		for i := 0; i+2 < len(indices); i += 3 {
			a, ca := clip(indices[i])
			b, cb := clip(indices[i+1])
			c, cc := clip(indices[i+2])
			if a.W() <= nearW || b.W() <= nearW || c.W() <= nearW {
				continue
			}
			dst = append(dst, Triangle{t.project(a, ca), t.project(b, cb), t.project(c, cc)})
		}
	}
	return dst
}

// ClipNear clips a clip-space segment to w >= nearW.
// ok is false when the whole segment is behind the camera.
func ClipNear(a, b mgl32.Vec4) (mgl32.Vec4, mgl32.Vec4, bool) {
	aw, bw := a.W(), b.W()
	switch {
	case aw < nearW && bw < nearW:
		return a, b, false
	case aw < nearW:
		s := (nearW - aw) / (bw - aw)
		a = a.Add(b.Sub(a).Mul(s))
	case bw < nearW:
		s := (nearW - bw) / (aw - bw)
		b = b.Add(a.Sub(b).Mul(s))
	}
	return a, b, true
}

// project maps a clip-space position to target pixels, +Y down.
func (t Target) project(c mgl32.Vec4, color mgl32.Vec4) Point {
	ndc := c.Vec3().Mul(1 / c.W())
	return Point{
		X:     (ndc.X()*0.5 + 0.5) * float32(t.Width),
		Y:     (0.5 - ndc.Y()*0.5) * float32(t.Height),
		Color: color,
	}
}

func appendLine(dst []Triangle, a, b Point, width float32) []Triangle {
	d := mgl32.Vec2{b.X - a.X, b.Y - a.Y}
	l := d.Len()
	if l == 0 {
		return dst
	}
	if width <= 0 {
		width = 1
	}
	n := mgl32.Vec2{-d.Y(), d.X()}.Mul(width * 0.5 / l)

	a0 := Point{X: a.X + n.X(), Y: a.Y + n.Y(), Color: a.Color}
	a1 := Point{X: a.X - n.X(), Y: a.Y - n.Y(), Color: a.Color}
	b0 := Point{X: b.X + n.X(), Y: b.Y + n.Y(), Color: b.Color}
	b1 := Point{X: b.X - n.X(), Y: b.Y - n.Y(), Color: b.Color}
	return append(dst, Triangle{a0, b0, b1}, Triangle{a0, b1, a1})
}
