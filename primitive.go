package debugdraw

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween"
)

type primitiveKind uint8

const (
	kindSegments primitiveKind = iota // points are segment pairs
	kindStrip                         // points are a polyline
	kindQuads                         // points are filled quads, 4 corners each
)

// primitive is a submitted debug shape waiting for Update.
type primitive struct {
	kind   primitiveKind
	points []mgl32.Vec3
	color  mgl32.Vec4
	state  RenderState

	// Lifetime. One-shot primitives have remaining == 0.
	remaining time.Duration
	fade      *gween.Tween
	alpha     float32
}

func newPrimitive(kind primitiveKind, points []mgl32.Vec3, color mgl32.Vec4, state RenderState, o options) *primitive {
	p := &primitive{
		kind:   kind,
		points: points,
		color:  color,
		state:  state,
		alpha:  1,
	}
	if d := GetOpt(o, OptDuration); d > 0 {
		p.remaining = d
		if easing := GetOpt(o, OptFade); easing != nil {
			p.fade = gween.New(1, 0, float32(d.Seconds()), easing)
		}
	}
	return p
}

// vertexCount is the number of vertices emit appends.
func (p *primitive) vertexCount() int {
	if p.kind == kindStrip {
		return stripVertexCount(len(p.points))
	}
	return len(p.points)
}

// emit appends the primitive to the draw list.
func (p *primitive) emit(dl *DrawList) {
	c := p.color
	c[3] *= p.alpha
	packed := PackColor(c)

	dl.SetState(p.state)
	switch p.kind {
	case kindSegments:
		for i := 0; i+1 < len(p.points); i += 2 {
			dl.AddLine(p.points[i], p.points[i+1], packed)
		}
	case kindStrip:
		dl.AddLineStrip(p.points, packed)
	case kindQuads:
		for i := 0; i+3 < len(p.points); i += 4 {
			dl.AddQuad(p.points[i], p.points[i+1], p.points[i+2], p.points[i+3], packed)
		}
	}
}

// advance ages the primitive by dt and reports whether it stays alive.
func (p *primitive) advance(dt time.Duration) bool {
	if p.remaining <= 0 {
		return false
	}
	p.remaining -= dt
	if p.fade != nil {
		v, finished := p.fade.Update(float32(dt.Seconds()))
		p.alpha = clampf(v, 0, 1)
		if finished {
			return false
		}
	}
	return p.remaining > 0
}
