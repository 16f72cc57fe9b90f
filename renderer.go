package debugdraw

import (
	"fmt"
	"sync"
	"time"

	"github.com/go-gl/mathgl/mgl32"
)

// RenderWorld receives the batched debug geometry once per frame.
// The DrawList is only valid for the duration of the call.
type RenderWorld interface {
	Render(dl *DrawList) error
}

// FrameStats describes the last frame produced by Update.
type FrameStats struct {
	Primitives int // Primitives emitted into the draw list
	Vertices   int
	Indices    int
	Commands   int
	Rejected   int // Primitives refused because of invalid input
	Dropped    int // Primitives skipped because the vertex budget was exhausted
}

// DefaultMaxVertices is the default per-frame vertex budget.
const DefaultMaxVertices = 1 << 20

// Renderer batches debug primitives and submits them to a RenderWorld.
// All methods are safe for concurrent use.
type Renderer struct {
	mu sync.Mutex

	world   RenderWorld
	pending []*primitive

	vertexProgram   VertexProgram
	fragmentProgram FragmentProgram

	viewportWidth  int
	viewportHeight int
	viewProjection mgl32.Mat4

	cubeColor   mgl32.Vec4
	maxVertices int
	enabled     bool
	finalized   bool

	now        func() time.Time
	lastUpdate time.Time

	rejected int
	stats    FrameStats
}

// RendererOption configures a Renderer instance.
type RendererOption func(*Renderer)

// WithClock sets the time source used to age timed primitives.
func WithClock(now func() time.Time) RendererOption {
	return func(r *Renderer) {
		if now != nil {
			r.now = now
		}
	}
}

// WithCubeColor sets the color used by Cube when no WithColor option is given.
func WithCubeColor(c mgl32.Vec4) RendererOption {
	return func(r *Renderer) { r.cubeColor = c }
}

// WithMaxVertices sets the per-frame vertex budget.
func WithMaxVertices(n int) RendererOption {
	return func(r *Renderer) {
		if n > 0 {
			r.maxVertices = n
		}
	}
}

// WithEnabled sets the initial enabled state.
func WithEnabled(enabled bool) RendererOption {
	return func(r *Renderer) { r.enabled = enabled }
}

// WithViewport sets the initial viewport size in pixels.
func WithViewport(width, height int) RendererOption {
	return func(r *Renderer) {
		r.viewportWidth = width
		r.viewportHeight = height
	}
}

// New creates a debug renderer bound to a render world.
func New(world RenderWorld, opts ...RendererOption) (*Renderer, error) {
	if world == nil {
		return nil, ErrNilWorld
	}

	r := &Renderer{
		world:          world,
		viewProjection: mgl32.Ident4(),
		cubeColor:      mgl32.Vec4{1, 1, 1, 1},
		maxVertices:    DefaultMaxVertices,
		enabled:        true,
		now:            time.Now,
	}

	for _, opt := range opts {
		opt(r)
	}

	Logger().Info("debugdraw: renderer initialized",
		"viewport", fmt.Sprintf("%dx%d", r.viewportWidth, r.viewportHeight),
		"maxVertices", r.maxVertices)

	return r, nil
}

// Finalize releases the render world and drops pending primitives.
// Draw calls are ignored afterwards and Update returns ErrFinalized.
func (r *Renderer) Finalize() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finalized {
		return
	}
	r.finalized = true
	r.world = nil
	clear(r.pending)
	r.pending = nil

	Logger().Info("debugdraw: renderer finalized")
}

// Update is the per-frame heartbeat. It batches everything submitted since
// the previous frame, hands the draw list to the render world and retires
// primitives whose lifetime is over.
func (r *Renderer) Update() error {
	r.mu.Lock()

	if r.finalized {
		r.mu.Unlock()
		return ErrFinalized
	}

	now := r.now()
	var dt time.Duration
	if !r.lastUpdate.IsZero() {
		dt = max(now.Sub(r.lastUpdate), 0)
	}
	r.lastUpdate = now

	dl := AcquireDrawList()
	dl.SetViewport(r.viewportWidth, r.viewportHeight)
	dl.ViewProjection3D = r.viewProjection

	stats := FrameStats{Rejected: r.rejected}
	r.rejected = 0

	if r.enabled {
		for _, p := range r.pending {
			if len(dl.VtxBuffer)+p.vertexCount() > r.maxVertices {
				stats.Dropped++
				continue
			}
			before := len(dl.VtxBuffer)
			p.emit(dl)
			if len(dl.VtxBuffer) > before {
				stats.Primitives++
			}
		}
		if stats.Dropped > 0 {
			Logger().Warn("debugdraw: vertex budget exceeded",
				"dropped", stats.Dropped, "maxVertices", r.maxVertices)
		}
	}

	kept := r.pending[:0]
	for _, p := range r.pending {
		if p.advance(dt) {
			kept = append(kept, p)
		}
	}
	clear(r.pending[len(kept):])
	r.pending = kept

	dl.Finalize()
	stats.Vertices = len(dl.VtxBuffer)
	stats.Indices = len(dl.IdxBuffer)
	stats.Commands = len(dl.CmdBuffer)
	r.stats = stats

	world := r.world
	r.mu.Unlock()

	err := world.Render(dl)
	ReleaseDrawList(dl)
	if err != nil {
		return fmt.Errorf("render debug frame: %w", err)
	}
	return nil
}

// SetVertexProgram assigns the vertex program used by subsequent primitives.
func (r *Renderer) SetVertexProgram(program VertexProgram) {
	r.mu.Lock()
	r.vertexProgram = program
	r.mu.Unlock()
}

// SetFragmentProgram assigns the fragment program used by subsequent primitives.
func (r *Renderer) SetFragmentProgram(program FragmentProgram) {
	r.mu.Lock()
	r.fragmentProgram = program
	r.mu.Unlock()
}

// Programs returns the currently assigned program pair.
func (r *Renderer) Programs() ProgramPair {
	r.mu.Lock()
	defer r.mu.Unlock()
	return ProgramPair{Vertex: r.vertexProgram, Fragment: r.fragmentProgram}
}

// SetViewport sets the screen size used by 2D primitives.
func (r *Renderer) SetViewport(width, height int) {
	r.mu.Lock()
	r.viewportWidth = width
	r.viewportHeight = height
	r.mu.Unlock()
}

// Viewport returns the current screen size.
func (r *Renderer) Viewport() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.viewportWidth, r.viewportHeight
}

// SetViewProjection sets the world to clip space transform for 3D primitives.
func (r *Renderer) SetViewProjection(m mgl32.Mat4) {
	r.mu.Lock()
	r.viewProjection = m
	r.mu.Unlock()
}

// SetEnabled toggles debug drawing. While disabled, draw calls are ignored
// and Update submits empty frames.
func (r *Renderer) SetEnabled(enabled bool) {
	r.mu.Lock()
	r.enabled = enabled
	r.mu.Unlock()
}

// Enabled reports whether debug drawing is on.
func (r *Renderer) Enabled() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.enabled
}

// Stats returns statistics for the last Update.
func (r *Renderer) Stats() FrameStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stats
}

// Pending returns the number of primitives waiting for the next Update.
func (r *Renderer) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

// Square draws a filled 2D square centred on position.
// size holds the full width and height; size Z is ignored.
func (r *Renderer) Square(position, size mgl32.Vec3, color mgl32.Vec4, opts ...Option) {
	o := applyOptions(opts)
	hx, hy := absf(size.X())/2, absf(size.Y())/2

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.accepting() {
		return
	}
	if !(hx > 0) || !(hy > 0) {
		r.reject("square", "zero or invalid area")
		return
	}

	x, y, z := position.X(), position.Y(), position.Z()
	corners := []mgl32.Vec3{
		{x - hx, y - hy, z},
		{x + hx, y - hy, z},
		{x + hx, y + hy, z},
		{x - hx, y + hy, z},
	}

	if GetOpt(o, OptOutline) {
		corners = append(corners, corners[0])
		r.submit(kindStrip, corners, color, Space2D, ModeLines, o)
		return
	}
	r.submit(kindQuads, corners, color, Space2D, ModeTriangles, o)
}

// cubeEdges lists the corner pairs of the 12 cube edges.
var cubeEdges = [12][2]int{
	{0, 1}, {1, 3}, {3, 2}, {2, 0}, // -Z face
	{4, 5}, {5, 7}, {7, 6}, {6, 4}, // +Z face
	{0, 4}, {1, 5}, {2, 6}, {3, 7},
}

// Cube draws a wireframe cube centred on position with edge length size.
// The color comes from WithColor, or the renderer's cube color.
func (r *Renderer) Cube(position mgl32.Vec3, size float32, opts ...Option) {
	o := applyOptions(opts)

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.accepting() {
		return
	}
	if !(size > 0) {
		r.reject("cube", "non-positive size")
		return
	}

	color := r.cubeColor
	if HasOpt(o, OptColor) {
		color = GetOpt(o, OptColor)
	}

	h := size / 2
	var corners [8]mgl32.Vec3
	for i := range corners {
		offset := mgl32.Vec3{-h, -h, -h}
		if i&1 != 0 {
			offset[0] = h
		}
		if i&2 != 0 {
			offset[1] = h
		}
		if i&4 != 0 {
			offset[2] = h
		}
		corners[i] = position.Add(offset)
	}

	points := make([]mgl32.Vec3, 0, len(cubeEdges)*2)
	for _, e := range cubeEdges {
		points = append(points, corners[e[0]], corners[e[1]])
	}
	r.submit(kindSegments, points, color, Space3D, ModeLines, o)
}

// Line2D draws a screen-space line.
func (r *Renderer) Line2D(start, end mgl32.Vec3, color mgl32.Vec4, opts ...Option) {
	r.line(Space2D, start, end, color, opts)
}

// Line3D draws a world-space line.
func (r *Renderer) Line3D(start, end mgl32.Vec3, color mgl32.Vec4, opts ...Option) {
	r.line(Space3D, start, end, color, opts)
}

// Lines2D draws a screen-space line strip. At least two vertices are required.
func (r *Renderer) Lines2D(vertices []mgl32.Vec3, color mgl32.Vec4, opts ...Option) {
	r.strip(Space2D, vertices, color, opts)
}

// Lines3D draws a world-space line strip. At least two vertices are required.
func (r *Renderer) Lines3D(vertices []mgl32.Vec3, color mgl32.Vec4, opts ...Option) {
	r.strip(Space3D, vertices, color, opts)
}

func (r *Renderer) line(space Space, start, end mgl32.Vec3, color mgl32.Vec4, opts []Option) {
	o := applyOptions(opts)

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.accepting() {
		return
	}
	r.submit(kindSegments, []mgl32.Vec3{start, end}, color, space, ModeLines, o)
}

func (r *Renderer) strip(space Space, vertices []mgl32.Vec3, color mgl32.Vec4, opts []Option) {
	o := applyOptions(opts)

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.accepting() {
		return
	}
	if len(vertices) < 2 {
		r.reject("lines"+space.String(), "fewer than two vertices")
		return
	}

	// The caller may reuse its slice after the call returns.
	points := make([]mgl32.Vec3, len(vertices))
	copy(points, vertices)
	r.submit(kindStrip, points, color, space, ModeLines, o)
}

// accepting reports whether draw calls are currently recorded.
// Caller must hold r.mu.
func (r *Renderer) accepting() bool {
	return !r.finalized && r.enabled
}

// submit queues a primitive with the current program state.
// Caller must hold r.mu.
func (r *Renderer) submit(kind primitiveKind, points []mgl32.Vec3, color mgl32.Vec4, space Space, mode Mode, o options) {
	state := RenderState{
		Mode:            mode,
		Space:           space,
		VertexProgram:   r.vertexProgram,
		FragmentProgram: r.fragmentProgram,
		DepthTest:       space == Space3D && GetOpt(o, OptDepthTest),
	}
	r.pending = append(r.pending, newPrimitive(kind, points, color, state, o))
}

// reject records an invalid primitive. Caller must hold r.mu.
func (r *Renderer) reject(kind, reason string) {
	r.rejected++
	Logger().Debug("debugdraw: primitive rejected", "kind", kind, "reason", reason)
}
