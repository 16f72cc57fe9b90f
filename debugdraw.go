package debugdraw

import (
	"sync"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
)

// Process-wide renderer used by the package-level functions.
var (
	defaultRenderer atomic.Pointer[Renderer]
	lifecycleMu     sync.Mutex // serializes Initialize and Finalize
)

// Initialize creates the process-wide debug renderer bound to world.
// It returns ErrAlreadyInitialized if Initialize was already called
// without a matching Finalize.
func Initialize(world RenderWorld, opts ...RendererOption) error {
	lifecycleMu.Lock()
	defer lifecycleMu.Unlock()

	if defaultRenderer.Load() != nil {
		return ErrAlreadyInitialized
	}
	r, err := New(world, opts...)
	if err != nil {
		return err
	}
	defaultRenderer.Store(r)
	return nil
}

// Finalize releases the process-wide renderer. It is a no-op when
// Initialize has not been called.
func Finalize() {
	lifecycleMu.Lock()
	defer lifecycleMu.Unlock()

	if r := defaultRenderer.Swap(nil); r != nil {
		r.Finalize()
	}
}

// Default returns the process-wide renderer, or nil before Initialize.
func Default() *Renderer {
	return defaultRenderer.Load()
}

// Update runs the per-frame heartbeat of the process-wide renderer.
func Update() error {
	r := defaultRenderer.Load()
	if r == nil {
		return ErrNotInitialized
	}
	return r.Update()
}

// SetFragmentProgram assigns the fragment program for subsequent primitives.
func SetFragmentProgram(program FragmentProgram) {
	if r := defaultRenderer.Load(); r != nil {
		r.SetFragmentProgram(program)
	}
}

// SetVertexProgram assigns the vertex program for subsequent primitives.
func SetVertexProgram(program VertexProgram) {
	if r := defaultRenderer.Load(); r != nil {
		r.SetVertexProgram(program)
	}
}

// Square draws a filled 2D square. See Renderer.Square.
func Square(position, size mgl32.Vec3, color mgl32.Vec4, opts ...Option) {
	if r := defaultRenderer.Load(); r != nil {
		r.Square(position, size, color, opts...)
	}
}

// Cube draws a wireframe 3D cube. See Renderer.Cube.
func Cube(position mgl32.Vec3, size float32, opts ...Option) {
	if r := defaultRenderer.Load(); r != nil {
		r.Cube(position, size, opts...)
	}
}

// Line2D draws a screen-space line.
func Line2D(start, end mgl32.Vec3, color mgl32.Vec4, opts ...Option) {
	if r := defaultRenderer.Load(); r != nil {
		r.Line2D(start, end, color, opts...)
	}
}

// Line3D draws a world-space line.
func Line3D(start, end mgl32.Vec3, color mgl32.Vec4, opts ...Option) {
	if r := defaultRenderer.Load(); r != nil {
		r.Line3D(start, end, color, opts...)
	}
}

// Lines2D draws a screen-space line strip.
func Lines2D(vertices []mgl32.Vec3, color mgl32.Vec4, opts ...Option) {
	if r := defaultRenderer.Load(); r != nil {
		r.Lines2D(vertices, color, opts...)
	}
}

// Lines3D draws a world-space line strip.
func Lines3D(vertices []mgl32.Vec3, color mgl32.Vec4, opts ...Option) {
	if r := defaultRenderer.Load(); r != nil {
		r.Lines3D(vertices, color, opts...)
	}
}
