package debugdraw

import "github.com/go-gl/mathgl/mgl32"

// Space selects the coordinate system a primitive is submitted in.
type Space uint8

const (
	// Space2D is screen space in pixels: origin top-left, +Y down.
	// Z only orders overlapping primitives.
	Space2D Space = iota
	// Space3D is world space, transformed by the view-projection matrix.
	Space3D
)

func (s Space) String() string {
	switch s {
	case Space2D:
		return "2d"
	case Space3D:
		return "3d"
	default:
		return "unknown"
	}
}

// Mode is the primitive topology of a draw command.
type Mode uint8

const (
	ModeLines     Mode = iota // Indexed line list
	ModeTriangles             // Indexed triangle list
)

func (m Mode) String() string {
	switch m {
	case ModeLines:
		return "lines"
	case ModeTriangles:
		return "triangles"
	default:
		return "unknown"
	}
}

// Vertex represents a debug vertex.
// Memory layout matches OpenGL vertex attribute expectations.
type Vertex struct {
	Pos   [3]float32 // Position (x, y, z)
	Color uint32     // RGBA packed color
}

// DrawCmd represents a single draw command.
// Commands are split whenever the render state changes.
type DrawCmd struct {
	ElemCount       uint32 // Number of indices to draw
	Mode            Mode
	Space           Space
	VertexProgram   VertexProgram
	FragmentProgram FragmentProgram
	DepthTest       bool
	VertexOffset    uint32 // Offset into vertex buffer
	IndexOffset     uint32 // Offset into index buffer
}

// State returns the render state the command was recorded with.
func (c DrawCmd) State() RenderState {
	return RenderState{
		Mode:            c.Mode,
		Space:           c.Space,
		VertexProgram:   c.VertexProgram,
		FragmentProgram: c.FragmentProgram,
		DepthTest:       c.DepthTest,
	}
}

// RenderState is everything that forces a new draw command when it changes.
type RenderState struct {
	Mode            Mode
	Space           Space
	VertexProgram   VertexProgram
	FragmentProgram FragmentProgram
	DepthTest       bool
}

// Color constants (RGBA packed as 0xAABBGGRR for OpenGL compatibility)
const (
	ColorWhite       uint32 = 0xFFFFFFFF
	ColorBlack       uint32 = 0xFF000000
	ColorRed         uint32 = 0xFF0000FF
	ColorGreen       uint32 = 0xFF00FF00
	ColorBlue        uint32 = 0xFFFF0000
	ColorYellow      uint32 = 0xFF00FFFF
	ColorCyan        uint32 = 0xFFFFFF00
	ColorMagenta     uint32 = 0xFFFF00FF
	ColorTransparent uint32 = 0x00000000
)

// RGBA creates a packed color from individual components (0-255).
func RGBA(r, g, b, a uint8) uint32 {
	return uint32(a)<<24 | uint32(b)<<16 | uint32(g)<<8 | uint32(r)
}

// RGBAf creates a packed color from float components (0.0-1.0).
func RGBAf(r, g, b, a float32) uint32 {
	return RGBA(
		uint8(clampf(r, 0, 1)*255+0.5),
		uint8(clampf(g, 0, 1)*255+0.5),
		uint8(clampf(b, 0, 1)*255+0.5),
		uint8(clampf(a, 0, 1)*255+0.5),
	)
}

// PackColor packs an RGBA float vector.
func PackColor(c mgl32.Vec4) uint32 {
	return RGBAf(c[0], c[1], c[2], c[3])
}

// UnpackRGBA extracts RGBA components from a packed color.
func UnpackRGBA(c uint32) (r, g, b, a uint8) {
	return uint8(c), uint8(c >> 8), uint8(c >> 16), uint8(c >> 24)
}

// UnpackColor converts a packed color back to an RGBA float vector.
func UnpackColor(c uint32) mgl32.Vec4 {
	r, g, b, a := UnpackRGBA(c)
	return mgl32.Vec4{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}

// clampf clamps a float32 value to a range.
func clampf(v, minVal, maxVal float32) float32 {
	if v < minVal {
		return minVal
	}
	if v > maxVal {
		return maxVal
	}
	return v
}

func absf(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
