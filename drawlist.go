package debugdraw

import (
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// maxCommandVertices is the most vertices a single command may reference.
// Indices are uint16 and relative to the command's vertex offset.
const maxCommandVertices = 0xFFFF

// drawListPool provides reuse of DrawList buffers.
// Debug geometry is rebuilt every frame, so the buffers are recycled
// instead of reallocated.
var drawListPool = sync.Pool{
	New: func() any {
		return &DrawList{
			VtxBuffer: make([]Vertex, 0, 1024),
			IdxBuffer: make([]uint16, 0, 2048),
			CmdBuffer: make([]DrawCmd, 0, 16),
		}
	},
}

// AcquireDrawList gets a cleared DrawList from the pool.
// Call ReleaseDrawList when done to return it.
func AcquireDrawList() *DrawList {
	dl := drawListPool.Get().(*DrawList)
	dl.Clear()
	return dl
}

// ReleaseDrawList returns a DrawList to the pool for reuse.
func ReleaseDrawList(dl *DrawList) {
	if dl != nil {
		drawListPool.Put(dl)
	}
}

// DrawList accumulates debug draw commands for a frame.
// Primitives are batched until the render state changes.
type DrawList struct {
	CmdBuffer []DrawCmd // Draw commands
	VtxBuffer []Vertex  // Vertex data
	IdxBuffer []uint16  // Index data

	ViewportWidth    int
	ViewportHeight   int
	Projection2D     mgl32.Mat4 // Screen pixels to clip space
	ViewProjection3D mgl32.Mat4 // World to clip space

	state        RenderState // State for subsequent primitives
	cmdOffset    uint32      // Vertex offset for current command
	idxCmdOffset uint32      // Index offset for current command
	finalized    bool
}

// Clear resets the DrawList for a new frame.
// Retains allocated capacity to avoid reallocations.
func (dl *DrawList) Clear() {
	dl.CmdBuffer = dl.CmdBuffer[:0]
	dl.VtxBuffer = dl.VtxBuffer[:0]
	dl.IdxBuffer = dl.IdxBuffer[:0]
	dl.ViewportWidth = 0
	dl.ViewportHeight = 0
	dl.Projection2D = mgl32.Ident4()
	dl.ViewProjection3D = mgl32.Ident4()
	dl.state = RenderState{}
	dl.cmdOffset = 0
	dl.idxCmdOffset = 0
	dl.finalized = false
}

// SetViewport sets the viewport size and derives the 2D projection from it.
func (dl *DrawList) SetViewport(width, height int) {
	dl.ViewportWidth = width
	dl.ViewportHeight = height
	if width > 0 && height > 0 {
		dl.Projection2D = mgl32.Ortho2D(0, float32(width), float32(height), 0)
	} else {
		dl.Projection2D = mgl32.Ident4()
	}
}

// Matrix returns the clip-space transform for a space.
func (dl *DrawList) Matrix(space Space) mgl32.Mat4 {
	if space == Space3D {
		return dl.ViewProjection3D
	}
	return dl.Projection2D
}

// State returns the render state used for subsequent primitives.
func (dl *DrawList) State() RenderState {
	return dl.state
}

// SetState sets the render state for subsequent primitives.
// A new command is started only when the state actually changes.
func (dl *DrawList) SetState(s RenderState) {
	if dl.state == s {
		return
	}
	dl.state = s
	if len(dl.CmdBuffer) > 0 {
		dl.splitDraw()
	}
}

func (dl *DrawList) setMode(m Mode) {
	if dl.state.Mode == m {
		return
	}
	s := dl.state
	s.Mode = m
	dl.SetState(s)
}

// splitDraw finalizes the current command and starts a new one.
func (dl *DrawList) splitDraw() {
	if len(dl.CmdBuffer) > 0 {
		lastCmd := &dl.CmdBuffer[len(dl.CmdBuffer)-1]
		lastCmd.ElemCount = uint32(len(dl.IdxBuffer)) - dl.idxCmdOffset
	}

	dl.CmdBuffer = append(dl.CmdBuffer, DrawCmd{
		Mode:            dl.state.Mode,
		Space:           dl.state.Space,
		VertexProgram:   dl.state.VertexProgram,
		FragmentProgram: dl.state.FragmentProgram,
		DepthTest:       dl.state.DepthTest,
		VertexOffset:    uint32(len(dl.VtxBuffer)),
		IndexOffset:     uint32(len(dl.IdxBuffer)),
	})
	dl.cmdOffset = uint32(len(dl.VtxBuffer))
	dl.idxCmdOffset = uint32(len(dl.IdxBuffer))
}

// reserve makes sure the current command can address n more vertices.
func (dl *DrawList) reserve(n int) {
	if len(dl.CmdBuffer) == 0 {
		dl.splitDraw()
		return
	}
	last := dl.CmdBuffer[len(dl.CmdBuffer)-1]
	if last.State() != dl.state || uint32(len(dl.VtxBuffer))-dl.cmdOffset+uint32(n) > maxCommandVertices {
		dl.splitDraw()
	}
}

// addVertices adds vertices and returns the starting index.
func (dl *DrawList) addVertices(verts ...Vertex) uint16 {
	dl.reserve(len(verts))
	startIdx := uint16(len(dl.VtxBuffer) - int(dl.cmdOffset))
	dl.VtxBuffer = append(dl.VtxBuffer, verts...)
	return startIdx
}

// addIndices adds indices (relative to current command's vertex offset).
func (dl *DrawList) addIndices(indices ...uint16) {
	dl.IdxBuffer = append(dl.IdxBuffer, indices...)
}

func vertex(p mgl32.Vec3, color uint32) Vertex {
	return Vertex{Pos: [3]float32{p[0], p[1], p[2]}, Color: color}
}

// AddLine draws a line segment.
func (dl *DrawList) AddLine(a, b mgl32.Vec3, color uint32) {
	if color&0xFF000000 == 0 { // Skip fully transparent
		return
	}
	dl.setMode(ModeLines)

	idx := dl.addVertices(vertex(a, color), vertex(b, color))
	dl.addIndices(idx, idx+1)
}

// AddLineStrip draws connected segments through points.
// The strip is stored as a line list so it batches with other lines.
func (dl *DrawList) AddLineStrip(points []mgl32.Vec3, color uint32) {
	if color&0xFF000000 == 0 || len(points) < 2 {
		return
	}
	dl.setMode(ModeLines)

	// Long strips are cut into chunks sharing their boundary point.
	for start := 0; start < len(points)-1; {
		end := min(start+maxCommandVertices, len(points))
		chunk := points[start:end]

		dl.reserve(len(chunk))
		base := uint16(len(dl.VtxBuffer) - int(dl.cmdOffset))
		for _, p := range chunk {
			dl.VtxBuffer = append(dl.VtxBuffer, vertex(p, color))
		}
		for i := 0; i < len(chunk)-1; i++ {
			dl.addIndices(base+uint16(i), base+uint16(i)+1)
		}

		start = end - 1
	}
}

// stripVertexCount returns how many vertices AddLineStrip appends for a
// strip of n points, counting the points repeated at chunk boundaries.
func stripVertexCount(n int) int {
	if n < 2 {
		return 0
	}
	chunks := (n - 2 + maxCommandVertices - 1) / (maxCommandVertices - 1)
	return n + chunks - 1
}

// AddTriangle draws a filled triangle.
func (dl *DrawList) AddTriangle(a, b, c mgl32.Vec3, color uint32) {
	if color&0xFF000000 == 0 {
		return
	}
	dl.setMode(ModeTriangles)

	idx := dl.addVertices(vertex(a, color), vertex(b, color), vertex(c, color))
	dl.addIndices(idx, idx+1, idx+2)
}

// AddQuad draws a filled quad with corners in winding order.
func (dl *DrawList) AddQuad(a, b, c, d mgl32.Vec3, color uint32) {
	if color&0xFF000000 == 0 {
		return
	}
	dl.setMode(ModeTriangles)

	idx := dl.addVertices(vertex(a, color), vertex(b, color), vertex(c, color), vertex(d, color))
	dl.addIndices(idx, idx+1, idx+2, idx, idx+2, idx+3)
}

// Finalize prepares the DrawList for rendering.
// Must be called after all primitives are added. Calling it again is a no-op.
func (dl *DrawList) Finalize() {
	if dl.finalized {
		return
	}
	dl.finalized = true

	if len(dl.CmdBuffer) > 0 {
		lastCmd := &dl.CmdBuffer[len(dl.CmdBuffer)-1]
		lastCmd.ElemCount = uint32(len(dl.IdxBuffer)) - dl.idxCmdOffset
	}

	// Remove empty commands
	filtered := dl.CmdBuffer[:0]
	for _, cmd := range dl.CmdBuffer {
		if cmd.ElemCount > 0 {
			filtered = append(filtered, cmd)
		}
	}
	dl.CmdBuffer = filtered
}

// Indices returns the index range of a command.
func (dl *DrawList) Indices(cmd DrawCmd) []uint16 {
	return dl.IdxBuffer[cmd.IndexOffset : cmd.IndexOffset+cmd.ElemCount]
}

// CommandVertex resolves a command-relative index to its vertex.
func (dl *DrawList) CommandVertex(cmd DrawCmd, idx uint16) Vertex {
	return dl.VtxBuffer[cmd.VertexOffset+uint32(idx)]
}
