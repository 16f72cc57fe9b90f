package debugdraw

// VertexProgram is an opaque vertex program handle issued by a backend.
// The zero value selects the backend's default program.
type VertexProgram uint32

// FragmentProgram is an opaque fragment program handle issued by a backend.
// The zero value selects the backend's default program.
type FragmentProgram uint32

// DefaultVertexProgram and DefaultFragmentProgram select the backend defaults.
const (
	DefaultVertexProgram   VertexProgram   = 0
	DefaultFragmentProgram FragmentProgram = 0
)

// ProgramPair identifies a linked vertex/fragment combination.
// Backends use it as a cache key.
type ProgramPair struct {
	Vertex   VertexProgram
	Fragment FragmentProgram
}

// Programs returns the program pair a command draws with.
func (c DrawCmd) Programs() ProgramPair {
	return ProgramPair{Vertex: c.VertexProgram, Fragment: c.FragmentProgram}
}
