package debugdraw

import "errors"

var (
	// ErrNilWorld is returned when a renderer is created without a render world.
	ErrNilWorld = errors.New("debugdraw: nil render world")

	// ErrAlreadyInitialized is returned by Initialize when the process-wide
	// renderer exists. Call Finalize first.
	ErrAlreadyInitialized = errors.New("debugdraw: already initialized")

	// ErrNotInitialized is returned by the package-level Update before Initialize.
	ErrNotInitialized = errors.New("debugdraw: not initialized")

	// ErrFinalized is returned by Update on a finalized renderer.
	ErrFinalized = errors.New("debugdraw: renderer finalized")
)
