/*
Package debugdraw provides immediate-mode debug drawing for a rendering
engine: lines, line strips, squares and wireframe cubes in screen space or
world space, batched into a DrawList and handed to a render world once per
frame.

# Overview

Draw calls are recorded, not executed. Every call captures the current
vertex and fragment program, so changing a program affects only primitives
submitted afterwards. Update turns everything recorded since the previous
frame into draw commands and passes them to the RenderWorld. One-shot
primitives are then discarded; timed primitives (WithDuration) stay until
their lifetime runs out.

# Quick Start

	// Setup
	world, _ := opengl.NewWorld()
	debugdraw.Initialize(world, debugdraw.WithViewport(1920, 1080))
	defer debugdraw.Finalize()

	// Game loop
	for !window.ShouldClose() {
	    debugdraw.Cube(playerPos, 1)
	    debugdraw.Line3D(playerPos, playerPos.Add(velocity), colorYellow)
	    debugdraw.Square(mgl32.Vec3{40, 40, 0}, mgl32.Vec3{16, 16, 0}, colorRed)

	    if err := debugdraw.Update(); err != nil {
	        log.Println(err)
	    }
	    window.SwapBuffers()
	}

The package-level functions operate on a process-wide Renderer created by
Initialize. They are no-ops before Initialize and after Finalize, so debug
calls can stay in shipping code. Use New to manage renderers explicitly.

# Coordinate Spaces

	Space2D   Screen pixels. Origin top-left, +Y down. Z orders overlap only.
	Space3D   World units, transformed by SetViewProjection.

# Primitives

	Square(position, size, color, opts...)
	    Filled 2D square centred on position. size holds the full width and
	    height. Options: WithOutline, WithDuration, WithFade

	Cube(position, size, opts...)
	    Wireframe 3D cube with edge length size. White unless WithColor or
	    WithCubeColor is set. Options: WithColor, WithDepthTest, WithDuration

	Line2D(start, end, color, opts...)
	Line3D(start, end, color, opts...)
	    A single segment.

	Lines2D(vertices, color, opts...)
	Lines3D(vertices, color, opts...)
	    A connected strip through at least two vertices. The slice is copied.

Invalid input (zero-area squares, non-positive cube sizes, strips with fewer
than two vertices) is rejected and counted in FrameStats.Rejected.

# Programs

Program handles are issued by the backend:

	vs, _ := world.CompileVertexProgram(vertexSrc)
	fs, _ := world.CompileFragmentProgram(fragmentSrc)

	debugdraw.SetVertexProgram(vs)
	debugdraw.SetFragmentProgram(fs)
	debugdraw.Cube(pos, 2) // drawn with vs/fs

	debugdraw.SetFragmentProgram(debugdraw.DefaultFragmentProgram)

The zero handle always selects the backend default.

# Backends

	backend/opengl     OpenGL 4.1 core, GLSL programs, GLFW viewport/toggle adapter
	backend/ebitengine Ebitengine images, Kage fragment programs
	backend/software   CPU rasterizer into image.RGBA, Go func programs

# Logging

The package is silent by default. Route its diagnostics through slog with
SetLogger.
*/
package debugdraw
