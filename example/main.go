// Example opens a window and draws a spinning cube, a ground grid, fading
// trail markers and a HUD square with the debug renderer.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell              # enter the dev environment (provides Go + OpenGL/X11 headers)
//	go run ./example/         # run this example
//	go run ./example/ -model scene.glb -toggle grave
//
// Press F3 (or the key given with -toggle) to switch debug drawing on and off.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math"
	"os"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"

	"github.com/go-theft-auto/debugdraw"
	"github.com/go-theft-auto/debugdraw/backend/opengl"
	"github.com/go-theft-auto/debugdraw/gltfwire"
)

const (
	windowWidth  = 800
	windowHeight = 600
	windowTitle  = "debugdraw example"
)

// tintShader multiplies every primitive color by a pulsing tint.
const tintShader = `
#version 410 core
in vec4 Color;

out vec4 FragColor;

void main() {
    FragColor = vec4(Color.rgb * vec3(1.0, 0.6, 0.2), Color.a);
}
`

var (
	colorGrid   = mgl32.Vec4{0.35, 0.35, 0.4, 1}
	colorAxisX  = mgl32.Vec4{1, 0.2, 0.2, 1}
	colorAxisZ  = mgl32.Vec4{0.2, 0.4, 1, 1}
	colorTrail  = mgl32.Vec4{1, 1, 0, 1}
	colorHUD    = mgl32.Vec4{0.1, 0.8, 0.3, 0.8}
	colorModel  = mgl32.Vec4{0.8, 0.8, 0.8, 1}
	colorCursor = mgl32.Vec4{1, 1, 1, 1}
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	modelPath := flag.String("model", "", "optional glTF/GLB file drawn as wireframe")
	toggle := flag.String("toggle", "F3", "key that toggles debug drawing")
	verbose := flag.Bool("v", false, "log debug renderer diagnostics")
	flag.Parse()

	if *verbose {
		debugdraw.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}

	if err := run(*modelPath, *toggle); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(modelPath, toggle string) error {
	toggleKey, ok := opengl.ParseKey(toggle)
	if !ok {
		return fmt.Errorf("unknown toggle key %q", toggle)
	}

	var model *gltfwire.Model
	if modelPath != "" {
		var err error
		if model, err = gltfwire.Load(modelPath); err != nil {
			return err
		}
	}

	// Initialize GLFW.
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(windowWidth, windowHeight, windowTitle, nil, nil)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1) // vsync

	// Initialize OpenGL.
	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	world, err := opengl.NewWorld()
	if err != nil {
		return fmt.Errorf("debug world: %w", err)
	}
	defer world.Delete()

	tint, err := world.CompileFragmentProgram(tintShader)
	if err != nil {
		return fmt.Errorf("tint program: %w", err)
	}

	if err := debugdraw.Initialize(world); err != nil {
		return fmt.Errorf("debugdraw: %w", err)
	}
	defer debugdraw.Finalize()

	adapter := opengl.NewGLFWViewportAdapter(window, debugdraw.Default())
	adapter.SetToggleKey(toggleKey)

	start := time.Now()
	lastMarker := start

	// Main loop.
	for !window.ShouldClose() {
		glfw.PollEvents()

		w, h := window.GetFramebufferSize()
		gl.Viewport(0, 0, int32(w), int32(h))
		gl.ClearColor(0.12, 0.12, 0.14, 1.0)
		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

		elapsed := float32(time.Since(start).Seconds())
		aspect := float32(max(w, 1)) / float32(max(h, 1))
		proj := mgl32.Perspective(mgl32.DegToRad(60), aspect, 0.1, 100)
		view := mgl32.LookAtV(mgl32.Vec3{6, 5, 8}, mgl32.Vec3{}, mgl32.Vec3{0, 1, 0})
		debugdraw.Default().SetViewProjection(proj.Mul4(view))

		drawGrid(10)

		// Orbiting cube leaving a fading trail.
		orbit := mgl32.Vec3{
			3 * float32(math.Cos(float64(elapsed))),
			1,
			3 * float32(math.Sin(float64(elapsed))),
		}
		debugdraw.Cube(orbit, 1)
		if time.Since(lastMarker) > 150*time.Millisecond {
			lastMarker = time.Now()
			debugdraw.Cube(orbit, 0.2,
				debugdraw.WithColor(colorTrail),
				debugdraw.WithDuration(2*time.Second),
				debugdraw.WithFade(ease.OutQuad))
		}

		// Tinted cube at the origin.
		debugdraw.SetFragmentProgram(tint)
		debugdraw.Cube(mgl32.Vec3{0, 0.5, 0}, 1)
		debugdraw.SetFragmentProgram(debugdraw.DefaultFragmentProgram)

		if model != nil {
			model.Draw(debugdraw.Default(), mgl32.HomogRotate3DY(elapsed*0.5), colorModel)
		}

		// HUD.
		debugdraw.Square(mgl32.Vec3{40, 40, 0}, mgl32.Vec3{48, 48, 0}, colorHUD)
		debugdraw.Square(mgl32.Vec3{40, 40, 0}, mgl32.Vec3{56, 56, 0}, colorCursor, debugdraw.WithOutline())
		cx, cy := float32(w)/2, float32(h)/2
		debugdraw.Line2D(mgl32.Vec3{cx - 8, cy, 0}, mgl32.Vec3{cx + 8, cy, 0}, colorCursor)
		debugdraw.Line2D(mgl32.Vec3{cx, cy - 8, 0}, mgl32.Vec3{cx, cy + 8, 0}, colorCursor)

		if err := debugdraw.Update(); err != nil {
			return fmt.Errorf("debug render: %w", err)
		}

		window.SwapBuffers()
	}

	return nil
}

// drawGrid draws a ground grid of size n with colored axes.
func drawGrid(n int) {
	half := float32(n) / 2
	for i := 0; i <= n; i++ {
		f := -half + float32(i)
		debugdraw.Line3D(mgl32.Vec3{f, 0, -half}, mgl32.Vec3{f, 0, half}, colorGrid)
		debugdraw.Line3D(mgl32.Vec3{-half, 0, f}, mgl32.Vec3{half, 0, f}, colorGrid)
	}
	debugdraw.Lines3D([]mgl32.Vec3{{0, 0.01, 0}, {half, 0.01, 0}}, colorAxisX)
	debugdraw.Lines3D([]mgl32.Vec3{{0, 0.01, 0}, {0, 0.01, half}}, colorAxisZ)
}
