package debugdraw

import (
	"time"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/tanema/gween/ease"
)

// Option configures a single debug primitive.
type Option func(*options)

// options holds primitive configuration via the extensions map.
// All options use the OptKey system for type safety.
type options struct {
	extensions map[string]any
}

// OptKey is a typed key for primitive options.
//
// Example:
//
//	var OptLabel = debugdraw.NewOptKey("label", "")
//
//	r.Line3D(a, b, color, debugdraw.WithOpt(OptLabel, "velocity"))
type OptKey[T any] struct {
	name string
	def  T
}

// NewOptKey creates a typed option key with a default value.
// The default is returned when the option is not set.
func NewOptKey[T any](name string, defaultValue T) OptKey[T] {
	return OptKey[T]{name: name, def: defaultValue}
}

// Name returns the key name (useful for debugging).
func (k OptKey[T]) Name() string { return k.name }

// Default returns the default value for this key.
func (k OptKey[T]) Default() T { return k.def }

// WithOpt sets an option value using a typed key.
func WithOpt[T any](key OptKey[T], value T) Option {
	return func(o *options) {
		if o.extensions == nil {
			o.extensions = make(map[string]any)
		}
		o.extensions[key.name] = value
	}
}

// GetOpt retrieves an option value with type safety.
// Returns the key's default value if not set.
func GetOpt[T any](o options, key OptKey[T]) T {
	if o.extensions == nil {
		return key.def
	}
	v, ok := o.extensions[key.name]
	if !ok {
		return key.def
	}
	typed, ok := v.(T)
	if !ok {
		return key.def
	}
	return typed
}

// HasOpt returns true if the option was explicitly set.
func HasOpt[T any](o options, key OptKey[T]) bool {
	if o.extensions == nil {
		return false
	}
	_, ok := o.extensions[key.name]
	return ok
}

func applyOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

// ApplyAndGet applies options and returns a single value.
// Use this in external packages that wrap primitives.
func ApplyAndGet[T any](opts []Option, key OptKey[T]) T {
	return GetOpt(applyOptions(opts), key)
}

// ApplyAndCheck returns the option value and whether it was explicitly set.
func ApplyAndCheck[T any](opts []Option, key OptKey[T]) (T, bool) {
	o := applyOptions(opts)
	return GetOpt(o, key), HasOpt(o, key)
}

// Built-in option keys.
var (
	OptDuration  = NewOptKey[time.Duration]("duration", 0)
	OptFade      = NewOptKey[ease.TweenFunc]("fade", nil)
	OptDepthTest = NewOptKey("depthTest", true)
	OptColor     = NewOptKey("color", mgl32.Vec4{1, 1, 1, 1})
	OptOutline   = NewOptKey("outline", false)
)

// WithDuration keeps the primitive alive for d of renderer time
// instead of a single frame.
func WithDuration(d time.Duration) Option { return WithOpt(OptDuration, d) }

// WithFade fades the primitive's alpha from 1 to 0 over its duration.
// Has no effect without WithDuration.
func WithFade(easing ease.TweenFunc) Option { return WithOpt(OptFade, easing) }

// WithDepthTest toggles depth testing for 3D primitives.
func WithDepthTest(enabled bool) Option { return WithOpt(OptDepthTest, enabled) }

// WithColor overrides the primitive color where the call takes none.
func WithColor(c mgl32.Vec4) Option { return WithOpt(OptColor, c) }

// WithOutline draws a Square as its four edges instead of filled.
func WithOutline() Option { return WithOpt(OptOutline, true) }
