package moon

import (
	"github.com/gogpu/moon/solver"
	"github.com/gogpu/moon/text"
)

// EngineOption configures an Engine during creation.
// Use functional options to customize Engine behavior.
//
// Example:
//
//	// Reference solver with default settings
//	e := moon.NewEngine()
//
//	// Custom solver (dependency injection)
//	e := moon.NewEngine(moon.WithSolver(mySolver))
type EngineOption func(*engineOptions)

// engineOptions holds optional configuration for Engine creation.
type engineOptions struct {
	config Config
	solver solver.Tree
	fonts  *text.FontSet
}

// defaultOptions returns the default engine options.
func defaultOptions() engineOptions {
	return engineOptions{
		config: DefaultConfig(),
		solver: nil, // Will be set to a flex.Tree if nil
		fonts:  nil, // Will be created if nil
	}
}

// WithConfig replaces every setting with cfg. Options applied after it
// still override single fields.
func WithConfig(cfg Config) EngineOption {
	return func(o *engineOptions) {
		o.config = cfg
	}
}

// WithSolver sets the layout solver. The engine takes exclusive ownership
// of the tree; it must be empty.
//
// Example:
//
//	e := moon.NewEngine(moon.WithSolver(flex.New(flex.WithCapacity(1024))))
func WithSolver(t solver.Tree) EngineOption {
	return func(o *engineOptions) {
		o.solver = t
	}
}

// WithRounding enables or disables pixel rounding in the default solver.
// It has no effect together with WithSolver.
func WithRounding(enabled bool) EngineOption {
	return func(o *engineOptions) {
		o.config.Rounding = enabled
	}
}

// WithMaxTextScale caps the scale factor text is shaped at.
func WithMaxTextScale(scale float64) EngineOption {
	return func(o *engineOptions) {
		o.config.MaxTextScale = scale
	}
}

// WithFonts sets the font set used to shape text content.
func WithFonts(fonts *text.FontSet) EngineOption {
	return func(o *engineOptions) {
		o.fonts = fonts
	}
}
