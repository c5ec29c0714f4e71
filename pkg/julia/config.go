package julia

import (
	"errors"
	"fmt"
	"math"
)

const (
	// DefaultMaxIterations is the iteration cap used when none is given.
	DefaultMaxIterations = 1024

	// DefaultEscape2 is the squared escape radius. Any point with |z| > 2
	// escapes under z^2 + c for |c| <= 2.
	DefaultEscape2 = 4.0
)

var (
	ErrInvalidDimensions = errors.New("invalid dimensions")
	ErrInvalidIterations = errors.New("invalid iteration cap")
	ErrInvalidViewport   = errors.New("invalid viewport")
	ErrInvalidEscape     = errors.New("invalid escape radius")
	ErrInvalidConstant   = errors.New("invalid Julia constant")
)

// Viewport is the rectangle of the complex plane sampled by an image.
type Viewport struct {
	XMin, XMax float64
	YMin, YMax float64
}

// Starfish is the region around the origin where the starfish Julia set lives.
var Starfish = Viewport{XMin: -1.6, XMax: 1.6, YMin: -1.6, YMax: 1.6}

// Config holds everything needed to evaluate any pixel of a render.
// A Config is never modified during a render, so it may be shared freely between
// goroutines.
type Config struct {
	Width, Height int

	// MaxIterations is the cap after which a point is considered interior.
	MaxIterations int

	// Escape2 is the squared magnitude beyond which a point has escaped.
	Escape2 float64

	// C is the Julia set parameter.
	C complex128

	View Viewport
}

// Default returns the starfish configuration at the given size.
func Default(width, height int) Config {
	return Config{
		Width:         width,
		Height:        height,
		MaxIterations: DefaultMaxIterations,
		Escape2:       DefaultEscape2,
		C:             complex(-0.4, 0.6),
		View:          Starfish,
	}
}

// Validate reports whether the Config can be rendered.
//
// Images must be at least two pixels in each direction since the corners of the
// image are pinned to the corners of the viewport.
func (c Config) Validate() error {
	if c.Width <= 1 || c.Height <= 1 {
		return fmt.Errorf("%w: %dx%d, need at least 2x2", ErrInvalidDimensions, c.Width, c.Height)
	}
	if c.MaxIterations <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidIterations, c.MaxIterations)
	}
	if !(c.View.XMin < c.View.XMax) || !(c.View.YMin < c.View.YMax) ||
		!finite(c.View.XMax-c.View.XMin) || !finite(c.View.YMax-c.View.YMin) {
		return fmt.Errorf("%w: [%g, %g]x[%g, %g]", ErrInvalidViewport,
			c.View.XMin, c.View.XMax, c.View.YMin, c.View.YMax)
	}
	if !finite(real(c.C)) || !finite(imag(c.C)) {
		return fmt.Errorf("%w: %v", ErrInvalidConstant, c.C)
	}
	if !(c.Escape2 >= DefaultEscape2) || math.IsInf(c.Escape2, 1) {
		return fmt.Errorf("%w: squared radius %g, want finite and at least %g", ErrInvalidEscape, c.Escape2, DefaultEscape2)
	}

	return nil
}

// finite reports whether f is neither NaN nor infinite.
func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
