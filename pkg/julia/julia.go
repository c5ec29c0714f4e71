package julia

import (
	"github.com/willbeason/starfish/pkg/transforms"
	"math"
)

// Iteration is the outcome of iterating a single pixel.
type Iteration struct {
	Count   int
	Escaped bool

	// Magnitude is |z| at the iterate where the pixel escaped.
	// It is zero for interior pixels.
	Magnitude float64
}

// Sample maps pixel (x, y) to its point in the complex plane.
// Row 0 is the top of the viewport.
func (c Config) Sample(x, y int) complex128 {
	dx := (c.View.XMax - c.View.XMin) / float64(c.Width-1)
	dy := (c.View.YMax - c.View.YMin) / float64(c.Height-1)

	return complex(c.View.XMin+float64(float64(x)*dx), c.View.YMax-float64(float64(y)*dy))
}

// Evaluate iterates pixel (x, y). The result depends only on x, y and c.
func (c Config) Evaluate(x, y int) Iteration {
	return c.EvaluateAt(c.Sample(x, y))
}

// EvaluateAt iterates an arbitrary starting point.
func (c Config) EvaluateAt(z0 complex128) Iteration {
	j := transforms.Julia2{C: c.C}

	count, z := j.Escape(z0, c.MaxIterations, c.Escape2)
	if count >= c.MaxIterations {
		return Iteration{Count: count}
	}

	zr, zi := real(z), imag(z)
	return Iteration{
		Count:     count,
		Escaped:   true,
		Magnitude: math.Sqrt(float64(zr*zr) + float64(zi*zi)),
	}
}
