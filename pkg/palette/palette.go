package palette

import (
	"github.com/willbeason/starfish/pkg/julia"
	"image/color"
	"math"
)

const (
	hueOffset  = 0.66
	hueSweep   = 1.4
	saturation = 0.85
	valueFloor = 0.15
	valueSweep = 0.95
)

var (
	invLog2 = 1.0 / math.Log(2.0)

	// Interior is the color of points which never escaped.
	Interior = color.RGBA{A: 0xff}
)

// Smooth returns the continuous iteration count of an escaped pixel and its
// position in [0, 1] relative to maxIterations.
//
// nu = n + 1 - log2(log|z|) removes the banding between integer counts. The
// correction may carry nu slightly outside [0, maxIterations], so t is clamped.
// A NaN t is mapped to 0.
func Smooth(it julia.Iteration, maxIterations int) (nu, t float64) {
	nu = float64(it.Count) + 1.0 - float64(math.Log(math.Log(it.Magnitude))*invLog2)
	t = nu / float64(maxIterations)

	switch {
	case !(t > 0.0):
		return nu, 0.0
	case t > 1.0:
		return nu, 1.0
	default:
		return nu, t
	}
}

// Starfish maps t in [0, 1] to a hue, saturation and value.
// The hue wraps around the color wheel 1.4 times starting from blue. The value
// never drops below 0.15 so only interior points are black.
func Starfish(t float64) (h, s, v float64) {
	h = math.Mod(hueOffset+float64(hueSweep*t), 1.0)
	return h, saturation, valueFloor + float64(valueSweep*t)
}

// HSV converts a hue in [0, 1), saturation and value to 8-bit channels.
// Channels are truncated, not rounded, and saturate at 255 since v may exceed 1.
func HSV(h, s, v float64) (r, g, b uint8) {
	i := math.Floor(h * 6.0)
	f := float64(h*6.0) - i
	p := v * (1.0 - s)
	q := v * (1.0 - float64(f*s))
	t := v * (1.0 - float64((1.0-f)*s))

	var rf, gf, bf float64
	switch int(i) % 6 {
	case 0:
		rf, gf, bf = v, t, p
	case 1:
		rf, gf, bf = q, v, p
	case 2:
		rf, gf, bf = p, v, t
	case 3:
		rf, gf, bf = p, q, v
	case 4:
		rf, gf, bf = t, p, v
	default:
		rf, gf, bf = v, p, q
	}

	return quantize(rf), quantize(gf), quantize(bf)
}

func quantize(f float64) uint8 {
	c := math.Trunc(f * 255.0)
	if math.IsNaN(c) {
		return 0
	}
	switch {
	case c <= 0:
		return 0
	case c >= math.MaxUint8:
		return math.MaxUint8
	default:
		return uint8(c)
	}
}

// Color returns the opaque color of a pixel.
func Color(it julia.Iteration, maxIterations int) color.RGBA {
	if !it.Escaped {
		return Interior
	}

	_, t := Smooth(it, maxIterations)
	r, g, b := HSV(Starfish(t))

	return color.RGBA{R: r, G: g, B: b, A: 0xff}
}
