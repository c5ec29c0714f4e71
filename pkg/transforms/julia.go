package transforms

// Julia2 is the quadratic map z -> z^2 + C.
type Julia2 struct {
	C complex128
}

// Next applies the map once. It is the plain complex form of the step Escape
// unrolls into real arithmetic.
func (j Julia2) Next(z complex128) complex128 {
	return z*z + j.C
}

// Escape iterates j starting from z until |z|^2 exceeds escape2 or maxIterations
// steps have been taken. It returns the number of steps taken and the final
// iterate.
//
// Squares of the real and imaginary parts are carried between steps so each
// step costs three multiplications. The explicit float64 conversions prevent
// the compiler from fusing multiply-adds, so the loop produces the same
// iterates on every architecture.
func (j Julia2) Escape(z complex128, maxIterations int, escape2 float64) (int, complex128) {
	cr, ci := real(j.C), imag(j.C)

	zr, zi := real(z), imag(z)
	zr2, zi2 := zr*zr, zi*zi

	iterations := 0
	for iterations < maxIterations && zr2+zi2 <= escape2 {
		zi = float64((zr+zr)*zi) + ci
		zr = (zr2 - zi2) + cr

		zr2 = float64(zr * zr)
		zi2 = float64(zi * zi)
		iterations++
	}

	return iterations, complex(zr, zi)
}
