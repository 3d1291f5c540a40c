package tracer

import "math"

// Cubic and quartic root finders used by the torus shape. All arithmetic is
// double precision; the quartic coefficients for grazing torus rays span too
// many orders of magnitude for float32.

const rootEpsilon = 1e-9

// solveCubic finds the real roots of c3 x^3 + c2 x^2 + c1 x + c0 and stores
// them in out, returning the count.
func solveCubic(c3, c2, c1, c0 float64, out *[3]float64) int {
	if math.Abs(c3) < rootEpsilon {
		return 0
	}
	a := c2 / c3
	b := c1 / c3
	c := c0 / c3

	// Depressed form x = y - a/3.
	p := b - a*a/3
	q := 2*a*a*a/27 - a*b/3 + c
	shift := -a / 3

	disc := q*q/4 + p*p*p/27
	switch {
	case math.Abs(disc) < rootEpsilon && math.Abs(p) < rootEpsilon:
		out[0] = shift
		return 1
	case disc > 0:
		sq := math.Sqrt(disc)
		u := math.Cbrt(-q/2 + sq)
		v := math.Cbrt(-q/2 - sq)
		out[0] = u + v + shift
		return 1
	case math.Abs(disc) < rootEpsilon:
		u := math.Cbrt(-q / 2)
		out[0] = 2*u + shift
		out[1] = -u + shift
		return 2
	default:
		r := math.Sqrt(-p * p * p / 27)
		phi := math.Acos(clampF64(-q/(2*r), -1, 1))
		m := 2 * math.Cbrt(r)
		out[0] = m*math.Cos(phi/3) + shift
		out[1] = m*math.Cos((phi+2*math.Pi)/3) + shift
		out[2] = m*math.Cos((phi+4*math.Pi)/3) + shift
		return 3
	}
}

// solveQuartic finds the real roots of c4 x^4 + ... + c0, ascending order.
func solveQuartic(c4, c3, c2, c1, c0 float64, out *[4]float64) int {
	if math.Abs(c4) < rootEpsilon {
		var cub [3]float64
		n := solveCubic(c3, c2, c1, c0, &cub)
		copy(out[:], cub[:n])
		sortRoots(out[:n])
		return n
	}

	a := c3 / c4
	b := c2 / c4
	c := c1 / c4
	d := c0 / c4

	// Depressed form x = y - a/4.
	p := b - 3*a*a/8
	q := a*a*a/8 - a*b/2 + c
	r := -3*a*a*a*a/256 + a*a*b/16 - a*c/4 + d
	shift := -a / 4

	n := 0
	if math.Abs(r) < rootEpsilon {
		// y (y^3 + p y + q) = 0
		var cub [3]float64
		m := solveCubic(1, 0, p, q, &cub)
		for i := 0; i < m; i++ {
			out[n] = cub[i] + shift
			n++
		}
		out[n] = shift
		n++
	} else if math.Abs(q) < rootEpsilon {
		// Biquadratic in y^2.
		z0, z1, ok := quadF64(1, p, r)
		if !ok {
			return 0
		}
		for _, z := range [2]float64{z0, z1} {
			if z < 0 {
				continue
			}
			s := math.Sqrt(z)
			out[n] = s + shift
			n++
			out[n] = -s + shift
			n++
		}
	} else {
		// Descartes-Ferrari via the resolvent cubic.
		var cub [3]float64
		m := solveCubic(1, -p/2, -r, r*p/2-q*q/8, &cub)
		if m == 0 {
			return 0
		}
		z := cub[0]
		for i := 1; i < m; i++ {
			if cub[i] > z {
				z = cub[i]
			}
		}

		u := z*z - r
		v := 2*z - p
		if u < -rootEpsilon || v < -rootEpsilon {
			return 0
		}
		if u < 0 {
			u = 0
		}
		if v < 0 {
			v = 0
		}
		u = math.Sqrt(u)
		v = math.Sqrt(v)

		vSigned := v
		if q < 0 {
			vSigned = -v
		}
		if y0, y1, ok := quadF64(1, vSigned, z-u); ok {
			out[n] = y0 + shift
			n++
			out[n] = y1 + shift
			n++
		}
		if y0, y1, ok := quadF64(1, -vSigned, z+u); ok {
			out[n] = y0 + shift
			n++
			out[n] = y1 + shift
			n++
		}
	}

	sortRoots(out[:n])
	return n
}

func quadF64(a, b, c float64) (t0, t1 float64, ok bool) {
	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, 0, false
	}
	sq := math.Sqrt(disc)
	q := -0.5 * (b + math.Copysign(sq, b))
	if a == 0 || q == 0 {
		return 0, 0, false
	}
	t0 = q / a
	t1 = c / q
	if t0 > t1 {
		t0, t1 = t1, t0
	}
	return t0, t1, true
}

func sortRoots(roots []float64) {
	for i := 1; i < len(roots); i++ {
		for j := i; j > 0 && roots[j] < roots[j-1]; j-- {
			roots[j], roots[j-1] = roots[j-1], roots[j]
		}
	}
}

func clampF64(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
