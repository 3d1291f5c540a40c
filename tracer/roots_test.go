package tracer

import (
	"math"
	"testing"
)

func TestSolveQuartic(t *testing.T) {
	type spec struct {
		c4, c3, c2, c1, c0 float64
		expRoots           []float64
	}
	specs := []spec{
		// (x-1)(x-2)(x-3)(x-4)
		{1, -10, 35, -50, 24, []float64{1, 2, 3, 4}},
		// (x^2-1)(x^2-4), biquadratic path
		{1, 0, -5, 0, 4, []float64{-2, -1, 1, 2}},
		// (x-1)(x-2)(x^2+1), mixed real and complex pairs
		{1, -3, 3, -3, 2, []float64{1, 2}},
		// x^4+1 has no real roots
		{1, 0, 0, 0, 1, nil},
		// degenerate cubic (x-1)(x-2)(x-3)
		{0, 1, -6, 11, -6, []float64{1, 2, 3}},
	}

	for index, s := range specs {
		var roots [4]float64
		count := solveQuartic(s.c4, s.c3, s.c2, s.c1, s.c0, &roots)
		if count != len(s.expRoots) {
			t.Fatalf("[spec %d] expected %d real roots; got %d (%v)", index, len(s.expRoots), count, roots[:count])
		}
		for i, exp := range s.expRoots {
			if math.Abs(roots[i]-exp) > 1e-6 {
				t.Fatalf("[spec %d] expected root %d to be %f; got %f", index, i, exp, roots[i])
			}
		}
	}
}

func TestSolveQuadratic(t *testing.T) {
	t0, t1, ok := solveQuadratic(1, -3, 2)
	if !ok {
		t.Fatal("expected real roots")
	}
	if math.Abs(float64(t0)-1) > 1e-5 || math.Abs(float64(t1)-2) > 1e-5 {
		t.Fatalf("expected roots 1, 2; got %f, %f", t0, t1)
	}

	if _, _, ok = solveQuadratic(1, 0, 1); ok {
		t.Fatal("expected no real roots for x^2+1")
	}
}
