package tracer

import (
	"github.com/chewxy/math32"
	"github.com/helios-render/helios/types"
)

const (
	pi     float32 = math32.Pi
	twoPi  float32 = 2 * math32.Pi
	invPi  float32 = 1 / math32.Pi
	inv2Pi float32 = 1 / (2 * math32.Pi)
	inv4Pi float32 = 1 / (4 * math32.Pi)
)

// makeBasis builds an orthonormal basis with W = n.
func makeBasis(n types.Vec3) Basis {
	var up types.Vec3
	if math32.Abs(n[0]) > 0.1 {
		up = types.Vec3{0, 1, 0}
	} else {
		up = types.Vec3{1, 0, 0}
	}
	u := up.Cross(n).Normalize()
	return Basis{U: u, V: n.Cross(u), W: n}
}

// sampleCosineHemisphere returns a cosine-weighted local direction around +Z.
func sampleCosineHemisphere(u1, u2 float32) types.Vec3 {
	phi := twoPi * u1
	r := math32.Sqrt(u2)
	return types.Vec3{
		r * math32.Cos(phi),
		r * math32.Sin(phi),
		math32.Sqrt(1 - u2),
	}
}

// sampleConcentricDisk maps a unit square sample onto the unit disk without
// rejection.
func sampleConcentricDisk(u1, u2 float32) types.Vec2 {
	ox := 2*u1 - 1
	oy := 2*u2 - 1
	if ox == 0 && oy == 0 {
		return types.Vec2{}
	}

	var theta, r float32
	if math32.Abs(ox) > math32.Abs(oy) {
		r = ox
		theta = pi / 4 * (oy / ox)
	} else {
		r = oy
		theta = pi/2 - pi/4*(ox/oy)
	}
	return types.Vec2{r * math32.Cos(theta), r * math32.Sin(theta)}
}

// sampleUniformSphere returns a uniform direction on the unit sphere.
func sampleUniformSphere(u1, u2 float32) types.Vec3 {
	z := 1 - 2*u1
	r := math32.Sqrt(math32.Max(0, 1-z*z))
	phi := twoPi * u2
	return types.Vec3{r * math32.Cos(phi), r * math32.Sin(phi), z}
}

// samplePowerCosineHemisphere importance-samples the Blinn half-vector lobe
// cos^e theta around +Z.
func samplePowerCosineHemisphere(u1, u2, exponent float32) types.Vec3 {
	cosTheta := math32.Pow(u1, 1/(exponent+1))
	sinTheta := math32.Sqrt(math32.Max(0, 1-cosTheta*cosTheta))
	phi := twoPi * u2
	return types.Vec3{
		sinTheta * math32.Cos(phi),
		sinTheta * math32.Sin(phi),
		cosTheta,
	}
}

// balanceHeuristic computes the squared balance weight p^2/(p^2+q^2) used to
// combine the light-sampling and BSDF-sampling strategies.
func balanceHeuristic(p, q float32) float32 {
	p2 := p * p
	q2 := q * q
	den := p2 + q2
	if den <= 0 {
		return 0
	}
	return p2 / den
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// positiveMod wraps v into [0, n).
func positiveMod(v, n float32) float32 {
	out := math32.Mod(v, n)
	if out < 0 {
		out += n
	}
	return out
}
