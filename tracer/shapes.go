package tracer

import (
	"math"

	"github.com/chewxy/math32"
	"github.com/helios-render/helios/scene"
	"github.com/helios-render/helios/types"
)

// Per-shape analytic intersection routines. Rays arrive in object space with
// an unnormalized direction; every routine returns the parametric distance of
// the first hit inside (TMin, TMax), or -1 on a miss. The matching *Surface
// routine rebuilds the full intersection record for a known hit distance.

// --- sphere ---

func sphereIntersect(data []float32, r *Ray) float32 {
	center := vec3At(data, scene.SphereCenter)
	radius := data[scene.SphereRadius]

	oc := r.Origin.Sub(center)
	a := r.Dir.Dot(r.Dir)
	b := 2 * oc.Dot(r.Dir)
	c := oc.Dot(oc) - radius*radius

	t0, t1, ok := solveQuadratic(a, b, c)
	if !ok {
		return -1
	}
	if t0 > r.TMin && t0 < r.TMax {
		return t0
	}
	if t1 > r.TMin && t1 < r.TMax {
		return t1
	}
	return -1
}

func sphereSurface(data []float32, r *Ray, t float32, out *Intersection) {
	center := vec3At(data, scene.SphereCenter)
	radius := data[scene.SphereRadius]

	p := r.At(t)
	n := p.Sub(center).Mul(1 / radius).Normalize()

	phi := math32.Atan2(n[1], n[0])
	if phi < 0 {
		phi += twoPi
	}
	theta := math32.Acos(clamp(n[2], -1, 1))

	out.Point = p
	out.UV = types.Vec2{phi * inv2Pi, theta * invPi}

	// dPdu direction; degenerates at the poles.
	u := types.Vec3{-n[1], n[0], 0}
	if u.Len() < 1e-6 {
		out.Geometric = makeBasis(n)
	} else {
		u = u.Normalize()
		out.Geometric = Basis{U: u, V: n.Cross(u), W: n}
	}
	out.Shading = out.Geometric
}

// --- plane ---

func planeIntersect(data []float32, r *Ray) float32 {
	a := vec3At(data, scene.PlaneA)
	b := vec3At(data, scene.PlaneB)
	c := vec3At(data, scene.PlaneC)

	n := b.Sub(a).Cross(c.Sub(a))
	den := r.Dir.Dot(n)
	if math32.Abs(den) < 1e-9 {
		return -1
	}
	t := a.Sub(r.Origin).Dot(n) / den
	if t > r.TMin && t < r.TMax {
		return t
	}
	return -1
}

func planeSurface(data []float32, r *Ray, t float32, out *Intersection) {
	a := vec3At(data, scene.PlaneA)
	b := vec3At(data, scene.PlaneB)
	c := vec3At(data, scene.PlaneC)

	n := b.Sub(a).Cross(c.Sub(a)).Normalize()
	e1 := b.Sub(a).Normalize()
	e2 := n.Cross(e1)

	p := r.At(t)
	rel := p.Sub(a)

	out.Point = p
	out.UV = types.Vec2{rel.Dot(e1), rel.Dot(e2)}
	out.Geometric = Basis{U: e1, V: e2, W: n}
	out.Shading = out.Geometric
}

// --- triangle ---

// triangleHit is the Moller-Trumbore test shared by the single-triangle and
// mesh shapes. Returns t plus the barycentric coordinates.
func triangleHit(data []float32, r *Ray) (t, bu, bv float32, ok bool) {
	pa := vec3At(data, scene.TrianglePositionA)
	pb := vec3At(data, scene.TrianglePositionB)
	pc := vec3At(data, scene.TrianglePositionC)

	e1 := pb.Sub(pa)
	e2 := pc.Sub(pa)
	pvec := r.Dir.Cross(e2)
	det := e1.Dot(pvec)
	if math32.Abs(det) < 1e-9 {
		return 0, 0, 0, false
	}
	inv := 1 / det
	tvec := r.Origin.Sub(pa)
	bu = tvec.Dot(pvec) * inv
	if bu < 0 || bu > 1 {
		return 0, 0, 0, false
	}
	qvec := tvec.Cross(e1)
	bv = r.Dir.Dot(qvec) * inv
	if bv < 0 || bu+bv > 1 {
		return 0, 0, 0, false
	}
	return e2.Dot(qvec) * inv, bu, bv, true
}

func triangleIntersect(data []float32, r *Ray) float32 {
	t, _, _, ok := triangleHit(data, r)
	if !ok || t <= r.TMin || t >= r.TMax {
		return -1
	}
	return t
}

func triangleSurface(data []float32, r *Ray, t float32, out *Intersection) {
	_, bu, bv, _ := triangleHit(data, r)
	bw := 1 - bu - bv

	pa := vec3At(data, scene.TrianglePositionA)
	pb := vec3At(data, scene.TrianglePositionB)
	pc := vec3At(data, scene.TrianglePositionC)
	na := vec3At(data, scene.TriangleNormalA)
	nb := vec3At(data, scene.TriangleNormalB)
	nc := vec3At(data, scene.TriangleNormalC)

	e1 := pb.Sub(pa)
	e2 := pc.Sub(pa)
	ng := e1.Cross(e2).Normalize()
	ns := na.Mul(bw).Add(nb.Mul(bu)).Add(nc.Mul(bv))
	if ns.Len() < 1e-6 {
		ns = ng
	} else {
		ns = ns.Normalize()
	}

	out.Point = r.At(t)
	out.UV = types.Vec2{
		data[scene.TriangleUVA]*bw + data[scene.TriangleUVB]*bu + data[scene.TriangleUVC]*bv,
		data[scene.TriangleUVA+1]*bw + data[scene.TriangleUVB+1]*bu + data[scene.TriangleUVC+1]*bv,
	}

	u := e1.Normalize()
	out.Geometric = Basis{U: u, V: ng.Cross(u), W: ng}

	us := e1.Sub(ns.Mul(e1.Dot(ns)))
	if us.Len() < 1e-6 {
		out.Shading = makeBasis(ns)
	} else {
		us = us.Normalize()
		out.Shading = Basis{U: us, V: ns.Cross(us), W: ns}
	}
}

// --- triangle mesh ---

func meshIntersect(data []float32, r *Ray) float32 {
	count := int(data[scene.MeshTriangleCount])
	best := float32(-1)
	for i := 0; i < count; i++ {
		tri := data[scene.MeshFirstTriangle+i*scene.TriangleSize:]
		t, _, _, ok := triangleHit(tri, r)
		if ok && t > r.TMin && t < r.TMax && (best < 0 || t < best) {
			best = t
		}
	}
	return best
}

func meshSurface(data []float32, r *Ray, t float32, out *Intersection) {
	count := int(data[scene.MeshTriangleCount])
	bestIdx := -1
	bestDelta := float32(math.MaxFloat32)
	for i := 0; i < count; i++ {
		tri := data[scene.MeshFirstTriangle+i*scene.TriangleSize:]
		ht, _, _, ok := triangleHit(tri, r)
		if !ok {
			continue
		}
		delta := math32.Abs(ht - t)
		if delta < bestDelta {
			bestDelta = delta
			bestIdx = i
		}
	}
	if bestIdx < 0 {
		return
	}
	triangleSurface(data[scene.MeshFirstTriangle+bestIdx*scene.TriangleSize:], r, t, out)
}

// --- rectangle ---

func rectangleIntersect(data []float32, r *Ray) float32 {
	origin := vec3At(data, scene.RectangleOrigin)
	sideA := vec3At(data, scene.RectangleSideA)
	sideB := vec3At(data, scene.RectangleSideB)

	n := sideA.Cross(sideB)
	den := r.Dir.Dot(n)
	if math32.Abs(den) < 1e-9 {
		return -1
	}
	t := origin.Sub(r.Origin).Dot(n) / den
	if t <= r.TMin || t >= r.TMax {
		return -1
	}

	rel := r.At(t).Sub(origin)
	u := rel.Dot(sideA) / sideA.Dot(sideA)
	v := rel.Dot(sideB) / sideB.Dot(sideB)
	if u < 0 || u > 1 || v < 0 || v > 1 {
		return -1
	}
	return t
}

func rectangleSurface(data []float32, r *Ray, t float32, out *Intersection) {
	origin := vec3At(data, scene.RectangleOrigin)
	sideA := vec3At(data, scene.RectangleSideA)
	sideB := vec3At(data, scene.RectangleSideB)

	n := sideA.Cross(sideB).Normalize()
	p := r.At(t)
	rel := p.Sub(origin)

	out.Point = p
	out.UV = types.Vec2{
		rel.Dot(sideA) / sideA.Dot(sideA),
		rel.Dot(sideB) / sideB.Dot(sideB),
	}
	u := sideA.Normalize()
	out.Geometric = Basis{U: u, V: n.Cross(u), W: n}
	out.Shading = out.Geometric
}

// --- rectangular cuboid ---

func cuboidSlab(data []float32, r *Ray) (tNear, tFar float32, ok bool) {
	min := vec3At(data, scene.CuboidMin)
	max := vec3At(data, scene.CuboidMax)

	tNear = float32(math.Inf(-1))
	tFar = float32(math.Inf(1))
	for axis := 0; axis < 3; axis++ {
		d := r.Dir[axis]
		o := r.Origin[axis]
		if math32.Abs(d) < 1e-12 {
			if o < min[axis] || o > max[axis] {
				return 0, 0, false
			}
			continue
		}
		inv := 1 / d
		t0 := (min[axis] - o) * inv
		t1 := (max[axis] - o) * inv
		if t0 > t1 {
			t0, t1 = t1, t0
		}
		if t0 > tNear {
			tNear = t0
		}
		if t1 < tFar {
			tFar = t1
		}
		if tNear > tFar {
			return 0, 0, false
		}
	}
	return tNear, tFar, true
}

func cuboidIntersect(data []float32, r *Ray) float32 {
	tNear, tFar, ok := cuboidSlab(data, r)
	if !ok {
		return -1
	}
	if tNear > r.TMin && tNear < r.TMax {
		return tNear
	}
	if tFar > r.TMin && tFar < r.TMax {
		return tFar
	}
	return -1
}

func cuboidSurface(data []float32, r *Ray, t float32, out *Intersection) {
	min := vec3At(data, scene.CuboidMin)
	max := vec3At(data, scene.CuboidMax)
	mid := min.Add(max).Mul(0.5)
	half := max.Sub(min).Mul(0.5)

	p := r.At(t)
	rel := p.Sub(mid)

	// The face is the axis where the hit point sits closest to the surface.
	axis := 0
	bestRatio := float32(-1)
	for i := 0; i < 3; i++ {
		if half[i] <= 0 {
			continue
		}
		ratio := math32.Abs(rel[i]) / half[i]
		if ratio > bestRatio {
			bestRatio = ratio
			axis = i
		}
	}

	var n types.Vec3
	if rel[axis] >= 0 {
		n[axis] = 1
	} else {
		n[axis] = -1
	}

	a1 := (axis + 1) % 3
	a2 := (axis + 2) % 3
	out.Point = p
	out.UV = types.Vec2{
		(p[a1] - min[a1]) / (max[a1] - min[a1]),
		(p[a2] - min[a2]) / (max[a2] - min[a2]),
	}

	var u types.Vec3
	u[a1] = 1
	out.Geometric = Basis{U: u, V: n.Cross(u), W: n}
	out.Shading = out.Geometric
}

// --- disk ---

func diskIntersect(data []float32, r *Ray) float32 {
	if math32.Abs(r.Dir[2]) < 1e-9 {
		return -1
	}
	t := (data[scene.DiskZMax] - r.Origin[2]) / r.Dir[2]
	if t <= r.TMin || t >= r.TMax {
		return -1
	}
	p := r.At(t)
	distSq := p[0]*p[0] + p[1]*p[1]
	inner := data[scene.DiskRadiusInner]
	outer := data[scene.DiskRadiusOuter]
	if distSq > outer*outer || distSq < inner*inner {
		return -1
	}
	phi := math32.Atan2(p[1], p[0])
	if phi < 0 {
		phi += twoPi
	}
	if phi > data[scene.DiskPhiMax] {
		return -1
	}
	return t
}

func diskSurface(data []float32, r *Ray, t float32, out *Intersection) {
	p := r.At(t)
	dist := math32.Sqrt(p[0]*p[0] + p[1]*p[1])
	inner := data[scene.DiskRadiusInner]
	outer := data[scene.DiskRadiusOuter]

	phi := math32.Atan2(p[1], p[0])
	if phi < 0 {
		phi += twoPi
	}

	out.Point = p
	v := float32(0)
	if outer > inner {
		v = (outer - dist) / (outer - inner)
	}
	out.UV = types.Vec2{phi / data[scene.DiskPhiMax], v}

	n := types.Vec3{0, 0, 1}
	u := types.Vec3{-p[1], p[0], 0}
	if u.Len() < 1e-6 {
		out.Geometric = makeBasis(n)
	} else {
		u = u.Normalize()
		out.Geometric = Basis{U: u, V: n.Cross(u), W: n}
	}
	out.Shading = out.Geometric
}

// --- cone ---

func coneIntersect(data []float32, r *Ray) float32 {
	radius := data[scene.ConeRadius]
	zMax := data[scene.ConeZMax]
	phiMax := data[scene.ConePhiMax]
	k := (radius / zMax) * (radius / zMax)

	ox, oy, oz := r.Origin[0], r.Origin[1], r.Origin[2]
	dx, dy, dz := r.Dir[0], r.Dir[1], r.Dir[2]

	a := dx*dx + dy*dy - k*dz*dz
	b := 2 * (ox*dx + oy*dy - k*dz*(oz-zMax))
	c := ox*ox + oy*oy - k*(oz-zMax)*(oz-zMax)

	t0, t1, ok := solveQuadratic(a, b, c)
	if !ok {
		return -1
	}
	for _, t := range [2]float32{t0, t1} {
		if t <= r.TMin || t >= r.TMax {
			continue
		}
		p := r.At(t)
		if p[2] < 0 || p[2] > zMax {
			continue
		}
		phi := math32.Atan2(p[1], p[0])
		if phi < 0 {
			phi += twoPi
		}
		if phi > phiMax {
			continue
		}
		return t
	}
	return -1
}

func coneSurface(data []float32, r *Ray, t float32, out *Intersection) {
	zMax := data[scene.ConeZMax]
	phiMax := data[scene.ConePhiMax]

	p := r.At(t)
	phi := math32.Atan2(p[1], p[0])
	if phi < 0 {
		phi += twoPi
	}
	v := p[2] / zMax

	out.Point = p
	out.UV = types.Vec2{phi / phiMax, v}

	dpdu := types.Vec3{-p[1], p[0], 0}
	oneMinusV := 1 - v
	if oneMinusV < 1e-6 {
		oneMinusV = 1e-6
	}
	dpdv := types.Vec3{-p[0] / oneMinusV, -p[1] / oneMinusV, zMax}
	quadricBasis(dpdu, dpdv, out)
}

// --- cylinder ---

func cylinderIntersect(data []float32, r *Ray) float32 {
	radius := data[scene.CylinderRadius]
	zMin := data[scene.CylinderZMin]
	zMax := data[scene.CylinderZMax]
	phiMax := data[scene.CylinderPhiMax]

	ox, oy := r.Origin[0], r.Origin[1]
	dx, dy := r.Dir[0], r.Dir[1]

	a := dx*dx + dy*dy
	b := 2 * (ox*dx + oy*dy)
	c := ox*ox + oy*oy - radius*radius

	t0, t1, ok := solveQuadratic(a, b, c)
	if !ok {
		return -1
	}
	for _, t := range [2]float32{t0, t1} {
		if t <= r.TMin || t >= r.TMax {
			continue
		}
		p := r.At(t)
		if p[2] < zMin || p[2] > zMax {
			continue
		}
		phi := math32.Atan2(p[1], p[0])
		if phi < 0 {
			phi += twoPi
		}
		if phi > phiMax {
			continue
		}
		return t
	}
	return -1
}

func cylinderSurface(data []float32, r *Ray, t float32, out *Intersection) {
	zMin := data[scene.CylinderZMin]
	zMax := data[scene.CylinderZMax]
	phiMax := data[scene.CylinderPhiMax]

	p := r.At(t)
	phi := math32.Atan2(p[1], p[0])
	if phi < 0 {
		phi += twoPi
	}

	out.Point = p
	out.UV = types.Vec2{phi / phiMax, (p[2] - zMin) / (zMax - zMin)}

	n := types.Vec3{p[0], p[1], 0}.Normalize()
	u := types.Vec3{-p[1], p[0], 0}.Normalize()
	out.Geometric = Basis{U: u, V: n.Cross(u), W: n}
	out.Shading = out.Geometric
}

// --- paraboloid ---

func paraboloidIntersect(data []float32, r *Ray) float32 {
	radius := data[scene.ParaboloidRadius]
	zMin := data[scene.ParaboloidZMin]
	zMax := data[scene.ParaboloidZMax]
	phiMax := data[scene.ParaboloidPhiMax]
	k := zMax / (radius * radius)

	ox, oy, oz := r.Origin[0], r.Origin[1], r.Origin[2]
	dx, dy, dz := r.Dir[0], r.Dir[1], r.Dir[2]

	a := k * (dx*dx + dy*dy)
	b := 2*k*(ox*dx+oy*dy) - dz
	c := k*(ox*ox+oy*oy) - oz

	t0, t1, ok := solveQuadratic(a, b, c)
	if !ok {
		return -1
	}
	for _, t := range [2]float32{t0, t1} {
		if t <= r.TMin || t >= r.TMax {
			continue
		}
		p := r.At(t)
		if p[2] < zMin || p[2] > zMax {
			continue
		}
		phi := math32.Atan2(p[1], p[0])
		if phi < 0 {
			phi += twoPi
		}
		if phi > phiMax {
			continue
		}
		return t
	}
	return -1
}

func paraboloidSurface(data []float32, r *Ray, t float32, out *Intersection) {
	zMin := data[scene.ParaboloidZMin]
	zMax := data[scene.ParaboloidZMax]
	phiMax := data[scene.ParaboloidPhiMax]

	p := r.At(t)
	phi := math32.Atan2(p[1], p[0])
	if phi < 0 {
		phi += twoPi
	}

	out.Point = p
	out.UV = types.Vec2{phi / phiMax, (p[2] - zMin) / (zMax - zMin)}

	z := p[2]
	if math32.Abs(z) < 1e-6 {
		z = 1e-6
	}
	dpdu := types.Vec3{-p[1], p[0], 0}
	dpdv := types.Vec3{p[0] / (2 * z), p[1] / (2 * z), 1}
	quadricBasis(dpdu, dpdv, out)
}

// --- hyperboloid ---

func hyperboloidIntersect(data []float32, r *Ray) float32 {
	ah := data[scene.HyperboloidAH]
	ch := data[scene.HyperboloidCH]
	zMin := data[scene.HyperboloidZMin]
	zMax := data[scene.HyperboloidZMax]
	phiMax := data[scene.HyperboloidPhiMax]

	ox, oy, oz := r.Origin[0], r.Origin[1], r.Origin[2]
	dx, dy, dz := r.Dir[0], r.Dir[1], r.Dir[2]

	a := ah*(dx*dx+dy*dy) - ch*dz*dz
	b := 2 * (ah*(ox*dx+oy*dy) - ch*oz*dz)
	c := ah*(ox*ox+oy*oy) - ch*oz*oz - 1

	t0, t1, ok := solveQuadratic(a, b, c)
	if !ok {
		return -1
	}
	for _, t := range [2]float32{t0, t1} {
		if t <= r.TMin || t >= r.TMax {
			continue
		}
		p := r.At(t)
		if p[2] < zMin || p[2] > zMax {
			continue
		}
		phi := math32.Atan2(p[1], p[0])
		if phi < 0 {
			phi += twoPi
		}
		if phi > phiMax {
			continue
		}
		return t
	}
	return -1
}

func hyperboloidSurface(data []float32, r *Ray, t float32, out *Intersection) {
	ah := data[scene.HyperboloidAH]
	ch := data[scene.HyperboloidCH]
	zMin := data[scene.HyperboloidZMin]
	zMax := data[scene.HyperboloidZMax]
	phiMax := data[scene.HyperboloidPhiMax]

	p := r.At(t)
	phi := math32.Atan2(p[1], p[0])
	if phi < 0 {
		phi += twoPi
	}

	out.Point = p
	out.UV = types.Vec2{phi / phiMax, (p[2] - zMin) / (zMax - zMin)}

	// Implicit surface gradient.
	n := types.Vec3{2 * ah * p[0], 2 * ah * p[1], -2 * ch * p[2]}.Normalize()
	u := types.Vec3{-p[1], p[0], 0}
	if u.Len() < 1e-6 {
		out.Geometric = makeBasis(n)
	} else {
		u = u.Normalize()
		out.Geometric = Basis{U: u, V: n.Cross(u), W: n}
	}
	out.Shading = out.Geometric
}

// --- torus ---

func torusIntersect(data []float32, r *Ray) float32 {
	tube := float64(data[scene.TorusRadiusInner])
	ring := float64(data[scene.TorusRadiusOuter])

	ox, oy, oz := float64(r.Origin[0]), float64(r.Origin[1]), float64(r.Origin[2])
	dx, dy, dz := float64(r.Dir[0]), float64(r.Dir[1]), float64(r.Dir[2])

	m := dx*dx + dy*dy + dz*dz
	n := ox*dx + oy*dy + oz*dz
	k := ox*ox + oy*oy + oz*oz + ring*ring - tube*tube
	r2 := ring * ring

	c4 := m * m
	c3 := 4 * m * n
	c2 := 2*m*k + 4*n*n - 4*r2*(dx*dx+dy*dy)
	c1 := 4*n*k - 8*r2*(ox*dx+oy*dy)
	c0 := k*k - 4*r2*(ox*ox+oy*oy)

	var roots [4]float64
	count := solveQuartic(c4, c3, c2, c1, c0, &roots)

	best := float32(-1)
	for i := 0; i < count; i++ {
		t := float32(roots[i])
		if t > r.TMin && t < r.TMax && (best < 0 || t < best) {
			best = t
		}
	}
	return best
}

func torusSurface(data []float32, r *Ray, t float32, out *Intersection) {
	tube := data[scene.TorusRadiusInner]
	ring := data[scene.TorusRadiusOuter]

	p := r.At(t)
	k := p.Dot(p) + ring*ring - tube*tube

	// Gradient of the implicit quartic.
	n := types.Vec3{
		p[0]*k - 2*ring*ring*p[0],
		p[1]*k - 2*ring*ring*p[1],
		p[2] * k,
	}.Normalize()

	phi := math32.Atan2(p[1], p[0])
	if phi < 0 {
		phi += twoPi
	}
	ringDist := math32.Sqrt(p[0]*p[0]+p[1]*p[1]) - ring
	theta := math32.Atan2(p[2], ringDist)
	if theta < 0 {
		theta += twoPi
	}

	out.Point = p
	out.UV = types.Vec2{phi * inv2Pi, theta * inv2Pi}

	u := types.Vec3{-p[1], p[0], 0}
	if u.Len() < 1e-6 {
		out.Geometric = makeBasis(n)
	} else {
		u = u.Normalize()
		v := n.Cross(u)
		out.Geometric = Basis{U: u, V: v, W: n}
	}
	out.Shading = out.Geometric
}

// --- polygon ---

func polygonIntersect(data []float32, r *Ray) float32 {
	n := int(data[scene.PolygonVertexCount])
	if n < 3 {
		return -1
	}
	v0 := vec3At(data, scene.PolygonFirstVertex)
	v1 := vec3At(data, scene.PolygonFirstVertex+3)
	v2 := vec3At(data, scene.PolygonFirstVertex+6)

	normal := v1.Sub(v0).Cross(v2.Sub(v0))
	den := r.Dir.Dot(normal)
	if math32.Abs(den) < 1e-9 {
		return -1
	}
	t := v0.Sub(r.Origin).Dot(normal) / den
	if t <= r.TMin || t >= r.TMax {
		return -1
	}

	nrm := normal.Normalize()
	e1 := v1.Sub(v0).Normalize()
	e2 := nrm.Cross(e1)

	p := r.At(t).Sub(v0)
	px := p.Dot(e1)
	py := p.Dot(e2)

	if !pointInPolygon(data, n, e1, e2, v0, px, py) {
		return -1
	}
	return t
}

// pointInPolygon runs the crossing test in the polygon's 2D plane basis.
func pointInPolygon(data []float32, n int, e1, e2, v0 types.Vec3, px, py float32) bool {
	inside := false
	jx, jy := polyVert2D(data, n-1, e1, e2, v0)
	for i := 0; i < n; i++ {
		ix, iy := polyVert2D(data, i, e1, e2, v0)
		if (iy > py) != (jy > py) &&
			px < (jx-ix)*(py-iy)/(jy-iy)+ix {
			inside = !inside
		}
		jx, jy = ix, iy
	}
	return inside
}

func polyVert2D(data []float32, i int, e1, e2, v0 types.Vec3) (float32, float32) {
	v := vec3At(data, scene.PolygonFirstVertex+int32(i)*3).Sub(v0)
	return v.Dot(e1), v.Dot(e2)
}

func polygonSurface(data []float32, r *Ray, t float32, out *Intersection) {
	v0 := vec3At(data, scene.PolygonFirstVertex)
	v1 := vec3At(data, scene.PolygonFirstVertex+3)
	v2 := vec3At(data, scene.PolygonFirstVertex+6)

	n := v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
	e1 := v1.Sub(v0).Normalize()
	e2 := n.Cross(e1)

	p := r.At(t)
	rel := p.Sub(v0)

	out.Point = p
	out.UV = types.Vec2{rel.Dot(e1), rel.Dot(e2)}
	out.Geometric = Basis{U: e1, V: e2, W: n}
	out.Shading = out.Geometric
}

// quadricBasis derives the intersection bases from partial derivatives.
func quadricBasis(dpdu, dpdv types.Vec3, out *Intersection) {
	n := dpdu.Cross(dpdv).Normalize()
	if dpdu.Len() < 1e-6 {
		out.Geometric = makeBasis(n)
	} else {
		u := dpdu.Normalize()
		out.Geometric = Basis{U: u, V: n.Cross(u), W: n}
	}
	out.Shading = out.Geometric
}
