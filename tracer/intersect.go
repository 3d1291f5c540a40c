package tracer

import (
	"github.com/chewxy/math32"
	"github.com/helios-render/helios/scene"
	"github.com/helios-render/helios/types"
)

// IntersectClosest scans every primitive of the compiled scene and fills out
// with the nearest hit inside the ray's [TMin, TMax] interval. The ray's
// TMax is tightened as closer hits are found so that later primitives are
// culled cheaply; full surface data is only recomputed for the winning
// primitive at the end.
func (ctx *Context) IntersectClosest(r *Ray, out *Intersection) bool {
	closest := int32(-1)

	for i := range ctx.sc.Primitives {
		prim := &ctx.sc.Primitives[i]
		if !ctx.boundsHit(prim, r) {
			continue
		}

		tr := &ctx.sc.Transforms[prim.TransformIndex]
		r.ToObject(tr)
		t := ctx.shapeIntersect(prim, r)
		r.ToWorld(tr)

		if t > r.TMin && t < r.TMax {
			r.TMax = t
			closest = int32(i)
		}
	}

	if closest < 0 {
		return false
	}

	ctx.computeSurface(closest, r, r.TMax, out)
	return true
}

// IntersectAny reports whether anything blocks the ray. It short-circuits on
// the first valid hit and computes no surface data; occlusion tests use this
// shape, closest-hit queries use IntersectClosest.
func (ctx *Context) IntersectAny(r *Ray) bool {
	for i := range ctx.sc.Primitives {
		prim := &ctx.sc.Primitives[i]
		if !ctx.boundsHit(prim, r) {
			continue
		}

		tr := &ctx.sc.Transforms[prim.TransformIndex]
		r.ToObject(tr)
		t := ctx.shapeIntersect(prim, r)
		r.ToWorld(tr)

		if t > r.TMin && t < r.TMax {
			return true
		}
	}
	return false
}

// boundsHit culls the ray against the primitive's bounding volume in world
// space. Invariant: the infinite kind is tested first and unconditionally
// hits, so it can never be shadowed by the box/sphere branches.
func (ctx *Context) boundsHit(prim *scene.Primitive, r *Ray) bool {
	switch prim.Bounds.Kind {
	case scene.BoundsInfinite:
		return true

	case scene.BoundsBox:
		data := ctx.sc.BoundsData[scene.BoundsBox][prim.Bounds.Offset:]
		return boxHit(
			vec3At(data, scene.BoundsBoxMin),
			vec3At(data, scene.BoundsBoxMax),
			r)

	case scene.BoundsSphere:
		data := ctx.sc.BoundsData[scene.BoundsSphere][prim.Bounds.Offset:]
		center := vec3At(data, scene.BoundsSphereCenter)
		radius := data[scene.BoundsSphereRadius]

		oc := r.Origin.Sub(center)
		a := r.Dir.Dot(r.Dir)
		b := 2 * oc.Dot(r.Dir)
		c := oc.Dot(oc) - radius*radius
		t0, t1, ok := solveQuadratic(a, b, c)
		if !ok {
			return false
		}
		// Inside the sphere counts as a hit.
		return t0 < r.TMax && t1 > r.TMin
	}
	return false
}

// boxHit is the slab test against the ray's current validity interval.
func boxHit(min, max types.Vec3, r *Ray) bool {
	tNear := r.TMin
	tFar := r.TMax
	for axis := 0; axis < 3; axis++ {
		d := r.Dir[axis]
		o := r.Origin[axis]
		if math32.Abs(d) < 1e-12 {
			if o < min[axis] || o > max[axis] {
				return false
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
			return false
		}
	}
	return true
}

// shapeIntersect dispatches on the primitive's shape kind and returns the
// object-space parametric distance, or -1 on a miss. The ray is already in
// object space. Unknown kinds are treated as a miss; a compiled scene from a
// newer compiler must not crash an older tracer.
func (ctx *Context) shapeIntersect(prim *scene.Primitive, r *Ray) float32 {
	data := ctx.sc.ShapeData[prim.Shape.Kind][prim.Shape.Offset:]

	switch prim.Shape.Kind {
	case scene.ShapeCone:
		return coneIntersect(data, r)
	case scene.ShapeCylinder:
		return cylinderIntersect(data, r)
	case scene.ShapeDisk:
		return diskIntersect(data, r)
	case scene.ShapeHyperboloid:
		return hyperboloidIntersect(data, r)
	case scene.ShapeParaboloid:
		return paraboloidIntersect(data, r)
	case scene.ShapePlane:
		return planeIntersect(data, r)
	case scene.ShapePolygon:
		return polygonIntersect(data, r)
	case scene.ShapeRectangle:
		return rectangleIntersect(data, r)
	case scene.ShapeCuboid:
		return cuboidIntersect(data, r)
	case scene.ShapeSphere:
		return sphereIntersect(data, r)
	case scene.ShapeTorus:
		return torusIntersect(data, r)
	case scene.ShapeTriangle:
		return triangleIntersect(data, r)
	case scene.ShapeTriangleMesh:
		return meshIntersect(data, r)
	}
	return -1
}

// computeSurface rebuilds full surface data for the winning primitive and
// transforms it back to world space: points with the homogeneous divide,
// bases with the inverse-transpose rule.
func (ctx *Context) computeSurface(primIndex int32, r *Ray, t float32, out *Intersection) {
	prim := &ctx.sc.Primitives[primIndex]
	tr := &ctx.sc.Transforms[prim.TransformIndex]
	data := ctx.sc.ShapeData[prim.Shape.Kind][prim.Shape.Offset:]

	r.ToObject(tr)
	out.Primitive = primIndex
	out.T = t

	switch prim.Shape.Kind {
	case scene.ShapeCone:
		coneSurface(data, r, t, out)
	case scene.ShapeCylinder:
		cylinderSurface(data, r, t, out)
	case scene.ShapeDisk:
		diskSurface(data, r, t, out)
	case scene.ShapeHyperboloid:
		hyperboloidSurface(data, r, t, out)
	case scene.ShapeParaboloid:
		paraboloidSurface(data, r, t, out)
	case scene.ShapePlane:
		planeSurface(data, r, t, out)
	case scene.ShapePolygon:
		polygonSurface(data, r, t, out)
	case scene.ShapeRectangle:
		rectangleSurface(data, r, t, out)
	case scene.ShapeCuboid:
		cuboidSurface(data, r, t, out)
	case scene.ShapeSphere:
		sphereSurface(data, r, t, out)
	case scene.ShapeTorus:
		torusSurface(data, r, t, out)
	case scene.ShapeTriangle:
		triangleSurface(data, r, t, out)
	case scene.ShapeTriangleMesh:
		meshSurface(data, r, t, out)
	}
	r.ToWorld(tr)

	out.Point = tr.ObjectToWorld.MulPoint(out.Point)
	out.Geometric = transformBasis(out.Geometric, tr)
	out.Shading = transformBasis(out.Shading, tr)
}

func transformBasis(b Basis, tr *scene.Transform) Basis {
	// MulNormal applies the transpose; combined with the world-to-object
	// matrix this is the inverse-transpose of object-to-world.
	w := tr.WorldToObject.MulNormal(b.W).Normalize()
	u := tr.WorldToObject.MulNormal(b.U).Normalize()
	v := w.Cross(u)
	if v.Len() < 1e-6 {
		return makeBasis(w)
	}
	v = v.Normalize()
	u = v.Cross(w)
	return Basis{U: u, V: v, W: w}
}

// solveQuadratic returns both roots of ax^2+bx+c = 0 in ascending order.
func solveQuadratic(a, b, c float32) (t0, t1 float32, ok bool) {
	disc := float64(b)*float64(b) - 4*float64(a)*float64(c)
	if disc < 0 {
		return 0, 0, false
	}
	rootDisc := math32.Sqrt(float32(disc))
	var q float32
	if b < 0 {
		q = -0.5 * (b - rootDisc)
	} else {
		q = -0.5 * (b + rootDisc)
	}
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
