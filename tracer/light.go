package tracer

import (
	"github.com/chewxy/math32"
	"github.com/helios-render/helios/scene"
	"github.com/helios-render/helios/types"
)

// Direct lighting with multiple importance sampling. One light is picked
// uniformly per estimate; both the light-sampling and the BSDF-sampling
// strategies run against it and combine through the balance heuristic. Delta
// lights (point, directional) take the light strategy alone with weight one.

// EstimateDirect computes the direct radiance arriving at the hit through one
// uniformly chosen light. The estimate is already divided by the light
// selection pdf, so callers add it to the path as is.
func (ctx *Context) EstimateDirect(isect *Intersection, outgoing types.Vec3) types.Vec3 {
	count := len(ctx.sc.LightRefs)
	if count == 0 || ctx.IsDelta(isect) {
		return types.Vec3{}
	}

	ref := ctx.sc.LightRefs[ctx.rng.Intn(count)]
	selScale := float32(count)
	delta := ref.Kind == scene.LightPoint || ref.Kind == scene.LightDirectional

	var total types.Vec3

	// Strategy 1: sample the light.
	if ctx.sampleLight(ref, isect, &ctx.light) && ctx.light.PDF > 0 && !isBlack(ctx.light.Radiance) {
		f, bsdfPDF := ctx.EvalScattering(isect, outgoing, ctx.light.Incoming)
		if !isBlack(f) && !ctx.occluded(isect, ctx.light.Incoming, ctx.light.Distance) {
			cos := math32.Abs(ctx.light.Incoming.Dot(isect.Shading.W))
			weight := float32(1)
			if !delta {
				weight = balanceHeuristic(ctx.light.PDF, bsdfPDF)
			}
			contrib := f.MulVec(ctx.light.Radiance).Mul(cos * weight / ctx.light.PDF)
			total = total.Add(contrib)
		}
	}

	// Strategy 2: sample the BSDF toward an area or environment light.
	if !delta {
		if ctx.SampleScattering(isect, outgoing, &ctx.bsdf) && !ctx.bsdf.Delta && ctx.bsdf.PDF > 0 {
			radiance, lightPDF := ctx.radianceFrom(ref, isect, ctx.bsdf.Incoming)
			if lightPDF > 0 && !isBlack(radiance) {
				weight := balanceHeuristic(ctx.bsdf.PDF, lightPDF)
				cos := math32.Abs(ctx.bsdf.Incoming.Dot(isect.Shading.W))
				f, _ := ctx.EvalScattering(isect, outgoing, ctx.bsdf.Incoming)
				contrib := f.MulVec(radiance).Mul(cos * weight / ctx.bsdf.PDF)
				total = total.Add(contrib)
			}
		}
	}

	return total.Mul(selScale)
}

// occluded probes the shadow ray against the full scene using the secondary
// intersection slot.
func (ctx *Context) occluded(isect *Intersection, dir types.Vec3, dist float32) bool {
	shadow := Ray{
		Origin: isect.Point.Add(dir.Mul(rayEpsilon)),
		Dir:    dir,
		TMin:   rayEpsilon,
		TMax:   dist - 2*rayEpsilon,
	}
	return ctx.IntersectAny(&shadow)
}

// sampleLight draws a direction toward the referenced light.
func (ctx *Context) sampleLight(ref scene.KindOffset, isect *Intersection, out *LightSample) bool {
	data := ctx.sc.LightData[ref.Kind][ref.Offset:]

	switch ref.Kind {
	case scene.LightPoint:
		pos := vec3At(data, scene.PointPosition)
		toLight := pos.Sub(isect.Point)
		distSq := toLight.Dot(toLight)
		if distSq == 0 {
			return false
		}
		dist := math32.Sqrt(distSq)
		out.Incoming = toLight.Mul(1 / dist)
		out.Point = pos
		out.Radiance = vec3At(data, scene.PointIntensity).Mul(1 / distSq)
		out.PDF = 1
		out.Distance = dist
		return true

	case scene.LightDirectional:
		dir := vec3At(data, scene.DirectionalDirection).Normalize()
		out.Incoming = dir.Neg()
		out.Point = isect.Point.Add(out.Incoming.Mul(maxRayDistance))
		out.Radiance = vec3At(data, scene.DirectionalRadiance)
		out.PDF = 1
		out.Distance = maxRayDistance
		return true

	case scene.LightArea:
		return ctx.sampleAreaLight(data, isect, out)

	case scene.LightEnvironment:
		dir := sampleUniformSphere(ctx.rng.Float32(), ctx.rng.Float32())
		out.Incoming = dir
		out.Point = isect.Point.Add(dir.Mul(maxRayDistance))
		out.Radiance = ctx.environmentLookup(data, dir)
		out.PDF = inv4Pi
		out.Distance = maxRayDistance
		return true
	}
	return false
}

// radianceFrom returns the radiance and pdf of a light along a fixed
// BSDF-sampled direction.
func (ctx *Context) radianceFrom(ref scene.KindOffset, isect *Intersection, dir types.Vec3) (types.Vec3, float32) {
	data := ctx.sc.LightData[ref.Kind][ref.Offset:]

	switch ref.Kind {
	case scene.LightArea:
		primIdx := int32(data[scene.AreaPrimitiveIndex])
		r := Ray{
			Origin: isect.Point.Add(dir.Mul(rayEpsilon)),
			Dir:    dir,
			TMin:   rayEpsilon,
			TMax:   maxRayDistance,
		}
		if !ctx.IntersectClosest(&r, &ctx.probe) || ctx.probe.Primitive != primIdx {
			return types.Vec3{}, 0
		}
		cosLight := dir.Neg().Dot(ctx.probe.Geometric.W)
		twoSided := data[scene.AreaTwoSided] != 0
		if twoSided {
			cosLight = math32.Abs(cosLight)
		}
		if cosLight <= 0 {
			return types.Vec3{}, 0
		}
		area := ctx.primitiveArea(primIdx)
		if area <= 0 {
			return types.Vec3{}, 0
		}
		distSq := ctx.probe.T * ctx.probe.T * dir.Dot(dir)
		pdf := distSq / (cosLight * area)
		return vec3At(data, scene.AreaRadiance), pdf

	case scene.LightEnvironment:
		// The environment only contributes when the sampled direction
		// escapes the scene entirely.
		if ctx.occluded(isect, dir, maxRayDistance) {
			return types.Vec3{}, 0
		}
		return ctx.environmentLookup(data, dir), inv4Pi
	}
	return types.Vec3{}, 0
}

// sampleAreaLight picks a uniform point on the emitting primitive's surface.
func (ctx *Context) sampleAreaLight(data []float32, isect *Intersection, out *LightSample) bool {
	primIdx := int32(data[scene.AreaPrimitiveIndex])
	point, normal, area, ok := ctx.samplePrimitivePoint(primIdx)
	if !ok || area <= 0 {
		return false
	}

	toLight := point.Sub(isect.Point)
	distSq := toLight.Dot(toLight)
	if distSq < 1e-8 {
		return false
	}
	dist := math32.Sqrt(distSq)
	dir := toLight.Mul(1 / dist)

	cosLight := dir.Neg().Dot(normal)
	if data[scene.AreaTwoSided] != 0 {
		cosLight = math32.Abs(cosLight)
	}
	if cosLight <= 1e-6 {
		return false
	}

	out.Incoming = dir
	out.Point = point
	out.Radiance = vec3At(data, scene.AreaRadiance)
	out.PDF = distSq / (cosLight * area)
	out.Distance = dist
	return true
}

// samplePrimitivePoint returns a uniform surface point, world normal and
// world area for shapes with direct area sampling support. Other shapes
// contribute only through BSDF sampling and path hits.
func (ctx *Context) samplePrimitivePoint(primIdx int32) (types.Vec3, types.Vec3, float32, bool) {
	prim := &ctx.sc.Primitives[primIdx]
	tr := &ctx.sc.Transforms[prim.TransformIndex]
	data := ctx.sc.ShapeData[prim.Shape.Kind][prim.Shape.Offset:]
	scale := maxAxisScale(&tr.ObjectToWorld)

	u1 := ctx.rng.Float32()
	u2 := ctx.rng.Float32()

	switch prim.Shape.Kind {
	case scene.ShapeSphere:
		center := vec3At(data, scene.SphereCenter)
		radius := data[scene.SphereRadius]
		dir := sampleUniformSphere(u1, u2)
		objPoint := center.Add(dir.Mul(radius))
		point := tr.ObjectToWorld.MulPoint(objPoint)
		normal := tr.WorldToObject.MulNormal(dir).Normalize()
		area := 4 * pi * radius * radius * scale * scale
		return point, normal, area, true

	case scene.ShapeRectangle:
		origin := vec3At(data, scene.RectangleOrigin)
		sideA := vec3At(data, scene.RectangleSideA)
		sideB := vec3At(data, scene.RectangleSideB)
		objPoint := origin.Add(sideA.Mul(u1)).Add(sideB.Mul(u2))
		objNormal := sideA.Cross(sideB)
		objArea := objNormal.Len()
		point := tr.ObjectToWorld.MulPoint(objPoint)
		normal := tr.WorldToObject.MulNormal(objNormal).Normalize()
		return point, normal, objArea * scale * scale, true

	case scene.ShapeTriangle:
		pa := vec3At(data, scene.TrianglePositionA)
		pb := vec3At(data, scene.TrianglePositionB)
		pc := vec3At(data, scene.TrianglePositionC)
		su := math32.Sqrt(u1)
		b0 := 1 - su
		b1 := u2 * su
		objPoint := pa.Mul(b0).Add(pb.Mul(b1)).Add(pc.Mul(1 - b0 - b1))
		objNormal := pb.Sub(pa).Cross(pc.Sub(pa))
		objArea := objNormal.Len() * 0.5
		point := tr.ObjectToWorld.MulPoint(objPoint)
		normal := tr.WorldToObject.MulNormal(objNormal).Normalize()
		return point, normal, objArea * scale * scale, true

	case scene.ShapeDisk:
		inner := data[scene.DiskRadiusInner]
		outer := data[scene.DiskRadiusOuter]
		r := math32.Sqrt(u1*(outer*outer-inner*inner) + inner*inner)
		phi := u2 * data[scene.DiskPhiMax]
		objPoint := types.Vec3{r * math32.Cos(phi), r * math32.Sin(phi), data[scene.DiskZMax]}
		objArea := 0.5 * data[scene.DiskPhiMax] * (outer*outer - inner*inner)
		point := tr.ObjectToWorld.MulPoint(objPoint)
		normal := tr.WorldToObject.MulNormal(types.Vec3{0, 0, 1}).Normalize()
		return point, normal, objArea * scale * scale, true
	}
	return types.Vec3{}, types.Vec3{}, 0, false
}

// primitiveArea mirrors the area terms of samplePrimitivePoint.
func (ctx *Context) primitiveArea(primIdx int32) float32 {
	prim := &ctx.sc.Primitives[primIdx]
	tr := &ctx.sc.Transforms[prim.TransformIndex]
	data := ctx.sc.ShapeData[prim.Shape.Kind][prim.Shape.Offset:]
	scale := maxAxisScale(&tr.ObjectToWorld)

	switch prim.Shape.Kind {
	case scene.ShapeSphere:
		radius := data[scene.SphereRadius]
		return 4 * pi * radius * radius * scale * scale
	case scene.ShapeRectangle:
		sideA := vec3At(data, scene.RectangleSideA)
		sideB := vec3At(data, scene.RectangleSideB)
		return sideA.Cross(sideB).Len() * scale * scale
	case scene.ShapeTriangle:
		pa := vec3At(data, scene.TrianglePositionA)
		pb := vec3At(data, scene.TrianglePositionB)
		pc := vec3At(data, scene.TrianglePositionC)
		return pb.Sub(pa).Cross(pc.Sub(pa)).Len() * 0.5 * scale * scale
	case scene.ShapeDisk:
		inner := data[scene.DiskRadiusInner]
		outer := data[scene.DiskRadiusOuter]
		return 0.5 * data[scene.DiskPhiMax] * (outer*outer - inner*inner) * scale * scale
	}
	return 0
}

// EmittedRadiance returns the radiance a hit area light emits toward the
// viewer, or black when the back of a one-sided emitter was struck.
func (ctx *Context) EmittedRadiance(isect *Intersection, outgoing types.Vec3) types.Vec3 {
	ref := ctx.sc.Primitives[isect.Primitive].AreaLight
	if !ref.Valid() {
		return types.Vec3{}
	}
	data := ctx.sc.LightData[ref.Kind][ref.Offset:]
	if data[scene.AreaTwoSided] == 0 && outgoing.Dot(isect.Geometric.W) <= 0 {
		return types.Vec3{}
	}
	return vec3At(data, scene.AreaRadiance)
}

// EscapedRadiance accumulates environment radiance for a ray leaving the
// scene, scaled by the light selection probability to stay consistent with
// the per-light estimates.
func (ctx *Context) EscapedRadiance(dir types.Vec3) types.Vec3 {
	count := len(ctx.sc.LightRefs)
	if count == 0 {
		return types.Vec3{}
	}
	var total types.Vec3
	for _, ref := range ctx.sc.LightRefs {
		if ref.Kind != scene.LightEnvironment {
			continue
		}
		data := ctx.sc.LightData[ref.Kind][ref.Offset:]
		total = total.Add(ctx.environmentLookup(data, dir))
	}
	return total.Mul(float32(count))
}

// environmentLookup samples the equirectangular radiance map along dir.
func (ctx *Context) environmentLookup(data []float32, dir types.Vec3) types.Vec3 {
	w := int(data[scene.EnvironmentWidth])
	h := int(data[scene.EnvironmentHeight])
	scale := vec3At(data, scene.EnvironmentScale)
	if w <= 0 || h <= 0 {
		return scale
	}

	d := dir.Normalize()
	phi := math32.Atan2(d[1], d[0]) + data[scene.EnvironmentAngle]
	u := positiveMod(phi*inv2Pi+0.5, 1)
	v := math32.Acos(clamp(d[2], -1, 1)) * invPi

	x := positiveMod(u*float32(w)-0.5, float32(w))
	y := clamp(v*float32(h)-0.5, 0, float32(h)-1)

	x0 := int(x)
	y0 := int(y)
	fx := x - float32(x0)
	fy := y - float32(y0)
	x1 := (x0 + 1) % w
	y1 := y0 + 1
	if y1 >= h {
		y1 = h - 1
	}

	base := int32(data[scene.EnvironmentTexelOffset])
	texels := ctx.sc.TexelData

	c00 := vec3At(texels, base+int32(y0*w+x0)*3)
	c10 := vec3At(texels, base+int32(y0*w+x1)*3)
	c01 := vec3At(texels, base+int32(y1*w+x0)*3)
	c11 := vec3At(texels, base+int32(y1*w+x1)*3)

	c := c00.Lerp(c10, fx).Lerp(c01.Lerp(c11, fx), fy)
	return c.MulVec(scale)
}

// maxAxisScale extracts the largest axis scale factor of a transform, used to
// convert object space areas to world space for uniformly scaled emitters.
func maxAxisScale(m *types.Mat4) float32 {
	best := float32(0)
	for axis := 0; axis < 3; axis++ {
		var v types.Vec3
		v[axis] = 1
		l := m.MulVector(v).Len()
		if l > best {
			best = l
		}
	}
	return best
}
