package tracer

import "github.com/helios-render/helios/types"

// Li integrates one radiance sample along a camera ray with iterative path
// tracing. Emission found by following the path is only counted on the first
// hit and after specular bounces; all other direct light flows through the
// per-bounce MIS estimate so no contribution is counted twice.
func (ctx *Context) Li(r *Ray) types.Vec3 {
	var radiance types.Vec3
	throughput := types.Vec3{1, 1, 1}
	specularBounce := true
	ray := *r

	for bounce := uint32(0); bounce <= ctx.cfg.MaxBounces; bounce++ {
		if !ctx.IntersectClosest(&ray, &ctx.hit) {
			if specularBounce {
				radiance = radiance.Add(throughput.MulVec(ctx.EscapedRadiance(ray.Dir)))
			}
			break
		}

		outgoing := ray.Dir.Neg()

		if specularBounce {
			radiance = radiance.Add(throughput.MulVec(ctx.EmittedRadiance(&ctx.hit, outgoing)))
		}
		radiance = radiance.Add(throughput.MulVec(ctx.EstimateDirect(&ctx.hit, outgoing)))

		if bounce == ctx.cfg.MaxBounces {
			break
		}
		if !ctx.SampleScattering(&ctx.hit, outgoing, &ctx.bsdf) {
			break
		}

		throughput = throughput.MulVec(ctx.bsdf.Color)
		if isBlack(throughput) {
			break
		}
		specularBounce = ctx.bsdf.Delta

		if bounce >= ctx.cfg.MinBouncesForRR {
			p := clamp(throughput.MaxComponent(), 0.05, 0.95)
			if ctx.rng.Float32() >= p {
				break
			}
			throughput = throughput.Mul(1 / p)
		}

		ray.Origin = ctx.hit.Point.Add(ctx.bsdf.Incoming.Mul(rayEpsilon))
		ray.Dir = ctx.bsdf.Incoming
		ray.TMin = rayEpsilon
		ray.TMax = maxRayDistance
	}

	// A stray non-finite sample would poison its accumulation pixel for the
	// rest of the render.
	return radiance.FiniteOrZero()
}
