package tracer

import (
	"github.com/chewxy/math32"
	"github.com/helios-render/helios/scene"
	"github.com/helios-render/helios/types"
)

// Material dispatch. SampleScattering draws an incoming direction for the
// next path segment; sample.Color is the full throughput multiplier with the
// cosine and pdf already folded in. EvalScattering is the MIS-side query: it
// returns the raw BSDF value and the pdf the sampler would have assigned to
// the given direction. Delta lobes evaluate to black with pdf zero.

// SampleScattering samples the hit primitive's material. outgoing points away
// from the surface. Returns false when the sample carries no energy.
func (ctx *Context) SampleScattering(isect *Intersection, outgoing types.Vec3, sample *BSDFSample) bool {
	mat := ctx.sc.Primitives[isect.Primitive].Material
	data := ctx.sc.MaterialData[mat.Kind][mat.Offset:]

	n := faceforward(isect.Shading.W, outgoing.Neg())
	sample.Normal = n
	sample.Outgoing = outgoing
	sample.Delta = false

	switch mat.Kind {
	case scene.MaterialMatte:
		kd := ctx.EvalTexture(refAt(data, scene.MatteKD), isect)
		return ctx.sampleDiffuse(n, kd, sample)

	case scene.MaterialMirror:
		kr := ctx.EvalTexture(refAt(data, scene.MirrorKR), isect)
		if isBlack(kr) {
			return false
		}
		sample.Incoming = reflect(outgoing.Neg(), n)
		sample.Color = kr
		sample.PDF = 1
		sample.Delta = true
		return true

	case scene.MaterialGlass:
		return ctx.sampleGlass(data, isect, outgoing, sample)

	case scene.MaterialClearCoat:
		return ctx.sampleClearCoat(data, isect, outgoing, sample)

	case scene.MaterialGlossy:
		kr := ctx.EvalTexture(refAt(data, scene.GlossyKR), isect)
		rough := ctx.texScalar(refAt(data, scene.GlossyRoughness), isect)
		return ctx.sampleBlinnLobe(n, outgoing, kr, roughExponent(rough), sample)

	case scene.MaterialMetal:
		kr := ctx.EvalTexture(refAt(data, scene.MetalKR), isect)
		rough := ctx.texScalar(refAt(data, scene.MetalRoughness), isect)
		return ctx.sampleBlinnLobe(n, outgoing, kr, roughExponent(rough), sample)

	case scene.MaterialPlastic:
		kd := ctx.EvalTexture(refAt(data, scene.PlasticKD), isect)
		ks := ctx.EvalTexture(refAt(data, scene.PlasticKS), isect)
		rough := ctx.texScalar(refAt(data, scene.PlasticRoughness), isect)
		return ctx.sampleMixture(n, outgoing, kd, ks, roughExponent(rough), 0.5, sample)

	case scene.MaterialSubstrate:
		kd := ctx.EvalTexture(refAt(data, scene.SubstrateKD), isect)
		ks := ctx.EvalTexture(refAt(data, scene.SubstrateKS), isect)
		rough := ctx.texScalar(refAt(data, scene.SubstrateRoughness), isect)
		cos := clamp(outgoing.Dot(n), 0, 1)
		specProb := clamp(schlick(cos, luminance(ks)), 0.05, 0.95)
		return ctx.sampleMixture(n, outgoing, kd, ks, roughExponent(rough), specProb, sample)
	}
	return false
}

// EvalScattering returns the BSDF value f and the sampling pdf for a fixed
// pair of directions, both pointing away from the surface.
func (ctx *Context) EvalScattering(isect *Intersection, outgoing, incoming types.Vec3) (types.Vec3, float32) {
	mat := ctx.sc.Primitives[isect.Primitive].Material
	data := ctx.sc.MaterialData[mat.Kind][mat.Offset:]

	n := faceforward(isect.Shading.W, outgoing.Neg())
	cosIn := incoming.Dot(n)
	if cosIn <= 0 {
		return types.Vec3{}, 0
	}

	switch mat.Kind {
	case scene.MaterialMatte:
		kd := ctx.EvalTexture(refAt(data, scene.MatteKD), isect)
		return kd.Mul(invPi), cosIn * invPi

	case scene.MaterialMirror, scene.MaterialGlass:
		// Delta distributions never match a sampled direction.
		return types.Vec3{}, 0

	case scene.MaterialClearCoat:
		kd := ctx.EvalTexture(refAt(data, scene.ClearCoatKD), isect)
		cosOut := clamp(outgoing.Dot(n), 0, 1)
		fr := schlick(cosOut, clearCoatR0)
		diffuseProb := 1 - clamp(0.25+0.5*fr, 0.1, 0.9)
		return kd.Mul((1 - fr) * invPi), cosIn * invPi * diffuseProb

	case scene.MaterialGlossy:
		kr := ctx.EvalTexture(refAt(data, scene.GlossyKR), isect)
		rough := ctx.texScalar(refAt(data, scene.GlossyRoughness), isect)
		return evalBlinnLobe(n, outgoing, incoming, kr, roughExponent(rough))

	case scene.MaterialMetal:
		kr := ctx.EvalTexture(refAt(data, scene.MetalKR), isect)
		rough := ctx.texScalar(refAt(data, scene.MetalRoughness), isect)
		return evalBlinnLobe(n, outgoing, incoming, kr, roughExponent(rough))

	case scene.MaterialPlastic:
		kd := ctx.EvalTexture(refAt(data, scene.PlasticKD), isect)
		ks := ctx.EvalTexture(refAt(data, scene.PlasticKS), isect)
		rough := ctx.texScalar(refAt(data, scene.PlasticRoughness), isect)
		return evalMixture(n, outgoing, incoming, kd, ks, roughExponent(rough), 0.5)

	case scene.MaterialSubstrate:
		kd := ctx.EvalTexture(refAt(data, scene.SubstrateKD), isect)
		ks := ctx.EvalTexture(refAt(data, scene.SubstrateKS), isect)
		rough := ctx.texScalar(refAt(data, scene.SubstrateRoughness), isect)
		cos := clamp(outgoing.Dot(n), 0, 1)
		specProb := clamp(schlick(cos, luminance(ks)), 0.05, 0.95)
		return evalMixture(n, outgoing, incoming, kd, ks, roughExponent(rough), specProb)
	}
	return types.Vec3{}, 0
}

// IsDelta reports whether the primitive's material consists only of specular
// lobes, in which case direct light sampling is pointless.
func (ctx *Context) IsDelta(isect *Intersection) bool {
	switch ctx.sc.Primitives[isect.Primitive].Material.Kind {
	case scene.MaterialMirror, scene.MaterialGlass:
		return true
	}
	return false
}

const clearCoatR0 = 0.04 // IOR 1.5 at normal incidence

func (ctx *Context) sampleDiffuse(n types.Vec3, kd types.Vec3, sample *BSDFSample) bool {
	if isBlack(kd) {
		return false
	}
	basis := makeBasis(n)
	local := sampleCosineHemisphere(ctx.rng.Float32(), ctx.rng.Float32())
	sample.Incoming = basis.ToWorld(local)
	sample.Color = kd
	sample.PDF = local[2] * invPi
	return sample.PDF > 0
}

func (ctx *Context) sampleGlass(data []float32, isect *Intersection, outgoing types.Vec3, sample *BSDFSample) bool {
	eta := ctx.texScalar(refAt(data, scene.GlassEta), isect)
	kr := ctx.EvalTexture(refAt(data, scene.GlassKR), isect)
	kt := ctx.EvalTexture(refAt(data, scene.GlassKT), isect)
	if eta <= 0 {
		eta = 1.5
	}

	ns := isect.Shading.W
	dir := outgoing.Neg()
	entering := dir.Dot(ns) < 0
	n := ns
	etaI, etaT := float32(1), eta
	if !entering {
		n = ns.Neg()
		etaI, etaT = eta, 1
	}

	ratio := etaI / etaT
	cosI := -dir.Dot(n)
	sinT2 := ratio * ratio * (1 - cosI*cosI)

	reflDir := reflect(dir, n)
	sample.Delta = true
	sample.PDF = 1

	if sinT2 >= 1 {
		// Total internal reflection.
		sample.Incoming = reflDir
		sample.Color = kr
		return true
	}

	cosT := math32.Sqrt(1 - sinT2)
	refrDir := dir.Mul(ratio).Add(n.Mul(ratio*cosI - cosT)).Normalize()

	r0 := (etaT - etaI) / (etaT + etaI)
	r0 *= r0
	cosX := cosI
	if !entering {
		cosX = cosT
	}
	re := schlick(cosX, r0)

	prob := 0.25 + 0.5*re
	if ctx.rng.Float32() < prob {
		sample.Incoming = reflDir
		sample.Color = kr.Mul(re / prob)
	} else {
		sample.Incoming = refrDir
		sample.Color = kt.Mul((1 - re) / (1 - prob))
	}
	return true
}

func (ctx *Context) sampleClearCoat(data []float32, isect *Intersection, outgoing types.Vec3, sample *BSDFSample) bool {
	kd := ctx.EvalTexture(refAt(data, scene.ClearCoatKD), isect)
	ks := ctx.EvalTexture(refAt(data, scene.ClearCoatKS), isect)

	n := faceforward(isect.Shading.W, outgoing.Neg())
	cos := clamp(outgoing.Dot(n), 0, 1)
	fr := schlick(cos, clearCoatR0)
	prob := clamp(0.25+0.5*fr, 0.1, 0.9)

	if ctx.rng.Float32() < prob {
		sample.Incoming = reflect(outgoing.Neg(), n)
		sample.Color = ks.Mul(fr / prob)
		sample.PDF = 1
		sample.Delta = true
		return true
	}
	if !ctx.sampleDiffuse(n, kd, sample) {
		return false
	}
	sample.Color = sample.Color.Mul((1 - fr) / (1 - prob))
	sample.PDF *= 1 - prob
	return true
}

// sampleBlinnLobe importance-samples a half vector from the power-cosine
// distribution around the shading normal and reflects the outgoing direction
// about it.
func (ctx *Context) sampleBlinnLobe(n, outgoing, f0 types.Vec3, exponent float32, sample *BSDFSample) bool {
	if isBlack(f0) {
		return false
	}
	basis := makeBasis(n)
	half := basis.ToWorld(samplePowerCosineHemisphere(ctx.rng.Float32(), ctx.rng.Float32(), exponent))
	if outgoing.Dot(half) <= 0 {
		return false
	}
	wi := reflect(outgoing.Neg(), half)
	if wi.Dot(n) <= 0 {
		return false
	}
	f, pdf := evalBlinnLobe(n, outgoing, wi, f0, exponent)
	if pdf <= 0 || isBlack(f) {
		return false
	}
	sample.Incoming = wi
	sample.Color = f.Mul(wi.Dot(n) / pdf)
	sample.PDF = pdf
	return true
}

// evalBlinnLobe computes the Torrance-Sparrow value D*F*G / (4 cosO cosI) and
// the solid-angle pdf of the half-vector sampler for a fixed direction pair.
func evalBlinnLobe(n, outgoing, incoming, f0 types.Vec3, exponent float32) (types.Vec3, float32) {
	cosOut := outgoing.Dot(n)
	cosIn := incoming.Dot(n)
	if cosOut <= 0 || cosIn <= 0 {
		return types.Vec3{}, 0
	}
	half := outgoing.Add(incoming).Normalize()
	cosHalf := half.Dot(n)
	outDotHalf := outgoing.Dot(half)
	if cosHalf <= 0 || outDotHalf <= 0 {
		return types.Vec3{}, 0
	}

	powCos := math32.Pow(cosHalf, exponent)
	d := (exponent + 2) * inv2Pi * powCos
	g := math32.Min(1, math32.Min(
		2*cosHalf*cosOut/outDotHalf,
		2*cosHalf*cosIn/outDotHalf))
	fresnel := schlickColor(f0, outDotHalf)

	f := fresnel.Mul(d * g / (4 * cosOut * cosIn))
	pdf := (exponent + 1) * inv2Pi * powCos / (4 * outDotHalf)
	return f, pdf
}

// sampleMixture combines a diffuse and a Blinn lobe, choosing by specProb.
func (ctx *Context) sampleMixture(n, outgoing, kd, ks types.Vec3, exponent, specProb float32, sample *BSDFSample) bool {
	if ctx.rng.Float32() < specProb {
		if !ctx.sampleBlinnLobe(n, outgoing, ks, exponent, sample) {
			return false
		}
	} else {
		if !ctx.sampleDiffuse(n, kd, sample) {
			return false
		}
	}
	// Re-weight with the combined value and pdf of both lobes.
	f, pdf := evalMixture(n, outgoing, sample.Incoming, kd, ks, exponent, specProb)
	if pdf <= 0 {
		return false
	}
	cosIn := sample.Incoming.Dot(n)
	sample.Color = f.Mul(cosIn / pdf)
	sample.PDF = pdf
	return true
}

func evalMixture(n, outgoing, incoming, kd, ks types.Vec3, exponent, specProb float32) (types.Vec3, float32) {
	cosIn := incoming.Dot(n)
	if cosIn <= 0 {
		return types.Vec3{}, 0
	}
	fSpec, pdfSpec := evalBlinnLobe(n, outgoing, incoming, ks, exponent)
	fDiff := kd.Mul(invPi)
	pdfDiff := cosIn * invPi
	f := fDiff.Add(fSpec)
	pdf := specProb*pdfSpec + (1-specProb)*pdfDiff
	return f, pdf
}

// reflect mirrors an incident direction about n.
func reflect(incident, n types.Vec3) types.Vec3 {
	return incident.Sub(n.Mul(2 * incident.Dot(n)))
}

func schlick(cos, r0 float32) float32 {
	m := clamp(1-cos, 0, 1)
	m2 := m * m
	return r0 + (1-r0)*m2*m2*m
}

func schlickColor(f0 types.Vec3, cos float32) types.Vec3 {
	m := clamp(1-cos, 0, 1)
	m2 := m * m
	w := m2 * m2 * m
	return types.Vec3{
		f0[0] + (1-f0[0])*w,
		f0[1] + (1-f0[1])*w,
		f0[2] + (1-f0[2])*w,
	}
}

func luminance(c types.Vec3) float32 {
	return 0.212671*c[0] + 0.715160*c[1] + 0.072169*c[2]
}

// texScalar evaluates a texture reference down to one scalar.
func (ctx *Context) texScalar(ref scene.KindOffset, isect *Intersection) float32 {
	c := ctx.EvalTexture(ref, isect)
	return (c[0] + c[1] + c[2]) / 3
}

// roughExponent maps a [0,1] roughness to a Blinn exponent.
func roughExponent(rough float32) float32 {
	rough = clamp(rough, 1e-3, 1)
	return 2/(rough*rough) - 2
}
