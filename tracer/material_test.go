package tracer

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/helios-render/helios/scene"
	"github.com/helios-render/helios/types"
)

// buildMaterialScene compiles a one-sphere scene with the returned material.
func buildMaterialScene(build func(b *scene.Builder) scene.KindOffset) *scene.Scene {
	b := scene.NewBuilder()
	mat := build(b)
	b.AddPrimitive(b.Sphere(types.Vec3{0, 0, 0}, 1), mat, types.Ident4())
	return b.Build()
}

func surfaceHit(ctx *Context, t *testing.T) *Intersection {
	r := testRay(types.Vec3{0, 0, 5}, types.Vec3{0, 0, -1})
	var isect Intersection
	if !ctx.IntersectClosest(&r, &isect) {
		t.Fatal("expected a hit for material sampling")
	}
	return &isect
}

func TestSampleScatteringValidity(t *testing.T) {
	type spec struct {
		name  string
		build func(b *scene.Builder) scene.KindOffset
		delta bool
	}
	gray := func(b *scene.Builder) scene.KindOffset {
		return b.ConstantTexture(types.Vec3{0.5, 0.5, 0.5})
	}
	specs := []spec{
		{"matte", func(b *scene.Builder) scene.KindOffset {
			return b.MatteMaterial(gray(b))
		}, false},
		{"mirror", func(b *scene.Builder) scene.KindOffset {
			return b.MirrorMaterial(gray(b))
		}, true},
		{"glass", func(b *scene.Builder) scene.KindOffset {
			return b.GlassMaterial(
				b.ConstantTexture(types.Vec3{1.5, 1.5, 1.5}), gray(b), gray(b))
		}, true},
		{"glossy", func(b *scene.Builder) scene.KindOffset {
			return b.GlossyMaterial(gray(b), b.ConstantTexture(types.Vec3{0.3, 0.3, 0.3}))
		}, false},
		{"metal", func(b *scene.Builder) scene.KindOffset {
			return b.MetalMaterial(gray(b), b.ConstantTexture(types.Vec3{0.3, 0.3, 0.3}))
		}, false},
		{"plastic", func(b *scene.Builder) scene.KindOffset {
			return b.PlasticMaterial(gray(b), gray(b), b.ConstantTexture(types.Vec3{0.3, 0.3, 0.3}))
		}, false},
		{"substrate", func(b *scene.Builder) scene.KindOffset {
			return b.SubstrateMaterial(gray(b), gray(b), b.ConstantTexture(types.Vec3{0.3, 0.3, 0.3}))
		}, false},
	}

	outgoing := types.Vec3{0, 0, 1}
	for _, s := range specs {
		ctx := newTestContext(buildMaterialScene(s.build))
		isect := surfaceHit(ctx, t)

		var sample BSDFSample
		accepted := 0
		for i := 0; i < 64; i++ {
			if !ctx.SampleScattering(isect, outgoing, &sample) {
				continue
			}
			accepted++
			if sample.PDF <= 0 {
				t.Fatalf("[%s] expected positive pdf; got %f", s.name, sample.PDF)
			}
			if l := sample.Incoming.Len(); math32.Abs(l-1) > 1e-3 {
				t.Fatalf("[%s] expected unit incoming direction; got length %f", s.name, l)
			}
			for c := 0; c < 3; c++ {
				if sample.Color[c] < 0 {
					t.Fatalf("[%s] expected non-negative throughput; got %v", s.name, sample.Color)
				}
			}
			if s.delta != sample.Delta {
				t.Fatalf("[%s] expected delta=%t; got %t", s.name, s.delta, sample.Delta)
			}
		}
		if accepted == 0 {
			t.Fatalf("[%s] expected at least one accepted sample", s.name)
		}
	}
}

func TestMirrorReflectsExactly(t *testing.T) {
	ctx := newTestContext(buildMaterialScene(func(b *scene.Builder) scene.KindOffset {
		return b.MirrorMaterial(b.ConstantTexture(types.Vec3{0.9, 0.9, 0.9}))
	}))
	isect := surfaceHit(ctx, t)

	// Outgoing tilted 45 degrees; the normal at the hit is +z so the
	// reflection flips x.
	outgoing := types.Vec3{1, 0, 1}.Normalize()
	var sample BSDFSample
	if !ctx.SampleScattering(isect, outgoing, &sample) {
		t.Fatal("expected mirror sample")
	}
	exp := types.Vec3{-1, 0, 1}.Normalize()
	if sample.Incoming.Sub(exp).Len() > 1e-3 {
		t.Fatalf("expected mirror direction %v; got %v", exp, sample.Incoming)
	}
}

func TestMatteEvalMatchesSamplePDF(t *testing.T) {
	ctx := newTestContext(buildMaterialScene(func(b *scene.Builder) scene.KindOffset {
		return b.MatteMaterial(b.ConstantTexture(types.Vec3{0.6, 0.6, 0.6}))
	}))
	isect := surfaceHit(ctx, t)

	outgoing := types.Vec3{0, 0, 1}
	var sample BSDFSample
	if !ctx.SampleScattering(isect, outgoing, &sample) {
		t.Fatal("expected matte sample")
	}

	f, pdf := ctx.EvalScattering(isect, outgoing, sample.Incoming)
	if math32.Abs(pdf-sample.PDF) > 1e-4 {
		t.Fatalf("expected eval pdf %f to match sample pdf %f", pdf, sample.PDF)
	}
	if math32.Abs(f[0]-0.6*invPi) > 1e-4 {
		t.Fatalf("expected lambertian f=kd/pi; got %v", f)
	}
}

func TestGlossySampleUsesHalfVectorPDF(t *testing.T) {
	ctx := newTestContext(buildMaterialScene(func(b *scene.Builder) scene.KindOffset {
		return b.GlossyMaterial(
			b.ConstantTexture(types.Vec3{0.8, 0.8, 0.8}),
			b.ConstantTexture(types.Vec3{0.3, 0.3, 0.3}))
	}))
	isect := surfaceHit(ctx, t)

	outgoing := types.Vec3{0.3, 0, 1}.Normalize()
	var sample BSDFSample
	ok := false
	for i := 0; i < 64 && !ok; i++ {
		ok = ctx.SampleScattering(isect, outgoing, &sample)
	}
	if !ok {
		t.Fatal("expected an accepted glossy sample")
	}

	f, pdf := ctx.EvalScattering(isect, outgoing, sample.Incoming)
	if math32.Abs(pdf-sample.PDF) > 1e-3*sample.PDF {
		t.Fatalf("expected eval pdf %f to match sample pdf %f", pdf, sample.PDF)
	}

	// The pdf is the power-cosine half-vector density divided by the
	// reflection jacobian 4(wo.wh).
	n := isect.Shading.W
	half := outgoing.Add(sample.Incoming).Normalize()
	exponent := roughExponent(0.3)
	want := (exponent + 1) * inv2Pi * math32.Pow(half.Dot(n), exponent) / (4 * outgoing.Dot(half))
	if math32.Abs(pdf-want) > 1e-3*want {
		t.Fatalf("expected half-vector pdf %f; got %f", want, pdf)
	}

	// The throughput folds f*cos/pdf.
	cosIn := sample.Incoming.Dot(n)
	want0 := f[0] * cosIn / pdf
	if math32.Abs(sample.Color[0]-want0) > 1e-3*want0 {
		t.Fatalf("expected throughput %f; got %f", want0, sample.Color[0])
	}
}

func TestDeltaMaterialsEvalToBlack(t *testing.T) {
	ctx := newTestContext(buildMaterialScene(func(b *scene.Builder) scene.KindOffset {
		return b.MirrorMaterial(b.ConstantTexture(types.Vec3{0.9, 0.9, 0.9}))
	}))
	isect := surfaceHit(ctx, t)

	f, pdf := ctx.EvalScattering(isect, types.Vec3{0, 0, 1}, types.Vec3{0, 0.6, 0.8})
	if !isBlack(f) || pdf != 0 {
		t.Fatalf("expected black/zero for delta eval; got %v pdf=%f", f, pdf)
	}
	if !ctx.IsDelta(isect) {
		t.Fatal("expected mirror to report as delta")
	}
}
