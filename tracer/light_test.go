package tracer

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/helios-render/helios/scene"
	"github.com/helios-render/helios/types"
)

func TestPointLightFalloff(t *testing.T) {
	b := scene.NewBuilder()
	ref := b.AddPointLight(types.Vec3{0, 0, 2}, types.Vec3{8, 8, 8})
	ctx := newTestContext(b.Build())

	isect := Intersection{Point: types.Vec3{0, 0, 0}}
	var sample LightSample
	if !ctx.sampleLight(ref, &isect, &sample) {
		t.Fatal("expected point light sample")
	}
	if sample.Incoming.Sub(types.Vec3{0, 0, 1}).Len() > 1e-4 {
		t.Fatalf("expected incoming direction +z; got %v", sample.Incoming)
	}
	// Intensity 8 at distance 2 gives radiance 2.
	if math32.Abs(sample.Radiance[0]-2) > 1e-4 {
		t.Fatalf("expected inverse-square radiance 2; got %v", sample.Radiance)
	}
	if sample.PDF != 1 {
		t.Fatalf("expected delta light pdf 1; got %f", sample.PDF)
	}
	if math32.Abs(sample.Distance-2) > 1e-4 {
		t.Fatalf("expected distance 2; got %f", sample.Distance)
	}
}

func TestDirectionalLight(t *testing.T) {
	b := scene.NewBuilder()
	ref := b.AddDirectionalLight(types.Vec3{0, -1, 0}, types.Vec3{3, 3, 3})
	ctx := newTestContext(b.Build())

	isect := Intersection{Point: types.Vec3{0, 0, 0}}
	var sample LightSample
	if !ctx.sampleLight(ref, &isect, &sample) {
		t.Fatal("expected directional light sample")
	}
	if sample.Incoming.Sub(types.Vec3{0, 1, 0}).Len() > 1e-4 {
		t.Fatalf("expected incoming opposite to travel direction; got %v", sample.Incoming)
	}
	if sample.Radiance != (types.Vec3{3, 3, 3}) {
		t.Fatalf("expected constant radiance; got %v", sample.Radiance)
	}
}

// buildLitPlaneScene places a matte floor under a rectangular area light.
func buildLitPlaneScene(withBlocker bool) *scene.Scene {
	b := scene.NewBuilder()
	matte := b.MatteMaterial(b.ConstantTexture(types.Vec3{0.7, 0.7, 0.7}))
	black := b.MatteMaterial(b.ConstantTexture(types.Vec3{0, 0, 0}))

	floor := b.Rectangle(types.Vec3{-5, 0, -5}, types.Vec3{10, 0, 0}, types.Vec3{0, 0, 10})
	b.AddPrimitive(floor, matte, types.Ident4())

	// Lamp faces down at y=4; sideA x sideB points along -y.
	lamp := b.Rectangle(types.Vec3{-1, 4, -1}, types.Vec3{2, 0, 0}, types.Vec3{0, 0, 2})
	lampIdx := b.AddPrimitive(lamp, black, types.Ident4())
	b.AddAreaLight(lampIdx, types.Vec3{10, 10, 10}, false)

	if withBlocker {
		blocker := b.Rectangle(types.Vec3{-2, 2, 2}, types.Vec3{4, 0, 0}, types.Vec3{0, 0, -4})
		b.AddPrimitive(blocker, black, types.Ident4())
	}
	return b.Build()
}

func TestEstimateDirectAreaLight(t *testing.T) {
	ctx := newTestContext(buildLitPlaneScene(false))

	r := testRay(types.Vec3{0, 5, 0}, types.Vec3{0, -1, 0})
	var isect Intersection
	if !ctx.IntersectClosest(&r, &isect) {
		t.Fatal("expected floor hit")
	}
	if isect.Primitive != 0 {
		// The downward ray can strike the lamp first; aim past it.
		r = testRay(types.Vec3{3, 5, 0}, types.Vec3{0, -1, 0})
		if !ctx.IntersectClosest(&r, &isect) || isect.Primitive != 0 {
			t.Fatal("expected floor hit")
		}
	}

	var total types.Vec3
	const rounds = 256
	for i := 0; i < rounds; i++ {
		total = total.Add(ctx.EstimateDirect(&isect, types.Vec3{0, 1, 0}))
	}
	mean := total.Mul(1.0 / rounds)
	if mean[0] <= 0 {
		t.Fatalf("expected positive direct lighting; got %v", mean)
	}
	if mean.FiniteOrZero() != mean {
		t.Fatalf("expected finite estimate; got %v", mean)
	}
}

func TestEstimateDirectOccluded(t *testing.T) {
	ctx := newTestContext(buildLitPlaneScene(true))

	r := testRay(types.Vec3{0, 1, 0}, types.Vec3{0, -1, 0})
	var isect Intersection
	if !ctx.IntersectClosest(&r, &isect) || isect.Primitive != 0 {
		t.Fatal("expected floor hit under the blocker")
	}

	for i := 0; i < 64; i++ {
		c := ctx.EstimateDirect(&isect, types.Vec3{0, 1, 0})
		if !isBlack(c) {
			t.Fatalf("expected fully occluded estimate; got %v", c)
		}
	}
}

func TestEstimateDirectEnvironmentBlocked(t *testing.T) {
	// A matte floor sealed inside an opaque box must receive no sky light
	// through either sampling strategy.
	b := scene.NewBuilder()
	matte := b.MatteMaterial(b.ConstantTexture(types.Vec3{0.7, 0.7, 0.7}))
	floor := b.Rectangle(types.Vec3{-1, 0, -1}, types.Vec3{2, 0, 0}, types.Vec3{0, 0, 2})
	b.AddPrimitive(floor, matte, types.Ident4())
	shell := b.Cuboid(types.Vec3{-2, -1, -2}, types.Vec3{2, 2, 2})
	b.AddPrimitive(shell, matte, types.Ident4())
	b.AddEnvironmentLight(0, 0, nil, types.Vec3{1, 1, 1}, 0)
	ctx := newTestContext(b.Build())

	r := testRay(types.Vec3{0, 1, 0}, types.Vec3{0, -1, 0})
	var isect Intersection
	if !ctx.IntersectClosest(&r, &isect) || isect.Primitive != 0 {
		t.Fatal("expected floor hit inside the shell")
	}

	for i := 0; i < 256; i++ {
		if c := ctx.EstimateDirect(&isect, types.Vec3{0, 1, 0}); !isBlack(c) {
			t.Fatalf("expected the shell to block all sky light; got %v", c)
		}
	}
}

func TestEstimateDirectPointLightEnergyBound(t *testing.T) {
	// A reflectance-one diffuse floor under a single unoccluded point light
	// receives exactly intensity/dist^2 * cos/pi; the estimator must never
	// exceed that.
	b := scene.NewBuilder()
	white := b.MatteMaterial(b.ConstantTexture(types.Vec3{1, 1, 1}))
	floor := b.Rectangle(types.Vec3{-5, 0, -5}, types.Vec3{10, 0, 0}, types.Vec3{0, 0, 10})
	b.AddPrimitive(floor, white, types.Ident4())
	lightPos := types.Vec3{0, 2, 0}
	b.AddPointLight(lightPos, types.Vec3{4, 4, 4})
	ctx := newTestContext(b.Build())

	r := testRay(types.Vec3{1, 3, 0}, types.Vec3{0, -1, 0})
	var isect Intersection
	if !ctx.IntersectClosest(&r, &isect) {
		t.Fatal("expected floor hit")
	}

	toLight := lightPos.Sub(isect.Point)
	distSq := toLight.Dot(toLight)
	cos := math32.Abs(toLight.Normalize().Dot(isect.Shading.W))
	bound := 4 / distSq * cos * invPi

	for i := 0; i < 32; i++ {
		c := ctx.EstimateDirect(&isect, types.Vec3{0, 1, 0})
		if c.MaxComponent() <= 0 {
			t.Fatalf("expected positive unoccluded estimate; got %v", c)
		}
		if c.MaxComponent() > bound*(1+1e-4) {
			t.Fatalf("expected estimate within %f; got %v", bound, c)
		}
	}
}

func TestEstimateDirectMatchesLightSamplingReference(t *testing.T) {
	ctx := newTestContext(buildLitPlaneScene(false))

	r := testRay(types.Vec3{3, 5, 0}, types.Vec3{0, -1, 0})
	var isect Intersection
	if !ctx.IntersectClosest(&r, &isect) || isect.Primitive != 0 {
		t.Fatal("expected floor hit")
	}
	outgoing := types.Vec3{0, 1, 0}

	const rounds = 4096
	var misTotal types.Vec3
	for i := 0; i < rounds; i++ {
		misTotal = misTotal.Add(ctx.EstimateDirect(&isect, outgoing))
	}
	mis := misTotal.Mul(1.0 / rounds)

	// Single-strategy reference: light sampling without MIS weighting is
	// unbiased on its own, so the means must agree.
	lightRef := ctx.sc.LightRefs[0]
	var ls LightSample
	var refTotal types.Vec3
	for i := 0; i < rounds; i++ {
		if !ctx.sampleLight(lightRef, &isect, &ls) || ls.PDF <= 0 {
			continue
		}
		f, _ := ctx.EvalScattering(&isect, outgoing, ls.Incoming)
		if isBlack(f) || ctx.occluded(&isect, ls.Incoming, ls.Distance) {
			continue
		}
		cos := math32.Abs(ls.Incoming.Dot(isect.Shading.W))
		refTotal = refTotal.Add(f.MulVec(ls.Radiance).Mul(cos / ls.PDF))
	}
	ref := refTotal.Mul(1.0 / rounds)

	if ref[0] <= 0 {
		t.Fatalf("expected positive reference estimate; got %v", ref)
	}
	if math32.Abs(mis[0]-ref[0]) > 0.15*ref[0] {
		t.Fatalf("expected MIS estimate %v near reference %v", mis, ref)
	}
}

func TestEscapedRadianceEnvironment(t *testing.T) {
	b := scene.NewBuilder()
	b.AddEnvironmentLight(0, 0, nil, types.Vec3{0.25, 0.5, 0.75}, 0)
	ctx := newTestContext(b.Build())

	c := ctx.EscapedRadiance(types.Vec3{0, 0, 1})
	// One light in the scene, so the selection scale is one.
	if c.Sub(types.Vec3{0.25, 0.5, 0.75}).Len() > 1e-5 {
		t.Fatalf("expected environment scale color; got %v", c)
	}
}

func TestEscapedRadianceNoLights(t *testing.T) {
	ctx := newTestContext(scene.NewBuilder().Build())
	if c := ctx.EscapedRadiance(types.Vec3{0, 0, 1}); !isBlack(c) {
		t.Fatalf("expected black without lights; got %v", c)
	}
}

func TestEmittedRadianceOneSided(t *testing.T) {
	ctx := newTestContext(buildLitPlaneScene(false))

	// Hit the lamp from below: its normal faces down so the front side is
	// visible and it emits.
	r := testRay(types.Vec3{0, 0.5, 0}, types.Vec3{0, 1, 0})
	var isect Intersection
	if !ctx.IntersectClosest(&r, &isect) || isect.Primitive != 1 {
		t.Fatal("expected lamp hit")
	}
	if c := ctx.EmittedRadiance(&isect, types.Vec3{0, -1, 0}); isBlack(c) {
		t.Fatal("expected emission toward the front side")
	}
	if c := ctx.EmittedRadiance(&isect, types.Vec3{0, 1, 0}); !isBlack(c) {
		t.Fatalf("expected no emission from the back side; got %v", c)
	}
}

func TestBalanceHeuristic(t *testing.T) {
	if w := balanceHeuristic(1, 0); w != 1 {
		t.Fatalf("expected weight 1 against zero pdf; got %f", w)
	}
	w := balanceHeuristic(1, 1)
	if math32.Abs(w-0.5) > 1e-6 {
		t.Fatalf("expected symmetric weight 0.5; got %f", w)
	}
	for _, pair := range [][2]float32{{0.1, 2}, {3, 0.4}, {5, 5}} {
		w1 := balanceHeuristic(pair[0], pair[1])
		w2 := balanceHeuristic(pair[1], pair[0])
		if w1 < 0 || w1 > 1 {
			t.Fatalf("expected weight in [0,1]; got %f", w1)
		}
		if math32.Abs(w1+w2-1) > 1e-5 {
			t.Fatalf("expected complementary weights; got %f + %f", w1, w2)
		}
	}
}
