package tracer

import (
	"testing"

	"github.com/helios-render/helios/scene"
	"github.com/helios-render/helios/types"
)

func TestLiEscapesToEnvironment(t *testing.T) {
	b := scene.NewBuilder()
	b.AddEnvironmentLight(0, 0, nil, types.Vec3{0.2, 0.4, 0.6}, 0)
	ctx := newTestContext(b.Build())

	r := testRay(types.Vec3{0, 0, 0}, types.Vec3{0, 0, 1})
	c := ctx.Li(&r)
	if c.Sub(types.Vec3{0.2, 0.4, 0.6}).Len() > 1e-4 {
		t.Fatalf("expected environment radiance for an escaping ray; got %v", c)
	}
}

func TestLiBlackWithoutLights(t *testing.T) {
	ctx := newTestContext(buildSphereScene())

	r := testRay(types.Vec3{0, 0, 5}, types.Vec3{0, 0, -1})
	for i := 0; i < 16; i++ {
		if c := ctx.Li(&r); !isBlack(c) {
			t.Fatalf("expected black without any lights; got %v", c)
		}
	}
}

func TestLiDirectLightOnFloor(t *testing.T) {
	ctx := newTestContext(buildLitPlaneScene(false))

	r := testRay(types.Vec3{3, 5, 0}, types.Vec3{0, -1, 0})
	var total types.Vec3
	const rounds = 128
	for i := 0; i < rounds; i++ {
		ray := r
		total = total.Add(ctx.Li(&ray))
	}
	mean := total.Mul(1.0 / rounds)
	if mean[0] <= 0 {
		t.Fatalf("expected lit floor; got %v", mean)
	}
	if mean.FiniteOrZero() != mean {
		t.Fatalf("expected finite radiance; got %v", mean)
	}
}

func TestLiSeesEmitterDirectly(t *testing.T) {
	ctx := newTestContext(buildLitPlaneScene(false))

	// Looking straight at the lamp's emitting side.
	r := testRay(types.Vec3{0, 1, 0}, types.Vec3{0, 1, 0})
	c := ctx.Li(&r)
	if c[0] < 9 {
		t.Fatalf("expected full emitter radiance on direct view; got %v", c)
	}
}

func TestLiHonorsMaxBounces(t *testing.T) {
	// A mirror box would bounce forever without the cap.
	b := scene.NewBuilder()
	mirror := b.MirrorMaterial(b.ConstantTexture(types.Vec3{1, 1, 1}))
	b.AddPrimitive(b.Cuboid(types.Vec3{-1, -1, -1}, types.Vec3{1, 1, 1}), mirror, types.Ident4())
	sc := b.Build()

	ctx := NewContext(sc, newTestContext(sc).rng, Config{MaxBounces: 3, MinBouncesForRR: 100})

	r := testRay(types.Vec3{0, 0, 0}, types.Vec3{0, 0, 1})
	c := ctx.Li(&r)
	if !isBlack(c) {
		t.Fatalf("expected black inside an unlit mirror box; got %v", c)
	}
}
