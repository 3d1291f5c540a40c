package tracer

import (
	"math/rand"
	"testing"

	"github.com/chewxy/math32"
	"github.com/helios-render/helios/scene"
	"github.com/helios-render/helios/types"
)

func newTestContext(sc *scene.Scene) *Context {
	return NewContext(sc, rand.New(rand.NewSource(1)), Config{MaxBounces: 5, MinBouncesForRR: 3})
}

func TestConstantTexture(t *testing.T) {
	b := scene.NewBuilder()
	ref := b.ConstantTexture(types.Vec3{0.25, 0.5, 0.75})
	ctx := newTestContext(b.Build())

	var isect Intersection
	c := ctx.EvalTexture(ref, &isect)
	if c != (types.Vec3{0.25, 0.5, 0.75}) {
		t.Fatalf("expected constant color round trip; got %v", c)
	}
}

func TestImageTextureTexelCenters(t *testing.T) {
	// 2x2 texels: red, green / blue, white.
	texels := []float32{
		1, 0, 0, 0, 1, 0,
		0, 0, 1, 1, 1, 1,
	}
	b := scene.NewBuilder()
	ref := b.ImageTexture(2, 2, texels, 0, 1, 1)
	ctx := newTestContext(b.Build())

	type spec struct {
		u, v float32
		exp  types.Vec3
	}
	specs := []spec{
		{0.25, 0.25, types.Vec3{1, 0, 0}},
		{0.75, 0.25, types.Vec3{0, 1, 0}},
		{0.25, 0.75, types.Vec3{0, 0, 1}},
		{0.75, 0.75, types.Vec3{1, 1, 1}},
	}
	for index, s := range specs {
		isect := Intersection{UV: types.Vec2{s.u, s.v}}
		c := ctx.EvalTexture(ref, &isect)
		if c.Sub(s.exp).Len() > 1e-4 {
			t.Fatalf("[spec %d] expected texel color %v at uv (%f, %f); got %v", index, s.exp, s.u, s.v, c)
		}
	}
}

func TestCheckerboardSelection(t *testing.T) {
	b := scene.NewBuilder()
	white := b.ConstantTexture(types.Vec3{1, 1, 1})
	black := b.ConstantTexture(types.Vec3{0, 0, 0})
	ref := b.CheckerboardTexture(white, black, 0, 1, 1)
	ctx := newTestContext(b.Build())

	isect := Intersection{UV: types.Vec2{0.5, 0.5}}
	if c := ctx.EvalTexture(ref, &isect); c[0] != 1 {
		t.Fatalf("expected first texture in even cell; got %v", c)
	}

	isect.UV = types.Vec2{1.5, 0.5}
	if c := ctx.EvalTexture(ref, &isect); c[0] != 0 {
		t.Fatalf("expected second texture in odd cell; got %v", c)
	}
}

func TestBlendTexture(t *testing.T) {
	b := scene.NewBuilder()
	texA := b.ConstantTexture(types.Vec3{1, 0, 0})
	texB := b.ConstantTexture(types.Vec3{0, 0, 1})
	ref := b.BlendTexture(texA, texB, 0.25)
	ctx := newTestContext(b.Build())

	var isect Intersection
	c := ctx.EvalTexture(ref, &isect)
	exp := types.Vec3{0.75, 0, 0.25}
	if c.Sub(exp).Len() > 1e-5 {
		t.Fatalf("expected blended color %v; got %v", exp, c)
	}
}

func TestVizTextures(t *testing.T) {
	b := scene.NewBuilder()
	normalRef := b.NormalVizTexture()
	uvRef := b.UVVizTexture()
	ctx := newTestContext(b.Build())

	isect := Intersection{
		Shading: Basis{W: types.Vec3{0, 0, 1}},
		UV:      types.Vec2{1.25, 0.5},
	}

	c := ctx.EvalTexture(normalRef, &isect)
	if c.Sub(types.Vec3{0.5, 0.5, 1}).Len() > 1e-5 {
		t.Fatalf("expected remapped +z normal (0.5, 0.5, 1); got %v", c)
	}

	c = ctx.EvalTexture(uvRef, &isect)
	if math32.Abs(c[0]-0.25) > 1e-5 || math32.Abs(c[1]-0.5) > 1e-5 {
		t.Fatalf("expected wrapped uv color (0.25, 0.5, 0); got %v", c)
	}
}

func TestUnknownTextureFallsBack(t *testing.T) {
	b := scene.NewBuilder()
	ctx := newTestContext(b.Build())

	var isect Intersection
	bad := scene.KindOffset{Kind: scene.TextureKindCount + 7}
	if c := ctx.EvalTexture(bad, &isect); c != neutralGray {
		t.Fatalf("expected neutral gray fallback; got %v", c)
	}
}
