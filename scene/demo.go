package scene

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/helios-render/helios/types"
)

const (
	twoPi  = 2 * math32.Pi
	halfPi = math32.Pi / 2
)

// Built-in demo scenes. They double as smoke tests for the compiler: between
// them every shape, material, texture and light kind gets exercised.

// DemoNames lists the available built-in scenes.
func DemoNames() []string {
	return []string{"cornell", "showcase"}
}

// Demo compiles one of the built-in scenes at the given frame dimensions.
func Demo(name string, frameW, frameH uint32) (*Scene, error) {
	switch name {
	case "cornell":
		return buildCornell(frameW, frameH), nil
	case "showcase":
		return buildShowcase(frameW, frameH), nil
	}
	return nil, fmt.Errorf("scene: unknown demo scene %q", name)
}

// buildCornell is the classic box: diffuse walls, a mirror and a glass
// sphere, a rectangular area light under the ceiling.
func buildCornell(frameW, frameH uint32) *Scene {
	b := NewBuilder()

	white := b.MatteMaterial(b.ConstantTexture(types.Vec3{0.75, 0.75, 0.75}))
	red := b.MatteMaterial(b.ConstantTexture(types.Vec3{0.75, 0.25, 0.25}))
	green := b.MatteMaterial(b.ConstantTexture(types.Vec3{0.25, 0.75, 0.25}))
	mirror := b.MirrorMaterial(b.ConstantTexture(types.Vec3{0.95, 0.95, 0.95}))
	glass := b.GlassMaterial(
		b.ConstantTexture(types.Vec3{1.5, 1.5, 1.5}),
		b.ConstantTexture(types.Vec3{1, 1, 1}),
		b.ConstantTexture(types.Vec3{1, 1, 1}))
	black := b.MatteMaterial(b.ConstantTexture(types.Vec3{0, 0, 0}))

	ident := types.Ident4()

	// Walls. Rectangle normals follow sideA x sideB and face inward.
	floor := b.Rectangle(types.Vec3{-3, 0, -3}, types.Vec3{6, 0, 0}, types.Vec3{0, 0, 6})
	ceiling := b.Rectangle(types.Vec3{-3, 6, 3}, types.Vec3{6, 0, 0}, types.Vec3{0, 0, -6})
	back := b.Rectangle(types.Vec3{-3, 0, -3}, types.Vec3{0, 6, 0}, types.Vec3{6, 0, 0})
	left := b.Rectangle(types.Vec3{-3, 0, 3}, types.Vec3{0, 6, 0}, types.Vec3{0, 0, -6})
	right := b.Rectangle(types.Vec3{3, 0, -3}, types.Vec3{0, 6, 0}, types.Vec3{0, 0, 6})

	b.AddPrimitive(floor, white, ident)
	b.AddPrimitive(ceiling, white, ident)
	b.AddPrimitive(back, white, ident)
	b.AddPrimitive(left, red, ident)
	b.AddPrimitive(right, green, ident)

	b.AddPrimitive(b.Sphere(types.Vec3{-1.3, 1, -1}, 1), mirror, ident)
	b.AddPrimitive(b.Sphere(types.Vec3{1.3, 1, 0.3}, 1), glass, ident)

	// sideA x sideB points along -y so the lamp emits downward.
	lamp := b.Rectangle(types.Vec3{-1, 5.99, -1}, types.Vec3{2, 0, 0}, types.Vec3{0, 0, 2})
	lampIdx := b.AddPrimitive(lamp, black, ident)
	b.AddAreaLight(lampIdx, types.Vec3{12, 12, 12}, false)

	b.LookAtCamera(
		types.Vec3{0, 3, 11}, types.Vec3{0, 3, 0}, types.Vec3{0, 1, 0},
		0.8, 0, LensThin, 0, 0, frameW, frameH)

	return b.Build()
}

// buildShowcase lines up every shape kind over a checkered ground plane,
// lit by the sun/sky combination of a directional and an environment light.
func buildShowcase(frameW, frameH uint32) *Scene {
	b := NewBuilder()

	checker := b.CheckerboardTexture(
		b.ConstantTexture(types.Vec3{0.9, 0.9, 0.9}),
		b.ConstantTexture(types.Vec3{0.2, 0.2, 0.2}),
		0, 4, 4)
	marble := b.MarbleTexture(
		types.Vec3{0.8, 0.8, 0.8},
		types.Vec3{0.5, 0.4, 0.3},
		types.Vec3{0.2, 0.15, 0.1},
		5, 4, 0.3, 6)
	fbm := b.FBMTexture(types.Vec3{0.3, 0.5, 0.8}, 2, 0.5, 5)
	blend := b.BlendTexture(
		b.ConstantTexture(types.Vec3{0.9, 0.3, 0.1}),
		b.ConstantTexture(types.Vec3{0.1, 0.3, 0.9}),
		0.5)
	bullseye := b.BullseyeTexture(
		b.ConstantTexture(types.Vec3{0.9, 0.1, 0.1}),
		b.ConstantTexture(types.Vec3{0.9, 0.9, 0.9}),
		types.Vec3{0, 0, 0}, 4)
	dots := b.PolkaDotTexture(
		b.ConstantTexture(types.Vec3{0.9, 0.8, 0.1}),
		b.ConstantTexture(types.Vec3{0.2, 0.2, 0.6}),
		0, 8, 0.3)
	rough := b.ConstantTexture(types.Vec3{0.2, 0.2, 0.2})
	quadrants := b.ImageTexture(2, 2, []float32{
		0.9, 0.2, 0.2, 0.2, 0.9, 0.2,
		0.2, 0.2, 0.9, 0.9, 0.9, 0.2,
	}, 0, 1, 1)

	ground := b.MatteMaterial(checker)
	matteMarble := b.MatteMaterial(marble)
	glossy := b.GlossyMaterial(b.ConstantTexture(types.Vec3{0.9, 0.7, 0.3}), rough)
	metal := b.MetalMaterial(b.ConstantTexture(types.Vec3{0.95, 0.64, 0.54}), rough)
	plastic := b.PlasticMaterial(bullseye, b.ConstantTexture(types.Vec3{0.5, 0.5, 0.5}), rough)
	substrate := b.SubstrateMaterial(dots, b.ConstantTexture(types.Vec3{0.4, 0.4, 0.4}), rough)
	clearCoat := b.ClearCoatMaterial(blend, b.ConstantTexture(types.Vec3{1, 1, 1}))
	matteFBM := b.MatteMaterial(fbm)
	matteImage := b.MatteMaterial(quadrants)
	normalViz := b.MatteMaterial(b.NormalVizTexture())
	uvViz := b.MatteMaterial(b.UVVizTexture())

	ident := types.Ident4()
	upright := types.Rotate4(types.QuatFromAxisAngle(types.Vec3{1, 0, 0}, -halfPi))

	plane := b.Plane(types.Vec3{0, 0, 0}, types.Vec3{0, 0, 1}, types.Vec3{1, 0, 0})
	b.AddPrimitive(plane, ground, ident)

	at := func(x, y, z float32, m types.Mat4) types.Mat4 {
		return types.Translate4(types.Vec3{x, y, z}).Mul4(m)
	}

	b.AddPrimitive(b.Sphere(types.Vec3{0, 0, 0}, 1), matteMarble, at(-6, 1, 0, ident))
	b.AddPrimitive(b.Cone(1, 2, twoPi), glossy, at(-3, 0, 0, upright))
	b.AddPrimitive(b.Cylinder(0.8, 0, 2, twoPi), metal, at(0, 0, 0, upright))
	b.AddPrimitive(b.Paraboloid(1, 0, 2, twoPi), plastic, at(3, 0, 0, upright))
	b.AddPrimitive(b.Hyperboloid(types.Vec3{1, 0, 0}, types.Vec3{1.4, 0, 2}, twoPi), substrate, at(6, 0, 0, upright))
	b.AddPrimitive(b.Torus(0.35, 1), clearCoat, at(-6, 1, -4, upright))
	b.AddPrimitive(b.Cuboid(types.Vec3{-0.8, 0, -0.8}, types.Vec3{0.8, 1.6, 0.8}), matteFBM, at(-3, 0, -4, ident))
	b.AddPrimitive(b.Disk(0, 1.2, 0, twoPi), matteImage, at(0, 1.2, -4, upright))

	tri := b.Triangle(
		types.Vec3{-1, 0, 0}, types.Vec3{1, 0, 0}, types.Vec3{0, 2, 0},
		types.Vec3{0, 0, 1}, types.Vec3{0, 0, 1}, types.Vec3{0, 0, 1},
		types.Vec2{0, 0}, types.Vec2{1, 0}, types.Vec2{0.5, 1})
	b.AddPrimitive(tri, normalViz, at(3, 0, -4, ident))

	hexagon := make([]types.Vec3, 6)
	for i := range hexagon {
		a := twoPi * float32(i) / 6
		hexagon[i] = types.Vec3{math32.Cos(a), math32.Sin(a) + 1, 0}
	}
	b.AddPrimitive(b.Polygon(hexagon), uvViz, at(6, 0, -4, ident))

	mesh := b.TriangleMesh([]MeshTriangle{
		{
			PA: types.Vec3{-1, 0, 1}, PB: types.Vec3{1, 0, 1}, PC: types.Vec3{0, 2, 0},
			NA: types.Vec3{0, 0.45, 0.89}, NB: types.Vec3{0, 0.45, 0.89}, NC: types.Vec3{0, 0.45, 0.89},
			UA: types.Vec2{0, 0}, UB: types.Vec2{1, 0}, UC: types.Vec2{0.5, 1},
		},
		{
			PA: types.Vec3{-1, 0, -1}, PB: types.Vec3{0, 2, 0}, PC: types.Vec3{1, 0, -1},
			NA: types.Vec3{0, 0.45, -0.89}, NB: types.Vec3{0, 0.45, -0.89}, NC: types.Vec3{0, 0.45, -0.89},
			UA: types.Vec2{0, 0}, UB: types.Vec2{0.5, 1}, UC: types.Vec2{1, 0},
		},
	})
	b.AddPrimitive(mesh, glossy, at(0, 0, -8, ident))

	// Emissive sphere plus a point fill light.
	lampMat := b.MatteMaterial(b.ConstantTexture(types.Vec3{0, 0, 0}))
	lampIdx := b.AddPrimitive(b.Sphere(types.Vec3{0, 0, 0}, 0.5), lampMat, at(0, 6, -2, ident))
	b.AddAreaLight(lampIdx, types.Vec3{30, 28, 24}, true)
	b.AddPointLight(types.Vec3{-8, 5, 5}, types.Vec3{40, 40, 44})
	b.AddDirectionalLight(types.Vec3{-0.4, -1, -0.3}, types.Vec3{1.2, 1.1, 0.9})

	// 4x2 gradient sky, brighter toward the zenith.
	sky := []float32{
		0.55, 0.65, 0.95, 0.55, 0.65, 0.95, 0.55, 0.65, 0.95, 0.55, 0.65, 0.95,
		0.35, 0.40, 0.55, 0.35, 0.40, 0.55, 0.35, 0.40, 0.55, 0.35, 0.40, 0.55,
	}
	b.AddEnvironmentLight(4, 2, sky, types.Vec3{0.8, 0.8, 0.8}, 0)

	b.LookAtCamera(
		types.Vec3{0, 4, 12}, types.Vec3{0, 1, -2}, types.Vec3{0, 1, 0},
		1.0, 0, LensThin, 0, 0, frameW, frameH)

	return b.Build()
}
