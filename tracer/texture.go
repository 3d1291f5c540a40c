package tracer

import (
	"github.com/chewxy/math32"
	"github.com/helios-render/helios/scene"
	"github.com/helios-render/helios/types"
)

// neutralGray stands in for unresolvable texture references so a bad scene
// renders visibly wrong instead of crashing a worker.
var neutralGray = types.Vec3{0.5, 0.5, 0.5}

// EvalTexture resolves a texture reference to a color at the intersection.
// Selector textures (checkerboard, polka dot, bullseye) pick one of their two
// children and the loop continues down the chain; blend is the only kind that
// needs both children and recurses for the second one.
func (ctx *Context) EvalTexture(ref scene.KindOffset, isect *Intersection) types.Vec3 {
	for ref.Valid() {
		if ref.Kind >= scene.TextureKindCount {
			return neutralGray
		}
		data := ctx.sc.TextureData[ref.Kind][ref.Offset:]

		switch ref.Kind {
		case scene.TextureConstant:
			return vec3At(data, scene.ConstantColor)

		case scene.TextureImage:
			return ctx.evalImageTexture(data, isect)

		case scene.TextureMarble:
			return evalMarbleTexture(data, isect)

		case scene.TextureFBM:
			return evalFBMTexture(data, isect)

		case scene.TextureBlend:
			a := ctx.EvalTexture(refAt(data, scene.BlendTextureA), isect)
			b := ctx.EvalTexture(refAt(data, scene.BlendTextureB), isect)
			return a.Lerp(b, data[scene.BlendWeight])

		case scene.TextureBullseye:
			origin := vec3At(data, scene.BullseyeOrigin)
			dist := isect.Point.Sub(origin).Len() * data[scene.BullseyeScale]
			if int(dist)&1 == 0 {
				ref = refAt(data, scene.BullseyeTextureA)
			} else {
				ref = refAt(data, scene.BullseyeTextureB)
			}

		case scene.TextureCheckerboard:
			u, v := rotateUV(isect.UV, data[scene.CheckerboardAngle])
			iu := int(math32.Floor(u * data[scene.CheckerboardScaleU]))
			iv := int(math32.Floor(v * data[scene.CheckerboardScaleV]))
			if (iu+iv)&1 == 0 {
				ref = refAt(data, scene.CheckerboardTextureA)
			} else {
				ref = refAt(data, scene.CheckerboardTextureB)
			}

		case scene.TexturePolkaDot:
			u, v := rotateUV(isect.UV, data[scene.PolkaDotAngle])
			res := data[scene.PolkaDotCellRes]
			cu := u*res - math32.Floor(u*res) - 0.5
			cv := v*res - math32.Floor(v*res) - 0.5
			r := data[scene.PolkaDotDotRadius]
			if cu*cu+cv*cv < r*r {
				ref = refAt(data, scene.PolkaDotTextureA)
			} else {
				ref = refAt(data, scene.PolkaDotTextureB)
			}

		case scene.TextureNormalViz:
			n := isect.Shading.W
			return types.Vec3{
				(n[0] + 1) * 0.5,
				(n[1] + 1) * 0.5,
				(n[2] + 1) * 0.5,
			}

		case scene.TextureUVViz:
			return types.Vec3{
				isect.UV[0] - math32.Floor(isect.UV[0]),
				isect.UV[1] - math32.Floor(isect.UV[1]),
				0,
			}

		default:
			return neutralGray
		}
	}
	return neutralGray
}

func rotateUV(uv types.Vec2, angle float32) (float32, float32) {
	if angle == 0 {
		return uv[0], uv[1]
	}
	sin, cos := math32.Sincos(angle)
	return uv[0]*cos - uv[1]*sin, uv[0]*sin + uv[1]*cos
}

// evalImageTexture samples the shared texel block with bilinear filtering and
// wrap addressing.
func (ctx *Context) evalImageTexture(data []float32, isect *Intersection) types.Vec3 {
	w := int(data[scene.ImageWidth])
	h := int(data[scene.ImageHeight])
	if w <= 0 || h <= 0 {
		return neutralGray
	}

	u, v := rotateUV(isect.UV, data[scene.ImageAngle])
	u *= data[scene.ImageScaleU]
	v *= data[scene.ImageScaleV]

	x := positiveMod(u*float32(w)-0.5, float32(w))
	y := positiveMod(v*float32(h)-0.5, float32(h))

	x0 := int(x)
	y0 := int(y)
	fx := x - float32(x0)
	fy := y - float32(y0)
	x1 := (x0 + 1) % w
	y1 := (y0 + 1) % h

	base := int32(data[scene.ImageTexelOffset])
	texels := ctx.sc.TexelData

	c00 := vec3At(texels, base+int32(y0*w+x0)*3)
	c10 := vec3At(texels, base+int32(y0*w+x1)*3)
	c01 := vec3At(texels, base+int32(y1*w+x0)*3)
	c11 := vec3At(texels, base+int32(y1*w+x1)*3)

	top := c00.Lerp(c10, fx)
	bottom := c01.Lerp(c11, fx)
	return top.Lerp(bottom, fy)
}

// evalMarbleTexture layers three colors through a sine over turbulent noise.
func evalMarbleTexture(data []float32, isect *Intersection) types.Vec3 {
	colorA := vec3At(data, scene.MarbleColorA)
	colorB := vec3At(data, scene.MarbleColorB)
	colorC := vec3At(data, scene.MarbleColorC)
	freq := data[scene.MarbleFrequency]
	sc := data[scene.MarbleScale]
	stripes := data[scene.MarbleStripes]
	octaves := int(data[scene.MarbleOctaves])

	p := isect.Point
	turb := turbulence(p[0]*freq, p[1]*freq, p[2]*freq, octaves)
	t := 2 * math32.Abs(math32.Sin(p[0]*stripes+sc*turb))

	if t < 1 {
		return colorC.Mul(t).Add(colorB.Mul(1 - t))
	}
	t -= 1
	return colorB.Mul(t).Add(colorA.Mul(1 - t))
}

// evalFBMTexture modulates a base color by normalized fractional Brownian
// motion.
func evalFBMTexture(data []float32, isect *Intersection) types.Vec3 {
	color := vec3At(data, scene.FBMColor)
	freq := data[scene.FBMFrequency]
	gain := data[scene.FBMGain]
	octaves := int(data[scene.FBMOctaves])

	p := isect.Point
	n := fractionalBrownianMotion(p[0], p[1], p[2], freq, gain, octaves)
	return color.Mul(clamp(0.5*(n+1), 0, 1))
}
