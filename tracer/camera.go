package tracer

import (
	"github.com/chewxy/math32"
	"github.com/helios-render/helios/scene"
)

// GeneratePrimaryRay maps continuous film coordinates to a world-space
// camera ray. Returns false when the fisheye lens rejects a point outside
// its image circle; the sample then contributes black.
func (ctx *Context) GeneratePrimaryRay(x, y float32, r *Ray) bool {
	cam := &ctx.sc.Camera

	sx := 2*(x/float32(cam.FrameW)) - 1
	sy := 1 - 2*(y/float32(cam.FrameH))

	cx := sx * math32.Tan(cam.FovX*0.5)
	cy := sy * math32.Tan(cam.FovY*0.5)

	var dir [3]float32
	switch cam.Lens {
	case scene.LensFisheye:
		d := cx*cx + cy*cy
		if d > 1 {
			return false
		}
		dir = [3]float32{cx, cy, math32.Sqrt(1 - d)}
	default:
		dir = [3]float32{cx, cy, 1}
	}

	world := cam.U.Mul(dir[0]).Add(cam.V.Mul(dir[1])).Add(cam.W.Mul(dir[2])).Normalize()

	r.Origin = cam.Eye
	r.Dir = world
	r.TMin = 0
	r.TMax = maxRayDistance

	if cam.ApertureRadius > 0 && cam.FocalDistance > 0 {
		lens := sampleConcentricDisk(ctx.rng.Float32(), ctx.rng.Float32())
		focus := cam.Eye.Add(world.Mul(cam.FocalDistance))
		r.Origin = cam.Eye.
			Add(cam.U.Mul(lens[0] * cam.ApertureRadius)).
			Add(cam.V.Mul(lens[1] * cam.ApertureRadius))
		r.Dir = focus.Sub(r.Origin).Normalize()
	}
	return true
}

// PixelJitter draws a tent-filtered subpixel offset in (-1, 1), concentrating
// samples near the pixel center.
func (ctx *Context) PixelJitter() (float32, float32) {
	return tentSample(ctx.rng.Float32()), tentSample(ctx.rng.Float32())
}

func tentSample(u float32) float32 {
	u *= 2
	if u < 1 {
		return math32.Sqrt(u) - 1
	}
	return 1 - math32.Sqrt(2-u)
}
