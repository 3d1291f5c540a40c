package tracer

import (
	"github.com/helios-render/helios/scene"
	"github.com/helios-render/helios/types"
)

const (
	// Offset applied to secondary ray origins to avoid self-intersection.
	rayEpsilon float32 = 1e-3

	maxRayDistance float32 = 1e30
)

// Ray is mutated in place: intersection tests tighten TMax to the closest
// hit so far, and the transform helpers move it between world and object
// space. The direction is intentionally not re-normalized in object space so
// that parametric distances remain valid in both spaces.
type Ray struct {
	Origin types.Vec3
	Dir    types.Vec3
	TMin   float32
	TMax   float32
}

// At returns the point at parametric distance t.
func (r *Ray) At(t float32) types.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// ToObject transforms the ray into the primitive's object space.
func (r *Ray) ToObject(tr *scene.Transform) {
	r.Origin = tr.WorldToObject.MulPoint(r.Origin)
	r.Dir = tr.WorldToObject.MulVector(r.Dir)
}

// ToWorld transforms the ray back into world space.
func (r *Ray) ToWorld(tr *scene.Transform) {
	r.Origin = tr.ObjectToWorld.MulPoint(r.Origin)
	r.Dir = tr.ObjectToWorld.MulVector(r.Dir)
}
