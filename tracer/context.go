package tracer

import (
	"math/rand"

	"github.com/helios-render/helios/scene"
	"github.com/helios-render/helios/types"
)

// Basis is an orthonormal U/V/W triple; W carries the surface normal.
type Basis struct {
	U types.Vec3
	V types.Vec3
	W types.Vec3
}

// ToLocal expresses a world-space direction in this basis.
func (b *Basis) ToLocal(v types.Vec3) types.Vec3 {
	return types.Vec3{v.Dot(b.U), v.Dot(b.V), v.Dot(b.W)}
}

// ToWorld expresses a basis-local direction in world space.
func (b *Basis) ToWorld(v types.Vec3) types.Vec3 {
	return b.U.Mul(v[0]).Add(b.V.Mul(v[1])).Add(b.W.Mul(v[2]))
}

// Intersection is the per-query scratch record for a surface hit. A context
// keeps two instances: the primary hit and a probe slot for shadow rays cast
// while the primary hit is still needed.
type Intersection struct {
	Primitive int32
	T         float32
	Point     types.Vec3
	Geometric Basis
	Shading   Basis
	UV        types.Vec2
}

// BSDFSample is the scratch result of one material sampling call.
type BSDFSample struct {
	Normal   types.Vec3
	Outgoing types.Vec3
	Incoming types.Vec3
	Color    types.Vec3
	PDF      float32

	// Delta marks a specular lobe; such samples bypass the pdf machinery.
	Delta bool
}

// LightSample is the scratch result of one light sampling attempt.
type LightSample struct {
	Incoming types.Vec3
	Point    types.Vec3
	Radiance types.Vec3
	PDF      float32

	// Distance to the sampled point, used to clip the shadow ray.
	Distance float32
}

// Config bounds the integrator's bounce loop.
type Config struct {
	MaxBounces      uint32
	MinBouncesForRR uint32
}

// Context holds all per-task state for one logical pixel sample: the current
// ray, the two intersection slots and the BSDF/light scratch records. A
// context is exclusively owned by one worker goroutine and is reused between
// samples; it must never be shared across concurrently running tasks. The
// referenced compiled scene is shared and read-only for its generation.
type Context struct {
	sc  *scene.Scene
	rng *rand.Rand
	cfg Config

	ray   Ray
	hit   Intersection
	probe Intersection
	bsdf  BSDFSample
	light LightSample
}

// NewContext creates a per-task context. The random source seeds per-task
// determinism: an identical sequence reproduces bit-identical samples.
func NewContext(sc *scene.Scene, rng *rand.Rand, cfg Config) *Context {
	if cfg.MaxBounces == 0 {
		cfg.MaxBounces = 5
	}
	return &Context{sc: sc, rng: rng, cfg: cfg}
}

// SetScene atomically repoints the context at a new compiled scene
// generation. Must not be called while a sample is in flight.
func (ctx *Context) SetScene(sc *scene.Scene) {
	ctx.sc = sc
}

// Seed replaces the random source, fixing the sample sequence.
func (ctx *Context) Seed(seed int64) {
	ctx.rng = rand.New(rand.NewSource(seed))
}

// Decode a Vec3 stored at data[offset:].
func vec3At(data []float32, offset int32) types.Vec3 {
	return types.Vec3{data[offset], data[offset+1], data[offset+2]}
}

// Decode an inline (kind, offset) texture reference.
func refAt(data []float32, offset int32) scene.KindOffset {
	return scene.KindOffset{Kind: int32(data[offset]), Offset: int32(data[offset+1])}
}

func isBlack(c types.Vec3) bool {
	return c[0] == 0 && c[1] == 0 && c[2] == 0
}

// Flip n so that it lies on the opposite side of dir. Materials use this to
// get the "correctly oriented" normal for the incoming ray.
func faceforward(n, dir types.Vec3) types.Vec3 {
	if n.Dot(dir) > 0 {
		return n.Neg()
	}
	return n
}
