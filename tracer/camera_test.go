package tracer

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/helios-render/helios/scene"
	"github.com/helios-render/helios/types"
)

func buildCameraScene(lens scene.LensKind, aperture, focal float32) *scene.Scene {
	b := scene.NewBuilder()
	b.LookAtCamera(
		types.Vec3{0, 0, 0}, types.Vec3{0, 0, -1}, types.Vec3{0, 1, 0},
		halfPiTest, 0, lens, aperture, focal, 100, 100)
	return b.Build()
}

const halfPiTest = pi / 2

func TestGeneratePrimaryRayCenter(t *testing.T) {
	ctx := newTestContext(buildCameraScene(scene.LensThin, 0, 0))

	var r Ray
	if !ctx.GeneratePrimaryRay(50, 50, &r) {
		t.Fatal("expected thin lens to always produce a ray")
	}
	if r.Origin != (types.Vec3{0, 0, 0}) {
		t.Fatalf("expected ray origin at the eye; got %v", r.Origin)
	}
	// The frame center looks straight down the viewing axis.
	if r.Dir.Sub(types.Vec3{0, 0, -1}).Len() > 1e-4 {
		t.Fatalf("expected center ray along -z; got %v", r.Dir)
	}
}

func TestGeneratePrimaryRayCorners(t *testing.T) {
	ctx := newTestContext(buildCameraScene(scene.LensThin, 0, 0))

	var r Ray
	if !ctx.GeneratePrimaryRay(0, 0, &r) {
		t.Fatal("expected corner ray")
	}
	// With a 90 degree vertical fov the top edge tilts 45 degrees up.
	if r.Dir[1] <= 0 {
		t.Fatalf("expected top-left ray to point up; got %v", r.Dir)
	}
	if r.Dir[0] >= 0 {
		t.Fatalf("expected top-left ray to point left; got %v", r.Dir)
	}
	if math32.Abs(r.Dir.Len()-1) > 1e-4 {
		t.Fatalf("expected normalized direction; got length %f", r.Dir.Len())
	}
}

func TestFisheyeRejectsOutsideImageCircle(t *testing.T) {
	ctx := newTestContext(buildCameraScene(scene.LensFisheye, 0, 0))

	var r Ray
	if ctx.GeneratePrimaryRay(0, 0, &r) {
		t.Fatal("expected the extreme corner to fall outside the image circle")
	}
	if !ctx.GeneratePrimaryRay(50, 50, &r) {
		t.Fatal("expected the center to stay inside the image circle")
	}
}

func TestThinLensDepthOfField(t *testing.T) {
	ctx := newTestContext(buildCameraScene(scene.LensThin, 0.5, 5))

	var r Ray
	if !ctx.GeneratePrimaryRay(50, 50, &r) {
		t.Fatal("expected ray")
	}
	// Lens samples shift the origin but every ray still crosses the focal
	// point.
	focus := types.Vec3{0, 0, -5}
	toFocus := focus.Sub(r.Origin).Normalize()
	if toFocus.Sub(r.Dir).Len() > 1e-3 {
		t.Fatalf("expected ray through the focal point; dir %v vs %v", r.Dir, toFocus)
	}
}

func TestPixelJitterRange(t *testing.T) {
	ctx := newTestContext(buildCameraScene(scene.LensThin, 0, 0))
	for i := 0; i < 256; i++ {
		dx, dy := ctx.PixelJitter()
		if dx < -1 || dx > 1 || dy < -1 || dy > 1 {
			t.Fatalf("expected jitter in (-1, 1); got (%f, %f)", dx, dy)
		}
	}
}

func TestSampleSequenceDeterminism(t *testing.T) {
	sc := buildSphereScene()
	ctx1 := newTestContext(sc)
	ctx2 := newTestContext(sc)
	ctx1.Seed(42)
	ctx2.Seed(42)

	for i := 0; i < 32; i++ {
		a1 := ctx1.rng.Float32()
		a2 := ctx2.rng.Float32()
		if a1 != a2 {
			t.Fatalf("expected identical sequences after reseeding; got %f vs %f", a1, a2)
		}
	}
}
