package renderer

import (
	"testing"

	"github.com/helios-render/helios/scene"
	"github.com/helios-render/helios/tracer"
	"github.com/helios-render/helios/types"
)

func buildTestScene(frameW, frameH uint32) *scene.Scene {
	b := scene.NewBuilder()
	matte := b.MatteMaterial(b.ConstantTexture(types.Vec3{0.7, 0.7, 0.7}))
	b.AddPrimitive(b.Sphere(types.Vec3{0, 0, -3}, 1), matte, types.Ident4())
	b.AddEnvironmentLight(0, 0, nil, types.Vec3{0.8, 0.8, 0.8}, 0)
	b.LookAtCamera(
		types.Vec3{0, 0, 0}, types.Vec3{0, 0, -1}, types.Vec3{0, 1, 0},
		1.0, 0, scene.LensThin, 0, 0, frameW, frameH)
	return b.Build()
}

func TestNewDefaultValidation(t *testing.T) {
	if _, err := NewDefault(nil, tracer.NewPerfectScheduler(), Options{FrameW: 16, FrameH: 16}); err != ErrSceneNotDefined {
		t.Fatalf("expected ErrSceneNotDefined; got %v", err)
	}
	if _, err := NewDefault(buildTestScene(16, 16), tracer.NewPerfectScheduler(), Options{FrameW: 0, FrameH: 16}); err != ErrInvalidFrameDims {
		t.Fatalf("expected ErrInvalidFrameDims; got %v", err)
	}
}

func TestNewDefaultRejectsCameraMismatch(t *testing.T) {
	sc := buildTestScene(16, 16)
	if _, err := NewDefault(sc, tracer.NewPerfectScheduler(), Options{FrameW: 8, FrameH: 8}); err != ErrInvalidFrameDims {
		t.Fatalf("expected ErrInvalidFrameDims for mismatched camera; got %v", err)
	}
	// The compiled scene must stay untouched.
	if sc.Camera.FrameW != 16 || sc.Camera.FrameH != 16 {
		t.Fatalf("expected camera dimensions to stay 16x16; got %dx%d", sc.Camera.FrameW, sc.Camera.FrameH)
	}
}

func TestRenderFrame(t *testing.T) {
	opts := Options{
		FrameW:          16,
		FrameH:          16,
		NumBounces:      2,
		MinBouncesForRR: 10,
		SamplesPerPixel: 2,
		Exposure:        1,
		NumWorkers:      2,
		Seed:            1,
	}
	r, err := NewDefault(buildTestScene(16, 16), tracer.NewPerfectScheduler(), opts)
	if err != nil {
		t.Fatalf("unexpected renderer error: %v", err)
	}
	defer r.Close()

	if err = r.Render(); err != nil {
		t.Fatalf("unexpected render error: %v", err)
	}

	img := r.Frame()
	if img.Bounds().Dx() != 16 || img.Bounds().Dy() != 16 {
		t.Fatalf("expected 16x16 frame; got %v", img.Bounds())
	}

	lit := 0
	for i := 0; i < len(img.Pix); i += 4 {
		if img.Pix[i+3] != 255 {
			t.Fatalf("expected opaque pixel at %d; got alpha %d", i/4, img.Pix[i+3])
		}
		if img.Pix[i] > 0 {
			lit++
		}
	}
	if lit == 0 {
		t.Fatal("expected at least one lit pixel")
	}

	stats := r.Stats()
	if len(stats.Tracers) != 2 {
		t.Fatalf("expected stats for 2 tracers; got %d", len(stats.Tracers))
	}
	var rows uint32
	for _, ts := range stats.Tracers {
		rows += ts.BlockH
	}
	if rows != opts.FrameH {
		t.Fatalf("expected tracers to cover all %d rows; got %d", opts.FrameH, rows)
	}
	if stats.RenderTime <= 0 {
		t.Fatal("expected positive frame render time")
	}
}

func TestProgressiveAccumulation(t *testing.T) {
	opts := Options{
		FrameW:          8,
		FrameH:          8,
		NumBounces:      2,
		MinBouncesForRR: 10,
		SamplesPerPixel: 1,
		NumWorkers:      1,
		Seed:            3,
	}
	r, err := NewDefault(buildTestScene(8, 8), tracer.NewPerfectScheduler(), opts)
	if err != nil {
		t.Fatalf("unexpected renderer error: %v", err)
	}
	defer r.Close()

	for frame := 0; frame < 3; frame++ {
		if err = r.Render(); err != nil {
			t.Fatalf("unexpected render error on frame %d: %v", frame, err)
		}
	}
	if r.Stats().RenderTime <= 0 {
		t.Fatal("expected populated stats after progressive frames")
	}
}
