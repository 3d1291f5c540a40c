package tracer

import (
	"testing"

	"github.com/helios-render/helios/scene"
	"github.com/helios-render/helios/types"
)

func buildEnvScene() *scene.Scene {
	b := scene.NewBuilder()
	b.AddEnvironmentLight(0, 0, nil, types.Vec3{1, 1, 1}, 0)
	b.LookAtCamera(
		types.Vec3{0, 0, 0}, types.Vec3{0, 0, -1}, types.Vec3{0, 1, 0},
		1.0, 0, scene.LensThin, 0, 0, 8, 8)
	return b.Build()
}

func renderBlock(t *testing.T, tr Tracer, req BlockRequest) {
	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)
	req.DoneChan = doneChan
	req.ErrChan = errChan

	tr.Enqueue(req)
	select {
	case rows := <-doneChan:
		if rows != req.BlockH {
			t.Fatalf("expected %d completed rows; got %d", req.BlockH, rows)
		}
	case err := <-errChan:
		t.Fatalf("unexpected block error: %v", err)
	}
}

func TestCPUTracerRendersBlock(t *testing.T) {
	sc := buildEnvScene()
	accum := make([]float32, 8*8*4)
	frame := make([]uint8, 8*8*4)

	tr := NewCPUTracer("test-0", Config{MaxBounces: 2, MinBouncesForRR: 10})
	defer tr.Close()
	if err := tr.Setup(sc, 8, 8, accum, frame); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	renderBlock(t, tr, BlockRequest{
		BlockY: 0, BlockH: 8,
		SamplesPerPixel: 4,
		Exposure:        1,
		Seed:            7,
	})

	// Every camera ray escapes into a white environment, so every pixel
	// must be saturated and opaque.
	for i := 0; i < len(frame); i += 4 {
		if frame[i] != 255 || frame[i+3] != 255 {
			t.Fatalf("expected white opaque pixel at %d; got %v", i/4, frame[i:i+4])
		}
	}

	stats := tr.Stats()
	if stats.BlockH != 8 || stats.BlockTime <= 0 {
		t.Fatalf("expected populated stats; got %+v", stats)
	}
}

func TestCPUTracerRejectsOutOfBoundsBlock(t *testing.T) {
	sc := buildEnvScene()
	tr := NewCPUTracer("test-0", Config{})
	defer tr.Close()
	if err := tr.Setup(sc, 8, 8, make([]float32, 8*8*4), make([]uint8, 8*8*4)); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	doneChan := make(chan uint32, 1)
	errChan := make(chan error, 1)
	tr.Enqueue(BlockRequest{
		BlockY: 6, BlockH: 4,
		SamplesPerPixel: 1,
		DoneChan:        doneChan,
		ErrChan:         errChan,
	})

	select {
	case <-doneChan:
		t.Fatal("expected an error for a block past the frame bottom")
	case err := <-errChan:
		if err != ErrInvalidBlockRequest {
			t.Fatalf("expected ErrInvalidBlockRequest; got %v", err)
		}
	}
}

func TestCPUTracerSetupTwice(t *testing.T) {
	sc := buildEnvScene()
	tr := NewCPUTracer("test-0", Config{})
	defer tr.Close()

	if err := tr.Setup(sc, 8, 8, make([]float32, 8*8*4), make([]uint8, 8*8*4)); err != nil {
		t.Fatalf("setup failed: %v", err)
	}
	if err := tr.Setup(sc, 8, 8, make([]float32, 8*8*4), make([]uint8, 8*8*4)); err != ErrAlreadySetup {
		t.Fatalf("expected ErrAlreadySetup; got %v", err)
	}
}

func TestCPUTracerSceneSwap(t *testing.T) {
	sc := buildEnvScene()
	tr := NewCPUTracer("test-0", Config{})
	defer tr.Close()
	if err := tr.Setup(sc, 8, 8, make([]float32, 8*8*4), make([]uint8, 8*8*4)); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	next := buildEnvScene()
	tr.AppendChange(SetScene, next)
	if err := tr.ApplyPendingChanges(); err != nil {
		t.Fatalf("expected scene swap to apply; got %v", err)
	}

	tr.AppendChange(SetScene, "not a scene")
	if err := tr.ApplyPendingChanges(); err != ErrInvalidChangePayload {
		t.Fatalf("expected ErrInvalidChangePayload; got %v", err)
	}
}

func TestDeterministicBlocks(t *testing.T) {
	sc := buildEnvScene()

	render := func() []uint8 {
		accum := make([]float32, 8*8*4)
		frame := make([]uint8, 8*8*4)
		tr := NewCPUTracer("det", Config{MaxBounces: 2, MinBouncesForRR: 10})
		defer tr.Close()
		if err := tr.Setup(sc, 8, 8, accum, frame); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		renderBlock(t, tr, BlockRequest{
			BlockY: 0, BlockH: 8,
			SamplesPerPixel: 2,
			Exposure:        1,
			Seed:            99,
		})
		return frame
	}

	f1 := render()
	f2 := render()
	for i := range f1 {
		if f1[i] != f2[i] {
			t.Fatalf("expected identical frames for identical seeds; differ at byte %d", i)
		}
	}
}
