package tracer

import (
	"testing"

	"github.com/helios-render/helios/scene"
)

type mockTracer struct {
	id    string
	speed float32
	stats Stats
}

func (tr *mockTracer) Id() string             { return tr.id }
func (tr *mockTracer) Close()                 {}
func (tr *mockTracer) SpeedEstimate() float32 { return tr.speed }
func (tr *mockTracer) Setup(sc *scene.Scene, frameW, frameH uint32, accumBuffer []float32, frameBuffer []uint8) error {
	return nil
}
func (tr *mockTracer) Enqueue(blockReq BlockRequest)                   {}
func (tr *mockTracer) AppendChange(change ChangeType, val interface{}) {}
func (tr *mockTracer) ApplyPendingChanges() error                      { return nil }
func (tr *mockTracer) Stats() *Stats                                   { return &tr.stats }

func TestPerfectSchedulerFirstFrame(t *testing.T) {
	type spec struct {
		speed1   float32
		speed2   float32
		frameH   uint32
		expRows1 uint32
		expRows2 uint32
	}
	specs := []spec{
		{1, 1, 10, 5, 5},
		{1, 4, 10, 2, 8},
		{4, 1, 10, 8, 2},
	}

	for index, s := range specs {
		tracers := []Tracer{
			&mockTracer{id: "mock-1", speed: s.speed1},
			&mockTracer{id: "mock-2", speed: s.speed2},
		}

		sch := NewPerfectScheduler()
		blockAssignment := sch.Schedule(tracers, s.frameH, 0)

		if blockAssignment[0] != s.expRows1 {
			t.Fatalf("[spec %d] expected tracer 0 to be assigned %d rows; got %d", index, s.expRows1, blockAssignment[0])
		}
		if blockAssignment[1] != s.expRows2 {
			t.Fatalf("[spec %d] expected tracer 1 to be assigned %d rows; got %d", index, s.expRows2, blockAssignment[1])
		}
	}
}

func TestPerfectSchedulerFirstFrameCoversAllRows(t *testing.T) {
	// Flooring equal shares of 10 rows across 3 tracers leaves a remainder
	// row; it must still be assigned.
	tracers := []Tracer{
		&mockTracer{id: "mock-1", speed: 1},
		&mockTracer{id: "mock-2", speed: 1},
		&mockTracer{id: "mock-3", speed: 1},
	}

	blockAssignment := NewPerfectScheduler().Schedule(tracers, 10, 0)

	var total uint32
	for _, rows := range blockAssignment {
		total += rows
	}
	if total != 10 {
		t.Fatalf("expected all 10 rows assigned on the first frame; got %d (%v)", total, blockAssignment)
	}
}

func TestPerfectSchedulerUsesFeedback(t *testing.T) {
	tr1 := &mockTracer{id: "mock-1", speed: 1}
	tr2 := &mockTracer{id: "mock-2", speed: 1}
	tracers := []Tracer{tr1, tr2}

	sch := NewPerfectScheduler()
	// First frame falls back to speed estimates.
	sch.Schedule(tracers, 10, 0)

	// Tracer 2 rendered its rows five times slower.
	tr1.stats = Stats{BlockH: 5, BlockTime: 100}
	tr2.stats = Stats{BlockH: 5, BlockTime: 500}
	blockAssignment := sch.Schedule(tracers, 12, 600)

	if blockAssignment[0] <= blockAssignment[1] {
		t.Fatalf("expected the faster tracer to get more rows; got %v", blockAssignment)
	}
	if blockAssignment[0]+blockAssignment[1] != 12 {
		t.Fatalf("expected assignments to cover the frame; got %v", blockAssignment)
	}
}

func TestPerfectSchedulerAssignsAllRows(t *testing.T) {
	tracers := []Tracer{
		&mockTracer{id: "mock-1", speed: 1},
		&mockTracer{id: "mock-2", speed: 1},
		&mockTracer{id: "mock-3", speed: 1},
	}

	sch := NewPerfectScheduler()
	sch.Schedule(tracers, 100, 0)

	for i, tr := range tracers {
		tr.(*mockTracer).stats = Stats{BlockH: 33, BlockTime: int64(100 + i)}
	}
	blockAssignment := sch.Schedule(tracers, 100, 300)

	var total uint32
	for _, rows := range blockAssignment {
		total += rows
	}
	if total != 100 {
		t.Fatalf("expected 100 scheduled rows; got %d (%v)", total, blockAssignment)
	}
}
