package tracer

import "math"

// The BlockScheduler interface is implemented by all block scheduling
// algorithms.
type BlockScheduler interface {
	// Split frame into blocks of variable height and assign to the pool
	// of tracers using feedback collected from previous frames.
	//
	// This function returns the block height assignment for each tracer
	// in the input list.
	Schedule(tracers []Tracer, frameH uint32, lastFrameTime int64) []uint32
}

// The perfect scheduler assumes that the volume of tracing work between two
// subsequent frames is approximately the same, so each tracer's share of the
// next frame follows its measured throughput on the previous one.
type perfectScheduler struct {
	blockAssignment []uint32
}

// Create a new perfect scheduler instance.
func NewPerfectScheduler() BlockScheduler {
	return &perfectScheduler{}
}

func (sch *perfectScheduler) Schedule(tracers []Tracer, frameH uint32, lastFrameTime int64) []uint32 {
	var scheduledRows uint32

	if len(sch.blockAssignment) != len(tracers) {
		// First frame, or the tracer pool changed: fall back to the
		// static speed estimates.
		sch.blockAssignment = make([]uint32, len(tracers))

		var total float64
		for _, tr := range tracers {
			total += float64(tr.SpeedEstimate())
		}
		scaler := float64(frameH) / total

		for idx, tr := range tracers {
			sch.blockAssignment[idx] = uint32(math.Max(1, math.Floor(float64(tr.SpeedEstimate())*scaler)))
			scheduledRows += sch.blockAssignment[idx]
		}
	} else {
		// Weigh each tracer by rows per nanosecond from the last frame.
		var total float64
		for _, tr := range tracers {
			stats := tr.Stats()
			if stats.BlockTime > 0 {
				total += float64(stats.BlockH) / float64(stats.BlockTime)
			}
		}
		if total == 0 {
			return sch.blockAssignment
		}

		scaler := float64(frameH) / total
		for idx, tr := range tracers {
			stats := tr.Stats()
			throughput := float64(0)
			if stats.BlockTime > 0 {
				throughput = float64(stats.BlockH) / float64(stats.BlockTime)
			}
			sch.blockAssignment[idx] = uint32(math.Max(1, math.Floor(throughput*scaler)))
			scheduledRows += sch.blockAssignment[idx]
		}
	}

	// Rounding may leave rows unassigned; hand them to the first tracer.
	if scheduledRows < frameH {
		sch.blockAssignment[0] += frameH - scheduledRows
	}

	return sch.blockAssignment
}
