package renderer

import (
	"image"
	"runtime"
	"strconv"
	"time"

	"github.com/helios-render/helios/log"
	"github.com/helios-render/helios/scene"
	"github.com/helios-render/helios/tracer"
)

// defaultRenderer drives a pool of CPU tracers over shared accumulation and
// frame buffers. Repeated Render calls accumulate samples progressively; the
// scheduler rebalances block heights between frames from timing feedback.
type defaultRenderer struct {
	logger log.Logger

	options   Options
	scheduler tracer.BlockScheduler
	tracers   []tracer.Tracer

	accumBuffer []float32
	frameBuffer []uint8

	frameCount    uint32
	lastFrameTime int64
	frameStats    FrameStats

	doneChan chan uint32
	errChan  chan error
}

// NewDefault creates a renderer with one single-goroutine tracer per worker
// so the block scheduler can balance rows across them.
func NewDefault(sc *scene.Scene, scheduler tracer.BlockScheduler, opts Options) (Renderer, error) {
	if sc == nil {
		return nil, ErrSceneNotDefined
	}
	if opts.FrameW == 0 || opts.FrameH == 0 {
		return nil, ErrInvalidFrameDims
	}
	if opts.NumWorkers == 0 {
		opts.NumWorkers = uint32(runtime.NumCPU())
	}
	if opts.SamplesPerPixel == 0 {
		opts.SamplesPerPixel = 1
	}
	if opts.Exposure == 0 {
		opts.Exposure = 1
	}

	// Compiled scenes are read-only; the camera must already carry the
	// requested frame dimensions.
	if sc.Camera.FrameW != opts.FrameW || sc.Camera.FrameH != opts.FrameH {
		return nil, ErrInvalidFrameDims
	}

	r := &defaultRenderer{
		logger:      log.New("renderer"),
		options:     opts,
		scheduler:   scheduler,
		accumBuffer: make([]float32, opts.FrameW*opts.FrameH*4),
		frameBuffer: make([]uint8, opts.FrameW*opts.FrameH*4),
		doneChan:    make(chan uint32),
		errChan:     make(chan error),
	}

	cfg := tracer.Config{
		MaxBounces:      opts.NumBounces,
		MinBouncesForRR: opts.MinBouncesForRR,
	}
	for i := uint32(0); i < opts.NumWorkers; i++ {
		tr := tracer.NewCPUTracer("worker-"+strconv.Itoa(int(i)), cfg)
		if err := tr.Setup(sc, opts.FrameW, opts.FrameH, r.accumBuffer, r.frameBuffer); err != nil {
			r.Close()
			return nil, err
		}
		r.tracers = append(r.tracers, tr)
	}
	if len(r.tracers) == 0 {
		return nil, ErrNoTracers
	}

	r.logger.Noticef("attached %d tracers for a %dx%d frame", len(r.tracers), opts.FrameW, opts.FrameH)
	return r, nil
}

// Render frame.
func (r *defaultRenderer) Render() error {
	if len(r.tracers) == 0 {
		return ErrNoTracers
	}

	for _, tr := range r.tracers {
		if err := tr.ApplyPendingChanges(); err != nil {
			return err
		}
	}

	start := time.Now()
	blockAssignment := r.scheduler.Schedule(r.tracers, r.options.FrameH, r.lastFrameTime)

	var blockY uint32
	pending := 0
	for idx, tr := range r.tracers {
		blockH := blockAssignment[idx]
		if blockY+blockH > r.options.FrameH {
			blockH = r.options.FrameH - blockY
		}
		if blockH == 0 {
			continue
		}
		tr.Enqueue(tracer.BlockRequest{
			BlockY:          blockY,
			BlockH:          blockH,
			SamplesPerPixel: r.options.SamplesPerPixel,
			Exposure:        r.options.Exposure,
			Seed:            r.options.Seed + r.frameCount*uint32(len(r.tracers)) + uint32(idx),
			FrameCount:      r.frameCount,
			DoneChan:        r.doneChan,
			ErrChan:         r.errChan,
		})
		blockY += blockH
		pending++
	}

	for pending > 0 {
		select {
		case <-r.doneChan:
			pending--
		case err := <-r.errChan:
			return err
		}
	}

	r.lastFrameTime = time.Since(start).Nanoseconds()
	r.frameCount++
	r.collectStats(blockAssignment)
	return nil
}

func (r *defaultRenderer) collectStats(blockAssignment []uint32) {
	r.frameStats.Tracers = r.frameStats.Tracers[:0]
	for idx, tr := range r.tracers {
		stats := tr.Stats()
		r.frameStats.Tracers = append(r.frameStats.Tracers, TracerStat{
			Id:           tr.Id(),
			BlockH:       blockAssignment[idx],
			FramePercent: float32(blockAssignment[idx]) / float32(r.options.FrameH) * 100,
			RenderTime:   time.Duration(stats.BlockTime),
		})
	}
	r.frameStats.RenderTime = time.Duration(r.lastFrameTime)
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	for _, tr := range r.tracers {
		tr.Close()
	}
	r.tracers = nil
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	return r.frameStats
}

// Frame copies the tonemapped framebuffer into an RGBA image.
func (r *defaultRenderer) Frame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, int(r.options.FrameW), int(r.options.FrameH)))
	copy(img.Pix, r.frameBuffer)
	return img
}
