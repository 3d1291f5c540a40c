package tracer

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/chewxy/math32"
	"github.com/helios-render/helios/log"
	"github.com/helios-render/helios/scene"
)

// cpuTracer renders assigned blocks on one worker goroutine. The renderer
// attaches one tracer per logical core and lets the block scheduler balance
// rows between them using per-frame timing feedback.
type cpuTracer struct {
	sync.Mutex
	wg sync.WaitGroup

	logger log.Logger

	// The tracer's id.
	id string

	// Integrator configuration shared by all samples.
	cfg Config

	// Per-worker tracing context; owns the intersection scratch slots.
	ctx *Context

	// The compiled scene to be rendered.
	scene *scene.Scene

	// The output frame dimensions.
	frameW uint32
	frameH uint32

	// Accumulation buffer: RGB sums plus a sample count per pixel.
	accumBuffer []float32

	// Tonemapped RGBA output.
	frameBuffer []uint8

	// Buffered scene/camera changes applied between frames.
	pendingChanges []pendingChange

	// A channel for receiving block requests from the renderer.
	blockReqChan chan BlockRequest

	// A channel for signaling the worker to exit.
	closeChan chan struct{}

	stats Stats
}

type pendingChange struct {
	changeType ChangeType
	payload    interface{}
}

// NewCPUTracer creates a tracer that renders on a single goroutine.
func NewCPUTracer(id string, cfg Config) Tracer {
	return &cpuTracer{
		logger:       log.New(fmt.Sprintf("cpu tracer (%s)", id)),
		id:           id,
		cfg:          cfg,
		blockReqChan: make(chan BlockRequest),
		closeChan:    make(chan struct{}),
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Get speed estimate.
func (tr *cpuTracer) SpeedEstimate() float32 {
	return 1.0
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	if tr.closeChan == nil {
		return
	}
	close(tr.closeChan)
	tr.wg.Wait()
	tr.closeChan = nil
}

// Attach tracer to render target and start processing incoming block requests.
func (tr *cpuTracer) Setup(sc *scene.Scene, frameW, frameH uint32, accumBuffer []float32, frameBuffer []uint8) error {
	tr.Lock()
	defer tr.Unlock()

	if tr.ctx != nil {
		return ErrAlreadySetup
	}
	if sc == nil {
		return ErrSceneNotDefined
	}

	tr.scene = sc
	tr.frameW = frameW
	tr.frameH = frameH
	tr.accumBuffer = accumBuffer
	tr.frameBuffer = frameBuffer
	tr.ctx = NewContext(sc, rand.New(rand.NewSource(1)), tr.cfg)

	readyChan := make(chan struct{})
	tr.wg.Add(1)
	go func() {
		defer tr.wg.Done()
		close(readyChan)
		for {
			select {
			case blockReq := <-tr.blockReqChan:
				start := time.Now()
				if err := tr.process(&blockReq); err != nil {
					blockReq.ErrChan <- err
					continue
				}
				tr.stats.BlockH = blockReq.BlockH
				tr.stats.BlockTime = time.Since(start).Nanoseconds()
				blockReq.DoneChan <- blockReq.BlockH
			case <-tr.closeChan:
				return
			}
		}
	}()
	<-readyChan

	return nil
}

// Enqueue block request.
func (tr *cpuTracer) Enqueue(blockReq BlockRequest) {
	select {
	case tr.blockReqChan <- blockReq:
	case <-tr.closeChan:
		tr.logger.Warning("request processing aborted; tracer is closing")
	}
}

// Append a change to the tracer's update buffer.
func (tr *cpuTracer) AppendChange(changeType ChangeType, payload interface{}) {
	tr.Lock()
	defer tr.Unlock()
	tr.pendingChanges = append(tr.pendingChanges, pendingChange{changeType, payload})
}

// Apply all pending changes from the update buffer.
func (tr *cpuTracer) ApplyPendingChanges() error {
	tr.Lock()
	defer tr.Unlock()

	for _, change := range tr.pendingChanges {
		switch change.changeType {
		case SetScene:
			sc, ok := change.payload.(*scene.Scene)
			if !ok || sc == nil {
				return ErrInvalidChangePayload
			}
			tr.scene = sc
			tr.ctx.SetScene(sc)
		case UpdateCamera:
			cam, ok := change.payload.(*scene.Camera)
			if !ok || cam == nil {
				return ErrInvalidChangePayload
			}
			tr.scene.Camera = *cam
			tr.ctx.SetScene(tr.scene)
		default:
			return ErrInvalidChangePayload
		}
	}
	tr.pendingChanges = tr.pendingChanges[:0]
	return nil
}

// Retrieve last frame statistics.
func (tr *cpuTracer) Stats() *Stats {
	return &tr.stats
}

// process renders the request's row block into the shared buffers. Blocks
// assigned to different tracers never overlap so no locking is needed on the
// pixel data itself.
func (tr *cpuTracer) process(blockReq *BlockRequest) error {
	if blockReq.BlockY+blockReq.BlockH > tr.frameH {
		return ErrInvalidBlockRequest
	}

	tr.ctx.Seed(int64(blockReq.Seed))

	var ray Ray
	for y := blockReq.BlockY; y < blockReq.BlockY+blockReq.BlockH; y++ {
		for x := uint32(0); x < tr.frameW; x++ {
			var sum [3]float32
			for s := uint32(0); s < blockReq.SamplesPerPixel; s++ {
				dx, dy := tr.ctx.PixelJitter()
				if !tr.ctx.GeneratePrimaryRay(float32(x)+0.5+dx*0.5, float32(y)+0.5+dy*0.5, &ray) {
					continue
				}
				c := tr.ctx.Li(&ray)
				sum[0] += c[0]
				sum[1] += c[1]
				sum[2] += c[2]
			}

			idx := (y*tr.frameW + x) * 4
			tr.accumBuffer[idx] += sum[0]
			tr.accumBuffer[idx+1] += sum[1]
			tr.accumBuffer[idx+2] += sum[2]
			tr.accumBuffer[idx+3] += float32(blockReq.SamplesPerPixel)
			tr.tonemapPixel(idx, blockReq.Exposure)
		}
	}
	return nil
}

// tonemapPixel converts one accumulated pixel to LDR with simple exposure
// scaling and gamma 2.2.
func (tr *cpuTracer) tonemapPixel(idx uint32, exposure float32) {
	count := tr.accumBuffer[idx+3]
	if count == 0 {
		return
	}
	if exposure == 0 {
		exposure = 1
	}
	inv := exposure / count
	for c := uint32(0); c < 3; c++ {
		v := clamp(tr.accumBuffer[idx+c]*inv, 0, 1)
		tr.frameBuffer[idx+c] = uint8(math32.Pow(v, 1/2.2)*255 + 0.5)
	}
	tr.frameBuffer[idx+3] = 255
}
