package renderer

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of indirect bounces.
	NumBounces uint32

	// Min bounces before applying russian roulette for path elimination.
	MinBouncesForRR uint32

	// Number of samples per pixel per rendered frame.
	SamplesPerPixel uint32

	// Exposure for tonemapping.
	Exposure float32

	// Number of parallel tracing workers. Zero selects one per logical CPU.
	NumWorkers uint32

	// Base seed for the per-block random sequences. A fixed seed makes
	// single-frame renders reproducible for a given worker count; later
	// frames depend on the timing-driven block assignment.
	Seed uint32
}
