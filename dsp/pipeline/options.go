package pipeline

// DefaultTickHz is the transport service rate: one egress demand per
// millisecond, matching USB full-speed SOF timing.
const DefaultTickHz = 1000

// Channels is the fixed interleaved channel count of the pipeline.
const Channels = 2

type config struct {
	tickHz       int
	bitDepth     int
	frameLength  int // 0 means derive from the sample rate
	bufferFrames int
}

func defaultConfig() config {
	return config{
		tickHz:       DefaultTickHz,
		bitDepth:     24,
		bufferFrames: 8,
	}
}

// Option adjusts loop construction parameters.
type Option func(*config)

// WithTickHz sets the service tick rate the egress side is driven at.
func WithTickHz(tickHz int) Option {
	return func(cfg *config) {
		if tickHz > 0 {
			cfg.tickHz = tickHz
		}
	}
}

// WithBitDepth sets the declared transport bit depth.
func WithBitDepth(bitDepth int) Option {
	return func(cfg *config) {
		if bitDepth > 0 {
			cfg.bitDepth = bitDepth
		}
	}
}

// WithFrameLength overrides the samples-per-channel processed per audio
// task iteration. The default is one service tick's worth.
func WithFrameLength(frameLength int) Option {
	return func(cfg *config) {
		if frameLength > 0 {
			cfg.frameLength = frameLength
		}
	}
}

// WithBufferFrames sets how many frames each ring buffer can hold.
func WithBufferFrames(frames int) Option {
	return func(cfg *config) {
		if frames > 0 {
			cfg.bufferFrames = frames
		}
	}
}
