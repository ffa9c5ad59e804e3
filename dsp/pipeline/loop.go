package pipeline

import (
	"fmt"

	"github.com/cwbudde/algo-fxpipe/dsp/effects"
	"github.com/cwbudde/algo-fxpipe/dsp/ring"
)

// Loop orchestrates one loopback pipeline instance.
//
// Data flows host -> Ingress -> rx ring -> Process -> effect -> tx ring ->
// Egress -> host. Ingress and Egress are intended to be called from the
// transport callback context; Process runs in the cooperative main loop.
// Neither side blocks: on overrun a frame is dropped, on underrun the
// egress output is padded.
type Loop struct {
	fx    effects.Processor
	rx    *ring.Buffer
	tx    *ring.Buffer
	clock *ClockSync

	sampleRate  int
	bitDepth    int
	tickHz      int
	frameLength int

	scratchIn  []int32
	scratchOut []int32

	bufferFrames int

	enableSource func() bool
	formatSource func() (bitDepth, sampleRate int)
}

// NewLoop builds a pipeline around the given effect variant and nominal
// sample rate. All buffers are sized here; the processing paths allocate
// nothing.
func NewLoop(fx effects.Processor, sampleRate int, opts ...Option) (*Loop, error) {
	if fx == nil {
		return nil, fmt.Errorf("loop requires an effect processor")
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("loop sample rate must be > 0: %d", sampleRate)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	l := &Loop{
		fx:           fx,
		bitDepth:     cfg.bitDepth,
		tickHz:       cfg.tickHz,
		bufferFrames: cfg.bufferFrames,
	}

	if err := l.configure(sampleRate, cfg.frameLength); err != nil {
		return nil, err
	}
	return l, nil
}

// configure sizes every buffer for the given rate and resets the engine.
func (l *Loop) configure(sampleRate, frameLength int) error {
	if frameLength <= 0 {
		frameLength = sampleRate / DefaultTickHz
		if frameLength < 1 {
			frameLength = 1
		}
	}

	frameCells := frameLength * Channels
	slots := l.bufferFrames*frameCells + 1

	rx, err := ring.New(slots)
	if err != nil {
		return fmt.Errorf("ingress ring: %w", err)
	}
	tx, err := ring.New(slots)
	if err != nil {
		return fmt.Errorf("egress ring: %w", err)
	}
	clock, err := NewClockSync(sampleRate, l.tickHz)
	if err != nil {
		return err
	}

	if err := l.fx.SetFormat(l.bitDepth, sampleRate); err != nil {
		return fmt.Errorf("effect format: %w", err)
	}
	if err := l.fx.Init(); err != nil {
		return fmt.Errorf("effect init: %w", err)
	}

	l.sampleRate = sampleRate
	l.frameLength = frameLength
	l.rx = rx
	l.tx = tx
	l.clock = clock
	l.scratchIn = make([]int32, frameCells)
	l.scratchOut = make([]int32, frameCells)
	return nil
}

// SetEnableSource installs the control input read once per Process
// iteration to toggle the effect bypass.
func (l *Loop) SetEnableSource(source func() bool) {
	l.enableSource = source
}

// SetFormatSource installs the collaborator reporting the active transport
// format. A reported rate change makes Process skip the cycle and rebuild.
func (l *Loop) SetFormatSource(source func() (bitDepth, sampleRate int)) {
	l.formatSource = source
}

// Engine returns the effect variant driven by this loop.
func (l *Loop) Engine() effects.Processor { return l.fx }

// SampleRate returns the configured nominal sample rate in Hz.
func (l *Loop) SampleRate() int { return l.sampleRate }

// FrameLength returns the samples-per-channel processed per iteration.
func (l *Loop) FrameLength() int { return l.frameLength }

// Ingress pushes newly arrived interleaved cells into the receive ring.
// It reports false when the samples do not fit; the caller drops them.
// Producer context only.
func (l *Loop) Ingress(samples []int32) bool {
	return l.rx.Push(samples)
}

// Egress fills dst with the cells due for one service tick and returns the
// number written (always a whole number of multi-channel samples, possibly
// zero). When the transmit ring runs short the last available sample is
// replicated across the shortfall; when it is empty the gap is silence.
// Consumer context only.
func (l *Loop) Egress(dst []int32) int {
	frames := l.clock.Tick()
	cells := frames * Channels
	if cells == 0 {
		return 0
	}
	if cells > len(dst) {
		cells = len(dst) / Channels * Channels
		if cells == 0 {
			return 0
		}
	}

	have := l.tx.Size()
	take := cells
	if have < take {
		take = have
	}
	if take > 0 && !l.tx.Pop(dst[:take]) {
		take = 0
	}

	if take < cells {
		if take >= Channels {
			hold := take - Channels
			for i := take; i < cells; i++ {
				dst[i] = dst[hold+i%Channels]
			}
		} else {
			for i := take; i < cells; i++ {
				dst[i] = 0
			}
		}
	}
	return cells
}

// Process runs one cooperative audio task iteration: it applies the
// external enable control, verifies the reported transport format, and
// moves at most one frame from the ingress ring through the effect to the
// egress ring. A full egress ring drops the frame for this cycle.
func (l *Loop) Process() error {
	if l.formatSource != nil {
		bitDepth, sampleRate := l.formatSource()
		if sampleRate != l.sampleRate || bitDepth != l.bitDepth {
			// Stale delay-line assumptions are unsafe to process
			// against; skip this cycle and rebuild.
			l.bitDepth = bitDepth
			if err := l.configure(sampleRate, 0); err != nil {
				return fmt.Errorf("reconfigure for %d Hz: %w", sampleRate, err)
			}
			return nil
		}
	}

	if l.enableSource != nil {
		l.fx.SetEnable(l.enableSource())
	}

	cells := l.frameLength * Channels
	if l.rx.Size() < cells {
		return nil
	}
	if !l.rx.Pop(l.scratchIn) {
		return nil
	}

	l.fx.Process(l.scratchOut, l.scratchIn, l.frameLength)

	l.tx.Push(l.scratchOut)
	return nil
}
