package effects

import (
	"math/rand"

	"github.com/cwbudde/algo-fxpipe/dsp/fixed"
)

const (
	granularBufferSize = 16384
	granularNumGrains  = 8
	granularFade       = 512

	defaultGrainLength  = 2048
	defaultGrainDensity = granularNumGrains
	defaultGranularSeed = 1
)

type grain struct {
	pos     int
	counter int
	active  bool
}

// GranularFreeze continuously records a mono mix of the input into a
// circular capture buffer and plays back short overlapping grains from it.
//
// Enabling the effect freezes the capture buffer: the write cursor halts
// and grains loop over the already-captured content, sustaining a textural
// drone. Grain start positions are drawn from a seeded generator so a
// given seed reproduces the same placement sequence.
type GranularFreeze struct {
	buffer   []int16
	writePos int
	frozen   bool

	wet          int16
	dry          int16
	grainLength  int
	grainDensity int

	grains [granularNumGrains]grain

	seed int64
	rng  *rand.Rand
}

// NewGranularFreeze returns an initialized granular freeze variant.
func NewGranularFreeze() *GranularFreeze {
	g := &GranularFreeze{
		buffer:       make([]int16, granularBufferSize),
		wet:          fixed.Coeff(0.50),
		dry:          fixed.Coeff(0.50),
		grainLength:  defaultGrainLength,
		grainDensity: defaultGrainDensity,
		seed:         defaultGranularSeed,
		rng:          rand.New(rand.NewSource(defaultGranularSeed)),
	}
	_ = g.Init()
	return g
}

// Name returns the variant identifier.
func (g *GranularFreeze) Name() string { return "Granular Freeze" }

// Init clears the capture buffer and deactivates all grains.
func (g *GranularFreeze) Init() error {
	for i := range g.buffer {
		g.buffer[i] = 0
	}
	g.writePos = 0
	for i := range g.grains {
		g.grains[i] = grain{}
	}
	g.rng.Seed(g.seed)
	return nil
}

// SetFormat is accepted but has no effect; the capture buffer length is
// fixed in samples rather than scaled with the rate.
func (g *GranularFreeze) SetFormat(bitDepth, sampleRate int) error {
	return nil
}

// SetEnable freezes (true) or releases (false) the capture buffer.
// Frozen content is immutable until release; grain playback continues
// either way.
func (g *GranularFreeze) SetEnable(enabled bool) {
	g.frozen = enabled
}

// SetRandomSeed reseeds grain placement for deterministic playback.
func (g *GranularFreeze) SetRandomSeed(seed int64) {
	g.seed = seed
	g.rng.Seed(seed)
}

// SetParam adjusts mix and grain parameters; unknown IDs are ignored.
// GrainLength and GrainDensity use the full Q15 value range and are scaled
// to samples and grain counts internally.
func (g *GranularFreeze) SetParam(id ParamID, value int16) {
	switch id {
	case ParamWetMix:
		g.wet = value
	case ParamDryMix:
		g.dry = value
	case ParamGrainLength:
		length := 256 + int(value)>>1
		if length < 1 {
			length = 1
		}
		if length > granularBufferSize-1 {
			length = granularBufferSize - 1
		}
		g.grainLength = length
	case ParamGrainDensity:
		density := 1 + int(value)>>11
		if density < 1 {
			density = 1
		}
		if density > granularNumGrains {
			density = granularNumGrains
		}
		g.grainDensity = density
	}
}

// Frozen reports whether the capture buffer is currently frozen.
func (g *GranularFreeze) Frozen() bool { return g.frozen }

// Process runs one frame of interleaved stereo cells through the granular
// engine. out and in may alias.
func (g *GranularFreeze) Process(out, in []int32, frames int) {
	for i := 0; i < frames; i++ {
		inL := fixed.FromCell(in[2*i])
		inR := fixed.FromCell(in[2*i+1])

		if !g.frozen {
			g.buffer[g.writePos] = int16((int32(inL) + int32(inR)) >> 1)
			g.writePos++
			if g.writePos >= len(g.buffer) {
				g.writePos = 0
			}
		}

		var wet int16
		for j := 0; j < g.grainDensity; j++ {
			gr := &g.grains[j]
			if !gr.active {
				g.arm(gr)
				continue
			}

			env := g.envelope(gr.counter)
			readPos := gr.pos + gr.counter
			if readPos >= len(g.buffer) {
				readPos -= len(g.buffer)
			}
			wet = fixed.SatAdd(wet, fixed.Mul(g.buffer[readPos], env))

			gr.counter++
			if gr.counter >= g.grainLength {
				gr.active = false
			}
		}

		outL := fixed.SatAdd(fixed.Mul(inL, g.dry), fixed.Mul(wet, g.wet))
		outR := fixed.SatAdd(fixed.Mul(inR, g.dry), fixed.Mul(wet, g.wet))

		out[2*i] = fixed.ToCell(outL)
		out[2*i+1] = fixed.ToCell(outR)
	}
}

// envelope returns the linear fade-in/fade-out weight for a grain at the
// given age. Fade-in wins when a short grain overlaps both ramps.
func (g *GranularFreeze) envelope(counter int) int16 {
	switch {
	case counter < granularFade:
		return int16(int32(counter) * fixed.MaxQ15 / granularFade)
	case counter > g.grainLength-granularFade:
		remain := g.grainLength - counter
		if remain < 0 {
			remain = 0
		}
		return int16(int32(remain) * fixed.MaxQ15 / granularFade)
	default:
		return fixed.MaxQ15
	}
}

// arm starts a fresh grain at a pseudo-random offset inside the window
// that still holds grainLength contiguous captured samples.
func (g *GranularFreeze) arm(gr *grain) {
	window := len(g.buffer) - g.grainLength
	if window < 1 {
		window = 1
	}

	pos := g.writePos + g.rng.Intn(window)
	if pos >= len(g.buffer) {
		pos -= len(g.buffer)
	}

	*gr = grain{pos: pos, counter: 0, active: true}
}
