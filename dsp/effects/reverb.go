package effects

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-fxpipe/dsp/fixed"
)

const (
	reverbNumCombs     = 8
	reverbNumAllpasses = 4

	// All delay tables are designed at 48 kHz and rescaled for the
	// active transport rate.
	reverbDesignRate      = 48000
	reverbPredelayAt48k   = 960
	reverbMaxCombFeedback = 0.98
)

// Per-band comb delays in samples at the design rate. Prime lengths keep
// the echo patterns of the bands from reinforcing each other.
var (
	reverbCombDelayL = [reverbNumCombs]int{509, 863, 1481, 2521, 4273, 7253, 10007, 15013}
	reverbCombDelayR = [reverbNumCombs]int{523, 877, 1489, 2531, 4283, 7283, 10037, 15031}

	reverbAllpassDelayL = [reverbNumAllpasses]int{142, 396, 1071, 3079}
	reverbAllpassDelayR = [reverbNumAllpasses]int{145, 399, 1073, 3081}

	// Target decay time per band, shortest delay first.
	reverbCombT60 = [reverbNumCombs]float64{0.25, 0.30, 0.40, 0.80, 2.00, 6.00, 10.00, 20.00}

	reverbCombBandGain = [reverbNumCombs]float64{0.62, 0.60, 0.58, 0.55, 0.52, 0.50, 0.48, 0.45}
)

var (
	reverbDefaultWet    = fixed.Coeff(0.50)
	reverbDefaultDry    = fixed.Coeff(0.50)
	reverbAllpassGain   = fixed.Coeff(0.50)
	reverbMasterGain    = fixed.CoeffQ12(1.50)
	reverbDamp          = fixed.Coeff(0.40)
	reverbOneMinusDamp  = fixed.Sat16(int32(fixed.Coeff(1.0)) - int32(fixed.Coeff(0.40)))
	reverbCombBandGainQ [reverbNumCombs]int16
)

func init() {
	for i, g := range reverbCombBandGain {
		reverbCombBandGainQ[i] = fixed.Coeff(g)
	}
}

type reverbComb struct {
	buf      []int16
	idx      int
	feedback int16
	filt     int16
}

// process reads the delayed sample, updates the damped feedback path, and
// writes the new input plus smoothed feedback into the line.
func (c *reverbComb) process(x int16) int16 {
	d := c.buf[c.idx]
	fb := fixed.Sat16(int32(c.feedback) * int32(d) >> 15)
	c.filt = fixed.SatAdd(
		fixed.Mul(c.filt, reverbOneMinusDamp),
		fixed.Mul(fb, reverbDamp),
	)
	c.buf[c.idx] = fixed.SatAdd(x, c.filt)
	c.idx++
	if c.idx >= len(c.buf) {
		c.idx = 0
	}
	return d
}

type reverbAllpass struct {
	buf  []int16
	idx  int
	gain int16
}

func (a *reverbAllpass) process(x int16) int16 {
	d := a.buf[a.idx]
	y := fixed.Sat16(int32(d) - int32(fixed.Mul(x, a.gain)))
	a.buf[a.idx] = fixed.SatAdd(x, fixed.Mul(y, a.gain))
	a.idx++
	if a.idx >= len(a.buf) {
		a.idx = 0
	}
	return y
}

// Reverb is a Q15 Schroeder-Moorer reverb: a predelay line feeding eight
// parallel damped comb filters per channel, diffused by four serial
// allpasses per channel.
//
// Delay lengths and comb feedback coefficients are derived from the active
// sample rate at Init/SetFormat time; the hot path is integer-only.
type Reverb struct {
	sampleRate int
	bitDepth   int
	enabled    bool

	wet    int16
	dry    int16
	master int16 // Q12, allows above-unity makeup gain

	predL   []int16
	predR   []int16
	predIdx int

	combL [reverbNumCombs]reverbComb
	combR [reverbNumCombs]reverbComb
	apL   [reverbNumAllpasses]reverbAllpass
	apR   [reverbNumAllpasses]reverbAllpass
}

// NewReverb returns an initialized reverb for the given sample rate.
func NewReverb(sampleRate int) (*Reverb, error) {
	r := &Reverb{
		sampleRate: sampleRate,
		bitDepth:   24,
		enabled:    true,
		wet:        reverbDefaultWet,
		dry:        reverbDefaultDry,
		master:     reverbMasterGain,
	}

	if err := r.Init(); err != nil {
		return nil, err
	}
	return r, nil
}

// Name returns the variant identifier.
func (r *Reverb) Name() string { return "Schroeder-Moorer Reverb" }

// Init rebuilds all delay lines and coefficients for the current sample
// rate and clears the filter state.
func (r *Reverb) Init() error {
	if r.sampleRate <= 0 {
		return fmt.Errorf("reverb sample rate must be > 0: %d", r.sampleRate)
	}

	predLen := scaleDelay(reverbPredelayAt48k, r.sampleRate)
	r.predL = make([]int16, predLen)
	r.predR = make([]int16, predLen)
	r.predIdx = 0

	for i := 0; i < reverbNumCombs; i++ {
		lenL := scaleDelay(reverbCombDelayL[i], r.sampleRate)
		lenR := scaleDelay(reverbCombDelayR[i], r.sampleRate)
		fb := combFeedback(lenL, r.sampleRate, reverbCombT60[i])

		r.combL[i] = reverbComb{buf: make([]int16, lenL), feedback: fb}
		r.combR[i] = reverbComb{buf: make([]int16, lenR), feedback: fb}
	}

	for i := 0; i < reverbNumAllpasses; i++ {
		lenL := scaleDelay(reverbAllpassDelayL[i], r.sampleRate)
		lenR := scaleDelay(reverbAllpassDelayR[i], r.sampleRate)

		r.apL[i] = reverbAllpass{buf: make([]int16, lenL), gain: reverbAllpassGain}
		r.apR[i] = reverbAllpass{buf: make([]int16, lenR), gain: reverbAllpassGain}
	}

	return nil
}

// SetFormat records the transport format. A sample-rate change rebuilds all
// delay lines and coefficients; the tail is discarded in that case since
// its time base no longer matches.
func (r *Reverb) SetFormat(bitDepth, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("reverb sample rate must be > 0: %d", sampleRate)
	}

	r.bitDepth = bitDepth
	if sampleRate == r.sampleRate {
		return nil
	}

	r.sampleRate = sampleRate
	return r.Init()
}

// SetEnable toggles bypass. Filter state is deliberately left untouched so
// re-enabling resumes the existing tail.
func (r *Reverb) SetEnable(enabled bool) {
	r.enabled = enabled
}

// SetParam adjusts wet/dry mix weights; other IDs are ignored.
func (r *Reverb) SetParam(id ParamID, value int16) {
	switch id {
	case ParamWetMix:
		r.wet = value
	case ParamDryMix:
		r.dry = value
	}
}

// SampleRate returns the active sample rate in Hz.
func (r *Reverb) SampleRate() int { return r.sampleRate }

// Process runs one frame of interleaved stereo cells through the network.
// out and in may alias.
func (r *Reverb) Process(out, in []int32, frames int) {
	n := 2 * frames
	if n <= 0 {
		return
	}

	if !r.enabled {
		if &out[0] != &in[0] {
			copy(out[:n], in[:n])
		}
		return
	}

	for i := 0; i < frames; i++ {
		dryL := fixed.FromCell(in[2*i])
		dryR := fixed.FromCell(in[2*i+1])

		// The predelay cursor yields the delayed dry sample before the
		// fresh one overwrites it.
		preL := r.predL[r.predIdx]
		preR := r.predR[r.predIdx]
		r.predL[r.predIdx] = dryL
		r.predR[r.predIdx] = dryR
		r.predIdx++
		if r.predIdx >= len(r.predL) {
			r.predIdx = 0
		}

		var wetL, wetR int16
		for k := 0; k < reverbNumCombs; k++ {
			wetL = fixed.SatAdd(wetL, fixed.Mul(r.combL[k].process(preL), reverbCombBandGainQ[k]))
			wetR = fixed.SatAdd(wetR, fixed.Mul(r.combR[k].process(preR), reverbCombBandGainQ[k]))
		}

		for k := 0; k < reverbNumAllpasses; k++ {
			wetL = r.apL[k].process(wetL)
			wetR = r.apR[k].process(wetR)
		}

		mixL := fixed.SatAdd(fixed.Mul(dryL, r.dry), fixed.Mul(wetL, r.wet))
		mixR := fixed.SatAdd(fixed.Mul(dryR, r.dry), fixed.Mul(wetR, r.wet))

		out[2*i] = fixed.ToCell(fixed.MulQ12(mixL, r.master))
		out[2*i+1] = fixed.ToCell(fixed.MulQ12(mixR, r.master))
	}
}

// scaleDelay rescales a 48 kHz design length to the active rate,
// never below one sample.
func scaleDelay(designLen, sampleRate int) int {
	scaled := int(math.Round(float64(designLen) * float64(sampleRate) / reverbDesignRate))
	if scaled < 1 {
		scaled = 1
	}
	return scaled
}

// combFeedback derives the Q15 feedback coefficient that decays a comb of
// the given length by 60 dB over t60 seconds, clamped for stability.
func combFeedback(delayLen, sampleRate int, t60 float64) int16 {
	g := math.Pow(10, -3*float64(delayLen)/(float64(sampleRate)*t60))
	if g > reverbMaxCombFeedback {
		g = reverbMaxCombFeedback
	}
	return fixed.Coeff(g)
}
