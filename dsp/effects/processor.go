package effects

// ParamID identifies a runtime-adjustable effect parameter.
type ParamID uint8

// Recognized parameter IDs. Variants ignore IDs they do not support.
const (
	// ParamWetMix sets the blend weight of the processed signal (Q15).
	ParamWetMix ParamID = iota
	// ParamDryMix sets the blend weight of the original signal (Q15).
	ParamDryMix
	// ParamGrainLength sets grain duration; granular variant only.
	ParamGrainLength
	// ParamGrainDensity sets the number of concurrent grains; granular
	// variant only.
	ParamGrainDensity
)

// Processor is the contract between the audio task and an effect variant.
//
// Process transforms frames of interleaved stereo transport cells and must
// tolerate out and in aliasing the same backing array. SetEnable applies
// the variant's single control toggle without destroying internal state:
// for Reverb it is a pure bypass whose tail survives and resumes on
// re-enable, for GranularFreeze it freezes the capture buffer.
type Processor interface {
	Name() string
	Init() error
	SetFormat(bitDepth, sampleRate int) error
	SetEnable(enabled bool)
	Process(out, in []int32, frames int)
	SetParam(id ParamID, value int16)
}
