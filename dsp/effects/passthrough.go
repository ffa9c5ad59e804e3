package effects

// Passthrough is the identity effect variant.
type Passthrough struct{}

// NewPassthrough returns a passthrough variant.
func NewPassthrough() *Passthrough {
	return &Passthrough{}
}

// Name returns the variant identifier.
func (*Passthrough) Name() string { return "Passthrough" }

// Init is a no-op; the variant carries no state.
func (*Passthrough) Init() error { return nil }

// SetFormat is a no-op.
func (*Passthrough) SetFormat(bitDepth, sampleRate int) error { return nil }

// SetEnable is a no-op; passthrough is always a bypass.
func (*Passthrough) SetEnable(enabled bool) {}

// SetParam ignores all parameters.
func (*Passthrough) SetParam(id ParamID, value int16) {}

// Process copies the input frame to the output unchanged.
func (*Passthrough) Process(out, in []int32, frames int) {
	n := 2 * frames
	if n <= 0 {
		return
	}
	if &out[0] != &in[0] {
		copy(out[:n], in[:n])
	}
}
