package effects

import "testing"

func TestPassthroughCopies(t *testing.T) {
	p := NewPassthrough()

	in := []int32{1, -2, 3 << 16, -4 << 16, 5, 6}
	out := make([]int32, len(in))

	p.Process(out, in, 3)
	for i := range in {
		if out[i] != in[i] {
			t.Fatalf("cell %d: got %d, want %d", i, out[i], in[i])
		}
	}
}

func TestPassthroughInPlace(t *testing.T) {
	p := NewPassthrough()

	buf := []int32{7, 8, 9, 10}
	p.Process(buf, buf, 2)
	for i, want := range []int32{7, 8, 9, 10} {
		if buf[i] != want {
			t.Fatalf("cell %d: got %d, want %d", i, buf[i], want)
		}
	}

	p.Process(nil, nil, 0)
}

func TestPassthroughImplementsProcessor(t *testing.T) {
	var _ Processor = NewPassthrough()

	p := NewPassthrough()
	if p.Name() == "" {
		t.Error("empty name")
	}
	if err := p.Init(); err != nil {
		t.Errorf("Init: %v", err)
	}
	if err := p.SetFormat(24, 48000); err != nil {
		t.Errorf("SetFormat: %v", err)
	}
	p.SetEnable(true)
	p.SetParam(ParamWetMix, 0)
}
