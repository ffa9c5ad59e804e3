package effects

import "testing"

func benchFrames(n int) ([]int32, []int32) {
	in := make([]int32, 2*n)
	out := make([]int32, 2*n)
	for i := range in {
		in[i] = int32((i*40503)%65536-32768) << 16
	}
	return in, out
}

func BenchmarkReverbFrame(b *testing.B) {
	r, err := NewReverb(48000)
	if err != nil {
		b.Fatal(err)
	}
	in, out := benchFrames(48)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		r.Process(out, in, 48)
	}
}

func BenchmarkGranularFrame(b *testing.B) {
	g := NewGranularFreeze()
	in, out := benchFrames(48)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		g.Process(out, in, 48)
	}
}
