package ring

import "testing"

func BenchmarkPushPopFrame(b *testing.B) {
	buf, err := New(8 * 96)
	if err != nil {
		b.Fatal(err)
	}

	frame := make([]int32, 96)

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if !buf.Push(frame) {
			b.Fatal("push failed")
		}
		if !buf.Pop(frame) {
			b.Fatal("pop failed")
		}
	}
}
