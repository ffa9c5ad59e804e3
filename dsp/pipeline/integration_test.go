package pipeline

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cwbudde/algo-fxpipe/dsp/effects"
)

// TestLoopTransportConcurrency drives Ingress/Egress from a transport
// goroutine while Process runs in the main loop, mimicking the callback
// context interleaving the cooperative scheduler at arbitrary points.
// With a passthrough engine, every non-padded cell must come out in push
// order.
func TestLoopTransportConcurrency(t *testing.T) {
	l, err := NewLoop(effects.NewPassthrough(), 48000)
	if err != nil {
		t.Fatal(err)
	}

	const targetCells = 100000

	var done atomic.Bool
	var collected []int32

	var wg sync.WaitGroup
	wg.Add(1)

	go func() {
		defer wg.Done()

		frame := make([]int32, 2*l.FrameLength())
		out := make([]int32, 2*l.FrameLength())
		next := int32(1)

		for len(collected) < targetCells {
			for i := range frame {
				frame[i] = next + int32(i)
			}
			if l.Ingress(frame) {
				next += int32(len(frame))
			}

			if n := l.Egress(out); n > 0 {
				collected = append(collected, out[:n]...)
			}
		}
		done.Store(true)
	}()

	for !done.Load() {
		if err := l.Process(); err != nil {
			t.Error(err)
			break
		}
	}
	wg.Wait()

	// Padding repeats the last sample pair or inserts zeros; genuine
	// cells must never step backwards by more than one repeated pair.
	var prevMax int32
	for i, v := range collected {
		if v == 0 {
			continue
		}
		if v < prevMax-1 {
			t.Fatalf("cell %d: value %d regressed below %d", i, v, prevMax)
		}
		if v > prevMax {
			prevMax = v
		}
	}
	if prevMax == 0 {
		t.Fatal("no audio made it through the pipeline")
	}
}
