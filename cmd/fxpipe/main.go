// Command fxpipe runs the loopback effect pipeline against a synthesized
// test signal, either offline with a level meter or live through the
// default audio device.
//
// Usage:
//
//	fxpipe [flags]
//
// Examples:
//
//	fxpipe -effect reverb -seconds 4
//	fxpipe -effect granular -freeze
//	fxpipe -effect reverb -rate 44100 -play
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"strings"
	"time"

	"github.com/cwbudde/algo-vecmath"
	"github.com/ebitengine/oto/v3"

	"github.com/cwbudde/algo-fxpipe/dsp/effects"
	"github.com/cwbudde/algo-fxpipe/dsp/fixed"
	"github.com/cwbudde/algo-fxpipe/dsp/pipeline"
)

func main() {
	var (
		rate    = flag.Int("rate", 48000, "sample rate in Hz")
		effect  = flag.String("effect", "reverb", "effect variant: reverb, granular, passthrough")
		seconds = flag.Float64("seconds", 2, "offline run length")
		play    = flag.Bool("play", false, "play the result on the default audio device")
		bypass  = flag.Bool("bypass", false, "disable the effect (reverb bypass)")
		freeze  = flag.Bool("freeze", false, "freeze the capture buffer (granular only)")
		seed    = flag.Int64("seed", 1, "grain placement seed (granular only)")
	)
	flag.Parse()

	fx, err := buildEffect(*effect, *rate, *seed)
	if err != nil {
		log.Fatal(err)
	}

	loop, err := pipeline.NewLoop(fx, *rate)
	if err != nil {
		log.Fatal(err)
	}

	enabled := !*bypass
	if *effect == "granular" {
		enabled = *freeze
	}
	loop.SetEnableSource(func() bool { return enabled })

	fmt.Printf("%s @ %d Hz, frame length %d\n", fx.Name(), *rate, loop.FrameLength())

	if *play {
		if err := playLive(loop, *rate); err != nil {
			log.Fatal(err)
		}
		return
	}

	runOffline(loop, *rate, *seconds)
}

// buildEffect maps the variant name to a processor. The set is closed;
// anything else is a usage error.
func buildEffect(name string, rate int, seed int64) (effects.Processor, error) {
	switch name {
	case "reverb":
		return effects.NewReverb(rate)
	case "granular":
		g := effects.NewGranularFreeze()
		g.SetRandomSeed(seed)
		return g, nil
	case "passthrough":
		return effects.NewPassthrough(), nil
	default:
		return nil, fmt.Errorf("unknown effect %q (want reverb, granular, passthrough)", name)
	}
}

// pluckSource synthesizes a repeating decaying tone burst, a convenient
// signal for hearing reverb tails and freeze drones.
type pluckSource struct {
	rate  int
	pos   int
	burst int
}

func newPluckSource(rate int) *pluckSource {
	return &pluckSource{rate: rate, burst: rate / 2}
}

func (s *pluckSource) fill(cells []int32) {
	for i := 0; i < len(cells); i += 2 {
		n := s.pos % s.burst
		env := math.Exp(-8 * float64(n) / float64(s.burst))
		v := fixed.Coeff(0.6 * env * math.Sin(2*math.Pi*220*float64(s.pos)/float64(s.rate)))
		cells[i] = fixed.ToCell(v)
		cells[i+1] = fixed.ToCell(v)
		s.pos++
	}
}

// runOffline drives the pipeline tick by tick and prints a coarse level
// meter every 100 ms.
func runOffline(loop *pipeline.Loop, rate int, seconds float64) {
	src := newPluckSource(rate)

	frame := make([]int32, 2*loop.FrameLength())
	out := make([]int32, 2*(rate/1000+2))

	meterRe := make([]float64, 0, rate/10+10)
	meterIm := make([]float64, 0, rate/10+10)
	sq := make([]float64, rate/10+10)

	ticks := int(seconds * 1000)
	for tick := 0; tick < ticks; tick++ {
		src.fill(frame)
		loop.Ingress(frame)
		if err := loop.Process(); err != nil {
			log.Fatal(err)
		}

		n := loop.Egress(out)
		for i := 0; i < n; i += 2 {
			meterRe = append(meterRe, fixed.ToFloat(fixed.FromCell(out[i])))
			meterIm = append(meterIm, 0)
		}

		if (tick+1)%100 == 0 {
			printMeter(tick+1, meterRe, meterIm, sq)
			meterRe = meterRe[:0]
			meterIm = meterIm[:0]
		}
	}
}

func printMeter(ms int, re, im, sq []float64) {
	if len(re) == 0 {
		return
	}

	vecmath.Power(sq[:len(re)], re, im)

	sum := 0.0
	peak := 0.0
	for _, p := range sq[:len(re)] {
		sum += p
		if p > peak {
			peak = p
		}
	}
	rms := math.Sqrt(sum / float64(len(re)))

	bar := int(rms * 60)
	if bar > 60 {
		bar = 60
	}
	fmt.Fprintf(os.Stdout, "%5d ms  rms %6.4f  peak %6.4f  |%s\n",
		ms, rms, math.Sqrt(peak), strings.Repeat("#", bar))
}

// otoFeeder adapts the pipeline egress to oto's pull model: every read
// synthesizes input, runs the cooperative task, and drains service ticks
// until the requested byte count is covered.
type otoFeeder struct {
	loop    *pipeline.Loop
	src     *pluckSource
	frame   []int32
	tick    []int32
	pending []byte
}

func (f *otoFeeder) Read(p []byte) (int, error) {
	for len(f.pending) < len(p) {
		f.src.fill(f.frame)
		f.loop.Ingress(f.frame)
		if err := f.loop.Process(); err != nil {
			return 0, err
		}

		n := f.loop.Egress(f.tick)
		for i := 0; i < n; i++ {
			q := fixed.FromCell(f.tick[i])
			f.pending = append(f.pending, byte(uint16(q)), byte(uint16(q)>>8))
		}
	}

	n := copy(p, f.pending)
	f.pending = f.pending[n:]
	return n, nil
}

func playLive(loop *pipeline.Loop, rate int) error {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   rate,
		ChannelCount: pipeline.Channels,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		return fmt.Errorf("audio context: %w", err)
	}
	<-ready

	feeder := &otoFeeder{
		loop:  loop,
		src:   newPluckSource(rate),
		frame: make([]int32, 2*loop.FrameLength()),
		tick:  make([]int32, 2*(rate/1000+2)),
	}

	player := ctx.NewPlayer(feeder)
	player.Play()
	defer player.Close()

	fmt.Println("playing, ctrl-c to stop")
	for player.IsPlaying() {
		time.Sleep(100 * time.Millisecond)
	}
	return nil
}
