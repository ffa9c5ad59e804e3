package pipeline

import "testing"

func TestClockSyncRejectsBadRates(t *testing.T) {
	if _, err := NewClockSync(0, 1000); err == nil {
		t.Error("zero sample rate should fail")
	}
	if _, err := NewClockSync(48000, 0); err == nil {
		t.Error("zero tick rate should fail")
	}
	if _, err := NewClockSync(-1, -1); err == nil {
		t.Error("negative rates should fail")
	}
}

func TestClockSyncExactDivision(t *testing.T) {
	c, err := NewClockSync(48000, 1000)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 5000; i++ {
		if got := c.Tick(); got != 48 {
			t.Fatalf("tick %d: got %d frames, want 48", i, got)
		}
	}
}

func TestClockSyncFractionalRates(t *testing.T) {
	rates := []int{44100, 88200, 96001, 22050, 11025, 8000}

	for _, rate := range rates {
		c, err := NewClockSync(rate, 1000)
		if err != nil {
			t.Fatal(err)
		}

		// Over any whole number of seconds the frame total must be exact.
		const seconds = 7
		total := 0
		for i := 0; i < seconds*1000; i++ {
			total += c.Tick()
		}
		if total != seconds*rate {
			t.Errorf("rate %d: %d frames over %ds, want %d", rate, total, seconds, seconds*rate)
		}
	}
}

func TestClockSyncDriftBound(t *testing.T) {
	const rate = 44100
	c, err := NewClockSync(rate, 1000)
	if err != nil {
		t.Fatal(err)
	}

	// At every tick the cumulative frame count stays within one frame of
	// the ideal rate*t.
	total := 0
	for i := 1; i <= 100000; i++ {
		total += c.Tick()
		ideal := float64(rate) * float64(i) / 1000
		if diff := ideal - float64(total); diff >= 1 || diff < 0 {
			t.Fatalf("tick %d: cumulative %d, ideal %.3f, drift out of bounds", i, total, ideal)
		}
	}
}

func TestClockSyncPerTickBound(t *testing.T) {
	c, err := NewClockSync(44100, 1000)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 10000; i++ {
		got := c.Tick()
		if got != 44 && got != 45 {
			t.Fatalf("tick %d: got %d frames, want 44 or 45", i, got)
		}
	}
}

func TestClockSyncSetRate(t *testing.T) {
	c, err := NewClockSync(44100, 1000)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 13; i++ {
		c.Tick()
	}

	if err := c.SetRate(48000); err != nil {
		t.Fatal(err)
	}
	if c.Rate() != 48000 {
		t.Fatalf("rate = %d, want 48000", c.Rate())
	}

	// Remainder is cleared, so the new rate divides evenly again.
	for i := 0; i < 100; i++ {
		if got := c.Tick(); got != 48 {
			t.Fatalf("tick %d after rate change: got %d, want 48", i, got)
		}
	}

	if err := c.SetRate(0); err == nil {
		t.Error("SetRate(0) should fail")
	}
}
