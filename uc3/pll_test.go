package uc3

import (
	"errors"
	"testing"
)

func TestPLLMultiplier(t *testing.T) {
	tests := []struct {
		src  uint32
		tgt  uint32
		want uint32
	}{
		{12000000, 48000000, 1},
		{12000000, 12000000, 0},
		{12000000, 24000000, 0},
		{12000000, 36000000, 1},
		{12000000, 60000000, 2},
		{12000000, 66000000, 2},
		{8000000, 66000000, 3},
		{1000000, 31000000, 15},
		{16000000, 47999999, 0},
	}
	for _, test := range tests {
		got := PLLMultiplier(test.src, test.tgt)
		if got != test.want {
			t.Errorf("(%d, %d): got %d, want %d", test.src, test.tgt, got, test.want)
		}
	}
}

func TestPLLMultiplierMatchesFormula(t *testing.T) {
	for _, src := range []uint32{1000000, 4000000, 8000000, 12000000, 16000000} {
		for tgt := src; tgt <= 31*src; tgt += src / 2 {
			want := ((tgt / src) - 1) / 2
			s, u := newTestUC3(0)
			if err := u.StartOscillator(0, Mode8MHzOrMore, Start0Clk); err != nil {
				t.Fatalf("osc0 start failed: %v", err)
			}
			s.ResetWrites()
			if err := u.StartPLL(1, Osc0, src, tgt); err != nil {
				t.Fatalf("(%d, %d): unexpected error %v", src, tgt, err)
			}
			p, _ := u.PLL(1)
			if p.Multiplier != want {
				t.Errorf("(%d, %d): got multiplier %d, want %d", src, tgt, p.Multiplier, want)
			}
		}
	}
}

func TestStartPLL(t *testing.T) {
	tests := []struct {
		channel int
		source  ClockSource
		want    PLLChannel
	}{
		{0, Osc0, PLLChannel{Index: 0, Source: Osc0, Multiplier: 1, Enabled: true, Locked: true}},
		{1, Osc0, PLLChannel{Index: 1, Source: Osc0, Multiplier: 1, Enabled: true, Locked: true}},
		{0, Osc1, PLLChannel{Index: 0, Source: Osc1, Multiplier: 1, Enabled: true, Locked: true}},
		{1, Osc1, PLLChannel{Index: 1, Source: Osc1, Multiplier: 1, Enabled: true, Locked: true}},
	}
	for _, test := range tests {
		s, u := newTestUC3(3)
		osc, _ := test.source.IsOscillator()
		if err := u.StartOscillator(osc, Mode8MHzOrMore, Start0Clk); err != nil {
			t.Fatalf("osc%d start failed: %v", osc, err)
		}
		// Leave some junk in the divider to check it's cleared.
		s.PM.set(pmPLL(test.channel), pmPllDiv(5))
		if err := u.StartPLL(test.channel, test.source, 12000000, 48000000); err != nil {
			t.Fatalf("pll%d from %v: unexpected error %v", test.channel, test.source, err)
		}
		got, _ := u.PLL(test.channel)
		if got != test.want {
			t.Errorf("pll%d from %v: got %v, want %v", test.channel, test.source, got, test.want)
		}
		if st := u.PLLState(test.channel); st != Locked {
			t.Errorf("pll%d: state got %v, want %v", test.channel, st, Locked)
		}
	}
}

func TestStartPLLInvalid(t *testing.T) {
	tests := []struct {
		channel int
		source  ClockSource
		src     uint32
		tgt     uint32
		want    error
	}{
		{0, SlowClock, 12000000, 48000000, ErrInvalidSource},
		{0, PLL0, 12000000, 48000000, ErrInvalidSource},
		{1, PLL1, 12000000, 48000000, ErrInvalidSource},
		{1, ClockSource(9), 12000000, 48000000, ErrInvalidSource},
		{2, Osc0, 12000000, 48000000, ErrInvalidChannel},
		{-1, Osc0, 12000000, 48000000, ErrInvalidChannel},
		{0, Osc0, 12000000, 6000000, ErrInvalidFrequency},
		{0, Osc0, 0, 48000000, ErrInvalidFrequency},
		{0, Osc0, 1000000, 33000000, ErrInvalidFrequency},
	}
	for _, test := range tests {
		s, u := newTestUC3(0)
		if err := u.StartOscillator(0, Mode8MHzOrMore, Start0Clk); err != nil {
			t.Fatalf("osc0 start failed: %v", err)
		}
		var before [NumPLLs]uint32
		for ch := range before {
			before[ch] = s.PM.Load(pmPLL(ch))
		}
		s.ResetWrites()
		err := u.StartPLL(test.channel, test.source, test.src, test.tgt)
		if !errors.Is(err, test.want) {
			t.Errorf("(%d, %v, %d, %d): got error %v, want %v", test.channel, test.source, test.src, test.tgt, err, test.want)
		}
		if w := s.PM.Writes(); len(w) != 0 {
			t.Errorf("(%d, %v, %d, %d): got writes %v, want none", test.channel, test.source, test.src, test.tgt, w)
		}
		for ch := range before {
			if got := s.PM.Load(pmPLL(ch)); got != before[ch] {
				t.Errorf("(%d, %v): PLL%d register changed from %08X to %08X", test.channel, test.source, ch, before[ch], got)
			}
		}
	}
}

func TestStopPLL(t *testing.T) {
	_, u := newTestUC3(0)
	if err := u.StartOscillator(0, Mode8MHzOrMore, Start0Clk); err != nil {
		t.Fatalf("osc0 start failed: %v", err)
	}
	if err := u.StartPLL(0, Osc0, 12000000, 60000000); err != nil {
		t.Fatalf("pll0 start failed: %v", err)
	}
	if err := u.StopPLL(0); err != nil {
		t.Fatalf("pll0 stop failed: %v", err)
	}
	got, _ := u.PLL(0)
	want := PLLChannel{Index: 0, Source: Osc0, Multiplier: 2}
	if got != want {
		t.Errorf("pll0 after stop: got %v, want %v", got, want)
	}
	if st := u.PLLState(0); st != Disabled {
		t.Errorf("pll0 state got %v, want %v", st, Disabled)
	}
	if err := u.StopPLL(2); !errors.Is(err, ErrInvalidChannel) {
		t.Errorf("pll2: got error %v, want %v", err, ErrInvalidChannel)
	}
}
