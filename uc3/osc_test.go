package uc3

import (
	"errors"
	"testing"
)

func newTestUC3(settle int) (*Sim, *UC3) {
	s := NewSim(settle)
	return s, s.UC3(Options{})
}

func TestStartOscillator(t *testing.T) {
	for ch := 0; ch < NumOscillators; ch++ {
		for mode := ModeClock; mode <= Mode8MHzOrMore; mode++ {
			for startup := Start0Clk; startup <= Start16384Clk; startup++ {
				s, u := newTestUC3(2)
				err := u.StartOscillator(ch, mode, startup)
				if err != nil {
					t.Fatalf("osc%d %v %v: unexpected error %v", ch, mode, startup, err)
				}
				w := s.PM.Writes()
				if len(w) != 2 {
					t.Fatalf("osc%d %v %v: got %d writes, want 2: %v", ch, mode, startup, len(w), w)
				}
				if w[0].Offset != pmOscCtrl(ch) || w[1].Offset != PM_MCCTRL {
					t.Errorf("osc%d: writes in wrong order: %v", ch, w)
				}
				got, _ := u.Oscillator(ch)
				want := OscillatorChannel{Index: ch, Mode: mode, Startup: startup, Enabled: true, Ready: true}
				if got != want {
					t.Errorf("osc%d: got %v, want %v", ch, got, want)
				}
				if st := u.OscillatorState(ch); st != Ready {
					t.Errorf("osc%d: state got %v, want %v", ch, st, Ready)
				}
				other, _ := u.Oscillator(1 - ch)
				if other.Enabled {
					t.Errorf("osc%d: start also enabled osc%d", ch, 1-ch)
				}
			}
		}
	}
}

func TestStartOscillatorInvalid(t *testing.T) {
	tests := []struct {
		channel int
		mode    ClockType
		startup Startup
		want    error
	}{
		{-1, Mode8MHzOrMore, Start0Clk, ErrInvalidChannel},
		{2, Mode8MHzOrMore, Start0Clk, ErrInvalidChannel},
		{200, ModeClock, Start64Clk, ErrInvalidChannel},
		{0, ClockType(5), Start0Clk, ErrInvalidParameter},
		{1, Mode3MHzMax, Startup(7), ErrInvalidParameter},
	}
	for _, test := range tests {
		s, u := newTestUC3(0)
		err := u.StartOscillator(test.channel, test.mode, test.startup)
		if !errors.Is(err, test.want) {
			t.Errorf("(%d, %v, %v): got error %v, want %v", test.channel, test.mode, test.startup, err, test.want)
		}
		if w := s.PM.Writes(); len(w) != 0 {
			t.Errorf("(%d, %v, %v): got writes %v, want none", test.channel, test.mode, test.startup, w)
		}
	}
}

func TestStopOscillator(t *testing.T) {
	_, u := newTestUC3(0)
	for ch := 0; ch < NumOscillators; ch++ {
		if err := u.StartOscillator(ch, Mode8MHzOrMore, Start2048Clk); err != nil {
			t.Fatalf("osc%d: start failed: %v", ch, err)
		}
	}
	if err := u.StopOscillator(0); err != nil {
		t.Fatalf("stop failed: %v", err)
	}
	o0, _ := u.Oscillator(0)
	if o0.Enabled || o0.Ready {
		t.Errorf("osc0 after stop: got %v, want disabled and not ready", o0)
	}
	if o0.Mode != Mode8MHzOrMore || o0.Startup != Start2048Clk {
		t.Errorf("osc0 after stop: configuration lost, got %v", o0)
	}
	if st := u.OscillatorState(0); st != Disabled {
		t.Errorf("osc0 state got %v, want %v", st, Disabled)
	}
	o1, _ := u.Oscillator(1)
	if !o1.Enabled || !o1.Ready {
		t.Errorf("osc1 after stopping osc0: got %v, want still running", o1)
	}
}

func TestStopOscillatorInvalid(t *testing.T) {
	s, u := newTestUC3(0)
	for _, ch := range []int{-1, 2, 3} {
		if err := u.StopOscillator(ch); !errors.Is(err, ErrInvalidChannel) {
			t.Errorf("osc%d: got error %v, want %v", ch, err, ErrInvalidChannel)
		}
	}
	if w := s.PM.Writes(); len(w) != 0 {
		t.Errorf("got writes %v, want none", w)
	}
}

func TestStartupFromCycles(t *testing.T) {
	tests := []struct {
		cycles int
		want   Startup
	}{
		{0, Start0Clk},
		{64, Start64Clk},
		{128, Start128Clk},
		{2048, Start2048Clk},
		{4096, Start4096Clk},
		{8192, Start8192Clk},
		{16384, Start16384Clk},
	}
	for _, test := range tests {
		got, err := StartupFromCycles(test.cycles)
		if err != nil || got != test.want {
			t.Errorf("%d cycles: got %v, %v, want %v", test.cycles, got, err, test.want)
		}
		if got.Cycles() != test.cycles {
			t.Errorf("%v: Cycles() got %d, want %d", got, got.Cycles(), test.cycles)
		}
	}
	if _, err := StartupFromCycles(1000); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("1000 cycles: got error %v, want %v", err, ErrInvalidParameter)
	}
}

func TestParseClockType(t *testing.T) {
	for _, mode := range []ClockType{ModeClock, Mode900kHzMax, Mode3MHzMax, Mode8MHzMax, Mode8MHzOrMore} {
		got, err := ParseClockType(mode.String())
		if err != nil || got != mode {
			t.Errorf("%q: got %v, %v, want %v", mode.String(), got, err, mode)
		}
	}
	if _, err := ParseClockType("16mhz"); !errors.Is(err, ErrInvalidParameter) {
		t.Errorf("16mhz: got error %v, want %v", err, ErrInvalidParameter)
	}
}
