package uc3

import (
	"fmt"
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// ClockType is the kind of clock attached to an external oscillator pin.
type ClockType uint8

const (
	ModeClock      ClockType = iota // External clock (non-crystal)
	Mode900kHzMax                   // Crystal up to 900kHz
	Mode3MHzMax                     // Crystal up to 3MHz
	Mode8MHzMax                     // Crystal up to 8MHz
	Mode8MHzOrMore                  // Crystal of 8MHz or faster
)

var clockTypeNames = map[string]ClockType{
	"clock":        ModeClock,
	"900khz-max":   Mode900kHzMax,
	"3mhz-max":     Mode3MHzMax,
	"8mhz-max":     Mode8MHzMax,
	"8mhz-or-more": Mode8MHzOrMore,
}

func (t ClockType) String() string {
	for n, v := range clockTypeNames {
		if v == t {
			return n
		}
	}
	return fmt.Sprintf("ClockType(%d)", uint8(t))
}

func (t ClockType) valid() bool {
	return t <= Mode8MHzOrMore
}

func ParseClockType(s string) (ClockType, error) {
	if t, ok := clockTypeNames[strings.ToLower(s)]; ok {
		return t, nil
	}
	return 0, fmt.Errorf("unknown oscillator mode %q (want one of %s): %w", s, sortedNames(clockTypeNames), ErrInvalidParameter)
}

// Startup is the number of cycles an oscillator waits before reporting
// ready, encoded as the STARTUP field value.
type Startup uint8

const (
	Start0Clk Startup = iota
	Start64Clk
	Start128Clk
	Start2048Clk
	Start4096Clk
	Start8192Clk
	Start16384Clk
)

var startupCycles = []int{0, 64, 128, 2048, 4096, 8192, 16384}

// Cycles returns the startup delay in oscillator cycles.
func (s Startup) Cycles() int {
	if !s.valid() {
		return -1
	}
	return startupCycles[s]
}

func (s Startup) String() string {
	if !s.valid() {
		return fmt.Sprintf("Startup(%d)", uint8(s))
	}
	return fmt.Sprintf("%dclk", startupCycles[s])
}

func (s Startup) valid() bool {
	return int(s) < len(startupCycles)
}

// StartupFromCycles returns the Startup with exactly the given delay.
func StartupFromCycles(cycles int) (Startup, error) {
	i := slices.Index(startupCycles, cycles)
	if i < 0 {
		return 0, fmt.Errorf("no startup delay of %d cycles (want one of %v): %w", cycles, startupCycles, ErrInvalidParameter)
	}
	return Startup(i), nil
}

// ClockSource names a node of the clock tree that can feed another.
type ClockSource uint8

const (
	SlowClock ClockSource = iota
	Osc0
	Osc1
	PLL0
	PLL1
)

var clockSourceNames = map[string]ClockSource{
	"slow": SlowClock,
	"osc0": Osc0,
	"osc1": Osc1,
	"pll0": PLL0,
	"pll1": PLL1,
}

func (s ClockSource) String() string {
	for n, v := range clockSourceNames {
		if v == s {
			return n
		}
	}
	return fmt.Sprintf("ClockSource(%d)", uint8(s))
}

func ParseClockSource(s string) (ClockSource, error) {
	if c, ok := clockSourceNames[strings.ToLower(s)]; ok {
		return c, nil
	}
	return 0, fmt.Errorf("unknown clock source %q (want one of %s): %w", s, sortedNames(clockSourceNames), ErrInvalidSource)
}

// IsOscillator reports whether s is one of the external oscillators, and
// which channel it is.
func (s ClockSource) IsOscillator() (int, bool) {
	switch s {
	case Osc0:
		return 0, true
	case Osc1:
		return 1, true
	}
	return 0, false
}

// IsPLL reports whether s is one of the PLLs, and which channel it is.
func (s ClockSource) IsPLL() (int, bool) {
	switch s {
	case PLL0:
		return 0, true
	case PLL1:
		return 1, true
	}
	return 0, false
}

func sortedNames[V any](m map[string]V) string {
	names := maps.Keys(m)
	slices.Sort(names)
	return strings.Join(names, ", ")
}
