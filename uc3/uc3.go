// Package uc3 configures the clock tree of AVR32 UC3 microcontrollers:
// external oscillators, PLLs, generic clocks and the CPU clock source.
//
// Register layout follows the UC3A power manager (PM) and flash controller
// (FLASHC) chapters of the datasheet; section numbers are noted below.
package uc3

import (
	"fmt"
	"log"
	"time"
)

const (
	PM_BASE     = uintptr(0xFFFF0C00)
	PM_SIZE     = 0x100
	FLASHC_BASE = uintptr(0xFFFE1400)
	FLASHC_SIZE = 0x20

	NumOscillators   = 2
	NumPLLs          = 2
	NumGenericClocks = 5

	GCLK_USBB  = 3
	GCLK_ABDAC = 4

	SlowClockFrequency = 115000 // RCSYS
	WaitStateThreshold = 30000000
)

// Power manager registers (13.6).
const (
	PM_MCCTRL   = uintptr(0x00)
	PM_PLL0     = uintptr(0x20)
	PM_OSCCTRL0 = uintptr(0x28)
	PM_POSCSR   = uintptr(0x54)
	PM_GCCTRL0  = uintptr(0x60)

	PM_MCCTRL_MCSEL  = 0x3 << 0
	PM_MCCTRL_OSC0EN = 1 << 2

	PM_PLL_PLLEN  = 1 << 0
	PM_PLL_PLLOSC = 1 << 1
	PM_PLL_PLLDIV = 0xf << 8
	PM_PLL_PLLMUL = 0xf << 16

	PM_OSCCTRL_MODE    = 0x7 << 0
	PM_OSCCTRL_STARTUP = 0x7 << 8

	PM_POSCSR_LOCK0   = 1 << 0
	PM_POSCSR_OSC0RDY = 1 << 7

	PM_GCCTRL_OSCSEL = 1 << 0
	PM_GCCTRL_PLLSEL = 1 << 1
	PM_GCCTRL_CEN    = 1 << 2
	PM_GCCTRL_DIVEN  = 1 << 4
	PM_GCCTRL_DIV    = 0xff << 8

	maxPLLMul = 0xf
	maxGCDiv  = 0xff
)

// Flash controller registers (7.7).
const (
	FLASHC_FCR     = uintptr(0x00)
	FLASHC_FCR_FWS = 1 << 6
)

func pmPLL(channel int) uintptr {
	return PM_PLL0 + uintptr(channel)*4
}

func pmOscCtrl(channel int) uintptr {
	return PM_OSCCTRL0 + uintptr(channel)*4
}

func pmGCCtrl(channel int) uintptr {
	return PM_GCCTRL0 + uintptr(channel)*4
}

func pmMcctrlOscEn(channel int) uint32 {
	return PM_MCCTRL_OSC0EN << uint(channel)
}

func pmPoscsrOscRdy(channel int) uint32 {
	return PM_POSCSR_OSC0RDY << uint(channel)
}

func pmPoscsrLock(channel int) uint32 {
	return PM_POSCSR_LOCK0 << uint(channel)
}

func pmPllMul(val uint32) uint32 {
	return (val & 0xf) << 16
}

func pmPllDiv(val uint32) uint32 {
	return (val & 0xf) << 8
}

func pmOscCtrlMode(val uint32) uint32 {
	return (val & 0x7) << 0
}

func pmOscCtrlStartup(val uint32) uint32 {
	return (val & 0x7) << 8
}

func pmGCCtrlDiv(val uint32) uint32 {
	return (val & 0xff) << 8
}

// Options control how a UC3 waits for hardware and where it logs.
type Options struct {
	// Budget is the number of status polls a blocking start makes before
	// giving up with ErrTimeout. Zero waits forever, as the hardware
	// itself would.
	Budget int
	// PollDelay is slept between status polls.
	PollDelay time.Duration
	// Logger receives progress messages; nil is silent.
	Logger *log.Logger
}

// UC3 drives the clock tree of one microcontroller. It assumes it is the
// only writer of the PM and FLASHC blocks and is not safe for concurrent use.
type UC3 struct {
	pm     Registers
	flashc Registers
	opts   Options

	osc  [NumOscillators]ChannelState
	pll  [NumPLLs]ChannelState
	gclk [NumGenericClocks]ChannelState

	mapped []*MappedRegisters
}

// New returns a UC3 driving the given power manager and flash controller
// register blocks.
func New(pm, flashc Registers, opts Options) *UC3 {
	return &UC3{
		pm:     pm,
		flashc: flashc,
		opts:   opts,
	}
}

// Open maps the PM and FLASHC blocks from memFile and returns a UC3 using
// them. Close releases the mappings.
func Open(memFile string, opts Options) (*UC3, error) {
	pm, err := MapRegisters(memFile, PM_BASE, PM_SIZE)
	if err != nil {
		return nil, fmt.Errorf("couldn't map PM at %08X: %v", PM_BASE, err)
	}
	flashc, err := MapRegisters(memFile, FLASHC_BASE, FLASHC_SIZE)
	if err != nil {
		pm.Close() // Ignore error
		return nil, fmt.Errorf("couldn't map FLASHC at %08X: %v", FLASHC_BASE, err)
	}
	u := New(pm, flashc, opts)
	u.mapped = []*MappedRegisters{pm, flashc}
	u.logf("Mapped PM at %08X, FLASHC at %08X", PM_BASE, FLASHC_BASE)
	return u, nil
}

func (u *UC3) Close() error {
	var err error
	for _, m := range u.mapped {
		if te := m.Close(); err == nil {
			err = te
		}
	}
	u.mapped = nil
	return err
}

func (u *UC3) logf(format string, v ...interface{}) {
	if u.opts.Logger != nil {
		u.opts.Logger.Printf(format, v...)
	}
}

// waitFor polls cond until it holds or the poll budget runs out.
func (u *UC3) waitFor(what string, cond func() bool) error {
	u.logf("Waiting for %s", what)
	i := 0
	for !cond() {
		i++
		if u.opts.Budget > 0 && i >= u.opts.Budget {
			return fmt.Errorf("%w for %s after %d polls", ErrTimeout, what, i)
		}
		if u.opts.PollDelay > 0 {
			time.Sleep(u.opts.PollDelay)
		}
	}
	u.logf("Done %d", i)
	return nil
}

func checkChannel(kind string, channel, n int) error {
	if channel < 0 || channel >= n {
		return fmt.Errorf("%s %d: %w", kind, channel, ErrInvalidChannel)
	}
	return nil
}
