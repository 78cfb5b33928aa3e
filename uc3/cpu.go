package uc3

import "fmt"

// NeedsWaitState reports whether the flash needs a wait state with the CPU
// running at freq.
func NeedsWaitState(freq uint32) bool {
	return freq > WaitStateThreshold
}

// SetCPUClockSource switches the CPU to source, which must already be
// running at sourceFreq. The flash wait state is set for sourceFreq first, so
// flash is never read too fast at the new speed. That write happens even if
// source turns out to be invalid and is not undone.
//
// Only the slow clock, OSC0 and PLL0 can drive the CPU.
func (u *UC3) SetCPUClockSource(source ClockSource, sourceFreq uint32) error {
	var fws uint32
	if NeedsWaitState(sourceFreq) {
		fws = FLASHC_FCR_FWS
	}
	replaceBits(u.flashc, FLASHC_FCR, fws, FLASHC_FCR_FWS)

	var mcsel uint32
	switch source {
	case SlowClock:
		mcsel = 0
	case Osc0:
		mcsel = 1
	case PLL0:
		mcsel = 2
	default:
		return fmt.Errorf("CPU from %v: %w", source, ErrInvalidSource)
	}
	replaceBits(u.pm, PM_MCCTRL, mcsel, PM_MCCTRL_MCSEL)
	u.logf("CPU: %v at %dHz, wait state %v", source, sourceFreq, fws != 0)
	return nil
}
