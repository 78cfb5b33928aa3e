package uc3

import "fmt"

// GenericClockDivider returns whether the divider must be enabled to take
// sourceFreq down to targetFreq, and the DIV field value if so.
func GenericClockDivider(sourceFreq, targetFreq uint32) (bool, uint32) {
	if sourceFreq <= targetFreq {
		return false, 0
	}
	return true, ((sourceFreq / targetFreq) - 1) / 2
}

// StartGenericClock routes source to a generic clock channel, divided down to
// targetFreq, and enables it. The source selectors and divider are written
// before the enable bit so the clock never runs from a stale source.
func (u *UC3) StartGenericClock(channel int, source ClockSource, sourceFreq, targetFreq uint32) error {
	if err := checkChannel("generic clock", channel, NumGenericClocks); err != nil {
		return err
	}
	var sel uint32
	switch source {
	case Osc0:
		sel = 0
	case Osc1:
		sel = PM_GCCTRL_OSCSEL
	case PLL0:
		sel = PM_GCCTRL_PLLSEL
	case PLL1:
		sel = PM_GCCTRL_PLLSEL | PM_GCCTRL_OSCSEL
	default:
		return fmt.Errorf("generic clock %d from %v: %w", channel, source, ErrInvalidSource)
	}
	if targetFreq == 0 || sourceFreq < targetFreq {
		return fmt.Errorf("generic clock %d from %dHz to %dHz: %w", channel, sourceFreq, targetFreq, ErrInvalidFrequency)
	}
	diven, div := GenericClockDivider(sourceFreq, targetFreq)
	if div > maxGCDiv {
		return fmt.Errorf("generic clock %d divider %d for %dHz to %dHz doesn't fit: %w", channel, div, sourceFreq, targetFreq, ErrInvalidFrequency)
	}
	if diven {
		sel |= PM_GCCTRL_DIVEN
	}

	replaceBits(u.pm, pmGCCtrl(channel),
		sel|pmGCCtrlDiv(div),
		PM_GCCTRL_OSCSEL|PM_GCCTRL_PLLSEL|PM_GCCTRL_DIVEN|PM_GCCTRL_DIV)
	setBits(u.pm, pmGCCtrl(channel), PM_GCCTRL_CEN)
	u.gclk[channel] = Running
	u.logf("GCLK%d: %v %dHz -> %dHz, diven %v, div %d", channel, source, sourceFreq, targetFreq, diven, div)
	return nil
}

// StopGenericClock clears a generic clock's enable bit. Source and divider
// stay as last configured.
func (u *UC3) StopGenericClock(channel int) error {
	if err := checkChannel("generic clock", channel, NumGenericClocks); err != nil {
		return err
	}
	clearBits(u.pm, pmGCCtrl(channel), PM_GCCTRL_CEN)
	u.gclk[channel] = Disabled
	return nil
}
