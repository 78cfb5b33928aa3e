package uc3

import "fmt"

// PLLMultiplier returns the PLLMUL field value that takes sourceFreq to
// targetFreq. Only meaningful for targetFreq >= sourceFreq > 0.
func PLLMultiplier(sourceFreq, targetFreq uint32) uint32 {
	ratio := targetFreq / sourceFreq
	if ratio == 0 {
		return 0
	}
	return (ratio - 1) / 2
}

// StartPLL points a PLL at an oscillator, programs its multiplier for the
// requested output frequency (divider bypassed), enables it and blocks until
// the hardware reports lock. The source oscillator must already be running;
// that isn't checked here, but the PLL won't lock without it.
//
// A PLL only multiplies: targetFreq below sourceFreq fails with
// ErrInvalidFrequency, as does a multiplier too large for the PLLMUL field.
func (u *UC3) StartPLL(channel int, source ClockSource, sourceFreq, targetFreq uint32) error {
	if err := checkChannel("PLL", channel, NumPLLs); err != nil {
		return err
	}
	osc, ok := source.IsOscillator()
	if !ok {
		return fmt.Errorf("PLL %d from %v: %w", channel, source, ErrInvalidSource)
	}
	if sourceFreq == 0 || targetFreq < sourceFreq {
		return fmt.Errorf("PLL %d from %dHz to %dHz: %w", channel, sourceFreq, targetFreq, ErrInvalidFrequency)
	}
	mul := PLLMultiplier(sourceFreq, targetFreq)
	if mul > maxPLLMul {
		return fmt.Errorf("PLL %d multiplier %d for %dHz to %dHz doesn't fit: %w", channel, mul, sourceFreq, targetFreq, ErrInvalidFrequency)
	}

	var pllosc uint32
	if osc == 1 {
		pllosc = PM_PLL_PLLOSC
	}
	replaceBits(u.pm, pmPLL(channel),
		pllosc|pmPllMul(mul)|pmPllDiv(0),
		PM_PLL_PLLOSC|PM_PLL_PLLMUL|PM_PLL_PLLDIV)
	setBits(u.pm, pmPLL(channel), PM_PLL_PLLEN)
	u.pll[channel] = Enabling
	u.logf("PLL%d: %v %dHz -> %dHz, mul %d", channel, source, sourceFreq, targetFreq, mul)

	err := u.waitFor(fmt.Sprintf("pll%d lock", channel), func() bool {
		return u.pm.Load(PM_POSCSR)&pmPoscsrLock(channel) != 0
	})
	if err != nil {
		return err
	}
	u.pll[channel] = Locked
	return nil
}

// StopPLL disables a PLL. Its source and multiplier are left as configured.
func (u *UC3) StopPLL(channel int) error {
	if err := checkChannel("PLL", channel, NumPLLs); err != nil {
		return err
	}
	clearBits(u.pm, pmPLL(channel), PM_PLL_PLLEN)
	u.pll[channel] = Disabled
	return nil
}
