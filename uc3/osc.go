package uc3

import "fmt"

// StartOscillator configures an external oscillator channel with the given
// mode and startup delay, enables it and blocks until the hardware reports it
// ready. With a zero Options.Budget this never returns if the oscillator never
// stabilises.
func (u *UC3) StartOscillator(channel int, mode ClockType, startup Startup) error {
	if err := checkChannel("oscillator", channel, NumOscillators); err != nil {
		return err
	}
	if !mode.valid() {
		return fmt.Errorf("oscillator %d mode %v: %w", channel, mode, ErrInvalidParameter)
	}
	if !startup.valid() {
		return fmt.Errorf("oscillator %d startup %v: %w", channel, startup, ErrInvalidParameter)
	}

	replaceBits(u.pm, pmOscCtrl(channel),
		pmOscCtrlMode(uint32(mode))|pmOscCtrlStartup(uint32(startup)),
		PM_OSCCTRL_MODE|PM_OSCCTRL_STARTUP)
	setBits(u.pm, PM_MCCTRL, pmMcctrlOscEn(channel))
	u.osc[channel] = Enabling

	err := u.waitFor(fmt.Sprintf("osc%d ready", channel), func() bool {
		return u.pm.Load(PM_POSCSR)&pmPoscsrOscRdy(channel) != 0
	})
	if err != nil {
		return err
	}
	u.osc[channel] = Ready
	return nil
}

// StopOscillator disables an external oscillator channel. Stopping is taken
// to be immediate; nothing is polled.
func (u *UC3) StopOscillator(channel int) error {
	if err := checkChannel("oscillator", channel, NumOscillators); err != nil {
		return err
	}
	clearBits(u.pm, PM_MCCTRL, pmMcctrlOscEn(channel))
	u.osc[channel] = Disabled
	return nil
}
