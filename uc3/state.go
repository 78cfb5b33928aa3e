package uc3

import "fmt"

// ChannelState is the driver's view of a clock channel. Oscillators move
// Disabled -> Enabling -> Ready, PLLs Disabled -> Enabling -> Locked, and
// generic clocks Disabled -> Running.
type ChannelState int

const (
	Disabled ChannelState = iota
	Enabling
	Ready
	Locked
	Running
)

var channelStateNames = []string{"disabled", "enabling", "ready", "locked", "running"}

func (s ChannelState) String() string {
	if s < 0 || int(s) >= len(channelStateNames) {
		return fmt.Sprintf("ChannelState(%d)", int(s))
	}
	return channelStateNames[s]
}

// OscillatorChannel is an oscillator's configuration as read back from the
// registers.
type OscillatorChannel struct {
	Index   int
	Mode    ClockType
	Startup Startup
	Enabled bool
	Ready   bool
}

type PLLChannel struct {
	Index      int
	Source     ClockSource
	Multiplier uint32
	Divider    uint32
	Enabled    bool
	Locked     bool
}

type GenericClockChannel struct {
	Index          int
	Source         ClockSource
	DividerEnabled bool
	Divider        uint32
	Enabled        bool
}

type CPUClockSelector struct {
	Source    ClockSource
	WaitState bool
}

func (o OscillatorChannel) String() string {
	return fmt.Sprintf("osc%d: mode %v, startup %v, enabled %v, ready %v", o.Index, o.Mode, o.Startup, o.Enabled, o.Ready)
}

func (p PLLChannel) String() string {
	return fmt.Sprintf("pll%d: source %v, mul %d, div %d, enabled %v, locked %v", p.Index, p.Source, p.Multiplier, p.Divider, p.Enabled, p.Locked)
}

func (g GenericClockChannel) String() string {
	return fmt.Sprintf("gclk%d: source %v, diven %v, div %d, enabled %v", g.Index, g.Source, g.DividerEnabled, g.Divider, g.Enabled)
}

func (c CPUClockSelector) String() string {
	return fmt.Sprintf("cpu: source %v, wait state %v", c.Source, c.WaitState)
}

// Oscillator decodes the registers of an oscillator channel.
func (u *UC3) Oscillator(channel int) (OscillatorChannel, error) {
	if err := checkChannel("oscillator", channel, NumOscillators); err != nil {
		return OscillatorChannel{}, err
	}
	ctrl := u.pm.Load(pmOscCtrl(channel))
	return OscillatorChannel{
		Index:   channel,
		Mode:    ClockType(ctrl & PM_OSCCTRL_MODE),
		Startup: Startup((ctrl & PM_OSCCTRL_STARTUP) >> 8),
		Enabled: u.pm.Load(PM_MCCTRL)&pmMcctrlOscEn(channel) != 0,
		Ready:   u.pm.Load(PM_POSCSR)&pmPoscsrOscRdy(channel) != 0,
	}, nil
}

func (u *UC3) PLL(channel int) (PLLChannel, error) {
	if err := checkChannel("PLL", channel, NumPLLs); err != nil {
		return PLLChannel{}, err
	}
	pll := u.pm.Load(pmPLL(channel))
	src := Osc0
	if pll&PM_PLL_PLLOSC != 0 {
		src = Osc1
	}
	return PLLChannel{
		Index:      channel,
		Source:     src,
		Multiplier: (pll & PM_PLL_PLLMUL) >> 16,
		Divider:    (pll & PM_PLL_PLLDIV) >> 8,
		Enabled:    pll&PM_PLL_PLLEN != 0,
		Locked:     u.pm.Load(PM_POSCSR)&pmPoscsrLock(channel) != 0,
	}, nil
}

func (u *UC3) GenericClock(channel int) (GenericClockChannel, error) {
	if err := checkChannel("generic clock", channel, NumGenericClocks); err != nil {
		return GenericClockChannel{}, err
	}
	gc := u.pm.Load(pmGCCtrl(channel))
	src := Osc0
	switch gc & (PM_GCCTRL_PLLSEL | PM_GCCTRL_OSCSEL) {
	case PM_GCCTRL_OSCSEL:
		src = Osc1
	case PM_GCCTRL_PLLSEL:
		src = PLL0
	case PM_GCCTRL_PLLSEL | PM_GCCTRL_OSCSEL:
		src = PLL1
	}
	return GenericClockChannel{
		Index:          channel,
		Source:         src,
		DividerEnabled: gc&PM_GCCTRL_DIVEN != 0,
		Divider:        (gc & PM_GCCTRL_DIV) >> 8,
		Enabled:        gc&PM_GCCTRL_CEN != 0,
	}, nil
}

func (u *UC3) CPU() CPUClockSelector {
	var src ClockSource
	switch u.pm.Load(PM_MCCTRL) & PM_MCCTRL_MCSEL {
	case 0:
		src = SlowClock
	case 1:
		src = Osc0
	case 2:
		src = PLL0
	default:
		src = ClockSource(0xff)
	}
	return CPUClockSelector{
		Source:    src,
		WaitState: u.flashc.Load(FLASHC_FCR)&FLASHC_FCR_FWS != 0,
	}
}

// OscillatorState returns the driver's state for an oscillator channel.
// Out-of-range channels report Disabled.
func (u *UC3) OscillatorState(channel int) ChannelState {
	if channel < 0 || channel >= NumOscillators {
		return Disabled
	}
	return u.osc[channel]
}

func (u *UC3) PLLState(channel int) ChannelState {
	if channel < 0 || channel >= NumPLLs {
		return Disabled
	}
	return u.pll[channel]
}

func (u *UC3) GenericClockState(channel int) ChannelState {
	if channel < 0 || channel >= NumGenericClocks {
		return Disabled
	}
	return u.gclk[channel]
}
