package uc3

// Sim is an in-memory UC3 power manager and flash controller. It behaves like
// the hardware as far as the clock driver can see: an enabled oscillator
// reports ready once Settle status polls have found it not ready, and an
// enabled PLL reports lock the same way, but only while its source oscillator
// is ready. Disabling either clears its status bit at the next poll.
type Sim struct {
	PM     *MemRegisters
	Flash  *MemRegisters
	Settle int

	oscPolls [NumOscillators]int
	pllPolls [NumPLLs]int
}

func NewSim(settle int) *Sim {
	return &Sim{
		PM:     NewMemRegisters(PM_SIZE),
		Flash:  NewMemRegisters(FLASHC_SIZE),
		Settle: settle,
	}
}

// UC3 returns a driver wired to the simulated register blocks.
func (s *Sim) UC3(opts Options) *UC3 {
	return New(simPM{s}, s.Flash, opts)
}

// ResetWrites clears the write logs of both blocks.
func (s *Sim) ResetWrites() {
	s.PM.ResetWrites()
	s.Flash.ResetWrites()
}

// simPM advances the simulated status register whenever the driver reads it.
type simPM struct {
	s *Sim
}

func (p simPM) Load(offset uintptr) uint32 {
	if offset == PM_POSCSR {
		p.s.poll()
	}
	return p.s.PM.Load(offset)
}

func (p simPM) Store(offset uintptr, value uint32) {
	p.s.PM.Store(offset, value)
}

func (s *Sim) poll() {
	mcctrl := s.PM.Load(PM_MCCTRL)
	poscsr := s.PM.Load(PM_POSCSR)

	for ch := 0; ch < NumOscillators; ch++ {
		rdy := pmPoscsrOscRdy(ch)
		if mcctrl&pmMcctrlOscEn(ch) == 0 {
			s.oscPolls[ch] = 0
			poscsr &^= rdy
			continue
		}
		if poscsr&rdy != 0 {
			continue
		}
		if s.oscPolls[ch] >= s.Settle {
			poscsr |= rdy
		}
		s.oscPolls[ch]++
	}

	for ch := 0; ch < NumPLLs; ch++ {
		lock := pmPoscsrLock(ch)
		pll := s.PM.Load(pmPLL(ch))
		osc := 0
		if pll&PM_PLL_PLLOSC != 0 {
			osc = 1
		}
		if pll&PM_PLL_PLLEN == 0 || poscsr&pmPoscsrOscRdy(osc) == 0 {
			s.pllPolls[ch] = 0
			poscsr &^= lock
			continue
		}
		if poscsr&lock != 0 {
			continue
		}
		if s.pllPolls[ch] >= s.Settle {
			poscsr |= lock
		}
		s.pllPolls[ch]++
	}

	s.PM.set(PM_POSCSR, poscsr)
}
