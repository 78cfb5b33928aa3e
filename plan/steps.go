package plan

import (
	"fmt"
	"log"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/multi"
	"gonum.org/v1/gonum/graph/topo"

	"github.com/Jon-Bright/uc3clk/uc3"
)

// Clocks is the part of *uc3.UC3 a plan drives.
type Clocks interface {
	StartOscillator(channel int, mode uc3.ClockType, startup uc3.Startup) error
	StartPLL(channel int, source uc3.ClockSource, sourceFreq, targetFreq uint32) error
	StartGenericClock(channel int, source uc3.ClockSource, sourceFreq, targetFreq uint32) error
	SetCPUClockSource(source uc3.ClockSource, sourceFreq uint32) error
}

// Step is one clock-tree operation of a plan.
type Step struct {
	// Name is the clock the step brings up: osc0, pll1, gclk3 or cpu.
	Name string
	// Needs is the clock the step takes its input from, if any.
	Needs string
	// Frequency is the step's output frequency in Hz.
	Frequency uint32

	desc string
	run  func(Clocks) error
	id   int64
}

func (s *Step) ID() int64 {
	return s.id
}

func (s *Step) String() string {
	return s.desc
}

// Node IDs leave room for every channel of each kind.
const (
	oscNodes  = 0
	pllNodes  = 10
	gclkNodes = 20
	cpuNode   = 30
)

type stepSet struct {
	byName map[string]*Step
	order  []*Step
}

func (ss *stepSet) add(s *Step) error {
	if _, ok := ss.byName[s.Name]; ok {
		return fmt.Errorf("%s configured twice", s.Name)
	}
	ss.byName[s.Name] = s
	ss.order = append(ss.order, s)
	return nil
}

// source looks up the step providing src for the step named by.
func (ss *stepSet) source(by string, src uc3.ClockSource) (*Step, error) {
	s, ok := ss.byName[src.String()]
	if !ok {
		return nil, fmt.Errorf("%s: source %v isn't started by this plan", by, src)
	}
	return s, nil
}

// Steps validates the plan and returns its operations in an order that
// starts every clock before anything that depends on it.
func (p *Plan) Steps() ([]*Step, error) {
	ss := &stepSet{byName: map[string]*Step{}}

	for _, o := range p.Oscillators {
		o := o
		if o.Channel < 0 || o.Channel >= uc3.NumOscillators {
			return nil, fmt.Errorf("oscillator %d: %w", o.Channel, uc3.ErrInvalidChannel)
		}
		name := fmt.Sprintf("osc%d", o.Channel)
		mode, err := uc3.ParseClockType(o.Mode)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		startup, err := uc3.StartupFromCycles(o.Startup)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if o.Frequency == 0 {
			return nil, fmt.Errorf("%s: no frequency given: %w", name, uc3.ErrInvalidFrequency)
		}
		err = ss.add(&Step{
			Name:      name,
			Frequency: o.Frequency,
			desc:      fmt.Sprintf("start %s (%v, %v, %dHz)", name, mode, startup, o.Frequency),
			run: func(c Clocks) error {
				return c.StartOscillator(o.Channel, mode, startup)
			},
			id: oscNodes + int64(o.Channel),
		})
		if err != nil {
			return nil, err
		}
	}

	for _, pl := range p.PLLs {
		pl := pl
		if pl.Channel < 0 || pl.Channel >= uc3.NumPLLs {
			return nil, fmt.Errorf("PLL %d: %w", pl.Channel, uc3.ErrInvalidChannel)
		}
		name := fmt.Sprintf("pll%d", pl.Channel)
		src, err := uc3.ParseClockSource(pl.Source)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if _, ok := src.IsOscillator(); !ok {
			return nil, fmt.Errorf("%s: PLLs can't run from %v: %w", name, src, uc3.ErrInvalidSource)
		}
		in, err := ss.source(name, src)
		if err != nil {
			return nil, err
		}
		if pl.Frequency < in.Frequency {
			return nil, fmt.Errorf("%s: %dHz is below its %dHz source: %w", name, pl.Frequency, in.Frequency, uc3.ErrInvalidFrequency)
		}
		err = ss.add(&Step{
			Name:      name,
			Needs:     in.Name,
			Frequency: pl.Frequency,
			desc:      fmt.Sprintf("start %s from %v (%dHz -> %dHz)", name, src, in.Frequency, pl.Frequency),
			run: func(c Clocks) error {
				return c.StartPLL(pl.Channel, src, in.Frequency, pl.Frequency)
			},
			id: pllNodes + int64(pl.Channel),
		})
		if err != nil {
			return nil, err
		}
	}

	for _, g := range p.GenericClocks {
		g := g
		if g.Channel < 0 || g.Channel >= uc3.NumGenericClocks {
			return nil, fmt.Errorf("generic clock %d: %w", g.Channel, uc3.ErrInvalidChannel)
		}
		name := fmt.Sprintf("gclk%d", g.Channel)
		src, err := uc3.ParseClockSource(g.Source)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		if src == uc3.SlowClock {
			return nil, fmt.Errorf("%s: generic clocks can't run from %v: %w", name, src, uc3.ErrInvalidSource)
		}
		in, err := ss.source(name, src)
		if err != nil {
			return nil, err
		}
		if g.Frequency == 0 || g.Frequency > in.Frequency {
			return nil, fmt.Errorf("%s: can't make %dHz from %dHz: %w", name, g.Frequency, in.Frequency, uc3.ErrInvalidFrequency)
		}
		err = ss.add(&Step{
			Name:      name,
			Needs:     in.Name,
			Frequency: g.Frequency,
			desc:      fmt.Sprintf("start %s from %v (%dHz -> %dHz)", name, src, in.Frequency, g.Frequency),
			run: func(c Clocks) error {
				return c.StartGenericClock(g.Channel, src, in.Frequency, g.Frequency)
			},
			id: gclkNodes + int64(g.Channel),
		})
		if err != nil {
			return nil, err
		}
	}

	if p.CPU != nil {
		src, err := uc3.ParseClockSource(p.CPU.Source)
		if err != nil {
			return nil, fmt.Errorf("cpu: %w", err)
		}
		s := &Step{Name: "cpu", id: cpuNode}
		switch src {
		case uc3.SlowClock:
			s.Frequency = uc3.SlowClockFrequency
		case uc3.Osc0, uc3.PLL0:
			in, err := ss.source("cpu", src)
			if err != nil {
				return nil, err
			}
			s.Needs = in.Name
			s.Frequency = in.Frequency
		default:
			return nil, fmt.Errorf("cpu: can't run from %v: %w", src, uc3.ErrInvalidSource)
		}
		s.desc = fmt.Sprintf("switch cpu to %v (%dHz)", src, s.Frequency)
		s.run = func(c Clocks) error {
			return c.SetCPUClockSource(src, s.Frequency)
		}
		if err := ss.add(s); err != nil {
			return nil, err
		}
	}

	return ss.sort()
}

func (ss *stepSet) sort() ([]*Step, error) {
	g := multi.NewDirectedGraph()
	for _, s := range ss.order {
		g.AddNode(s)
	}
	for _, s := range ss.order {
		if s.Needs != "" {
			g.SetLine(g.NewLine(ss.byName[s.Needs], s))
		}
	}

	sorted, err := topo.SortStabilized(g, nil)
	if err != nil {
		return nil, fmt.Errorf("couldn't order steps: %v", err)
	}
	steps := make([]*Step, len(sorted))
	for i, n := range sorted {
		steps[i] = n.(*Step)
	}
	return steps, nil
}

var _ graph.Node = (*Step)(nil)

// Apply runs steps in order against c, stopping at the first failure.
// logger may be nil.
func Apply(c Clocks, steps []*Step, logger *log.Logger) error {
	for i, s := range steps {
		if logger != nil {
			logger.Printf("[%d/%d] %v", i+1, len(steps), s)
		}
		if err := s.run(c); err != nil {
			return fmt.Errorf("couldn't %v: %w", s, err)
		}
	}
	return nil
}

// Apply validates the plan and applies it to c.
func (p *Plan) Apply(c Clocks, logger *log.Logger) error {
	steps, err := p.Steps()
	if err != nil {
		return err
	}
	return Apply(c, steps, logger)
}
