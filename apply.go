package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Jon-Bright/uc3clk/uc3"
)

var (
	applyCmd = &cobra.Command{
		Use:   "apply [plan.yaml]",
		Short: "Apply a clock plan",
		Long:  "Bring up the clock tree described by a plan file, or the built-in boot plan if none is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := loadPlan(args)
			if err != nil {
				return err
			}
			u, done, err := openClocks()
			if err != nil {
				return err
			}
			defer done()
			if err := p.Apply(u, planLogger()); err != nil {
				return err
			}
			planLogger().Printf("Clock plan applied")
			return nil
		},
	}

	showCmd = &cobra.Command{
		Use:   "show [plan.yaml]",
		Short: "Print the clock tree state",
		Long: "Print the configuration of every oscillator, PLL and generic clock and the CPU clock source. " +
			"With a plan argument, the plan is applied first, which is mostly useful with --sim.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, done, err := openClocks()
			if err != nil {
				return err
			}
			defer done()
			if len(args) > 0 {
				p, err := loadPlan(args)
				if err != nil {
					return err
				}
				if err := p.Apply(u, planLogger()); err != nil {
					return err
				}
			}
			return printTree(u)
		},
	}
)

func printTree(u *uc3.UC3) error {
	w := os.Stdout
	for ch := 0; ch < uc3.NumOscillators; ch++ {
		o, err := u.Oscillator(ch)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%v [%v]\n", o, u.OscillatorState(ch))
	}
	for ch := 0; ch < uc3.NumPLLs; ch++ {
		p, err := u.PLL(ch)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%v [%v]\n", p, u.PLLState(ch))
	}
	for ch := 0; ch < uc3.NumGenericClocks; ch++ {
		g, err := u.GenericClock(ch)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%v [%v]\n", g, u.GenericClockState(ch))
	}
	fmt.Fprintf(w, "%v\n", u.CPU())
	return nil
}
