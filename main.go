package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jon-Bright/uc3clk/plan"
	"github.com/Jon-Bright/uc3clk/uc3"
)

var (
	memFile   string
	useSim    bool
	settle    int
	budget    int
	pollDelay time.Duration
	quiet     bool

	rootCmd = &cobra.Command{
		Use:   "clockctl",
		Short: "Configure the clock tree of an AVR32 UC3",
		Long: "clockctl brings up oscillators, PLLs and generic clocks and switches the CPU clock, " +
			"following a YAML clock plan. It drives the power manager registers mapped from /dev/mem, " +
			"or a simulated register set with --sim.",
		SilenceUsage: true,
	}
)

func init() {
	log.SetFlags(log.Ltime | log.Lmicroseconds)
	log.SetOutput(os.Stderr)

	f := rootCmd.PersistentFlags()
	f.StringVar(&memFile, "mem", uc3.MEM_FILE, "The memory device through which the PM and FLASHC registers are mapped")
	f.BoolVar(&useSim, "sim", false, "Drive simulated registers instead of real hardware")
	f.IntVar(&settle, "settle", 8, "With --sim, how many status polls an oscillator or PLL takes to become ready")
	f.IntVar(&budget, "budget", 0, "How many status polls to wait for an oscillator or PLL. 0 waits forever, like the hardware.")
	f.DurationVar(&pollDelay, "poll-delay", 0, "How long to sleep between status polls")
	f.BoolVarP(&quiet, "quiet", "q", false, "Don't log progress")

	rootCmd.AddCommand(applyCmd, showCmd, planCmd)
}

// openClocks returns a driver for the hardware selected by the flags, and a
// function releasing it.
func openClocks() (*uc3.UC3, func(), error) {
	opts := uc3.Options{
		Budget:    budget,
		PollDelay: pollDelay,
	}
	if !quiet {
		opts.Logger = log.Default()
	}
	if useSim {
		log.Printf("Using simulated registers, settle %d", settle)
		return uc3.NewSim(settle).UC3(opts), func() {}, nil
	}
	u, err := uc3.Open(memFile, opts)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't open UC3 registers: %v", err)
	}
	return u, func() { u.Close() }, nil // Ignore error
}

// loadPlan reads the plan named in args, or the built-in one.
func loadPlan(args []string) (*plan.Plan, error) {
	if len(args) == 0 {
		return plan.Default(), nil
	}
	return plan.Load(args[0])
}

func planLogger() *log.Logger {
	if quiet {
		return log.New(io.Discard, "", 0)
	}
	return log.Default()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
