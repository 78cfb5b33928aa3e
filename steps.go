package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var planCmd = &cobra.Command{
	Use:   "plan [plan.yaml]",
	Short: "Print the steps of a clock plan",
	Long:  "Validate a plan file, or the built-in boot plan, and print the order its steps would run in. No registers are touched.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadPlan(args)
		if err != nil {
			return err
		}
		steps, err := p.Steps()
		if err != nil {
			return fmt.Errorf("invalid plan: %w", err)
		}
		for i, s := range steps {
			fmt.Printf("%d. %v\n", i+1, s)
		}
		return nil
	},
}
