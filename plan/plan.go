// Package plan describes a whole UC3 clock tree in YAML and applies it in
// dependency order: oscillators before the PLLs they feed, and every source
// before the generic clocks and CPU switch that use it.
package plan

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultPlan []byte

type Plan struct {
	Oscillators   []Oscillator   `yaml:"oscillators"`
	PLLs          []PLL          `yaml:"plls"`
	GenericClocks []GenericClock `yaml:"genericClocks"`
	CPU           *CPU           `yaml:"cpu"`
}

type Oscillator struct {
	Channel   int    `yaml:"channel"`
	Mode      string `yaml:"mode"`
	Startup   int    `yaml:"startup"` // cycles
	Frequency uint32 `yaml:"frequency"`
}

type PLL struct {
	Channel   int    `yaml:"channel"`
	Source    string `yaml:"source"`
	Frequency uint32 `yaml:"frequency"`
}

type GenericClock struct {
	Channel   int    `yaml:"channel"`
	Source    string `yaml:"source"`
	Frequency uint32 `yaml:"frequency"`
}

// CPU selects the CPU clock source. Its frequency is the source's.
type CPU struct {
	Source string `yaml:"source"`
}

// Parse reads a plan from YAML. Unknown keys are rejected.
func Parse(b []byte) (*Plan, error) {
	var p Plan
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty plan")
		}
		return nil, fmt.Errorf("couldn't parse plan: %v", err)
	}
	return &p, nil
}

func Load(fn string) (*Plan, error) {
	b, err := os.ReadFile(fn)
	if err != nil {
		return nil, fmt.Errorf("couldn't read plan: %v", err)
	}
	p, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fn, err)
	}
	return p, nil
}

// Default returns the built-in boot plan.
func Default() *Plan {
	p, err := Parse(defaultPlan)
	if err != nil {
		panic(err)
	}
	return p
}
