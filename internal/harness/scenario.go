package harness

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Scenario is a named matrix of harness cases loaded from YAML. Each
// case multiplies out its seed, cap, and spacing lists; empty lists fall
// back to the base configuration's value.
type Scenario struct {
	Name  string         `yaml:"name"`
	Cases []ScenarioCase `yaml:"cases"`
}

// ScenarioCase is one demo with its parameter lists.
type ScenarioCase struct {
	Demo      string   `yaml:"demo"`
	Seeds     []uint64 `yaml:"seeds"`
	MaxEvents []int    `yaml:"max_events"`
	Spacing   []int    `yaml:"spacing"`
}

// CaseResult is the verdict for one expanded case.
type CaseResult struct {
	Demo      string `json:"demo"`
	Seed      uint64 `json:"seed"`
	MaxEvents int    `json:"max_events"`
	Spacing   int    `json:"spacing"`

	ParityAchieved bool `json:"parity_achieved"`
	Differences    int  `json:"differences"`
}

// LoadScenario reads a scenario file.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario: %w", err)
	}

	var s Scenario
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing scenario %s: %w", path, err)
	}
	if len(s.Cases) == 0 {
		return nil, fmt.Errorf("scenario %s declares no cases", path)
	}
	return &s, nil
}

// Expand multiplies the matrix into concrete configurations, in
// declaration order: cases, then seeds, then caps, then spacings.
func (s *Scenario) Expand(base Config) []Config {
	var configs []Config
	for _, c := range s.Cases {
		seeds := c.Seeds
		if len(seeds) == 0 {
			seeds = []uint64{base.Seed}
		}
		caps := c.MaxEvents
		if len(caps) == 0 {
			caps = []int{base.MaxEvents}
		}
		spacings := c.Spacing
		if len(spacings) == 0 {
			spacings = []int{base.Spacing}
		}

		demo := c.Demo
		if demo == "" {
			demo = base.DemoPath
		}

		for _, seed := range seeds {
			for _, maxEvents := range caps {
				for _, spacing := range spacings {
					cfg := base
					cfg.DemoPath = demo
					cfg.Seed = seed
					cfg.MaxEvents = maxEvents
					cfg.Spacing = spacing
					configs = append(configs, cfg)
				}
			}
		}
	}
	return configs
}

// RunScenario executes every expanded case sequentially. Pipeline
// failures are fatal, matching the single-run harness; parity failures
// are recorded and do not stop the matrix.
func RunScenario(s *Scenario, base Config) ([]CaseResult, error) {
	results := make([]CaseResult, 0, len(s.Cases))
	for _, cfg := range s.Expand(base) {
		cmp, err := Run(cfg)
		if err != nil {
			return nil, fmt.Errorf("scenario %s (demo=%s seed=%d): %w", s.Name, cfg.DemoPath, cfg.Seed, err)
		}
		results = append(results, CaseResult{
			Demo:           cfg.DemoPath,
			Seed:           cfg.Seed,
			MaxEvents:      cfg.MaxEvents,
			Spacing:        cfg.Spacing,
			ParityAchieved: cmp.ParityAchieved,
			Differences:    len(cmp.StateDifferences),
		})
	}
	return results, nil
}

// AllPassed reports whether every case achieved parity.
func AllPassed(results []CaseResult) bool {
	for _, r := range results {
		if !r.ParityAchieved {
			return false
		}
	}
	return true
}
