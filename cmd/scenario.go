package cmd

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/colmena/demand-sim/sim"
)

const (
	envScenario = "DEMANDSIM_SCENARIO"
	envLogFile  = "DEMANDSIM_LOG_FILE"
	envAddr     = "DEMANDSIM_ADDR"

	defaultSeed = 42
)

// Scenario is a scenario file: the run configuration plus the seed.
// All sim.Config fields sit at the top level of the YAML document.
type Scenario struct {
	Seed       int64 `yaml:"seed" json:"seed"`
	sim.Config `yaml:",inline"`
}

// newScenario returns the defaults a scenario file is decoded on top of.
func newScenario() *Scenario {
	return &Scenario{Seed: defaultSeed, Config: sim.DefaultConfig()}
}

// parseScenario decodes YAML with strict field checking, so a misspelled key
// is an error rather than a silently ignored input.
func parseScenario(r io.Reader) (*Scenario, error) {
	sc := newScenario()
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(sc); err != nil {
		if err == io.EOF {
			return sc, nil
		}
		return nil, fmt.Errorf("parsing scenario YAML: %w", err)
	}
	return sc, nil
}

// loadScenario reads and parses the scenario file at path.
func loadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scenario file: %w", err)
	}
	sc, err := parseScenario(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return sc, nil
}

// scenarioFromFlags loads the scenario named by --scenario (or the
// DEMANDSIM_SCENARIO environment variable) and applies explicitly set flags.
func scenarioFromFlags(cmd *cobra.Command) (*Scenario, error) {
	path := scenarioPath
	if path == "" {
		path = os.Getenv(envScenario)
	}
	if path == "" {
		return nil, fmt.Errorf("no scenario given; use --scenario or set %s", envScenario)
	}
	sc, err := loadScenario(path)
	if err != nil {
		return nil, err
	}
	applyOverrides(cmd, sc)
	if err := sc.Validate(); err != nil {
		return nil, fmt.Errorf("%s: invalid scenario: %w", path, err)
	}
	return sc, nil
}

// applyOverrides copies flags the user actually set onto sc. Flag defaults
// never shadow scenario values.
func applyOverrides(cmd *cobra.Command, sc *Scenario) {
	flags := cmd.Flags()
	if flags.Changed("seed") {
		sc.Seed = seed
	}
	if flags.Changed("zero-time") {
		sc.IncludeZeroTime = zeroTime
	}
	if flags.Changed("time-dynamics") {
		sc.TimeDynamics = timeDynamics
	}
	if flags.Changed("horizon") {
		sc.TimeHorizon = horizon
	}
	if flags.Changed("pricing-policy") {
		sc.PricingPolicy = pricingPolicy
	}
}
