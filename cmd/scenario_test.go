package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/colmena/demand-sim/sim"
)

const minimalScenario = `
seed: 7
baseline_arrival_rate: 10
shape_a: 1
shape_b: 1
total_new_customer_rate: 15
time_horizon: 3
products:
  - {name: Widget, price: 100, weight: 1, volume: 1, available: 5, initial_demand: 4}
average_quantity: {Widget: 3}
new_customer_rates: {Widget: 2}
price_floors: {Widget: 50}
`

func TestParseScenario_Minimal(t *testing.T) {
	// GIVEN a scenario that omits the run switches
	sc, err := parseScenario(strings.NewReader(minimalScenario))
	require.NoError(t, err)

	// THEN explicit values are read and defaults fill the rest
	assert.Equal(t, int64(7), sc.Seed)
	assert.Equal(t, 3, sc.TimeHorizon)
	require.Len(t, sc.Products, 1)
	assert.Equal(t, 4, sc.Products[0].InitialDemand)
	assert.True(t, sc.IncludeZeroTime)
	assert.True(t, sc.TimeDynamics)
	assert.Equal(t, sim.PricingDemandDecay, sc.PricingPolicy)
	assert.NoError(t, sc.Validate())
}

func TestParseScenario_UnknownFieldRejected(t *testing.T) {
	// GIVEN a typo in a top-level key
	_, err := parseScenario(strings.NewReader(minimalScenario + "time_horizn: 4\n"))

	// THEN strict parsing fails
	assert.ErrorContains(t, err, "time_horizn")
}

func TestParseScenario_EmptyDocumentYieldsDefaults(t *testing.T) {
	sc, err := parseScenario(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, int64(defaultSeed), sc.Seed)
	assert.Error(t, sc.Validate(), "defaults alone have no products")
}

func TestLoadScenario_ExampleFileIsValid(t *testing.T) {
	sc, err := loadScenario(filepath.Join("..", "examples", "scenario.yaml"))
	require.NoError(t, err)
	assert.NoError(t, sc.Validate())
	assert.Equal(t, []string{"Arepa", "Cafe", "Queso"}, productNames(sc))
}

func TestLoadScenario_MissingFile(t *testing.T) {
	_, err := loadScenario(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.ErrorContains(t, err, "reading scenario file")
}

// newOverrideCmd builds a throwaway command with the scenario flags bound.
// Binding resets the package-level flag variables to their defaults.
func newOverrideCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	registerScenarioFlags(c)
	require.NoError(t, c.ParseFlags(args))
	return c
}

func TestApplyOverrides_OnlyChangedFlags(t *testing.T) {
	// GIVEN a scenario with its own seed and horizon
	sc, err := parseScenario(strings.NewReader(minimalScenario))
	require.NoError(t, err)

	// WHEN only --horizon and --pricing-policy are passed
	applyOverrides(newOverrideCmd(t, "--horizon", "12", "--pricing-policy", sim.PricingDemandDecayClamped), sc)

	// THEN those override and the seed keeps the scenario value
	assert.Equal(t, 12, sc.TimeHorizon)
	assert.Equal(t, sim.PricingDemandDecayClamped, sc.PricingPolicy)
	assert.Equal(t, int64(7), sc.Seed)
	assert.True(t, sc.IncludeZeroTime)
}

func TestApplyOverrides_BooleanSwitches(t *testing.T) {
	sc, err := parseScenario(strings.NewReader(minimalScenario))
	require.NoError(t, err)

	applyOverrides(newOverrideCmd(t, "--zero-time=false", "--time-dynamics=false", "--seed", "99"), sc)

	assert.False(t, sc.IncludeZeroTime)
	assert.False(t, sc.TimeDynamics)
	assert.Equal(t, int64(99), sc.Seed)
}

func TestScenarioFromFlags_EnvFallback(t *testing.T) {
	// GIVEN no --scenario but DEMANDSIM_SCENARIO pointing at a file
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0644))
	t.Setenv(envScenario, path)

	sc, err := scenarioFromFlags(newOverrideCmd(t))

	require.NoError(t, err)
	assert.Equal(t, int64(7), sc.Seed)
}

func TestScenarioFromFlags_NoScenario(t *testing.T) {
	t.Setenv(envScenario, "")

	_, err := scenarioFromFlags(newOverrideCmd(t))

	assert.ErrorContains(t, err, envScenario)
}

func TestScenarioFromFlags_InvalidOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "s.yaml")
	require.NoError(t, os.WriteFile(path, []byte(minimalScenario), 0644))
	_, err := scenarioFromFlags(newOverrideCmd(t, "--scenario", path, "--horizon", "-1"))

	assert.ErrorContains(t, err, "time_horizon")
}
