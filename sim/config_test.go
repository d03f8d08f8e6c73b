package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Validate_Valid(t *testing.T) {
	cfg := marketConfig()
	assert.NoError(t, cfg.Validate())

	w := widgetConfig()
	assert.NoError(t, w.Validate())
}

func TestConfig_Validate_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"negative baseline rate", func(c *Config) { c.BaselineArrivalRate = -1 }, "baseline_arrival_rate"},
		{"NaN total rate", func(c *Config) { c.TotalNewCustomerRate = math.NaN() }, "total_new_customer_rate"},
		{"zero shape", func(c *Config) { c.ShapeA = 0 }, "shape_a"},
		{"infinite shape", func(c *Config) { c.ShapeB = math.Inf(1) }, "shape_b"},
		{"negative horizon", func(c *Config) { c.TimeHorizon = -2 }, "time_horizon"},
		{"unknown policy", func(c *Config) { c.PricingPolicy = "surge" }, "pricing_policy"},
		{"no products", func(c *Config) { c.Products = nil }, "at least one product"},
		{"duplicate product", func(c *Config) { c.Products = append(c.Products, c.Products[0]) }, "duplicate"},
		{"negative available", func(c *Config) { c.Products[1].Available = -1 }, "available"},
		{"negative price", func(c *Config) { c.Products[0].Price = -3 }, "price"},
		{"negative initial demand", func(c *Config) { c.Products[2].InitialDemand = -1 }, "initial_demand"},
		{"missing average quantity", func(c *Config) { delete(c.AverageQuantity, "Cafe") }, "missing entries for [Cafe]"},
		{"unknown rate key", func(c *Config) { c.NewCustomerRates["Pan"] = 1 }, `unknown product "Pan"`},
		{"average quantity too small", func(c *Config) { c.AverageQuantity["Queso"] = 1 }, "at least 2"},
		{"negative product rate", func(c *Config) { c.NewCustomerRates["Arepa"] = -1 }, "new_customer_rates[Arepa]"},
		{"negative floor", func(c *Config) { c.PriceFloors["Cafe"] = -0.5 }, "price_floors[Cafe]"},
		{"missing floors", func(c *Config) { c.PriceFloors = nil }, "price_floors"},
		{"baseline rate above bound", func(c *Config) { c.BaselineArrivalRate = 1e19 }, "baseline_arrival_rate must be at most"},
		{"total rate above bound", func(c *Config) { c.TotalNewCustomerRate = maxArrivalRate * 2 }, "total_new_customer_rate must be at most"},
		{"product rate above bound", func(c *Config) { c.NewCustomerRates["Cafe"] = 1e9 }, "new_customer_rates[Cafe] must be at most"},
		{"horizon above bound", func(c *Config) { c.TimeHorizon = maxTimeHorizon + 1 }, "time_horizon must be at most"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// GIVEN a valid config with one field broken
			cfg := marketConfig()
			tt.mutate(&cfg)

			// WHEN validated
			err := cfg.Validate()

			// THEN the error names the offending field
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfig_Validate_BoundsInclusive(t *testing.T) {
	cfg := marketConfig()
	cfg.TotalNewCustomerRate = maxArrivalRate
	cfg.TimeHorizon = maxTimeHorizon
	assert.NoError(t, cfg.Validate())
}

func TestNewSimulator_HugeRateRejectedBeforeRunning(t *testing.T) {
	// GIVEN a pool rate that would overflow the pool size
	cfg := widgetConfig()
	cfg.BaselineArrivalRate = 1e19

	// WHEN a simulator is built
	s, err := NewSimulator(cfg, newRandFromSeed(1))

	// THEN construction fails with a descriptive error instead of panicking later
	assert.Nil(t, s)
	assert.ErrorContains(t, err, "baseline_arrival_rate must be at most")
}

func TestDefaultConfig_Switches(t *testing.T) {
	cfg := DefaultConfig()
	assert.True(t, cfg.IncludeZeroTime)
	assert.True(t, cfg.TimeDynamics)
	assert.Equal(t, PricingDemandDecay, cfg.PricingPolicy)
}

func TestNewSimulator_InvalidConfigWrapped(t *testing.T) {
	cfg := widgetConfig()
	cfg.ShapeA = -1

	_, err := NewSimulator(cfg, newRandFromSeed(1))

	assert.ErrorContains(t, err, "invalid simulation config")
}
