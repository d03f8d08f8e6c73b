package sim

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// widgetConfig is a single-product scenario with scarce stock.
func widgetConfig() Config {
	cfg := DefaultConfig()
	cfg.BaselineArrivalRate = 10
	cfg.ShapeA = 0.5
	cfg.ShapeB = 0.5
	cfg.AverageQuantity = map[string]int{"Widget": 3}
	cfg.NewCustomerRates = map[string]float64{"Widget": 2}
	cfg.PriceFloors = map[string]float64{"Widget": 50}
	cfg.TotalNewCustomerRate = 20
	cfg.TimeHorizon = 0
	cfg.Products = []ProductSpec{
		{Name: "Widget", Price: 100, Weight: 2, Volume: 0.5, Available: 5, InitialDemand: 10},
	}
	return cfg
}

// marketConfig is a three-product scenario with a non-trivial horizon.
func marketConfig() Config {
	cfg := DefaultConfig()
	cfg.BaselineArrivalRate = 40
	cfg.ShapeA = 2
	cfg.ShapeB = 5
	cfg.NewCustomerRate = 5
	cfg.TotalNewCustomerRate = 60
	cfg.TimeHorizon = 25
	cfg.Products = []ProductSpec{
		{Name: "Arepa", Price: 3.5, Weight: 0.2, Volume: 0.1, Available: 400, InitialDemand: 15},
		{Name: "Cafe", Price: 12, Weight: 1, Volume: 0.8, Available: 60, InitialDemand: 20},
		{Name: "Queso", Price: 8, Weight: 0.5, Volume: 0.3, Available: 30, InitialDemand: 25},
	}
	cfg.AverageQuantity = map[string]int{"Arepa": 6, "Cafe": 3, "Queso": 4}
	cfg.NewCustomerRates = map[string]float64{"Arepa": 8, "Cafe": 4, "Queso": 3}
	cfg.PriceFloors = map[string]float64{"Arepa": 3, "Cafe": 11.9, "Queso": 0}
	return cfg
}

func newTestSimulator(t *testing.T, cfg Config, seed int64) *Simulator {
	t.Helper()
	s, err := NewSimulator(cfg, newRandFromSeed(seed))
	require.NoError(t, err)
	return s
}
