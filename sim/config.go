package sim

import (
	"fmt"
	"math"
	"sort"
)

// ProductSpec is one input catalog row.
type ProductSpec struct {
	Name          string  `yaml:"name" json:"name"`
	Price         float64 `yaml:"price" json:"price"`
	Weight        float64 `yaml:"weight" json:"weight"`
	Volume        float64 `yaml:"volume" json:"volume"`
	Available     int     `yaml:"available" json:"available"`
	InitialDemand int     `yaml:"initial_demand" json:"initial_demand"` // purchasing customers drawn in the initial phase
}

// Config enumerates every input of a run. All per-product maps must be keyed
// by exactly the catalog's product names. Validate is called by NewSimulator.
type Config struct {
	BaselineArrivalRate  float64            `yaml:"baseline_arrival_rate" json:"baseline_arrival_rate"`     // mean size of the initial customer pool
	ShapeA               float64            `yaml:"shape_a" json:"shape_a"`                                 // Beta shape for discount draws
	ShapeB               float64            `yaml:"shape_b" json:"shape_b"`                                 // Beta shape for discount draws
	AverageQuantity      map[string]int     `yaml:"average_quantity" json:"average_quantity"`               // exclusive upper bound of per-customer quantity
	NewCustomerRate      float64            `yaml:"new_customer_rate" json:"new_customer_rate"`             // customers reachable per step via advertising (informational)
	NewCustomerRates     map[string]float64 `yaml:"new_customer_rates" json:"new_customer_rates"`           // per-product new customers per step
	TimeHorizon          int                `yaml:"time_horizon" json:"time_horizon"`                       // number of steps in the time phase
	TotalNewCustomerRate float64            `yaml:"total_new_customer_rate" json:"total_new_customer_rate"` // mean size of the extemporaneous pool
	PriceFloors          map[string]float64 `yaml:"price_floors" json:"price_floors"`                       // price below which a product is frozen
	Products             []ProductSpec      `yaml:"products" json:"products"`

	IncludeZeroTime bool   `yaml:"include_zero_time" json:"include_zero_time"` // allocate purchases in the initial phase
	TimeDynamics    bool   `yaml:"time_dynamics" json:"time_dynamics"`         // run the time phase after the initial one
	PricingPolicy   string `yaml:"pricing_policy" json:"pricing_policy"`       // "demand-decay" (default) or "demand-decay-clamped"
}

const (
	// maxArrivalRate bounds every Poisson mean. Pools are materialised in
	// memory, so the rate is effectively a pool-size limit.
	maxArrivalRate = 1e6
	// maxTimeHorizon bounds the number of time steps.
	maxTimeHorizon = 100_000
)

// DefaultConfig returns a Config with the run switches on and nothing else set.
// Decoders fill the remaining fields on top of it.
func DefaultConfig() Config {
	return Config{
		IncludeZeroTime: true,
		TimeDynamics:    true,
		PricingPolicy:   PricingDemandDecay,
	}
}

// Validate checks that all fields are present and in range.
func (c *Config) Validate() error {
	if err := validateRate("baseline_arrival_rate", c.BaselineArrivalRate); err != nil {
		return err
	}
	if err := validateRate("new_customer_rate", c.NewCustomerRate); err != nil {
		return err
	}
	if err := validateRate("total_new_customer_rate", c.TotalNewCustomerRate); err != nil {
		return err
	}
	if err := validateFinitePositive("shape_a", c.ShapeA); err != nil {
		return err
	}
	if err := validateFinitePositive("shape_b", c.ShapeB); err != nil {
		return err
	}
	if c.TimeHorizon < 0 {
		return fmt.Errorf("time_horizon must be non-negative, got %d", c.TimeHorizon)
	}
	if c.TimeHorizon > maxTimeHorizon {
		return fmt.Errorf("time_horizon must be at most %d, got %d", maxTimeHorizon, c.TimeHorizon)
	}
	if !IsValidPricingPolicy(c.PricingPolicy) {
		return fmt.Errorf("unknown pricing_policy %q; valid: %v", c.PricingPolicy, ValidPricingPolicyNames())
	}
	if len(c.Products) == 0 {
		return fmt.Errorf("at least one product required")
	}

	names := make(map[string]bool, len(c.Products))
	for i, p := range c.Products {
		if err := validateProduct(&p, i); err != nil {
			return err
		}
		if names[p.Name] {
			return fmt.Errorf("product[%d]: duplicate name %q", i, p.Name)
		}
		names[p.Name] = true
	}

	if err := validateKeys("average_quantity", names, keysOf(c.AverageQuantity)); err != nil {
		return err
	}
	for name, q := range c.AverageQuantity {
		// The initial phase draws from [1, q), which must not be empty.
		if q < 2 {
			return fmt.Errorf("average_quantity[%s] must be at least 2, got %d", name, q)
		}
	}
	if err := validateKeys("new_customer_rates", names, keysOf(c.NewCustomerRates)); err != nil {
		return err
	}
	for name, r := range c.NewCustomerRates {
		if err := validateRate(fmt.Sprintf("new_customer_rates[%s]", name), r); err != nil {
			return err
		}
	}
	if err := validateKeys("price_floors", names, keysOf(c.PriceFloors)); err != nil {
		return err
	}
	for name, f := range c.PriceFloors {
		if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
			return fmt.Errorf("price_floors[%s] must be a finite non-negative number, got %f", name, f)
		}
	}
	return nil
}

func validateProduct(p *ProductSpec, idx int) error {
	prefix := fmt.Sprintf("product[%d]", idx)
	if p.Name == "" {
		return fmt.Errorf("%s: name must not be empty", prefix)
	}
	for field, v := range map[string]float64{"price": p.Price, "weight": p.Weight, "volume": p.Volume} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%s (%s): %s must be a finite non-negative number, got %f", prefix, p.Name, field, v)
		}
	}
	if p.Available < 0 {
		return fmt.Errorf("%s (%s): available must be non-negative, got %d", prefix, p.Name, p.Available)
	}
	if p.InitialDemand < 0 {
		return fmt.Errorf("%s (%s): initial_demand must be non-negative, got %d", prefix, p.Name, p.InitialDemand)
	}
	return nil
}

// validateKeys requires keys to be exactly the product names.
func validateKeys(field string, names map[string]bool, keys []string) error {
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if !names[k] {
			return fmt.Errorf("%s: unknown product %q", field, k)
		}
		seen[k] = true
	}
	missing := make([]string, 0)
	for n := range names {
		if !seen[n] {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%s: missing entries for %v", field, missing)
	}
	return nil
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func validateRate(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val < 0 {
		return fmt.Errorf("%s must be non-negative, got %f", name, val)
	}
	if val > maxArrivalRate {
		return fmt.Errorf("%s must be at most %g, got %g", name, float64(maxArrivalRate), val)
	}
	return nil
}

func validateFinitePositive(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val <= 0 {
		return fmt.Errorf("%s must be positive, got %f", name, val)
	}
	return nil
}
