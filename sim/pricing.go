package sim

import (
	"fmt"
	"sort"
	"strings"
)

// demandDecayScale is the number of new customers that would take a price to zero.
const demandDecayScale = 1000.0

// AdjustPrice lowers price in proportion to newly observed demand.
func AdjustPrice(price float64, newDemand int) float64 {
	return price * (1 - float64(newDemand)/demandDecayScale)
}

// PricingPolicy decides a product's next price from its current price, its
// floor and the demand observed in the step.
type PricingPolicy interface {
	Adjust(price, floor float64, newDemand int) float64
	// Frozen reports whether Adjust leaves price untouched because of the floor.
	Frozen(price, floor float64) bool
}

// DemandDecayPolicy applies AdjustPrice while the price is at or above the
// floor and freezes it once it is below. The step that crosses the floor is
// not clamped, so the frozen price may sit under the floor.
type DemandDecayPolicy struct{}

func (p DemandDecayPolicy) Adjust(price, floor float64, newDemand int) float64 {
	if p.Frozen(price, floor) {
		return price
	}
	return AdjustPrice(price, newDemand)
}

func (DemandDecayPolicy) Frozen(price, floor float64) bool {
	return price < floor
}

// ClampedDemandDecayPolicy behaves like DemandDecayPolicy but clamps the
// crossing step to the floor, so the price never ends up below it.
type ClampedDemandDecayPolicy struct{}

func (p ClampedDemandDecayPolicy) Adjust(price, floor float64, newDemand int) float64 {
	if p.Frozen(price, floor) {
		return price
	}
	next := AdjustPrice(price, newDemand)
	if next < floor {
		return floor
	}
	return next
}

func (ClampedDemandDecayPolicy) Frozen(price, floor float64) bool {
	return price <= floor
}

const (
	PricingDemandDecay        = "demand-decay"
	PricingDemandDecayClamped = "demand-decay-clamped"
)

var validPricingPolicies = map[string]bool{
	"":                        true, // empty defaults to demand-decay
	PricingDemandDecay:        true,
	PricingDemandDecayClamped: true,
}

// IsValidPricingPolicy reports whether name is a recognised policy name.
func IsValidPricingPolicy(name string) bool {
	return validPricingPolicies[name]
}

// ValidPricingPolicyNames returns the non-empty policy names, sorted.
func ValidPricingPolicyNames() []string {
	names := make([]string, 0, len(validPricingPolicies))
	for k := range validPricingPolicies {
		if k != "" {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}

// NewPricingPolicy creates a policy by name. Empty selects demand-decay.
func NewPricingPolicy(name string) (PricingPolicy, error) {
	switch name {
	case "", PricingDemandDecay:
		return DemandDecayPolicy{}, nil
	case PricingDemandDecayClamped:
		return ClampedDemandDecayPolicy{}, nil
	default:
		return nil, fmt.Errorf("unknown pricing policy %q; valid: %s", name, strings.Join(ValidPricingPolicyNames(), ", "))
	}
}
