package sim

import "fmt"

// DesignError reports that the simulation's own bookkeeping is inconsistent,
// e.g. a catalog product without a discount-tracking entry. It is never
// caused by randomness and always aborts the run.
type DesignError struct {
	Product string
	Reason  string
}

func (e *DesignError) Error() string {
	return fmt.Sprintf("design error: product %q: %s", e.Product, e.Reason)
}

// ComputeRevenue prices every accumulated post-discount unit-equivalent at the
// product's current unit price. Every catalog product must have an entry in
// lists, even an empty one. The total is summed in catalog order.
func ComputeRevenue(lists map[string][]float64, catalog *Catalog) (float64, map[string]float64, error) {
	total := 0.0
	perProduct := make(map[string]float64, catalog.Len())
	for _, p := range catalog.Products() {
		units, ok := lists[p.Name]
		if !ok {
			return 0, nil, &DesignError{Product: p.Name, Reason: "no discount-tracking entry"}
		}
		sum := 0.0
		for _, u := range units {
			sum += u
		}
		revenue := p.UnitPrice * sum
		perProduct[p.Name] = revenue
		total += revenue
	}
	return total, perProduct, nil
}
