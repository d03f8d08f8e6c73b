// Collects the outputs of a run for the reporting collaborators (charts,
// tables) and renders a plain-text summary.

package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// Result is everything a run hands to reporting. Maps are keyed by product
// name; Catalog preserves catalog order.
type Result struct {
	TotalRevenue     float64            `json:"total_revenue"`
	RevenueByProduct map[string]float64 `json:"revenue_by_product"`
	Requested        map[string]int     `json:"requested"`
	Unsatisfied      map[string]int     `json:"unsatisfied"`
	CargoVolume      float64            `json:"cargo_volume"`
	CargoWeight      float64            `json:"cargo_weight"`

	InitialRevenue          float64            `json:"initial_revenue"`
	InitialRevenueByProduct map[string]float64 `json:"initial_revenue_by_product"`
	InitialCargoVolume      float64            `json:"initial_cargo_volume"`
	InitialCargoWeight      float64            `json:"initial_cargo_weight"`

	MethodUsage            map[DiscountMethod]int `json:"discount_methods"`
	InitialPoolSize        int                    `json:"initial_pool_size"`
	ExtemporaneousPoolSize int                    `json:"extemporaneous_pool_size"`
	Steps                  int                    `json:"steps"` // time steps actually executed

	Series      *TimeSeries        `json:"series"`
	Catalog     []Product          `json:"catalog"`
	PriceFloors map[string]float64 `json:"price_floors"`
}

// Result snapshots the current outputs. Safe to call after either phase;
// the returned value does not alias simulator state.
func (s *Simulator) Result() *Result {
	volume, weight := s.catalog.CargoSpace()
	steps := 0
	if s.phase == PhaseTimed {
		steps = s.cfg.TimeHorizon
	}
	return &Result{
		TotalRevenue:            s.revenue,
		RevenueByProduct:        copyMap(s.revenueByProduct),
		Requested:               copyMap(s.state.Requested),
		Unsatisfied:             copyMap(s.state.Unsatisfied),
		CargoVolume:             volume,
		CargoWeight:             weight,
		InitialRevenue:          s.initial.revenue,
		InitialRevenueByProduct: copyMap(s.initial.revenueByProduct),
		InitialCargoVolume:      s.initial.cargoVolume,
		InitialCargoWeight:      s.initial.cargoWeight,
		MethodUsage:             copyMap(s.state.MethodUsage),
		InitialPoolSize:         s.initialPoolSize,
		ExtemporaneousPoolSize:  s.extemporaneousPoolSize,
		Steps:                   steps,
		Series:                  s.series.clone(),
		Catalog:                 s.catalog.Snapshot(),
		PriceFloors:             copyMap(s.cfg.PriceFloors),
	}
}

// TotalUnsatisfied sums unsatisfied units over all products.
func (r *Result) TotalUnsatisfied() int {
	total := 0
	for _, v := range r.Unsatisfied {
		total += v
	}
	return total
}

// Print writes a human-readable summary in catalog order. Money is rendered
// with two decimals.
func (r *Result) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Results ===")
	fmt.Fprintf(w, "Total Revenue        : %s\n", money(r.TotalRevenue))
	fmt.Fprintf(w, "Initial Revenue      : %s\n", money(r.InitialRevenue))
	fmt.Fprintf(w, "Steps                : %d\n", r.Steps)
	fmt.Fprintf(w, "Customer Pools       : initial=%d extemporaneous=%d\n", r.InitialPoolSize, r.ExtemporaneousPoolSize)
	fmt.Fprintf(w, "Cargo                : volume=%.2f weight=%.2f\n", r.CargoVolume, r.CargoWeight)

	fmt.Fprintln(w, "--- Products ---")
	for _, p := range r.Catalog {
		fmt.Fprintf(w, "%-20s price=%s floor=%s requested=%d/%d unsatisfied=%d revenue=%s\n",
			p.Name, money(p.UnitPrice), money(r.PriceFloors[p.Name]), p.Requested, p.Available,
			r.Unsatisfied[p.Name], money(r.RevenueByProduct[p.Name]))
	}

	fmt.Fprintln(w, "--- Discount Methods ---")
	for _, m := range PromotionalMethods() {
		fmt.Fprintf(w, "%-20s %d\n", m, r.MethodUsage[m])
	}
}

// SaveResults writes the result as indented JSON to path.
func (r *Result) SaveResults(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling results: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing results to %s: %w", path, err)
	}
	logrus.Infof("results written to %s", path)
	return nil
}

func money(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

func (ts *TimeSeries) clone() *TimeSeries {
	out := newTimeSeries()
	for k, v := range ts.Requested {
		out.Requested[k] = append([]int(nil), v...)
	}
	for k, v := range ts.NewQuantity {
		out.NewQuantity[k] = append([]int(nil), v...)
	}
	for k, v := range ts.Prices {
		out.Prices[k] = append([]float64(nil), v...)
	}
	for k, v := range ts.Revenues {
		out.Revenues[k] = append([]float64(nil), v...)
	}
	out.TotalRevenue = append(out.TotalRevenue, ts.TotalRevenue...)
	out.NewCustomers = append(out.NewCustomers, ts.NewCustomers...)
	out.DiscountsApplied = append(out.DiscountsApplied, ts.DiscountsApplied...)
	return out
}
