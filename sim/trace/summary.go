package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalAttempts      int
	CommittedCount     int
	RejectedCount      int
	RejectedUnits      int
	GrantedCount       int
	MeanDiscount       float64 // mean over granted discounts
	MaxDiscount        float64
	MethodDistribution map[string]int // method name → granted discounts
	FrozenAdjustments  int            // price steps the policy held because of the floor
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{
		MethodDistribution: make(map[string]int),
	}
	if st == nil {
		return summary
	}

	summary.TotalAttempts = len(st.Purchases)
	totalDiscount := 0.0
	for _, p := range st.Purchases {
		if !p.Committed {
			summary.RejectedCount++
			summary.RejectedUnits += p.Quantity
			continue
		}
		summary.CommittedCount++
		if p.Method == "" || p.Method == "none" {
			continue
		}
		summary.GrantedCount++
		summary.MethodDistribution[p.Method]++
		totalDiscount += p.Discount
		if p.Discount > summary.MaxDiscount {
			summary.MaxDiscount = p.Discount
		}
	}
	if summary.GrantedCount > 0 {
		summary.MeanDiscount = totalDiscount / float64(summary.GrantedCount)
	}

	for _, p := range st.Prices {
		if p.Frozen {
			summary.FrozenAdjustments++
		}
	}

	return summary
}
