package cmd

import (
	"fmt"
	"io"

	"github.com/colmena/demand-sim/sim"
	"github.com/colmena/demand-sim/sim/replication"
	"github.com/colmena/demand-sim/sim/trace"
)

func printTraceSummary(w io.Writer, ts *trace.TraceSummary) {
	fmt.Fprintln(w, "=== Decision Trace ===")
	fmt.Fprintf(w, "Purchase attempts    : %d (committed %d, rejected %d)\n", ts.TotalAttempts, ts.CommittedCount, ts.RejectedCount)
	fmt.Fprintf(w, "Rejected units       : %d\n", ts.RejectedUnits)
	fmt.Fprintf(w, "Discounts granted    : %d (mean %.3f, max %.3f)\n", ts.GrantedCount, ts.MeanDiscount, ts.MaxDiscount)
	fmt.Fprintf(w, "Frozen price steps   : %d\n", ts.FrozenAdjustments)
	for _, m := range sim.PromotionalMethods() {
		fmt.Fprintf(w, "  %-18s %d\n", m, ts.MethodDistribution[m.String()])
	}
}

// printReplicationSummary writes one row per statistic; products follow the
// order given in names.
func printReplicationSummary(w io.Writer, s *replication.Summary, names []string) {
	fmt.Fprintf(w, "=== Replication Summary (%d runs) ===\n", s.Replications)
	fmt.Fprintf(w, "%-24s %12s %12s %12s %12s %12s\n", "", "mean", "std", "p10", "p50", "p90")
	row := func(label string, st replication.Stats) {
		fmt.Fprintf(w, "%-24s %12.2f %12.2f %12.2f %12.2f %12.2f\n", label, st.Mean, st.StdDev, st.P10, st.P50, st.P90)
	}
	row("total revenue", s.TotalRevenue)
	row("unsatisfied units", s.TotalUnsatisfied)
	row("cargo volume", s.CargoVolume)
	row("cargo weight", s.CargoWeight)
	for _, name := range names {
		row("price "+name, s.FinalPrices[name])
	}
	for _, m := range sim.PromotionalMethods() {
		row("discounts "+m.String(), s.MethodUsage[m])
	}
}

func productNames(sc *Scenario) []string {
	names := make([]string, len(sc.Products))
	for i, p := range sc.Products {
		names[i] = p.Name
	}
	return names
}
