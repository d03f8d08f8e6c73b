// Package replication runs one simulation configuration under many seeds and
// summarises the spread of its outputs.
package replication

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"github.com/colmena/demand-sim/sim"
)

// Options controls a batch of replications.
type Options struct {
	Replications int   // number of independent runs (must be > 0)
	Parallelism  int   // max concurrent runs; <= 0 means one at a time
	Seed         int64 // master seed; replication i uses sim.SubsystemReplication(i)
}

// Run executes opts.Replications independent simulations of cfg. Each run
// gets its own RNG derived from the master seed before any run starts, so
// results do not depend on Parallelism or scheduling. Results are returned in
// replication order.
func Run(ctx context.Context, cfg sim.Config, opts Options) ([]*sim.Result, error) {
	if opts.Replications <= 0 {
		return nil, fmt.Errorf("replications must be positive, got %d", opts.Replications)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}

	// PartitionedRNG is single-goroutine; derive every stream up front.
	prng := sim.NewPartitionedRNG(sim.NewSimulationKey(opts.Seed))
	rngs := make([]*rand.Rand, opts.Replications)
	for i := range rngs {
		rngs[i] = prng.ForSubsystem(sim.SubsystemReplication(i))
	}

	parallelism := opts.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}
	logrus.Infof("running %d replications (parallelism=%d, seed=%d)", opts.Replications, parallelism, opts.Seed)

	results := make([]*sim.Result, opts.Replications)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i := 0; i < opts.Replications; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			s, err := sim.NewSimulator(cfg, rngs[i])
			if err != nil {
				return fmt.Errorf("replication %d: %w", i, err)
			}
			r, err := s.Run()
			if err != nil {
				return fmt.Errorf("replication %d: %w", i, err)
			}
			results[i] = r
			logrus.Debugf("replication %d done: revenue=%.2f", i, r.TotalRevenue)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Stats describes the distribution of one output across replications.
type Stats struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	P10    float64 `json:"p10"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	Max    float64 `json:"max"`
}

// Summary aggregates a batch of replication results.
type Summary struct {
	Replications     int                          `json:"replications"`
	TotalRevenue     Stats                        `json:"total_revenue"`
	TotalUnsatisfied Stats                        `json:"total_unsatisfied"`
	CargoVolume      Stats                        `json:"cargo_volume"`
	CargoWeight      Stats                        `json:"cargo_weight"`
	FinalPrices      map[string]Stats             `json:"final_prices"`
	MethodUsage      map[sim.DiscountMethod]Stats `json:"discount_methods"`
}

// Summarize computes the spread of revenue, unsatisfied demand, cargo, final
// prices and discount-method usage. Nil results are skipped.
func Summarize(results []*sim.Result) *Summary {
	var revenue, unsatisfied, volume, weight []float64
	prices := make(map[string][]float64)
	methods := make(map[sim.DiscountMethod][]float64)
	for _, r := range results {
		if r == nil {
			continue
		}
		revenue = append(revenue, r.TotalRevenue)
		unsatisfied = append(unsatisfied, float64(r.TotalUnsatisfied()))
		volume = append(volume, r.CargoVolume)
		weight = append(weight, r.CargoWeight)
		for _, p := range r.Catalog {
			prices[p.Name] = append(prices[p.Name], p.UnitPrice)
		}
		for _, m := range sim.PromotionalMethods() {
			methods[m] = append(methods[m], float64(r.MethodUsage[m]))
		}
	}

	summary := &Summary{
		Replications:     len(revenue),
		TotalRevenue:     describe(revenue),
		TotalUnsatisfied: describe(unsatisfied),
		CargoVolume:      describe(volume),
		CargoWeight:      describe(weight),
		FinalPrices:      make(map[string]Stats, len(prices)),
		MethodUsage:      make(map[sim.DiscountMethod]Stats, len(methods)),
	}
	for name, xs := range prices {
		summary.FinalPrices[name] = describe(xs)
	}
	for m, xs := range methods {
		summary.MethodUsage[m] = describe(xs)
	}
	return summary
}

func describe(xs []float64) Stats {
	if len(xs) == 0 {
		return Stats{}
	}
	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	s := Stats{
		Mean: stat.Mean(sorted, nil),
		Min:  sorted[0],
		P10:  stat.Quantile(0.1, stat.Empirical, sorted, nil),
		P50:  stat.Quantile(0.5, stat.Empirical, sorted, nil),
		P90:  stat.Quantile(0.9, stat.Empirical, sorted, nil),
		Max:  sorted[len(sorted)-1],
	}
	// Sample std-dev is undefined for a single observation.
	if len(sorted) > 1 {
		s.StdDev = stat.StdDev(sorted, nil)
	}
	return s
}
