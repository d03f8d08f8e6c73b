// Package sim provides the discrete-time demand-and-pricing simulation engine.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - random.go: sampling primitives (Poisson demand, Bernoulli purchase, Beta discount)
//   - discount.go: per-purchase discount decision and the closed set of promotional methods
//   - simulator.go: the two phases (initial dynamics, time dynamics) and the commit rule
//
// Supporting pieces: catalog.go (products and cargo totals), customer.go,
// pricing.go (demand-decay price policies), revenue.go (revenue and DesignError),
// config.go (validated run configuration), metrics.go (Result handed to reporting).
//
// # Architecture
//
// Sub-packages:
//   - sim/trace/: per-purchase and per-price decision records
//   - sim/replication/: many seeded runs of one configuration, summarised
//
// # Draw Order
//
// A run consumes a single *rand.Rand sequentially. Changing the order below
// changes every result for a given seed.
//
// Initial phase:
//  1. pool size ~ Poisson(BaselineArrivalRate), then one cluster label per customer
//  2. per product in catalog order (only with zero time enabled):
//     k draws selecting customers without replacement, then per selected customer
//     a quantity in [1, AverageQuantity) followed, if committed, by the discount draws
//
// Time phase:
//  1. pool size ~ Poisson(TotalNewCustomerRate), then one cluster label per customer
//  2. per step, per product in catalog order: arrivals ~ Poisson(NewCustomerRates[p]),
//     k draws selecting customers, then per customer a quantity in [0, AverageQuantity)
//     followed, if committed, by the discount draws
//
// Discount draws: method index, Beta threshold, uniform, and a Beta value only
// when the uniform falls below the threshold. Rejected purchases draw nothing.
package sim
