// sim/simulator.go
package sim

import (
	"fmt"
	"math/rand"

	"github.com/sirupsen/logrus"

	"github.com/colmena/demand-sim/sim/trace"
)

// Phase is the Simulator's position in its two-phase lifecycle.
type Phase int

const (
	PhaseNew     Phase = iota // nothing has run yet
	PhaseInitial              // initial dynamics done
	PhaseTimed                // time dynamics done
)

// Simulator owns the catalog and every piece of mutable state for one run.
type Simulator struct {
	cfg       Config
	catalog   *Catalog
	rp        *RandomProcesses
	discounts *DiscountEngine
	pricing   PricingPolicy
	trace     *trace.SimulationTrace

	phase  Phase
	state  *SimulationState
	series *TimeSeries

	initialPoolSize        int
	extemporaneousPoolSize int

	revenue          float64
	revenueByProduct map[string]float64
	initial          snapshot
}

// snapshot freezes the scalar outputs of the initial phase.
type snapshot struct {
	revenue          float64
	revenueByProduct map[string]float64
	cargoVolume      float64
	cargoWeight      float64
}

// NewSimulator validates cfg and builds a simulator drawing every random
// value from rng. rng must not be shared with anything else while the
// simulator runs.
func NewSimulator(cfg Config, rng *rand.Rand) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}
	catalog, err := NewCatalog(cfg.Products)
	if err != nil {
		return nil, fmt.Errorf("building catalog: %w", err)
	}
	pricing, err := NewPricingPolicy(cfg.PricingPolicy)
	if err != nil {
		return nil, err
	}
	rp := NewRandomProcesses(rng)
	return &Simulator{
		cfg:              cfg,
		catalog:          catalog,
		rp:               rp,
		discounts:        NewDiscountEngine(rp, cfg.ShapeA, cfg.ShapeB),
		pricing:          pricing,
		phase:            PhaseNew,
		state:            newSimulationState(),
		series:           newTimeSeries(),
		revenueByProduct: make(map[string]float64),
	}, nil
}

// SetTrace attaches a decision trace. Must be called before the first phase.
func (s *Simulator) SetTrace(st *trace.SimulationTrace) {
	s.trace = st
}

// Trace returns the attached decision trace, or nil.
func (s *Simulator) Trace() *trace.SimulationTrace {
	return s.trace
}

// Catalog returns the catalog the simulator mutates.
func (s *Simulator) Catalog() *Catalog {
	return s.catalog
}

// State returns the live simulation state.
func (s *Simulator) State() *SimulationState {
	return s.state
}

// Phase returns how far the simulator has progressed.
func (s *Simulator) Phase() Phase {
	return s.phase
}

// Run executes the initial phase and, when enabled, the time phase.
func (s *Simulator) Run() (*Result, error) {
	if err := s.RunInitialDynamics(s.cfg.IncludeZeroTime); err != nil {
		return nil, err
	}
	if s.cfg.TimeDynamics {
		if err := s.RunTimeDynamics(); err != nil {
			return nil, err
		}
	}
	return s.Result(), nil
}

// RunInitialDynamics simulates the customers already using the app before the
// time phase. With includeZeroTime false no purchases are allocated and all
// products keep zero requested quantity and revenue.
func (s *Simulator) RunInitialDynamics(includeZeroTime bool) error {
	if s.phase != PhaseNew {
		return fmt.Errorf("initial dynamics already ran")
	}

	pool := GenerateCustomerPool(s.rp, s.cfg.BaselineArrivalRate)
	s.initialPoolSize = len(pool)
	logrus.Infof("[initial] customer pool of %d (rate=%.2f), zero time=%v", len(pool), s.cfg.BaselineArrivalRate, includeZeroTime)

	for _, p := range s.catalog.Products() {
		s.state.register(p.Name)
		p.Requested = 0
		if !includeZeroTime {
			continue
		}
		demand := min(p.InitialDemand, len(pool))
		for _, idx := range s.rp.SampleWithoutReplacement(len(pool), demand) {
			quantity := s.rp.UniformInt(1, s.cfg.AverageQuantity[p.Name])
			s.attemptPurchase(trace.PhaseInitial, -1, p, pool[idx], quantity)
		}
	}

	if err := s.updateRevenue(); err != nil {
		return fmt.Errorf("initial dynamics: %w", err)
	}
	volume, weight := s.catalog.CargoSpace()
	s.initial = snapshot{
		revenue:          s.revenue,
		revenueByProduct: copyMap(s.revenueByProduct),
		cargoVolume:      volume,
		cargoWeight:      weight,
	}
	s.phase = PhaseInitial

	if includeZeroTime {
		logrus.Infof("[initial] discount methods applied: %v", s.state.MethodUsage)
		logrus.Infof("[initial] revenue %.2f, per product %v", s.revenue, s.revenueByProduct)
		logrus.Infof("[initial] cargo volume %.2f, weight %.2f", volume, weight)
	}
	return nil
}

// RunTimeDynamics advances the simulation TimeHorizon steps. Customers are
// sampled from an extemporaneous pool drawn once up front, prices decay with
// the demand seen in each step, and revenue is recomputed after every step.
func (s *Simulator) RunTimeDynamics() error {
	if s.phase != PhaseInitial {
		return fmt.Errorf("time dynamics require the initial dynamics to run first (phase=%d)", s.phase)
	}

	products := s.catalog.Products()
	for _, p := range products {
		s.series.Requested[p.Name] = []int{s.state.Requested[p.Name]}
		s.series.NewQuantity[p.Name] = make([]int, 0, s.cfg.TimeHorizon)
		s.series.Prices[p.Name] = []float64{p.UnitPrice}
		s.series.Revenues[p.Name] = []float64{s.revenueByProduct[p.Name]}
	}
	s.series.TotalRevenue = append(s.series.TotalRevenue, s.revenue)

	pool := GenerateCustomerPool(s.rp, s.cfg.TotalNewCustomerRate)
	s.extemporaneousPoolSize = len(pool)
	logrus.Infof("[timed] extemporaneous pool of %d (rate=%.2f), horizon=%d", len(pool), s.cfg.TotalNewCustomerRate, s.cfg.TimeHorizon)

	for step := 0; step < s.cfg.TimeHorizon; step++ {
		newCustomers := 0
		discountsApplied := 0

		for _, p := range products {
			arrivals := s.rp.SampleDemandCount(s.cfg.NewCustomerRates[p.Name])
			newCustomers += arrivals
			arrivals = min(arrivals, len(pool))

			newUnits := 0
			for _, idx := range s.rp.SampleWithoutReplacement(len(pool), arrivals) {
				quantity := s.rp.UniformInt(0, s.cfg.AverageQuantity[p.Name])
				committed, discount, _ := s.attemptPurchase(trace.PhaseTimed, step, p, pool[idx], quantity)
				if !committed {
					continue
				}
				newUnits += quantity
				if discount != 0 {
					discountsApplied++
				}
			}

			s.adjustPrice(step, p, arrivals)

			s.series.Requested[p.Name] = append(s.series.Requested[p.Name], s.state.Requested[p.Name])
			s.series.NewQuantity[p.Name] = append(s.series.NewQuantity[p.Name], newUnits)
			s.series.Prices[p.Name] = append(s.series.Prices[p.Name], p.UnitPrice)
		}

		if err := s.updateRevenue(); err != nil {
			return fmt.Errorf("time dynamics step %d: %w", step, err)
		}
		for _, p := range products {
			s.series.Revenues[p.Name] = append(s.series.Revenues[p.Name], s.revenueByProduct[p.Name])
		}
		s.series.TotalRevenue = append(s.series.TotalRevenue, s.revenue)
		s.series.NewCustomers = append(s.series.NewCustomers, newCustomers)
		s.series.DiscountsApplied = append(s.series.DiscountsApplied, discountsApplied)

		logrus.Debugf("[step %04d] new customers=%d, discounts=%d, revenue=%.2f", step, newCustomers, discountsApplied, s.revenue)
	}

	s.phase = PhaseTimed
	logrus.Infof("[timed] finished %d steps, revenue %.2f", s.cfg.TimeHorizon, s.revenue)
	return nil
}

// attemptPurchase commits quantity units of p to customer if the running
// requested total stays within the inventory ceiling, and otherwise rejects
// the whole quantity. A committed purchase draws a discount; a rejected one
// draws nothing.
func (s *Simulator) attemptPurchase(phase trace.Phase, step int, p *Product, customer *Customer, quantity int) (bool, float64, DiscountMethod) {
	if s.state.Requested[p.Name]+quantity > p.Available {
		s.state.Unsatisfied[p.Name] += quantity
		logrus.Infof("[%s step=%d] stock exhausted for %q: rejected %d units (requested %d of %d)",
			phase, step, p.Name, quantity, s.state.Requested[p.Name], p.Available)
		if s.trace.Enabled() {
			s.trace.RecordPurchase(trace.PurchaseRecord{
				Phase: phase, Step: step, Product: p.Name, CustomerID: customer.ID,
				Quantity: quantity, Committed: false, Method: DiscountNone.String(),
			})
		}
		return false, 0, DiscountNone
	}

	customer.AddProduct(p.Name, quantity)
	discount, method := s.discounts.Apply(customer, p.Name)
	s.state.Discounts[p.Name] = append(s.state.Discounts[p.Name], float64(quantity)*(1-discount))
	s.state.Requested[p.Name] += quantity
	p.Requested = s.state.Requested[p.Name]
	if method != DiscountNone {
		s.state.MethodUsage[method]++
	}

	if s.trace.Enabled() {
		s.trace.RecordPurchase(trace.PurchaseRecord{
			Phase: phase, Step: step, Product: p.Name, CustomerID: customer.ID,
			Quantity: quantity, Committed: true, Discount: discount, Method: method.String(),
		})
	}
	return true, discount, method
}

// adjustPrice applies the pricing policy with the step's (clamped) arrivals
// as the demand signal.
func (s *Simulator) adjustPrice(step int, p *Product, demand int) {
	floor := s.cfg.PriceFloors[p.Name]
	old := p.UnitPrice
	p.UnitPrice = s.pricing.Adjust(old, floor, demand)
	if s.trace.Enabled() {
		s.trace.RecordPrice(trace.PriceRecord{
			Step: step, Product: p.Name, Demand: demand,
			OldPrice: old, NewPrice: p.UnitPrice, Floor: floor, Frozen: s.pricing.Frozen(old, floor),
		})
	}
}

func (s *Simulator) updateRevenue() error {
	total, perProduct, err := ComputeRevenue(s.state.Discounts, s.catalog)
	if err != nil {
		return err
	}
	s.revenue = total
	s.revenueByProduct = perProduct
	return nil
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
