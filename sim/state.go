package sim

// SimulationState is the mutable bookkeeping of a run. It is owned by the
// Simulator and only ever touched from the goroutine running it.
type SimulationState struct {
	// Requested is the running requested quantity per product. Never exceeds
	// the product's Available ceiling.
	Requested map[string]int
	// Unsatisfied counts units rejected by the inventory ceiling.
	Unsatisfied map[string]int
	// Discounts holds quantity*(1-discount) per committed purchase.
	Discounts map[string][]float64
	// MethodUsage counts granted discounts per method.
	MethodUsage map[DiscountMethod]int
}

func newSimulationState() *SimulationState {
	return &SimulationState{
		Requested:   make(map[string]int),
		Unsatisfied: make(map[string]int),
		Discounts:   make(map[string][]float64),
		MethodUsage: make(map[DiscountMethod]int),
	}
}

// register starts tracking product with empty counters.
func (st *SimulationState) register(product string) {
	st.Discounts[product] = []float64{}
	st.Requested[product] = 0
	st.Unsatisfied[product] = 0
}

// TimeSeries holds the per-step outputs of the time phase. Per-product
// series and TotalRevenue start with the initial-phase value at index 0, so
// they have TimeHorizon+1 entries; step counters have TimeHorizon entries.
type TimeSeries struct {
	Requested        map[string][]int     `json:"requested"`    // cumulative requested quantity
	NewQuantity      map[string][]int     `json:"new_quantity"` // units committed in the step
	Prices           map[string][]float64 `json:"prices"`
	Revenues         map[string][]float64 `json:"revenues"`
	TotalRevenue     []float64            `json:"total_revenue"`
	NewCustomers     []int                `json:"new_customers"`     // sampled before clamping to the pool
	DiscountsApplied []int                `json:"discounts_applied"` // committed purchases with a non-zero discount
}

func newTimeSeries() *TimeSeries {
	return &TimeSeries{
		Requested:        make(map[string][]int),
		NewQuantity:      make(map[string][]int),
		Prices:           make(map[string][]float64),
		Revenues:         make(map[string][]float64),
		TotalRevenue:     make([]float64, 0),
		NewCustomers:     make([]int, 0),
		DiscountsApplied: make([]int, 0),
	}
}
