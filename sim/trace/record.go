// Package trace provides decision-trace recording for purchase and pricing analysis.
// This package has no dependencies on sim/; it stores pure data types.
package trace

// Phase names the simulation phase a record belongs to.
type Phase string

const (
	PhaseInitial Phase = "initial"
	PhaseTimed   Phase = "timed"
)

// PurchaseRecord captures a single purchase attempt.
type PurchaseRecord struct {
	Phase      Phase
	Step       int // -1 for the initial phase
	Product    string
	CustomerID int
	Quantity   int
	Committed  bool    // false when the inventory ceiling rejected the attempt
	Discount   float64 // 0 when not committed or not granted
	Method     string  // discount method name, "none" when not granted
}

// PriceRecord captures a single price adjustment.
type PriceRecord struct {
	Step     int
	Product  string
	Demand   int // new-customer count used as the demand signal
	OldPrice float64
	NewPrice float64
	Floor    float64
	Frozen   bool // the pricing policy held the price at or under its floor
}
