package sim

import "fmt"

// DiscountMethod is the promotional mechanism a granted discount is attributed to.
type DiscountMethod int

const (
	// DiscountNone means no discount was granted.
	DiscountNone DiscountMethod = iota
	DiscountVideoGame
	DiscountCoupon
	DiscountTrivia
	DiscountRaffle
)

// promotionalMethods is the fixed set a method is drawn from, in draw-index order.
var promotionalMethods = [...]DiscountMethod{DiscountVideoGame, DiscountCoupon, DiscountTrivia, DiscountRaffle}

var discountMethodNames = map[DiscountMethod]string{
	DiscountNone:      "none",
	DiscountVideoGame: "video-game",
	DiscountCoupon:    "coupon",
	DiscountTrivia:    "trivia",
	DiscountRaffle:    "raffle",
}

func (m DiscountMethod) String() string {
	if name, ok := discountMethodNames[m]; ok {
		return name
	}
	return fmt.Sprintf("DiscountMethod(%d)", int(m))
}

// MarshalText lets DiscountMethod be used as a JSON map key.
func (m DiscountMethod) MarshalText() ([]byte, error) {
	if _, ok := discountMethodNames[m]; !ok {
		return nil, fmt.Errorf("unknown discount method %d", int(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText parses the names produced by MarshalText.
func (m *DiscountMethod) UnmarshalText(text []byte) error {
	for k, v := range discountMethodNames {
		if v == string(text) {
			*m = k
			return nil
		}
	}
	return fmt.Errorf("unknown discount method %q", string(text))
}

// PromotionalMethods returns the methods a granted discount can be attributed to.
func PromotionalMethods() []DiscountMethod {
	return promotionalMethods[:]
}

// ApplyIndividualDiscount decides whether customer gets a discount on product.
//
// Draw order: a method (always drawn), an eligibility threshold from
// Beta(a, b), a uniform; when the uniform falls below the threshold a second
// Beta(a, b) draw becomes the discount value, which is recorded on the
// customer. Returns (0, DiscountNone) when no discount is granted.
func ApplyIndividualDiscount(rp *RandomProcesses, customer *Customer, a, b float64, product string) (float64, DiscountMethod) {
	method := promotionalMethods[rp.UniformInt(0, len(promotionalMethods))]
	threshold := rp.SampleDiscountRate(a, b)
	if rp.Uniform() < threshold {
		value := rp.SampleDiscountRate(a, b)
		customer.AddDiscount(product, value)
		return value, method
	}
	return 0, DiscountNone
}

// DiscountEngine binds the Beta shape parameters of a run to the random source.
type DiscountEngine struct {
	rp     *RandomProcesses
	shapeA float64
	shapeB float64
}

// NewDiscountEngine creates a DiscountEngine drawing from rp.
func NewDiscountEngine(rp *RandomProcesses, shapeA, shapeB float64) *DiscountEngine {
	return &DiscountEngine{rp: rp, shapeA: shapeA, shapeB: shapeB}
}

// Apply runs ApplyIndividualDiscount with the engine's shape parameters.
func (e *DiscountEngine) Apply(customer *Customer, product string) (float64, DiscountMethod) {
	return ApplyIndividualDiscount(e.rp, customer, e.shapeA, e.shapeB, product)
}
