package sim

import "fmt"

// numClusters bounds the opaque cluster label; labels are drawn from [1, numClusters].
const numClusters = 4

// Customer is a simulated app user. Customers live for one phase of a run.
type Customer struct {
	ID      int
	Name    string
	Address string
	Phone   string
	Cluster int // opaque segment label, no behaviour attached

	// Purchased maps product name -> accumulated quantity.
	Purchased map[string]int
	// Discounts maps product name -> last discount value granted on it.
	Discounts map[string]float64
}

// NewCustomer creates a customer with placeholder contact details derived from id.
func NewCustomer(id, cluster int) *Customer {
	return &Customer{
		ID:        id,
		Name:      fmt.Sprintf("Customer %d", id),
		Address:   fmt.Sprintf("Address %d", id),
		Phone:     fmt.Sprintf("Phone %d", id),
		Cluster:   cluster,
		Purchased: make(map[string]int),
		Discounts: make(map[string]float64),
	}
}

// AddProduct adds quantity units of product to the customer's basket.
func (c *Customer) AddProduct(product string, quantity int) {
	c.Purchased[product] += quantity
}

// AddDiscount records a discount on product. Ignored unless the product is
// already in the basket.
func (c *Customer) AddDiscount(product string, value float64) {
	if _, ok := c.Purchased[product]; !ok {
		return
	}
	c.Discounts[product] = value
}

func (c *Customer) String() string {
	return fmt.Sprintf("Customer{id=%d cluster=%d purchased=%v discounts=%v}", c.ID, c.Cluster, c.Purchased, c.Discounts)
}

// GenerateCustomerPool draws a pool of size SampleDemandCount(rate) and assigns
// each customer a cluster label. Draw order: the pool size, then one label per
// customer in id order.
func GenerateCustomerPool(rp *RandomProcesses, rate float64) []*Customer {
	n := rp.SampleDemandCount(rate)
	pool := make([]*Customer, n)
	for i := 0; i < n; i++ {
		pool[i] = NewCustomer(i, rp.UniformInt(1, numClusters+1))
	}
	return pool
}
