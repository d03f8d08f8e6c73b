package sim

import "fmt"

// Product is one catalog row. UnitPrice and Requested are mutated by the
// simulator; Available is a fixed ceiling for the whole run.
type Product struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	UnitPrice     float64 `json:"unit_price"`
	UnitWeight    float64 `json:"unit_weight"`
	UnitVolume    float64 `json:"unit_volume"`
	Available     int     `json:"available_quantity"`
	Requested     int     `json:"requested_quantity"`
	InitialDemand int     `json:"initial_demand"` // target purchasing customers in the initial phase
}

// Catalog is the ordered product set of a run. Iteration order is the order
// rows were supplied in and is part of the draw-order contract.
type Catalog struct {
	products []*Product
	index    map[string]int
}

// NewCatalog builds a catalog from product specs. Names must be unique and non-empty.
func NewCatalog(specs []ProductSpec) (*Catalog, error) {
	c := &Catalog{
		products: make([]*Product, 0, len(specs)),
		index:    make(map[string]int, len(specs)),
	}
	for i, s := range specs {
		if s.Name == "" {
			return nil, fmt.Errorf("product[%d]: name must not be empty", i)
		}
		if _, dup := c.index[s.Name]; dup {
			return nil, fmt.Errorf("product[%d]: duplicate name %q", i, s.Name)
		}
		c.index[s.Name] = len(c.products)
		c.products = append(c.products, &Product{
			ID:            i,
			Name:          s.Name,
			UnitPrice:     s.Price,
			UnitWeight:    s.Weight,
			UnitVolume:    s.Volume,
			Available:     s.Available,
			InitialDemand: s.InitialDemand,
		})
	}
	return c, nil
}

// Products returns the products in catalog order. The slice is shared; callers
// must not reorder it.
func (c *Catalog) Products() []*Product {
	return c.products
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}

// Get returns the named product, or nil.
func (c *Catalog) Get(name string) *Product {
	i, ok := c.index[name]
	if !ok {
		return nil
	}
	return c.products[i]
}

// Names returns product names in catalog order.
func (c *Catalog) Names() []string {
	names := make([]string, len(c.products))
	for i, p := range c.products {
		names[i] = p.Name
	}
	return names
}

// CargoSpace returns the total volume and weight of everything requested so
// far. This is all the truck assignment amounts to; no routing is solved.
func (c *Catalog) CargoSpace() (volume, weight float64) {
	for _, p := range c.products {
		volume += float64(p.Requested) * p.UnitVolume
		weight += float64(p.Requested) * p.UnitWeight
	}
	return volume, weight
}

// Snapshot returns a deep copy of the products for reporting.
func (c *Catalog) Snapshot() []Product {
	out := make([]Product, len(c.products))
	for i, p := range c.products {
		out[i] = *p
	}
	return out
}
