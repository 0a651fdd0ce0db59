package models

import "fmt"

// Order identifies an ARIMA(p, d, q) configuration.
type Order struct {
	P int `json:"p" mapstructure:"p" validate:"gte=0"`
	D int `json:"d" mapstructure:"d" validate:"gte=0"`
	Q int `json:"q" mapstructure:"q" validate:"gte=0"`
}

// String renders the order the way progress lines print it, e.g. (4, 0, 1).
func (o Order) String() string {
	return fmt.Sprintf("(%d, %d, %d)", o.P, o.D, o.Q)
}

// Validate rejects negative components.
func (o Order) Validate() error {
	if o.P < 0 || o.D < 0 || o.Q < 0 {
		return fmt.Errorf("order %s has negative component", o)
	}
	return nil
}

// Range is an inclusive integer range.
type Range struct {
	Min int `json:"min" mapstructure:"min" validate:"gte=0"`
	Max int `json:"max" mapstructure:"max" validate:"gte=0"`
}

// Values expands the range; an inverted range is empty.
func (r Range) Values() []int {
	if r.Max < r.Min {
		return nil
	}
	values := make([]int, 0, r.Max-r.Min+1)
	for v := r.Min; v <= r.Max; v++ {
		values = append(values, v)
	}
	return values
}

// Grid is the hyperparameter space of a search.
type Grid struct {
	P Range `json:"p" mapstructure:"p"`
	D Range `json:"d" mapstructure:"d"`
	Q Range `json:"q" mapstructure:"q"`
}

// Orders enumerates the cartesian product in lexicographic (p, d, q) order.
func (g Grid) Orders() []Order {
	ps, ds, qs := g.P.Values(), g.D.Values(), g.Q.Values()
	orders := make([]Order, 0, len(ps)*len(ds)*len(qs))
	for _, p := range ps {
		for _, d := range ds {
			for _, q := range qs {
				orders = append(orders, Order{P: p, D: d, Q: q})
			}
		}
	}
	return orders
}

// Size returns the number of candidates in the grid.
func (g Grid) Size() int {
	return len(g.P.Values()) * len(g.D.Values()) * len(g.Q.Values())
}
