package cart

import "errors"

var (
	ErrMissingComponent = errors.New("base, sauce and cheese are required")
	ErrDuplicateVeggie  = errors.New("duplicate veggie selection")
)

// Component is one catalog ingredient captured at selection time. Price is
// in the smallest currency unit.
type Component struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price int    `json:"price"`
}

// Item is one configured pizza. TotalPrice is a snapshot taken when the item
// is built and is never recomputed from the components afterwards, so catalog
// price changes do not affect items already sitting in a cart.
type Item struct {
	Base       Component   `json:"base"`
	Sauce      Component   `json:"sauce"`
	Cheese     Component   `json:"cheese"`
	Veggies    []Component `json:"veggies"`
	TotalPrice int         `json:"total_price"`
}

// NewItem builds an Item and captures its price snapshot. Veggies are an
// ordered set: a repeated veggie ID is rejected.
func NewItem(base, sauce, cheese Component, veggies []Component) (Item, error) {
	if base.ID == "" || sauce.ID == "" || cheese.ID == "" {
		return Item{}, ErrMissingComponent
	}

	total := base.Price + sauce.Price + cheese.Price
	seen := make(map[string]struct{}, len(veggies))
	for _, v := range veggies {
		if _, ok := seen[v.ID]; ok {
			return Item{}, ErrDuplicateVeggie
		}
		seen[v.ID] = struct{}{}
		total += v.Price
	}

	return Item{
		Base:       base,
		Sauce:      sauce,
		Cheese:     cheese,
		Veggies:    veggies,
		TotalPrice: total,
	}, nil
}
