package domain

// Product statuses as the backend reports them. Only active products are
// selectable when building a new sale.
const (
	ProductActive   = "active"
	ProductInactive = "inactive"
	ProductRemoved  = "remove"
)

type Product struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Status    string  `json:"status"`
}

// Selectable reports whether the product may be added to a new sale.
func (p Product) Selectable() bool {
	return p.Status == ProductActive
}
