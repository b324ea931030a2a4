package domain

// Stock ledger entry statuses.
const (
	StockNew    = "NEW"
	StockReturn = "RETURN"
)

type StockEntry struct {
	StockID       string `json:"stock_id"`
	Type          string `json:"type"`
	Date          string `json:"date"`
	Quantity      int    `json:"quantity"`
	TotalQuantity int    `json:"totalQuantity"`
	Status        string `json:"status"`
}

// Mutable reports whether the entry may still be edited or deleted. Once
// any of the received quantity has been consumed the ledger row is frozen.
func (s StockEntry) Mutable() bool {
	return s.Quantity == s.TotalQuantity
}
