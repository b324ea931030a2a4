package domain

// Sale is the canonical frontend view of a customer order, regardless of
// which shape the backend returned it in.
type Sale struct {
	ID         string     `json:"id"`
	CustomerID string     `json:"customerId,omitempty"`
	Name       string     `json:"name"`
	Address    string     `json:"address"`
	Contact01  string     `json:"contact01,omitempty"`
	Contact02  string     `json:"contact02,omitempty"`
	Status     string     `json:"status,omitempty"`
	Qty        int        `json:"qty"`
	Remark     string     `json:"remark,omitempty"`
	Items      []SaleItem `json:"items"`
	TotalPrice float64    `json:"totalPrice"`
}

type SaleItem struct {
	ProductID      string  `json:"productId"`
	ProductName    string  `json:"productName"`
	Qty            int     `json:"qty"`
	Price          float64 `json:"price"`
	Total          float64 `json:"total"`
	OrderDetailsID string  `json:"orderDetailsId,omitempty"`
	OrderID        string  `json:"orderId,omitempty"`
}
