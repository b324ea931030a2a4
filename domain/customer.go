package domain

// Customer is the cached lookup copy of a backend customer record.
// Contacts are stored backend-side without the leading "0"; display and
// validation always use the 10-digit local format with the zero restored.
type Customer struct {
	CustomerID string `json:"customerId"`
	Name       string `json:"name"`
	Address    string `json:"address"`
	Contact01  string `json:"contact01"`
	Contact02  string `json:"contact02,omitempty"`
}
