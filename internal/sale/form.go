// Package sale holds the sales-entry form: its field state, the line-item
// list with the default-product shortcut, and the submission flow that
// turns a filled form into a backend order.
package sale

import (
	"github.com/google/uuid"

	"salesdesk/domain"
)

// Form is the state of one sales-entry form. A form is transient until the
// backend accepts it; SessionID only identifies the form instance in logs
// and state responses, never the persisted order.
type Form struct {
	SessionID  string            `json:"sessionId"`
	CustomerID string            `json:"customerId,omitempty"`
	Name       string            `json:"name"`
	Address    string            `json:"address"`
	Contact01  string            `json:"contact01"`
	Contact02  string            `json:"contact02"`
	Remark     string            `json:"remark"`
	QtyText    string            `json:"qty"`
	Items      []domain.SaleItem `json:"items"`

	// DefaultProductID is the operator's remembered product, mirrored 1:1
	// with QtyText. Read from settings at startup.
	DefaultProductID string `json:"defaultProductId,omitempty"`

	// EditingOrderID is set when the form was hydrated from an existing
	// order; empty means create mode.
	EditingOrderID string `json:"editingOrderId,omitempty"`

	Submitting bool `json:"submitting"`
}

func NewForm(defaultProductID string) *Form {
	return &Form{
		SessionID:        uuid.NewString(),
		Items:            []domain.SaleItem{},
		DefaultProductID: defaultProductID,
	}
}

// HydrateFrom loads an existing order into the form for editing.
func (f *Form) HydrateFrom(s domain.Sale) {
	f.EditingOrderID = s.ID
	f.CustomerID = s.CustomerID
	f.Name = s.Name
	f.Address = s.Address
	f.Contact01 = s.Contact01
	f.Contact02 = s.Contact02
	f.Remark = s.Remark
	f.Items = append([]domain.SaleItem{}, s.Items...)
	f.syncQtyText()
}

// Reset clears the form back to a fresh create-mode state. Runs on
// successful submit, cancel and explicit clear.
func (f *Form) Reset() {
	*f = *NewForm(f.DefaultProductID)
}

// Snapshot returns the form's current canonical Sale with totals
// recomputed from the item list, never trusted from stale state.
func (f *Form) Snapshot() domain.Sale {
	return domain.Sale{
		ID:         f.EditingOrderID,
		CustomerID: f.CustomerID,
		Name:       f.Name,
		Address:    f.Address,
		Contact01:  f.Contact01,
		Contact02:  f.Contact02,
		Remark:     f.Remark,
		Qty:        f.TotalUnits(),
		Items:      append([]domain.SaleItem{}, f.Items...),
		TotalPrice: f.TotalAmount(),
	}
}
