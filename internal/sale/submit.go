package sale

import (
	"context"
	"errors"
	"fmt"

	"salesdesk/domain"
	"salesdesk/internal/backend"
	"salesdesk/internal/contact"
)

// Notification is the single user-facing message every submission outcome
// produces, success or error, never both.
type Notification struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

func SuccessNotice(message string) Notification {
	return Notification{Kind: NoticeSuccess, Message: message}
}

func ErrorNotice(message string) Notification {
	return Notification{Kind: NoticeError, Message: message}
}

// Validation failures, checked in order with the first one aborting the
// submission before any network call.
var (
	ErrContact01Format = errors.New("contact 1 must be 10 digits starting with 0")
	ErrContact02Format = errors.New("contact 2 must be 10 digits starting with 0")
	ErrNoContact       = errors.New("at least one contact number is required")
	ErrNoItems         = errors.New("add at least one item to the sale")
)

// Validate checks the form in the fixed order: contact 1 format, contact 2
// format, contact presence, item presence.
func (f *Form) Validate() error {
	if !contact.Valid(f.Contact01) {
		return ErrContact01Format
	}
	if !contact.Valid(f.Contact02) {
		return ErrContact02Format
	}
	if !contact.AtLeastOne(f.Contact01, f.Contact02) {
		return ErrNoContact
	}
	if len(f.Items) == 0 {
		return ErrNoItems
	}
	return nil
}

// OrderCreator is the backend operation the create path needs.
type OrderCreator interface {
	CreateCustomerWithOrder(ctx context.Context, req backend.CreateOrderRequest) error
}

// UpdateFunc applies an edit-mode submission to the existing order.
type UpdateFunc func(ctx context.Context, orderID string, updated domain.Sale) error

// Result is the outcome of one submission attempt.
type Result struct {
	Notice Notification `json:"notice"`
	// Refresh tells the caller the order list changed and should reload.
	Refresh bool `json:"refresh"`
	// Unauthorized marks a dead session; the caller clears the token and
	// forces a fresh login.
	Unauthorized bool `json:"unauthorized,omitempty"`
}

// Submit validates the form and sends it to the backend: edit mode goes
// through the update callback, create mode through the
// create-customer-with-order endpoint with contacts stripped to backend
// format. Exactly one notification is produced and the submitting flag is
// always cleared.
func (f *Form) Submit(ctx context.Context, creator OrderCreator, update UpdateFunc) Result {
	if f.Submitting {
		return Result{Notice: ErrorNotice("a submission is already in progress")}
	}
	f.Submitting = true
	defer func() { f.Submitting = false }()

	if err := f.Validate(); err != nil {
		return Result{Notice: ErrorNotice(err.Error())}
	}

	if f.EditingOrderID != "" {
		return f.submitUpdate(ctx, update)
	}
	return f.submitCreate(ctx, creator)
}

func (f *Form) submitUpdate(ctx context.Context, update UpdateFunc) Result {
	if update == nil {
		return Result{Notice: ErrorNotice("editing is not available")}
	}
	if err := update(ctx, f.EditingOrderID, f.Snapshot()); err != nil {
		return failure(err, "unable to update the order")
	}
	f.Reset()
	return Result{Notice: SuccessNotice("order updated"), Refresh: true}
}

func (f *Form) submitCreate(ctx context.Context, creator OrderCreator) Result {
	req := backend.CreateOrderRequest{
		CustomerID: f.CustomerID,
		Name:       f.Name,
		Address:    f.Address,
		Contact01:  contact.ForBackend(f.Contact01),
		Contact02:  contact.ForBackend(f.Contact02),
		Remark:     f.Remark,
		Qty:        f.TotalUnits(),
		TotalPrice: f.TotalAmount(),
		Items:      make([]backend.OrderItemRequest, 0, len(f.Items)),
	}
	for _, item := range f.Items {
		req.Items = append(req.Items, backend.OrderItemRequest{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			Price:     item.Price,
			Total:     float64(item.Qty) * item.Price,
		})
	}

	if err := creator.CreateCustomerWithOrder(ctx, req); err != nil {
		var dup *backend.DuplicateCustomerError
		if errors.As(err, &dup) {
			return Result{Notice: ErrorNotice(fmt.Sprintf("duplicate customer: %s %s", dup.Name, dup.Contact))}
		}
		return failure(err, "unable to save the sale")
	}

	f.Reset()
	return Result{Notice: SuccessNotice("sale saved"), Refresh: true}
}

// failure maps a backend error to a single error notice, preferring the
// server's own message and flagging dead sessions.
func failure(err error, fallback string) Result {
	if errors.Is(err, backend.ErrUnauthorized) {
		return Result{
			Notice:       ErrorNotice("session expired, please log in again"),
			Unauthorized: true,
		}
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return Result{Notice: ErrorNotice(apiErr.Message)}
	}
	return Result{Notice: ErrorNotice(fallback)}
}
