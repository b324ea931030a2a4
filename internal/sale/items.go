package sale

import (
	"strconv"
	"strings"

	"salesdesk/domain"
)

// Line-item manager. Product ids are unique within the list: adding a
// product that is already present bumps its quantity instead of appending
// a second row. Whenever the default product's row changes, the top-level
// quantity text is resynchronized so the shortcut field and the generic
// list never disagree.

// AddItem appends or merges a line item for the product. No-op when the
// product is unresolved or qty is not positive.
func (f *Form) AddItem(p domain.Product, qty int) {
	if p.ProductID == "" || qty <= 0 {
		return
	}
	if i := f.findItem(p.ProductID); i >= 0 {
		f.Items[i].Qty += qty
		f.Items[i].Total = float64(f.Items[i].Qty) * f.Items[i].Price
	} else {
		f.Items = append(f.Items, domain.SaleItem{
			ProductID:   p.ProductID,
			ProductName: p.Name,
			Qty:         qty,
			Price:       p.Price,
			Total:       float64(qty) * p.Price,
		})
	}
	if p.ProductID == f.DefaultProductID {
		f.syncQtyText()
	}
}

// RemoveItem drops the product's row if present.
func (f *Form) RemoveItem(productID string) {
	kept := f.Items[:0]
	for _, item := range f.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	f.Items = kept
	if productID == f.DefaultProductID {
		f.syncQtyText()
	}
}

// UpdateQuantity sets the row's quantity, removing it when newQty is not
// positive, and recomputes the row total.
func (f *Form) UpdateQuantity(productID string, newQty int) {
	if newQty <= 0 {
		f.RemoveItem(productID)
		return
	}
	i := f.findItem(productID)
	if i < 0 {
		return
	}
	f.Items[i].Qty = newQty
	f.Items[i].Total = float64(newQty) * f.Items[i].Price
	if productID == f.DefaultProductID {
		f.syncQtyText()
	}
}

// SyncDefaultProductWithQty drives the default product's row from the
// quick quantity field: an invalid or non-positive value removes the row,
// anything else upserts it with exactly that quantity. defaultProduct is
// the resolved product for DefaultProductID; an empty product makes this a
// text-only update.
func (f *Form) SyncDefaultProductWithQty(qtyText string, defaultProduct domain.Product) {
	f.QtyText = qtyText
	if defaultProduct.ProductID == "" || defaultProduct.ProductID != f.DefaultProductID {
		return
	}
	qty, err := strconv.Atoi(strings.TrimSpace(qtyText))
	if err != nil || qty <= 0 {
		f.removeWithoutSync(defaultProduct.ProductID)
		return
	}
	if i := f.findItem(defaultProduct.ProductID); i >= 0 {
		f.Items[i].Qty = qty
		f.Items[i].Total = float64(qty) * f.Items[i].Price
	} else {
		f.Items = append(f.Items, domain.SaleItem{
			ProductID:   defaultProduct.ProductID,
			ProductName: defaultProduct.Name,
			Qty:         qty,
			Price:       defaultProduct.Price,
			Total:       float64(qty) * defaultProduct.Price,
		})
	}
}

// TotalAmount is always recomputed from the rows to avoid drift.
func (f *Form) TotalAmount() float64 {
	var total float64
	for _, item := range f.Items {
		total += float64(item.Qty) * item.Price
	}
	return total
}

// TotalUnits is the aggregate unit count across all rows.
func (f *Form) TotalUnits() int {
	var units int
	for _, item := range f.Items {
		units += item.Qty
	}
	return units
}

func (f *Form) findItem(productID string) int {
	for i, item := range f.Items {
		if item.ProductID == productID {
			return i
		}
	}
	return -1
}

// syncQtyText mirrors the default product's row into the quick quantity
// field after a list-side edit.
func (f *Form) syncQtyText() {
	i := f.findItem(f.DefaultProductID)
	if i < 0 {
		f.QtyText = ""
		return
	}
	f.QtyText = strconv.Itoa(f.Items[i].Qty)
}

// removeWithoutSync filters the row out while leaving QtyText as the
// caller set it, avoiding a sync loop from the field-side path.
func (f *Form) removeWithoutSync(productID string) {
	kept := f.Items[:0]
	for _, item := range f.Items {
		if item.ProductID != productID {
			kept = append(kept, item)
		}
	}
	f.Items = kept
}
