// Package ordermap translates backend order payloads into the canonical
// Sale model. The backend returns orders in more than one shape (customer
// nested under "customer" or "customerId", details present or absent,
// prices on the detail or on its nested product), so every accessor here
// is defensive: a missing or malformed field degrades to a zero value and
// the mapping as a whole never fails. Partial data must still render.
package ordermap

import (
	"encoding/json"
	"fmt"
	"strconv"

	"salesdesk/domain"
	"salesdesk/internal/contact"
)

// MapOrder converts one decoded order object into a Sale.
func MapOrder(raw map[string]any) domain.Sale {
	cust := customerOf(raw)

	sale := domain.Sale{
		ID:         orderID(raw),
		CustomerID: asString(firstPresent(cust, raw, "customerId", "customer_id")),
		Name:       asString(firstPresent(cust, raw, "name", "customerName")),
		Address:    asString(firstPresent(cust, raw, "address", "location")),
		Contact01:  contact.EnsureLeadingZero(asString(firstPresent(cust, raw, "contact01", "contact1"))),
		Contact02:  contact.EnsureLeadingZero(asString(firstPresent(cust, raw, "contact02", "contact2"))),
		Remark:     asString(firstPresent(cust, raw, "remark", "note")),
		Status:     asString(raw["status"]),
		Items:      mapItems(raw),
	}

	for _, item := range sale.Items {
		sale.Qty += item.Qty
	}

	if total, ok := numberField(raw, "totalPrice", "totalAmount"); ok {
		sale.TotalPrice = total
	} else {
		for _, item := range sale.Items {
			sale.TotalPrice += item.Total
		}
	}
	return sale
}

// MapOrders maps a decoded order list, skipping entries that are not
// objects at all.
func MapOrders(raw []any) []domain.Sale {
	sales := make([]domain.Sale, 0, len(raw))
	for _, entry := range raw {
		if m, ok := entry.(map[string]any); ok {
			sales = append(sales, MapOrder(m))
		}
	}
	return sales
}

// orderID picks the first of orderId, id, customerId that is present and
// stringifies it.
func orderID(raw map[string]any) string {
	for _, key := range []string{"orderId", "id", "customerId"} {
		v, ok := raw[key]
		if !ok || v == nil {
			continue
		}
		// The customerId slot sometimes carries the whole customer object;
		// in that case its own id stands in.
		if m, isMap := v.(map[string]any); isMap {
			if id := asString(firstPresent(m, nil, "customerId", "id")); id != "" {
				return id
			}
			continue
		}
		if s := asString(v); s != "" {
			return s
		}
	}
	return ""
}

// customerOf returns the nested customer object, whichever key it hides
// under, or nil when the order carries its fields at the top level.
func customerOf(raw map[string]any) map[string]any {
	for _, key := range []string{"customer", "customerId"} {
		if m, ok := raw[key].(map[string]any); ok {
			return m
		}
	}
	return nil
}

func mapItems(raw map[string]any) []domain.SaleItem {
	details, ok := raw["orderDetails"].([]any)
	if !ok {
		return []domain.SaleItem{}
	}
	items := make([]domain.SaleItem, 0, len(details))
	for _, entry := range details {
		detail, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		items = append(items, mapItem(detail))
	}
	return items
}

// mapItem tolerates a detail whose productId slot is either a bare id or a
// nested product object. Price falls back from the detail to the nested
// product. When no explicit total is present the nested product's price is
// used as-is rather than qty*price; that mirrors the backend contract as
// currently understood and is flagged as an open question, not fixed here.
func mapItem(detail map[string]any) domain.SaleItem {
	product, _ := detail["productId"].(map[string]any)

	item := domain.SaleItem{
		ProductID:      asString(firstPresent(product, detail, "productId", "id")),
		ProductName:    asString(firstPresent(product, detail, "name", "productName")),
		OrderDetailsID: asString(valueIn(detail, "orderDetailsId", "order_details_id")),
		OrderID:        asString(valueIn(detail, "orderId", "order_id")),
	}

	if qty, ok := numberField(detail, "qty", "quantity"); ok {
		item.Qty = int(qty)
	}

	if price, ok := numberField(detail, "price"); ok {
		item.Price = price
	} else if price, ok := numberField(product, "price"); ok {
		item.Price = price
	}

	if total, ok := numberField(detail, "total"); ok {
		item.Total = total
	} else if total, ok := numberField(product, "price"); ok {
		item.Total = total
	}
	return item
}

// firstPresent reads the first non-empty value for any of the keys,
// preferring the primary object over the fallback.
func firstPresent(primary, fallback map[string]any, keys ...string) any {
	for _, m := range []map[string]any{primary, fallback} {
		if m == nil {
			continue
		}
		for _, key := range keys {
			if v, ok := m[key]; ok && v != nil {
				return v
			}
		}
	}
	return nil
}

func valueIn(m map[string]any, keys ...string) any {
	return firstPresent(m, nil, keys...)
}

// asString stringifies scalar values the way the forms expect: numbers
// without a trailing ".0", everything else via Sprint. Objects and arrays
// map to "".
func asString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case map[string]any, []any:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

// numberField reads the first of the keys that holds something numeric.
func numberField(m map[string]any, keys ...string) (float64, bool) {
	if m == nil {
		return 0, false
	}
	for _, key := range keys {
		v, ok := m[key]
		if !ok {
			continue
		}
		switch t := v.(type) {
		case float64:
			return t, true
		case int:
			return float64(t), true
		case json.Number:
			if f, err := t.Float64(); err == nil {
				return f, true
			}
		case string:
			if f, err := strconv.ParseFloat(t, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}
