package ordermap

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(raw), &m); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return m
}

func TestMapOrderEmptyObject(t *testing.T) {
	sale := MapOrder(map[string]any{})
	if sale.ID != "" || sale.Name != "" || sale.Address != "" {
		t.Errorf("expected empty sale, got %+v", sale)
	}
	if sale.Qty != 0 || sale.TotalPrice != 0 {
		t.Errorf("expected zero totals, got qty=%d total=%v", sale.Qty, sale.TotalPrice)
	}
	if sale.Items == nil || len(sale.Items) != 0 {
		t.Errorf("expected empty non-nil items, got %#v", sale.Items)
	}
}

func TestMapOrderNestedCustomerShape(t *testing.T) {
	raw := decode(t, `{
		"orderId": 41,
		"customer": {
			"customerId": 7,
			"name": "John Doe",
			"address": "123 Main Street, Colombo",
			"contact01": "771234567",
			"contact02": "",
			"remark": "leave at gate"
		},
		"orderDetails": [
			{
				"orderDetailsId": 501,
				"orderId": 41,
				"qty": 2,
				"price": 150,
				"total": 300,
				"productId": {"productId": 9, "name": "Widget", "price": 150}
			}
		],
		"totalPrice": 300
	}`)
	sale := MapOrder(raw)
	if sale.ID != "41" {
		t.Errorf("ID = %q", sale.ID)
	}
	if sale.CustomerID != "7" || sale.Name != "John Doe" {
		t.Errorf("customer = %q %q", sale.CustomerID, sale.Name)
	}
	if sale.Contact01 != "0771234567" {
		t.Errorf("Contact01 = %q, leading zero not restored", sale.Contact01)
	}
	if sale.Contact02 != "" {
		t.Errorf("Contact02 = %q", sale.Contact02)
	}
	if sale.Remark != "leave at gate" {
		t.Errorf("Remark = %q", sale.Remark)
	}
	if len(sale.Items) != 1 {
		t.Fatalf("items = %d", len(sale.Items))
	}
	item := sale.Items[0]
	if item.ProductID != "9" || item.ProductName != "Widget" {
		t.Errorf("item product = %q %q", item.ProductID, item.ProductName)
	}
	if item.Qty != 2 || item.Price != 150 || item.Total != 300 {
		t.Errorf("item numbers = %+v", item)
	}
	if item.OrderDetailsID != "501" || item.OrderID != "41" {
		t.Errorf("item ids = %q %q", item.OrderDetailsID, item.OrderID)
	}
	if sale.Qty != 2 || sale.TotalPrice != 300 {
		t.Errorf("aggregate = %d %v", sale.Qty, sale.TotalPrice)
	}
}

func TestMapOrderCustomerIdObjectShape(t *testing.T) {
	raw := decode(t, `{
		"customerId": {"customerId": 12, "name": "Jane", "address": "Kandy", "contact01": "711112222"},
		"orderDetails": []
	}`)
	sale := MapOrder(raw)
	if sale.ID != "12" {
		t.Errorf("ID = %q, want customer id fallback", sale.ID)
	}
	if sale.CustomerID != "12" || sale.Name != "Jane" || sale.Address != "Kandy" {
		t.Errorf("sale = %+v", sale)
	}
	if sale.Contact01 != "0711112222" {
		t.Errorf("Contact01 = %q", sale.Contact01)
	}
}

func TestMapOrderTopLevelFallbackFields(t *testing.T) {
	raw := decode(t, `{"id": "55", "name": "Walk In", "address": "Galle", "contact01": "0771234567"}`)
	sale := MapOrder(raw)
	if sale.ID != "55" || sale.Name != "Walk In" || sale.Address != "Galle" {
		t.Errorf("sale = %+v", sale)
	}
	if sale.Contact01 != "0771234567" {
		t.Errorf("Contact01 = %q, existing zero must not double", sale.Contact01)
	}
}

func TestMapOrderPriceFallsBackToNestedProduct(t *testing.T) {
	raw := decode(t, `{
		"orderId": 1,
		"orderDetails": [
			{"qty": 3, "productId": {"productId": 2, "name": "Thing", "price": 40}}
		]
	}`)
	sale := MapOrder(raw)
	item := sale.Items[0]
	if item.Price != 40 {
		t.Errorf("Price = %v, want nested product price", item.Price)
	}
	// Known quirk carried over from the backend contract: with no explicit
	// total, the nested product price is used rather than qty*price.
	if item.Total != 40 {
		t.Errorf("Total = %v, want nested product price fallback", item.Total)
	}
	if sale.TotalPrice != 40 {
		t.Errorf("TotalPrice = %v, want sum of item totals", sale.TotalPrice)
	}
	if sale.Qty != 3 {
		t.Errorf("Qty = %d", sale.Qty)
	}
}

func TestMapOrderMalformedDetailsTolerated(t *testing.T) {
	raw := decode(t, `{
		"orderId": 2,
		"orderDetails": [
			"not an object",
			{"qty": "2", "price": "10", "total": "20", "productId": 77},
			{}
		]
	}`)
	sale := MapOrder(raw)
	if len(sale.Items) != 2 {
		t.Fatalf("items = %d, want non-object entries skipped", len(sale.Items))
	}
	first := sale.Items[0]
	if first.ProductID != "77" || first.Qty != 2 || first.Price != 10 || first.Total != 20 {
		t.Errorf("stringly-typed detail mapped badly: %+v", first)
	}
	second := sale.Items[1]
	if second.Qty != 0 || second.Price != 0 || second.Total != 0 || second.ProductID != "" {
		t.Errorf("empty detail should map to zeros: %+v", second)
	}
}

func TestMapOrderTotalAmountAlias(t *testing.T) {
	sale := MapOrder(decode(t, `{"orderId": 3, "totalAmount": 990.5}`))
	if sale.TotalPrice != 990.5 {
		t.Errorf("TotalPrice = %v", sale.TotalPrice)
	}
}

func TestMapOrders(t *testing.T) {
	var list []any
	if err := json.Unmarshal([]byte(`[{"orderId": 1}, "junk", {"orderId": 2}]`), &list); err != nil {
		t.Fatal(err)
	}
	sales := MapOrders(list)
	if len(sales) != 2 || sales[0].ID != "1" || sales[1].ID != "2" {
		t.Errorf("sales = %+v", sales)
	}
}
