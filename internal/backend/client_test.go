package backend

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"salesdesk/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, token string) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, 5*time.Second, func() string { return token })
}

func TestBearerTokenAttached(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	}, "tok-123")

	if _, err := c.Products(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestLoginSkipsAuthHeader(t *testing.T) {
	var gotAuth string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{"token": "fresh"})
	}, "stale")

	session, err := c.Login(context.Background(), "a@b.c", "pw")
	if err != nil {
		t.Fatal(err)
	}
	if gotAuth != "" {
		t.Errorf("login sent Authorization %q", gotAuth)
	}
	if session.Token != "fresh" {
		t.Errorf("token = %q", session.Token)
	}
}

func TestUnauthorizedSentinel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}, "dead")
	_, err := c.Products(context.Background())
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("err = %v, want ErrUnauthorized", err)
	}
}

func TestServerMessagePreferred(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"message": "backend says no"})
	}, "t")
	_, err := c.Products(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v", err)
	}
	if apiErr.Status != 500 || apiErr.Message != "backend says no" {
		t.Errorf("apiErr = %+v", apiErr)
	}
}

func TestCreateCustomerDuplicate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusMultiStatus)
		json.NewEncoder(w).Encode(map[string]any{
			"customer": map[string]string{"name": "John Doe", "contact01": "771234567"},
		})
	}, "t")

	err := c.CreateCustomerWithOrder(context.Background(), CreateOrderRequest{Name: "John Doe"})
	var dup *DuplicateCustomerError
	if !errors.As(err, &dup) {
		t.Fatalf("err = %v, want duplicate", err)
	}
	if dup.Name != "John Doe" {
		t.Errorf("dup name = %q", dup.Name)
	}
	if dup.Contact != "0771234567" {
		t.Errorf("dup contact = %q, want display format", dup.Contact)
	}
}

func TestCreateCustomerGenericFailureIsNotDuplicate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}, "t")
	err := c.CreateCustomerWithOrder(context.Background(), CreateOrderRequest{})
	var dup *DuplicateCustomerError
	if errors.As(err, &dup) {
		t.Fatal("500 must not map to a duplicate conflict")
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != 500 {
		t.Errorf("err = %v", err)
	}
}

func TestCustomersRestoreLeadingZero(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"customerId":"1","name":"John","contact01":"771234567","contact02":""}]`))
	}, "t")
	customers, err := c.Customers(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if customers[0].Contact01 != "0771234567" {
		t.Errorf("Contact01 = %q", customers[0].Contact01)
	}
	if customers[0].Contact02 != "" {
		t.Errorf("Contact02 = %q, empty must stay empty", customers[0].Contact02)
	}
}

func TestOrdersScopesAndShapes(t *testing.T) {
	var gotPath string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		if r.URL.Path == "/order" {
			w.Write([]byte(`[{"orderId":1}]`))
			return
		}
		// The all-customers variant wraps the list in an envelope.
		w.Write([]byte(`{"data":[{"orderId":2},{"orderId":3}]}`))
	}, "t")
	ctx := context.Background()

	today, err := c.Orders(ctx, OrdersToday)
	if err != nil || gotPath != "/order" || len(today) != 1 {
		t.Errorf("today: path=%q len=%d err=%v", gotPath, len(today), err)
	}

	all, err := c.Orders(ctx, OrdersAll)
	if err != nil || gotPath != "/order/allCustomer" || len(all) != 2 {
		t.Errorf("all: path=%q len=%d err=%v", gotPath, len(all), err)
	}
}

func TestDashboardExcel(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/dashboard/excel/monthly" {
			t.Errorf("path = %q", r.URL.Path)
		}
		w.Write([]byte{0x50, 0x4b})
	}, "t")
	blob, filename, err := c.DashboardExcel(context.Background(), "monthly")
	if err != nil {
		t.Fatal(err)
	}
	if len(blob) != 2 || filename != "report-monthly.xlsx" {
		t.Errorf("blob=%d filename=%q", len(blob), filename)
	}
}

func TestUpdateOrderStripsContacts(t *testing.T) {
	var got CreateOrderRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/order/41" {
			t.Errorf("%s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}, "t")

	err := c.UpdateOrder(context.Background(), "41", saleFixture())
	if err != nil {
		t.Fatal(err)
	}
	if got.Contact01 != "771234567" {
		t.Errorf("Contact01 = %q, want backend format", got.Contact01)
	}
	if len(got.Items) != 1 || got.Items[0].Total != 300 {
		t.Errorf("items = %+v", got.Items)
	}
}

func saleFixture() domain.Sale {
	return domain.Sale{
		ID:        "41",
		Name:      "John Doe",
		Contact01: "0771234567",
		Qty:       3,
		Items: []domain.SaleItem{
			{ProductID: "p1", ProductName: "Widget", Qty: 3, Price: 100, Total: 300},
		},
		TotalPrice: 300,
	}
}
