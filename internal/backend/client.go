// Package backend is the REST client for the remote sales backend. The
// backend owns all persistence and business validation; this client only
// shapes requests, attaches the bearer token and folds responses into the
// error taxonomy the rest of the application works with.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"salesdesk/domain"
	"salesdesk/internal/contact"
)

// TokenSource supplies the current bearer token, or "" when logged out.
type TokenSource func() string

type Client struct {
	baseURL string
	httpc   *http.Client
	token   TokenSource
}

func New(baseURL string, timeout time.Duration, token TokenSource) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc:   &http.Client{Timeout: timeout},
		token:   token,
	}
}

// request performs one call and returns the raw status and body. Transport
// failures and 401s are folded into err; every other status is left for
// the caller to interpret.
func (c *Client) request(ctx context.Context, method, path string, auth bool, body any) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		if tok := c.token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("backend unreachable: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return resp.StatusCode, data, ErrUnauthorized
	}
	return resp.StatusCode, data, nil
}

// call is the common case: 2xx decodes into out, anything else becomes an
// APIError with the server's message when one was provided.
func (c *Client) call(ctx context.Context, method, path string, auth bool, body, out any) error {
	status, data, err := c.request(ctx, method, path, auth, body)
	if err != nil {
		return err
	}
	if status < 200 || status > 299 {
		return &APIError{Status: status, Message: serverMessage(data)}
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// serverMessage digs a human-readable message out of an error body.
func serverMessage(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

// Auth and user flows

type Session struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

func (c *Client) Login(ctx context.Context, email, password string) (Session, error) {
	var s Session
	err := c.call(ctx, http.MethodPost, "/user/login", false,
		map[string]string{"email": email, "password": password}, &s)
	return s, err
}

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.call(ctx, http.MethodPost, "/user/register", false, req, nil)
}

func (c *Client) UserInfoByToken(ctx context.Context) (domain.User, error) {
	var u domain.User
	err := c.call(ctx, http.MethodPost, "/user/get_user_info_by_token", true, map[string]string{}, &u)
	return u, err
}

func (c *Client) SendOTP(ctx context.Context, email string) error {
	return c.call(ctx, http.MethodPost, "/user/send", false, map[string]string{"email": email}, nil)
}

func (c *Client) ValidateOTP(ctx context.Context, email, code string) error {
	return c.call(ctx, http.MethodPost, "/user/validate", false,
		map[string]string{"email": email, "otp": code}, nil)
}

func (c *Client) ResetPassword(ctx context.Context, email, code, newPassword string) error {
	return c.call(ctx, http.MethodPost, "/user/reset", false,
		map[string]string{"email": email, "otp": code, "password": newPassword}, nil)
}

func (c *Client) Users(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	err := c.call(ctx, http.MethodGet, "/user/get_all_user", true, nil, &users)
	return users, err
}

func (c *Client) UpdateUser(ctx context.Context, id string, user domain.User) error {
	return c.call(ctx, http.MethodPut, "/user/update/"+url.PathEscape(id), true, user, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/user/"+url.PathEscape(id), true, nil, nil)
}

// Product catalog

func (c *Client) Products(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := c.call(ctx, http.MethodGet, "/products", true, nil, &products)
	return products, err
}

func (c *Client) CreateProduct(ctx context.Context, p domain.Product) error {
	return c.call(ctx, http.MethodPost, "/products", true, p, nil)
}

func (c *Client) UpdateProduct(ctx context.Context, id string, p domain.Product) error {
	return c.call(ctx, http.MethodPut, "/products/"+url.PathEscape(id), true, p, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/products/"+url.PathEscape(id), true, nil, nil)
}

// Customers and orders

type OrderItemRequest struct {
	ProductID string  `json:"productId"`
	Qty       int     `json:"qty"`
	Price     float64 `json:"price"`
	Total     float64 `json:"total"`
}

// CreateOrderRequest is the create-customer-with-order payload. Contacts
// must already be in backend format (leading zero stripped).
type CreateOrderRequest struct {
	CustomerID string             `json:"customerId,omitempty"`
	Name       string             `json:"name"`
	Address    string             `json:"address"`
	Contact01  string             `json:"contact01,omitempty"`
	Contact02  string             `json:"contact02,omitempty"`
	Remark     string             `json:"remark,omitempty"`
	Qty        int                `json:"qty"`
	TotalPrice float64            `json:"totalPrice"`
	Items      []OrderItemRequest `json:"items"`
}

// CreateCustomerWithOrder submits a new sale. A 207 response means the
// backend matched an existing customer; that conflict is surfaced as a
// DuplicateCustomerError carrying the duplicate's identifying info.
func (c *Client) CreateCustomerWithOrder(ctx context.Context, req CreateOrderRequest) error {
	status, data, err := c.request(ctx, http.MethodPost, "/customer", true, req)
	if err != nil {
		return err
	}
	if status == http.StatusMultiStatus {
		return duplicateFrom(data)
	}
	if status < 200 || status > 299 {
		return &APIError{Status: status, Message: serverMessage(data)}
	}
	return nil
}

func duplicateFrom(data []byte) *DuplicateCustomerError {
	var body struct {
		Name      string `json:"name"`
		Contact01 string `json:"contact01"`
		Customer  struct {
			Name      string `json:"name"`
			Contact01 string `json:"contact01"`
		} `json:"customer"`
	}
	_ = json.Unmarshal(data, &body)
	dup := &DuplicateCustomerError{Name: body.Name, Contact: body.Contact01}
	if dup.Name == "" {
		dup.Name = body.Customer.Name
	}
	if dup.Contact == "" {
		dup.Contact = body.Customer.Contact01
	}
	dup.Contact = contact.EnsureLeadingZero(dup.Contact)
	return dup
}

// UpdateOrder applies an edit-mode submission to an existing order. The
// payload mirrors the create shape, with contacts converted back to
// backend format here since the canonical Sale carries display format.
func (c *Client) UpdateOrder(ctx context.Context, orderID string, updated domain.Sale) error {
	req := CreateOrderRequest{
		CustomerID: updated.CustomerID,
		Name:       updated.Name,
		Address:    updated.Address,
		Contact01:  contact.ForBackend(updated.Contact01),
		Contact02:  contact.ForBackend(updated.Contact02),
		Remark:     updated.Remark,
		Qty:        updated.Qty,
		TotalPrice: updated.TotalPrice,
		Items:      make([]OrderItemRequest, 0, len(updated.Items)),
	}
	for _, item := range updated.Items {
		req.Items = append(req.Items, OrderItemRequest{
			ProductID: item.ProductID,
			Qty:       item.Qty,
			Price:     item.Price,
			Total:     item.Total,
		})
	}
	return c.call(ctx, http.MethodPut, "/order/"+url.PathEscape(orderID), true, req, nil)
}

// Customers fetches the full customer list for the lookup cache. Stored
// contacts come back without the leading zero, so it is restored here once
// and the rest of the application only ever sees display format.
func (c *Client) Customers(ctx context.Context) ([]domain.Customer, error) {
	var customers []domain.Customer
	if err := c.call(ctx, http.MethodGet, "/customer", true, nil, &customers); err != nil {
		return nil, err
	}
	for i := range customers {
		customers[i].Contact01 = contact.EnsureLeadingZero(customers[i].Contact01)
		customers[i].Contact02 = contact.EnsureLeadingZero(customers[i].Contact02)
	}
	return customers, nil
}

// OrderScope selects which order list variant to fetch.
type OrderScope string

const (
	OrdersToday OrderScope = "today"
	OrdersAll   OrderScope = "all"
)

// Orders returns the raw decoded order list. The shapes vary between the
// two endpoints, so interpretation is left to the order mapper.
func (c *Client) Orders(ctx context.Context, scope OrderScope) ([]any, error) {
	path := "/order"
	if scope == OrdersAll {
		path = "/order/allCustomer"
	}
	var decoded any
	if err := c.call(ctx, http.MethodGet, path, true, nil, &decoded); err != nil {
		return nil, err
	}
	switch t := decoded.(type) {
	case []any:
		return t, nil
	case map[string]any:
		if list, ok := t["data"].([]any); ok {
			return list, nil
		}
	}
	return []any{}, nil
}

// Dashboard and exports

func (c *Client) Dashboard(ctx context.Context) (map[string]any, error) {
	var stats map[string]any
	err := c.call(ctx, http.MethodGet, "/dashboard", true, nil, &stats)
	return stats, err
}

// DashboardExcel downloads an export blob along with a download filename
// derived from the variant.
func (c *Client) DashboardExcel(ctx context.Context, variant string) ([]byte, string, error) {
	status, data, err := c.request(ctx, http.MethodGet, "/dashboard/excel/"+url.PathEscape(variant), true, nil)
	if err != nil {
		return nil, "", err
	}
	if status < 200 || status > 299 {
		return nil, "", &APIError{Status: status, Message: serverMessage(data)}
	}
	return data, "report-" + variant + ".xlsx", nil
}

// Stock ledger

func (c *Client) Stocks(ctx context.Context) ([]domain.StockEntry, error) {
	var stocks []domain.StockEntry
	err := c.call(ctx, http.MethodGet, "/stockes", true, nil, &stocks)
	return stocks, err
}

func (c *Client) CreateStock(ctx context.Context, entry domain.StockEntry) error {
	return c.call(ctx, http.MethodPost, "/stockes", true, entry, nil)
}

func (c *Client) UpdateStock(ctx context.Context, id string, entry domain.StockEntry) error {
	return c.call(ctx, http.MethodPut, "/stockes/"+url.PathEscape(id), true, entry, nil)
}

func (c *Client) DeleteStock(ctx context.Context, id string) error {
	return c.call(ctx, http.MethodDelete, "/stockes/"+url.PathEscape(id), true, nil, nil)
}
