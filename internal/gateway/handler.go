// Package gateway is the HTTP surface the dashboard UI talks to. Handlers
// hold the client-side state the pages need (the open sales form, the
// lookup cache, the operator settings) and delegate everything the remote
// backend owns to the REST client.
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/golang-jwt/jwt/v5"

	"salesdesk/domain"
	"salesdesk/internal/backend"
	"salesdesk/internal/lookup"
	"salesdesk/internal/sale"
	"salesdesk/internal/settings"
)

// Handler bundles dependencies for HTTP handlers.
type Handler struct {
	client *backend.Client
	store  *settings.Store

	// tokenMu guards only the token. The client's TokenSource reads it on
	// every outbound call, including calls made while mu is held, so the
	// token can never share the handler lock.
	tokenMu sync.Mutex
	token   string

	mu       sync.Mutex
	settings settings.Settings
	form     *sale.Form
	lookup   *lookup.Cache

	// stocks is the UI's view of the stock ledger table, mutated
	// optimistically and rolled back when the backend rejects a change.
	stocks       []domain.StockEntry
	stocksLoaded bool
}

// New constructs a Handler from the startup settings snapshot.
func New(store *settings.Store, snapshot settings.Settings, newClient func(backend.TokenSource) *backend.Client) *Handler {
	h := &Handler{
		store:    store,
		settings: snapshot,
		token:    snapshot.Token,
		form:     sale.NewForm(snapshot.DefaultProductID),
	}
	h.client = newClient(h.currentToken)
	h.lookup = lookup.New(h.client)
	return h
}

func (h *Handler) currentToken() string {
	h.tokenMu.Lock()
	defer h.tokenMu.Unlock()
	return h.token
}

// Router wires up the HTTP API.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", h.health)

	r.Route("/session", func(r chi.Router) {
		r.Post("/login", h.login)
		r.Post("/logout", h.logout)
		r.Post("/register", h.register)
		r.Post("/otp/send", h.sendOTP)
		r.Post("/otp/validate", h.validateOTP)
		r.Post("/reset", h.resetPassword)
		r.Group(func(protected chi.Router) {
			protected.Use(h.sessionMiddleware)
			protected.Get("/", h.whoami)
		})
	})

	r.Group(func(pr chi.Router) {
		pr.Use(h.sessionMiddleware)

		pr.Route("/sale", func(r chi.Router) {
			r.Get("/", h.saleState)
			r.Post("/items", h.saleAddItem)
			r.Put("/items/{productId}", h.saleUpdateItem)
			r.Delete("/items/{productId}", h.saleRemoveItem)
			r.Post("/qty", h.saleSyncQty)
			r.Post("/parse", h.saleParseText)
			r.Post("/lookup", h.saleLookup)
			r.Post("/submit", h.saleSubmit)
			r.Post("/reset", h.saleReset)
		})

		pr.Route("/products", func(r chi.Router) {
			r.Get("/", h.listProducts)
			r.Post("/", h.createProduct)
			r.Put("/{id}", h.updateProduct)
			r.Delete("/{id}", h.deleteProduct)
		})

		pr.Route("/orders", func(r chi.Router) {
			r.Get("/", h.listOrders)
			r.Post("/{id}/edit", h.editOrder)
		})

		pr.Route("/stocks", func(r chi.Router) {
			r.Get("/", h.listStocks)
			r.Post("/", h.createStock)
			r.Put("/{id}", h.updateStock)
			r.Delete("/{id}", h.deleteStock)
		})

		pr.Route("/users", func(r chi.Router) {
			r.Get("/", h.listUsers)
			r.Put("/{id}", h.updateUser)
			r.Delete("/{id}", h.deleteUser)
		})

		pr.Get("/dashboard", h.dashboard)
		pr.Get("/dashboard/excel/{variant}", h.dashboardExcel)

		pr.Get("/settings", h.getSettings)
		pr.Put("/settings", h.updateSettings)
	})

	return r
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Session handling

// sessionMiddleware requires a stored token and rejects one that is
// visibly expired. The token is the backend's to verify; the unverified
// parse here only reads the expiry claim so a dead session is caught
// before a pointless round trip. Opaque tokens pass through untouched.
func (h *Handler) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := h.currentToken()
		if token == "" {
			respondError(w, http.StatusUnauthorized, "not logged in")
			return
		}
		if expired(token) {
			h.clearSession()
			respondError(w, http.StatusUnauthorized, "session expired, please log in again")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func expired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(time.Now())
}

// clearSession drops the in-memory and persisted token. Called on logout
// and whenever the backend answers 401.
func (h *Handler) clearSession() {
	h.tokenMu.Lock()
	h.token = ""
	h.tokenMu.Unlock()
	if err := h.store.ClearToken(); err != nil {
		log.Printf("unable to clear stored token: %v", err)
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "email and password are required")
		return
	}

	session, err := h.client.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondBackendError(w, err, "login failed")
		return
	}

	h.tokenMu.Lock()
	h.token = session.Token
	h.tokenMu.Unlock()
	if err := h.store.SetToken(session.Token); err != nil {
		log.Printf("unable to persist token: %v", err)
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"user":   session.User,
		"notice": sale.SuccessNotice("logged in"),
	})
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.clearSession()
	respondJSON(w, http.StatusOK, map[string]any{"notice": sale.SuccessNotice("logged out")})
}

func (h *Handler) whoami(w http.ResponseWriter, r *http.Request) {
	user, err := h.client.UserInfoByToken(r.Context())
	if err != nil {
		h.respondBackendError(w, err, "unable to load user info")
		return
	}
	respondJSON(w, http.StatusOK, user)
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req backend.RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" || req.Email == "" || req.Password == "" {
		respondError(w, http.StatusBadRequest, "name, email and password are required")
		return
	}
	if err := h.client.Register(r.Context(), req); err != nil {
		h.respondBackendError(w, err, "registration failed")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"notice": sale.SuccessNotice("account created")})
}

func (h *Handler) sendOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Email == "" {
		respondError(w, http.StatusBadRequest, "email is required")
		return
	}
	if err := h.client.SendOTP(r.Context(), req.Email); err != nil {
		h.respondBackendError(w, err, "unable to send the code")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"notice": sale.SuccessNotice("verification code sent")})
}

func (h *Handler) validateOTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email string `json:"email"`
		OTP   string `json:"otp"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.client.ValidateOTP(r.Context(), req.Email, req.OTP); err != nil {
		h.respondBackendError(w, err, "invalid code")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"notice": sale.SuccessNotice("code accepted")})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		OTP      string `json:"otp"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Password == "" {
		respondError(w, http.StatusBadRequest, "password is required")
		return
	}
	if err := h.client.ResetPassword(r.Context(), req.Email, req.OTP, req.Password); err != nil {
		h.respondBackendError(w, err, "unable to reset the password")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"notice": sale.SuccessNotice("password updated")})
}

// Settings

func (h *Handler) getSettings(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	snapshot := h.settings
	h.mu.Unlock()
	respondJSON(w, http.StatusOK, snapshot)
}

type settingsRequest struct {
	DefaultProductID *string `json:"productId"`
	SalesTitle       *string `json:"salesTitle"`
	BackgroundColor  *string `json:"appBackgroundColor"`
}

// updateSettings is the only writer besides login/logout; each provided
// field is persisted and applied to the running state.
func (h *Handler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if req.DefaultProductID != nil {
		if err := h.store.Set(settings.KeyProductID, *req.DefaultProductID); err != nil {
			respondError(w, http.StatusInternalServerError, "unable to save settings")
			return
		}
		h.settings.DefaultProductID = *req.DefaultProductID
		h.form.DefaultProductID = *req.DefaultProductID
	}
	if req.SalesTitle != nil {
		if err := h.store.Set(settings.KeySalesTitle, *req.SalesTitle); err != nil {
			respondError(w, http.StatusInternalServerError, "unable to save settings")
			return
		}
		h.settings.SalesTitle = *req.SalesTitle
	}
	if req.BackgroundColor != nil {
		if err := h.store.Set(settings.KeyBackgroundColor, *req.BackgroundColor); err != nil {
			respondError(w, http.StatusInternalServerError, "unable to save settings")
			return
		}
		h.settings.BackgroundColor = *req.BackgroundColor
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"settings": h.settings,
		"notice":   sale.SuccessNotice("settings saved"),
	})
}

// Helpers

// respondBackendError maps client errors onto the gateway's responses: a
// dead session clears local state and forces re-login, a server-provided
// message is passed through, anything else gets the fallback.
func (h *Handler) respondBackendError(w http.ResponseWriter, err error, fallback string) {
	if errors.Is(err, backend.ErrUnauthorized) {
		h.clearSession()
		respondError(w, http.StatusUnauthorized, "session expired, please log in again")
		return
	}
	var apiErr *backend.APIError
	if errors.As(err, &apiErr) {
		message := apiErr.Message
		if message == "" {
			message = fallback
		}
		respondError(w, http.StatusBadGateway, message)
		return
	}
	log.Printf("backend call failed: %v", err)
	respondError(w, http.StatusBadGateway, fallback)
}

// productByID resolves a product from the backend catalog.
func (h *Handler) productByID(ctx context.Context, id string) (domain.Product, error) {
	if id == "" {
		return domain.Product{}, nil
	}
	products, err := h.client.Products(ctx)
	if err != nil {
		return domain.Product{}, err
	}
	for _, p := range products {
		if p.ProductID == id {
			return p, nil
		}
	}
	return domain.Product{}, nil
}

func decodeJSON(r *http.Request, dest interface{}) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dest)
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	encoder := json.NewEncoder(w)
	encoder.SetEscapeHTML(false)
	_ = encoder.Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

func trimmedParam(r *http.Request, name string) string {
	return strings.TrimSpace(chi.URLParam(r, name))
}
