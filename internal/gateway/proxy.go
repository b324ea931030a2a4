package gateway

import (
	"net/http"

	"salesdesk/domain"
	"salesdesk/internal/backend"
	"salesdesk/internal/ordermap"
	"salesdesk/internal/sale"
)

// Product catalog

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.client.Products(r.Context())
	if err != nil {
		h.respondBackendError(w, err, "unable to load products")
		return
	}
	// The sales page only offers active products; management views ask
	// for everything.
	if r.URL.Query().Get("selectable") == "true" {
		active := make([]domain.Product, 0, len(products))
		for _, p := range products {
			if p.Selectable() {
				active = append(active, p)
			}
		}
		products = active
	}
	respondJSON(w, http.StatusOK, products)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if p.Name == "" || p.Price <= 0 {
		respondError(w, http.StatusBadRequest, "name and a positive price are required")
		return
	}
	if err := h.client.CreateProduct(r.Context(), p); err != nil {
		h.respondBackendError(w, err, "unable to create the product")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"notice": sale.SuccessNotice("product created")})
}

func (h *Handler) updateProduct(w http.ResponseWriter, r *http.Request) {
	var p domain.Product
	if err := decodeJSON(r, &p); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.client.UpdateProduct(r.Context(), trimmedParam(r, "id"), p); err != nil {
		h.respondBackendError(w, err, "unable to update the product")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"notice": sale.SuccessNotice("product updated")})
}

func (h *Handler) deleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.client.DeleteProduct(r.Context(), trimmedParam(r, "id")); err != nil {
		h.respondBackendError(w, err, "unable to delete the product")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"notice": sale.SuccessNotice("product deleted")})
}

// Orders

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	scope := backend.OrdersToday
	if r.URL.Query().Get("scope") == "all" {
		scope = backend.OrdersAll
	}
	raw, err := h.client.Orders(r.Context(), scope)
	if err != nil {
		h.respondBackendError(w, err, "unable to load orders")
		return
	}
	respondJSON(w, http.StatusOK, ordermap.MapOrders(raw))
}

// Dashboard

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := h.client.Dashboard(r.Context())
	if err != nil {
		h.respondBackendError(w, err, "unable to load dashboard stats")
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *Handler) dashboardExcel(w http.ResponseWriter, r *http.Request) {
	variant := trimmedParam(r, "variant")
	blob, filename, err := h.client.DashboardExcel(r.Context(), variant)
	if err != nil {
		h.respondBackendError(w, err, "unable to download the report")
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(blob)
}

// Stock ledger. The handler keeps the table the UI is looking at and
// mutates it optimistically: apply the local change, call the backend,
// restore the snapshot and pair it with an error notice when the call
// fails.

func (h *Handler) listStocks(w http.ResponseWriter, r *http.Request) {
	stocks, err := h.client.Stocks(r.Context())
	if err != nil {
		h.respondBackendError(w, err, "unable to load the stock ledger")
		return
	}
	h.mu.Lock()
	h.stocks = stocks
	h.stocksLoaded = true
	h.mu.Unlock()
	respondJSON(w, http.StatusOK, stocks)
}

// stockByID reads the cached table; entries the UI has never seen cannot
// be edited or deleted.
func (h *Handler) stockByID(id string) (domain.StockEntry, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, entry := range h.stocks {
		if entry.StockID == id {
			return entry, true
		}
	}
	return domain.StockEntry{}, false
}

func (h *Handler) snapshotStocks() []domain.StockEntry {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]domain.StockEntry{}, h.stocks...)
}

func (h *Handler) restoreStocks(snapshot []domain.StockEntry) {
	h.mu.Lock()
	h.stocks = snapshot
	h.mu.Unlock()
}

func (h *Handler) createStock(w http.ResponseWriter, r *http.Request) {
	var entry domain.StockEntry
	if err := decodeJSON(r, &entry); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if entry.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}
	if entry.Status != domain.StockNew && entry.Status != domain.StockReturn {
		respondError(w, http.StatusBadRequest, "status must be NEW or RETURN")
		return
	}

	snapshot := h.snapshotStocks()
	h.mu.Lock()
	h.stocks = append(h.stocks, entry)
	h.mu.Unlock()

	if err := h.client.CreateStock(r.Context(), entry); err != nil {
		h.restoreStocks(snapshot)
		h.respondBackendError(w, err, "unable to add the stock entry")
		return
	}
	respondJSON(w, http.StatusCreated, map[string]any{"notice": sale.SuccessNotice("stock entry added")})
}

func (h *Handler) updateStock(w http.ResponseWriter, r *http.Request) {
	id := trimmedParam(r, "id")
	existing, ok := h.stockByID(id)
	if !ok {
		respondError(w, http.StatusNotFound, "stock entry not found")
		return
	}
	if !existing.Mutable() {
		respondError(w, http.StatusConflict, "stock entry can no longer be changed")
		return
	}

	var entry domain.StockEntry
	if err := decodeJSON(r, &entry); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if entry.Quantity <= 0 {
		respondError(w, http.StatusBadRequest, "quantity must be positive")
		return
	}
	if entry.Status != domain.StockNew && entry.Status != domain.StockReturn {
		respondError(w, http.StatusBadRequest, "status must be NEW or RETURN")
		return
	}
	entry.StockID = id

	snapshot := h.snapshotStocks()
	h.mu.Lock()
	for i := range h.stocks {
		if h.stocks[i].StockID == id {
			h.stocks[i] = entry
		}
	}
	h.mu.Unlock()

	if err := h.client.UpdateStock(r.Context(), id, entry); err != nil {
		h.restoreStocks(snapshot)
		h.respondBackendError(w, err, "unable to update the stock entry")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"notice": sale.SuccessNotice("stock entry updated")})
}

func (h *Handler) deleteStock(w http.ResponseWriter, r *http.Request) {
	id := trimmedParam(r, "id")
	existing, ok := h.stockByID(id)
	if !ok {
		respondError(w, http.StatusNotFound, "stock entry not found")
		return
	}
	if !existing.Mutable() {
		respondError(w, http.StatusConflict, "stock entry can no longer be changed")
		return
	}

	snapshot := h.snapshotStocks()
	h.mu.Lock()
	kept := h.stocks[:0]
	for _, entry := range h.stocks {
		if entry.StockID != id {
			kept = append(kept, entry)
		}
	}
	h.stocks = kept
	h.mu.Unlock()

	if err := h.client.DeleteStock(r.Context(), id); err != nil {
		h.restoreStocks(snapshot)
		h.respondBackendError(w, err, "unable to delete the stock entry")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"notice": sale.SuccessNotice("stock entry deleted")})
}

// User management

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.client.Users(r.Context())
	if err != nil {
		h.respondBackendError(w, err, "unable to load users")
		return
	}
	respondJSON(w, http.StatusOK, users)
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	var user domain.User
	if err := decodeJSON(r, &user); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.client.UpdateUser(r.Context(), trimmedParam(r, "id"), user); err != nil {
		h.respondBackendError(w, err, "unable to update the user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"notice": sale.SuccessNotice("user updated")})
}

func (h *Handler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.client.DeleteUser(r.Context(), trimmedParam(r, "id")); err != nil {
		h.respondBackendError(w, err, "unable to delete the user")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"notice": sale.SuccessNotice("user deleted")})
}
