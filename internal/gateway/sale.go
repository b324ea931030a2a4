package gateway

import (
	"net/http"

	"salesdesk/domain"
	"salesdesk/internal/ordermap"
	"salesdesk/internal/sale"
	"salesdesk/internal/textparse"
)

// Sales-entry form endpoints. The handler owns one form instance; every
// mutation happens under the handler lock, which is also what keeps a
// second submit from racing an in-flight one.

type saleStateResponse struct {
	Form        *sale.Form `json:"form"`
	TotalAmount float64    `json:"totalAmount"`
	TotalUnits  int        `json:"totalUnits"`
}

func (h *Handler) saleState(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	snapshot := *h.form
	snapshot.Items = append([]domain.SaleItem{}, h.form.Items...)
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, saleStateResponse{
		Form:        &snapshot,
		TotalAmount: snapshot.TotalAmount(),
		TotalUnits:  snapshot.TotalUnits(),
	})
}

type addItemRequest struct {
	ProductID string `json:"productId"`
	Qty       int    `json:"qty"`
}

func (h *Handler) saleAddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ProductID == "" || req.Qty <= 0 {
		respondError(w, http.StatusBadRequest, "productId and a positive qty are required")
		return
	}

	product, err := h.productByID(r.Context(), req.ProductID)
	if err != nil {
		h.respondBackendError(w, err, "unable to load the product catalog")
		return
	}
	if product.ProductID == "" {
		respondError(w, http.StatusNotFound, "product not found")
		return
	}
	if !product.Selectable() {
		respondError(w, http.StatusBadRequest, "only active products can be added to a sale")
		return
	}

	h.mu.Lock()
	h.form.AddItem(product, req.Qty)
	h.mu.Unlock()
	h.saleState(w, r)
}

type updateItemRequest struct {
	Qty int `json:"qty"`
}

func (h *Handler) saleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.mu.Lock()
	h.form.UpdateQuantity(trimmedParam(r, "productId"), req.Qty)
	h.mu.Unlock()
	h.saleState(w, r)
}

func (h *Handler) saleRemoveItem(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.form.RemoveItem(trimmedParam(r, "productId"))
	h.mu.Unlock()
	h.saleState(w, r)
}

type syncQtyRequest struct {
	Qty string `json:"qty"`
}

// saleSyncQty drives the default product's row from the quick quantity
// field. With no remembered default product this is a text-only update.
func (h *Handler) saleSyncQty(w http.ResponseWriter, r *http.Request) {
	var req syncQtyRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var product domain.Product
	h.mu.Lock()
	defaultID := h.form.DefaultProductID
	h.mu.Unlock()
	if defaultID != "" {
		resolved, err := h.productByID(r.Context(), defaultID)
		if err != nil {
			h.respondBackendError(w, err, "unable to load the product catalog")
			return
		}
		product = resolved
	}

	h.mu.Lock()
	h.form.SyncDefaultProductWithQty(req.Qty, product)
	h.mu.Unlock()
	h.saleState(w, r)
}

type parseTextRequest struct {
	Text string `json:"text"`
}

type parseTextResponse struct {
	Parsed bool               `json:"parsed"`
	Form   *sale.Form         `json:"form"`
	Notice *sale.Notification `json:"notice,omitempty"`
}

// saleParseText applies the pasted-text parser to the form. When nothing
// was recognised the form is left untouched and no success notice fires.
func (h *Handler) saleParseText(w http.ResponseWriter, r *http.Request) {
	var req parseTextRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	parsed := textparse.Parse(req.Text)
	h.mu.Lock()
	defer h.mu.Unlock()

	if parsed.Empty() {
		respondJSON(w, http.StatusOK, parseTextResponse{Parsed: false, Form: h.form})
		return
	}

	applyParsed(h.form, parsed)
	notice := sale.SuccessNotice("customer info filled from text")
	respondJSON(w, http.StatusOK, parseTextResponse{Parsed: true, Form: h.form, Notice: &notice})
}

// applyParsed merges parsed values into the form; only non-empty parsed
// fields overwrite, so an already-filled field is never blanked.
func applyParsed(f *sale.Form, p textparse.Parsed) {
	if p.Name != "" {
		f.Name = p.Name
	}
	if p.Address != "" {
		f.Address = p.Address
	}
	if p.Contact01 != "" {
		f.Contact01 = p.Contact01
	}
	if p.Contact02 != "" {
		f.Contact02 = p.Contact02
	}
}

type fieldUpdateRequest struct {
	Name      *string `json:"name"`
	Address   *string `json:"address"`
	Contact01 *string `json:"contact01"`
	Contact02 *string `json:"contact02"`
	Remark    *string `json:"remark"`
}

// saleLookup is the on-blur handler: the UI posts its current field values
// and the gateway tries to recognise an existing customer. Lookup failure
// is silent; the response always carries the (possibly prefilled) form.
func (h *Handler) saleLookup(w http.ResponseWriter, r *http.Request) {
	var req fieldUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.mu.Lock()
	applyFields(h.form, req)
	matched := h.lookup.LookupAndPrefill(r.Context(), h.form)
	snapshot := *h.form
	snapshot.Items = append([]domain.SaleItem{}, h.form.Items...)
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, map[string]any{"matched": matched, "form": &snapshot})
}

func applyFields(f *sale.Form, req fieldUpdateRequest) {
	if req.Name != nil {
		f.Name = *req.Name
	}
	if req.Address != nil {
		f.Address = *req.Address
	}
	if req.Contact01 != nil {
		f.Contact01 = *req.Contact01
	}
	if req.Contact02 != nil {
		f.Contact02 = *req.Contact02
	}
	if req.Remark != nil {
		f.Remark = *req.Remark
	}
}

// saleSubmit runs the submission flow. Field values may ride along so the
// UI does not need a separate field-sync round trip first.
func (h *Handler) saleSubmit(w http.ResponseWriter, r *http.Request) {
	var req fieldUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.mu.Lock()
	applyFields(h.form, req)
	result := h.form.Submit(r.Context(), h.client, h.client.UpdateOrder)
	if result.Refresh {
		h.lookup.Reset()
	}
	h.mu.Unlock()

	if result.Unauthorized {
		h.clearSession()
		respondJSON(w, http.StatusUnauthorized, result)
		return
	}
	status := http.StatusOK
	if result.Notice.Kind == sale.NoticeError {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, result)
}

func (h *Handler) saleReset(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	h.form.Reset()
	h.lookup.Reset()
	h.mu.Unlock()
	h.saleState(w, r)
}

// editOrder hydrates the form from an existing order so the duplicate
// management pages can correct it. The order is located in the mapped
// list, whichever backend shape it arrived in.
func (h *Handler) editOrder(w http.ResponseWriter, r *http.Request) {
	id := trimmedParam(r, "id")
	raw, err := h.client.Orders(r.Context(), "all")
	if err != nil {
		h.respondBackendError(w, err, "unable to load orders")
		return
	}
	for _, mapped := range ordermap.MapOrders(raw) {
		if mapped.ID == id {
			h.mu.Lock()
			h.form.Reset()
			h.form.HydrateFrom(mapped)
			h.mu.Unlock()
			h.saleState(w, r)
			return
		}
	}
	respondError(w, http.StatusNotFound, "order not found")
}
