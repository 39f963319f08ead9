package handler

import (
	"net/http"

	"grocery-pos/internal/model"
	"grocery-pos/internal/pos"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

type addLineRequest struct {
	ProductID string `json:"productId"`
}

type quantityRequest struct {
	Quantity *int `json:"quantity"`
}

type scanRequest struct {
	Barcode string `json:"barcode"`
}

type searchRequest struct {
	Term string `json:"term"`
}

// customerID null selects a walk-in sale.
type selectCustomerRequest struct {
	CustomerID *string `json:"customerId"`
}

type discountRequest struct {
	Percent *decimal.Decimal `json:"percent"`
}

type couponRequest struct {
	Code string `json:"code"`
}

// SessionHandler exposes the tills: cart editing, checkout review and
// sale confirmation. Every route except create addresses a session by
// its {id} path value.
type SessionHandler struct {
	manager *pos.Manager
	logger  zerolog.Logger
}

// NewSessionHandler creates a new POS session handler.
func NewSessionHandler(manager *pos.Manager, logger zerolog.Logger) *SessionHandler {
	return &SessionHandler{
		manager: manager,
		logger:  logger.With().Str("handler", "pos-session").Logger(),
	}
}

// Create handles POST /api/pos/sessions.
func (h *SessionHandler) Create(w http.ResponseWriter, r *http.Request) {
	s := h.manager.Create()
	writeJSON(w, http.StatusCreated, s.View())
}

// Get handles GET /api/pos/sessions/{id}.
func (h *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

// Close handles DELETE /api/pos/sessions/{id}.
func (h *SessionHandler) Close(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session ID format", h.logger)
		return
	}

	if err := h.manager.Close(id); err != nil {
		writeDomainError(w, err, "failed to close session", h.logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// AddLine handles POST /api/pos/sessions/{id}/lines.
func (h *SessionHandler) AddLine(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req addLineRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.ProductID == "" {
		writeBadRequest(w, model.ErrCodeMissingField, "productId is required", h.logger)
		return
	}

	h.respond(w, http.StatusOK, "failed to add product")(s.AddProduct(r.Context(), req.ProductID))
}

// SetQuantity handles PUT /api/pos/sessions/{id}/lines/{productId}.
func (h *SessionHandler) SetQuantity(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req quantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Quantity == nil {
		writeBadRequest(w, model.ErrCodeMissingField, "quantity is required", h.logger)
		return
	}

	h.respond(w, http.StatusOK, "failed to update quantity")(s.SetQuantity(r.PathValue("productId"), *req.Quantity))
}

// RemoveLine handles DELETE /api/pos/sessions/{id}/lines/{productId}.
func (h *SessionHandler) RemoveLine(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	h.respond(w, http.StatusOK, "failed to remove line")(s.RemoveLine(r.PathValue("productId")))
}

// Scan handles POST /api/pos/sessions/{id}/scan.
func (h *SessionHandler) Scan(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req scanRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	h.respond(w, http.StatusOK, "failed to scan barcode")(s.Scan(r.Context(), req.Barcode))
}

// Search handles GET /api/pos/sessions/{id}/search?q= and lists the matches
// without touching the cart.
func (h *SessionHandler) Search(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	products, err := s.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeDomainError(w, err, "failed to search products", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, products)
}

// SearchAdd handles POST /api/pos/sessions/{id}/search: the first match is
// added to the cart.
func (h *SessionHandler) SearchAdd(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req searchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	h.respond(w, http.StatusOK, "failed to add product")(s.SearchAdd(r.Context(), req.Term))
}

// SelectCustomer handles PUT /api/pos/sessions/{id}/customer.
func (h *SessionHandler) SelectCustomer(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req selectCustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	customerID := ""
	if req.CustomerID != nil {
		customerID = *req.CustomerID
	}

	h.respond(w, http.StatusOK, "failed to select customer")(s.SelectCustomer(r.Context(), customerID))
}

// SetDiscount handles PUT /api/pos/sessions/{id}/discount.
func (h *SessionHandler) SetDiscount(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req discountRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}
	if req.Percent == nil {
		writeBadRequest(w, model.ErrCodeMissingField, "percent is required", h.logger)
		return
	}

	h.respond(w, http.StatusOK, "failed to set discount")(s.SetDiscountPercent(*req.Percent))
}

// ApplyCoupon handles PUT /api/pos/sessions/{id}/coupon.
func (h *SessionHandler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req couponRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	h.respond(w, http.StatusOK, "failed to apply coupon")(s.ApplyCoupon(r.Context(), req.Code))
}

// RemoveCoupon handles DELETE /api/pos/sessions/{id}/coupon.
func (h *SessionHandler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	h.respond(w, http.StatusOK, "failed to remove coupon")(s.RemoveCoupon())
}

// Checkout handles POST /api/pos/sessions/{id}/checkout and returns the
// review the cashier confirms or cancels.
func (h *SessionHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	review, err := s.Checkout(r.Context())
	if err != nil {
		writeDomainError(w, err, "failed to check out", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

// Cancel handles POST /api/pos/sessions/{id}/cancel.
func (h *SessionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := s.Cancel(); err != nil {
		writeDomainError(w, err, "failed to cancel checkout", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, s.View())
}

// Confirm handles POST /api/pos/sessions/{id}/confirm. On success the
// receipt is returned and the cart is empty.
func (h *SessionHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	receipt, err := s.Confirm(r.Context())
	if err != nil {
		writeDomainError(w, err, "failed to complete sale", h.logger)
		return
	}
	writeJSON(w, http.StatusCreated, receipt)
}

func (h *SessionHandler) session(w http.ResponseWriter, r *http.Request) (*pos.Session, bool) {
	id, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid session ID format", h.logger)
		return nil, false
	}

	s, err := h.manager.Get(id)
	if err != nil {
		writeDomainError(w, err, "failed to load session", h.logger)
		return nil, false
	}
	return s, true
}

// respond writes the session view, or the error when the operation failed.
func (h *SessionHandler) respond(w http.ResponseWriter, status int, fallback string) func(pos.View, error) {
	return func(view pos.View, err error) {
		if err != nil {
			writeDomainError(w, err, fallback, h.logger)
			return
		}
		writeJSON(w, status, view)
	}
}
