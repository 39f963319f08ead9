package handler

import (
	"net/http"

	"grocery-pos/internal/model"
	"grocery-pos/internal/service"

	"github.com/rs/zerolog"
)

// CustomerHandler handles customer lookup and registration.
type CustomerHandler struct {
	service service.CustomerService
	logger  zerolog.Logger
}

// NewCustomerHandler creates a new customer handler.
func NewCustomerHandler(service service.CustomerService, logger zerolog.Logger) *CustomerHandler {
	return &CustomerHandler{
		service: service,
		logger:  logger.With().Str("handler", "customer").Logger(),
	}
}

// Search handles GET /api/customers?q=.
func (h *CustomerHandler) Search(w http.ResponseWriter, r *http.Request) {
	customers, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to search customers", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, customers)
}

// Create handles POST /api/customers.
func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CustomerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeBadRequest(w, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	customer, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeDomainError(w, err, "failed to create customer", h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, customer)
}
