package handler

import (
	"net/http"

	"grocery-pos/internal/service"

	"github.com/rs/zerolog"
)

// OrderHandler serves completed sales.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("handler", "order").Logger(),
	}
}

// GetInvoice handles GET /api/orders/{id}. The response carries the order,
// its customer and the sold items with product names.
func (h *OrderHandler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	orderID, ok := pathUUID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order ID format", h.logger)
		return
	}

	invoice, err := h.service.GetInvoice(r.Context(), orderID)
	if err != nil {
		writeDomainError(w, err, "failed to retrieve order", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, invoice)
}
