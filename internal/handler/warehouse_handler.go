package handler

import (
	"net/http"

	"grocery-pos/internal/service"

	"github.com/rs/zerolog"
)

type WarehouseHandler struct {
	service service.WarehouseService
	logger  zerolog.Logger
}

func NewWarehouseHandler(service service.WarehouseService, logger zerolog.Logger) *WarehouseHandler {
	return &WarehouseHandler{
		service: service,
		logger:  logger.With().Str("handler", "warehouse").Logger(),
	}
}

// List handles GET /api/warehouses.
func (h *WarehouseHandler) List(w http.ResponseWriter, r *http.Request) {
	warehouses, err := h.service.ListActive(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to retrieve warehouses", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, warehouses)
}
