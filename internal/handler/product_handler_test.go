package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"grocery-pos/internal/model"
	"grocery-pos/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

var testProducts = []model.Product{
	{ID: "P001", Name: "Gala Apple", SKU: "FRU-001", Barcode: strPtr("4011"), SellingPrice: decimal.RequireFromString("2.99"), Status: model.ProductStatusActive},
	{ID: "P002", Name: "Jasmine Rice 1kg", SKU: "GRO-002", SellingPrice: decimal.RequireFromString("10.00"), Status: model.ProductStatusActive},
}

func TestProductHandler_List(t *testing.T) {
	tests := []struct {
		name           string
		query          string
		setup          func(m *MockProductService)
		expectedStatus int
	}{
		{
			name:  "Default pagination",
			query: "",
			setup: func(m *MockProductService) {
				m.On("GetAll", mock.Anything, service.DefaultPageSize, 0).Return(testProducts, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "Custom pagination",
			query: "?limit=5&offset=10",
			setup: func(m *MockProductService) {
				m.On("GetAll", mock.Anything, 5, 10).Return(testProducts, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:  "Search term",
			query: "?q=apple",
			setup: func(m *MockProductService) {
				m.On("Search", mock.Anything, "apple").Return(testProducts[:1], nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Invalid limit",
			query:          "?limit=abc",
			setup:          func(m *MockProductService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Invalid offset",
			query:          "?offset=abc",
			setup:          func(m *MockProductService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:  "Service error",
			query: "",
			setup: func(m *MockProductService) {
				m.On("GetAll", mock.Anything, service.DefaultPageSize, 0).Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name:  "Search error",
			query: "?q=milk",
			setup: func(m *MockProductService) {
				m.On("Search", mock.Anything, "milk").Return(nil, errors.New("database error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			tt.setup(svc)
			h := NewProductHandler(svc, zerolog.Nop())

			req := httptest.NewRequest(http.MethodGet, "/api/products"+tt.query, nil)
			w := httptest.NewRecorder()

			h.List(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestProductHandler_GetByBarcode(t *testing.T) {
	tests := []struct {
		name           string
		barcode        string
		setup          func(m *MockProductService)
		expectedStatus int
		expectedID     string
	}{
		{
			name:    "Found",
			barcode: "4011",
			setup: func(m *MockProductService) {
				m.On("FindByBarcode", mock.Anything, "4011").Return(&testProducts[0], nil)
			},
			expectedStatus: http.StatusOK,
			expectedID:     "P001",
		},
		{
			name:    "Unknown barcode",
			barcode: "0000",
			setup: func(m *MockProductService) {
				m.On("FindByBarcode", mock.Anything, "0000").Return(nil, model.ErrProductNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:    "Service error",
			barcode: "4011",
			setup: func(m *MockProductService) {
				m.On("FindByBarcode", mock.Anything, "4011").Return(nil, errors.New("timeout"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockProductService)
			tt.setup(svc)
			h := NewProductHandler(svc, zerolog.Nop())

			req := httptest.NewRequest(http.MethodGet, "/api/products/barcode/"+tt.barcode, nil)
			req.SetPathValue("barcode", tt.barcode)
			w := httptest.NewRecorder()

			h.GetByBarcode(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedID != "" {
				var p model.Product
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
				assert.Equal(t, tt.expectedID, p.ID)
				assert.Equal(t, "2.99", p.SellingPrice.String())
			}
		})
	}
}

func TestProductHandler_GetByID(t *testing.T) {
	svc := new(MockProductService)
	svc.On("GetByID", mock.Anything, "P002").Return(&testProducts[1], nil)
	svc.On("GetByID", mock.Anything, "P404").Return(nil, model.ErrProductNotFound)
	h := NewProductHandler(svc, zerolog.Nop())

	req := httptest.NewRequest(http.MethodGet, "/api/products/P002", nil)
	req.SetPathValue("id", "P002")
	w := httptest.NewRecorder()
	h.GetByID(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/products/P404", nil)
	req.SetPathValue("id", "P404")
	w = httptest.NewRecorder()
	h.GetByID(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, model.ErrCodeProductNotFound, decodeError(t, w).Code)
}
