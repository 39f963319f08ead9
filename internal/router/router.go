package router

import (
	"net/http"

	"grocery-pos/internal/handler"
	"grocery-pos/internal/middleware"

	"github.com/rs/zerolog"
)

// Handlers groups the HTTP handlers served by the router.
type Handlers struct {
	Products   *handler.ProductHandler
	Customers  *handler.CustomerHandler
	Warehouses *handler.WarehouseHandler
	Orders     *handler.OrderHandler
	Sessions   *handler.SessionHandler
}

// Options configures the middleware chain.
type Options struct {
	APIKey    string
	RateLimit *middleware.RateLimitConfig // nil disables rate limiting
}

// New creates a new HTTP router with all routes and middleware configured.
func New(h Handlers, opts Options, logger zerolog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status": "healthy"}`))
	})

	mux.HandleFunc("GET /api/products", h.Products.List)
	mux.HandleFunc("GET /api/products/{id}", h.Products.GetByID)
	mux.HandleFunc("GET /api/products/barcode/{barcode}", h.Products.GetByBarcode)

	mux.HandleFunc("GET /api/customers", h.Customers.Search)
	mux.HandleFunc("POST /api/customers", h.Customers.Create)

	mux.HandleFunc("GET /api/warehouses", h.Warehouses.List)

	mux.HandleFunc("GET /api/orders/{id}", h.Orders.GetInvoice)

	s := h.Sessions
	mux.HandleFunc("POST /api/pos/sessions", s.Create)
	mux.HandleFunc("GET /api/pos/sessions/{id}", s.Get)
	mux.HandleFunc("DELETE /api/pos/sessions/{id}", s.Close)
	mux.HandleFunc("POST /api/pos/sessions/{id}/lines", s.AddLine)
	mux.HandleFunc("PUT /api/pos/sessions/{id}/lines/{productId}", s.SetQuantity)
	mux.HandleFunc("DELETE /api/pos/sessions/{id}/lines/{productId}", s.RemoveLine)
	mux.HandleFunc("POST /api/pos/sessions/{id}/scan", s.Scan)
	mux.HandleFunc("GET /api/pos/sessions/{id}/search", s.Search)
	mux.HandleFunc("POST /api/pos/sessions/{id}/search", s.SearchAdd)
	mux.HandleFunc("PUT /api/pos/sessions/{id}/customer", s.SelectCustomer)
	mux.HandleFunc("PUT /api/pos/sessions/{id}/discount", s.SetDiscount)
	mux.HandleFunc("PUT /api/pos/sessions/{id}/coupon", s.ApplyCoupon)
	mux.HandleFunc("DELETE /api/pos/sessions/{id}/coupon", s.RemoveCoupon)
	mux.HandleFunc("POST /api/pos/sessions/{id}/checkout", s.Checkout)
	mux.HandleFunc("POST /api/pos/sessions/{id}/cancel", s.Cancel)
	mux.HandleFunc("POST /api/pos/sessions/{id}/confirm", s.Confirm)

	// Recovery -> Logging -> RateLimit -> CORS -> APIKeyAuth
	var handler http.Handler = mux
	handler = middleware.APIKeyAuth(opts.APIKey, logger)(handler)
	handler = middleware.CORS(handler)
	if opts.RateLimit != nil {
		handler = middleware.RateLimit(*opts.RateLimit, logger)(handler)
	}
	handler = middleware.Logging(logger)(handler)
	handler = middleware.Recovery(logger)(handler)

	return handler
}
