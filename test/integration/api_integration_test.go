package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"grocery-pos/internal/cache"
	"grocery-pos/internal/checkout"
	"grocery-pos/internal/coupon"
	"grocery-pos/internal/handler"
	"grocery-pos/internal/model"
	"grocery-pos/internal/pos"
	"grocery-pos/internal/repository"
	"grocery-pos/internal/router"
	"grocery-pos/internal/service"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key"

type recordingPublisher struct {
	mu     sync.Mutex
	events []*model.SaleCompletedEvent
}

func (p *recordingPublisher) PublishSaleCompleted(ctx context.Context, event *model.SaleCompletedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) published() []*model.SaleCompletedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]*model.SaleCompletedEvent(nil), p.events...)
}

// writeCouponFile writes a one-coupon file in the loader's format.
func writeCouponFile(t *testing.T) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "coupons.gz")
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	require.NoError(t, coupon.WriteFile(f, []model.Coupon{
		{Code: "TENOFF", Name: "Ten percent off", DiscountType: model.CouponPercentage, DiscountValue: decimal.NewFromInt(10), IsActive: true},
	}))
	return path
}

func setupTestServer(t *testing.T, testDB *TestDB) (http.Handler, *recordingPublisher) {
	t.Helper()

	logger := zerolog.Nop()
	ctx := context.Background()
	store := cache.NewMemoryStore(time.Minute)

	productService := service.NewProductService(repository.NewProductRepository(testDB.Pool, logger), store, logger)
	customerService := service.NewCustomerService(repository.NewCustomerRepository(testDB.Pool, logger), store, logger)
	warehouseService := service.NewWarehouseService(repository.NewWarehouseRepository(testDB.Pool, logger), store, logger)
	orderService := service.NewOrderService(repository.NewOrderRepository(testDB.Pool, logger), logger)

	registry, err := coupon.NewRegistry(ctx, &coupon.RegistryConfig{FilePaths: []string{writeCouponFile(t)}}, coupon.NewFileLoader(logger), logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		registry.Close()
	})

	publisher := &recordingPublisher{}
	manager := pos.NewManager(pos.Dependencies{
		Catalog:   productService,
		Customers: customerService,
		Coupons:   registry,
		Checkout: checkout.Config{
			Locations:     warehouseService,
			Store:         orderService,
			Coupons:       registry,
			Publisher:     publisher,
			SubmitTimeout: 10 * time.Second,
		},
	}, logger)

	return router.New(router.Handlers{
		Products:   handler.NewProductHandler(productService, logger),
		Customers:  handler.NewCustomerHandler(customerService, logger),
		Warehouses: handler.NewWarehouseHandler(warehouseService, logger),
		Orders:     handler.NewOrderHandler(orderService, logger),
		Sessions:   handler.NewSessionHandler(manager, logger),
	}, router.Options{APIKey: testAPIKey}, logger), publisher
}

func call(t *testing.T, server http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("X-API-Key", testAPIKey)
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(w.Body).Decode(&v), "body: %s", w.Body.String())
	return v
}

func TestCatalogueAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	SeedStore(t, testDB.Pool)
	server, _ := setupTestServer(t, testDB)

	t.Run("GET /api/products lists active products by name", func(t *testing.T) {
		w := call(t, server, http.MethodGet, "/api/products", "")
		require.Equal(t, http.StatusOK, w.Code)

		products := decode[[]model.Product](t, w)
		require.Len(t, products, 3)
		assert.Equal(t, "Gala Apple", products[0].Name)
		assert.Equal(t, "Whole Milk 1L", products[2].Name)
	})

	t.Run("GET /api/products with pagination", func(t *testing.T) {
		w := call(t, server, http.MethodGet, "/api/products?limit=2&offset=2", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]model.Product](t, w), 1)
	})

	t.Run("GET /api/products?q= searches active products", func(t *testing.T) {
		w := call(t, server, http.MethodGet, "/api/products?q=apple", "")
		require.Equal(t, http.StatusOK, w.Code)

		products := decode[[]model.Product](t, w)
		require.Len(t, products, 1)
		assert.Equal(t, "P001", products[0].ID)
	})

	t.Run("GET /api/products/barcode/{barcode}", func(t *testing.T) {
		w := call(t, server, http.MethodGet, "/api/products/barcode/4011", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "P001", decode[model.Product](t, w).ID)

		w = call(t, server, http.MethodGet, "/api/products/barcode/0000", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GET /api/products/{id} hides inactive products", func(t *testing.T) {
		w := call(t, server, http.MethodGet, "/api/products/P002", "")
		require.Equal(t, http.StatusOK, w.Code)
		p := decode[model.Product](t, w)
		require.NotNil(t, p.TaxRate)
		assert.Equal(t, "10", p.TaxRate.String())

		w = call(t, server, http.MethodGet, "/api/products/P009", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("customers can be searched and created", func(t *testing.T) {
		w := call(t, server, http.MethodGet, "/api/customers?q=ng", "")
		require.Equal(t, http.StatusOK, w.Code)
		found := decode[[]model.Customer](t, w)
		require.Len(t, found, 1)
		assert.Equal(t, "C001", found[0].ID)

		w = call(t, server, http.MethodPost, "/api/customers", `{"firstName":" Ravi ","lastName":"Patel","phone":"555-0199"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		created := decode[model.Customer](t, w)
		assert.NotEmpty(t, created.ID)
		assert.Equal(t, "Ravi", created.FirstName)

		w = call(t, server, http.MethodGet, "/api/customers?q=patel", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]model.Customer](t, w), 1)
	})

	t.Run("GET /api/warehouses lists active warehouses", func(t *testing.T) {
		w := call(t, server, http.MethodGet, "/api/warehouses", "")
		require.Equal(t, http.StatusOK, w.Code)

		warehouses := decode[[]model.Warehouse](t, w)
		require.Len(t, warehouses, 2)
		assert.Equal(t, "W1", warehouses[0].ID)
	})

	t.Run("requests without API key return 401", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("GET /health returns 200 without API key", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		server.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

type sessionBody struct {
	ID      string `json:"id"`
	State   string `json:"state"`
	Summary struct {
		Subtotal       string `json:"subtotal"`
		TaxAmount      string `json:"taxAmount"`
		CouponDiscount string `json:"couponDiscount"`
		GrandTotal     string `json:"grandTotal"`
	} `json:"summary"`
}

func TestSaleAPI_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	SeedStore(t, testDB.Pool)
	server, publisher := setupTestServer(t, testDB)

	w := call(t, server, http.MethodPost, "/api/pos/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	base := "/api/pos/sessions/" + decode[sessionBody](t, w).ID

	var first checkout.Receipt

	t.Run("a scanned sale is stored with its stock movement", func(t *testing.T) {
		for _, step := range []struct{ method, path, body string }{
			{http.MethodPost, base + "/scan", `{"barcode":"4011"}`},
			{http.MethodPost, base + "/scan", `{"barcode":"4011"}`},
			{http.MethodPost, base + "/search", `{"term":"jasmine"}`},
			{http.MethodPut, base + "/customer", `{"customerId":"C001"}`},
		} {
			w := call(t, server, step.method, step.path, step.body)
			require.Equal(t, http.StatusOK, w.Code, "%s %s: %s", step.method, step.path, w.Body.String())
		}

		w := call(t, server, http.MethodPut, base+"/coupon", `{"code":"tenoff"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		v := decode[sessionBody](t, w)
		assert.Equal(t, "15.98", v.Summary.Subtotal)
		assert.Equal(t, "1.00", v.Summary.TaxAmount)
		assert.Equal(t, "1.60", v.Summary.CouponDiscount)
		assert.Equal(t, "15.38", v.Summary.GrandTotal)

		w = call(t, server, http.MethodPost, base+"/checkout", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		w = call(t, server, http.MethodPost, base+"/confirm", "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		first = decode[checkout.Receipt](t, w)
		assert.Equal(t, "W1", first.WarehouseID)
		assert.True(t, strings.HasPrefix(first.OrderNumber, "POS-"))

		w = call(t, server, http.MethodGet, "/api/orders/"+first.OrderID.String(), "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		inv := decode[model.Invoice](t, w)

		assert.Equal(t, first.OrderNumber, inv.Order.OrderNumber)
		assert.Equal(t, "15.38", inv.Order.TotalAmount.StringFixed(2))
		assert.Equal(t, "1.60", inv.Order.CouponDiscount.StringFixed(2))
		assert.Equal(t, "0.00", inv.Order.ShippingAmount.StringFixed(2))
		assert.Equal(t, model.POSSaleNote, inv.Order.Notes)
		assert.Equal(t, model.PaymentStatusPaid, inv.Order.PaymentStatus)
		require.NotNil(t, inv.Order.CouponCode)
		assert.Equal(t, "TENOFF", *inv.Order.CouponCode)
		require.NotNil(t, inv.Customer)
		assert.Equal(t, "Ana", inv.Customer.FirstName)
		require.Len(t, inv.Items, 2)
		assert.Equal(t, "Gala Apple", inv.Items[0].ProductName)
		assert.Equal(t, 2, inv.Items[0].Quantity)

		assert.Equal(t, 98, StockOf(t, testDB.Pool, "P001", "W1"))
		assert.Equal(t, 99, StockOf(t, testDB.Pool, "P002", "W1"))

		events := publisher.published()
		require.Len(t, events, 1)
		assert.Equal(t, first.OrderID, events[0].OrderID)
	})

	t.Run("the till starts a new sale after completion", func(t *testing.T) {
		w := call(t, server, http.MethodPost, base+"/scan", `{"barcode":"8801001"}`)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, "idle", decode[sessionBody](t, w).State)

		w = call(t, server, http.MethodPost, base+"/checkout", "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		w = call(t, server, http.MethodPost, base+"/confirm", "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		second := decode[checkout.Receipt](t, w)
		assert.NotEqual(t, first.OrderNumber, second.OrderNumber)
		assert.Nil(t, second.CustomerID)
		assert.Equal(t, "1.20", second.Summary.GrandTotal)

		// Milk has no inventory row; the sale still goes through.
		assert.Equal(t, -1, StockOf(t, testDB.Pool, "P003", "W1"))
	})

	t.Run("checkout with an empty cart is rejected", func(t *testing.T) {
		w := call(t, server, http.MethodPost, base+"/checkout", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("unknown order returns 404", func(t *testing.T) {
		w := call(t, server, http.MethodGet, "/api/orders/9b2f1c3e-0000-4000-8000-000000000000", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("closing the session", func(t *testing.T) {
		w := call(t, server, http.MethodDelete, base, "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = call(t, server, http.MethodGet, base, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSaleAPI_NoActiveWarehouse_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	SeedStore(t, testDB.Pool)
	_, err := testDB.Pool.Exec(context.Background(), `UPDATE warehouses SET is_active = FALSE`)
	require.NoError(t, err)
	server, _ := setupTestServer(t, testDB)

	w := call(t, server, http.MethodPost, "/api/pos/sessions", "")
	require.Equal(t, http.StatusCreated, w.Code)
	base := "/api/pos/sessions/" + decode[sessionBody](t, w).ID

	w = call(t, server, http.MethodPost, base+"/lines", `{"productId":"P001"}`)
	require.Equal(t, http.StatusOK, w.Code)

	w = call(t, server, http.MethodPost, base+"/checkout", "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = call(t, server, http.MethodGet, base, "")
	assert.Equal(t, "idle", decode[sessionBody](t, w).State)
}

func TestCORS_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	server, _ := setupTestServer(t, testDB)

	req := httptest.NewRequest(http.MethodOptions, "/api/products", nil)
	w := httptest.NewRecorder()

	server.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "GET")
}
