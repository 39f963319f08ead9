package pos

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"grocery-pos/internal/cart"
	"grocery-pos/internal/checkout"
	"grocery-pos/internal/model"
	"grocery-pos/internal/pricing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// View is the state of a till as shown to the cashier.
type View struct {
	ID          uuid.UUID         `json:"id"`
	State       checkout.State    `json:"state"`
	Cart        cart.Snapshot     `json:"cart"`
	Totals      pricing.Totals    `json:"totals"`
	Summary     pricing.Summary   `json:"summary"`
	Review      *checkout.Review  `json:"review,omitempty"`
	LastReceipt *checkout.Receipt `json:"lastReceipt,omitempty"`
}

// ScanResult is the outcome of one decoded barcode.
type ScanResult struct {
	Barcode  string `json:"barcode"`
	NotFound bool   `json:"notFound"`
	Err      error  `json:"-"`
}

// Session is one till: a cart plus its checkout state machine.
//
// Session methods are safe for concurrent use. Catalog lookups happen
// before the cart is locked; the order store call runs unlocked so the till
// can be inspected while a sale is submitting.
type Session struct {
	ID        uuid.UUID
	CreatedAt time.Time

	mu         sync.Mutex
	cart       *cart.Cart
	finalizer  *checkout.Finalizer
	lastActive time.Time

	catalog   Catalog
	customers CustomerDirectory
	coupons   CouponRegistry
	now       func() time.Time
	logger    zerolog.Logger
}

func newSession(deps Dependencies, logger zerolog.Logger) *Session {
	id := uuid.New()
	now := deps.Now()
	logger = logger.With().Str("session_id", id.String()).Logger()

	return &Session{
		ID:         id,
		CreatedAt:  now,
		cart:       cart.New(),
		finalizer:  checkout.NewFinalizer(deps.Checkout, logger),
		lastActive: now,
		catalog:    deps.Catalog,
		customers:  deps.Customers,
		coupons:    deps.Coupons,
		now:        deps.Now,
		logger:     logger,
	}
}

// View returns a consistent snapshot of the till.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

// AddProduct adds one unit of a catalogue product, as when it is picked
// from the product grid.
func (s *Session) AddProduct(ctx context.Context, productID string) (View, error) {
	p, err := s.catalog.GetByID(ctx, productID)
	if err != nil {
		return s.View(), err
	}
	if p == nil {
		return s.View(), model.ErrProductNotFound
	}
	return s.mutate(func(c *cart.Cart) { c.AddLine(*p) })
}

// Scan adds the product with the exact barcode. An unknown barcode returns
// model.ErrProductNotFound and leaves the cart unchanged.
func (s *Session) Scan(ctx context.Context, barcode string) (View, error) {
	barcode = strings.TrimSpace(barcode)
	if barcode == "" {
		return s.View(), model.ErrProductNotFound
	}

	p, err := s.catalog.FindByBarcode(ctx, barcode)
	if err != nil {
		return s.View(), err
	}
	if p == nil {
		s.logger.Info().Str("barcode", barcode).Msg("scanned barcode not in catalogue")
		return s.View(), model.ErrProductNotFound
	}
	return s.mutate(func(c *cart.Cart) { c.AddLine(*p) })
}

// Search returns the catalogue products matching term.
func (s *Session) Search(ctx context.Context, term string) ([]model.Product, error) {
	products, err := s.catalog.Search(ctx, term)
	if err != nil {
		return nil, err
	}
	return MatchProducts(products, term), nil
}

// SearchAdd adds the first product matching term, as when the cashier
// presses enter in the search box.
func (s *Session) SearchAdd(ctx context.Context, term string) (View, error) {
	matches, err := s.Search(ctx, term)
	if err != nil {
		return s.View(), err
	}
	if len(matches) == 0 {
		return s.View(), model.ErrProductNotFound
	}
	first := matches[0]
	return s.mutate(func(c *cart.Cart) { c.AddLine(first) })
}

// ProcessScans feeds decoded barcodes from a scanner into the cart, one
// lookup per code, until codes is closed or ctx is done. Not-found codes are
// reported and do not stop the stream.
func (s *Session) ProcessScans(ctx context.Context, codes <-chan string) <-chan ScanResult {
	results := make(chan ScanResult)

	go func() {
		defer close(results)
		for {
			select {
			case <-ctx.Done():
				return
			case code, ok := <-codes:
				if !ok {
					return
				}
				_, err := s.Scan(ctx, code)
				res := ScanResult{Barcode: code, Err: err}
				if errors.Is(err, model.ErrProductNotFound) {
					res.NotFound = true
					res.Err = nil
				}
				select {
				case results <- res:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return results
}

// SetQuantity changes a line quantity. Zero or less removes the line.
func (s *Session) SetQuantity(productID string, quantity int) (View, error) {
	return s.mutate(func(c *cart.Cart) { c.SetQuantity(productID, quantity) })
}

// RemoveLine removes a line.
func (s *Session) RemoveLine(productID string) (View, error) {
	return s.mutate(func(c *cart.Cart) { c.RemoveLine(productID) })
}

// SelectCustomer selects a registered customer. An empty ID means walk-in.
func (s *Session) SelectCustomer(ctx context.Context, customerID string) (View, error) {
	if customerID == "" {
		return s.mutate(func(c *cart.Cart) { c.SelectCustomer(nil) })
	}

	customer, err := s.customers.GetByID(ctx, customerID)
	if err != nil {
		return s.View(), err
	}
	if customer == nil {
		return s.View(), model.ErrCustomerNotFound
	}
	return s.mutate(func(c *cart.Cart) { c.SelectCustomer(customer) })
}

// SetDiscountPercent stores the discount percent as entered.
func (s *Session) SetDiscountPercent(percent decimal.Decimal) (View, error) {
	return s.mutate(func(c *cart.Cart) { c.SetDiscountPercent(percent) })
}

// ApplyCoupon resolves a coupon code and attaches it to the cart.
func (s *Session) ApplyCoupon(ctx context.Context, code string) (View, error) {
	if s.coupons == nil {
		return s.View(), model.ErrInvalidCoupon
	}

	coupon, err := s.coupons.Lookup(ctx, code, s.now())
	if err != nil {
		return s.View(), err
	}
	return s.mutate(func(c *cart.Cart) { c.ApplyCoupon(coupon) })
}

// RemoveCoupon detaches the coupon.
func (s *Session) RemoveCoupon() (View, error) {
	return s.mutate(func(c *cart.Cart) { c.RemoveCoupon() })
}

// Checkout validates the cart and returns the review to confirm.
func (s *Session) Checkout(ctx context.Context) (*checkout.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = s.now()
	return s.finalizer.Checkout(ctx, s.cart.Snapshot())
}

// Cancel dismisses the review.
func (s *Session) Cancel() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastActive = s.now()
	return s.finalizer.Cancel()
}

// Confirm submits the reviewed sale. A second Confirm while the first is in
// flight fails with model.ErrCheckoutInProgress.
func (s *Session) Confirm(ctx context.Context) (*checkout.Receipt, error) {
	s.mu.Lock()
	s.lastActive = s.now()
	sub, err := s.finalizer.Begin(s.cart.Snapshot())
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}

	orderID, submitErr := s.finalizer.Submit(ctx, sub)

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalizer.Finish(s.cart, sub, orderID, submitErr)
}

// State returns the checkout state.
func (s *Session) State() checkout.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.finalizer.State()
}

func (s *Session) idleSince() (time.Time, checkout.State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive, s.finalizer.State()
}

func (s *Session) mutate(fn func(c *cart.Cart)) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.finalizer.BeforeCartChange(); err != nil {
		return s.viewLocked(), err
	}
	fn(s.cart)
	s.lastActive = s.now()
	return s.viewLocked(), nil
}

func (s *Session) viewLocked() View {
	snap := s.cart.Snapshot()
	totals := pricing.Calculate(snap)
	return View{
		ID:          s.ID,
		State:       s.finalizer.State(),
		Cart:        snap,
		Totals:      totals,
		Summary:     totals.Summary(),
		Review:      s.finalizer.Review(),
		LastReceipt: s.finalizer.LastReceipt(),
	}
}
