// Package checkout turns a cart into a persisted order.
//
// A Finalizer walks a till through
//
//	Idle -> Validating -> AwaitingConfirmation -> Submitting -> Completed
//
// and guarantees the cart is cleared only after the order store has
// confirmed the sale.
package checkout

import (
	"context"
	"fmt"
	"time"

	"grocery-pos/internal/cart"
	"grocery-pos/internal/model"
	"grocery-pos/internal/pricing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// DefaultSubmitTimeout bounds the order store call when none is configured.
const DefaultSubmitTimeout = 15 * time.Second

// LocationProvider lists the warehouses a sale can be fulfilled from.
type LocationProvider interface {
	ListActive(ctx context.Context) ([]model.Warehouse, error)
}

// OrderStore persists an order and its items as one unit.
type OrderStore interface {
	CreateOrderWithItems(ctx context.Context, order *model.Order, items []model.OrderItem) (uuid.UUID, error)
}

// CouponChecker re-validates an attached coupon before review.
type CouponChecker interface {
	Lookup(ctx context.Context, code string, at time.Time) (*model.Coupon, error)
}

// Publisher announces completed sales. Failures never fail the sale.
type Publisher interface {
	PublishSaleCompleted(ctx context.Context, event *model.SaleCompletedEvent) error
}

// Config holds the collaborators shared by every till.
type Config struct {
	Locations LocationProvider
	Store     OrderStore

	// Optional.
	Coupons      CouponChecker
	Publisher    Publisher
	Selector     LocationSelector
	OrderNumbers OrderNumberGenerator

	SubmitTimeout time.Duration
	Now           func() time.Time
}

func (c Config) withDefaults() Config {
	if c.Selector == nil {
		c.Selector = FirstAvailable{}
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	if c.OrderNumbers == nil {
		c.OrderNumbers = NewOrderNumberGenerator(c.Now)
	}
	if c.SubmitTimeout <= 0 {
		c.SubmitTimeout = DefaultSubmitTimeout
	}
	return c
}

// Review is what the cashier confirms.
type Review struct {
	Snapshot  cart.Snapshot   `json:"cart"`
	Totals    pricing.Totals  `json:"totals"`
	Summary   pricing.Summary `json:"summary"`
	ItemCount int             `json:"itemCount"`
}

// Submission is the fully built order awaiting the store call.
type Submission struct {
	Order     *model.Order
	Items     []model.OrderItem
	Totals    pricing.Totals
	Warehouse model.Warehouse
}

// Receipt describes a completed sale.
type Receipt struct {
	OrderID     uuid.UUID         `json:"orderId"`
	OrderNumber string            `json:"orderNumber"`
	WarehouseID string            `json:"warehouseId"`
	CustomerID  *string           `json:"customerId,omitempty"`
	Items       []model.OrderItem `json:"items"`
	Totals      pricing.Totals    `json:"totals"`
	Summary     pricing.Summary   `json:"summary"`
	CompletedAt time.Time         `json:"completedAt"`
}

// Finalizer is the checkout state machine of a single till.
//
// It is not safe for concurrent use. Callers serialise every method except
// Submit, which only reads the Submission and may run without the lock so
// the till stays observable while the store call is in flight.
type Finalizer struct {
	cfg    Config
	logger zerolog.Logger

	state      State
	locations  []model.Warehouse
	review     *Review
	lastResult *Receipt
}

// NewFinalizer creates a finalizer in the Idle state.
func NewFinalizer(cfg Config, logger zerolog.Logger) *Finalizer {
	return &Finalizer{
		cfg:    cfg.withDefaults(),
		logger: logger.With().Str("component", "finalizer").Logger(),
		state:  StateIdle,
	}
}

// State returns the current state.
func (f *Finalizer) State() State {
	return f.state
}

// Review returns the pending review while awaiting confirmation.
func (f *Finalizer) Review() *Review {
	if f.state != StateAwaitingConfirmation {
		return nil
	}
	return f.review
}

// LastReceipt returns the receipt of the most recent completed sale.
func (f *Finalizer) LastReceipt() *Receipt {
	return f.lastResult
}

// BeforeCartChange must be called before every cart mutation. It rejects
// changes while a sale is being submitted and otherwise returns the till to
// Idle, since a pending review no longer matches the cart.
func (f *Finalizer) BeforeCartChange() error {
	switch f.state {
	case StateSubmitting:
		return model.ErrCheckoutInProgress
	case StateAwaitingConfirmation, StateCompleted:
		f.reset()
	}
	return nil
}

// Checkout validates the cart and, if it can be sold, prepares a review.
// Calling it again while awaiting confirmation refreshes the review.
func (f *Finalizer) Checkout(ctx context.Context, snap cart.Snapshot) (*Review, error) {
	if f.state == StateSubmitting {
		return nil, model.ErrCheckoutInProgress
	}

	f.reset()
	f.state = StateValidating

	if snap.IsEmpty() {
		f.state = StateIdle
		return nil, model.ErrEmptyCart
	}

	locations, err := f.cfg.Locations.ListActive(ctx)
	if err != nil {
		f.state = StateIdle
		f.logger.Error().Err(err).Msg("failed to list fulfilment locations")
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	if len(locations) == 0 {
		f.state = StateIdle
		return nil, model.ErrNoWarehouse
	}

	if snap.Coupon != nil && f.cfg.Coupons != nil {
		if _, err := f.cfg.Coupons.Lookup(ctx, snap.Coupon.Code, f.cfg.Now()); err != nil {
			f.state = StateIdle
			f.logger.Warn().Err(err).Str("coupon_code", snap.Coupon.Code).Msg("coupon rejected at checkout")
			return nil, err
		}
	}

	totals := pricing.Calculate(snap)
	f.locations = locations
	f.review = &Review{
		Snapshot:  snap,
		Totals:    totals,
		Summary:   totals.Summary(),
		ItemCount: snap.ItemCount(),
	}
	f.state = StateAwaitingConfirmation

	f.logger.Debug().
		Int("line_count", len(snap.Lines)).
		Str("total", totals.Summary().GrandTotal).
		Msg("awaiting confirmation")

	return f.review, nil
}

// Cancel abandons the pending review. The cart is left as it is.
func (f *Finalizer) Cancel() error {
	if f.state != StateAwaitingConfirmation {
		return model.ErrNotAwaitingConfirmation
	}
	f.reset()
	return nil
}

// Confirm submits the cart and clears it on success. It is Begin, Submit and
// Finish run back to back.
func (f *Finalizer) Confirm(ctx context.Context, c *cart.Cart) (*Receipt, error) {
	sub, err := f.Begin(c.Snapshot())
	if err != nil {
		return nil, err
	}
	orderID, err := f.Submit(ctx, sub)
	return f.Finish(c, sub, orderID, err)
}

// Begin builds the order from the cart as it is now and moves to
// Submitting. Only one submission can be in flight.
func (f *Finalizer) Begin(snap cart.Snapshot) (*Submission, error) {
	switch f.state {
	case StateAwaitingConfirmation:
	case StateSubmitting:
		return nil, model.ErrCheckoutInProgress
	default:
		return nil, model.ErrNotAwaitingConfirmation
	}

	if snap.IsEmpty() {
		f.reset()
		return nil, model.ErrEmptyCart
	}

	warehouse, err := f.cfg.Selector.Select(f.locations)
	if err != nil {
		f.reset()
		return nil, err
	}

	sub := f.buildSubmission(snap, warehouse)
	f.state = StateSubmitting

	f.logger.Info().
		Str("order_number", sub.Order.OrderNumber).
		Str("warehouse_id", warehouse.ID).
		Int("item_count", len(sub.Items)).
		Msg("submitting sale")

	return sub, nil
}

// Submit makes the single order store call, bounded by the submit timeout.
// It does not change the finalizer state.
func (f *Finalizer) Submit(ctx context.Context, sub *Submission) (uuid.UUID, error) {
	// Once started, the write runs to completion or timeout even if the
	// caller goes away.
	submitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.cfg.SubmitTimeout)
	defer cancel()

	orderID, err := f.cfg.Store.CreateOrderWithItems(submitCtx, sub.Order, sub.Items)
	if err != nil {
		return uuid.Nil, err
	}
	if orderID == uuid.Nil {
		orderID = sub.Order.ID
	}

	f.publish(ctx, sub, orderID)
	return orderID, nil
}

// Finish records the outcome of Submit. On success the cart is cleared and
// the till moves to Completed; on failure it returns to Idle with the cart
// untouched.
func (f *Finalizer) Finish(c *cart.Cart, sub *Submission, orderID uuid.UUID, submitErr error) (*Receipt, error) {
	if f.state != StateSubmitting {
		return nil, model.ErrNotAwaitingConfirmation
	}

	if submitErr != nil {
		f.reset()
		f.logger.Error().
			Err(submitErr).
			Str("order_number", sub.Order.OrderNumber).
			Msg("failed to submit sale")
		return nil, fmt.Errorf("%w: %w", model.ErrCheckoutFailed, submitErr)
	}

	items := make([]model.OrderItem, len(sub.Items))
	for i, item := range sub.Items {
		item.OrderID = orderID
		items[i] = item
	}

	receipt := &Receipt{
		OrderID:     orderID,
		OrderNumber: sub.Order.OrderNumber,
		WarehouseID: sub.Warehouse.ID,
		CustomerID:  sub.Order.CustomerID,
		Items:       items,
		Totals:      sub.Totals,
		Summary:     sub.Totals.Summary(),
		CompletedAt: sub.Order.CreatedAt,
	}

	c.Clear()
	f.locations = nil
	f.review = nil
	f.lastResult = receipt
	f.state = StateCompleted

	f.logger.Info().
		Str("order_id", orderID.String()).
		Str("order_number", receipt.OrderNumber).
		Str("total", receipt.Summary.GrandTotal).
		Msg("sale completed")

	return receipt, nil
}

func (f *Finalizer) reset() {
	f.state = StateIdle
	f.locations = nil
	f.review = nil
}

func (f *Finalizer) buildSubmission(snap cart.Snapshot, warehouse model.Warehouse) *Submission {
	totals := pricing.Calculate(snap)
	now := f.cfg.Now()

	order := &model.Order{
		ID:             uuid.New(),
		OrderNumber:    f.cfg.OrderNumbers.Next(),
		WarehouseID:    warehouse.ID,
		Subtotal:       totals.Subtotal,
		TaxAmount:      totals.TaxAmount,
		ShippingAmount: decimal.Zero,
		DiscountAmount: totals.DiscountAmount,
		CouponDiscount: totals.CouponDiscount,
		TotalAmount:    totals.GrandTotal,
		PaymentStatus:  model.PaymentStatusPaid,
		Status:         model.OrderStatusDelivered,
		Notes:          model.POSSaleNote,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if snap.Customer != nil {
		id := snap.Customer.ID
		order.CustomerID = &id
	}
	if snap.Coupon != nil {
		code := snap.Coupon.Code
		order.CouponCode = &code
	}

	items := make([]model.OrderItem, len(snap.Lines))
	for i, l := range snap.Lines {
		items[i] = model.OrderItem{
			ID:         uuid.New(),
			OrderID:    order.ID,
			ProductID:  l.ProductID,
			Quantity:   l.Quantity,
			UnitPrice:  l.UnitPrice,
			TotalPrice: l.Total(),
		}
	}

	return &Submission{
		Order:     order,
		Items:     items,
		Totals:    totals,
		Warehouse: warehouse,
	}
}

func (f *Finalizer) publish(ctx context.Context, sub *Submission, orderID uuid.UUID) {
	if f.cfg.Publisher == nil {
		return
	}

	event := &model.SaleCompletedEvent{
		OrderID:     orderID,
		OrderNumber: sub.Order.OrderNumber,
		WarehouseID: sub.Warehouse.ID,
		CustomerID:  sub.Order.CustomerID,
		Items:       make([]model.SaleItem, len(sub.Items)),
		TotalAmount: sub.Order.TotalAmount,
		CompletedAt: sub.Order.CreatedAt,
	}
	for i, item := range sub.Items {
		event.Items[i] = model.SaleItem{ProductID: item.ProductID, Quantity: item.Quantity}
	}

	// The sale is committed; the event must not be lost to a cancelled request.
	pubCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), f.cfg.SubmitTimeout)
	defer cancel()

	if err := f.cfg.Publisher.PublishSaleCompleted(pubCtx, event); err != nil {
		f.logger.Warn().
			Err(err).
			Str("order_id", orderID.String()).
			Msg("failed to publish sale completed event")
	}
}
