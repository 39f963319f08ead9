package service

import (
	"context"
	"fmt"

	"grocery-pos/internal/database"
	"grocery-pos/internal/model"
	"grocery-pos/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrderWithItems inserts the order header, its items and the warehouse
// stock decrement in one transaction. Nothing is persisted on error.
func (s *orderService) CreateOrderWithItems(ctx context.Context, order *model.Order, items []model.OrderItem) (id uuid.UUID, err error) {
	if order == nil || len(items) == 0 {
		return uuid.Nil, model.ErrEmptyCart
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return uuid.Nil, fmt.Errorf("failed to create order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	if err = s.orderRepo.CreateOrder(ctx, tx, order); err != nil {
		if database.IsUniqueViolation(err, database.OrderNumberConstraint) {
			s.logger.Warn().Str("order_number", order.OrderNumber).Msg("order number already used")
			return uuid.Nil, model.ErrDuplicateOrderNumber
		}
		return uuid.Nil, fmt.Errorf("failed to create order: %w", err)
	}

	if err = s.orderRepo.CreateOrderItems(ctx, tx, items); err != nil {
		s.logger.Error().
			Err(err).
			Str("order_id", order.ID.String()).
			Int("item_count", len(items)).
			Msg("failed to create order items")
		return uuid.Nil, fmt.Errorf("failed to create order items: %w", err)
	}

	missing, err := s.orderRepo.DecrementInventory(ctx, tx, order.WarehouseID, items)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to update stock: %w", err)
	}
	if len(missing) > 0 {
		s.logger.Warn().
			Str("order_id", order.ID.String()).
			Str("warehouse_id", order.WarehouseID).
			Strs("product_ids", missing).
			Msg("sold products have no inventory row at warehouse")
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return uuid.Nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("order_number", order.OrderNumber).
		Int("item_count", len(items)).
		Str("total", order.TotalAmount.StringFixed(2)).
		Msg("order created successfully")

	return order.ID, nil
}

// GetInvoice retrieves an order with its customer and item details.
func (s *orderService) GetInvoice(ctx context.Context, id uuid.UUID) (*model.Invoice, error) {
	inv, err := s.orderRepo.GetInvoice(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get invoice")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if inv == nil {
		s.logger.Debug().Str("order_id", id.String()).Msg("order not found")
		return nil, model.ErrOrderNotFound
	}

	return inv, nil
}
