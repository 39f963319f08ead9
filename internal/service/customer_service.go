package service

import (
	"context"
	"fmt"
	"strings"

	"grocery-pos/internal/cache"
	"grocery-pos/internal/model"
	"grocery-pos/internal/repository"

	"github.com/rs/zerolog"
)

type customerService struct {
	customerRepo repository.CustomerRepository
	cache        cache.Store
	logger       zerolog.Logger
}

// NewCustomerService creates a new customer service.
func NewCustomerService(customerRepo repository.CustomerRepository, store cache.Store, logger zerolog.Logger) CustomerService {
	return &customerService{
		customerRepo: customerRepo,
		cache:        store,
		logger:       logger.With().Str("service", "customer").Logger(),
	}
}

func (s *customerService) Search(ctx context.Context, term string) ([]model.Customer, error) {
	term = strings.TrimSpace(term)

	customers, err := cache.Fetch(ctx, s.cache, s.logger, cache.EntityCustomers, []string{"q", strings.ToLower(term)},
		func(ctx context.Context) ([]model.Customer, error) {
			return s.customerRepo.Search(ctx, term, DefaultPageSize)
		})
	if err != nil {
		s.logger.Error().Err(err).Str("term", term).Msg("failed to search customers")
		return nil, fmt.Errorf("failed to search customers: %w", err)
	}

	return customers, nil
}

func (s *customerService) GetByID(ctx context.Context, id string) (*model.Customer, error) {
	if id == "" {
		return nil, model.ErrCustomerNotFound
	}

	customer, err := cache.Fetch(ctx, s.cache, s.logger, cache.EntityCustomers, []string{"id", id},
		func(ctx context.Context) (*model.Customer, error) {
			return s.customerRepo.GetByID(ctx, id)
		})
	if err != nil {
		s.logger.Error().Err(err).Str("customer_id", id).Msg("failed to get customer")
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}

	if customer == nil {
		return nil, model.ErrCustomerNotFound
	}

	return customer, nil
}

// Create validates the names before touching the database; on success the
// customer cache is invalidated so searches see the new entry.
func (s *customerService) Create(ctx context.Context, req *model.CustomerRequest) (*model.Customer, error) {
	if req == nil {
		return nil, model.ErrCustomerNameRequired
	}

	req.Normalise()
	if req.FirstName == "" || req.LastName == "" {
		return nil, model.ErrCustomerNameRequired
	}

	customer := &model.Customer{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
		Email:     req.Email,
	}

	if err := s.customerRepo.Create(ctx, customer); err != nil {
		s.logger.Error().Err(err).Msg("failed to create customer")
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	if err := s.cache.Invalidate(ctx, cache.EntityCustomers); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate customer cache")
	}

	s.logger.Info().Str("customer_id", customer.ID).Msg("customer created")

	return customer, nil
}
