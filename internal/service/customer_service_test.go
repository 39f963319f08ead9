package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"grocery-pos/internal/cache"
	"grocery-pos/internal/model"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCustomerService_Create(t *testing.T) {
	tests := []struct {
		name      string
		req       *model.CustomerRequest
		expectErr error
	}{
		{name: "Nil request", req: nil, expectErr: model.ErrCustomerNameRequired},
		{name: "Missing first name", req: &model.CustomerRequest{LastName: "Ng"}, expectErr: model.ErrCustomerNameRequired},
		{name: "Whitespace last name", req: &model.CustomerRequest{FirstName: "Ana", LastName: "   "}, expectErr: model.ErrCustomerNameRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockCustomerRepository)
			service := NewCustomerService(repo, cache.NewMemoryStore(time.Minute), zerolog.Nop())

			customer, err := service.Create(context.Background(), tt.req)

			assert.ErrorIs(t, err, tt.expectErr)
			assert.Nil(t, customer)
			repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestCustomerService_Create_NormalisesAndPersists(t *testing.T) {
	repo := new(MockCustomerRepository)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(c *model.Customer) bool {
		return c.FirstName == "Ana" && c.LastName == "Ng" && c.Phone == nil && c.Email != nil && *c.Email == "ana@example.com"
	})).Run(func(args mock.Arguments) {
		args.Get(1).(*model.Customer).ID = "C100"
	}).Return(nil)

	service := NewCustomerService(repo, cache.NewMemoryStore(time.Minute), zerolog.Nop())

	customer, err := service.Create(context.Background(), &model.CustomerRequest{
		FirstName: "  Ana ",
		LastName:  "Ng",
		Phone:     strPtr("  "),
		Email:     strPtr(" ana@example.com "),
	})

	require.NoError(t, err)
	assert.Equal(t, "C100", customer.ID)
	assert.Equal(t, "Ana Ng", customer.FullName())
	repo.AssertExpectations(t)
}

func TestCustomerService_Create_InvalidatesSearchCache(t *testing.T) {
	ctx := context.Background()
	repo := new(MockCustomerRepository)
	repo.On("Search", mock.Anything, "ng", DefaultPageSize).Return([]model.Customer{}, nil).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Customer")).Return(nil)
	repo.On("Search", mock.Anything, "ng", DefaultPageSize).Return([]model.Customer{{ID: "C100", FirstName: "Ana", LastName: "Ng"}}, nil).Once()

	service := NewCustomerService(repo, cache.NewMemoryStore(time.Minute), zerolog.Nop())

	before, err := service.Search(ctx, "ng")
	require.NoError(t, err)
	assert.Empty(t, before)

	_, err = service.Create(ctx, &model.CustomerRequest{FirstName: "Ana", LastName: "Ng"})
	require.NoError(t, err)

	after, err := service.Search(ctx, "ng")
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, "C100", after[0].ID)

	repo.AssertNumberOfCalls(t, "Search", 2)
}

func TestCustomerService_Create_RepositoryError(t *testing.T) {
	repo := new(MockCustomerRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("insert failed"))

	service := NewCustomerService(repo, cache.NewMemoryStore(time.Minute), zerolog.Nop())

	customer, err := service.Create(context.Background(), &model.CustomerRequest{FirstName: "Ana", LastName: "Ng"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create customer")
	assert.Nil(t, customer)
}

func TestCustomerService_GetByID(t *testing.T) {
	ctx := context.Background()

	t.Run("Found", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("GetByID", mock.Anything, "C1").Return(&model.Customer{ID: "C1", FirstName: "Li", LastName: "Wu"}, nil)
		service := NewCustomerService(repo, cache.NewMemoryStore(time.Minute), zerolog.Nop())

		customer, err := service.GetByID(ctx, "C1")

		require.NoError(t, err)
		assert.Equal(t, "Li Wu", customer.FullName())
	})

	t.Run("Empty ID", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		service := NewCustomerService(repo, cache.NewMemoryStore(time.Minute), zerolog.Nop())

		_, err := service.GetByID(ctx, "")

		assert.ErrorIs(t, err, model.ErrCustomerNotFound)
	})

	t.Run("Not found", func(t *testing.T) {
		repo := new(MockCustomerRepository)
		repo.On("GetByID", mock.Anything, "C9").Return(nil, nil)
		service := NewCustomerService(repo, cache.NewMemoryStore(time.Minute), zerolog.Nop())

		_, err := service.GetByID(ctx, "C9")

		assert.ErrorIs(t, err, model.ErrCustomerNotFound)
	})
}
