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

func TestWarehouseService_ListActive(t *testing.T) {
	ctx := context.Background()
	repo := new(MockWarehouseRepository)
	repo.On("ListActive", mock.Anything).Return([]model.Warehouse{
		{ID: "W1", Name: "Main Store", Code: "MAIN", IsActive: true},
		{ID: "W2", Name: "Back Room", Code: "BACK", IsActive: true},
	}, nil).Once()

	service := NewWarehouseService(repo, cache.NewMemoryStore(time.Minute), zerolog.Nop())

	first, err := service.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, first, 2)
	assert.Equal(t, "W1", first[0].ID)

	second, err := service.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "BACK", second[1].Code)

	repo.AssertNumberOfCalls(t, "ListActive", 1)
}

func TestWarehouseService_ListActive_Error(t *testing.T) {
	repo := new(MockWarehouseRepository)
	repo.On("ListActive", mock.Anything).Return(nil, errors.New("db down"))

	service := NewWarehouseService(repo, cache.NewMemoryStore(time.Minute), zerolog.Nop())

	warehouses, err := service.ListActive(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to list warehouses")
	assert.Nil(t, warehouses)
}
