package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/foodcourt-platform/core-svc/internal/catalog"
)

// CatalogClient is a hand-rolled testify mock for catalog.Client. The teacher's services
// generate these with mockery; this one is written by hand since mockery isn't run here.
type CatalogClient struct {
	mock.Mock
}

func (m *CatalogClient) GetProduct(ctx context.Context, restaurantID, productID string) (*catalog.ProductSnapshot, error) {
	args := m.Called(restaurantID, productID)
	snapshot, _ := args.Get(0).(*catalog.ProductSnapshot)
	return snapshot, args.Error(1)
}

func (m *CatalogClient) TableBelongsToFoodcourt(ctx context.Context, tableID, foodcourtID string) (bool, error) {
	args := m.Called(tableID, foodcourtID)
	return args.Bool(0), args.Error(1)
}
