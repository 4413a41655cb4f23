package ordering

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodcourt-platform/core-svc/internal/catalog"
	"github.com/foodcourt-platform/core-svc/internal/domain"
	"github.com/foodcourt-platform/core-svc/internal/mocks"
	"github.com/foodcourt-platform/platform/apierr"
)

func strPtr(s string) *string { return &s }

func TestPriceItems_HappyPath(t *testing.T) {
	cat := new(mocks.CatalogClient)
	cat.On("GetProduct", "rest-1", "prod-1").Return(&catalog.ProductSnapshot{
		ProductID:      "prod-1",
		Available:      true,
		BasePriceMinor: 500,
		Variants:       map[string]int64{"large": 150},
	}, nil)

	e := &Engine{Catalog: cat}
	items, total, err := e.priceItems(context.Background(), "rest-1", []ItemInput{
		{ProductID: "prod-1", Quantity: 2, VariantLabel: strPtr("large")},
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(1300), total) // (500+150) * 2
	assert.Len(t, items, 1)
	assert.Equal(t, int64(650), items[0].UnitPriceMinor)
	assert.Equal(t, int64(1300), items[0].LineTotalMinor)
}

func TestPriceItems_RejectsZeroQuantity(t *testing.T) {
	e := &Engine{Catalog: new(mocks.CatalogClient)}
	_, _, err := e.priceItems(context.Background(), "rest-1", []ItemInput{
		{ProductID: "prod-1", Quantity: 0},
	})

	apiErr, ok := apierr.As(err)
	assert.True(t, ok)
	assert.Equal(t, apierr.ValidationFailed, apiErr.Code)
}

func TestPriceItems_ProductUnavailable(t *testing.T) {
	cat := new(mocks.CatalogClient)
	cat.On("GetProduct", "rest-1", "prod-1").Return(&catalog.ProductSnapshot{Available: false}, nil)

	e := &Engine{Catalog: cat}
	_, _, err := e.priceItems(context.Background(), "rest-1", []ItemInput{
		{ProductID: "prod-1", Quantity: 1},
	})

	apiErr, ok := apierr.As(err)
	assert.True(t, ok)
	assert.Equal(t, apierr.ValidationFailed, apiErr.Code)
	assert.Equal(t, "prod-1", apiErr.Details["productId"])
}

func TestPriceItems_ProductNotFound(t *testing.T) {
	cat := new(mocks.CatalogClient)
	cat.On("GetProduct", "rest-1", "prod-missing").Return(nil, nil)

	e := &Engine{Catalog: cat}
	_, _, err := e.priceItems(context.Background(), "rest-1", []ItemInput{
		{ProductID: "prod-missing", Quantity: 1},
	})

	apiErr, ok := apierr.As(err)
	assert.True(t, ok)
	assert.Equal(t, apierr.ValidationFailed, apiErr.Code)
}

func TestPriceItems_UnknownVariant(t *testing.T) {
	cat := new(mocks.CatalogClient)
	cat.On("GetProduct", "rest-1", "prod-1").Return(&catalog.ProductSnapshot{
		Available:      true,
		BasePriceMinor: 500,
		Variants:       map[string]int64{"large": 150},
	}, nil)

	e := &Engine{Catalog: cat}
	_, _, err := e.priceItems(context.Background(), "rest-1", []ItemInput{
		{ProductID: "prod-1", Quantity: 1, VariantLabel: strPtr("jumbo")},
	})

	apiErr, ok := apierr.As(err)
	assert.True(t, ok)
	assert.Equal(t, apierr.ValidationFailed, apiErr.Code)
	assert.Equal(t, "jumbo", apiErr.Details["variantLabel"])
}

func TestLocalCalendarDate_FallsBackToUTCOnBadTimezone(t *testing.T) {
	now, err := time.Parse(time.RFC3339, "2026-03-05T23:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "20260305", localCalendarDate(now, "Not/ARealZone"))
}

func TestLocalCalendarDate_AppliesOffset(t *testing.T) {
	now, err := time.Parse(time.RFC3339, "2026-03-05T23:30:00Z")
	require.NoError(t, err)
	assert.Equal(t, "20260306", localCalendarDate(now, "Europe/Moscow")) // UTC+3
}

func TestTransitionStatus_RejectsNegativeEstimate(t *testing.T) {
	e := &Engine{}
	neg := -1
	err := e.TransitionStatus(context.Background(), "order-1", domain.OrderPreparing, &neg)

	apiErr, ok := apierr.As(err)
	assert.True(t, ok)
	assert.Equal(t, apierr.ValidationFailed, apiErr.Code)
}

func TestCancel_RequiresReason(t *testing.T) {
	e := &Engine{}
	err := e.Cancel(context.Background(), "order-1", "", false, nil)

	apiErr, ok := apierr.As(err)
	assert.True(t, ok)
	assert.Equal(t, apierr.ValidationFailed, apiErr.Code)
}

func TestAllowedTransitions_TerminalStatesHaveNoOutgoingEdges(t *testing.T) {
	assert.Empty(t, allowedTransitions[domain.OrderCompleted])
	assert.Empty(t, allowedTransitions[domain.OrderCancelled])
}

func TestAllowedTransitions_PendingCanCancelOrPrepare(t *testing.T) {
	assert.True(t, allowedTransitions[domain.OrderPending][domain.OrderPreparing])
	assert.True(t, allowedTransitions[domain.OrderPending][domain.OrderCancelled])
	assert.False(t, allowedTransitions[domain.OrderPending][domain.OrderCompleted])
}
