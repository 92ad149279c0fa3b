package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bally3399/chord001-monograms/internal/checkout"
	"github.com/bally3399/chord001-monograms/internal/domain"
	apperrors "github.com/bally3399/chord001-monograms/pkg/errors"
)

func newTestCartService(t *testing.T, repo *mockCartRepository) *CartService {
	t.Helper()
	handoff, err := checkout.NewHandoff("+2348012345678")
	require.NoError(t, err)
	return NewCartService(repo, handoff, newSilentProducer(), newTestLogger())
}

func sampleCart() []domain.CartItem {
	return []domain.CartItem{
		{ID: "c-1", DesignID: "d-1", Quantity: 2, Design: &domain.Design{ID: "d-1", Price: int64Ptr(1000)}},
		{ID: "c-2", DesignID: "d-2", Quantity: 1, Design: &domain.Design{ID: "d-2"}},
	}
}

func TestGetCart_Aggregates(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestCartService(t, repo)
	ctx := context.Background()

	repo.On("List", ctx, "user-1").Return(sampleCart(), nil)

	view, err := svc.GetCart(ctx, "user-1")

	require.NoError(t, err)
	assert.Len(t, view.Items, 2)
	assert.Equal(t, 3, view.ItemCount)
	assert.Equal(t, int64(2000), view.TotalCents)
}

func TestGetCart_EmptyIsNotNil(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestCartService(t, repo)
	ctx := context.Background()

	repo.On("List", ctx, "user-1").Return(nil, nil)

	view, err := svc.GetCart(ctx, "user-1")

	require.NoError(t, err)
	assert.NotNil(t, view.Items)
	assert.Zero(t, view.ItemCount)
	assert.Zero(t, view.TotalCents)
}

func TestGetCart_RequiresViewer(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestCartService(t, repo)

	_, err := svc.GetCart(context.Background(), "")

	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Empty(t, repo.Calls)
}

func TestAddToCart_DefaultQuantity(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestCartService(t, repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(it *domain.CartItem) bool {
		return it.Quantity == 1 && it.UserID == "user-1" && it.DesignID == "d-1"
	})).Return(nil)

	item, err := svc.AddToCart(ctx, "user-1", "d-1", 0)

	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
	repo.AssertExpectations(t)
}

func TestAddToCart_QuantityBounds(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestCartService(t, repo)
	ctx := context.Background()

	_, err := svc.AddToCart(ctx, "user-1", "d-1", -2)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	_, err = svc.AddToCart(ctx, "user-1", "d-1", MaxQuantityPerItem+1)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

	assert.Empty(t, repo.Calls)
}

func TestAddToCart_AlreadyExists(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestCartService(t, repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.Anything).Return(apperrors.AlreadyExists("cart item", "design_id", "d-1"))

	_, err := svc.AddToCart(ctx, "user-1", "d-1", 1)

	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestUpdateQuantity(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestCartService(t, repo)
	ctx := context.Background()

	repo.On("UpdateQuantity", ctx, "user-1", "c-1", 4).
		Return(&domain.CartItem{ID: "c-1", DesignID: "d-1", Quantity: 4}, nil)

	item, err := svc.UpdateQuantity(ctx, "user-1", "c-1", 4)
	require.NoError(t, err)
	assert.Equal(t, 4, item.Quantity)

	_, err = svc.UpdateQuantity(ctx, "user-1", "c-1", 0)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNumberOfCalls(t, "UpdateQuantity", 1)
}

func TestRemoveByDesignAndItem(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestCartService(t, repo)
	ctx := context.Background()

	repo.On("DeleteByDesign", ctx, "user-1", "d-1").Return(nil)
	repo.On("Delete", ctx, "user-1", "c-9").Return(apperrors.NotFound("cart item", "c-9"))

	require.NoError(t, svc.RemoveByDesign(ctx, "user-1", "d-1"))
	assert.ErrorIs(t, svc.RemoveItem(ctx, "user-1", "c-9"), apperrors.ErrNotFound)
}

func TestCheckout(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestCartService(t, repo)
	ctx := context.Background()

	repo.On("List", ctx, "user-1").Return(sampleCart(), nil)

	link, err := svc.Checkout(ctx, "user-1")

	require.NoError(t, err)
	assert.Equal(t, "Hi, I want to make the designs: d-1, d-2", link.Message)
	assert.Equal(t, "https://wa.me/2348012345678?text=Hi%2C%20I%20want%20to%20make%20the%20designs%3A%20d-1%2C%20d-2", link.URL)
}

func TestCheckout_EmptyCart(t *testing.T) {
	repo := new(mockCartRepository)
	svc := newTestCartService(t, repo)
	ctx := context.Background()

	repo.On("List", ctx, "user-1").Return([]domain.CartItem{}, nil)

	_, err := svc.Checkout(ctx, "user-1")

	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}
