package service

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/bally3399/chord001-monograms/internal/domain"
	"github.com/bally3399/chord001-monograms/internal/event"
	"github.com/bally3399/chord001-monograms/internal/repository"
	pkgkafka "github.com/bally3399/chord001-monograms/pkg/kafka"
)

// --- Mock Repositories ---

type mockDesignRepository struct {
	mock.Mock
}

func (m *mockDesignRepository) Create(ctx context.Context, d *domain.Design) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockDesignRepository) GetByID(ctx context.Context, id string) (*domain.Design, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Design), args.Error(1)
}

func (m *mockDesignRepository) List(ctx context.Context, filter domain.DesignFilter) ([]domain.Design, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Design), args.Error(1)
}

func (m *mockDesignRepository) Update(ctx context.Context, d *domain.Design) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockDesignRepository) SetFeatured(ctx context.Context, id string, featured bool) (*domain.Design, error) {
	args := m.Called(ctx, id, featured)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Design), args.Error(1)
}

func (m *mockDesignRepository) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockFavoriteRepository struct {
	mock.Mock
}

func (m *mockFavoriteRepository) Create(ctx context.Context, f *domain.Favorite) error {
	return m.Called(ctx, f).Error(0)
}

func (m *mockFavoriteRepository) GetByDesign(ctx context.Context, userID, designID string) (*domain.Favorite, error) {
	args := m.Called(ctx, userID, designID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Favorite), args.Error(1)
}

func (m *mockFavoriteRepository) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Favorite), args.Error(1)
}

func (m *mockFavoriteRepository) DeleteByDesign(ctx context.Context, userID, designID string) error {
	return m.Called(ctx, userID, designID).Error(0)
}

func (m *mockFavoriteRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Create(ctx context.Context, item *domain.CartItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockCartRepository) GetByDesign(ctx context.Context, userID, designID string) (*domain.CartItem, error) {
	args := m.Called(ctx, userID, designID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *mockCartRepository) List(ctx context.Context, userID string) ([]domain.CartItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CartItem), args.Error(1)
}

func (m *mockCartRepository) UpdateQuantity(ctx context.Context, userID, id string, quantity int) (*domain.CartItem, error) {
	args := m.Called(ctx, userID, id, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *mockCartRepository) DeleteByDesign(ctx context.Context, userID, designID string) error {
	return m.Called(ctx, userID, designID).Error(0)
}

func (m *mockCartRepository) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockCartRepository) MoveFromFavorite(ctx context.Context, userID, favoriteID string) (repository.MoveResult, error) {
	args := m.Called(ctx, userID, favoriteID)
	return args.Get(0).(repository.MoveResult), args.Error(1)
}

type mockSessionRepository struct {
	mock.Mock
}

func (m *mockSessionRepository) Create(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockSessionRepository) Exists(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *mockSessionRepository) Delete(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

// --- Mock Collaborators ---

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, topic string, evt *pkgkafka.Event) error {
	return m.Called(ctx, topic, evt).Error(0)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	args := m.Called(ctx, name, contentType, r)
	return args.String(0), args.Error(1)
}

// --- Test Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newSilentProducer returns a producer that drops every event.
func newSilentProducer() *event.Producer {
	return event.NewProducer(nil, newTestLogger())
}

func int64Ptr(v int64) *int64 { return &v }
