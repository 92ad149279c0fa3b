package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/bally3399/chord001-monograms/internal/checkout"
	"github.com/bally3399/chord001-monograms/internal/domain"
	"github.com/bally3399/chord001-monograms/internal/event"
	"github.com/bally3399/chord001-monograms/internal/repository"
	"github.com/bally3399/chord001-monograms/internal/service"
	"github.com/bally3399/chord001-monograms/internal/upload"
	"github.com/bally3399/chord001-monograms/pkg/health"
	"github.com/bally3399/chord001-monograms/pkg/httputil"
	"github.com/bally3399/chord001-monograms/pkg/middleware"
)

// =============================================================================
// Mock repositories
// =============================================================================

type mockDesignRepo struct{ mock.Mock }

func (m *mockDesignRepo) Create(ctx context.Context, d *domain.Design) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockDesignRepo) GetByID(ctx context.Context, id string) (*domain.Design, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Design), args.Error(1)
}

func (m *mockDesignRepo) List(ctx context.Context, filter domain.DesignFilter) ([]domain.Design, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Design), args.Error(1)
}

func (m *mockDesignRepo) Update(ctx context.Context, d *domain.Design) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockDesignRepo) SetFeatured(ctx context.Context, id string, featured bool) (*domain.Design, error) {
	args := m.Called(ctx, id, featured)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Design), args.Error(1)
}

func (m *mockDesignRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockFavoriteRepo struct{ mock.Mock }

func (m *mockFavoriteRepo) Create(ctx context.Context, f *domain.Favorite) error {
	return m.Called(ctx, f).Error(0)
}

func (m *mockFavoriteRepo) GetByDesign(ctx context.Context, userID, designID string) (*domain.Favorite, error) {
	args := m.Called(ctx, userID, designID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Favorite), args.Error(1)
}

func (m *mockFavoriteRepo) List(ctx context.Context, userID string) ([]domain.Favorite, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Favorite), args.Error(1)
}

func (m *mockFavoriteRepo) DeleteByDesign(ctx context.Context, userID, designID string) error {
	return m.Called(ctx, userID, designID).Error(0)
}

func (m *mockFavoriteRepo) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

type mockCartRepo struct{ mock.Mock }

func (m *mockCartRepo) Create(ctx context.Context, item *domain.CartItem) error {
	return m.Called(ctx, item).Error(0)
}

func (m *mockCartRepo) GetByDesign(ctx context.Context, userID, designID string) (*domain.CartItem, error) {
	args := m.Called(ctx, userID, designID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *mockCartRepo) List(ctx context.Context, userID string) ([]domain.CartItem, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.CartItem), args.Error(1)
}

func (m *mockCartRepo) UpdateQuantity(ctx context.Context, userID, id string, quantity int) (*domain.CartItem, error) {
	args := m.Called(ctx, userID, id, quantity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CartItem), args.Error(1)
}

func (m *mockCartRepo) DeleteByDesign(ctx context.Context, userID, designID string) error {
	return m.Called(ctx, userID, designID).Error(0)
}

func (m *mockCartRepo) Delete(ctx context.Context, userID, id string) error {
	return m.Called(ctx, userID, id).Error(0)
}

func (m *mockCartRepo) MoveFromFavorite(ctx context.Context, userID, favoriteID string) (repository.MoveResult, error) {
	args := m.Called(ctx, userID, favoriteID)
	return args.Get(0).(repository.MoveResult), args.Error(1)
}

type mockSessionRepo struct{ mock.Mock }

func (m *mockSessionRepo) Create(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

func (m *mockSessionRepo) Exists(ctx context.Context, token string) (bool, error) {
	args := m.Called(ctx, token)
	return args.Bool(0), args.Error(1)
}

func (m *mockSessionRepo) Delete(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

// =============================================================================
// Test server
// =============================================================================

const (
	testViewer     = "user-1"
	testToken      = "token-user-1"
	testAdminToken = "admin-session"
	testPassword   = "s3cret-admin"
	designID       = "550e8400-e29b-41d4-a716-446655440001"
	itemID         = "550e8400-e29b-41d4-a716-446655440002"
)

type testServer struct {
	designs   *mockDesignRepo
	favorites *mockFavoriteRepo
	cart      *mockCartRepo
	sessions  *mockSessionRepo
	uploads   *upload.MemoryUploader
	router    http.Handler
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func verifyTestToken(token string) (string, error) {
	if token == testToken {
		return testViewer, nil
	}
	return "", errors.New("unknown token")
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	logger := testLogger()

	ts := &testServer{
		designs:   new(mockDesignRepo),
		favorites: new(mockFavoriteRepo),
		cart:      new(mockCartRepo),
		sessions:  new(mockSessionRepo),
		uploads:   upload.NewMemoryUploader("http://localhost:8080"),
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	handoff, err := checkout.NewHandoff("2348012345678")
	require.NoError(t, err)
	producer := event.NewProducer(nil, logger)

	ts.router = NewRouter(Dependencies{
		Designs:      service.NewDesignService(ts.designs, producer, logger),
		Favorites:    service.NewFavoriteService(ts.favorites, ts.cart, producer, logger),
		Cart:         service.NewCartService(ts.cart, handoff, producer, logger),
		Admin:        service.NewAdminService(string(hash), ts.sessions, ts.uploads, logger),
		VerifyViewer: verifyTestToken,
		LoginLimiter: middleware.NewRateLimiter(time.Minute, 3, logger),
		Files:        ts.uploads,
		Health:       health.NewHandler(),
		CORS:         middleware.DefaultCORSConfig(),
		Logger:       logger,
	})
	return ts
}

func (ts *testServer) do(method, target string, body io.Reader, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	ts.router.ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) viewer(method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return ts.do(method, target, r, map[string]string{"Authorization": "Bearer " + testToken})
}

func (ts *testServer) admin(method, target, body string) *httptest.ResponseRecorder {
	ts.sessions.On("Exists", mock.Anything, testAdminToken).Return(true, nil).Maybe()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	return ts.do(method, target, r, map[string]string{middleware.AdminSessionHeader: testAdminToken})
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

// decodeData unmarshals the data field of the envelope into dst.
func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&env))
	require.NoError(t, json.Unmarshal(env.Data, dst))
}

func int64Ptr(v int64) *int64 { return &v }

func sampleDesign() domain.Design {
	now := time.Now().UTC()
	return domain.Design{
		ID:        designID,
		Title:     "Floral A",
		ImageURL:  "https://cdn.test/a.png",
		Price:     int64Ptr(1250),
		Category:  "floral",
		CreatedAt: now,
		UpdatedAt: now,
	}
}
