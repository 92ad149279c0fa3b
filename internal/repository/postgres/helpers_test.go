package postgres

import (
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/require"

	"github.com/bally3399/chord001-monograms/internal/domain"
	"github.com/bally3399/chord001-monograms/pkg/database"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }
func int64Ptr(n int64) *int64 { return &n }

func timePtr(t time.Time) *time.Time { return &t }

var now = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

var errUnique = &pgconn.PgError{Code: database.UniqueViolation, Message: "duplicate key value violates unique constraint"}

func newMock(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	mock, err := database.NewMockPool()
	require.NoError(t, err)
	return mock
}

var designCols = []string{
	"id", "title", "description", "image_url", "price", "category", "is_featured", "created_at", "updated_at",
}

func sampleDesign() domain.Design {
	return domain.Design{
		ID:          "d-1",
		Title:       "Gold script monogram",
		Description: "Three-letter script",
		ImageURL:    "https://res.cloudinary.com/demo/image/upload/gold.png",
		Price:       int64Ptr(1250),
		Category:    "script",
		IsFeatured:  true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func designRow(d domain.Design) []any {
	return []any{d.ID, d.Title, d.Description, d.ImageURL, d.Price, d.Category, d.IsFeatured, d.CreatedAt, d.UpdatedAt}
}

var joinedCols = []string{
	"d.id", "d.title", "d.description", "d.image_url", "d.price", "d.category", "d.is_featured", "d.created_at",
}

func joinedRow(d *domain.Design) []any {
	if d == nil {
		return []any{(*string)(nil), (*string)(nil), (*string)(nil), (*string)(nil), (*int64)(nil), (*string)(nil), (*bool)(nil), (*time.Time)(nil)}
	}
	return []any{
		strPtr(d.ID), strPtr(d.Title), strPtr(d.Description), strPtr(d.ImageURL),
		d.Price, strPtr(d.Category), boolPtr(d.IsFeatured), timePtr(d.CreatedAt),
	}
}
