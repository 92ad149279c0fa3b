package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/bally3399/chord001-monograms/internal/domain"
	"github.com/bally3399/chord001-monograms/pkg/database"
	apperrors "github.com/bally3399/chord001-monograms/pkg/errors"
)

const designColumns = `id, title, COALESCE(description, ''), image_url, price, COALESCE(category, ''), is_featured, created_at, updated_at`

// DesignRepository implements repository.DesignRepository using PostgreSQL.
type DesignRepository struct {
	db database.DBTX
}

// NewDesignRepository creates a new PostgreSQL-backed design repository.
func NewDesignRepository(db database.DBTX) *DesignRepository {
	return &DesignRepository{db: db}
}

// Create inserts a new design.
func (r *DesignRepository) Create(ctx context.Context, d *domain.Design) (err error) {
	query := `
		INSERT INTO designs (id, title, description, image_url, price, category, is_featured, created_at, updated_at)
		VALUES ($1, $2, NULLIF($3, ''), $4, $5, NULLIF($6, ''), $7, $8, $9)`

	ctx, end := database.TraceQuery(ctx, "CreateDesign", query)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, query,
		d.ID, d.Title, d.Description, d.ImageURL, d.Price, d.Category, d.IsFeatured, d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.AlreadyExists("design", "id", d.ID)
		}
		return fmt.Errorf("insert design: %w", err)
	}
	return nil
}

// GetByID retrieves a design by its ID.
func (r *DesignRepository) GetByID(ctx context.Context, id string) (_ *domain.Design, err error) {
	query := `SELECT ` + designColumns + ` FROM designs WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "GetDesign", query)
	defer func() { end(err) }()

	d, err := scanDesign(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("design", id)
		}
		return nil, fmt.Errorf("get design: %w", err)
	}
	return d, nil
}

// List returns designs newest first, optionally only featured ones and
// capped at filter.Limit.
func (r *DesignRepository) List(ctx context.Context, filter domain.DesignFilter) (_ []domain.Design, err error) {
	query := `SELECT ` + designColumns + ` FROM designs`
	var args []any
	if filter.FeaturedOnly {
		query += ` WHERE is_featured = true`
	}
	query += ` ORDER BY created_at DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(` LIMIT $%d`, len(args))
	}

	ctx, end := database.TraceQuery(ctx, "ListDesigns", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list designs: %w", err)
	}
	defer rows.Close()

	designs := []domain.Design{}
	for rows.Next() {
		d, err := scanDesign(rows)
		if err != nil {
			return nil, fmt.Errorf("scan design: %w", err)
		}
		designs = append(designs, *d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate design rows: %w", err)
	}
	return designs, nil
}

// Update overwrites the editable fields of a design.
func (r *DesignRepository) Update(ctx context.Context, d *domain.Design) (err error) {
	query := `
		UPDATE designs
		SET title = $2, description = NULLIF($3, ''), image_url = $4, price = $5,
		    category = NULLIF($6, ''), is_featured = $7, updated_at = $8
		WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "UpdateDesign", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query,
		d.ID, d.Title, d.Description, d.ImageURL, d.Price, d.Category, d.IsFeatured, d.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update design: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("design", d.ID)
	}
	return nil
}

// SetFeatured flips the featured flag and returns the updated design.
func (r *DesignRepository) SetFeatured(ctx context.Context, id string, featured bool) (_ *domain.Design, err error) {
	query := `UPDATE designs SET is_featured = $2, updated_at = now() WHERE id = $1 RETURNING ` + designColumns

	ctx, end := database.TraceQuery(ctx, "SetDesignFeatured", query)
	defer func() { end(err) }()

	d, err := scanDesign(r.db.QueryRow(ctx, query, id, featured))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("design", id)
		}
		return nil, fmt.Errorf("set design featured: %w", err)
	}
	return d, nil
}

// Delete removes a design. Favorites and cart rows cascade.
func (r *DesignRepository) Delete(ctx context.Context, id string) (err error) {
	query := `DELETE FROM designs WHERE id = $1`

	ctx, end := database.TraceQuery(ctx, "DeleteDesign", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete design: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("design", id)
	}
	return nil
}

func scanDesign(row pgx.Row) (*domain.Design, error) {
	var d domain.Design
	err := row.Scan(
		&d.ID, &d.Title, &d.Description, &d.ImageURL, &d.Price,
		&d.Category, &d.IsFeatured, &d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}
