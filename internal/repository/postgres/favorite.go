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

// FavoriteRepository implements repository.FavoriteRepository using PostgreSQL.
type FavoriteRepository struct {
	db database.DBTX
}

// NewFavoriteRepository creates a new PostgreSQL-backed favorite repository.
func NewFavoriteRepository(db database.DBTX) *FavoriteRepository {
	return &FavoriteRepository{db: db}
}

// Create inserts a favorite. A second favorite for the same design is
// reported as ErrAlreadyExists.
func (r *FavoriteRepository) Create(ctx context.Context, f *domain.Favorite) (err error) {
	query := `
		INSERT INTO favorites (id, user_id, design_id, created_at)
		VALUES ($1, $2, $3, $4)`

	ctx, end := database.TraceQuery(ctx, "CreateFavorite", query)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, query, f.ID, f.UserID, f.DesignID, f.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.AlreadyExists("favorite", "design_id", f.DesignID)
		}
		if database.IsForeignKeyViolation(err) {
			return apperrors.NotFound("design", f.DesignID)
		}
		return fmt.Errorf("insert favorite: %w", err)
	}
	return nil
}

// GetByDesign returns the viewer's favorite for a design.
func (r *FavoriteRepository) GetByDesign(ctx context.Context, userID, designID string) (_ *domain.Favorite, err error) {
	query := `SELECT id, user_id, design_id, created_at FROM favorites WHERE user_id = $1 AND design_id = $2`

	ctx, end := database.TraceQuery(ctx, "GetFavorite", query)
	defer func() { end(err) }()

	var f domain.Favorite
	err = r.db.QueryRow(ctx, query, userID, designID).Scan(&f.ID, &f.UserID, &f.DesignID, &f.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("favorite", designID)
		}
		return nil, fmt.Errorf("get favorite: %w", err)
	}
	return &f, nil
}

// List returns the viewer's favorites joined with their designs, newest first.
func (r *FavoriteRepository) List(ctx context.Context, userID string) (_ []domain.Favorite, err error) {
	query := `
		SELECT f.id, f.user_id, f.design_id, f.created_at, ` + joinedDesignColumns + `
		FROM favorites f
		LEFT JOIN designs d ON d.id = f.design_id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC`

	ctx, end := database.TraceQuery(ctx, "ListFavorites", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	defer rows.Close()

	favorites := []domain.Favorite{}
	for rows.Next() {
		var (
			f  domain.Favorite
			jd joinedDesign
		)
		dest := append([]any{&f.ID, &f.UserID, &f.DesignID, &f.CreatedAt}, jd.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		f.Design = jd.design()
		favorites = append(favorites, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorite rows: %w", err)
	}
	return favorites, nil
}

// DeleteByDesign removes the viewer's favorite for a design.
func (r *FavoriteRepository) DeleteByDesign(ctx context.Context, userID, designID string) (err error) {
	query := `DELETE FROM favorites WHERE user_id = $1 AND design_id = $2`

	ctx, end := database.TraceQuery(ctx, "DeleteFavoriteByDesign", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, userID, designID)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("favorite", designID)
	}
	return nil
}

// Delete removes a favorite by row ID.
func (r *FavoriteRepository) Delete(ctx context.Context, userID, id string) (err error) {
	query := `DELETE FROM favorites WHERE user_id = $1 AND id = $2`

	ctx, end := database.TraceQuery(ctx, "DeleteFavorite", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("favorite", id)
	}
	return nil
}
