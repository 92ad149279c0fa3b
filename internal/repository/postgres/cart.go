package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/bally3399/chord001-monograms/internal/domain"
	"github.com/bally3399/chord001-monograms/internal/repository"
	"github.com/bally3399/chord001-monograms/pkg/database"
	apperrors "github.com/bally3399/chord001-monograms/pkg/errors"
)

const cartColumns = `id, user_id, design_id, quantity, created_at, updated_at`

// CartRepository implements repository.CartRepository using PostgreSQL.
type CartRepository struct {
	db database.DBTX
}

// NewCartRepository creates a new PostgreSQL-backed cart repository.
func NewCartRepository(db database.DBTX) *CartRepository {
	return &CartRepository{db: db}
}

// Create inserts a cart row. A second row for the same design is reported
// as ErrAlreadyExists.
func (r *CartRepository) Create(ctx context.Context, item *domain.CartItem) (err error) {
	query := `
		INSERT INTO cart_items (id, user_id, design_id, quantity, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	ctx, end := database.TraceQuery(ctx, "CreateCartItem", query)
	defer func() { end(err) }()

	_, err = r.db.Exec(ctx, query,
		item.ID, item.UserID, item.DesignID, item.Quantity, item.CreatedAt, item.UpdatedAt,
	)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return apperrors.AlreadyExists("cart item", "design_id", item.DesignID)
		}
		if database.IsForeignKeyViolation(err) {
			return apperrors.NotFound("design", item.DesignID)
		}
		return fmt.Errorf("insert cart item: %w", err)
	}
	return nil
}

// GetByDesign returns the viewer's cart row for a design.
func (r *CartRepository) GetByDesign(ctx context.Context, userID, designID string) (_ *domain.CartItem, err error) {
	query := `SELECT ` + cartColumns + ` FROM cart_items WHERE user_id = $1 AND design_id = $2`

	ctx, end := database.TraceQuery(ctx, "GetCartItem", query)
	defer func() { end(err) }()

	item, err := scanCartItem(r.db.QueryRow(ctx, query, userID, designID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("cart item", designID)
		}
		return nil, fmt.Errorf("get cart item: %w", err)
	}
	return item, nil
}

// List returns the viewer's cart rows joined with their designs, newest first.
func (r *CartRepository) List(ctx context.Context, userID string) (_ []domain.CartItem, err error) {
	query := `
		SELECT c.id, c.user_id, c.design_id, c.quantity, c.created_at, c.updated_at, ` + joinedDesignColumns + `
		FROM cart_items c
		LEFT JOIN designs d ON d.id = c.design_id
		WHERE c.user_id = $1
		ORDER BY c.created_at DESC`

	ctx, end := database.TraceQuery(ctx, "ListCartItems", query)
	defer func() { end(err) }()

	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	defer rows.Close()

	items := []domain.CartItem{}
	for rows.Next() {
		var (
			it domain.CartItem
			jd joinedDesign
		)
		dest := append([]any{&it.ID, &it.UserID, &it.DesignID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt}, jd.dest()...)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}
		it.Design = jd.design()
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate cart rows: %w", err)
	}
	return items, nil
}

// UpdateQuantity sets the quantity of a cart row and returns it.
func (r *CartRepository) UpdateQuantity(ctx context.Context, userID, id string, quantity int) (_ *domain.CartItem, err error) {
	query := `
		UPDATE cart_items SET quantity = $3, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING ` + cartColumns

	ctx, end := database.TraceQuery(ctx, "UpdateCartQuantity", query)
	defer func() { end(err) }()

	item, err := scanCartItem(r.db.QueryRow(ctx, query, userID, id, quantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("cart item", id)
		}
		return nil, fmt.Errorf("update cart quantity: %w", err)
	}
	return item, nil
}

// DeleteByDesign removes the viewer's cart row for a design.
func (r *CartRepository) DeleteByDesign(ctx context.Context, userID, designID string) (err error) {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND design_id = $2`

	ctx, end := database.TraceQuery(ctx, "DeleteCartItemByDesign", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, userID, designID)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("cart item", designID)
	}
	return nil
}

// Delete removes a cart row by ID regardless of its quantity.
func (r *CartRepository) Delete(ctx context.Context, userID, id string) (err error) {
	query := `DELETE FROM cart_items WHERE user_id = $1 AND id = $2`

	ctx, end := database.TraceQuery(ctx, "DeleteCartItem", query)
	defer func() { end(err) }()

	ct, err := r.db.Exec(ctx, query, userID, id)
	if err != nil {
		return fmt.Errorf("delete cart item: %w", err)
	}
	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("cart item", id)
	}
	return nil
}

// MoveFromFavorite moves a favorite into the cart in one transaction. The
// favorite row is locked, a cart row with quantity 1 is inserted unless the
// design is already in the cart, and the favorite is deleted either way.
func (r *CartRepository) MoveFromFavorite(ctx context.Context, userID, favoriteID string) (res repository.MoveResult, err error) {
	ctx, end := database.TraceQuery(ctx, "MoveFavoriteToCart", "move favorite to cart")
	defer func() { end(err) }()

	err = database.WithTx(ctx, r.db, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`SELECT design_id FROM favorites WHERE user_id = $1 AND id = $2 FOR UPDATE`,
			userID, favoriteID,
		).Scan(&res.DesignID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NotFound("favorite", favoriteID)
			}
			return fmt.Errorf("lock favorite: %w", err)
		}

		now := time.Now().UTC()
		ct, err := tx.Exec(ctx, `
			INSERT INTO cart_items (id, user_id, design_id, quantity, created_at, updated_at)
			VALUES ($1, $2, $3, 1, $4, $4)
			ON CONFLICT (user_id, design_id) DO NOTHING`,
			uuid.NewString(), userID, res.DesignID, now,
		)
		if err != nil {
			return fmt.Errorf("insert cart item: %w", err)
		}
		res.AlreadyInCart = ct.RowsAffected() == 0

		if _, err := tx.Exec(ctx, `DELETE FROM favorites WHERE user_id = $1 AND id = $2`, userID, favoriteID); err != nil {
			return fmt.Errorf("delete favorite: %w", err)
		}
		return nil
	})
	if err != nil {
		return repository.MoveResult{}, err
	}
	return res, nil
}

func scanCartItem(row pgx.Row) (*domain.CartItem, error) {
	var it domain.CartItem
	if err := row.Scan(&it.ID, &it.UserID, &it.DesignID, &it.Quantity, &it.CreatedAt, &it.UpdatedAt); err != nil {
		return nil, err
	}
	return &it, nil
}
