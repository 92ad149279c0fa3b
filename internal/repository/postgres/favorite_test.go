package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bally3399/chord001-monograms/internal/domain"
	"github.com/bally3399/chord001-monograms/pkg/database"
	apperrors "github.com/bally3399/chord001-monograms/pkg/errors"
)

var favoriteCols = append([]string{"id", "user_id", "design_id", "created_at"}, joinedCols...)

func TestFavoriteRepository_Create(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewFavoriteRepository(mock)

	f := domain.Favorite{ID: "f-1", UserID: "u-1", DesignID: "d-1", CreatedAt: now}
	mock.ExpectExec("INSERT INTO favorites").
		WithArgs(f.ID, f.UserID, f.DesignID, f.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, repo.Create(context.Background(), &f))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_Create_UniqueViolation(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewFavoriteRepository(mock)

	f := domain.Favorite{ID: "f-2", UserID: "u-1", DesignID: "d-1", CreatedAt: now}
	mock.ExpectExec("INSERT INTO favorites").WillReturnError(errUnique)

	err := repo.Create(context.Background(), &f)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.NotErrorIs(t, err, apperrors.ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_Create_OtherFailure(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewFavoriteRepository(mock)

	f := domain.Favorite{ID: "f-2", UserID: "u-1", DesignID: "d-1", CreatedAt: now}
	mock.ExpectExec("INSERT INTO favorites").WillReturnError(errors.New("connection refused"))

	err := repo.Create(context.Background(), &f)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrAlreadyExists)
	assert.Contains(t, err.Error(), "insert favorite")
}

func TestFavoriteRepository_GetByDesign(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewFavoriteRepository(mock)

	mock.ExpectQuery("SELECT id, user_id, design_id, created_at FROM favorites").
		WithArgs("u-1", "d-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "user_id", "design_id", "created_at"}).
			AddRow("f-1", "u-1", "d-1", now))
	mock.ExpectQuery("SELECT id, user_id, design_id, created_at FROM favorites").
		WithArgs("u-1", "d-9").
		WillReturnError(pgx.ErrNoRows)

	f, err := repo.GetByDesign(context.Background(), "u-1", "d-1")
	require.NoError(t, err)
	assert.Equal(t, "f-1", f.ID)

	_, err = repo.GetByDesign(context.Background(), "u-1", "d-9")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_List_ToleratesMissingDesign(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewFavoriteRepository(mock)

	d := sampleDesign()
	rows := pgxmock.NewRows(favoriteCols).
		AddRow(append([]any{"f-1", "u-1", d.ID, now}, joinedRow(&d)...)...).
		AddRow(append([]any{"f-2", "u-1", "d-gone", now.Add(-time.Hour)}, joinedRow(nil)...)...)
	mock.ExpectQuery("FROM favorites f\\s+LEFT JOIN designs d").
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.List(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.NotNil(t, got[0].Design)
	assert.Equal(t, d.Title, got[0].Design.Title)
	assert.Equal(t, d.Price, got[0].Design.Price)
	assert.Nil(t, got[1].Design)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_DeleteByDesign(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewFavoriteRepository(mock)

	mock.ExpectExec("DELETE FROM favorites WHERE user_id = \\$1 AND design_id").
		WithArgs("u-1", "d-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec("DELETE FROM favorites WHERE user_id = \\$1 AND design_id").
		WithArgs("u-1", "d-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	require.NoError(t, repo.DeleteByDesign(context.Background(), "u-1", "d-1"))
	assert.ErrorIs(t, repo.DeleteByDesign(context.Background(), "u-1", "d-1"), apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_Delete_ScopedByViewer(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewFavoriteRepository(mock)

	mock.ExpectExec("DELETE FROM favorites WHERE user_id = \\$1 AND id").
		WithArgs("u-2", "f-1").
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	err := repo.Delete(context.Background(), "u-2", "f-1")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFavoriteRepository_Create_UnknownDesign(t *testing.T) {
	mock := newMock(t)
	defer mock.Close()
	repo := NewFavoriteRepository(mock)

	f := domain.Favorite{ID: "f-3", UserID: "u-1", DesignID: "d-missing", CreatedAt: now}
	mock.ExpectExec("INSERT INTO favorites").
		WillReturnError(&pgconn.PgError{Code: database.ForeignKeyViolation})

	err := repo.Create(context.Background(), &f)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}
