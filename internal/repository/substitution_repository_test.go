package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolops/relief-api/internal/models"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
)

func TestSubstitutionRepositoryExists(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	mock.ExpectQuery("SELECT 1 FROM substitutions").
		WithArgs("2026-08-31", 3, "10A", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	exists, err := repo.Exists(context.Background(), "2026-08-31", 3, "10A", 1)
	require.NoError(t, err)
	assert.True(t, exists)

	mock.ExpectQuery("SELECT 1 FROM substitutions").
		WithArgs("2026-08-31", 4, "10A", int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err = repo.Exists(context.Background(), "2026-08-31", 4, "10A", 1)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryCreateConflict(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	mock.ExpectQuery("INSERT INTO substitutions").
		WillReturnError(&pq.Error{Code: pqUniqueViolation})

	sub := &models.Substitution{Date: "2026-08-31", Period: 3, Class: "10A", OriginalTeacherID: 1, SubstituteTeacherID: 2, Status: models.SubstitutionStatusConfirmed}
	err := repo.Create(context.Background(), sub)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	created := time.Now()
	mock.ExpectQuery("INSERT INTO substitutions").
		WithArgs("2026-08-31", 3, "10A", int64(1), int64(2), models.SubstitutionStatusConfirmed).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(11, created))

	sub := &models.Substitution{Date: "2026-08-31", Period: 3, Class: "10A", OriginalTeacherID: 1, SubstituteTeacherID: 2, Status: models.SubstitutionStatusConfirmed}
	require.NoError(t, repo.Create(context.Background(), sub))
	assert.Equal(t, int64(11), sub.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSubstitutionRepositoryUpdateStatusNotFound(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSubstitutionRepository(db)

	mock.ExpectExec("UPDATE substitutions SET status").
		WithArgs(int64(99), models.SubstitutionStatusCompleted).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.UpdateStatus(context.Background(), 99, models.SubstitutionStatusCompleted)
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
