package repository

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolops/relief-api/internal/models"
)

func TestTimetableRepositoryListByDay(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	rows := sqlmock.NewRows([]string{"id", "day", "period", "class", "teacher_id"}).
		AddRow(1, "Monday", 1, "10A", 3).
		AddRow(2, "Monday", 2, "10B", 4)
	mock.ExpectQuery("SELECT id, day, period, class, teacher_id FROM timetable WHERE LOWER").
		WithArgs("monday").
		WillReturnRows(rows)

	entries, err := repo.ListByDay(context.Background(), "monday")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "10A", entries[0].Class)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryBulkCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO timetable").
		WithArgs("Monday", 1, "10A", int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(1))
	mock.ExpectQuery("INSERT INTO timetable").
		WithArgs("Monday", 2, "10B", int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(2))
	mock.ExpectCommit()

	created, err := repo.BulkCreate(context.Background(), []models.TimetableEntry{
		{Day: "Monday", Period: 1, Class: "10A", TeacherID: 3},
		{Day: "Monday", Period: 2, Class: "10B", TeacherID: 4},
	})
	require.NoError(t, err)
	require.Len(t, created, 2)
	assert.Equal(t, int64(1), created[0].ID)
	assert.Equal(t, int64(2), created[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableRepositoryBulkCreateEmpty(t *testing.T) {
	db, _, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewTimetableRepository(db)

	created, err := repo.BulkCreate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, created)
}
