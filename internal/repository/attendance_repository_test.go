package repository

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolops/relief-api/internal/models"
)

func TestAttendanceRepositoryListByDate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	rows := sqlmock.NewRows([]string{"id", "teacher_id", "date", "status", "created_at"}).
		AddRow(1, 3, "2026-08-31", "absent", time.Now())
	mock.ExpectQuery("SELECT id, teacher_id, date, status, created_at FROM attendance WHERE date").
		WithArgs("2026-08-31").
		WillReturnRows(rows)

	records, err := repo.ListByDate(context.Background(), "2026-08-31")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.AttendanceStatusAbsent, records[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAttendanceRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewAttendanceRepository(db)

	created := time.Now()
	mock.ExpectQuery("INSERT INTO attendance").
		WithArgs(int64(3), "2026-08-31", models.AttendanceStatusAbsent).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(5, created))

	record := &models.Attendance{TeacherID: 3, Date: "2026-08-31", Status: models.AttendanceStatusAbsent}
	require.NoError(t, repo.Upsert(context.Background(), record))
	assert.Equal(t, int64(5), record.ID)
	assert.Equal(t, created, record.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}
