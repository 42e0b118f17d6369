package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolops/relief-api/internal/models"
)

// AttendanceRepository manages per-day attendance marks.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// ListByDate returns all attendance records for a calendar day.
func (r *AttendanceRepository) ListByDate(ctx context.Context, date string) ([]models.Attendance, error) {
	const query = `SELECT id, teacher_id, date, status, created_at FROM attendance WHERE date = $1`
	records := []models.Attendance{}
	if err := r.db.SelectContext(ctx, &records, query, date); err != nil {
		return nil, fmt.Errorf("list attendance for %s: %w", date, err)
	}
	return records, nil
}

// Upsert writes the status for (teacher, date), replacing any earlier
// mark for the same day. The unique index makes the read-modify-write
// atomic at the store.
func (r *AttendanceRepository) Upsert(ctx context.Context, record *models.Attendance) error {
	const query = `INSERT INTO attendance (teacher_id, date, status)
		VALUES ($1, $2, $3)
		ON CONFLICT (teacher_id, date) DO UPDATE SET status = EXCLUDED.status
		RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query, record.TeacherID, record.Date, record.Status).
		Scan(&record.ID, &record.CreatedAt); err != nil {
		return fmt.Errorf("upsert attendance: %w", err)
	}
	return nil
}
