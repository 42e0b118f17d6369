package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolops/relief-api/internal/models"
)

// TimetableRepository manages the recurring weekly schedule.
type TimetableRepository struct {
	db *sqlx.DB
}

// NewTimetableRepository constructs a TimetableRepository.
func NewTimetableRepository(db *sqlx.DB) *TimetableRepository {
	return &TimetableRepository{db: db}
}

// List returns every timetable entry.
func (r *TimetableRepository) List(ctx context.Context) ([]models.TimetableEntry, error) {
	const query = `SELECT id, day, period, class, teacher_id FROM timetable ORDER BY id`
	entries := []models.TimetableEntry{}
	if err := r.db.SelectContext(ctx, &entries, query); err != nil {
		return nil, fmt.Errorf("list timetable: %w", err)
	}
	return entries, nil
}

// ListByDay returns entries for a weekday, matched case-insensitively.
func (r *TimetableRepository) ListByDay(ctx context.Context, day string) ([]models.TimetableEntry, error) {
	const query = `SELECT id, day, period, class, teacher_id FROM timetable WHERE LOWER(day) = LOWER($1) ORDER BY period, class`
	entries := []models.TimetableEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, day); err != nil {
		return nil, fmt.Errorf("list timetable for day %s: %w", day, err)
	}
	return entries, nil
}

// ListByTeacher returns the entries owned by one teacher.
func (r *TimetableRepository) ListByTeacher(ctx context.Context, teacherID int64) ([]models.TimetableEntry, error) {
	const query = `SELECT id, day, period, class, teacher_id FROM timetable WHERE teacher_id = $1 ORDER BY id`
	entries := []models.TimetableEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, teacherID); err != nil {
		return nil, fmt.Errorf("list timetable for teacher %d: %w", teacherID, err)
	}
	return entries, nil
}

// BulkCreate inserts a batch of entries inside one transaction. The
// sequence hands out strictly increasing ids across the whole batch.
func (r *TimetableRepository) BulkCreate(ctx context.Context, entries []models.TimetableEntry) ([]models.TimetableEntry, error) {
	if len(entries) == 0 {
		return []models.TimetableEntry{}, nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin timetable batch: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO timetable (day, period, class, teacher_id) VALUES ($1, $2, $3, $4) RETURNING id`
	created := make([]models.TimetableEntry, 0, len(entries))
	for _, entry := range entries {
		if err := tx.QueryRowxContext(ctx, query, entry.Day, entry.Period, entry.Class, entry.TeacherID).Scan(&entry.ID); err != nil {
			return nil, fmt.Errorf("insert timetable entry: %w", err)
		}
		created = append(created, entry)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit timetable batch: %w", err)
	}
	return created, nil
}
