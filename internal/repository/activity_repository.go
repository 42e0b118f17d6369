package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolops/relief-api/internal/models"
)

// ActivityRepository manages the append-only audit feed.
type ActivityRepository struct {
	db *sqlx.DB
}

// NewActivityRepository constructs an ActivityRepository.
func NewActivityRepository(db *sqlx.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// List returns log entries newest first, capped by limit when positive.
func (r *ActivityRepository) List(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	query := `SELECT id, date, teacher_id, action, status, created_at FROM activity_logs ORDER BY created_at DESC, id DESC`
	args := []interface{}{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}
	logs := []models.ActivityLog{}
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("list activity logs: %w", err)
	}
	return logs, nil
}

// Create appends a log entry.
func (r *ActivityRepository) Create(ctx context.Context, log *models.ActivityLog) error {
	const query = `INSERT INTO activity_logs (date, teacher_id, action, status)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query, log.Date, log.TeacherID, log.Action, log.Status).
		Scan(&log.ID, &log.CreatedAt); err != nil {
		return fmt.Errorf("create activity log: %w", err)
	}
	return nil
}
