package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolops/relief-api/internal/models"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
)

// SubstitutionRepository manages cover assignments.
type SubstitutionRepository struct {
	db *sqlx.DB
}

// NewSubstitutionRepository constructs a SubstitutionRepository.
func NewSubstitutionRepository(db *sqlx.DB) *SubstitutionRepository {
	return &SubstitutionRepository{db: db}
}

// ListByDate returns substitutions for one calendar day.
func (r *SubstitutionRepository) ListByDate(ctx context.Context, date string) ([]models.Substitution, error) {
	const query = `SELECT id, date, period, class, original_teacher_id, substitute_teacher_id, status, created_at
		FROM substitutions WHERE date = $1 ORDER BY period, class`
	subs := []models.Substitution{}
	if err := r.db.SelectContext(ctx, &subs, query, date); err != nil {
		return nil, fmt.Errorf("list substitutions for %s: %w", date, err)
	}
	return subs, nil
}

// Exists reports whether a slot already has an assignment.
func (r *SubstitutionRepository) Exists(ctx context.Context, date string, period int, class string, originalTeacherID int64) (bool, error) {
	const query = `SELECT 1 FROM substitutions
		WHERE date = $1 AND period = $2 AND class = $3 AND original_teacher_id = $4 LIMIT 1`
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, date, period, class, originalTeacherID); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check substitution slot: %w", err)
	}
	return true, nil
}

// Create inserts a substitution. The unique slot index turns a racing
// duplicate into a conflict error.
func (r *SubstitutionRepository) Create(ctx context.Context, sub *models.Substitution) error {
	const query = `INSERT INTO substitutions (date, period, class, original_teacher_id, substitute_teacher_id, status)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query, sub.Date, sub.Period, sub.Class, sub.OriginalTeacherID, sub.SubstituteTeacherID, sub.Status).
		Scan(&sub.ID, &sub.CreatedAt); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "slot already has a substitute assigned")
		}
		return fmt.Errorf("create substitution: %w", err)
	}
	return nil
}

// UpdateStatus advances a substitution's lifecycle.
func (r *SubstitutionRepository) UpdateStatus(ctx context.Context, id int64, status models.SubstitutionStatus) error {
	const query = `UPDATE substitutions SET status = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update substitution status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
