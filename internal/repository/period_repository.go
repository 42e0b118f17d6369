package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolops/relief-api/internal/models"
)

// PeriodRepository manages the daily bell schedule.
type PeriodRepository struct {
	db *sqlx.DB
}

// NewPeriodRepository constructs a PeriodRepository.
func NewPeriodRepository(db *sqlx.DB) *PeriodRepository {
	return &PeriodRepository{db: db}
}

// List returns all period configs ordered by period number.
func (r *PeriodRepository) List(ctx context.Context) ([]models.PeriodConfig, error) {
	const query = `SELECT id, period_number, start_time, end_time, active FROM period_configs ORDER BY period_number`
	periods := []models.PeriodConfig{}
	if err := r.db.SelectContext(ctx, &periods, query); err != nil {
		return nil, fmt.Errorf("list period configs: %w", err)
	}
	return periods, nil
}

// Count returns the number of configured periods.
func (r *PeriodRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM period_configs`); err != nil {
		return 0, fmt.Errorf("count period configs: %w", err)
	}
	return count, nil
}

// Create inserts a new period config and fills in the generated id.
func (r *PeriodRepository) Create(ctx context.Context, period *models.PeriodConfig) error {
	const query = `INSERT INTO period_configs (period_number, start_time, end_time, active)
		VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.QueryRowxContext(ctx, query, period.PeriodNumber, period.StartTime, period.EndTime, period.Active).
		Scan(&period.ID); err != nil {
		return fmt.Errorf("create period config: %w", err)
	}
	return nil
}

// Update modifies an existing period config.
func (r *PeriodRepository) Update(ctx context.Context, period *models.PeriodConfig) error {
	const query = `UPDATE period_configs SET period_number = :period_number, start_time = :start_time,
		end_time = :end_time, active = :active WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, period); err != nil {
		return fmt.Errorf("update period config: %w", err)
	}
	return nil
}

// FindByID fetches a single period config.
func (r *PeriodRepository) FindByID(ctx context.Context, id int64) (*models.PeriodConfig, error) {
	const query = `SELECT id, period_number, start_time, end_time, active FROM period_configs WHERE id = $1`
	var period models.PeriodConfig
	if err := r.db.GetContext(ctx, &period, query, id); err != nil {
		return nil, err
	}
	return &period, nil
}
