package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolops/relief-api/internal/dto"
	"github.com/schoolops/relief-api/internal/models"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
)

type periodRepository interface {
	List(ctx context.Context) ([]models.PeriodConfig, error)
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, period *models.PeriodConfig) error
	Update(ctx context.Context, period *models.PeriodConfig) error
	FindByID(ctx context.Context, id int64) (*models.PeriodConfig, error)
}

// UpsertPeriodRequest creates or updates one bell-schedule slot.
type UpsertPeriodRequest struct {
	PeriodNumber int    `json:"periodNumber" validate:"required,min=1"`
	StartTime    string `json:"startTime" validate:"required"`
	EndTime      string `json:"endTime" validate:"required"`
	Active       *bool  `json:"active"`
}

// defaultPeriods is the seed bell schedule applied to an empty store.
var defaultPeriods = []models.PeriodConfig{
	{PeriodNumber: 1, StartTime: "08:00", EndTime: "08:45", Active: true},
	{PeriodNumber: 2, StartTime: "08:50", EndTime: "09:35", Active: true},
	{PeriodNumber: 3, StartTime: "09:40", EndTime: "10:25", Active: true},
	{PeriodNumber: 4, StartTime: "10:30", EndTime: "11:15", Active: true},
	{PeriodNumber: 5, StartTime: "11:30", EndTime: "12:15", Active: true},
	{PeriodNumber: 6, StartTime: "12:20", EndTime: "13:05", Active: true},
	{PeriodNumber: 7, StartTime: "13:10", EndTime: "13:55", Active: true},
	{PeriodNumber: 8, StartTime: "14:00", EndTime: "14:45", Active: true},
}

// PeriodService manages the bell schedule and resolves the current
// period for a wall-clock time.
type PeriodService struct {
	repo      periodRepository
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewPeriodService constructs a PeriodService.
func NewPeriodService(repo periodRepository, validate *validator.Validate, logger *zap.Logger) *PeriodService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PeriodService{repo: repo, validator: validate, logger: logger, now: time.Now}
}

// List returns all configured periods ordered by period number.
func (s *PeriodService) List(ctx context.Context) ([]models.PeriodConfig, error) {
	periods, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list periods")
	}
	return periods, nil
}

// Create adds a new period slot.
func (s *PeriodService) Create(ctx context.Context, req UpsertPeriodRequest) (*models.PeriodConfig, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	period := &models.PeriodConfig{
		PeriodNumber: req.PeriodNumber,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Active:       true,
	}
	if req.Active != nil {
		period.Active = *req.Active
	}
	if err := s.repo.Create(ctx, period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create period")
	}
	return period, nil
}

// Update modifies an existing period slot.
func (s *PeriodService) Update(ctx context.Context, id int64, req UpsertPeriodRequest) (*models.PeriodConfig, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	period, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "period not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load period")
	}

	period.PeriodNumber = req.PeriodNumber
	period.StartTime = req.StartTime
	period.EndTime = req.EndTime
	if req.Active != nil {
		period.Active = *req.Active
	}
	if err := s.repo.Update(ctx, period); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update period")
	}
	return period, nil
}

// SeedDefaults installs the default eight-period schedule when the
// store holds no periods yet.
func (s *PeriodService) SeedDefaults(ctx context.Context) error {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count periods: %w", err)
	}
	if count > 0 {
		return nil
	}

	for i := range defaultPeriods {
		period := defaultPeriods[i]
		if err := s.repo.Create(ctx, &period); err != nil {
			return fmt.Errorf("seed period %d: %w", period.PeriodNumber, err)
		}
	}
	s.logger.Info("seeded default bell schedule", zap.Int("periods", len(defaultPeriods)))
	return nil
}

// ResolveCurrent maps the current wall-clock time onto the schedule:
// in_progress inside an active period (bounds inclusive), upcoming in
// a gap before the next one, ended after the last period closes.
func (s *PeriodService) ResolveCurrent(ctx context.Context) (*dto.PeriodStatus, error) {
	periods, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list periods")
	}

	now := s.now()
	minutes := now.Hour()*60 + now.Minute()

	var next *models.PeriodConfig
	for i := range periods {
		period := periods[i]
		if !period.Active {
			continue
		}
		start, err := parseClock(period.StartTime)
		if err != nil {
			s.logger.Warn("skipping period with bad start time", zap.Int("period", period.PeriodNumber), zap.Error(err))
			continue
		}
		end, err := parseClock(period.EndTime)
		if err != nil {
			s.logger.Warn("skipping period with bad end time", zap.Int("period", period.PeriodNumber), zap.Error(err))
			continue
		}
		if minutes >= start && minutes <= end {
			return &dto.PeriodStatus{State: models.PeriodStateInProgress, Period: &period}, nil
		}
		if minutes < start && next == nil {
			next = &period
		}
	}

	if next != nil {
		return &dto.PeriodStatus{State: models.PeriodStateUpcoming, Period: next}, nil
	}
	return &dto.PeriodStatus{State: models.PeriodStateEnded}, nil
}

func (s *PeriodService) validate(req UpsertPeriodRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid period payload")
	}
	for _, value := range []string{req.StartTime, req.EndTime} {
		if _, err := parseClock(value); err != nil {
			return appErrors.Clone(appErrors.ErrValidation, "times must be formatted HH:MM on a 24-hour clock")
		}
	}
	return nil
}

// parseClock converts an HH:MM string into minutes since midnight.
func parseClock(value string) (int, error) {
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid clock value %q", value)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil || hours < 0 || hours > 23 {
		return 0, fmt.Errorf("invalid hour in %q", value)
	}
	mins, err := strconv.Atoi(parts[1])
	if err != nil || mins < 0 || mins > 59 {
		return 0, fmt.Errorf("invalid minute in %q", value)
	}
	return hours*60 + mins, nil
}
