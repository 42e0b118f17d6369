package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolops/relief-api/internal/models"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
)

type mockPeriodRepo struct {
	periods []models.PeriodConfig
	nextID  int64
}

func (m *mockPeriodRepo) List(ctx context.Context) ([]models.PeriodConfig, error) {
	return append([]models.PeriodConfig{}, m.periods...), nil
}

func (m *mockPeriodRepo) Count(ctx context.Context) (int, error) {
	return len(m.periods), nil
}

func (m *mockPeriodRepo) Create(ctx context.Context, period *models.PeriodConfig) error {
	m.nextID++
	period.ID = m.nextID
	m.periods = append(m.periods, *period)
	return nil
}

func (m *mockPeriodRepo) Update(ctx context.Context, period *models.PeriodConfig) error {
	for i := range m.periods {
		if m.periods[i].ID == period.ID {
			m.periods[i] = *period
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockPeriodRepo) FindByID(ctx context.Context, id int64) (*models.PeriodConfig, error) {
	for i := range m.periods {
		if m.periods[i].ID == id {
			cp := m.periods[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func newPeriodServiceAt(repo *mockPeriodRepo, clock string) *PeriodService {
	svc := NewPeriodService(repo, validator.New(), zap.NewNop())
	svc.now = func() time.Time {
		parsed, _ := time.Parse("15:04", clock)
		return time.Date(2026, 8, 31, parsed.Hour(), parsed.Minute(), 0, 0, time.UTC)
	}
	return svc
}

func seededPeriodRepo(t *testing.T) *mockPeriodRepo {
	t.Helper()
	repo := &mockPeriodRepo{}
	svc := NewPeriodService(repo, validator.New(), zap.NewNop())
	require.NoError(t, svc.SeedDefaults(context.Background()))
	return repo
}

func TestPeriodSeedDefaults(t *testing.T) {
	repo := seededPeriodRepo(t)
	assert.Len(t, repo.periods, 8)
	assert.Equal(t, "08:00", repo.periods[0].StartTime)
	assert.Equal(t, "14:45", repo.periods[7].EndTime)

	// Seeding again is a no-op once periods exist.
	svc := NewPeriodService(repo, validator.New(), zap.NewNop())
	require.NoError(t, svc.SeedDefaults(context.Background()))
	assert.Len(t, repo.periods, 8)
}

func TestPeriodResolveCurrent(t *testing.T) {
	repo := seededPeriodRepo(t)

	t.Run("inside a period", func(t *testing.T) {
		status, err := newPeriodServiceAt(repo, "08:20").ResolveCurrent(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.PeriodStateInProgress, status.State)
		require.NotNil(t, status.Period)
		assert.Equal(t, 1, status.Period.PeriodNumber)
	})

	t.Run("gap between periods", func(t *testing.T) {
		status, err := newPeriodServiceAt(repo, "08:47").ResolveCurrent(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.PeriodStateUpcoming, status.State)
		require.NotNil(t, status.Period)
		assert.Equal(t, 2, status.Period.PeriodNumber)
	})

	t.Run("boundary minute is in progress", func(t *testing.T) {
		status, err := newPeriodServiceAt(repo, "08:45").ResolveCurrent(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.PeriodStateInProgress, status.State)
		assert.Equal(t, 1, status.Period.PeriodNumber)
	})

	t.Run("before school", func(t *testing.T) {
		status, err := newPeriodServiceAt(repo, "06:00").ResolveCurrent(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.PeriodStateUpcoming, status.State)
		assert.Equal(t, 1, status.Period.PeriodNumber)
	})

	t.Run("after school", func(t *testing.T) {
		status, err := newPeriodServiceAt(repo, "16:00").ResolveCurrent(context.Background())
		require.NoError(t, err)
		assert.Equal(t, models.PeriodStateEnded, status.State)
		assert.Nil(t, status.Period)
	})
}

func TestPeriodResolveCurrentSkipsInactive(t *testing.T) {
	repo := seededPeriodRepo(t)
	repo.periods[0].Active = false

	status, err := newPeriodServiceAt(repo, "08:20").ResolveCurrent(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.PeriodStateUpcoming, status.State)
	assert.Equal(t, 2, status.Period.PeriodNumber)
}

func TestPeriodUpdate(t *testing.T) {
	repo := seededPeriodRepo(t)
	svc := NewPeriodService(repo, validator.New(), zap.NewNop())

	inactive := false
	updated, err := svc.Update(context.Background(), repo.periods[0].ID, UpsertPeriodRequest{
		PeriodNumber: 1,
		StartTime:    "08:05",
		EndTime:      "08:50",
		Active:       &inactive,
	})
	require.NoError(t, err)
	assert.Equal(t, "08:05", updated.StartTime)
	assert.False(t, updated.Active)

	_, err = svc.Update(context.Background(), 999, UpsertPeriodRequest{PeriodNumber: 9, StartTime: "15:00", EndTime: "15:45"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestPeriodCreateRejectsBadClock(t *testing.T) {
	svc := NewPeriodService(&mockPeriodRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), UpsertPeriodRequest{PeriodNumber: 1, StartTime: "8 o'clock", EndTime: "08:45"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
