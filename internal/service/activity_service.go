package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/schoolops/relief-api/internal/dto"
	"github.com/schoolops/relief-api/internal/models"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
)

type activityRepository interface {
	List(ctx context.Context, limit int) ([]models.ActivityLog, error)
	Create(ctx context.Context, log *models.ActivityLog) error
}

// ActivityService reads the append-only activity feed.
type ActivityService struct {
	repo     activityRepository
	teachers teacherRepository
	logger   *zap.Logger
}

// NewActivityService constructs an ActivityService.
func NewActivityService(repo activityRepository, teachers teacherRepository, logger *zap.Logger) *ActivityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ActivityService{repo: repo, teachers: teachers, logger: logger}
}

// List returns the newest entries first, enriched with teacher names.
// A non-positive limit returns the full feed.
func (s *ActivityService) List(ctx context.Context, limit int) ([]dto.ActivityLogView, error) {
	logs, err := s.repo.List(ctx, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list activity logs")
	}

	names, err := s.teacherNames(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]dto.ActivityLogView, 0, len(logs))
	for _, entry := range logs {
		view := dto.ActivityLogView{ActivityLog: entry, TeacherName: "Unknown Teacher"}
		if name, ok := names[entry.TeacherID]; ok {
			view.TeacherName = name
		}
		views = append(views, view)
	}
	return views, nil
}

func (s *ActivityService) teacherNames(ctx context.Context) (map[int64]string, error) {
	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	names := make(map[int64]string, len(teachers))
	for _, teacher := range teachers {
		names[teacher.ID] = teacher.Name
	}
	return names, nil
}
