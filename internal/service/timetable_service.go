package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/schoolops/relief-api/internal/dto"
	"github.com/schoolops/relief-api/internal/models"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
)

type timetableRepository interface {
	List(ctx context.Context) ([]models.TimetableEntry, error)
	ListByDay(ctx context.Context, day string) ([]models.TimetableEntry, error)
	ListByTeacher(ctx context.Context, teacherID int64) ([]models.TimetableEntry, error)
	BulkCreate(ctx context.Context, entries []models.TimetableEntry) ([]models.TimetableEntry, error)
}

// TimetableService serves the recurring weekly schedule.
type TimetableService struct {
	repo     timetableRepository
	teachers teacherRepository
	cache    *CacheService
	logger   *zap.Logger
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(repo timetableRepository, teachers teacherRepository, cache *CacheService, logger *zap.Logger) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{repo: repo, teachers: teachers, cache: cache, logger: logger}
}

// List returns timetable entries, optionally filtered by weekday and
// teacher, each enriched with the owning teacher's name.
func (s *TimetableService) List(ctx context.Context, day string, teacherID *int64) ([]dto.TimetableEntryView, error) {
	key := timetableCacheKey(day, teacherID)
	var cached []dto.TimetableEntryView
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	entries, err := s.fetch(ctx, day, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetable")
	}

	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	names := make(map[int64]string, len(teachers))
	for _, teacher := range teachers {
		names[teacher.ID] = teacher.Name
	}

	views := make([]dto.TimetableEntryView, 0, len(entries))
	for _, entry := range entries {
		view := dto.TimetableEntryView{TimetableEntry: entry, TeacherName: "Unknown Teacher"}
		if name, ok := names[entry.TeacherID]; ok {
			view.TeacherName = name
		}
		views = append(views, view)
	}

	_ = s.cache.Set(ctx, key, views, 0)
	return views, nil
}

func (s *TimetableService) fetch(ctx context.Context, day string, teacherID *int64) ([]models.TimetableEntry, error) {
	switch {
	case day != "" && teacherID != nil:
		entries, err := s.repo.ListByDay(ctx, day)
		if err != nil {
			return nil, err
		}
		filtered := entries[:0]
		for _, entry := range entries {
			if entry.TeacherID == *teacherID {
				filtered = append(filtered, entry)
			}
		}
		return filtered, nil
	case day != "":
		return s.repo.ListByDay(ctx, day)
	case teacherID != nil:
		return s.repo.ListByTeacher(ctx, *teacherID)
	default:
		return s.repo.List(ctx)
	}
}

func timetableCacheKey(day string, teacherID *int64) string {
	teacher := "all"
	if teacherID != nil {
		teacher = fmt.Sprintf("%d", *teacherID)
	}
	if day == "" {
		day = "all"
	}
	return fmt.Sprintf("timetable:%s:%s", day, teacher)
}
