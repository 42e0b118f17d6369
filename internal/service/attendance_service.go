package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolops/relief-api/internal/dto"
	"github.com/schoolops/relief-api/internal/models"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
)

type attendanceRepository interface {
	ListByDate(ctx context.Context, date string) ([]models.Attendance, error)
	Upsert(ctx context.Context, record *models.Attendance) error
}

type activityWriter interface {
	Create(ctx context.Context, log *models.ActivityLog) error
}

// MarkAttendanceRequest records a teacher's status for one day.
type MarkAttendanceRequest struct {
	TeacherID int64                   `json:"teacherId" validate:"required"`
	Date      string                  `json:"date" validate:"required,datetime=2006-01-02"`
	Status    models.AttendanceStatus `json:"status" validate:"required"`
}

// AttendanceService tracks per-day teacher status. Absence is opt-in:
// a teacher with no record for a date reads as present.
type AttendanceService struct {
	repo      attendanceRepository
	teachers  teacherRepository
	activity  activityWriter
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAttendanceService constructs an AttendanceService.
func NewAttendanceService(repo attendanceRepository, teachers teacherRepository, activity activityWriter, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *AttendanceService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, teachers: teachers, activity: activity, cache: cache, validator: validate, logger: logger}
}

func attendanceDayCacheKey(date string) string {
	return fmt.Sprintf("attendance:day:%s", date)
}

// DailyStatus reports every teacher's status for the given date,
// defaulting to present when no record exists.
func (s *AttendanceService) DailyStatus(ctx context.Context, date string) ([]dto.TeacherDayStatus, error) {
	if err := s.validator.Var(date, "required,datetime=2006-01-02"); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}

	key := attendanceDayCacheKey(date)
	var cached []dto.TeacherDayStatus
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}

	records, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}

	byTeacher := make(map[int64]models.Attendance, len(records))
	for _, record := range records {
		byTeacher[record.TeacherID] = record
	}

	statuses := make([]dto.TeacherDayStatus, 0, len(teachers))
	for _, teacher := range teachers {
		status := dto.TeacherDayStatus{
			TeacherID:   teacher.ID,
			Name:        teacher.Name,
			PhoneNumber: teacher.PhoneNumber,
			Initials:    teacher.Initials,
			Status:      models.AttendanceStatusPresent,
		}
		if record, ok := byTeacher[teacher.ID]; ok {
			status.Status = record.Status
			id := record.ID
			status.AttendanceID = &id
		}
		statuses = append(statuses, status)
	}

	_ = s.cache.Set(ctx, key, statuses, 0)
	return statuses, nil
}

// Mark sets a teacher's status for a date, replacing any earlier mark
// for the same day.
func (s *AttendanceService) Mark(ctx context.Context, req MarkAttendanceRequest) (*models.Attendance, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid attendance payload")
	}
	if !req.Status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be present or absent")
	}

	if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}

	record := &models.Attendance{
		TeacherID: req.TeacherID,
		Date:      req.Date,
		Status:    req.Status,
	}
	if err := s.repo.Upsert(ctx, record); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}

	s.logActivity(ctx, record)
	_ = s.cache.Invalidate(ctx, "attendance:*")
	return record, nil
}

func (s *AttendanceService) logActivity(ctx context.Context, record *models.Attendance) {
	entry := &models.ActivityLog{
		Date:      record.Date,
		TeacherID: record.TeacherID,
		Action:    fmt.Sprintf("Marked %s", record.Status),
		Status:    "Completed",
	}
	if err := s.activity.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to write activity log",
			zap.Int64("teacher_id", record.TeacherID),
			zap.String("date", record.Date),
			zap.Error(err))
	}
}
