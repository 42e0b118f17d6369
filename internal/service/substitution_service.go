package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolops/relief-api/internal/dto"
	"github.com/schoolops/relief-api/internal/models"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
)

type substitutionRepository interface {
	ListByDate(ctx context.Context, date string) ([]models.Substitution, error)
	Exists(ctx context.Context, date string, period int, class string, originalTeacherID int64) (bool, error)
	Create(ctx context.Context, sub *models.Substitution) error
	UpdateStatus(ctx context.Context, id int64, status models.SubstitutionStatus) error
}

// AssignSubstitutionRequest assigns cover for one slot. Status is
// optional and defaults to confirmed.
type AssignSubstitutionRequest struct {
	Date                string                    `json:"date" validate:"required,datetime=2006-01-02"`
	Period              int                       `json:"period" validate:"required,min=1"`
	Class               string                    `json:"class" validate:"required"`
	OriginalTeacherID   int64                     `json:"originalTeacherId" validate:"required"`
	SubstituteTeacherID int64                     `json:"substituteTeacherId" validate:"required"`
	Status              models.SubstitutionStatus `json:"status"`
}

// SubstitutionService assigns and reads cover for absent teachers.
type SubstitutionService struct {
	repo       substitutionRepository
	teachers   teacherRepository
	attendance attendanceRepository
	timetable  timetableRepository
	activity   activityWriter
	cache      *CacheService
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewSubstitutionService constructs a SubstitutionService.
func NewSubstitutionService(repo substitutionRepository, teachers teacherRepository, attendance attendanceRepository, timetable timetableRepository, activity activityWriter, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *SubstitutionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubstitutionService{
		repo:       repo,
		teachers:   teachers,
		attendance: attendance,
		timetable:  timetable,
		activity:   activity,
		cache:      cache,
		validator:  validate,
		logger:     logger,
	}
}

// ListByDate returns substitutions for a date enriched with both
// teacher names.
func (s *SubstitutionService) ListByDate(ctx context.Context, date string) ([]dto.SubstitutionView, error) {
	if err := s.validator.Var(date, "required,datetime=2006-01-02"); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}

	key := fmt.Sprintf("substitutions:day:%s", date)
	var cached []dto.SubstitutionView
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return cached, nil
	}

	subs, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list substitutions")
	}

	names, err := s.teacherNames(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]dto.SubstitutionView, 0, len(subs))
	for _, sub := range subs {
		view := dto.SubstitutionView{
			Substitution:          sub,
			OriginalTeacherName:   "Unknown Teacher",
			SubstituteTeacherName: "Unknown Teacher",
		}
		if name, ok := names[sub.OriginalTeacherID]; ok {
			view.OriginalTeacherName = name
		}
		if name, ok := names[sub.SubstituteTeacherID]; ok {
			view.SubstituteTeacherName = name
		}
		views = append(views, view)
	}

	_ = s.cache.Set(ctx, key, views, 0)
	return views, nil
}

// Assign creates a substitution for the given slot. A slot that is
// already covered is rejected with a conflict.
func (s *SubstitutionService) Assign(ctx context.Context, req AssignSubstitutionRequest) (*models.Substitution, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid substitution payload")
	}
	if req.OriginalTeacherID == req.SubstituteTeacherID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "substitute must differ from the original teacher")
	}
	status := req.Status
	if status == "" {
		status = models.SubstitutionStatusConfirmed
	}
	if !status.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be pending, confirmed or completed")
	}

	for _, id := range []int64{req.OriginalTeacherID, req.SubstituteTeacherID} {
		if _, err := s.teachers.FindByID(ctx, id); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
		}
	}

	taken, err := s.repo.Exists(ctx, req.Date, req.Period, req.Class, req.OriginalTeacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot")
	}
	if taken {
		return nil, appErrors.Clone(appErrors.ErrConflict, "slot already has a substitute assigned")
	}

	sub := &models.Substitution{
		Date:                req.Date,
		Period:              req.Period,
		Class:               req.Class,
		OriginalTeacherID:   req.OriginalTeacherID,
		SubstituteTeacherID: req.SubstituteTeacherID,
		Status:              status,
	}
	if err := s.repo.Create(ctx, sub); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create substitution")
	}

	s.logActivity(ctx, sub)
	_ = s.cache.Invalidate(ctx, "substitutions:*")
	return sub, nil
}

// UpdateStatus advances a substitution through its lifecycle.
func (s *SubstitutionService) UpdateStatus(ctx context.Context, id int64, status models.SubstitutionStatus) error {
	if !status.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "status must be pending, confirmed or completed")
	}
	if err := s.repo.UpdateStatus(ctx, id, status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "substitution not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update substitution")
	}
	_ = s.cache.Invalidate(ctx, "substitutions:*")
	return nil
}

// AbsenceBoard builds the per-date cover view: every absent teacher's
// scheduled slots for that weekday, flagged covered when a
// substitution exists.
func (s *SubstitutionService) AbsenceBoard(ctx context.Context, date string) (*dto.AbsenceBoard, error) {
	parsed, err := time.Parse("2006-01-02", date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}
	weekday := parsed.Weekday().String()

	records, err := s.attendance.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance")
	}

	absent := make(map[int64]bool)
	for _, record := range records {
		if record.Status == models.AttendanceStatusAbsent {
			absent[record.TeacherID] = true
		}
	}

	board := &dto.AbsenceBoard{Date: date, Weekday: weekday, Teachers: []dto.AbsentTeacherBoard{}}
	if len(absent) == 0 {
		return board, nil
	}

	entries, err := s.timetable.ListByDay(ctx, weekday)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	subs, err := s.repo.ListByDate(ctx, date)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list substitutions")
	}
	covered := make(map[string]int64, len(subs))
	for _, sub := range subs {
		covered[slotKey(sub.Period, sub.Class, sub.OriginalTeacherID)] = sub.ID
	}

	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}

	slotsByTeacher := make(map[int64][]dto.AbsentSlot)
	for _, entry := range entries {
		if !absent[entry.TeacherID] {
			continue
		}
		slot := dto.AbsentSlot{Period: entry.Period, Class: entry.Class}
		if subID, ok := covered[slotKey(entry.Period, entry.Class, entry.TeacherID)]; ok {
			slot.Covered = true
			id := subID
			slot.SubstitutionID = &id
		}
		slotsByTeacher[entry.TeacherID] = append(slotsByTeacher[entry.TeacherID], slot)
	}

	for _, teacher := range teachers {
		if !absent[teacher.ID] {
			continue
		}
		slots := slotsByTeacher[teacher.ID]
		if slots == nil {
			slots = []dto.AbsentSlot{}
		}
		board.Teachers = append(board.Teachers, dto.AbsentTeacherBoard{
			TeacherID:   teacher.ID,
			TeacherName: teacher.Name,
			Initials:    teacher.Initials,
			Slots:       slots,
		})
	}
	return board, nil
}

func (s *SubstitutionService) teacherNames(ctx context.Context) (map[int64]string, error) {
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

func (s *SubstitutionService) logActivity(ctx context.Context, sub *models.Substitution) {
	entry := &models.ActivityLog{
		Date:      sub.Date,
		TeacherID: sub.SubstituteTeacherID,
		Action:    fmt.Sprintf("Substituted Class %s", sub.Class),
		Status:    "Assigned",
	}
	if err := s.activity.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to write activity log",
			zap.Int64("substitution_id", sub.ID),
			zap.Error(err))
	}
}

func slotKey(period int, class string, teacherID int64) string {
	return fmt.Sprintf("%d|%s|%d", period, class, teacherID)
}
