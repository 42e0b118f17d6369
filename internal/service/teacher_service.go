package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolops/relief-api/internal/models"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
)

type teacherRepository interface {
	List(ctx context.Context) ([]models.Teacher, error)
	FindByID(ctx context.Context, id int64) (*models.Teacher, error)
	FindByName(ctx context.Context, name string) (*models.Teacher, error)
	Create(ctx context.Context, teacher *models.Teacher) error
	Update(ctx context.Context, teacher *models.Teacher) error
}

// CreateTeacherRequest represents payload for registering teachers.
type CreateTeacherRequest struct {
	Name        string  `json:"name" validate:"required"`
	PhoneNumber *string `json:"phoneNumber" validate:"omitempty,max=50"`
}

// TeacherService is the roster registry: it guarantees at most one
// teacher per case-insensitively normalized name.
type TeacherService struct {
	repo      teacherRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTeacherService constructs a TeacherService.
func NewTeacherService(repo teacherRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *TeacherService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TeacherService{repo: repo, cache: cache, validator: validate, logger: logger}
}

const teacherListCacheKey = "teachers:list"

// List returns the full roster.
func (s *TeacherService) List(ctx context.Context) ([]models.Teacher, error) {
	var cached []models.Teacher
	if hit, _ := s.cache.Get(ctx, teacherListCacheKey, &cached); hit {
		return cached, nil
	}

	teachers, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}

	_ = s.cache.Set(ctx, teacherListCacheKey, teachers, 0)
	return teachers, nil
}

// Get returns a teacher by id.
func (s *TeacherService) Get(ctx context.Context, id int64) (*models.Teacher, error) {
	teacher, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
	}
	return teacher, nil
}

// Create registers a new teacher with a normalized name and derived
// initials. A duplicate normalized name is rejected.
func (s *TeacherService) Create(ctx context.Context, req CreateTeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	name := NormalizeName(req.Name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher name must not be empty")
	}

	teacher := &models.Teacher{
		Name:        name,
		PhoneNumber: normalizeOptional(req.PhoneNumber),
		Initials:    Initials(name),
	}
	if err := s.repo.Create(ctx, teacher); err != nil {
		var appErr *appErrors.Error
		if errors.As(err, &appErr) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}

	s.invalidate(ctx)
	return teacher, nil
}

// Resolve maps a raw name to a teacher id, creating the teacher when
// unknown. Existing records win entirely: a phone number supplied for
// a known name is discarded (first write wins). The returned flag is
// true when a new record was created.
func (s *TeacherService) Resolve(ctx context.Context, rawName string, phoneNumber *string) (*models.Teacher, bool, error) {
	name := NormalizeName(rawName)
	if name == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "teacher name must not be empty")
	}

	teacher, err := s.repo.FindByName(ctx, name)
	if err == nil {
		return teacher, false, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve teacher")
	}

	created := &models.Teacher{
		Name:        name,
		PhoneNumber: normalizeOptional(phoneNumber),
		Initials:    Initials(name),
	}
	if err := s.repo.Create(ctx, created); err != nil {
		// A concurrent import may have won the insert; fall back to
		// the record that beat us.
		appErr := appErrors.FromError(err)
		if appErr.Code == appErrors.ErrConflict.Code {
			existing, findErr := s.repo.FindByName(ctx, name)
			if findErr == nil {
				return existing, false, nil
			}
		}
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher")
	}

	s.invalidate(ctx)
	return created, true, nil
}

func (s *TeacherService) invalidate(ctx context.Context) {
	_ = s.cache.Invalidate(ctx, "teachers:*")
	_ = s.cache.Invalidate(ctx, "attendance:*")
	_ = s.cache.Invalidate(ctx, "timetable:*")
}

func normalizeOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
