package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolops/relief-api/internal/models"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
)

type mockTeacherRepo struct {
	teachers []models.Teacher
	nextID   int64
}

func (m *mockTeacherRepo) List(ctx context.Context) ([]models.Teacher, error) {
	return append([]models.Teacher{}, m.teachers...), nil
}

func (m *mockTeacherRepo) FindByID(ctx context.Context, id int64) (*models.Teacher, error) {
	for i := range m.teachers {
		if m.teachers[i].ID == id {
			cp := m.teachers[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) FindByName(ctx context.Context, name string) (*models.Teacher, error) {
	for i := range m.teachers {
		if strings.EqualFold(m.teachers[i].Name, name) {
			cp := m.teachers[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockTeacherRepo) Create(ctx context.Context, teacher *models.Teacher) error {
	for i := range m.teachers {
		if strings.EqualFold(m.teachers[i].Name, teacher.Name) {
			return appErrors.Clone(appErrors.ErrConflict, "teacher name already registered")
		}
	}
	for i := range m.teachers {
		if m.teachers[i].ID > m.nextID {
			m.nextID = m.teachers[i].ID
		}
	}
	m.nextID++
	teacher.ID = m.nextID
	m.teachers = append(m.teachers, *teacher)
	return nil
}

func (m *mockTeacherRepo) Update(ctx context.Context, teacher *models.Teacher) error {
	for i := range m.teachers {
		if m.teachers[i].ID == teacher.ID {
			m.teachers[i] = *teacher
			return nil
		}
	}
	return sql.ErrNoRows
}

func newTeacherService(repo *mockTeacherRepo) *TeacherService {
	return NewTeacherService(repo, nil, validator.New(), zap.NewNop())
}

func TestTeacherServiceCreateNormalizes(t *testing.T) {
	repo := &mockTeacherRepo{}
	svc := newTeacherService(repo)

	teacher, err := svc.Create(context.Background(), CreateTeacherRequest{Name: "  jane   DOE "})
	require.NoError(t, err)
	assert.Equal(t, "Jane DOE", teacher.Name)
	assert.Equal(t, "JD", teacher.Initials)
	assert.NotZero(t, teacher.ID)
}

func TestTeacherServiceCreateRejectsDuplicates(t *testing.T) {
	repo := &mockTeacherRepo{}
	svc := newTeacherService(repo)

	_, err := svc.Create(context.Background(), CreateTeacherRequest{Name: "Jane Doe"})
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), CreateTeacherRequest{Name: "JANE   DOE"})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Len(t, repo.teachers, 1)
}

func TestTeacherServiceCreateRejectsBlankName(t *testing.T) {
	svc := newTeacherService(&mockTeacherRepo{})

	_, err := svc.Create(context.Background(), CreateTeacherRequest{Name: "   "})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTeacherServiceResolveReusesExisting(t *testing.T) {
	repo := &mockTeacherRepo{}
	svc := newTeacherService(repo)

	first, created, err := svc.Resolve(context.Background(), " jane DOE ", nil)
	require.NoError(t, err)
	assert.True(t, created)

	phone := "555-0100"
	second, created, err := svc.Resolve(context.Background(), "Jane Doe", &phone)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	// Existing record wins: the late phone number is discarded.
	assert.Nil(t, second.PhoneNumber)
	assert.Len(t, repo.teachers, 1)
}

func TestTeacherServiceGetNotFound(t *testing.T) {
	svc := newTeacherService(&mockTeacherRepo{})

	_, err := svc.Get(context.Background(), 42)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
