package service

import (
	"context"
	"database/sql"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolops/relief-api/internal/models"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
)

type mockSubstitutionRepo struct {
	subs   []models.Substitution
	nextID int64
}

func (m *mockSubstitutionRepo) ListByDate(ctx context.Context, date string) ([]models.Substitution, error) {
	out := []models.Substitution{}
	for _, sub := range m.subs {
		if sub.Date == date {
			out = append(out, sub)
		}
	}
	return out, nil
}

func (m *mockSubstitutionRepo) Exists(ctx context.Context, date string, period int, class string, originalTeacherID int64) (bool, error) {
	for _, sub := range m.subs {
		if sub.Date == date && sub.Period == period && sub.Class == class && sub.OriginalTeacherID == originalTeacherID {
			return true, nil
		}
	}
	return false, nil
}

func (m *mockSubstitutionRepo) Create(ctx context.Context, sub *models.Substitution) error {
	m.nextID++
	sub.ID = m.nextID
	sub.CreatedAt = time.Now()
	m.subs = append(m.subs, *sub)
	return nil
}

func (m *mockSubstitutionRepo) UpdateStatus(ctx context.Context, id int64, status models.SubstitutionStatus) error {
	for i := range m.subs {
		if m.subs[i].ID == id {
			m.subs[i].Status = status
			return nil
		}
	}
	return sql.ErrNoRows
}

type mockTimetableRepo struct {
	entries []models.TimetableEntry
	nextID  int64
}

func (m *mockTimetableRepo) List(ctx context.Context) ([]models.TimetableEntry, error) {
	return append([]models.TimetableEntry{}, m.entries...), nil
}

func (m *mockTimetableRepo) ListByDay(ctx context.Context, day string) ([]models.TimetableEntry, error) {
	out := []models.TimetableEntry{}
	for _, entry := range m.entries {
		if strings.EqualFold(entry.Day, day) {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (m *mockTimetableRepo) ListByTeacher(ctx context.Context, teacherID int64) ([]models.TimetableEntry, error) {
	out := []models.TimetableEntry{}
	for _, entry := range m.entries {
		if entry.TeacherID == teacherID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (m *mockTimetableRepo) BulkCreate(ctx context.Context, entries []models.TimetableEntry) ([]models.TimetableEntry, error) {
	created := make([]models.TimetableEntry, 0, len(entries))
	for _, entry := range entries {
		m.nextID++
		entry.ID = m.nextID
		m.entries = append(m.entries, entry)
		created = append(created, entry)
	}
	return created, nil
}

func newSubstitutionService(subs *mockSubstitutionRepo, teachers *mockTeacherRepo, attendance *mockAttendanceRepo, timetable *mockTimetableRepo, activity *mockActivityRepo) *SubstitutionService {
	return NewSubstitutionService(subs, teachers, attendance, timetable, activity, nil, validator.New(), zap.NewNop())
}

func TestSubstitutionAssign(t *testing.T) {
	teachers := &mockTeacherRepo{teachers: []models.Teacher{
		{ID: 1, Name: "Jane Doe"},
		{ID: 2, Name: "John Smith"},
	}}
	subs := &mockSubstitutionRepo{}
	activity := &mockActivityRepo{}
	svc := newSubstitutionService(subs, teachers, &mockAttendanceRepo{}, &mockTimetableRepo{}, activity)

	sub, err := svc.Assign(context.Background(), AssignSubstitutionRequest{
		Date:                "2026-08-31",
		Period:              3,
		Class:               "10A",
		OriginalTeacherID:   1,
		SubstituteTeacherID: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubstitutionStatusConfirmed, sub.Status)

	require.Len(t, activity.entries, 1)
	assert.Equal(t, "Substituted Class 10A", activity.entries[0].Action)
	assert.Equal(t, "Assigned", activity.entries[0].Status)
	assert.Equal(t, int64(2), activity.entries[0].TeacherID)
}

func TestSubstitutionAssignRejectsDuplicateSlot(t *testing.T) {
	teachers := &mockTeacherRepo{teachers: []models.Teacher{
		{ID: 1, Name: "Jane Doe"},
		{ID: 2, Name: "John Smith"},
		{ID: 3, Name: "Mary Major"},
	}}
	subs := &mockSubstitutionRepo{}
	svc := newSubstitutionService(subs, teachers, &mockAttendanceRepo{}, &mockTimetableRepo{}, &mockActivityRepo{})

	req := AssignSubstitutionRequest{
		Date:                "2026-08-31",
		Period:              3,
		Class:               "10A",
		OriginalTeacherID:   1,
		SubstituteTeacherID: 2,
	}
	_, err := svc.Assign(context.Background(), req)
	require.NoError(t, err)

	req.SubstituteTeacherID = 3
	_, err = svc.Assign(context.Background(), req)
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Equal(t, 409, appErr.Status)
	assert.Len(t, subs.subs, 1)
}

func TestSubstitutionAssignStatusOverride(t *testing.T) {
	teachers := &mockTeacherRepo{teachers: []models.Teacher{
		{ID: 1, Name: "Jane Doe"},
		{ID: 2, Name: "John Smith"},
	}}
	svc := newSubstitutionService(&mockSubstitutionRepo{}, teachers, &mockAttendanceRepo{}, &mockTimetableRepo{}, &mockActivityRepo{})

	sub, err := svc.Assign(context.Background(), AssignSubstitutionRequest{
		Date:                "2026-08-31",
		Period:              1,
		Class:               "10A",
		OriginalTeacherID:   1,
		SubstituteTeacherID: 2,
		Status:              models.SubstitutionStatusPending,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SubstitutionStatusPending, sub.Status)

	_, err = svc.Assign(context.Background(), AssignSubstitutionRequest{
		Date:                "2026-08-31",
		Period:              2,
		Class:               "10A",
		OriginalTeacherID:   1,
		SubstituteTeacherID: 2,
		Status:              "cancelled",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubstitutionAssignRejectsSelfCover(t *testing.T) {
	teachers := &mockTeacherRepo{teachers: []models.Teacher{{ID: 1, Name: "Jane Doe"}}}
	svc := newSubstitutionService(&mockSubstitutionRepo{}, teachers, &mockAttendanceRepo{}, &mockTimetableRepo{}, &mockActivityRepo{})

	_, err := svc.Assign(context.Background(), AssignSubstitutionRequest{
		Date:                "2026-08-31",
		Period:              1,
		Class:               "10A",
		OriginalTeacherID:   1,
		SubstituteTeacherID: 1,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestSubstitutionAbsenceBoard(t *testing.T) {
	// 2026-08-31 is a Monday.
	teachers := &mockTeacherRepo{teachers: []models.Teacher{
		{ID: 1, Name: "Jane Doe", Initials: "JD"},
		{ID: 2, Name: "John Smith", Initials: "JS"},
	}}
	attendance := &mockAttendanceRepo{records: []models.Attendance{
		{ID: 1, TeacherID: 1, Date: "2026-08-31", Status: models.AttendanceStatusAbsent},
	}}
	timetable := &mockTimetableRepo{entries: []models.TimetableEntry{
		{ID: 1, Day: "Monday", Period: 1, Class: "10A", TeacherID: 1},
		{ID: 2, Day: "Monday", Period: 2, Class: "10B", TeacherID: 1},
		{ID: 3, Day: "Monday", Period: 1, Class: "11C", TeacherID: 2},
		{ID: 4, Day: "Tuesday", Period: 1, Class: "10A", TeacherID: 1},
	}}
	subs := &mockSubstitutionRepo{subs: []models.Substitution{
		{ID: 7, Date: "2026-08-31", Period: 1, Class: "10A", OriginalTeacherID: 1, SubstituteTeacherID: 2, Status: models.SubstitutionStatusConfirmed},
	}}
	svc := newSubstitutionService(subs, teachers, attendance, timetable, &mockActivityRepo{})

	board, err := svc.AbsenceBoard(context.Background(), "2026-08-31")
	require.NoError(t, err)
	assert.Equal(t, "Monday", board.Weekday)
	require.Len(t, board.Teachers, 1)

	entry := board.Teachers[0]
	assert.Equal(t, int64(1), entry.TeacherID)
	require.Len(t, entry.Slots, 2)

	assert.True(t, entry.Slots[0].Covered)
	require.NotNil(t, entry.Slots[0].SubstitutionID)
	assert.Equal(t, int64(7), *entry.Slots[0].SubstitutionID)
	assert.False(t, entry.Slots[1].Covered)
}

func TestSubstitutionUpdateStatusNotFound(t *testing.T) {
	svc := newSubstitutionService(&mockSubstitutionRepo{}, &mockTeacherRepo{}, &mockAttendanceRepo{}, &mockTimetableRepo{}, &mockActivityRepo{})

	err := svc.UpdateStatus(context.Background(), 99, models.SubstitutionStatusCompleted)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
