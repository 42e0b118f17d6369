package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolops/relief-api/internal/models"
	appErrors "github.com/schoolops/relief-api/pkg/errors"
)

type mockAttendanceRepo struct {
	records []models.Attendance
	nextID  int64
}

func (m *mockAttendanceRepo) ListByDate(ctx context.Context, date string) ([]models.Attendance, error) {
	out := []models.Attendance{}
	for _, record := range m.records {
		if record.Date == date {
			out = append(out, record)
		}
	}
	return out, nil
}

func (m *mockAttendanceRepo) Upsert(ctx context.Context, record *models.Attendance) error {
	for i := range m.records {
		if m.records[i].TeacherID == record.TeacherID && m.records[i].Date == record.Date {
			m.records[i].Status = record.Status
			record.ID = m.records[i].ID
			record.CreatedAt = m.records[i].CreatedAt
			return nil
		}
	}
	m.nextID++
	record.ID = m.nextID
	record.CreatedAt = time.Now()
	m.records = append(m.records, *record)
	return nil
}

type mockActivityRepo struct {
	entries []models.ActivityLog
}

func (m *mockActivityRepo) List(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	out := append([]models.ActivityLog{}, m.entries...)
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *mockActivityRepo) Create(ctx context.Context, log *models.ActivityLog) error {
	log.ID = int64(len(m.entries) + 1)
	log.CreatedAt = time.Now()
	m.entries = append(m.entries, *log)
	return nil
}

func TestAttendanceDailyStatusDefaultsToPresent(t *testing.T) {
	teachers := &mockTeacherRepo{teachers: []models.Teacher{
		{ID: 1, Name: "Jane Doe", Initials: "JD"},
		{ID: 2, Name: "John Smith", Initials: "JS"},
	}}
	attendance := &mockAttendanceRepo{records: []models.Attendance{
		{ID: 10, TeacherID: 2, Date: "2026-08-31", Status: models.AttendanceStatusAbsent},
	}}
	svc := NewAttendanceService(attendance, teachers, &mockActivityRepo{}, nil, validator.New(), zap.NewNop())

	statuses, err := svc.DailyStatus(context.Background(), "2026-08-31")
	require.NoError(t, err)
	require.Len(t, statuses, 2)

	assert.Equal(t, models.AttendanceStatusPresent, statuses[0].Status)
	assert.Nil(t, statuses[0].AttendanceID)

	assert.Equal(t, models.AttendanceStatusAbsent, statuses[1].Status)
	require.NotNil(t, statuses[1].AttendanceID)
	assert.Equal(t, int64(10), *statuses[1].AttendanceID)
}

func TestAttendanceMarkUpsertsAndLogs(t *testing.T) {
	teachers := &mockTeacherRepo{teachers: []models.Teacher{{ID: 1, Name: "Jane Doe"}}}
	attendance := &mockAttendanceRepo{}
	activity := &mockActivityRepo{}
	svc := NewAttendanceService(attendance, teachers, activity, nil, validator.New(), zap.NewNop())

	record, err := svc.Mark(context.Background(), MarkAttendanceRequest{TeacherID: 1, Date: "2026-08-31", Status: models.AttendanceStatusAbsent})
	require.NoError(t, err)
	assert.Equal(t, models.AttendanceStatusAbsent, record.Status)

	// Marking again for the same day replaces rather than duplicates.
	record2, err := svc.Mark(context.Background(), MarkAttendanceRequest{TeacherID: 1, Date: "2026-08-31", Status: models.AttendanceStatusPresent})
	require.NoError(t, err)
	assert.Equal(t, record.ID, record2.ID)
	assert.Len(t, attendance.records, 1)

	require.Len(t, activity.entries, 2)
	assert.Equal(t, "Marked absent", activity.entries[0].Action)
	assert.Equal(t, "Completed", activity.entries[0].Status)
	assert.Equal(t, "Marked present", activity.entries[1].Action)
}

func TestAttendanceMarkUnknownTeacher(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, &mockTeacherRepo{}, &mockActivityRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{TeacherID: 99, Date: "2026-08-31", Status: models.AttendanceStatusAbsent})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestAttendanceMarkRejectsBadDate(t *testing.T) {
	svc := NewAttendanceService(&mockAttendanceRepo{}, &mockTeacherRepo{}, &mockActivityRepo{}, nil, validator.New(), zap.NewNop())

	_, err := svc.Mark(context.Background(), MarkAttendanceRequest{TeacherID: 1, Date: "31/08/2026", Status: models.AttendanceStatusAbsent})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
