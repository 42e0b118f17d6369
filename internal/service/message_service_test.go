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

type mockMessageRepo struct {
	messages    []models.Message
	transitions []models.MessageStatus
	nextID      int64
}

func (m *mockMessageRepo) List(ctx context.Context) ([]models.Message, error) {
	return append([]models.Message{}, m.messages...), nil
}

func (m *mockMessageRepo) Create(ctx context.Context, msg *models.Message) error {
	m.nextID++
	msg.ID = m.nextID
	msg.CreatedAt = time.Now()
	m.messages = append(m.messages, *msg)
	return nil
}

func (m *mockMessageRepo) UpdateStatus(ctx context.Context, id int64, status models.MessageStatus) error {
	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages[i].Status = status
			m.transitions = append(m.transitions, status)
			return nil
		}
	}
	return nil
}

func TestMessageCreateDispatchesInline(t *testing.T) {
	teachers := &mockTeacherRepo{teachers: []models.Teacher{{ID: 1, Name: "Jane Doe"}}}
	repo := &mockMessageRepo{}
	activity := &mockActivityRepo{}
	svc := NewMessageService(repo, teachers, activity, validator.New(), zap.NewNop())

	created, err := svc.Create(context.Background(), []CreateMessageRequest{
		{TeacherID: 1, Message: "You are covering 10A period 3", Date: "2026-08-31"},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)

	// With no queue attached dispatch runs synchronously.
	assert.Equal(t, []models.MessageStatus{models.MessageStatusSent, models.MessageStatusDelivered}, repo.transitions)
	assert.Equal(t, models.MessageStatusDelivered, repo.messages[0].Status)

	require.Len(t, activity.entries, 1)
	assert.Equal(t, "SMS Sent", activity.entries[0].Action)
	assert.Equal(t, "Delivered", activity.entries[0].Status)
}

func TestMessageCreateBatch(t *testing.T) {
	teachers := &mockTeacherRepo{teachers: []models.Teacher{
		{ID: 1, Name: "Jane Doe"},
		{ID: 2, Name: "John Smith"},
	}}
	repo := &mockMessageRepo{}
	svc := NewMessageService(repo, teachers, &mockActivityRepo{}, validator.New(), zap.NewNop())

	created, err := svc.Create(context.Background(), []CreateMessageRequest{
		{TeacherID: 1, Message: "first", Date: "2026-08-31"},
		{TeacherID: 2, Message: "second", Date: "2026-08-31"},
	})
	require.NoError(t, err)
	assert.Len(t, created, 2)
	assert.Len(t, repo.messages, 2)
}

func TestMessageCreateUnknownTeacher(t *testing.T) {
	svc := NewMessageService(&mockMessageRepo{}, &mockTeacherRepo{}, &mockActivityRepo{}, validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), []CreateMessageRequest{
		{TeacherID: 7, Message: "hello", Date: "2026-08-31"},
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestMessageListEnriches(t *testing.T) {
	phone := "555-0100"
	teachers := &mockTeacherRepo{teachers: []models.Teacher{{ID: 1, Name: "Jane Doe", PhoneNumber: &phone}}}
	repo := &mockMessageRepo{messages: []models.Message{
		{ID: 1, TeacherID: 1, Message: "hi", Date: "2026-08-31", Status: models.MessageStatusDelivered},
		{ID: 2, TeacherID: 9, Message: "orphan", Date: "2026-08-31", Status: models.MessageStatusPending},
	}}
	svc := NewMessageService(repo, teachers, &mockActivityRepo{}, validator.New(), zap.NewNop())

	views, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, "Jane Doe", views[0].TeacherName)
	require.NotNil(t, views[0].PhoneNumber)
	assert.Equal(t, "555-0100", *views[0].PhoneNumber)
	assert.Equal(t, "Unknown Teacher", views[1].TeacherName)
}
