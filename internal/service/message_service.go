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
	"github.com/schoolops/relief-api/pkg/jobs"
)

type messageRepository interface {
	List(ctx context.Context) ([]models.Message, error)
	Create(ctx context.Context, msg *models.Message) error
	UpdateStatus(ctx context.Context, id int64, status models.MessageStatus) error
}

type dispatchQueue interface {
	Enqueue(job jobs.Job) error
}

// CreateMessageRequest composes one notification for a teacher.
type CreateMessageRequest struct {
	TeacherID int64  `json:"teacherId" validate:"required"`
	Message   string `json:"message" validate:"required"`
	Date      string `json:"date" validate:"required,datetime=2006-01-02"`
}

// MessageDispatchPayload is carried by queued dispatch jobs.
type MessageDispatchPayload struct {
	MessageID int64
	TeacherID int64
	Date      string
}

// MessageService stores notifications and advances their delivery
// status. No real transport is attached; dispatch is a status
// transition plus an activity feed entry.
type MessageService struct {
	repo      messageRepository
	teachers  teacherRepository
	activity  activityWriter
	queue     dispatchQueue
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMessageService constructs a MessageService. The queue may be nil,
// in which case dispatch runs synchronously at creation time.
func NewMessageService(repo messageRepository, teachers teacherRepository, activity activityWriter, validate *validator.Validate, logger *zap.Logger) *MessageService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MessageService{repo: repo, teachers: teachers, activity: activity, validator: validate, logger: logger}
}

// AttachQueue wires the background dispatch queue.
func (s *MessageService) AttachQueue(queue dispatchQueue) {
	s.queue = queue
}

// List returns all messages enriched with recipient details.
func (s *MessageService) List(ctx context.Context) ([]dto.MessageView, error) {
	messages, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list messages")
	}

	teachers, err := s.teachers.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teachers")
	}
	byID := make(map[int64]models.Teacher, len(teachers))
	for _, teacher := range teachers {
		byID[teacher.ID] = teacher
	}

	views := make([]dto.MessageView, 0, len(messages))
	for _, msg := range messages {
		view := dto.MessageView{Message: msg, TeacherName: "Unknown Teacher"}
		if teacher, ok := byID[msg.TeacherID]; ok {
			view.TeacherName = teacher.Name
			view.PhoneNumber = teacher.PhoneNumber
		}
		views = append(views, view)
	}
	return views, nil
}

// Create stores one or more pending messages and schedules their
// dispatch. Each message is validated and its recipient must exist.
func (s *MessageService) Create(ctx context.Context, reqs []CreateMessageRequest) ([]models.Message, error) {
	if len(reqs) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one message is required")
	}

	created := make([]models.Message, 0, len(reqs))
	for _, req := range reqs {
		if err := s.validator.Struct(req); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid message payload")
		}
		if _, err := s.teachers.FindByID(ctx, req.TeacherID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("teacher %d not found", req.TeacherID))
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load teacher")
		}

		msg := models.Message{
			TeacherID: req.TeacherID,
			Message:   req.Message,
			Date:      req.Date,
			Status:    models.MessageStatusPending,
		}
		if err := s.repo.Create(ctx, &msg); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store message")
		}
		created = append(created, msg)
	}

	for _, msg := range created {
		s.scheduleDispatch(ctx, msg)
	}
	return created, nil
}

// Dispatch advances a message to sent then delivered and records the
// notification in the activity feed. It is the queue job handler.
func (s *MessageService) Dispatch(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(MessageDispatchPayload)
	if !ok {
		return fmt.Errorf("unexpected dispatch payload %T", job.Payload)
	}
	return s.dispatch(ctx, payload)
}

func (s *MessageService) scheduleDispatch(ctx context.Context, msg models.Message) {
	payload := MessageDispatchPayload{MessageID: msg.ID, TeacherID: msg.TeacherID, Date: msg.Date}
	if s.queue != nil {
		err := s.queue.Enqueue(jobs.Job{Type: "message.dispatch", Payload: payload})
		if err == nil {
			return
		}
		s.logger.Warn("failed to enqueue dispatch, running inline", zap.Int64("message_id", msg.ID), zap.Error(err))
	}
	if err := s.dispatch(ctx, payload); err != nil {
		s.logger.Warn("inline dispatch failed", zap.Int64("message_id", msg.ID), zap.Error(err))
	}
}

func (s *MessageService) dispatch(ctx context.Context, payload MessageDispatchPayload) error {
	if err := s.repo.UpdateStatus(ctx, payload.MessageID, models.MessageStatusSent); err != nil {
		return fmt.Errorf("mark message %d sent: %w", payload.MessageID, err)
	}
	if err := s.repo.UpdateStatus(ctx, payload.MessageID, models.MessageStatusDelivered); err != nil {
		return fmt.Errorf("mark message %d delivered: %w", payload.MessageID, err)
	}

	entry := &models.ActivityLog{
		Date:      payload.Date,
		TeacherID: payload.TeacherID,
		Action:    "SMS Sent",
		Status:    "Delivered",
	}
	if err := s.activity.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to write activity log", zap.Int64("message_id", payload.MessageID), zap.Error(err))
	}
	return nil
}
