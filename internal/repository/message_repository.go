package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolops/relief-api/internal/models"
)

// MessageRepository manages notification records.
type MessageRepository struct {
	db *sqlx.DB
}

// NewMessageRepository constructs a MessageRepository.
func NewMessageRepository(db *sqlx.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// List returns all messages ordered newest first.
func (r *MessageRepository) List(ctx context.Context) ([]models.Message, error) {
	const query = `SELECT id, teacher_id, message, date, status, created_at FROM messages ORDER BY created_at DESC, id DESC`
	messages := []models.Message{}
	if err := r.db.SelectContext(ctx, &messages, query); err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// Create inserts a message record.
func (r *MessageRepository) Create(ctx context.Context, msg *models.Message) error {
	const query = `INSERT INTO messages (teacher_id, message, date, status)
		VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	if err := r.db.QueryRowxContext(ctx, query, msg.TeacherID, msg.Message, msg.Date, msg.Status).
		Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return fmt.Errorf("create message: %w", err)
	}
	return nil
}

// UpdateStatus advances a message's delivery lifecycle.
func (r *MessageRepository) UpdateStatus(ctx context.Context, id int64, status models.MessageStatus) error {
	const query = `UPDATE messages SET status = $2 WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id, status)
	if err != nil {
		return fmt.Errorf("update message status: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
