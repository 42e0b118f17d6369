package models

import "time"

// MessageStatus tracks the delivery lifecycle of a notification.
type MessageStatus string

const (
	MessageStatusPending   MessageStatus = "pending"
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusFailed    MessageStatus = "failed"
)

// Valid returns true when the status is a supported value.
func (s MessageStatus) Valid() bool {
	switch s {
	case MessageStatusPending, MessageStatusSent, MessageStatusDelivered, MessageStatusFailed:
		return true
	default:
		return false
	}
}

// Message is a composed SMS-style notification. No transport is
// attached; dispatch only advances the status and writes the activity
// feed.
type Message struct {
	ID        int64         `db:"id" json:"id"`
	TeacherID int64         `db:"teacher_id" json:"teacherId"`
	Message   string        `db:"message" json:"message"`
	Date      string        `db:"date" json:"date"`
	Status    MessageStatus `db:"status" json:"status"`
	CreatedAt time.Time     `db:"created_at" json:"createdAt"`
}
