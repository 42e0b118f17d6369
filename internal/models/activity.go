package models

import "time"

// ActivityLog is an append-only audit record of a state-changing action.
type ActivityLog struct {
	ID        int64     `db:"id" json:"id"`
	Date      string    `db:"date" json:"date"`
	TeacherID int64     `db:"teacher_id" json:"teacherId"`
	Action    string    `db:"action" json:"action"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
