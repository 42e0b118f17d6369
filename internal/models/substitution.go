package models

import "time"

// SubstitutionStatus tracks the lifecycle of a cover assignment.
type SubstitutionStatus string

const (
	SubstitutionStatusPending   SubstitutionStatus = "pending"
	SubstitutionStatusConfirmed SubstitutionStatus = "confirmed"
	SubstitutionStatusCompleted SubstitutionStatus = "completed"
)

// Valid returns true when the status is a supported value.
func (s SubstitutionStatus) Valid() bool {
	switch s {
	case SubstitutionStatusPending, SubstitutionStatusConfirmed, SubstitutionStatusCompleted:
		return true
	default:
		return false
	}
}

// Substitution reassigns an absent teacher's class for one period on a
// specific date. The store enforces at most one substitution per
// (date, period, class, original teacher) slot.
type Substitution struct {
	ID                  int64              `db:"id" json:"id"`
	Date                string             `db:"date" json:"date"`
	Period              int                `db:"period" json:"period"`
	Class               string             `db:"class" json:"class"`
	OriginalTeacherID   int64              `db:"original_teacher_id" json:"originalTeacherId"`
	SubstituteTeacherID int64              `db:"substitute_teacher_id" json:"substituteTeacherId"`
	Status              SubstitutionStatus `db:"status" json:"status"`
	CreatedAt           time.Time          `db:"created_at" json:"createdAt"`
}
