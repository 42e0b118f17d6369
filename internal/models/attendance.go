package models

import "time"

// AttendanceStatus is the per-day mark for a teacher.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
)

// Valid returns true when the status is a supported value.
func (s AttendanceStatus) Valid() bool {
	switch s {
	case AttendanceStatusPresent, AttendanceStatusAbsent:
		return true
	default:
		return false
	}
}

// Attendance records one teacher's status for one calendar day.
// At most one row exists per (teacher, date); absence is opt-in, a
// teacher without a row counts as present.
type Attendance struct {
	ID        int64            `db:"id" json:"id"`
	TeacherID int64            `db:"teacher_id" json:"teacherId"`
	Date      string           `db:"date" json:"date"`
	Status    AttendanceStatus `db:"status" json:"status"`
	CreatedAt time.Time        `db:"created_at" json:"createdAt"`
}
