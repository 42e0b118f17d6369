package dto

import "github.com/schoolops/relief-api/internal/models"

// TeacherDayStatus reports one teacher's status for a requested date.
// Teachers without an attendance record default to present, in which
// case AttendanceID is null.
type TeacherDayStatus struct {
	TeacherID    int64                   `json:"teacherId"`
	Name         string                  `json:"name"`
	PhoneNumber  *string                 `json:"phoneNumber"`
	Initials     string                  `json:"initials"`
	Status       models.AttendanceStatus `json:"status"`
	AttendanceID *int64                  `json:"attendanceId"`
}
