package dto

import "github.com/schoolops/relief-api/internal/models"

// TimetableEntryView is a timetable row enriched with the owning
// teacher's display name.
type TimetableEntryView struct {
	models.TimetableEntry
	TeacherName string `json:"teacherName"`
}
