package dto

import "github.com/schoolops/relief-api/internal/models"

// ActivityLogView is a feed entry enriched with the teacher's name.
type ActivityLogView struct {
	models.ActivityLog
	TeacherName string `json:"teacherName"`
}
