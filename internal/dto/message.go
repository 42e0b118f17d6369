package dto

import "github.com/schoolops/relief-api/internal/models"

// MessageView is a message enriched with recipient name and phone.
type MessageView struct {
	models.Message
	TeacherName string  `json:"teacherName"`
	PhoneNumber *string `json:"phoneNumber"`
}
