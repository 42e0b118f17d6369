package dto

import "github.com/schoolops/relief-api/internal/models"

// RosterImportSummary reports the outcome of a teacher roster upload.
type RosterImportSummary struct {
	Total       int              `json:"total"`
	Created     int              `json:"created"`
	Skipped     int              `json:"skipped"`
	NewTeachers []models.Teacher `json:"teachers"`
}

// TimetableImportSummary reports the outcome of a timetable upload.
// Total and Skipped count CSV data rows; Created counts the timetable
// entries produced from their class cells.
type TimetableImportSummary struct {
	Total       int              `json:"total"`
	Created     int              `json:"created"`
	Skipped     int              `json:"skipped"`
	NewTeachers []models.Teacher `json:"newTeachers"`
}
