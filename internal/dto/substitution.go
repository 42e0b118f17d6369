package dto

import "github.com/schoolops/relief-api/internal/models"

// SubstitutionView is a substitution enriched with both teacher names.
type SubstitutionView struct {
	models.Substitution
	OriginalTeacherName   string `json:"originalTeacherName"`
	SubstituteTeacherName string `json:"substituteTeacherName"`
}

// AbsentSlot is one uncovered or covered period owned by an absent
// teacher on a given date.
type AbsentSlot struct {
	Period         int    `json:"period"`
	Class          string `json:"class"`
	Covered        bool   `json:"covered"`
	SubstitutionID *int64 `json:"substitutionId,omitempty"`
}

// AbsentTeacherBoard groups an absent teacher's slots for a date.
type AbsentTeacherBoard struct {
	TeacherID   int64        `json:"teacherId"`
	TeacherName string       `json:"teacherName"`
	Initials    string       `json:"initials"`
	Slots       []AbsentSlot `json:"slots"`
}

// AbsenceBoard is the full per-date view used to assign cover.
type AbsenceBoard struct {
	Date     string               `json:"date"`
	Weekday  string               `json:"weekday"`
	Teachers []AbsentTeacherBoard `json:"teachers"`
}
