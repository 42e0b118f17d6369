package models

// TimetableEntry assigns a teacher to a class for one period on a
// weekday. Entries recur weekly; there is no date component.
type TimetableEntry struct {
	ID        int64  `db:"id" json:"id"`
	Day       string `db:"day" json:"day"`
	Period    int    `db:"period" json:"period"`
	Class     string `db:"class" json:"class"`
	TeacherID int64  `db:"teacher_id" json:"teacherId"`
}
