package models

// PeriodConfig defines one slot of the daily bell schedule. Times are
// HH:MM strings on a 24-hour clock.
type PeriodConfig struct {
	ID           int64  `db:"id" json:"id"`
	PeriodNumber int    `db:"period_number" json:"periodNumber"`
	StartTime    string `db:"start_time" json:"startTime"`
	EndTime      string `db:"end_time" json:"endTime"`
	Active       bool   `db:"active" json:"active"`
}

// PeriodState describes where the current time falls in the schedule.
type PeriodState string

const (
	PeriodStateInProgress PeriodState = "in_progress"
	PeriodStateUpcoming   PeriodState = "upcoming"
	PeriodStateEnded      PeriodState = "ended"
)
