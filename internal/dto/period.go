package dto

import "github.com/schoolops/relief-api/internal/models"

// PeriodStatus resolves the current time against the bell schedule.
// Period is set for in_progress and upcoming states, null once the
// school day has ended.
type PeriodStatus struct {
	State  models.PeriodState   `json:"state"`
	Period *models.PeriodConfig `json:"period,omitempty"`
}
