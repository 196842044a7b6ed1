package domain

import "time"

// RunRecord is a journal entry for one executed plan.
type RunRecord struct {
	ID         string     `json:"id"`
	Device     string     `json:"device,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt time.Time  `json:"finished_at"`
	Steps      int        `json:"steps"`
	Failed     int        `json:"failed"`
	Report     PlanReport `json:"report"`
}
