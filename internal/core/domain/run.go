package domain

import (
	"time"

	"github.com/google/uuid"
)

type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusCached    RunStatus = "cached"
)

var validRunStatuses = map[RunStatus]bool{
	RunStatusRunning:   true,
	RunStatusCompleted: true,
	RunStatusFailed:    true,
	RunStatusCached:    true,
}

func ValidateRunStatus(status RunStatus) error {
	if !validRunStatuses[status] {
		return ErrInvalidRunState
	}
	return nil
}

// Terminal reports whether the status ends the run.
func (s RunStatus) Terminal() bool {
	return s == RunStatusCompleted || s == RunStatusFailed || s == RunStatusCached
}

// PipelineRun is one execution of a training or inference pipeline. Runs
// produce artifact versions and are linked to the model versions they built.
type PipelineRun struct {
	ID           uuid.UUID  `json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	WorkspaceID  uuid.UUID  `json:"workspace_id"`
	Name         string     `json:"name"`
	PipelineName string     `json:"pipeline_name"`
	Status       RunStatus  `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at"`
}
