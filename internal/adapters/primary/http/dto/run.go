package dto

import (
	"time"

	"github.com/google/uuid"

	"model-control-plane/internal/core/domain"
)

type CreatePipelineRunRequest struct {
	Name         string `json:"name" binding:"required,max=200"`
	PipelineName string `json:"pipeline_name"`
}

type UpdatePipelineRunStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type PipelineRunResponse struct {
	ID           uuid.UUID  `json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Name         string     `json:"name"`
	PipelineName string     `json:"pipeline_name"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
}

type ListPipelineRunsResponse struct {
	Items      []PipelineRunResponse `json:"items"`
	Total      int                   `json:"total"`
	PageSize   int                   `json:"page_size"`
	NextOffset int                   `json:"next_offset"`
}

func ToPipelineRunResponse(run *domain.PipelineRun) PipelineRunResponse {
	return PipelineRunResponse{
		ID:           run.ID,
		CreatedAt:    run.CreatedAt,
		UpdatedAt:    run.UpdatedAt,
		Name:         run.Name,
		PipelineName: run.PipelineName,
		Status:       string(run.Status),
		StartedAt:    run.StartedAt,
		EndedAt:      run.EndedAt,
	}
}
