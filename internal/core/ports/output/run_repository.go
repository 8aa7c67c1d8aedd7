package ports

import (
	"context"

	"github.com/google/uuid"

	"model-control-plane/internal/core/domain"
)

type RunListFilter struct {
	WorkspaceID  uuid.UUID
	PipelineName string
	Status       string
	SortBy       string
	Order        string
	Limit        int
	Offset       int
}

type PipelineRunRepository interface {
	Create(ctx context.Context, run *domain.PipelineRun) error
	GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.PipelineRun, error)
	GetByName(ctx context.Context, workspaceID uuid.UUID, name string) (*domain.PipelineRun, error)
	Update(ctx context.Context, workspaceID uuid.UUID, run *domain.PipelineRun) error
	Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error
	List(ctx context.Context, filter RunListFilter) ([]*domain.PipelineRun, int, error)

	// Link associates a run with a model version it produced.
	Link(ctx context.Context, workspaceID uuid.UUID, modelVersionID, runID uuid.UUID) error
	Unlink(ctx context.Context, workspaceID uuid.UUID, modelVersionID, runID uuid.UUID) error
	ListByModelVersion(ctx context.Context, workspaceID uuid.UUID, modelVersionID uuid.UUID) ([]*domain.PipelineRun, error)
}
