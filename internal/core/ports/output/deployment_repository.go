package ports

import (
	"context"

	"github.com/google/uuid"

	"model-control-plane/internal/core/domain"
)

type DeploymentListFilter struct {
	WorkspaceID    uuid.UUID
	ModelVersionID uuid.UUID
	Status         string
	Limit          int
	Offset         int
}

type DeploymentRepository interface {
	Create(ctx context.Context, deployment *domain.Deployment) error
	GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.Deployment, error)
	Update(ctx context.Context, workspaceID uuid.UUID, deployment *domain.Deployment) error
	Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error
	List(ctx context.Context, filter DeploymentListFilter) ([]*domain.Deployment, int, error)

	// ListActive returns PENDING and DEPLOYED deployments across all
	// workspaces, for the status sync worker.
	ListActive(ctx context.Context) ([]*domain.Deployment, error)
}
