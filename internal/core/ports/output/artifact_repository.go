package ports

import (
	"context"

	"github.com/google/uuid"

	"model-control-plane/internal/core/domain"
)

type ArtifactListFilter struct {
	WorkspaceID uuid.UUID
	Kind        string
	Name        string
	Search      string
	SortBy      string
	Order       string
	Limit       int
	Offset      int
}

type ArtifactRepository interface {
	Create(ctx context.Context, artifact *domain.ArtifactVersion) error
	GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.ArtifactVersion, error)
	GetByNameVersion(ctx context.Context, workspaceID uuid.UUID, name, version string) (*domain.ArtifactVersion, error)
	Update(ctx context.Context, workspaceID uuid.UUID, artifact *domain.ArtifactVersion) error
	Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error
	List(ctx context.Context, filter ArtifactListFilter) ([]*domain.ArtifactVersion, int, error)

	// Link attaches an artifact version to a model version.
	Link(ctx context.Context, workspaceID uuid.UUID, modelVersionID, artifactID uuid.UUID) error
	Unlink(ctx context.Context, workspaceID uuid.UUID, modelVersionID, artifactID uuid.UUID) error
	// ListByModelVersion returns linked artifacts newest first, optionally
	// restricted to one kind.
	ListByModelVersion(ctx context.Context, workspaceID uuid.UUID, modelVersionID uuid.UUID, kind domain.ArtifactKind) ([]*domain.ArtifactVersion, error)
	// GetLinkedByName returns the newest linked artifact with the given
	// name, optionally restricted to one kind.
	GetLinkedByName(ctx context.Context, workspaceID uuid.UUID, modelVersionID uuid.UUID, name string, kind domain.ArtifactKind) (*domain.ArtifactVersion, error)
}
