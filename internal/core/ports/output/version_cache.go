package ports

import (
	"context"

	"github.com/google/uuid"

	"model-control-plane/internal/core/domain"
)

// VersionCache caches stage and latest resolutions per model. Lookups miss
// rather than fail: the backing store being down must never surface to a
// resolution.
type VersionCache interface {
	GetVersion(ctx context.Context, workspaceID, modelID uuid.UUID, alias string) (*domain.ModelVersion, bool)
	SetVersion(ctx context.Context, workspaceID, modelID uuid.UUID, alias string, version *domain.ModelVersion)
	// InvalidateModel drops every cached alias for the model.
	InvalidateModel(ctx context.Context, workspaceID, modelID uuid.UUID)
}
