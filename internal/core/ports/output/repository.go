package ports

import (
	"context"

	"github.com/google/uuid"

	"model-control-plane/internal/core/domain"
)

type ModelListFilter struct {
	WorkspaceID uuid.UUID
	Search      string
	Tag         string
	SortBy      string
	Order       string
	Limit       int
	Offset      int
}

type VersionListFilter struct {
	WorkspaceID uuid.UUID
	ModelID     uuid.UUID
	Stage       string
	Search      string
	SortBy      string
	Order       string
	Limit       int
	Offset      int
}

type ModelRepository interface {
	Create(ctx context.Context, model *domain.Model) error
	GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.Model, error)
	GetByName(ctx context.Context, workspaceID uuid.UUID, name string) (*domain.Model, error)
	Update(ctx context.Context, workspaceID uuid.UUID, model *domain.Model) error
	Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error
	List(ctx context.Context, filter ModelListFilter) ([]*domain.Model, int, error)
}

type ModelVersionRepository interface {
	// Create assigns the next sequential number for the model and defaults
	// the name to that number when empty.
	Create(ctx context.Context, version *domain.ModelVersion) error
	GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.ModelVersion, error)
	GetByName(ctx context.Context, workspaceID uuid.UUID, modelID uuid.UUID, name string) (*domain.ModelVersion, error)
	GetByNumber(ctx context.Context, workspaceID uuid.UUID, modelID uuid.UUID, number int) (*domain.ModelVersion, error)
	GetByStage(ctx context.Context, workspaceID uuid.UUID, modelID uuid.UUID, stage domain.Stage) (*domain.ModelVersion, error)
	// GetLatest returns the highest-numbered version that is not archived.
	GetLatest(ctx context.Context, workspaceID uuid.UUID, modelID uuid.UUID) (*domain.ModelVersion, error)
	Update(ctx context.Context, workspaceID uuid.UUID, version *domain.ModelVersion) error
	// SetStage moves the version into stage and, when demoteID is set,
	// archives that holder in the same transaction.
	SetStage(ctx context.Context, workspaceID uuid.UUID, versionID uuid.UUID, stage domain.Stage, demoteID *uuid.UUID) error
	// MergeMetadata upserts the given entries into the version metadata,
	// leaving unmentioned keys untouched.
	MergeMetadata(ctx context.Context, workspaceID uuid.UUID, versionID uuid.UUID, entries map[string]any) error
	Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error
	List(ctx context.Context, filter VersionListFilter) ([]*domain.ModelVersion, int, error)
}
