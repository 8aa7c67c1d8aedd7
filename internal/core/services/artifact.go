package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/core/ports/output"
)

type ArtifactService struct {
	repo        ports.ArtifactRepository
	versionRepo ports.ModelVersionRepository
}

func NewArtifactService(repo ports.ArtifactRepository, versionRepo ports.ModelVersionRepository) *ArtifactService {
	return &ArtifactService{repo: repo, versionRepo: versionRepo}
}

func (s *ArtifactService) Create(ctx context.Context, workspaceID uuid.UUID, name, version string, kind domain.ArtifactKind, uri string, metadata map[string]any, producerRunID *uuid.UUID) (*domain.ArtifactVersion, error) {
	if name == "" {
		return nil, domain.ErrInvalidArtifactName
	}
	if kind == "" {
		kind = domain.ArtifactKindData
	}
	if err := domain.ValidateArtifactKind(kind); err != nil {
		return nil, err
	}
	if version == "" {
		version = "1"
	}
	if metadata == nil {
		metadata = map[string]any{}
	}

	now := time.Now()
	artifact := &domain.ArtifactVersion{
		ID:            uuid.New(),
		CreatedAt:     now,
		UpdatedAt:     now,
		WorkspaceID:   workspaceID,
		Name:          name,
		Version:       version,
		Kind:          kind,
		URI:           uri,
		Metadata:      metadata,
		ProducerRunID: producerRunID,
	}

	if err := s.repo.Create(ctx, artifact); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, workspaceID, artifact.ID)
}

func (s *ArtifactService) Get(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.ArtifactVersion, error) {
	return s.repo.GetByID(ctx, workspaceID, id)
}

func (s *ArtifactService) Find(ctx context.Context, workspaceID uuid.UUID, name, version string) (*domain.ArtifactVersion, error) {
	if name == "" {
		return nil, domain.ErrInvalidArtifactName
	}
	return s.repo.GetByNameVersion(ctx, workspaceID, name, version)
}

func (s *ArtifactService) List(ctx context.Context, filter ports.ArtifactListFilter) ([]*domain.ArtifactVersion, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	if filter.Kind != "" {
		if err := domain.ValidateArtifactKind(domain.ArtifactKind(filter.Kind)); err != nil {
			return nil, 0, err
		}
	}
	return s.repo.List(ctx, filter)
}

func (s *ArtifactService) Update(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID, updates map[string]interface{}) (*domain.ArtifactVersion, error) {
	artifact, err := s.repo.GetByID(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}

	if v, ok := updates["uri"]; ok && v != nil {
		artifact.URI = v.(string)
	}
	if v, ok := updates["metadata"]; ok && v != nil {
		artifact.Metadata = v.(map[string]any)
	}

	if err := s.repo.Update(ctx, workspaceID, artifact); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, workspaceID, id)
}

func (s *ArtifactService) Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error {
	return s.repo.Delete(ctx, workspaceID, id)
}

// Link attaches the artifact to the model version.
func (s *ArtifactService) Link(ctx context.Context, workspaceID, modelVersionID, artifactID uuid.UUID) error {
	if _, err := s.versionRepo.GetByID(ctx, workspaceID, modelVersionID); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, workspaceID, artifactID); err != nil {
		return err
	}
	return s.repo.Link(ctx, workspaceID, modelVersionID, artifactID)
}

func (s *ArtifactService) Unlink(ctx context.Context, workspaceID, modelVersionID, artifactID uuid.UUID) error {
	return s.repo.Unlink(ctx, workspaceID, modelVersionID, artifactID)
}

// ListForVersion returns the artifacts linked to a model version, newest
// first, optionally restricted to one kind.
func (s *ArtifactService) ListForVersion(ctx context.Context, workspaceID, modelVersionID uuid.UUID, kind domain.ArtifactKind) ([]*domain.ArtifactVersion, error) {
	if kind != "" {
		if err := domain.ValidateArtifactKind(kind); err != nil {
			return nil, err
		}
	}
	if _, err := s.versionRepo.GetByID(ctx, workspaceID, modelVersionID); err != nil {
		return nil, err
	}
	return s.repo.ListByModelVersion(ctx, workspaceID, modelVersionID, kind)
}

// FetchForVersion returns the newest linked artifact with the given name.
// When several versions of the artifact are linked, the newest wins.
func (s *ArtifactService) FetchForVersion(ctx context.Context, workspaceID, modelVersionID uuid.UUID, name string, kind domain.ArtifactKind) (*domain.ArtifactVersion, error) {
	if name == "" {
		return nil, domain.ErrInvalidArtifactName
	}
	if kind != "" {
		if err := domain.ValidateArtifactKind(kind); err != nil {
			return nil, err
		}
	}
	return s.repo.GetLinkedByName(ctx, workspaceID, modelVersionID, name, kind)
}
