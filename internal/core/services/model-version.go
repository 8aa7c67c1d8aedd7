package services

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/core/ports/output"
)

type ModelVersionService struct {
	repo      ports.ModelVersionRepository
	modelRepo ports.ModelRepository
	cache     ports.VersionCache
}

func NewModelVersionService(repo ports.ModelVersionRepository, modelRepo ports.ModelRepository, cache ports.VersionCache) *ModelVersionService {
	return &ModelVersionService{repo: repo, modelRepo: modelRepo, cache: cache}
}

func (s *ModelVersionService) Create(ctx context.Context, workspaceID, modelID uuid.UUID, name, description string, tags []string) (*domain.ModelVersion, error) {
	if _, err := s.modelRepo.GetByID(ctx, workspaceID, modelID); err != nil {
		return nil, err
	}

	now := time.Now()
	version := &domain.ModelVersion{
		ID:          uuid.New(),
		CreatedAt:   now,
		UpdatedAt:   now,
		ModelID:     modelID,
		Name:        name,
		Description: description,
		Stage:       domain.StageNone,
		Tags:        tags,
		Metadata:    map[string]any{},
	}
	if version.Tags == nil {
		version.Tags = []string{}
	}

	if err := s.repo.Create(ctx, version); err != nil {
		return nil, err
	}

	// A new version changes what latest resolves to.
	s.invalidate(ctx, workspaceID, modelID)

	return s.repo.GetByID(ctx, workspaceID, version.ID)
}

// Resolve looks up a version of the model by reference, trying in order:
// version UUID, version number, the latest alias, an exclusive stage, and
// finally the version name.
func (s *ModelVersionService) Resolve(ctx context.Context, workspaceID, modelID uuid.UUID, ref string) (*domain.ModelVersion, error) {
	if ref == "" {
		return nil, domain.ErrInvalidVersionRef
	}

	if id, err := uuid.Parse(ref); err == nil {
		version, err := s.repo.GetByID(ctx, workspaceID, id)
		if err != nil {
			return nil, err
		}
		if version.ModelID != modelID {
			return nil, domain.ErrVersionNotFound
		}
		return version, nil
	}

	if number, err := strconv.Atoi(ref); err == nil && number > 0 {
		return s.repo.GetByNumber(ctx, workspaceID, modelID, number)
	}

	if ref == domain.StageAliasLatest {
		return s.resolveCached(ctx, workspaceID, modelID, ref, func() (*domain.ModelVersion, error) {
			return s.repo.GetLatest(ctx, workspaceID, modelID)
		})
	}

	if stage := domain.Stage(ref); stage.Exclusive() {
		return s.resolveCached(ctx, workspaceID, modelID, ref, func() (*domain.ModelVersion, error) {
			return s.repo.GetByStage(ctx, workspaceID, modelID, stage)
		})
	}

	return s.repo.GetByName(ctx, workspaceID, modelID, ref)
}

func (s *ModelVersionService) Get(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.ModelVersion, error) {
	return s.repo.GetByID(ctx, workspaceID, id)
}

func (s *ModelVersionService) List(ctx context.Context, filter ports.VersionListFilter) ([]*domain.ModelVersion, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

func (s *ModelVersionService) Update(ctx context.Context, workspaceID, modelID uuid.UUID, ref string, updates map[string]interface{}) (*domain.ModelVersion, error) {
	version, err := s.Resolve(ctx, workspaceID, modelID, ref)
	if err != nil {
		return nil, err
	}

	if v, ok := updates["name"]; ok && v != nil {
		version.Name = v.(string)
	}
	if v, ok := updates["description"]; ok && v != nil {
		version.Description = v.(string)
	}
	if v, ok := updates["tags"]; ok && v != nil {
		version.Tags = v.([]string)
	}

	if err := s.repo.Update(ctx, workspaceID, version); err != nil {
		return nil, err
	}

	s.invalidate(ctx, workspaceID, modelID)

	return s.repo.GetByID(ctx, workspaceID, version.ID)
}

// SetStage moves the referenced version into the given stage. Promoting to
// staging or production while another version holds it fails with
// ErrStageOccupied unless force is set, which archives the holder in the
// same transaction. Assigning the stage a version already holds is a no-op.
func (s *ModelVersionService) SetStage(ctx context.Context, workspaceID, modelID uuid.UUID, ref string, stage domain.Stage, force bool) (*domain.ModelVersion, error) {
	if err := domain.ValidateStage(stage); err != nil {
		return nil, err
	}

	version, err := s.Resolve(ctx, workspaceID, modelID, ref)
	if err != nil {
		return nil, err
	}

	if version.Stage == stage {
		return version, nil
	}

	var demoteID *uuid.UUID
	if stage.Exclusive() {
		holder, err := s.repo.GetByStage(ctx, workspaceID, modelID, stage)
		switch {
		case err == nil && holder.ID != version.ID:
			if !force {
				return nil, domain.ErrStageOccupied
			}
			demoteID = &holder.ID
		case err != nil && !errors.Is(err, domain.ErrVersionNotFound):
			return nil, err
		}
	}

	if err := s.repo.SetStage(ctx, workspaceID, version.ID, stage, demoteID); err != nil {
		return nil, err
	}

	s.invalidate(ctx, workspaceID, modelID)

	return s.repo.GetByID(ctx, workspaceID, version.ID)
}

// LogMetadata merges the given entries into the version metadata. Existing
// keys are overwritten, everything else is left as is.
func (s *ModelVersionService) LogMetadata(ctx context.Context, workspaceID, modelID uuid.UUID, ref string, entries map[string]any) (*domain.ModelVersion, error) {
	if len(entries) == 0 {
		return nil, domain.ErrEmptyMetadata
	}

	version, err := s.Resolve(ctx, workspaceID, modelID, ref)
	if err != nil {
		return nil, err
	}

	if err := s.repo.MergeMetadata(ctx, workspaceID, version.ID, entries); err != nil {
		return nil, err
	}

	s.invalidate(ctx, workspaceID, modelID)

	return s.repo.GetByID(ctx, workspaceID, version.ID)
}

// Delete removes the referenced version. Versions holding staging or
// production need force.
func (s *ModelVersionService) Delete(ctx context.Context, workspaceID, modelID uuid.UUID, ref string, force bool) error {
	version, err := s.Resolve(ctx, workspaceID, modelID, ref)
	if err != nil {
		return err
	}

	if version.Stage.Exclusive() && !force {
		return domain.ErrVersionPromoted
	}

	if err := s.repo.Delete(ctx, workspaceID, version.ID); err != nil {
		return err
	}

	s.invalidate(ctx, workspaceID, modelID)
	return nil
}

func (s *ModelVersionService) resolveCached(ctx context.Context, workspaceID, modelID uuid.UUID, alias string, load func() (*domain.ModelVersion, error)) (*domain.ModelVersion, error) {
	if s.cache != nil {
		if version, ok := s.cache.GetVersion(ctx, workspaceID, modelID, alias); ok {
			return version, nil
		}
	}

	version, err := load()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.SetVersion(ctx, workspaceID, modelID, alias, version)
	}
	return version, nil
}

func (s *ModelVersionService) invalidate(ctx context.Context, workspaceID, modelID uuid.UUID) {
	if s.cache != nil {
		s.cache.InvalidateModel(ctx, workspaceID, modelID)
	}
}
