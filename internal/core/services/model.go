package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/core/ports/output"
)

// ModelCard carries the descriptive fields attached to a model.
type ModelCard struct {
	Description string
	License     string
	Audience    string
	UseCases    string
	Limitations string
	TradeOffs   string
	Ethics      string
}

type ModelService struct {
	repo        ports.ModelRepository
	versionRepo ports.ModelVersionRepository
	cache       ports.VersionCache
}

func NewModelService(repo ports.ModelRepository, versionRepo ports.ModelVersionRepository, cache ports.VersionCache) *ModelService {
	return &ModelService{repo: repo, versionRepo: versionRepo, cache: cache}
}

func (s *ModelService) Create(ctx context.Context, workspaceID uuid.UUID, name string, card ModelCard, tags []string) (*domain.Model, error) {
	if name == "" {
		return nil, domain.ErrInvalidModelName
	}

	now := time.Now()
	model := &domain.Model{
		ID:          uuid.New(),
		CreatedAt:   now,
		UpdatedAt:   now,
		WorkspaceID: workspaceID,
		Name:        name,
		Description: card.Description,
		License:     card.License,
		Audience:    card.Audience,
		UseCases:    card.UseCases,
		Limitations: card.Limitations,
		TradeOffs:   card.TradeOffs,
		Ethics:      card.Ethics,
		Tags:        tags,
	}

	if model.Tags == nil {
		model.Tags = []string{}
	}

	if err := s.repo.Create(ctx, model); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, workspaceID, model.ID)
}

func (s *ModelService) Get(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.Model, error) {
	return s.repo.GetByID(ctx, workspaceID, id)
}

func (s *ModelService) GetByName(ctx context.Context, workspaceID uuid.UUID, name string) (*domain.Model, error) {
	if name == "" {
		return nil, domain.ErrInvalidModelName
	}
	return s.repo.GetByName(ctx, workspaceID, name)
}

// Resolve accepts either a model UUID or a model name.
func (s *ModelService) Resolve(ctx context.Context, workspaceID uuid.UUID, ref string) (*domain.Model, error) {
	if id, err := uuid.Parse(ref); err == nil {
		return s.repo.GetByID(ctx, workspaceID, id)
	}
	return s.GetByName(ctx, workspaceID, ref)
}

func (s *ModelService) List(ctx context.Context, filter ports.ModelListFilter) ([]*domain.Model, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

func (s *ModelService) Update(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID, updates map[string]interface{}) (*domain.Model, error) {
	model, err := s.repo.GetByID(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}

	if v, ok := updates["name"]; ok && v != nil {
		model.Name = v.(string)
	}
	if v, ok := updates["description"]; ok && v != nil {
		model.Description = v.(string)
	}
	if v, ok := updates["license"]; ok && v != nil {
		model.License = v.(string)
	}
	if v, ok := updates["audience"]; ok && v != nil {
		model.Audience = v.(string)
	}
	if v, ok := updates["use_cases"]; ok && v != nil {
		model.UseCases = v.(string)
	}
	if v, ok := updates["limitations"]; ok && v != nil {
		model.Limitations = v.(string)
	}
	if v, ok := updates["trade_offs"]; ok && v != nil {
		model.TradeOffs = v.(string)
	}
	if v, ok := updates["ethics"]; ok && v != nil {
		model.Ethics = v.(string)
	}
	if v, ok := updates["tags"]; ok && v != nil {
		model.Tags = v.([]string)
	}

	if err := s.repo.Update(ctx, workspaceID, model); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, workspaceID, id)
}

// Delete removes the model and everything under it. Unless force is set, a
// version still holding staging or production blocks the delete.
func (s *ModelService) Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID, force bool) error {
	model, err := s.repo.GetByID(ctx, workspaceID, id)
	if err != nil {
		return err
	}

	if !force {
		for _, stage := range []domain.Stage{domain.StageStaging, domain.StageProduction} {
			_, err := s.versionRepo.GetByStage(ctx, workspaceID, model.ID, stage)
			if err == nil {
				return domain.ErrModelHasStagedVersion
			}
			if !errors.Is(err, domain.ErrVersionNotFound) {
				return err
			}
		}
	}

	if err := s.repo.Delete(ctx, workspaceID, id); err != nil {
		return err
	}

	if s.cache != nil {
		s.cache.InvalidateModel(ctx, workspaceID, id)
	}
	return nil
}
