package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/core/ports/output"
)

type PipelineRunService struct {
	repo        ports.PipelineRunRepository
	versionRepo ports.ModelVersionRepository
}

func NewPipelineRunService(repo ports.PipelineRunRepository, versionRepo ports.ModelVersionRepository) *PipelineRunService {
	return &PipelineRunService{repo: repo, versionRepo: versionRepo}
}

func (s *PipelineRunService) Create(ctx context.Context, workspaceID uuid.UUID, name, pipelineName string) (*domain.PipelineRun, error) {
	if name == "" {
		return nil, domain.ErrInvalidRunName
	}
	if pipelineName == "" {
		pipelineName = name
	}

	now := time.Now()
	run := &domain.PipelineRun{
		ID:           uuid.New(),
		CreatedAt:    now,
		UpdatedAt:    now,
		WorkspaceID:  workspaceID,
		Name:         name,
		PipelineName: pipelineName,
		Status:       domain.RunStatusRunning,
		StartedAt:    now,
	}

	if err := s.repo.Create(ctx, run); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, workspaceID, run.ID)
}

func (s *PipelineRunService) Get(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.PipelineRun, error) {
	return s.repo.GetByID(ctx, workspaceID, id)
}

func (s *PipelineRunService) GetByName(ctx context.Context, workspaceID uuid.UUID, name string) (*domain.PipelineRun, error) {
	if name == "" {
		return nil, domain.ErrInvalidRunName
	}
	return s.repo.GetByName(ctx, workspaceID, name)
}

func (s *PipelineRunService) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.PipelineRun, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// UpdateStatus transitions the run; terminal statuses stamp the end time.
func (s *PipelineRunService) UpdateStatus(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID, status domain.RunStatus) (*domain.PipelineRun, error) {
	if err := domain.ValidateRunStatus(status); err != nil {
		return nil, err
	}

	run, err := s.repo.GetByID(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}

	run.Status = status
	run.UpdatedAt = time.Now()
	if status.Terminal() && run.EndedAt == nil {
		ended := run.UpdatedAt
		run.EndedAt = &ended
	}

	if err := s.repo.Update(ctx, workspaceID, run); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, workspaceID, id)
}

func (s *PipelineRunService) Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error {
	return s.repo.Delete(ctx, workspaceID, id)
}

// Link associates the run with a model version it produced.
func (s *PipelineRunService) Link(ctx context.Context, workspaceID, modelVersionID, runID uuid.UUID) error {
	if _, err := s.versionRepo.GetByID(ctx, workspaceID, modelVersionID); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, workspaceID, runID); err != nil {
		return err
	}
	return s.repo.Link(ctx, workspaceID, modelVersionID, runID)
}

func (s *PipelineRunService) Unlink(ctx context.Context, workspaceID, modelVersionID, runID uuid.UUID) error {
	return s.repo.Unlink(ctx, workspaceID, modelVersionID, runID)
}

func (s *PipelineRunService) ListForVersion(ctx context.Context, workspaceID, modelVersionID uuid.UUID) ([]*domain.PipelineRun, error) {
	if _, err := s.versionRepo.GetByID(ctx, workspaceID, modelVersionID); err != nil {
		return nil, err
	}
	return s.repo.ListByModelVersion(ctx, workspaceID, modelVersionID)
}
