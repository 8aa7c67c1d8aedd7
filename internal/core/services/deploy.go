package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"model-control-plane/internal/core/domain"
	output "model-control-plane/internal/core/ports/output"
)

type DeployService struct {
	repo         output.DeploymentRepository
	modelRepo    output.ModelRepository
	versionRepo  output.ModelVersionRepository
	artifactRepo output.ArtifactRepository
	serving      output.ServingClient
}

func NewDeployService(
	repo output.DeploymentRepository,
	modelRepo output.ModelRepository,
	versionRepo output.ModelVersionRepository,
	artifactRepo output.ArtifactRepository,
	serving output.ServingClient,
) *DeployService {
	return &DeployService{
		repo:         repo,
		modelRepo:    modelRepo,
		versionRepo:  versionRepo,
		artifactRepo: artifactRepo,
		serving:      serving,
	}
}

type DeployResult struct {
	Deployment *domain.Deployment
	Status     string // PENDING, DEPLOYED, FAILED
	Message    string
}

// Deploy pushes the model version to the serving backend. The version must
// have a linked model artifact; its URI and framework metadata become the
// endpoint spec.
func (s *DeployService) Deploy(ctx context.Context, workspaceID, versionID uuid.UUID, name, namespace string) (*DeployResult, error) {
	// 1. Get version and its model
	version, err := s.versionRepo.GetByID(ctx, workspaceID, versionID)
	if err != nil {
		return nil, err
	}

	model, err := s.modelRepo.GetByID(ctx, workspaceID, version.ModelID)
	if err != nil {
		return nil, fmt.Errorf("get model: %w", err)
	}

	// 2. Find the model artifact to serve (newest linked one)
	artifact, err := s.resolveModelArtifact(ctx, workspaceID, version.ID)
	if err != nil {
		return nil, err
	}

	if err := domain.ValidateModelFramework(artifact.Framework()); err != nil {
		return nil, err
	}

	// 3. Generate name if not provided
	if name == "" {
		name = fmt.Sprintf("%s-%s", slugify(model.Name), version.ID.String()[:8])
	}

	// 4. Create Deployment entity
	deployment, err := domain.NewDeployment(workspaceID, version.ID, name, namespace)
	if err != nil {
		return nil, err
	}

	// 5. Save to database
	if err := s.repo.Create(ctx, deployment); err != nil {
		return nil, err
	}

	// Fetch with joined fields
	deployment, _ = s.repo.GetByID(ctx, workspaceID, deployment.ID)

	// 6. Push to the serving backend (if available)
	if s.serving != nil && s.serving.IsAvailable() {
		pushed, err := s.serving.Deploy(ctx, namespace, deployment, artifact)
		if err != nil {
			deployment.MarkFailed(err.Error())
			s.repo.Update(ctx, workspaceID, deployment)
			return &DeployResult{
				Deployment: deployment,
				Status:     string(domain.DeploymentStatusFailed),
				Message:    err.Error(),
			}, nil
		}

		deployment.SetExternalID(pushed.ExternalID)
		s.repo.Update(ctx, workspaceID, deployment)
	}

	return &DeployResult{
		Deployment: deployment,
		Status:     string(domain.DeploymentStatusPending),
		Message:    "Deployment initiated",
	}, nil
}

func (s *DeployService) Get(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Deployment, error) {
	return s.repo.GetByID(ctx, workspaceID, id)
}

func (s *DeployService) List(ctx context.Context, filter output.DeploymentListFilter) ([]*domain.Deployment, int, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.repo.List(ctx, filter)
}

// Undeploy removes the endpoint from the serving backend and records the
// deployment as undeployed.
func (s *DeployService) Undeploy(ctx context.Context, workspaceID, id uuid.UUID) error {
	deployment, err := s.repo.GetByID(ctx, workspaceID, id)
	if err != nil {
		return err
	}

	if s.serving != nil && s.serving.IsAvailable() {
		// Ignore error - might already be deleted
		_ = s.serving.Undeploy(ctx, deployment.Namespace, deployment.Name)
	}

	deployment.MarkUndeployed()
	return s.repo.Update(ctx, workspaceID, deployment)
}

// SyncStatus refreshes the deployment from the serving backend.
func (s *DeployService) SyncStatus(ctx context.Context, workspaceID, id uuid.UUID) (*domain.Deployment, error) {
	deployment, err := s.repo.GetByID(ctx, workspaceID, id)
	if err != nil {
		return nil, err
	}

	if s.serving == nil || !s.serving.IsAvailable() {
		return deployment, nil
	}

	status, err := s.serving.GetStatus(ctx, deployment.Namespace, deployment.Name)
	if err != nil {
		return nil, err
	}

	if status.Ready {
		deployment.MarkDeployed(status.URL)
	} else if status.Error != "" {
		deployment.MarkFailed(status.Error)
	}
	deployment.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, workspaceID, deployment); err != nil {
		return nil, err
	}

	return s.repo.GetByID(ctx, workspaceID, id)
}

// IsServingAvailable checks if the serving backend integration is enabled
func (s *DeployService) IsServingAvailable() bool {
	return s.serving != nil && s.serving.IsAvailable()
}

func (s *DeployService) resolveModelArtifact(ctx context.Context, workspaceID, versionID uuid.UUID) (*domain.ArtifactVersion, error) {
	artifacts, err := s.artifactRepo.ListByModelVersion(ctx, workspaceID, versionID, domain.ArtifactKindModel)
	if err != nil {
		return nil, fmt.Errorf("list model artifacts: %w", err)
	}
	if len(artifacts) == 0 {
		return nil, domain.ErrNoModelArtifact
	}
	return artifacts[0], nil
}

func slugify(name string) string {
	slug := ""
	for _, ch := range name {
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || ch == '-' {
			slug += string(ch)
		} else if ch >= 'A' && ch <= 'Z' {
			slug += string(ch + 32)
		} else if ch == ' ' || ch == '_' {
			slug += "-"
		}
	}
	if len(slug) > 60 {
		slug = slug[:60]
	}
	return slug
}
