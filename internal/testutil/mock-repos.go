package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/core/ports/output"
)

// MockModelRepo is a mock of ModelRepository.
type MockModelRepo struct {
	mock.Mock
}

func (m *MockModelRepo) Create(ctx context.Context, model *domain.Model) error {
	args := m.Called(ctx, model)
	return args.Error(0)
}

func (m *MockModelRepo) GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.Model, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Model), args.Error(1)
}

func (m *MockModelRepo) GetByName(ctx context.Context, workspaceID uuid.UUID, name string) (*domain.Model, error) {
	args := m.Called(ctx, workspaceID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Model), args.Error(1)
}

func (m *MockModelRepo) Update(ctx context.Context, workspaceID uuid.UUID, model *domain.Model) error {
	args := m.Called(ctx, workspaceID, model)
	return args.Error(0)
}

func (m *MockModelRepo) Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error {
	args := m.Called(ctx, workspaceID, id)
	return args.Error(0)
}

func (m *MockModelRepo) List(ctx context.Context, filter ports.ModelListFilter) ([]*domain.Model, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Model), args.Int(1), args.Error(2)
}

// MockModelVersionRepo is a mock of ModelVersionRepository.
type MockModelVersionRepo struct {
	mock.Mock
}

func (m *MockModelVersionRepo) Create(ctx context.Context, version *domain.ModelVersion) error {
	args := m.Called(ctx, version)
	return args.Error(0)
}

func (m *MockModelVersionRepo) GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.ModelVersion, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelVersion), args.Error(1)
}

func (m *MockModelVersionRepo) GetByName(ctx context.Context, workspaceID uuid.UUID, modelID uuid.UUID, name string) (*domain.ModelVersion, error) {
	args := m.Called(ctx, workspaceID, modelID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelVersion), args.Error(1)
}

func (m *MockModelVersionRepo) GetByNumber(ctx context.Context, workspaceID uuid.UUID, modelID uuid.UUID, number int) (*domain.ModelVersion, error) {
	args := m.Called(ctx, workspaceID, modelID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelVersion), args.Error(1)
}

func (m *MockModelVersionRepo) GetByStage(ctx context.Context, workspaceID uuid.UUID, modelID uuid.UUID, stage domain.Stage) (*domain.ModelVersion, error) {
	args := m.Called(ctx, workspaceID, modelID, stage)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelVersion), args.Error(1)
}

func (m *MockModelVersionRepo) GetLatest(ctx context.Context, workspaceID uuid.UUID, modelID uuid.UUID) (*domain.ModelVersion, error) {
	args := m.Called(ctx, workspaceID, modelID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ModelVersion), args.Error(1)
}

func (m *MockModelVersionRepo) Update(ctx context.Context, workspaceID uuid.UUID, version *domain.ModelVersion) error {
	args := m.Called(ctx, workspaceID, version)
	return args.Error(0)
}

func (m *MockModelVersionRepo) SetStage(ctx context.Context, workspaceID uuid.UUID, versionID uuid.UUID, stage domain.Stage, demoteID *uuid.UUID) error {
	args := m.Called(ctx, workspaceID, versionID, stage, demoteID)
	return args.Error(0)
}

func (m *MockModelVersionRepo) MergeMetadata(ctx context.Context, workspaceID uuid.UUID, versionID uuid.UUID, entries map[string]any) error {
	args := m.Called(ctx, workspaceID, versionID, entries)
	return args.Error(0)
}

func (m *MockModelVersionRepo) Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error {
	args := m.Called(ctx, workspaceID, id)
	return args.Error(0)
}

func (m *MockModelVersionRepo) List(ctx context.Context, filter ports.VersionListFilter) ([]*domain.ModelVersion, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.ModelVersion), args.Int(1), args.Error(2)
}

// MockArtifactRepo is a mock of ArtifactRepository.
type MockArtifactRepo struct {
	mock.Mock
}

func (m *MockArtifactRepo) Create(ctx context.Context, artifact *domain.ArtifactVersion) error {
	args := m.Called(ctx, artifact)
	return args.Error(0)
}

func (m *MockArtifactRepo) GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.ArtifactVersion, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArtifactVersion), args.Error(1)
}

func (m *MockArtifactRepo) GetByNameVersion(ctx context.Context, workspaceID uuid.UUID, name, version string) (*domain.ArtifactVersion, error) {
	args := m.Called(ctx, workspaceID, name, version)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArtifactVersion), args.Error(1)
}

func (m *MockArtifactRepo) Update(ctx context.Context, workspaceID uuid.UUID, artifact *domain.ArtifactVersion) error {
	args := m.Called(ctx, workspaceID, artifact)
	return args.Error(0)
}

func (m *MockArtifactRepo) Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error {
	args := m.Called(ctx, workspaceID, id)
	return args.Error(0)
}

func (m *MockArtifactRepo) List(ctx context.Context, filter ports.ArtifactListFilter) ([]*domain.ArtifactVersion, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.ArtifactVersion), args.Int(1), args.Error(2)
}

func (m *MockArtifactRepo) Link(ctx context.Context, workspaceID uuid.UUID, modelVersionID, artifactID uuid.UUID) error {
	args := m.Called(ctx, workspaceID, modelVersionID, artifactID)
	return args.Error(0)
}

func (m *MockArtifactRepo) Unlink(ctx context.Context, workspaceID uuid.UUID, modelVersionID, artifactID uuid.UUID) error {
	args := m.Called(ctx, workspaceID, modelVersionID, artifactID)
	return args.Error(0)
}

func (m *MockArtifactRepo) ListByModelVersion(ctx context.Context, workspaceID uuid.UUID, modelVersionID uuid.UUID, kind domain.ArtifactKind) ([]*domain.ArtifactVersion, error) {
	args := m.Called(ctx, workspaceID, modelVersionID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ArtifactVersion), args.Error(1)
}

func (m *MockArtifactRepo) GetLinkedByName(ctx context.Context, workspaceID uuid.UUID, modelVersionID uuid.UUID, name string, kind domain.ArtifactKind) (*domain.ArtifactVersion, error) {
	args := m.Called(ctx, workspaceID, modelVersionID, name, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ArtifactVersion), args.Error(1)
}

// MockPipelineRunRepo is a mock of PipelineRunRepository.
type MockPipelineRunRepo struct {
	mock.Mock
}

func (m *MockPipelineRunRepo) Create(ctx context.Context, run *domain.PipelineRun) error {
	args := m.Called(ctx, run)
	return args.Error(0)
}

func (m *MockPipelineRunRepo) GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.PipelineRun, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PipelineRun), args.Error(1)
}

func (m *MockPipelineRunRepo) GetByName(ctx context.Context, workspaceID uuid.UUID, name string) (*domain.PipelineRun, error) {
	args := m.Called(ctx, workspaceID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PipelineRun), args.Error(1)
}

func (m *MockPipelineRunRepo) Update(ctx context.Context, workspaceID uuid.UUID, run *domain.PipelineRun) error {
	args := m.Called(ctx, workspaceID, run)
	return args.Error(0)
}

func (m *MockPipelineRunRepo) Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error {
	args := m.Called(ctx, workspaceID, id)
	return args.Error(0)
}

func (m *MockPipelineRunRepo) List(ctx context.Context, filter ports.RunListFilter) ([]*domain.PipelineRun, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.PipelineRun), args.Int(1), args.Error(2)
}

func (m *MockPipelineRunRepo) Link(ctx context.Context, workspaceID uuid.UUID, modelVersionID, runID uuid.UUID) error {
	args := m.Called(ctx, workspaceID, modelVersionID, runID)
	return args.Error(0)
}

func (m *MockPipelineRunRepo) Unlink(ctx context.Context, workspaceID uuid.UUID, modelVersionID, runID uuid.UUID) error {
	args := m.Called(ctx, workspaceID, modelVersionID, runID)
	return args.Error(0)
}

func (m *MockPipelineRunRepo) ListByModelVersion(ctx context.Context, workspaceID uuid.UUID, modelVersionID uuid.UUID) ([]*domain.PipelineRun, error) {
	args := m.Called(ctx, workspaceID, modelVersionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.PipelineRun), args.Error(1)
}

// MockDeploymentRepo is a mock of DeploymentRepository.
type MockDeploymentRepo struct {
	mock.Mock
}

func (m *MockDeploymentRepo) Create(ctx context.Context, deployment *domain.Deployment) error {
	args := m.Called(ctx, deployment)
	return args.Error(0)
}

func (m *MockDeploymentRepo) GetByID(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) (*domain.Deployment, error) {
	args := m.Called(ctx, workspaceID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Deployment), args.Error(1)
}

func (m *MockDeploymentRepo) Update(ctx context.Context, workspaceID uuid.UUID, deployment *domain.Deployment) error {
	args := m.Called(ctx, workspaceID, deployment)
	return args.Error(0)
}

func (m *MockDeploymentRepo) Delete(ctx context.Context, workspaceID uuid.UUID, id uuid.UUID) error {
	args := m.Called(ctx, workspaceID, id)
	return args.Error(0)
}

func (m *MockDeploymentRepo) List(ctx context.Context, filter ports.DeploymentListFilter) ([]*domain.Deployment, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*domain.Deployment), args.Int(1), args.Error(2)
}

func (m *MockDeploymentRepo) ListActive(ctx context.Context) ([]*domain.Deployment, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Deployment), args.Error(1)
}
