package testutil

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/core/ports/output"
)

// MockServingClient is a mock of ServingClient.
type MockServingClient struct {
	mock.Mock
}

func (m *MockServingClient) IsAvailable() bool {
	args := m.Called()
	return args.Bool(0)
}

func (m *MockServingClient) Deploy(ctx context.Context, namespace string, deployment *domain.Deployment, artifact *domain.ArtifactVersion) (*ports.ServingDeployment, error) {
	args := m.Called(ctx, namespace, deployment, artifact)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ServingDeployment), args.Error(1)
}

func (m *MockServingClient) Undeploy(ctx context.Context, namespace, name string) error {
	args := m.Called(ctx, namespace, name)
	return args.Error(0)
}

func (m *MockServingClient) GetStatus(ctx context.Context, namespace, name string) (*ports.ServingStatus, error) {
	args := m.Called(ctx, namespace, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ports.ServingStatus), args.Error(1)
}

// MockVersionCache is a mock of VersionCache.
type MockVersionCache struct {
	mock.Mock
}

func (m *MockVersionCache) GetVersion(ctx context.Context, workspaceID, modelID uuid.UUID, alias string) (*domain.ModelVersion, bool) {
	args := m.Called(ctx, workspaceID, modelID, alias)
	if args.Get(0) == nil {
		return nil, args.Bool(1)
	}
	return args.Get(0).(*domain.ModelVersion), args.Bool(1)
}

func (m *MockVersionCache) SetVersion(ctx context.Context, workspaceID, modelID uuid.UUID, alias string, version *domain.ModelVersion) {
	m.Called(ctx, workspaceID, modelID, alias, version)
}

func (m *MockVersionCache) InvalidateModel(ctx context.Context, workspaceID, modelID uuid.UUID) {
	m.Called(ctx, workspaceID, modelID)
}
