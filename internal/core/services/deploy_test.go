package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"model-control-plane/internal/core/domain"
	output "model-control-plane/internal/core/ports/output"
	"model-control-plane/internal/testutil"
)

type deployMocks struct {
	repo         *testutil.MockDeploymentRepo
	modelRepo    *testutil.MockModelRepo
	versionRepo  *testutil.MockModelVersionRepo
	artifactRepo *testutil.MockArtifactRepo
	serving      *testutil.MockServingClient
}

func newDeployService() (*DeployService, deployMocks) {
	m := deployMocks{
		repo:         new(testutil.MockDeploymentRepo),
		modelRepo:    new(testutil.MockModelRepo),
		versionRepo:  new(testutil.MockModelVersionRepo),
		artifactRepo: new(testutil.MockArtifactRepo),
		serving:      new(testutil.MockServingClient),
	}
	svc := NewDeployService(m.repo, m.modelRepo, m.versionRepo, m.artifactRepo, m.serving)
	return svc, m
}

func TestDeployService_Deploy(t *testing.T) {
	svc, m := newDeployService()

	workspaceID := uuid.New()
	modelID := uuid.New()
	versionID := uuid.New()
	artifact := &domain.ArtifactVersion{
		ID: uuid.New(), Name: "churn-model", Version: "3",
		Kind: domain.ArtifactKindModel, URI: "s3://bucket/churn/3",
		Metadata: map[string]any{"framework": "sklearn"},
	}

	m.versionRepo.On("GetByID", mock.Anything, workspaceID, versionID).
		Return(&domain.ModelVersion{ID: versionID, ModelID: modelID, Name: "v3"}, nil)
	m.modelRepo.On("GetByID", mock.Anything, workspaceID, modelID).
		Return(&domain.Model{ID: modelID, Name: "Churn Predictor"}, nil)
	m.artifactRepo.On("ListByModelVersion", mock.Anything, workspaceID, versionID, domain.ArtifactKindModel).
		Return([]*domain.ArtifactVersion{artifact}, nil)
	m.repo.On("Create", mock.Anything, mock.MatchedBy(func(d *domain.Deployment) bool {
		return d.Name == "churn-predictor-"+versionID.String()[:8] && d.Status == domain.DeploymentStatusPending
	})).Return(nil)
	m.repo.On("GetByID", mock.Anything, workspaceID, mock.AnythingOfType("uuid.UUID")).
		Return(&domain.Deployment{ID: uuid.New(), ModelVersionID: versionID, Status: domain.DeploymentStatusPending}, nil)
	m.serving.On("IsAvailable").Return(false)

	result, err := svc.Deploy(context.Background(), workspaceID, versionID, "", "ml-prod")
	assert.NoError(t, err)
	assert.Equal(t, string(domain.DeploymentStatusPending), result.Status)
	assert.Equal(t, "Deployment initiated", result.Message)
}

func TestDeployService_Deploy_NoModelArtifact(t *testing.T) {
	svc, m := newDeployService()

	workspaceID := uuid.New()
	modelID := uuid.New()
	versionID := uuid.New()

	m.versionRepo.On("GetByID", mock.Anything, workspaceID, versionID).
		Return(&domain.ModelVersion{ID: versionID, ModelID: modelID}, nil)
	m.modelRepo.On("GetByID", mock.Anything, workspaceID, modelID).
		Return(&domain.Model{ID: modelID, Name: "churn"}, nil)
	m.artifactRepo.On("ListByModelVersion", mock.Anything, workspaceID, versionID, domain.ArtifactKindModel).
		Return([]*domain.ArtifactVersion{}, nil)

	_, err := svc.Deploy(context.Background(), workspaceID, versionID, "", "")
	assert.ErrorIs(t, err, domain.ErrNoModelArtifact)
	m.repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestDeployService_Deploy_UnsupportedFramework(t *testing.T) {
	svc, m := newDeployService()

	workspaceID := uuid.New()
	modelID := uuid.New()
	versionID := uuid.New()
	artifact := &domain.ArtifactVersion{
		ID: uuid.New(), Kind: domain.ArtifactKindModel,
		Metadata: map[string]any{"framework": "fortran"},
	}

	m.versionRepo.On("GetByID", mock.Anything, workspaceID, versionID).
		Return(&domain.ModelVersion{ID: versionID, ModelID: modelID}, nil)
	m.modelRepo.On("GetByID", mock.Anything, workspaceID, modelID).
		Return(&domain.Model{ID: modelID, Name: "churn"}, nil)
	m.artifactRepo.On("ListByModelVersion", mock.Anything, workspaceID, versionID, domain.ArtifactKindModel).
		Return([]*domain.ArtifactVersion{artifact}, nil)

	_, err := svc.Deploy(context.Background(), workspaceID, versionID, "", "")
	assert.ErrorIs(t, err, domain.ErrUnsupportedFramework)
}

func TestDeployService_Deploy_ServingPushFails(t *testing.T) {
	svc, m := newDeployService()

	workspaceID := uuid.New()
	modelID := uuid.New()
	versionID := uuid.New()
	artifact := &domain.ArtifactVersion{
		ID: uuid.New(), Kind: domain.ArtifactKindModel,
		URI: "s3://bucket/churn/3", Metadata: map[string]any{"framework": "sklearn"},
	}

	m.versionRepo.On("GetByID", mock.Anything, workspaceID, versionID).
		Return(&domain.ModelVersion{ID: versionID, ModelID: modelID}, nil)
	m.modelRepo.On("GetByID", mock.Anything, workspaceID, modelID).
		Return(&domain.Model{ID: modelID, Name: "churn"}, nil)
	m.artifactRepo.On("ListByModelVersion", mock.Anything, workspaceID, versionID, domain.ArtifactKindModel).
		Return([]*domain.ArtifactVersion{artifact}, nil)
	m.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Deployment")).Return(nil)
	m.repo.On("GetByID", mock.Anything, workspaceID, mock.AnythingOfType("uuid.UUID")).
		Return(&domain.Deployment{ID: uuid.New(), ModelVersionID: versionID, Status: domain.DeploymentStatusPending}, nil)
	m.serving.On("IsAvailable").Return(true)
	m.serving.On("Deploy", mock.Anything, "ml-prod", mock.AnythingOfType("*domain.Deployment"), artifact).
		Return(nil, errors.New("quota exceeded"))
	m.repo.On("Update", mock.Anything, workspaceID, mock.MatchedBy(func(d *domain.Deployment) bool {
		return d.Status == domain.DeploymentStatusFailed && d.LastError == "quota exceeded"
	})).Return(nil)

	result, err := svc.Deploy(context.Background(), workspaceID, versionID, "churn-3", "ml-prod")
	assert.NoError(t, err)
	assert.Equal(t, string(domain.DeploymentStatusFailed), result.Status)
	assert.Equal(t, "quota exceeded", result.Message)
}

func TestDeployService_Deploy_ServingPushSetsExternalID(t *testing.T) {
	svc, m := newDeployService()

	workspaceID := uuid.New()
	modelID := uuid.New()
	versionID := uuid.New()
	artifact := &domain.ArtifactVersion{
		ID: uuid.New(), Kind: domain.ArtifactKindModel,
		URI: "s3://bucket/churn/3", Metadata: map[string]any{"framework": "sklearn"},
	}

	m.versionRepo.On("GetByID", mock.Anything, workspaceID, versionID).
		Return(&domain.ModelVersion{ID: versionID, ModelID: modelID}, nil)
	m.modelRepo.On("GetByID", mock.Anything, workspaceID, modelID).
		Return(&domain.Model{ID: modelID, Name: "churn"}, nil)
	m.artifactRepo.On("ListByModelVersion", mock.Anything, workspaceID, versionID, domain.ArtifactKindModel).
		Return([]*domain.ArtifactVersion{artifact}, nil)
	m.repo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Deployment")).Return(nil)
	m.repo.On("GetByID", mock.Anything, workspaceID, mock.AnythingOfType("uuid.UUID")).
		Return(&domain.Deployment{ID: uuid.New(), ModelVersionID: versionID, Status: domain.DeploymentStatusPending}, nil)
	m.serving.On("IsAvailable").Return(true)
	m.serving.On("Deploy", mock.Anything, "ml-prod", mock.AnythingOfType("*domain.Deployment"), artifact).
		Return(&output.ServingDeployment{ExternalID: "uid-1234"}, nil)
	m.repo.On("Update", mock.Anything, workspaceID, mock.MatchedBy(func(d *domain.Deployment) bool {
		return d.ExternalID == "uid-1234"
	})).Return(nil)

	result, err := svc.Deploy(context.Background(), workspaceID, versionID, "churn-3", "ml-prod")
	assert.NoError(t, err)
	assert.Equal(t, string(domain.DeploymentStatusPending), result.Status)
	assert.Equal(t, "uid-1234", result.Deployment.ExternalID)
}

func TestDeployService_Undeploy(t *testing.T) {
	svc, m := newDeployService()

	workspaceID := uuid.New()
	id := uuid.New()
	deployment := &domain.Deployment{
		ID: id, Name: "churn-3", Namespace: "ml-prod",
		Status: domain.DeploymentStatusDeployed, URL: "http://churn.ml-prod.example.com",
	}

	m.repo.On("GetByID", mock.Anything, workspaceID, id).Return(deployment, nil)
	m.serving.On("IsAvailable").Return(true)
	m.serving.On("Undeploy", mock.Anything, "ml-prod", "churn-3").Return(nil)
	m.repo.On("Update", mock.Anything, workspaceID, mock.MatchedBy(func(d *domain.Deployment) bool {
		return d.Status == domain.DeploymentStatusUndeployed && d.URL == ""
	})).Return(nil)

	err := svc.Undeploy(context.Background(), workspaceID, id)
	assert.NoError(t, err)
}

func TestDeployService_Undeploy_IgnoresBackendError(t *testing.T) {
	svc, m := newDeployService()

	workspaceID := uuid.New()
	id := uuid.New()
	deployment := &domain.Deployment{ID: id, Name: "churn-3", Namespace: "ml-prod", Status: domain.DeploymentStatusDeployed}

	m.repo.On("GetByID", mock.Anything, workspaceID, id).Return(deployment, nil)
	m.serving.On("IsAvailable").Return(true)
	m.serving.On("Undeploy", mock.Anything, "ml-prod", "churn-3").Return(errors.New("already gone"))
	m.repo.On("Update", mock.Anything, workspaceID, mock.AnythingOfType("*domain.Deployment")).Return(nil)

	err := svc.Undeploy(context.Background(), workspaceID, id)
	assert.NoError(t, err)
}

func TestDeployService_SyncStatus_Ready(t *testing.T) {
	svc, m := newDeployService()

	workspaceID := uuid.New()
	id := uuid.New()
	deployment := &domain.Deployment{ID: id, Name: "churn-3", Namespace: "ml-prod", Status: domain.DeploymentStatusPending}

	m.repo.On("GetByID", mock.Anything, workspaceID, id).Return(deployment, nil).Once()
	m.serving.On("IsAvailable").Return(true)
	m.serving.On("GetStatus", mock.Anything, "ml-prod", "churn-3").
		Return(&output.ServingStatus{Ready: true, URL: "http://churn.ml-prod.example.com"}, nil)
	m.repo.On("Update", mock.Anything, workspaceID, mock.MatchedBy(func(d *domain.Deployment) bool {
		return d.Status == domain.DeploymentStatusDeployed && d.URL == "http://churn.ml-prod.example.com"
	})).Return(nil)
	m.repo.On("GetByID", mock.Anything, workspaceID, id).
		Return(&domain.Deployment{ID: id, Status: domain.DeploymentStatusDeployed, URL: "http://churn.ml-prod.example.com"}, nil)

	synced, err := svc.SyncStatus(context.Background(), workspaceID, id)
	assert.NoError(t, err)
	assert.Equal(t, domain.DeploymentStatusDeployed, synced.Status)
}

func TestDeployService_SyncStatus_ServingUnavailable(t *testing.T) {
	svc, m := newDeployService()

	workspaceID := uuid.New()
	id := uuid.New()
	deployment := &domain.Deployment{ID: id, Status: domain.DeploymentStatusPending}

	m.repo.On("GetByID", mock.Anything, workspaceID, id).Return(deployment, nil)
	m.serving.On("IsAvailable").Return(false)

	synced, err := svc.SyncStatus(context.Background(), workspaceID, id)
	assert.NoError(t, err)
	assert.Equal(t, domain.DeploymentStatusPending, synced.Status)
	m.repo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestSlugify(t *testing.T) {
	assert.Equal(t, "churn-predictor", slugify("Churn Predictor"))
	assert.Equal(t, "fraud-scorer-v2", slugify("Fraud_Scorer v2!"))
	assert.Equal(t, "abc-123", slugify("abc-123"))

	long := strings.Repeat("a", 80)
	assert.Len(t, slugify(long), 60)
}
