package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/core/ports/output"
	"model-control-plane/internal/core/services"
	"model-control-plane/internal/testutil"
)

type deployRouterMocks struct {
	modelRepo      *testutil.MockModelRepo
	versionRepo    *testutil.MockModelVersionRepo
	artifactRepo   *testutil.MockArtifactRepo
	deploymentRepo *testutil.MockDeploymentRepo
	serving        *testutil.MockServingClient
}

func setupDeployRouter() (deployRouterMocks, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	m := deployRouterMocks{
		modelRepo:      new(testutil.MockModelRepo),
		versionRepo:    new(testutil.MockModelVersionRepo),
		artifactRepo:   new(testutil.MockArtifactRepo),
		deploymentRepo: new(testutil.MockDeploymentRepo),
		serving:        new(testutil.MockServingClient),
	}
	runRepo := new(testutil.MockPipelineRunRepo)

	h := New(
		services.NewModelService(m.modelRepo, m.versionRepo, nil),
		services.NewModelVersionService(m.versionRepo, m.modelRepo, nil),
		services.NewArtifactService(m.artifactRepo, m.versionRepo),
		services.NewPipelineRunService(runRepo, m.versionRepo),
		services.NewDeployService(m.deploymentRepo, m.modelRepo, m.versionRepo, m.artifactRepo, m.serving),
		services.NewLineageService(m.versionRepo, m.artifactRepo, runRepo),
	)
	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterRoutes(api)

	return m, r
}

func TestCreateDeployment_DefaultsToLatest(t *testing.T) {
	m, r := setupDeployRouter()

	workspaceID := uuid.New()
	modelID := uuid.New()
	versionID := uuid.New()
	model := &domain.Model{ID: modelID, Name: "churn-predictor"}
	version := &domain.ModelVersion{ID: versionID, ModelID: modelID, Number: 3}

	m.modelRepo.On("GetByID", mock.Anything, workspaceID, modelID).Return(model, nil)
	m.versionRepo.On("GetLatest", mock.Anything, workspaceID, modelID).Return(version, nil)
	m.versionRepo.On("GetByID", mock.Anything, workspaceID, versionID).Return(version, nil)
	m.artifactRepo.On("ListByModelVersion", mock.Anything, workspaceID, versionID, domain.ArtifactKindModel).
		Return([]*domain.ArtifactVersion{
			{
				ID: uuid.New(), Name: "churn-model", Kind: domain.ArtifactKindModel,
				URI: "s3://bucket/churn", Metadata: map[string]any{"framework": "sklearn"},
			},
		}, nil)
	m.deploymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Deployment")).Return(nil)
	m.deploymentRepo.On("GetByID", mock.Anything, workspaceID, mock.AnythingOfType("uuid.UUID")).
		Return(&domain.Deployment{
			ID: uuid.New(), ModelVersionID: versionID,
			Name: "churn-predictor-" + versionID.String()[:8], Namespace: "default",
			Status: domain.DeploymentStatusPending, ModelName: "churn-predictor",
		}, nil)
	m.serving.On("IsAvailable").Return(false)

	body, _ := json.Marshal(map[string]interface{}{"model": modelID.String()})
	req, _ := http.NewRequest("POST", "/api/v1/deployments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Workspace-ID", workspaceID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "PENDING", resp["status"])
	assert.Equal(t, "Deployment initiated", resp["message"])

	deployment, ok := resp["deployment"].(map[string]interface{})
	assert.True(t, ok)
	assert.Equal(t, "churn-predictor-"+versionID.String()[:8], deployment["name"])
}

func TestCreateDeployment_NoModelArtifact(t *testing.T) {
	m, r := setupDeployRouter()

	workspaceID := uuid.New()
	modelID := uuid.New()
	versionID := uuid.New()
	model := &domain.Model{ID: modelID, Name: "churn-predictor"}
	version := &domain.ModelVersion{ID: versionID, ModelID: modelID, Number: 3, Stage: domain.StageProduction}

	m.modelRepo.On("GetByName", mock.Anything, workspaceID, "churn-predictor").Return(model, nil)
	m.modelRepo.On("GetByID", mock.Anything, workspaceID, modelID).Return(model, nil)
	m.versionRepo.On("GetByStage", mock.Anything, workspaceID, modelID, domain.StageProduction).Return(version, nil)
	m.versionRepo.On("GetByID", mock.Anything, workspaceID, versionID).Return(version, nil)
	m.artifactRepo.On("ListByModelVersion", mock.Anything, workspaceID, versionID, domain.ArtifactKindModel).
		Return([]*domain.ArtifactVersion{}, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"model":   "churn-predictor",
		"version": "production",
	})
	req, _ := http.NewRequest("POST", "/api/v1/deployments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Workspace-ID", workspaceID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	m.deploymentRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateDeployment_MissingModel(t *testing.T) {
	_, r := setupDeployRouter()

	body, _ := json.Marshal(map[string]interface{}{"version": "production"})
	req, _ := http.NewRequest("POST", "/api/v1/deployments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Workspace-ID", uuid.New().String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListDeployments(t *testing.T) {
	m, r := setupDeployRouter()

	workspaceID := uuid.New()
	deployments := []*domain.Deployment{
		{ID: uuid.New(), Name: "churn-predictor-abc123", Status: domain.DeploymentStatusDeployed},
	}
	m.deploymentRepo.On("List", mock.Anything, mock.AnythingOfType("ports.DeploymentListFilter")).
		Return(deployments, 1, nil)

	req, _ := http.NewRequest("GET", "/api/v1/deployments?status=DEPLOYED", nil)
	req.Header.Set("X-Workspace-ID", workspaceID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, float64(1), resp["total"])
}

func TestGetDeployment(t *testing.T) {
	m, r := setupDeployRouter()

	workspaceID := uuid.New()
	id := uuid.New()
	m.deploymentRepo.On("GetByID", mock.Anything, workspaceID, id).
		Return(&domain.Deployment{
			ID: id, Name: "churn-predictor-abc123",
			Status: domain.DeploymentStatusDeployed, URL: "http://churn.default.svc",
		}, nil)

	req, _ := http.NewRequest("GET", "/api/v1/deployments/"+id.String(), nil)
	req.Header.Set("X-Workspace-ID", workspaceID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "DEPLOYED", resp["status"])
	assert.Equal(t, "http://churn.default.svc", resp["url"])
}

func TestGetDeployment_NotFound(t *testing.T) {
	m, r := setupDeployRouter()

	workspaceID := uuid.New()
	id := uuid.New()
	m.deploymentRepo.On("GetByID", mock.Anything, workspaceID, id).
		Return(nil, domain.ErrDeploymentNotFound)

	req, _ := http.NewRequest("GET", "/api/v1/deployments/"+id.String(), nil)
	req.Header.Set("X-Workspace-ID", workspaceID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteDeployment(t *testing.T) {
	m, r := setupDeployRouter()

	workspaceID := uuid.New()
	id := uuid.New()
	m.deploymentRepo.On("GetByID", mock.Anything, workspaceID, id).
		Return(&domain.Deployment{
			ID: id, Name: "churn-predictor-abc123", Namespace: "default",
			Status: domain.DeploymentStatusDeployed, URL: "http://churn.default.svc",
		}, nil)
	m.serving.On("IsAvailable").Return(false)
	m.deploymentRepo.On("Update", mock.Anything, workspaceID, mock.MatchedBy(func(d *domain.Deployment) bool {
		return d.Status == domain.DeploymentStatusUndeployed && d.URL == ""
	})).Return(nil)

	req, _ := http.NewRequest("DELETE", "/api/v1/deployments/"+id.String(), nil)
	req.Header.Set("X-Workspace-ID", workspaceID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.Bytes())
}

func TestSyncDeployment(t *testing.T) {
	m, r := setupDeployRouter()

	workspaceID := uuid.New()
	id := uuid.New()
	deployment := &domain.Deployment{
		ID: id, Name: "churn-predictor-abc123", Namespace: "default",
		Status: domain.DeploymentStatusPending, CreatedAt: time.Now(), UpdatedAt: time.Now(),
	}
	m.deploymentRepo.On("GetByID", mock.Anything, workspaceID, id).Return(deployment, nil)
	m.serving.On("IsAvailable").Return(true)
	m.serving.On("GetStatus", mock.Anything, "default", "churn-predictor-abc123").
		Return(&ports.ServingStatus{Ready: true, URL: "http://churn.default.example.com"}, nil)
	m.deploymentRepo.On("Update", mock.Anything, workspaceID, mock.AnythingOfType("*domain.Deployment")).
		Return(nil)

	req, _ := http.NewRequest("POST", "/api/v1/deployments/"+id.String()+"/sync", nil)
	req.Header.Set("X-Workspace-ID", workspaceID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	assert.Equal(t, "DEPLOYED", resp["status"])
	assert.Equal(t, "http://churn.default.example.com", resp["url"])
}

func TestSyncDeployment_InvalidID(t *testing.T) {
	_, r := setupDeployRouter()

	req, _ := http.NewRequest("POST", "/api/v1/deployments/nope/sync", nil)
	req.Header.Set("X-Workspace-ID", uuid.New().String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
