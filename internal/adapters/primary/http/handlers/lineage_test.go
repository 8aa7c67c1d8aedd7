package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/core/services"
	"model-control-plane/internal/testutil"
)

type lineageRouterMocks struct {
	modelRepo    *testutil.MockModelRepo
	versionRepo  *testutil.MockModelVersionRepo
	artifactRepo *testutil.MockArtifactRepo
	runRepo      *testutil.MockPipelineRunRepo
}

func setupLineageRouter() (lineageRouterMocks, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	m := lineageRouterMocks{
		modelRepo:    new(testutil.MockModelRepo),
		versionRepo:  new(testutil.MockModelVersionRepo),
		artifactRepo: new(testutil.MockArtifactRepo),
		runRepo:      new(testutil.MockPipelineRunRepo),
	}
	deploymentRepo := new(testutil.MockDeploymentRepo)
	serving := new(testutil.MockServingClient)

	h := New(
		services.NewModelService(m.modelRepo, m.versionRepo, nil),
		services.NewModelVersionService(m.versionRepo, m.modelRepo, nil),
		services.NewArtifactService(m.artifactRepo, m.versionRepo),
		services.NewPipelineRunService(m.runRepo, m.versionRepo),
		services.NewDeployService(deploymentRepo, m.modelRepo, m.versionRepo, m.artifactRepo, serving),
		services.NewLineageService(m.versionRepo, m.artifactRepo, m.runRepo),
	)
	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterRoutes(api)

	return m, r
}

func TestGetModelVersionLineage(t *testing.T) {
	m, r := setupLineageRouter()

	workspaceID := uuid.New()
	modelID := uuid.New()
	versionID := uuid.New()
	runID := uuid.New()
	m.modelRepo.On("GetByID", mock.Anything, workspaceID, modelID).
		Return(&domain.Model{ID: modelID, Name: "churn-predictor"}, nil)
	m.versionRepo.On("GetByID", mock.Anything, workspaceID, versionID).
		Return(&domain.ModelVersion{
			ID: versionID, ModelID: modelID, Number: 3, ModelName: "churn-predictor",
		}, nil)
	m.artifactRepo.On("ListByModelVersion", mock.Anything, workspaceID, versionID, domain.ArtifactKind("")).
		Return([]*domain.ArtifactVersion{
			{
				ID: uuid.New(), Name: "churn-model", Version: "3",
				Kind: domain.ArtifactKindModel, ProducerRunID: &runID,
			},
		}, nil)
	m.runRepo.On("ListByModelVersion", mock.Anything, workspaceID, versionID).
		Return([]*domain.PipelineRun{
			{ID: runID, Name: "train-2024-08-01", Status: domain.RunStatusCompleted},
		}, nil)

	req, _ := http.NewRequest("GET",
		"/api/v1/models/"+modelID.String()+"/versions/"+versionID.String()+"/lineage", nil)
	req.Header.Set("X-Workspace-ID", workspaceID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	nodes, _ := resp["nodes"].([]interface{})
	edges, _ := resp["edges"].([]interface{})
	assert.Len(t, nodes, 3)
	assert.Len(t, edges, 3)

	last, _ := nodes[len(nodes)-1].(map[string]interface{})
	assert.Equal(t, "model-version", last["kind"])
}

func TestGetModelVersionLineage_VersionNotFound(t *testing.T) {
	m, r := setupLineageRouter()

	workspaceID := uuid.New()
	modelID := uuid.New()
	m.modelRepo.On("GetByID", mock.Anything, workspaceID, modelID).
		Return(&domain.Model{ID: modelID, Name: "churn-predictor"}, nil)
	m.versionRepo.On("GetByName", mock.Anything, workspaceID, modelID, "ghost").
		Return(nil, domain.ErrVersionNotFound)

	req, _ := http.NewRequest("GET",
		"/api/v1/models/"+modelID.String()+"/versions/ghost/lineage", nil)
	req.Header.Set("X-Workspace-ID", workspaceID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
