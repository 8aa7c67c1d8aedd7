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
	"github.com/stretchr/testify/require"

	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/core/services"
	"model-control-plane/internal/testutil"
)

type e2eMocks struct {
	modelRepo      *testutil.MockModelRepo
	versionRepo    *testutil.MockModelVersionRepo
	artifactRepo   *testutil.MockArtifactRepo
	runRepo        *testutil.MockPipelineRunRepo
	deploymentRepo *testutil.MockDeploymentRepo
	serving        *testutil.MockServingClient
}

// setupE2ERouter creates a full handler with mock repos for contract tests.
func setupE2ERouter() (e2eMocks, *gin.Engine) {
	gin.SetMode(gin.TestMode)
	m := e2eMocks{
		modelRepo:      new(testutil.MockModelRepo),
		versionRepo:    new(testutil.MockModelVersionRepo),
		artifactRepo:   new(testutil.MockArtifactRepo),
		runRepo:        new(testutil.MockPipelineRunRepo),
		deploymentRepo: new(testutil.MockDeploymentRepo),
		serving:        new(testutil.MockServingClient),
	}

	h := New(
		services.NewModelService(m.modelRepo, m.versionRepo, nil),
		services.NewModelVersionService(m.versionRepo, m.modelRepo, nil),
		services.NewArtifactService(m.artifactRepo, m.versionRepo),
		services.NewPipelineRunService(m.runRepo, m.versionRepo),
		services.NewDeployService(m.deploymentRepo, m.modelRepo, m.versionRepo, m.artifactRepo, m.serving),
		services.NewLineageService(m.versionRepo, m.artifactRepo, m.runRepo),
	)
	r := gin.New()
	api := r.Group("/api/v1")
	h.RegisterRoutes(api)

	return m, r
}

// ---------------------------------------------------------------------------
// Helper: assert JSON field exists and has expected type
// ---------------------------------------------------------------------------

func assertFieldString(t *testing.T, resp map[string]interface{}, key string) {
	t.Helper()
	val, ok := resp[key]
	assert.True(t, ok, "response missing field %q", key)
	if ok {
		_, isStr := val.(string)
		assert.True(t, isStr, "field %q should be string, got %T", key, val)
	}
}

func assertFieldNumber(t *testing.T, resp map[string]interface{}, key string) {
	t.Helper()
	val, ok := resp[key]
	assert.True(t, ok, "response missing field %q", key)
	if ok {
		_, isNum := val.(float64)
		assert.True(t, isNum, "field %q should be number, got %T", key, val)
	}
}

func assertFieldMap(t *testing.T, resp map[string]interface{}, key string) {
	t.Helper()
	val, ok := resp[key]
	assert.True(t, ok, "response missing field %q", key)
	if ok && val != nil {
		_, isMap := val.(map[string]interface{})
		assert.True(t, isMap, "field %q should be object/map, got %T", key, val)
	}
}

func assertFieldArray(t *testing.T, resp map[string]interface{}, key string) {
	t.Helper()
	val, ok := resp[key]
	assert.True(t, ok, "response missing field %q", key)
	if ok {
		_, isArr := val.([]interface{})
		assert.True(t, isArr, "field %q should be array, got %T", key, val)
	}
}

// assertModelFields checks all fields the client SDK decodes into mcp.Model.
func assertModelFields(t *testing.T, resp map[string]interface{}) {
	t.Helper()
	assertFieldString(t, resp, "id")
	assertFieldString(t, resp, "created_at")
	assertFieldString(t, resp, "updated_at")
	assertFieldString(t, resp, "name")
	assertFieldString(t, resp, "description")
	assertFieldString(t, resp, "license")
	assertFieldString(t, resp, "audience")
	assertFieldString(t, resp, "use_cases")
	assertFieldString(t, resp, "limitations")
	assertFieldString(t, resp, "trade_offs")
	assertFieldString(t, resp, "ethics")
	assertFieldArray(t, resp, "tags")
	assertFieldNumber(t, resp, "version_count")
}

// assertVersionFields checks all fields the client SDK decodes into
// mcp.ModelVersion.
func assertVersionFields(t *testing.T, resp map[string]interface{}) {
	t.Helper()
	assertFieldString(t, resp, "id")
	assertFieldString(t, resp, "created_at")
	assertFieldString(t, resp, "updated_at")
	assertFieldString(t, resp, "model_id")
	assertFieldString(t, resp, "name")
	assertFieldNumber(t, resp, "number")
	assertFieldString(t, resp, "description")
	assertFieldString(t, resp, "stage")
	assertFieldArray(t, resp, "tags")
	assertFieldMap(t, resp, "metadata")
}

// assertArtifactFields checks all fields the client SDK decodes into
// mcp.ArtifactVersion.
func assertArtifactFields(t *testing.T, resp map[string]interface{}) {
	t.Helper()
	assertFieldString(t, resp, "id")
	assertFieldString(t, resp, "created_at")
	assertFieldString(t, resp, "updated_at")
	assertFieldString(t, resp, "name")
	assertFieldString(t, resp, "version")
	assertFieldString(t, resp, "kind")
	assertFieldString(t, resp, "uri")
	assertFieldMap(t, resp, "metadata")
}

// assertRunFields checks all fields the client SDK decodes into
// mcp.PipelineRun.
func assertRunFields(t *testing.T, resp map[string]interface{}) {
	t.Helper()
	assertFieldString(t, resp, "id")
	assertFieldString(t, resp, "created_at")
	assertFieldString(t, resp, "updated_at")
	assertFieldString(t, resp, "name")
	assertFieldString(t, resp, "pipeline_name")
	assertFieldString(t, resp, "status")
	assertFieldString(t, resp, "started_at")
}

// assertDeploymentFields checks all fields the client SDK decodes into
// mcp.Deployment.
func assertDeploymentFields(t *testing.T, resp map[string]interface{}) {
	t.Helper()
	assertFieldString(t, resp, "id")
	assertFieldString(t, resp, "created_at")
	assertFieldString(t, resp, "updated_at")
	assertFieldString(t, resp, "model_version_id")
	assertFieldString(t, resp, "name")
	assertFieldString(t, resp, "namespace")
	assertFieldString(t, resp, "status")
}

// assertListFields checks the pagination envelope.
func assertListFields(t *testing.T, resp map[string]interface{}) {
	t.Helper()
	assertFieldArray(t, resp, "items")
	assertFieldNumber(t, resp, "total")
	assertFieldNumber(t, resp, "page_size")
	assertFieldNumber(t, resp, "next_offset")
}

// ---------------------------------------------------------------------------
// Fixture helpers
// ---------------------------------------------------------------------------

func fixtureModel(workspaceID uuid.UUID) *domain.Model {
	return &domain.Model{
		ID:           uuid.New(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
		WorkspaceID:  workspaceID,
		Name:         "churn-predictor",
		Description:  "Predicts customer churn",
		License:      "Apache-2.0",
		Audience:     "retention team",
		UseCases:     "weekly churn scoring",
		Limitations:  "trained on EU data only",
		TradeOffs:    "recall over precision",
		Ethics:       "no personal data in features",
		Tags:         []string{"classification", "churn"},
		VersionCount: 2,
	}
}

func fixtureVersion(modelID uuid.UUID) *domain.ModelVersion {
	return &domain.ModelVersion{
		ID:          uuid.New(),
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
		ModelID:     modelID,
		ModelName:   "churn-predictor",
		Name:        "sprint-12",
		Number:      2,
		Description: "retrained on July data",
		Stage:       domain.StageNone,
		Tags:        []string{"retrain"},
		Metadata:    map[string]any{"accuracy": 0.93},
	}
}

func fixtureArtifact() *domain.ArtifactVersion {
	return &domain.ArtifactVersion{
		ID:        uuid.New(),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
		Name:      "churn-model",
		Version:   "2",
		Kind:      domain.ArtifactKindModel,
		URI:       "s3://models/churn/2",
		Metadata:  map[string]any{"framework": "sklearn"},
	}
}

// ===========================================================================
// Model contract tests
// ===========================================================================

func TestContract_CreateModel(t *testing.T) {
	m, r := setupE2ERouter()

	workspaceID := uuid.New()
	returned := fixtureModel(workspaceID)

	m.modelRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Model")).Return(nil)
	m.modelRepo.On("GetByID", mock.Anything, workspaceID, mock.AnythingOfType("uuid.UUID")).Return(returned, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"name":        "churn-predictor",
		"description": "Predicts customer churn",
		"license":     "Apache-2.0",
		"tags":        []string{"classification", "churn"},
	})

	req, _ := http.NewRequest("POST", "/api/v1/models", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Workspace-ID", workspaceID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assertModelFields(t, resp)

	assert.Equal(t, "churn-predictor", resp["name"])
	assert.Equal(t, float64(2), resp["version_count"])
}

func TestContract_GetModelWithLatest(t *testing.T) {
	m, r := setupE2ERouter()

	workspaceID := uuid.New()
	model := fixtureModel(workspaceID)
	model.LatestVersion = fixtureVersion(model.ID)

	m.modelRepo.On("GetByID", mock.Anything, workspaceID, model.ID).Return(model, nil)

	req, _ := http.NewRequest("GET", "/api/v1/models/"+model.ID.String(), nil)
	req.Header.Set("X-Workspace-ID", workspaceID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assertModelFields(t, resp)

	latest, ok := resp["latest_version"].(map[string]interface{})
	require.True(t, ok, "latest_version should be an object")
	assertVersionFields(t, latest)
	assert.Equal(t, float64(2), latest["number"])
}

func TestContract_ListModels(t *testing.T) {
	m, r := setupE2ERouter()

	workspaceID := uuid.New()
	models := []*domain.Model{fixtureModel(workspaceID)}

	m.modelRepo.On("List", mock.Anything, mock.AnythingOfType("ports.ModelListFilter")).Return(models, 1, nil)

	req, _ := http.NewRequest("GET", "/api/v1/models?limit=10&offset=0", nil)
	req.Header.Set("X-Workspace-ID", workspaceID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assertListFields(t, resp)

	items := resp["items"].([]interface{})
	require.Len(t, items, 1)
	assertModelFields(t, items[0].(map[string]interface{}))
	assert.Equal(t, float64(1), resp["total"])
	assert.Equal(t, float64(10), resp["page_size"])
	assert.Equal(t, float64(1), resp["next_offset"])
}

// ===========================================================================
// ModelVersion contract tests
// ===========================================================================

func TestContract_CreateVersion(t *testing.T) {
	m, r := setupE2ERouter()

	workspaceID := uuid.New()
	modelID := uuid.New()
	returned := fixtureVersion(modelID)

	m.modelRepo.On("GetByID", mock.Anything, workspaceID, modelID).
		Return(&domain.Model{ID: modelID, Name: "churn-predictor"}, nil)
	m.versionRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ModelVersion")).Return(nil)
	m.versionRepo.On("GetByID", mock.Anything, workspaceID, mock.AnythingOfType("uuid.UUID")).Return(returned, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"name":        "sprint-12",
		"description": "retrained on July data",
		"tags":        []string{"retrain"},
	})

	req, _ := http.NewRequest("POST", "/api/v1/models/"+modelID.String()+"/versions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Workspace-ID", workspaceID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assertVersionFields(t, resp)

	assert.Equal(t, modelID.String(), resp["model_id"])
	assert.Equal(t, "none", resp["stage"])
}

func TestContract_SetStage(t *testing.T) {
	m, r := setupE2ERouter()

	workspaceID := uuid.New()
	modelID := uuid.New()
	version := fixtureVersion(modelID)
	promoted := fixtureVersion(modelID)
	promoted.ID = version.ID
	promoted.Stage = domain.StageProduction

	m.modelRepo.On("GetByID", mock.Anything, workspaceID, modelID).
		Return(&domain.Model{ID: modelID, Name: "churn-predictor"}, nil)
	m.versionRepo.On("GetByNumber", mock.Anything, workspaceID, modelID, 2).Return(version, nil)
	m.versionRepo.On("GetByStage", mock.Anything, workspaceID, modelID, domain.StageProduction).
		Return(nil, domain.ErrVersionNotFound)
	m.versionRepo.On("SetStage", mock.Anything, workspaceID, version.ID, domain.StageProduction, (*uuid.UUID)(nil)).
		Return(nil)
	m.versionRepo.On("GetByID", mock.Anything, workspaceID, version.ID).Return(promoted, nil)

	body, _ := json.Marshal(map[string]interface{}{"stage": "production"})

	req, _ := http.NewRequest("POST", "/api/v1/models/"+modelID.String()+"/versions/2/stage", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Workspace-ID", workspaceID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assertVersionFields(t, resp)
	assert.Equal(t, "production", resp["stage"])
}

// ===========================================================================
// ArtifactVersion contract tests
// ===========================================================================

func TestContract_CreateArtifact(t *testing.T) {
	m, r := setupE2ERouter()

	workspaceID := uuid.New()
	returned := fixtureArtifact()

	m.artifactRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.ArtifactVersion")).Return(nil)
	m.artifactRepo.On("GetByID", mock.Anything, workspaceID, mock.AnythingOfType("uuid.UUID")).Return(returned, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"name":     "churn-model",
		"version":  "2",
		"kind":     "model-artifact",
		"uri":      "s3://models/churn/2",
		"metadata": map[string]interface{}{"framework": "sklearn"},
	})

	req, _ := http.NewRequest("POST", "/api/v1/artifact_versions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Workspace-ID", workspaceID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assertArtifactFields(t, resp)
	assert.Equal(t, "model-artifact", resp["kind"])
}

// ===========================================================================
// PipelineRun contract tests
// ===========================================================================

func TestContract_CreateRun(t *testing.T) {
	m, r := setupE2ERouter()

	workspaceID := uuid.New()
	returned := &domain.PipelineRun{
		ID:           uuid.New(),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
		Name:         "train-2024-08-01",
		PipelineName: "training",
		Status:       domain.RunStatusRunning,
		StartedAt:    time.Now(),
	}

	m.runRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.PipelineRun")).Return(nil)
	m.runRepo.On("GetByID", mock.Anything, workspaceID, mock.AnythingOfType("uuid.UUID")).Return(returned, nil)

	body, _ := json.Marshal(map[string]interface{}{
		"name":          "train-2024-08-01",
		"pipeline_name": "training",
	})

	req, _ := http.NewRequest("POST", "/api/v1/runs", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Workspace-ID", workspaceID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assertRunFields(t, resp)
	assert.Equal(t, "running", resp["status"])
}

// ===========================================================================
// Deployment contract tests
// ===========================================================================

func TestContract_Deploy(t *testing.T) {
	m, r := setupE2ERouter()

	workspaceID := uuid.New()
	modelID := uuid.New()
	version := fixtureVersion(modelID)
	model := &domain.Model{ID: modelID, Name: "churn-predictor"}

	m.modelRepo.On("GetByID", mock.Anything, workspaceID, modelID).Return(model, nil)
	m.versionRepo.On("GetLatest", mock.Anything, workspaceID, modelID).Return(version, nil)
	m.versionRepo.On("GetByID", mock.Anything, workspaceID, version.ID).Return(version, nil)
	m.artifactRepo.On("ListByModelVersion", mock.Anything, workspaceID, version.ID, domain.ArtifactKindModel).
		Return([]*domain.ArtifactVersion{fixtureArtifact()}, nil)
	m.deploymentRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Deployment")).Return(nil)
	m.deploymentRepo.On("GetByID", mock.Anything, workspaceID, mock.AnythingOfType("uuid.UUID")).
		Return(&domain.Deployment{
			ID:             uuid.New(),
			CreatedAt:      time.Now(),
			UpdatedAt:      time.Now(),
			ModelVersionID: version.ID,
			Name:           "churn-predictor-" + version.ID.String()[:8],
			Namespace:      "model-serving",
			Status:         domain.DeploymentStatusPending,
		}, nil)
	m.serving.On("IsAvailable").Return(false)

	body, _ := json.Marshal(map[string]interface{}{
		"model":     modelID.String(),
		"namespace": "model-serving",
	})

	req, _ := http.NewRequest("POST", "/api/v1/deployments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Workspace-ID", workspaceID.String())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusAccepted, w.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assertFieldString(t, resp, "status")
	assertFieldString(t, resp, "message")

	deployment, ok := resp["deployment"].(map[string]interface{})
	require.True(t, ok, "deployment should be an object")
	assertDeploymentFields(t, deployment)
	assert.Equal(t, "PENDING", deployment["status"])
}
