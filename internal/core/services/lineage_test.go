package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/lineage"
	"model-control-plane/internal/testutil"
)

func newLineageService() (*LineageService, *testutil.MockModelVersionRepo, *testutil.MockArtifactRepo, *testutil.MockPipelineRunRepo) {
	versionRepo := new(testutil.MockModelVersionRepo)
	artifactRepo := new(testutil.MockArtifactRepo)
	runRepo := new(testutil.MockPipelineRunRepo)
	return NewLineageService(versionRepo, artifactRepo, runRepo), versionRepo, artifactRepo, runRepo
}

func TestLineageService_Graph(t *testing.T) {
	svc, versionRepo, artifactRepo, runRepo := newLineageService()

	workspaceID := uuid.New()
	versionID := uuid.New()
	runID := uuid.New()
	artifact := &domain.ArtifactVersion{
		ID: uuid.New(), Name: "churn-model", Version: "3",
		Kind: domain.ArtifactKindModel, ProducerRunID: &runID,
	}
	run := &domain.PipelineRun{ID: runID, Name: "training-42", Status: domain.RunStatusCompleted}

	versionRepo.On("GetByID", mock.Anything, workspaceID, versionID).
		Return(&domain.ModelVersion{ID: versionID, Name: "v3", Stage: domain.StageProduction}, nil)
	artifactRepo.On("ListByModelVersion", mock.Anything, workspaceID, versionID, domain.ArtifactKind("")).
		Return([]*domain.ArtifactVersion{artifact}, nil)
	runRepo.On("ListByModelVersion", mock.Anything, workspaceID, versionID).
		Return([]*domain.PipelineRun{run}, nil)

	graph, err := svc.Graph(context.Background(), workspaceID, versionID)
	assert.NoError(t, err)
	assert.Len(t, graph.Nodes, 3)
	assert.Len(t, graph.Edges, 3)
	assert.Equal(t, versionID.String(), graph.Nodes[len(graph.Nodes)-1].ID)
}

func TestLineageService_Graph_FetchesMissingProducer(t *testing.T) {
	svc, versionRepo, artifactRepo, runRepo := newLineageService()

	workspaceID := uuid.New()
	versionID := uuid.New()
	producerID := uuid.New()
	artifact := &domain.ArtifactVersion{
		ID: uuid.New(), Name: "training-set", Version: "1",
		Kind: domain.ArtifactKindData, ProducerRunID: &producerID,
	}

	versionRepo.On("GetByID", mock.Anything, workspaceID, versionID).
		Return(&domain.ModelVersion{ID: versionID, Name: "v1"}, nil)
	artifactRepo.On("ListByModelVersion", mock.Anything, workspaceID, versionID, domain.ArtifactKind("")).
		Return([]*domain.ArtifactVersion{artifact}, nil)
	runRepo.On("ListByModelVersion", mock.Anything, workspaceID, versionID).
		Return([]*domain.PipelineRun{}, nil)
	runRepo.On("GetByID", mock.Anything, workspaceID, producerID).
		Return(&domain.PipelineRun{ID: producerID, Name: "etl-7", Status: domain.RunStatusCompleted}, nil)

	graph, err := svc.Graph(context.Background(), workspaceID, versionID)
	assert.NoError(t, err)
	assert.Len(t, graph.Nodes, 3)

	var produced bool
	for _, e := range graph.Edges {
		if e.Relation == lineage.RelationProduced && e.From == producerID.String() {
			produced = true
		}
	}
	assert.True(t, produced)
}

func TestLineageService_Graph_DeletedProducerSkipped(t *testing.T) {
	svc, versionRepo, artifactRepo, runRepo := newLineageService()

	workspaceID := uuid.New()
	versionID := uuid.New()
	producerID := uuid.New()
	artifact := &domain.ArtifactVersion{
		ID: uuid.New(), Name: "training-set", Version: "1",
		Kind: domain.ArtifactKindData, ProducerRunID: &producerID,
	}

	versionRepo.On("GetByID", mock.Anything, workspaceID, versionID).
		Return(&domain.ModelVersion{ID: versionID, Name: "v1"}, nil)
	artifactRepo.On("ListByModelVersion", mock.Anything, workspaceID, versionID, domain.ArtifactKind("")).
		Return([]*domain.ArtifactVersion{artifact}, nil)
	runRepo.On("ListByModelVersion", mock.Anything, workspaceID, versionID).
		Return([]*domain.PipelineRun{}, nil)
	runRepo.On("GetByID", mock.Anything, workspaceID, producerID).Return(nil, domain.ErrRunNotFound)

	graph, err := svc.Graph(context.Background(), workspaceID, versionID)
	assert.NoError(t, err)
	assert.Len(t, graph.Nodes, 2)
	for _, e := range graph.Edges {
		assert.NotEqual(t, lineage.RelationProduced, e.Relation)
	}
}

func TestLineageService_Graph_VersionNotFound(t *testing.T) {
	svc, versionRepo, _, _ := newLineageService()

	workspaceID := uuid.New()
	versionID := uuid.New()
	versionRepo.On("GetByID", mock.Anything, workspaceID, versionID).Return(nil, domain.ErrVersionNotFound)

	_, err := svc.Graph(context.Background(), workspaceID, versionID)
	assert.ErrorIs(t, err, domain.ErrVersionNotFound)
}
