package lineage

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"model-control-plane/internal/core/domain"
)

func nodeIndex(nodes []Node, id string) int {
	for i, n := range nodes {
		if n.ID == id {
			return i
		}
	}
	return -1
}

func TestBuild_TopologicalOrder(t *testing.T) {
	runID := uuid.New()
	version := &domain.ModelVersion{ID: uuid.New(), Name: "v3", Stage: domain.StageProduction}
	artifact := &domain.ArtifactVersion{
		ID: uuid.New(), Name: "churn-model", Version: "3",
		Kind: domain.ArtifactKindModel, ProducerRunID: &runID,
	}
	run := &domain.PipelineRun{ID: runID, Name: "training-42", Status: domain.RunStatusCompleted}

	g, err := Build(version, []*domain.ArtifactVersion{artifact}, []*domain.PipelineRun{run})
	assert.NoError(t, err)
	assert.Len(t, g.Nodes, 3)

	runIdx := nodeIndex(g.Nodes, runID.String())
	artifactIdx := nodeIndex(g.Nodes, artifact.ID.String())
	versionIdx := nodeIndex(g.Nodes, version.ID.String())

	assert.Less(t, runIdx, artifactIdx)
	assert.Less(t, artifactIdx, versionIdx)
	assert.Equal(t, len(g.Nodes)-1, versionIdx)
}

func TestBuild_EdgeRelations(t *testing.T) {
	runID := uuid.New()
	version := &domain.ModelVersion{ID: uuid.New(), Name: "v3"}
	artifact := &domain.ArtifactVersion{
		ID: uuid.New(), Name: "churn-model", Version: "3",
		Kind: domain.ArtifactKindModel, ProducerRunID: &runID,
	}
	run := &domain.PipelineRun{ID: runID, Name: "training-42", Status: domain.RunStatusCompleted}

	g, err := Build(version, []*domain.ArtifactVersion{artifact}, []*domain.PipelineRun{run})
	assert.NoError(t, err)

	relations := map[string]int{}
	for _, e := range g.Edges {
		relations[e.Relation]++
	}
	assert.Equal(t, 1, relations[RelationAssociated])
	assert.Equal(t, 1, relations[RelationLinked])
	assert.Equal(t, 1, relations[RelationProduced])
}

func TestBuild_NodeLabels(t *testing.T) {
	version := &domain.ModelVersion{ID: uuid.New(), Name: "v3", Stage: domain.StageStaging}
	artifact := &domain.ArtifactVersion{
		ID: uuid.New(), Name: "churn-model", Version: "3", Kind: domain.ArtifactKindModel,
	}

	g, err := Build(version, []*domain.ArtifactVersion{artifact}, nil)
	assert.NoError(t, err)

	versionNode := g.Nodes[nodeIndex(g.Nodes, version.ID.String())]
	assert.Equal(t, NodeKindModelVersion, versionNode.Kind)
	assert.Equal(t, "staging", versionNode.Detail)

	artifactNode := g.Nodes[nodeIndex(g.Nodes, artifact.ID.String())]
	assert.Equal(t, NodeKindArtifact, artifactNode.Kind)
	assert.Equal(t, "churn-model:3", artifactNode.Name)
	assert.Equal(t, "model-artifact", artifactNode.Detail)
}

func TestBuild_EmptyLineage(t *testing.T) {
	version := &domain.ModelVersion{ID: uuid.New(), Name: "v1"}

	g, err := Build(version, nil, nil)
	assert.NoError(t, err)
	assert.Len(t, g.Nodes, 1)
	assert.NotNil(t, g.Edges)
	assert.Len(t, g.Edges, 0)
}

func TestBuild_UnknownProducerDropsEdge(t *testing.T) {
	producerID := uuid.New()
	version := &domain.ModelVersion{ID: uuid.New(), Name: "v1"}
	artifact := &domain.ArtifactVersion{
		ID: uuid.New(), Name: "training-set", Version: "1",
		Kind: domain.ArtifactKindData, ProducerRunID: &producerID,
	}

	g, err := Build(version, []*domain.ArtifactVersion{artifact}, nil)
	assert.NoError(t, err)
	assert.Len(t, g.Nodes, 2)
	for _, e := range g.Edges {
		assert.NotEqual(t, RelationProduced, e.Relation)
	}
}

func TestBuild_SharedArtifactAcrossRuns(t *testing.T) {
	run1 := &domain.PipelineRun{ID: uuid.New(), Name: "training-41", Status: domain.RunStatusCompleted}
	run2 := &domain.PipelineRun{ID: uuid.New(), Name: "training-42", Status: domain.RunStatusCompleted}
	version := &domain.ModelVersion{ID: uuid.New(), Name: "v3"}
	artifact := &domain.ArtifactVersion{
		ID: uuid.New(), Name: "training-set", Version: "1",
		Kind: domain.ArtifactKindData, ProducerRunID: &run1.ID,
	}

	g, err := Build(version, []*domain.ArtifactVersion{artifact}, []*domain.PipelineRun{run1, run2})
	assert.NoError(t, err)
	assert.Len(t, g.Nodes, 4)

	// run1 produced the artifact, run2 only associates with the version.
	var producedFrom string
	for _, e := range g.Edges {
		if e.Relation == RelationProduced {
			producedFrom = e.From
		}
	}
	assert.Equal(t, run1.ID.String(), producedFrom)
}
