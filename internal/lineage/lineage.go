// Package lineage assembles the provenance graph of a model version: the
// pipeline runs that executed, the artifacts they produced and the version
// that bundles them.
package lineage

import (
	"fmt"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"

	"model-control-plane/internal/core/domain"
)

type NodeKind string

const (
	NodeKindModelVersion NodeKind = "model-version"
	NodeKindArtifact     NodeKind = "artifact"
	NodeKindPipelineRun  NodeKind = "pipeline-run"
)

// Relation labels on edges.
const (
	RelationProduced   = "produced"   // run -> artifact
	RelationLinked     = "linked"     // artifact -> model version
	RelationAssociated = "associated" // run -> model version
)

type Node struct {
	ID     string   `json:"id"`
	Kind   NodeKind `json:"kind"`
	Name   string   `json:"name"`
	Detail string   `json:"detail,omitempty"`
}

type Edge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
}

// Graph is the lineage of one model version. Nodes come out in topological
// order, so producers always precede what they produced and the model
// version is last.
type Graph struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Build assembles the lineage DAG. Runs must include the producers of every
// artifact whose ProducerRunID is set, or the producer edge is dropped.
func Build(version *domain.ModelVersion, artifacts []*domain.ArtifactVersion, runs []*domain.PipelineRun) (*Graph, error) {
	g := graph.New(graph.StringHash, graph.Directed(), graph.PreventCycles())

	nodes := map[string]Node{}
	addNode := func(n Node) error {
		if err := g.AddVertex(n.ID); err != nil {
			if errors.Is(err, graph.ErrVertexAlreadyExists) {
				return nil
			}
			return errors.Wrapf(err, "add vertex %s", n.ID)
		}
		nodes[n.ID] = n
		return nil
	}

	versionNode := Node{
		ID:     version.ID.String(),
		Kind:   NodeKindModelVersion,
		Name:   version.Name,
		Detail: string(version.Stage),
	}
	if err := addNode(versionNode); err != nil {
		return nil, err
	}

	for _, run := range runs {
		if err := addNode(Node{
			ID:     run.ID.String(),
			Kind:   NodeKindPipelineRun,
			Name:   run.Name,
			Detail: string(run.Status),
		}); err != nil {
			return nil, err
		}
	}

	for _, artifact := range artifacts {
		if err := addNode(Node{
			ID:     artifact.ID.String(),
			Kind:   NodeKindArtifact,
			Name:   fmt.Sprintf("%s:%s", artifact.Name, artifact.Version),
			Detail: string(artifact.Kind),
		}); err != nil {
			return nil, err
		}
	}

	var edges []Edge
	addEdge := func(from, to, relation string) error {
		err := g.AddEdge(from, to, graph.EdgeAttribute("relation", relation))
		if err != nil {
			if errors.Is(err, graph.ErrEdgeAlreadyExists) {
				return nil
			}
			return errors.Wrapf(err, "add edge %s -> %s", from, to)
		}
		edges = append(edges, Edge{From: from, To: to, Relation: relation})
		return nil
	}

	for _, run := range runs {
		if err := addEdge(run.ID.String(), versionNode.ID, RelationAssociated); err != nil {
			return nil, err
		}
	}

	for _, artifact := range artifacts {
		if err := addEdge(artifact.ID.String(), versionNode.ID, RelationLinked); err != nil {
			return nil, err
		}
		if artifact.ProducerRunID != nil {
			producerID := artifact.ProducerRunID.String()
			if _, ok := nodes[producerID]; ok {
				if err := addEdge(producerID, artifact.ID.String(), RelationProduced); err != nil {
					return nil, err
				}
			}
		}
	}

	order, err := graph.TopologicalSort(g)
	if err != nil {
		return nil, errors.Wrap(err, "sort lineage graph")
	}

	sorted := make([]Node, 0, len(order))
	for _, id := range order {
		sorted = append(sorted, nodes[id])
	}

	if edges == nil {
		edges = []Edge{}
	}
	return &Graph{Nodes: sorted, Edges: edges}, nil
}
