package dto

import (
	"model-control-plane/internal/lineage"
)

type LineageNode struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Detail string `json:"detail,omitempty"`
}

type LineageEdge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
}

// LineageResponse lists nodes in topological order, producers first.
type LineageResponse struct {
	Nodes []LineageNode `json:"nodes"`
	Edges []LineageEdge `json:"edges"`
}

func ToLineageResponse(g *lineage.Graph) LineageResponse {
	nodes := make([]LineageNode, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes = append(nodes, LineageNode{
			ID:     n.ID,
			Kind:   string(n.Kind),
			Name:   n.Name,
			Detail: n.Detail,
		})
	}
	edges := make([]LineageEdge, 0, len(g.Edges))
	for _, e := range g.Edges {
		edges = append(edges, LineageEdge{
			From:     e.From,
			To:       e.To,
			Relation: e.Relation,
		})
	}
	return LineageResponse{Nodes: nodes, Edges: edges}
}
