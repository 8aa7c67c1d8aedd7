package mcp

import (
	"context"
	"net/http"
)

// LineageNode is one vertex in a version's lineage graph.
type LineageNode struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Name   string `json:"name"`
	Detail string `json:"detail,omitempty"`
}

// LineageEdge connects two lineage nodes with a relation label.
type LineageEdge struct {
	From     string `json:"from"`
	To       string `json:"to"`
	Relation string `json:"relation"`
}

// Lineage is the provenance graph around one model version. Nodes are
// ordered topologically, producers first.
type Lineage struct {
	Nodes []LineageNode `json:"nodes"`
	Edges []LineageEdge `json:"edges"`
}

// Lineage fetches the provenance graph of a model version: its linked
// runs, artifacts, and the runs that produced those artifacts.
func (c *Client) Lineage(ctx context.Context, model, ref string) (*Lineage, error) {
	var out Lineage
	if err := c.do(ctx, http.MethodGet, versionPath(model, ref, "/lineage"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
