package mcp

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// DeployInput requests a serving rollout. Model takes an ID or name,
// Version any version reference with empty meaning latest. Name and
// Namespace fall back to server defaults.
type DeployInput struct {
	Model     string `json:"model"`
	Version   string `json:"version,omitempty"`
	Name      string `json:"name,omitempty"`
	Namespace string `json:"namespace,omitempty"`
}

// ListDeploymentsOptions filter the deployment listing.
type ListDeploymentsOptions struct {
	ListOptions
	Status         string
	ModelVersionID uuid.UUID
}

// Deploy rolls a model version out to the serving backend. The rollout
// is asynchronous; poll with SyncDeployment or GetDeployment.
func (c *Client) Deploy(ctx context.Context, in DeployInput) (*DeployResult, error) {
	var out DeployResult
	if err := c.do(ctx, http.MethodPost, "/deployments", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetDeployment fetches a deployment by ID.
func (c *Client) GetDeployment(ctx context.Context, id uuid.UUID) (*Deployment, error) {
	var out Deployment
	if err := c.do(ctx, http.MethodGet, "/deployments/"+id.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListDeployments returns one page of deployments. opts may be nil.
func (c *Client) ListDeployments(ctx context.Context, opts *ListDeploymentsOptions) (*DeploymentList, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
		if opts.Status != "" {
			q.Set("status", opts.Status)
		}
		if opts.ModelVersionID != uuid.Nil {
			q.Set("model_version_id", opts.ModelVersionID.String())
		}
	}
	var out DeploymentList
	if err := c.do(ctx, http.MethodGet, "/deployments", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Undeploy tears a deployment down and removes its record.
func (c *Client) Undeploy(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/deployments/"+id.String(), nil, nil, nil)
}

// SyncDeployment refreshes a deployment's status from the serving
// backend and returns the updated record.
func (c *Client) SyncDeployment(ctx context.Context, id uuid.UUID) (*Deployment, error) {
	var out Deployment
	if err := c.do(ctx, http.MethodPost, "/deployments/"+id.String()+"/sync", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
