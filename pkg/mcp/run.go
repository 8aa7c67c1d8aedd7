package mcp

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// CreateRunInput records a pipeline run.
type CreateRunInput struct {
	Name         string `json:"name"`
	PipelineName string `json:"pipeline_name,omitempty"`
}

// ListRunsOptions filter the pipeline run listing.
type ListRunsOptions struct {
	ListOptions
	Pipeline string
	Status   string
}

type updateRunStatusInput struct {
	Status string `json:"status"`
}

type linkRunInput struct {
	RunID uuid.UUID `json:"run_id"`
}

// CreateRun records a started pipeline run.
func (c *Client) CreateRun(ctx context.Context, in CreateRunInput) (*PipelineRun, error) {
	var out PipelineRun
	if err := c.do(ctx, http.MethodPost, "/runs", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetRun fetches a pipeline run by ID.
func (c *Client) GetRun(ctx context.Context, id uuid.UUID) (*PipelineRun, error) {
	var out PipelineRun
	if err := c.do(ctx, http.MethodGet, "/runs/"+id.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindRun fetches a pipeline run by exact name.
func (c *Client) FindRun(ctx context.Context, name string) (*PipelineRun, error) {
	q := url.Values{}
	q.Set("name", name)
	var out PipelineRun
	if err := c.do(ctx, http.MethodGet, "/run", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListRuns returns one page of pipeline runs. opts may be nil.
func (c *Client) ListRuns(ctx context.Context, opts *ListRunsOptions) (*PipelineRunList, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
		if opts.Pipeline != "" {
			q.Set("pipeline", opts.Pipeline)
		}
		if opts.Status != "" {
			q.Set("status", opts.Status)
		}
	}
	var out PipelineRunList
	if err := c.do(ctx, http.MethodGet, "/runs", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateRunStatus transitions a run to a new status. Terminal statuses
// set the end timestamp server-side.
func (c *Client) UpdateRunStatus(ctx context.Context, id uuid.UUID, status string) (*PipelineRun, error) {
	var out PipelineRun
	in := updateRunStatusInput{Status: status}
	if err := c.do(ctx, http.MethodPatch, "/runs/"+id.String()+"/status", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteRun removes a pipeline run and its version links.
func (c *Client) DeleteRun(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/runs/"+id.String(), nil, nil, nil)
}

// LinkRun associates a pipeline run with a model version.
func (c *Client) LinkRun(ctx context.Context, model, ref string, runID uuid.UUID) error {
	in := linkRunInput{RunID: runID}
	return c.do(ctx, http.MethodPost, versionPath(model, ref, "/runs"), nil, in, nil)
}

// UnlinkRun removes a run association from a model version.
func (c *Client) UnlinkRun(ctx context.Context, model, ref string, runID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, versionPath(model, ref, "/runs/"+runID.String()), nil, nil, nil)
}

// ListVersionRuns lists the pipeline runs linked to a model version.
func (c *Client) ListVersionRuns(ctx context.Context, model, ref string) (*PipelineRunList, error) {
	var out PipelineRunList
	if err := c.do(ctx, http.MethodGet, versionPath(model, ref, "/runs"), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
