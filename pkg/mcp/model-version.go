package mcp

import (
	"context"
	"net/http"
	"net/url"
)

// CreateModelVersionInput starts a new version under a model. An empty
// name defaults to the assigned version number.
type CreateModelVersionInput struct {
	Name        string   `json:"name,omitempty"`
	Description string   `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// UpdateModelVersionInput carries partial version updates.
type UpdateModelVersionInput struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ListModelVersionsOptions filter the version listing of one model.
type ListModelVersionsOptions struct {
	ListOptions
	Stage  string
	Search string
}

type setStageInput struct {
	Stage string `json:"stage"`
	Force bool   `json:"force,omitempty"`
}

type logMetadataInput struct {
	Metadata map[string]any `json:"metadata"`
}

func versionPath(model, ref string, rest string) string {
	p := "/models/" + escape(model) + "/versions/" + escape(ref)
	if rest != "" {
		p += rest
	}
	return p
}

// CreateModelVersion starts a new version of a model. The model is
// addressed by ID or name.
func (c *Client) CreateModelVersion(ctx context.Context, model string, in CreateModelVersionInput) (*ModelVersion, error) {
	var out ModelVersion
	if err := c.do(ctx, http.MethodPost, "/models/"+escape(model)+"/versions", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetModelVersion resolves one version of a model. ref may be a version
// ID, a number, a name, a stage, or "latest".
func (c *Client) GetModelVersion(ctx context.Context, model, ref string) (*ModelVersion, error) {
	var out ModelVersion
	if err := c.do(ctx, http.MethodGet, versionPath(model, ref, ""), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListModelVersions returns one page of a model's versions. opts may be nil.
func (c *Client) ListModelVersions(ctx context.Context, model string, opts *ListModelVersionsOptions) (*ModelVersionList, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
		if opts.Stage != "" {
			q.Set("stage", opts.Stage)
		}
		if opts.Search != "" {
			q.Set("search", opts.Search)
		}
	}
	var out ModelVersionList
	if err := c.do(ctx, http.MethodGet, "/models/"+escape(model)+"/versions", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateModelVersion patches name, description or tags of a version.
func (c *Client) UpdateModelVersion(ctx context.Context, model, ref string, in UpdateModelVersionInput) (*ModelVersion, error) {
	var out ModelVersion
	if err := c.do(ctx, http.MethodPatch, versionPath(model, ref, ""), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteModelVersion removes a version. Without force the server
// refuses while the version holds staging or production.
func (c *Client) DeleteModelVersion(ctx context.Context, model, ref string, force bool) error {
	q := url.Values{}
	if force {
		q.Set("force", "true")
	}
	return c.do(ctx, http.MethodDelete, versionPath(model, ref, ""), q, nil, nil)
}

// SetStage moves a version into a lifecycle stage. Promoting into an
// occupied staging or production slot fails unless force is set, which
// archives the current holder.
func (c *Client) SetStage(ctx context.Context, model, ref, stage string, force bool) (*ModelVersion, error) {
	var out ModelVersion
	in := setStageInput{Stage: stage, Force: force}
	if err := c.do(ctx, http.MethodPost, versionPath(model, ref, "/stage"), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// LogMetadata merges key/value entries into a version's metadata.
// Existing keys are overwritten, others are kept.
func (c *Client) LogMetadata(ctx context.Context, model, ref string, metadata map[string]any) (*ModelVersion, error) {
	var out ModelVersion
	in := logMetadataInput{Metadata: metadata}
	if err := c.do(ctx, http.MethodPost, versionPath(model, ref, "/metadata"), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
