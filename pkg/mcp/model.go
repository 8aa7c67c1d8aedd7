package mcp

import (
	"context"
	"net/http"
	"net/url"
)

// CreateModelInput registers a new model with optional card fields.
type CreateModelInput struct {
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	License     string   `json:"license,omitempty"`
	Audience    string   `json:"audience,omitempty"`
	UseCases    string   `json:"use_cases,omitempty"`
	Limitations string   `json:"limitations,omitempty"`
	TradeOffs   string   `json:"trade_offs,omitempty"`
	Ethics      string   `json:"ethics,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// UpdateModelInput carries partial model updates. Nil fields are left
// untouched; Tags replaces the whole tag list when non-nil.
type UpdateModelInput struct {
	Description *string  `json:"description,omitempty"`
	License     *string  `json:"license,omitempty"`
	Audience    *string  `json:"audience,omitempty"`
	UseCases    *string  `json:"use_cases,omitempty"`
	Limitations *string  `json:"limitations,omitempty"`
	TradeOffs   *string  `json:"trade_offs,omitempty"`
	Ethics      *string  `json:"ethics,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

// ListModelsOptions filter the model listing.
type ListModelsOptions struct {
	ListOptions
	Search string
	Tag    string
}

// CreateModel registers a model in the workspace.
func (c *Client) CreateModel(ctx context.Context, in CreateModelInput) (*Model, error) {
	var out Model
	if err := c.do(ctx, http.MethodPost, "/models", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetModel fetches a model by ID or name.
func (c *Client) GetModel(ctx context.Context, ref string) (*Model, error) {
	var out Model
	if err := c.do(ctx, http.MethodGet, "/models/"+escape(ref), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindModel fetches a model by exact name.
func (c *Client) FindModel(ctx context.Context, name string) (*Model, error) {
	q := url.Values{}
	q.Set("name", name)
	var out Model
	if err := c.do(ctx, http.MethodGet, "/model", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListModels returns one page of models. opts may be nil.
func (c *Client) ListModels(ctx context.Context, opts *ListModelsOptions) (*ModelList, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
		if opts.Search != "" {
			q.Set("search", opts.Search)
		}
		if opts.Tag != "" {
			q.Set("tag", opts.Tag)
		}
	}
	var out ModelList
	if err := c.do(ctx, http.MethodGet, "/models", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateModel patches card fields and tags of a model.
func (c *Client) UpdateModel(ctx context.Context, ref string, in UpdateModelInput) (*Model, error) {
	var out Model
	if err := c.do(ctx, http.MethodPatch, "/models/"+escape(ref), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteModel removes a model. Without force the server refuses when a
// version still holds staging or production.
func (c *Client) DeleteModel(ctx context.Context, ref string, force bool) error {
	q := url.Values{}
	if force {
		q.Set("force", "true")
	}
	return c.do(ctx, http.MethodDelete, "/models/"+escape(ref), q, nil, nil)
}
