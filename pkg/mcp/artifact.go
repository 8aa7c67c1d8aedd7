package mcp

import (
	"context"
	"net/http"
	"net/url"

	"github.com/google/uuid"
)

// CreateArtifactVersionInput registers an artifact version. Version
// defaults to "1" when several artifacts share a name; Kind defaults to
// the data artifact kind on the server.
type CreateArtifactVersionInput struct {
	Name          string         `json:"name"`
	Version       string         `json:"version,omitempty"`
	Kind          string         `json:"kind,omitempty"`
	URI           string         `json:"uri,omitempty"`
	Metadata      map[string]any `json:"metadata,omitempty"`
	ProducerRunID *uuid.UUID     `json:"producer_run_id,omitempty"`
}

// UpdateArtifactVersionInput carries partial artifact updates.
type UpdateArtifactVersionInput struct {
	URI      *string        `json:"uri,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// ListArtifactVersionsOptions filter the artifact listing.
type ListArtifactVersionsOptions struct {
	ListOptions
	Kind   string
	Name   string
	Search string
}

type linkArtifactInput struct {
	ArtifactVersionID uuid.UUID `json:"artifact_version_id"`
}

// CreateArtifactVersion registers an artifact version in the workspace.
func (c *Client) CreateArtifactVersion(ctx context.Context, in CreateArtifactVersionInput) (*ArtifactVersion, error) {
	var out ArtifactVersion
	if err := c.do(ctx, http.MethodPost, "/artifact_versions", nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetArtifactVersion fetches an artifact version by ID.
func (c *Client) GetArtifactVersion(ctx context.Context, id uuid.UUID) (*ArtifactVersion, error) {
	var out ArtifactVersion
	if err := c.do(ctx, http.MethodGet, "/artifact_versions/"+id.String(), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindArtifactVersion fetches an artifact by name. An empty version
// returns the newest one.
func (c *Client) FindArtifactVersion(ctx context.Context, name, version string) (*ArtifactVersion, error) {
	q := url.Values{}
	q.Set("name", name)
	if version != "" {
		q.Set("version", version)
	}
	var out ArtifactVersion
	if err := c.do(ctx, http.MethodGet, "/artifact_version", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListArtifactVersions returns one page of artifacts. opts may be nil.
func (c *Client) ListArtifactVersions(ctx context.Context, opts *ListArtifactVersionsOptions) (*ArtifactVersionList, error) {
	q := url.Values{}
	if opts != nil {
		q = opts.values()
		if opts.Kind != "" {
			q.Set("kind", opts.Kind)
		}
		if opts.Name != "" {
			q.Set("name", opts.Name)
		}
		if opts.Search != "" {
			q.Set("search", opts.Search)
		}
	}
	var out ArtifactVersionList
	if err := c.do(ctx, http.MethodGet, "/artifact_versions", q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateArtifactVersion patches the URI or metadata of an artifact.
func (c *Client) UpdateArtifactVersion(ctx context.Context, id uuid.UUID, in UpdateArtifactVersionInput) (*ArtifactVersion, error) {
	var out ArtifactVersion
	if err := c.do(ctx, http.MethodPatch, "/artifact_versions/"+id.String(), nil, in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteArtifactVersion removes an artifact version and its links.
func (c *Client) DeleteArtifactVersion(ctx context.Context, id uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/artifact_versions/"+id.String(), nil, nil, nil)
}

// LinkArtifact attaches an artifact version to a model version.
func (c *Client) LinkArtifact(ctx context.Context, model, ref string, artifactID uuid.UUID) error {
	in := linkArtifactInput{ArtifactVersionID: artifactID}
	return c.do(ctx, http.MethodPost, versionPath(model, ref, "/artifacts"), nil, in, nil)
}

// UnlinkArtifact detaches an artifact version from a model version.
// The artifact itself is kept.
func (c *Client) UnlinkArtifact(ctx context.Context, model, ref string, artifactID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, versionPath(model, ref, "/artifacts/"+artifactID.String()), nil, nil, nil)
}

// ListVersionArtifacts lists the artifacts linked to a model version,
// optionally restricted to one kind.
func (c *Client) ListVersionArtifacts(ctx context.Context, model, ref, kind string) (*ArtifactVersionList, error) {
	q := url.Values{}
	if kind != "" {
		q.Set("kind", kind)
	}
	var out ArtifactVersionList
	if err := c.do(ctx, http.MethodGet, versionPath(model, ref, "/artifacts"), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchArtifact fetches one linked artifact of a model version by name.
// kind narrows the lookup and may be empty. When several versions of
// the artifact are linked, the newest wins.
func (c *Client) FetchArtifact(ctx context.Context, model, ref, name, kind string) (*ArtifactVersion, error) {
	q := url.Values{}
	q.Set("name", name)
	if kind != "" {
		q.Set("kind", kind)
	}
	var out ArtifactVersion
	if err := c.do(ctx, http.MethodGet, versionPath(model, ref, "/artifact"), q, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetModelArtifact fetches a linked model artifact (weights) by name.
func (c *Client) GetModelArtifact(ctx context.Context, model, ref, name string) (*ArtifactVersion, error) {
	return c.FetchArtifact(ctx, model, ref, name, ArtifactKindModel)
}

// GetDataArtifact fetches a linked data artifact by name.
func (c *Client) GetDataArtifact(ctx context.Context, model, ref, name string) (*ArtifactVersion, error) {
	return c.FetchArtifact(ctx, model, ref, name, ArtifactKindData)
}

// GetDeploymentArtifact fetches a linked deployment artifact by name.
func (c *Client) GetDeploymentArtifact(ctx context.Context, model, ref, name string) (*ArtifactVersion, error) {
	return c.FetchArtifact(ctx, model, ref, name, ArtifactKindDeployment)
}
