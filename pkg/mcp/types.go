package mcp

import (
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// Lifecycle stages a model version can hold. Staging and production are
// exclusive per model; promoting into an occupied one needs force.
const (
	StageNone       = "none"
	StageStaging    = "staging"
	StageProduction = "production"
	StageArchived   = "archived"

	// Latest is a resolution alias, not a stage a version can be set to.
	Latest = "latest"
)

// Artifact kind labels.
const (
	ArtifactKindData       = "data-artifact"
	ArtifactKindModel      = "model-artifact"
	ArtifactKindDeployment = "deployment-artifact"
)

// Model is a registered model with its card fields and version summary.
type Model struct {
	ID            uuid.UUID     `json:"id"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	License       string        `json:"license,omitempty"`
	Audience      string        `json:"audience,omitempty"`
	UseCases      string        `json:"use_cases,omitempty"`
	Limitations   string        `json:"limitations,omitempty"`
	TradeOffs     string        `json:"trade_offs,omitempty"`
	Ethics        string        `json:"ethics,omitempty"`
	Tags          []string      `json:"tags"`
	VersionCount  int           `json:"version_count"`
	LatestVersion *ModelVersion `json:"latest_version,omitempty"`
}

// ModelVersion is one numbered iteration of a model.
type ModelVersion struct {
	ID          uuid.UUID      `json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	ModelID     uuid.UUID      `json:"model_id"`
	ModelName   string         `json:"model_name,omitempty"`
	Name        string         `json:"name"`
	Number      int            `json:"number"`
	Description string         `json:"description"`
	Stage       string         `json:"stage"`
	Tags        []string       `json:"tags"`
	Metadata    map[string]any `json:"metadata"`
}

// ArtifactVersion is a versioned artifact, linkable to model versions.
type ArtifactVersion struct {
	ID            uuid.UUID      `json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	Name          string         `json:"name"`
	Version       string         `json:"version"`
	Kind          string         `json:"kind"`
	URI           string         `json:"uri,omitempty"`
	Metadata      map[string]any `json:"metadata"`
	ProducerRunID *uuid.UUID     `json:"producer_run_id,omitempty"`
}

// PipelineRun is a recorded pipeline execution.
type PipelineRun struct {
	ID           uuid.UUID  `json:"id"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
	Name         string     `json:"name"`
	PipelineName string     `json:"pipeline_name"`
	Status       string     `json:"status"`
	StartedAt    time.Time  `json:"started_at"`
	EndedAt      *time.Time `json:"ended_at,omitempty"`
}

// Deployment is a serving rollout of one model version.
type Deployment struct {
	ID             uuid.UUID `json:"id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	ModelVersionID uuid.UUID `json:"model_version_id"`
	ModelName      string    `json:"model_name,omitempty"`
	VersionName    string    `json:"version_name,omitempty"`
	VersionStage   string    `json:"version_stage,omitempty"`
	Name           string    `json:"name"`
	Namespace      string    `json:"namespace"`
	Status         string    `json:"status"`
	URL            string    `json:"url,omitempty"`
	ExternalID     string    `json:"external_id,omitempty"`
	LastError      string    `json:"last_error,omitempty"`
}

// DeployResult is the accepted-deployment envelope returned by Deploy.
type DeployResult struct {
	Deployment Deployment `json:"deployment"`
	Status     string     `json:"status"`
	Message    string     `json:"message"`
}

// ModelList is one page of models.
type ModelList struct {
	Items      []Model `json:"items"`
	Total      int     `json:"total"`
	PageSize   int     `json:"page_size"`
	NextOffset int     `json:"next_offset"`
}

// ModelVersionList is one page of model versions.
type ModelVersionList struct {
	Items      []ModelVersion `json:"items"`
	Total      int            `json:"total"`
	PageSize   int            `json:"page_size"`
	NextOffset int            `json:"next_offset"`
}

// ArtifactVersionList is one page of artifact versions.
type ArtifactVersionList struct {
	Items      []ArtifactVersion `json:"items"`
	Total      int               `json:"total"`
	PageSize   int               `json:"page_size"`
	NextOffset int               `json:"next_offset"`
}

// PipelineRunList is one page of pipeline runs.
type PipelineRunList struct {
	Items      []PipelineRun `json:"items"`
	Total      int           `json:"total"`
	PageSize   int           `json:"page_size"`
	NextOffset int           `json:"next_offset"`
}

// DeploymentList is one page of deployments.
type DeploymentList struct {
	Items      []Deployment `json:"items"`
	Total      int          `json:"total"`
	PageSize   int          `json:"page_size"`
	NextOffset int          `json:"next_offset"`
}

// ListOptions are the paging and ordering knobs shared by list calls.
// Zero values fall back to server defaults.
type ListOptions struct {
	Limit  int
	Offset int
	SortBy string
	Order  string
}

func (o ListOptions) values() url.Values {
	q := url.Values{}
	if o.Limit > 0 {
		q.Set("limit", strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		q.Set("offset", strconv.Itoa(o.Offset))
	}
	if o.SortBy != "" {
		q.Set("sort_by", o.SortBy)
	}
	if o.Order != "" {
		q.Set("order", o.Order)
	}
	return q
}
