package domain

import (
	"time"

	"github.com/google/uuid"
)

// DeploymentStatus represents the observed state of a deployment
type DeploymentStatus string

const (
	DeploymentStatusPending    DeploymentStatus = "PENDING"
	DeploymentStatusDeployed   DeploymentStatus = "DEPLOYED"
	DeploymentStatusFailed     DeploymentStatus = "FAILED"
	DeploymentStatusUndeployed DeploymentStatus = "UNDEPLOYED"
)

// Active reports whether the deployment still needs status reconciliation.
func (s DeploymentStatus) Active() bool {
	return s == DeploymentStatusPending || s == DeploymentStatusDeployed
}

// Deployment is a model version pushed to the serving backend. The linked
// model artifact supplies the storage URI and framework for the endpoint.
type Deployment struct {
	ID             uuid.UUID        `json:"id"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
	WorkspaceID    uuid.UUID        `json:"workspace_id"`
	ModelVersionID uuid.UUID        `json:"model_version_id"`
	Name           string           `json:"name"`
	Namespace      string           `json:"namespace"`
	Status         DeploymentStatus `json:"status"`
	URL            string           `json:"url"`
	ExternalID     string           `json:"external_id"` // K8s resource UID
	LastError      string           `json:"last_error"`

	// Computed/joined fields
	ModelName    string `json:"model_name,omitempty"`
	VersionName  string `json:"version_name,omitempty"`
	VersionStage Stage  `json:"version_stage,omitempty"`
}

// NewDeployment creates a new Deployment with validation
func NewDeployment(workspaceID, modelVersionID uuid.UUID, name, namespace string) (*Deployment, error) {
	if workspaceID == uuid.Nil {
		return nil, ErrMissingWorkspaceID
	}
	if modelVersionID == uuid.Nil {
		return nil, ErrInvalidVersionID
	}
	if name == "" {
		return nil, ErrInvalidDeploymentName
	}

	now := time.Now()
	return &Deployment{
		ID:             uuid.New(),
		CreatedAt:      now,
		UpdatedAt:      now,
		WorkspaceID:    workspaceID,
		ModelVersionID: modelVersionID,
		Name:           name,
		Namespace:      namespace,
		Status:         DeploymentStatusPending,
	}, nil
}

// MarkDeployed records a ready endpoint with its URL
func (d *Deployment) MarkDeployed(url string) {
	d.Status = DeploymentStatusDeployed
	d.URL = url
	d.LastError = ""
	d.UpdatedAt = time.Now()
}

// MarkFailed records a failed rollout
func (d *Deployment) MarkFailed(err string) {
	d.Status = DeploymentStatusFailed
	d.LastError = err
	d.UpdatedAt = time.Now()
}

// MarkUndeployed records removal from the serving backend
func (d *Deployment) MarkUndeployed() {
	d.Status = DeploymentStatusUndeployed
	d.URL = ""
	d.UpdatedAt = time.Now()
}

// SetExternalID sets the K8s resource UID
func (d *Deployment) SetExternalID(externalID string) {
	d.ExternalID = externalID
	d.UpdatedAt = time.Now()
}
