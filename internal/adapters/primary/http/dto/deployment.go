package dto

import (
	"time"

	"github.com/google/uuid"

	"model-control-plane/internal/core/domain"
)

// CreateDeploymentRequest targets a model by ID or name and a version by
// any reference the resolver accepts (ID, number, name, stage or latest).
// An empty version means latest.
type CreateDeploymentRequest struct {
	Model     string `json:"model" binding:"required"`
	Version   string `json:"version"`
	Name      string `json:"name" binding:"max=100"`
	Namespace string `json:"namespace"`
}

type DeploymentResponse struct {
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

type ListDeploymentsResponse struct {
	Items      []DeploymentResponse `json:"items"`
	Total      int                  `json:"total"`
	PageSize   int                  `json:"page_size"`
	NextOffset int                  `json:"next_offset"`
}

type DeployResponse struct {
	Deployment DeploymentResponse `json:"deployment"`
	Status     string             `json:"status"`
	Message    string             `json:"message"`
}

func ToDeploymentResponse(deployment *domain.Deployment) DeploymentResponse {
	return DeploymentResponse{
		ID:             deployment.ID,
		CreatedAt:      deployment.CreatedAt,
		UpdatedAt:      deployment.UpdatedAt,
		ModelVersionID: deployment.ModelVersionID,
		ModelName:      deployment.ModelName,
		VersionName:    deployment.VersionName,
		VersionStage:   string(deployment.VersionStage),
		Name:           deployment.Name,
		Namespace:      deployment.Namespace,
		Status:         string(deployment.Status),
		URL:            deployment.URL,
		ExternalID:     deployment.ExternalID,
		LastError:      deployment.LastError,
	}
}
