package dto

import (
	"time"

	"github.com/google/uuid"

	"model-control-plane/internal/core/domain"
)

type CreateModelVersionRequest struct {
	Name        string   `json:"name" binding:"max=100"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

type UpdateModelVersionRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Tags        []string `json:"tags"`
}

// SetStageRequest moves a version to a lifecycle stage. Force archives
// whichever version currently holds an exclusive stage.
type SetStageRequest struct {
	Stage string `json:"stage" binding:"required"`
	Force bool   `json:"force"`
}

type LogMetadataRequest struct {
	Metadata map[string]any `json:"metadata" binding:"required"`
}

type LinkArtifactRequest struct {
	ArtifactVersionID uuid.UUID `json:"artifact_version_id" binding:"required"`
}

type LinkRunRequest struct {
	RunID uuid.UUID `json:"run_id" binding:"required"`
}

type ModelVersionResponse struct {
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

type ListModelVersionsResponse struct {
	Items      []ModelVersionResponse `json:"items"`
	Total      int                    `json:"total"`
	PageSize   int                    `json:"page_size"`
	NextOffset int                    `json:"next_offset"`
}

func ToModelVersionResponse(version *domain.ModelVersion) ModelVersionResponse {
	tags := version.Tags
	if tags == nil {
		tags = []string{}
	}
	metadata := version.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return ModelVersionResponse{
		ID:          version.ID,
		CreatedAt:   version.CreatedAt,
		UpdatedAt:   version.UpdatedAt,
		ModelID:     version.ModelID,
		ModelName:   version.ModelName,
		Name:        version.Name,
		Number:      version.Number,
		Description: version.Description,
		Stage:       string(version.Stage),
		Tags:        tags,
		Metadata:    metadata,
	}
}
