package dto

import (
	"time"

	"github.com/google/uuid"

	"model-control-plane/internal/core/domain"
)

type CreateArtifactVersionRequest struct {
	Name          string         `json:"name" binding:"required,max=100"`
	Version       string         `json:"version"`
	Kind          string         `json:"kind"`
	URI           string         `json:"uri"`
	Metadata      map[string]any `json:"metadata"`
	ProducerRunID *uuid.UUID     `json:"producer_run_id"`
}

type UpdateArtifactVersionRequest struct {
	URI      *string        `json:"uri"`
	Metadata map[string]any `json:"metadata"`
}

type ArtifactVersionResponse struct {
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

type ListArtifactVersionsResponse struct {
	Items      []ArtifactVersionResponse `json:"items"`
	Total      int                       `json:"total"`
	PageSize   int                       `json:"page_size"`
	NextOffset int                       `json:"next_offset"`
}

func ToArtifactVersionResponse(artifact *domain.ArtifactVersion) ArtifactVersionResponse {
	metadata := artifact.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return ArtifactVersionResponse{
		ID:            artifact.ID,
		CreatedAt:     artifact.CreatedAt,
		UpdatedAt:     artifact.UpdatedAt,
		Name:          artifact.Name,
		Version:       artifact.Version,
		Kind:          string(artifact.Kind),
		URI:           artifact.URI,
		Metadata:      metadata,
		ProducerRunID: artifact.ProducerRunID,
	}
}
