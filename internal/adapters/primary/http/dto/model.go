package dto

import (
	"time"

	"github.com/google/uuid"

	"model-control-plane/internal/core/domain"
)

type CreateModelRequest struct {
	Name        string   `json:"name" binding:"required,max=100"`
	Description string   `json:"description"`
	License     string   `json:"license"`
	Audience    string   `json:"audience"`
	UseCases    string   `json:"use_cases"`
	Limitations string   `json:"limitations"`
	TradeOffs   string   `json:"trade_offs"`
	Ethics      string   `json:"ethics"`
	Tags        []string `json:"tags"`
}

type UpdateModelRequest struct {
	Description *string  `json:"description"`
	License     *string  `json:"license"`
	Audience    *string  `json:"audience"`
	UseCases    *string  `json:"use_cases"`
	Limitations *string  `json:"limitations"`
	TradeOffs   *string  `json:"trade_offs"`
	Ethics      *string  `json:"ethics"`
	Tags        []string `json:"tags"`
}

type ModelResponse struct {
	ID            uuid.UUID             `json:"id"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
	Name          string                `json:"name"`
	Description   string                `json:"description"`
	License       string                `json:"license,omitempty"`
	Audience      string                `json:"audience,omitempty"`
	UseCases      string                `json:"use_cases,omitempty"`
	Limitations   string                `json:"limitations,omitempty"`
	TradeOffs     string                `json:"trade_offs,omitempty"`
	Ethics        string                `json:"ethics,omitempty"`
	Tags          []string              `json:"tags"`
	VersionCount  int                   `json:"version_count"`
	LatestVersion *ModelVersionResponse `json:"latest_version,omitempty"`
}

type ListModelsResponse struct {
	Items      []ModelResponse `json:"items"`
	Total      int             `json:"total"`
	PageSize   int             `json:"page_size"`
	NextOffset int             `json:"next_offset"`
}

func ToModelResponse(model *domain.Model) ModelResponse {
	tags := model.Tags
	if tags == nil {
		tags = []string{}
	}
	resp := ModelResponse{
		ID:           model.ID,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
		Name:         model.Name,
		Description:  model.Description,
		License:      model.License,
		Audience:     model.Audience,
		UseCases:     model.UseCases,
		Limitations:  model.Limitations,
		TradeOffs:    model.TradeOffs,
		Ethics:       model.Ethics,
		Tags:         tags,
		VersionCount: model.VersionCount,
	}
	if model.LatestVersion != nil {
		latest := ToModelVersionResponse(model.LatestVersion)
		resp.LatestVersion = &latest
	}
	return resp
}
