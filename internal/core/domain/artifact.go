package domain

import (
	"time"

	"github.com/google/uuid"
)

type ArtifactKind string

const (
	ArtifactKindData       ArtifactKind = "data-artifact"
	ArtifactKindModel      ArtifactKind = "model-artifact"
	ArtifactKindDeployment ArtifactKind = "deployment-artifact"
)

var validArtifactKinds = map[ArtifactKind]bool{
	ArtifactKindData:       true,
	ArtifactKindModel:      true,
	ArtifactKindDeployment: true,
}

func ValidateArtifactKind(kind ArtifactKind) error {
	if !validArtifactKinds[kind] {
		return ErrInvalidArtifactKind
	}
	return nil
}

// ArtifactVersion is one materialized output of a pipeline step: a dataset,
// a trained model binary or a deployment record. Artifacts are registered
// once per (name, version) pair and linked to any number of model versions.
type ArtifactVersion struct {
	ID            uuid.UUID      `json:"id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	WorkspaceID   uuid.UUID      `json:"workspace_id"`
	Name          string         `json:"name"`
	Version       string         `json:"version"`
	Kind          ArtifactKind   `json:"kind"`
	URI           string         `json:"uri"`
	Metadata      map[string]any `json:"metadata"`
	ProducerRunID *uuid.UUID     `json:"producer_run_id"`
}

// Framework reads the serving framework recorded by the producing pipeline,
// empty when none was logged.
func (a *ArtifactVersion) Framework() string {
	if a.Metadata == nil {
		return ""
	}
	v, _ := a.Metadata["framework"].(string)
	return v
}

// FrameworkVersion reads the framework version recorded by the producer.
func (a *ArtifactVersion) FrameworkVersion() string {
	if a.Metadata == nil {
		return ""
	}
	v, _ := a.Metadata["framework_version"].(string)
	return v
}
