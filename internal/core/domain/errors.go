package domain

import "errors"

// ============================================================================
// Model Errors
// ============================================================================

var (
	ErrModelNotFound         = errors.New("model not found")
	ErrModelNameConflict     = errors.New("model with this name already exists in the workspace")
	ErrInvalidModelName      = errors.New("model name is required")
	ErrMissingWorkspaceID    = errors.New("workspace ID is required (X-Workspace-ID header)")
	ErrModelHasStagedVersion = errors.New("cannot delete model: a version still holds staging or production")
)

// ============================================================================
// Model Version Errors
// ============================================================================

// Not found errors
var (
	ErrVersionNotFound = errors.New("model version not found")
)

// Conflict errors
var (
	ErrVersionNameConflict = errors.New("version with this name already exists for this model")
	ErrStageOccupied       = errors.New("stage is already held by another version (use force to archive it)")
)

// Validation errors
var (
	ErrInvalidVersionRef = errors.New("model version reference is required")
	ErrInvalidVersionID  = errors.New("model version ID is required")
	ErrInvalidStage      = errors.New("invalid stage")
	ErrStageReserved     = errors.New("latest is a resolution alias and cannot be assigned as a stage")
	ErrEmptyMetadata     = errors.New("metadata requires at least one entry")
)

// Business rule errors
var (
	ErrVersionPromoted = errors.New("cannot delete version: it holds staging or production (use force)")
)

// ============================================================================
// Artifact Errors
// ============================================================================

var (
	ErrArtifactNotFound     = errors.New("artifact version not found")
	ErrArtifactNameConflict = errors.New("artifact with this name and version already exists in the workspace")
	ErrInvalidArtifactName  = errors.New("artifact name is required")
	ErrInvalidArtifactKind  = errors.New("invalid artifact kind")
	ErrArtifactLinkExists   = errors.New("artifact is already linked to this model version")
	ErrArtifactLinkNotFound = errors.New("artifact link not found")
	ErrNoModelArtifact      = errors.New("model version has no linked model artifact")
	ErrUnsupportedFramework = errors.New("unsupported model framework")
)

// ============================================================================
// Pipeline Run Errors
// ============================================================================

var (
	ErrRunNotFound     = errors.New("pipeline run not found")
	ErrRunNameConflict = errors.New("pipeline run with this name already exists in the workspace")
	ErrInvalidRunName  = errors.New("pipeline run name is required")
	ErrInvalidRunState = errors.New("invalid pipeline run status")
	ErrRunLinkExists   = errors.New("pipeline run is already linked to this model version")
	ErrRunLinkNotFound = errors.New("pipeline run link not found")
)

// ============================================================================
// Deployment Errors
// ============================================================================

var (
	ErrDeploymentNotFound     = errors.New("deployment not found")
	ErrDeploymentNameConflict = errors.New("deployment with this name already exists in the workspace")
	ErrInvalidDeploymentName  = errors.New("deployment name is required")
	ErrServingNotAvailable    = errors.New("serving backend is not available")
)
