package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Stage marks where a model version sits in its lifecycle. At most one
// version per model holds staging, and at most one holds production.
type Stage string

const (
	StageNone       Stage = "none"
	StageStaging    Stage = "staging"
	StageProduction Stage = "production"
	StageArchived   Stage = "archived"
)

// StageAliasLatest resolves to the newest non-archived version of a model.
// It is accepted anywhere a version reference is, but can never be assigned.
const StageAliasLatest = "latest"

var assignableStages = map[Stage]bool{
	StageNone:       true,
	StageStaging:    true,
	StageProduction: true,
	StageArchived:   true,
}

func ValidateStage(stage Stage) error {
	if string(stage) == StageAliasLatest {
		return ErrStageReserved
	}
	if !assignableStages[stage] {
		return ErrInvalidStage
	}
	return nil
}

// Exclusive reports whether the stage may be held by at most one version
// of a model at a time.
func (s Stage) Exclusive() bool {
	return s == StageStaging || s == StageProduction
}

// KServe supported model frameworks
// See: https://kserve.github.io/website/docs/model-serving/predictive-inference/frameworks/overview
var SupportedFrameworks = map[string]bool{
	"sklearn":     true,
	"xgboost":     true,
	"tensorflow":  true,
	"pytorch":     true,
	"onnx":        true,
	"triton":      true,
	"lightgbm":    true,
	"paddle":      true,
	"mlflow":      true,
	"huggingface": true,
	"pmml":        true,
}

func ValidateModelFramework(framework string) error {
	if framework == "" {
		return nil
	}
	if !SupportedFrameworks[strings.ToLower(framework)] {
		return ErrUnsupportedFramework
	}
	return nil
}

// ModelVersion is one iteration of a model. Numbers are assigned
// sequentially per model and never reused; the name defaults to the number
// when the producer does not pick one.
type ModelVersion struct {
	ID          uuid.UUID      `json:"id"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	ModelID     uuid.UUID      `json:"model_id"`
	Name        string         `json:"name"`
	Number      int            `json:"number"`
	Description string         `json:"description"`
	Stage       Stage          `json:"stage"`
	Tags        []string       `json:"tags"`
	Metadata    map[string]any `json:"metadata"`

	// Computed fields (populated by repository)
	ModelName string `json:"model_name,omitempty"`
}
