package domain

import (
	"time"

	"github.com/google/uuid"
)

// Model is the control plane entity that groups every version, artifact and
// pipeline run produced for one machine learning use case.
type Model struct {
	ID          uuid.UUID `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	License     string    `json:"license"`
	Audience    string    `json:"audience"`
	UseCases    string    `json:"use_cases"`
	Limitations string    `json:"limitations"`
	TradeOffs   string    `json:"trade_offs"`
	Ethics      string    `json:"ethics"`
	Tags        []string  `json:"tags"`

	// Computed fields (populated by repository)
	VersionCount  int           `json:"version_count"`
	LatestVersion *ModelVersion `json:"latest_version,omitempty"`
}
