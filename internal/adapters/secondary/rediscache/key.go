package rediscache

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

// Key identifies one cached version resolution. The workspace scope comes
// first so keys for a tenant can be inspected together.
type Key struct {
	WorkspaceID uuid.UUID
	ModelID     uuid.UUID
	// Alias is the resolution being cached: latest, staging or production.
	Alias string
}

var (
	ErrInvalidKeyWorkspace = errors.New("invalid cache key workspace")
	ErrInvalidKeyModel     = errors.New("invalid cache key model")
	ErrInvalidKeyAlias     = errors.New("invalid cache key alias")
)

func NewKey(workspaceID, modelID uuid.UUID, alias string) (*Key, error) {
	if workspaceID == uuid.Nil {
		return nil, ErrInvalidKeyWorkspace
	}
	if modelID == uuid.Nil {
		return nil, ErrInvalidKeyModel
	}
	if alias == "" {
		return nil, ErrInvalidKeyAlias
	}
	return &Key{WorkspaceID: workspaceID, ModelID: modelID, Alias: alias}, nil
}

func (key *Key) Key() (string, error) {
	if key.WorkspaceID == uuid.Nil {
		return "", ErrInvalidKeyWorkspace
	}
	if key.ModelID == uuid.Nil {
		return "", ErrInvalidKeyModel
	}
	if key.Alias == "" {
		return "", ErrInvalidKeyAlias
	}

	// key: i.e, mcp:version:wid:<workspace>:model:<model>:latest
	return fmt.Sprintf("mcp:version:wid:%s:model:%s:%s", key.WorkspaceID, key.ModelID, key.Alias), nil
}
