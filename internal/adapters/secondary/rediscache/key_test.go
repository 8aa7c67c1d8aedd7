package rediscache

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewKey(t *testing.T) {
	workspaceID := uuid.New()
	modelID := uuid.New()

	key, err := NewKey(workspaceID, modelID, "latest")
	assert.NoError(t, err)
	assert.Equal(t, workspaceID, key.WorkspaceID)
	assert.Equal(t, modelID, key.ModelID)
	assert.Equal(t, "latest", key.Alias)
}

func TestNewKey_RequiresWorkspace(t *testing.T) {
	_, err := NewKey(uuid.Nil, uuid.New(), "latest")
	assert.ErrorIs(t, err, ErrInvalidKeyWorkspace)
}

func TestNewKey_RequiresModel(t *testing.T) {
	_, err := NewKey(uuid.New(), uuid.Nil, "latest")
	assert.ErrorIs(t, err, ErrInvalidKeyModel)
}

func TestNewKey_RequiresAlias(t *testing.T) {
	_, err := NewKey(uuid.New(), uuid.New(), "")
	assert.ErrorIs(t, err, ErrInvalidKeyAlias)
}

func TestKey_Format(t *testing.T) {
	workspaceID := uuid.New()
	modelID := uuid.New()

	key, err := NewKey(workspaceID, modelID, "production")
	assert.NoError(t, err)

	s, err := key.Key()
	assert.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("mcp:version:wid:%s:model:%s:production", workspaceID, modelID), s)
}

func TestKey_RejectsZeroValue(t *testing.T) {
	key := &Key{}
	_, err := key.Key()
	assert.ErrorIs(t, err, ErrInvalidKeyWorkspace)
}
