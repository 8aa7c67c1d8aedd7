package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/testutil"
)

func TestPipelineRunService_Create(t *testing.T) {
	repo := new(testutil.MockPipelineRunRepo)
	versionRepo := new(testutil.MockModelVersionRepo)
	svc := NewPipelineRunService(repo, versionRepo)

	workspaceID := uuid.New()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.PipelineRun) bool {
		return r.Name == "training-2026-08-24" && r.PipelineName == "training" &&
			r.Status == domain.RunStatusRunning && !r.StartedAt.IsZero()
	})).Return(nil)
	repo.On("GetByID", mock.Anything, workspaceID, mock.AnythingOfType("uuid.UUID")).
		Return(&domain.PipelineRun{Name: "training-2026-08-24", Status: domain.RunStatusRunning}, nil)

	run, err := svc.Create(context.Background(), workspaceID, "training-2026-08-24", "training")
	assert.NoError(t, err)
	assert.Equal(t, domain.RunStatusRunning, run.Status)
}

func TestPipelineRunService_Create_PipelineNameDefaultsToName(t *testing.T) {
	repo := new(testutil.MockPipelineRunRepo)
	versionRepo := new(testutil.MockModelVersionRepo)
	svc := NewPipelineRunService(repo, versionRepo)

	workspaceID := uuid.New()
	repo.On("Create", mock.Anything, mock.MatchedBy(func(r *domain.PipelineRun) bool {
		return r.PipelineName == "adhoc-run"
	})).Return(nil)
	repo.On("GetByID", mock.Anything, workspaceID, mock.AnythingOfType("uuid.UUID")).
		Return(&domain.PipelineRun{Name: "adhoc-run", PipelineName: "adhoc-run"}, nil)

	_, err := svc.Create(context.Background(), workspaceID, "adhoc-run", "")
	assert.NoError(t, err)
}

func TestPipelineRunService_Create_EmptyName(t *testing.T) {
	repo := new(testutil.MockPipelineRunRepo)
	versionRepo := new(testutil.MockModelVersionRepo)
	svc := NewPipelineRunService(repo, versionRepo)

	_, err := svc.Create(context.Background(), uuid.New(), "", "training")
	assert.ErrorIs(t, err, domain.ErrInvalidRunName)
}

func TestPipelineRunService_UpdateStatus_TerminalStampsEndedAt(t *testing.T) {
	repo := new(testutil.MockPipelineRunRepo)
	versionRepo := new(testutil.MockModelVersionRepo)
	svc := NewPipelineRunService(repo, versionRepo)

	workspaceID := uuid.New()
	id := uuid.New()
	existing := &domain.PipelineRun{ID: id, Name: "r1", Status: domain.RunStatusRunning}

	repo.On("GetByID", mock.Anything, workspaceID, id).Return(existing, nil)
	repo.On("Update", mock.Anything, workspaceID, mock.MatchedBy(func(r *domain.PipelineRun) bool {
		return r.Status == domain.RunStatusCompleted && r.EndedAt != nil
	})).Return(nil)

	run, err := svc.UpdateStatus(context.Background(), workspaceID, id, domain.RunStatusCompleted)
	assert.NoError(t, err)
	assert.Equal(t, domain.RunStatusCompleted, run.Status)
}

func TestPipelineRunService_UpdateStatus_Invalid(t *testing.T) {
	repo := new(testutil.MockPipelineRunRepo)
	versionRepo := new(testutil.MockModelVersionRepo)
	svc := NewPipelineRunService(repo, versionRepo)

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), uuid.New(), domain.RunStatus("paused"))
	assert.ErrorIs(t, err, domain.ErrInvalidRunState)
}

func TestPipelineRunService_Link(t *testing.T) {
	repo := new(testutil.MockPipelineRunRepo)
	versionRepo := new(testutil.MockModelVersionRepo)
	svc := NewPipelineRunService(repo, versionRepo)

	workspaceID := uuid.New()
	versionID := uuid.New()
	runID := uuid.New()

	versionRepo.On("GetByID", mock.Anything, workspaceID, versionID).
		Return(&domain.ModelVersion{ID: versionID}, nil)
	repo.On("GetByID", mock.Anything, workspaceID, runID).
		Return(&domain.PipelineRun{ID: runID}, nil)
	repo.On("Link", mock.Anything, workspaceID, versionID, runID).Return(nil)

	err := svc.Link(context.Background(), workspaceID, versionID, runID)
	assert.NoError(t, err)
}

func TestPipelineRunService_Link_RunNotFound(t *testing.T) {
	repo := new(testutil.MockPipelineRunRepo)
	versionRepo := new(testutil.MockModelVersionRepo)
	svc := NewPipelineRunService(repo, versionRepo)

	workspaceID := uuid.New()
	versionID := uuid.New()
	runID := uuid.New()

	versionRepo.On("GetByID", mock.Anything, workspaceID, versionID).
		Return(&domain.ModelVersion{ID: versionID}, nil)
	repo.On("GetByID", mock.Anything, workspaceID, runID).Return(nil, domain.ErrRunNotFound)

	err := svc.Link(context.Background(), workspaceID, versionID, runID)
	assert.ErrorIs(t, err, domain.ErrRunNotFound)
	repo.AssertNotCalled(t, "Link", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPipelineRunService_ListForVersion(t *testing.T) {
	repo := new(testutil.MockPipelineRunRepo)
	versionRepo := new(testutil.MockModelVersionRepo)
	svc := NewPipelineRunService(repo, versionRepo)

	workspaceID := uuid.New()
	versionID := uuid.New()
	versionRepo.On("GetByID", mock.Anything, workspaceID, versionID).
		Return(&domain.ModelVersion{ID: versionID}, nil)
	repo.On("ListByModelVersion", mock.Anything, workspaceID, versionID).
		Return([]*domain.PipelineRun{{Name: "r1"}, {Name: "r2"}}, nil)

	runs, err := svc.ListForVersion(context.Background(), workspaceID, versionID)
	assert.NoError(t, err)
	assert.Len(t, runs, 2)
}

func TestPipelineRunService_GetByName_EmptyName(t *testing.T) {
	repo := new(testutil.MockPipelineRunRepo)
	versionRepo := new(testutil.MockModelVersionRepo)
	svc := NewPipelineRunService(repo, versionRepo)

	_, err := svc.GetByName(context.Background(), uuid.New(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidRunName)
}
