package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/core/ports/output"
	"model-control-plane/internal/lineage"
)

type LineageService struct {
	versionRepo  ports.ModelVersionRepository
	artifactRepo ports.ArtifactRepository
	runRepo      ports.PipelineRunRepository
}

func NewLineageService(versionRepo ports.ModelVersionRepository, artifactRepo ports.ArtifactRepository, runRepo ports.PipelineRunRepository) *LineageService {
	return &LineageService{versionRepo: versionRepo, artifactRepo: artifactRepo, runRepo: runRepo}
}

// Graph builds the provenance graph of a model version. Linked artifacts
// and runs are fetched concurrently, then producers of linked artifacts
// that were not themselves linked are pulled in so produced edges resolve.
func (s *LineageService) Graph(ctx context.Context, workspaceID, versionID uuid.UUID) (*lineage.Graph, error) {
	version, err := s.versionRepo.GetByID(ctx, workspaceID, versionID)
	if err != nil {
		return nil, err
	}

	var (
		artifacts []*domain.ArtifactVersion
		runs      []*domain.PipelineRun
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		artifacts, err = s.artifactRepo.ListByModelVersion(gctx, workspaceID, versionID, "")
		return err
	})
	g.Go(func() error {
		var err error
		runs, err = s.runRepo.ListByModelVersion(gctx, workspaceID, versionID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	runs, err = s.fetchMissingProducers(ctx, workspaceID, artifacts, runs)
	if err != nil {
		return nil, err
	}

	return lineage.Build(version, artifacts, runs)
}

func (s *LineageService) fetchMissingProducers(ctx context.Context, workspaceID uuid.UUID, artifacts []*domain.ArtifactVersion, runs []*domain.PipelineRun) ([]*domain.PipelineRun, error) {
	known := make(map[uuid.UUID]bool, len(runs))
	for _, run := range runs {
		known[run.ID] = true
	}

	missing := []uuid.UUID{}
	for _, artifact := range artifacts {
		if artifact.ProducerRunID == nil {
			continue
		}
		id := *artifact.ProducerRunID
		if !known[id] {
			known[id] = true
			missing = append(missing, id)
		}
	}
	if len(missing) == 0 {
		return runs, nil
	}

	fetched := make([]*domain.PipelineRun, len(missing))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, id := range missing {
		i, id := i, id
		g.Go(func() error {
			run, err := s.runRepo.GetByID(gctx, workspaceID, id)
			if err != nil {
				// A deleted producer leaves the artifact but not the run.
				if errors.Is(err, domain.ErrRunNotFound) {
					return nil
				}
				return err
			}
			fetched[i] = run
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, run := range fetched {
		if run != nil {
			runs = append(runs, run)
		}
	}
	return runs, nil
}
