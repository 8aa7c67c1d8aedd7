package services

import (
	"context"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"model-control-plane/internal/core/domain"
	output "model-control-plane/internal/core/ports/output"
)

// DeploymentSyncWorker periodically reconciles active deployments against
// the serving backend so status converges without anyone calling sync.
type DeploymentSyncWorker struct {
	repo        output.DeploymentRepository
	serving     output.ServingClient
	interval    time.Duration
	concurrency int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewDeploymentSyncWorker(repo output.DeploymentRepository, serving output.ServingClient, interval time.Duration, concurrency int) *DeploymentSyncWorker {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if concurrency <= 0 {
		concurrency = 4
	}
	return &DeploymentSyncWorker{
		repo:        repo,
		serving:     serving,
		interval:    interval,
		concurrency: concurrency,
	}
}

// Start launches the reconcile loop. It sweeps once immediately, then on
// every tick until Stop is called or the context is cancelled.
func (w *DeploymentSyncWorker) Start(ctx context.Context) {
	ctx, w.cancel = context.WithCancel(ctx)

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()

		w.sweep(ctx)

		ticker := time.NewTicker(w.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.sweep(ctx)
			}
		}
	}()
}

// Stop halts the loop and waits for in-flight syncs to finish.
func (w *DeploymentSyncWorker) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	w.wg.Wait()
}

func (w *DeploymentSyncWorker) sweep(ctx context.Context) {
	if w.serving == nil || !w.serving.IsAvailable() {
		return
	}

	deployments, err := w.repo.ListActive(ctx)
	if err != nil {
		log.WithError(err).Error("sync worker: list active deployments failed")
		return
	}
	if len(deployments) == 0 {
		return
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(w.concurrency)
	for _, deployment := range deployments {
		deployment := deployment
		g.Go(func() error {
			if err := w.syncOne(gctx, deployment); err != nil {
				log.WithError(err).WithFields(log.Fields{
					"deployment": deployment.Name,
					"namespace":  deployment.Namespace,
				}).Warn("sync worker: reconcile failed")
			}
			return nil
		})
	}
	_ = g.Wait()
}

func (w *DeploymentSyncWorker) syncOne(ctx context.Context, deployment *domain.Deployment) error {
	status, err := w.serving.GetStatus(ctx, deployment.Namespace, deployment.Name)
	if err != nil {
		return err
	}

	switch {
	case status.Ready && deployment.Status != domain.DeploymentStatusDeployed:
		deployment.MarkDeployed(status.URL)
	case !status.Ready && status.Error != "":
		deployment.MarkFailed(status.Error)
	default:
		return nil
	}

	return w.repo.Update(ctx, deployment.WorkspaceID, deployment)
}
