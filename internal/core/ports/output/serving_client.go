package ports

import (
	"context"

	"model-control-plane/internal/core/domain"
)

// ServingDeployment is the result of pushing a deployment to the backend
type ServingDeployment struct {
	ExternalID string
}

// ServingStatus is the observed state of an endpoint in the backend
type ServingStatus struct {
	Ready bool
	URL   string
	Error string
}

// ServingClient abstracts the model serving backend (KServe)
type ServingClient interface {
	IsAvailable() bool
	// Deploy creates the serving resource for the deployment, pointing it
	// at the model artifact URI.
	Deploy(ctx context.Context, namespace string, deployment *domain.Deployment, artifact *domain.ArtifactVersion) (*ServingDeployment, error)
	Undeploy(ctx context.Context, namespace, name string) error
	GetStatus(ctx context.Context, namespace, name string) (*ServingStatus, error)
}
