package handlers

import (
	"model-control-plane/internal/core/services"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	modelSvc    *services.ModelService
	versionSvc  *services.ModelVersionService
	artifactSvc *services.ArtifactService
	runSvc      *services.PipelineRunService
	deploySvc   *services.DeployService
	lineageSvc  *services.LineageService
}

func New(
	modelSvc *services.ModelService,
	versionSvc *services.ModelVersionService,
	artifactSvc *services.ArtifactService,
	runSvc *services.PipelineRunService,
	deploySvc *services.DeployService,
	lineageSvc *services.LineageService,
) *Handler {
	return &Handler{
		modelSvc:    modelSvc,
		versionSvc:  versionSvc,
		artifactSvc: artifactSvc,
		runSvc:      runSvc,
		deploySvc:   deploySvc,
		lineageSvc:  lineageSvc,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	// Models
	r.GET("/models", h.ListModels)
	r.GET("/models/:id", h.GetModel)
	r.GET("/model", h.GetModelByParams)
	r.POST("/models", h.CreateModel)
	r.PATCH("/models/:id", h.UpdateModel)
	r.DELETE("/models/:id", h.DeleteModel)

	// Model versions (nested under model, addressed by any reference)
	r.GET("/models/:id/versions", h.ListModelVersions)
	r.POST("/models/:id/versions", h.CreateModelVersion)
	r.GET("/models/:id/versions/:ver", h.GetModelVersion)
	r.PATCH("/models/:id/versions/:ver", h.UpdateModelVersion)
	r.DELETE("/models/:id/versions/:ver", h.DeleteModelVersion)
	r.POST("/models/:id/versions/:ver/stage", h.SetModelVersionStage)
	r.POST("/models/:id/versions/:ver/metadata", h.LogModelVersionMetadata)

	// Version artifact links
	r.GET("/models/:id/versions/:ver/artifacts", h.ListVersionArtifacts)
	r.POST("/models/:id/versions/:ver/artifacts", h.LinkVersionArtifact)
	r.DELETE("/models/:id/versions/:ver/artifacts/:artifact_id", h.UnlinkVersionArtifact)
	r.GET("/models/:id/versions/:ver/artifact", h.GetVersionArtifact)

	// Version run links
	r.GET("/models/:id/versions/:ver/runs", h.ListVersionRuns)
	r.POST("/models/:id/versions/:ver/runs", h.LinkVersionRun)
	r.DELETE("/models/:id/versions/:ver/runs/:run_id", h.UnlinkVersionRun)

	// Lineage
	r.GET("/models/:id/versions/:ver/lineage", h.GetModelVersionLineage)

	// Model versions (direct access)
	r.GET("/model_versions", h.ListAllModelVersions)
	r.GET("/model_versions/:id", h.GetModelVersionDirect)

	// Artifact versions
	r.GET("/artifact_versions", h.ListArtifactVersions)
	r.GET("/artifact_versions/:id", h.GetArtifactVersion)
	r.GET("/artifact_version", h.FindArtifactVersion)
	r.POST("/artifact_versions", h.CreateArtifactVersion)
	r.PATCH("/artifact_versions/:id", h.UpdateArtifactVersion)
	r.DELETE("/artifact_versions/:id", h.DeleteArtifactVersion)

	// Pipeline runs
	r.GET("/runs", h.ListPipelineRuns)
	r.GET("/runs/:id", h.GetPipelineRun)
	r.GET("/run", h.FindPipelineRun)
	r.POST("/runs", h.CreatePipelineRun)
	r.PATCH("/runs/:id/status", h.UpdatePipelineRunStatus)
	r.DELETE("/runs/:id", h.DeletePipelineRun)

	// Deployments
	r.POST("/deployments", h.CreateDeployment)
	r.GET("/deployments", h.ListDeployments)
	r.GET("/deployments/:id", h.GetDeployment)
	r.DELETE("/deployments/:id", h.DeleteDeployment)
	r.POST("/deployments/:id/sync", h.SyncDeployment)
}
