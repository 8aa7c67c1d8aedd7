package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"model-control-plane/internal/adapters/primary/http/dto"
	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/core/ports/output"
)

func (h *Handler) CreateDeployment(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	var req dto.CreateDeploymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	model, err := h.modelSvc.Resolve(c.Request.Context(), workspaceID, req.Model)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	ref := req.Version
	if ref == "" {
		ref = domain.StageAliasLatest
	}
	version, err := h.versionSvc.Resolve(c.Request.Context(), workspaceID, model.ID, ref)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	result, err := h.deploySvc.Deploy(c.Request.Context(), workspaceID, version.ID, req.Name, req.Namespace)
	if err != nil {
		log.WithError(err).Error("create deployment failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, dto.DeployResponse{
		Deployment: dto.ToDeploymentResponse(result.Deployment),
		Status:     result.Status,
		Message:    result.Message,
	})
}

func (h *Handler) ListDeployments(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.DeploymentListFilter{
		WorkspaceID: workspaceID,
		Status:      c.Query("status"),
		Limit:       limit,
		Offset:      offset,
	}
	if versionID, err := uuid.Parse(c.Query("model_version_id")); err == nil {
		filter.ModelVersionID = versionID
	}

	deployments, total, err := h.deploySvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list deployments failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.DeploymentResponse, 0, len(deployments))
	for _, d := range deployments {
		items = append(items, dto.ToDeploymentResponse(d))
	}

	c.JSON(http.StatusOK, dto.ListDeploymentsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetDeployment(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deployment id"})
		return
	}

	deployment, err := h.deploySvc.Get(c.Request.Context(), workspaceID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDeploymentResponse(deployment))
}

func (h *Handler) DeleteDeployment(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deployment id"})
		return
	}

	if err := h.deploySvc.Undeploy(c.Request.Context(), workspaceID, id); err != nil {
		log.WithError(err).Error("undeploy failed")
		mapDomainError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) SyncDeployment(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid deployment id"})
		return
	}

	deployment, err := h.deploySvc.SyncStatus(c.Request.Context(), workspaceID, id)
	if err != nil {
		log.WithError(err).Error("sync deployment status failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToDeploymentResponse(deployment))
}
