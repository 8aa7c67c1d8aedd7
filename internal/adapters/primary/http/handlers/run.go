package handlers

import (
	"net/http"
	"strconv"

	"model-control-plane/internal/adapters/primary/http/dto"
	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/core/ports/output"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListPipelineRuns(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.RunListFilter{
		WorkspaceID:  workspaceID,
		PipelineName: c.Query("pipeline"),
		Status:       c.Query("status"),
		SortBy:       c.Query("sort_by"),
		Order:        c.Query("order"),
		Limit:        limit,
		Offset:       offset,
	}

	runs, total, err := h.runSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list pipeline runs failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.PipelineRunResponse, 0, len(runs))
	for _, run := range runs {
		items = append(items, dto.ToPipelineRunResponse(run))
	}

	c.JSON(http.StatusOK, dto.ListPipelineRunsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetPipelineRun(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	run, err := h.runSvc.Get(c.Request.Context(), workspaceID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPipelineRunResponse(run))
}

func (h *Handler) FindPipelineRun(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
		return
	}

	run, err := h.runSvc.GetByName(c.Request.Context(), workspaceID, name)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPipelineRunResponse(run))
}

func (h *Handler) CreatePipelineRun(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	var req dto.CreatePipelineRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run, err := h.runSvc.Create(c.Request.Context(), workspaceID, req.Name, req.PipelineName)
	if err != nil {
		log.WithError(err).Error("create pipeline run failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToPipelineRunResponse(run))
}

func (h *Handler) UpdatePipelineRunStatus(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	var req dto.UpdatePipelineRunStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	run, err := h.runSvc.UpdateStatus(c.Request.Context(), workspaceID, id, domain.RunStatus(req.Status))
	if err != nil {
		log.WithError(err).Error("update pipeline run status failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToPipelineRunResponse(run))
}

func (h *Handler) DeletePipelineRun(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	if err := h.runSvc.Delete(c.Request.Context(), workspaceID, id); err != nil {
		log.WithError(err).Error("delete pipeline run failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) ListVersionRuns(c *gin.Context) {
	workspaceID, version, ok := h.resolveVersion(c)
	if !ok {
		return
	}

	runs, err := h.runSvc.ListForVersion(c.Request.Context(), workspaceID, version.ID)
	if err != nil {
		log.WithError(err).Error("list version runs failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.PipelineRunResponse, 0, len(runs))
	for _, run := range runs {
		items = append(items, dto.ToPipelineRunResponse(run))
	}

	c.JSON(http.StatusOK, dto.ListPipelineRunsResponse{
		Items:      items,
		Total:      len(items),
		PageSize:   len(items),
		NextOffset: len(items),
	})
}

func (h *Handler) LinkVersionRun(c *gin.Context) {
	workspaceID, version, ok := h.resolveVersion(c)
	if !ok {
		return
	}

	var req dto.LinkRunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.runSvc.Link(c.Request.Context(), workspaceID, version.ID, req.RunID); err != nil {
		log.WithError(err).Error("link run failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "linked"})
}

func (h *Handler) UnlinkVersionRun(c *gin.Context) {
	workspaceID, version, ok := h.resolveVersion(c)
	if !ok {
		return
	}

	runID, err := uuid.Parse(c.Param("run_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run id"})
		return
	}

	if err := h.runSvc.Unlink(c.Request.Context(), workspaceID, version.ID, runID); err != nil {
		log.WithError(err).Error("unlink run failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "unlinked"})
}
