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

// versionScope reads the workspace header and resolves the :id path segment
// to a model. On failure the response is already written.
func (h *Handler) versionScope(c *gin.Context) (uuid.UUID, *domain.Model, bool) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return uuid.Nil, nil, false
	}

	model, err := h.modelSvc.Resolve(c.Request.Context(), workspaceID, c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return uuid.Nil, nil, false
	}
	return workspaceID, model, true
}

// resolveVersion additionally resolves the :ver path segment, which may be a
// version ID, number, name, stage or the latest alias.
func (h *Handler) resolveVersion(c *gin.Context) (uuid.UUID, *domain.ModelVersion, bool) {
	workspaceID, model, ok := h.versionScope(c)
	if !ok {
		return uuid.Nil, nil, false
	}

	version, err := h.versionSvc.Resolve(c.Request.Context(), workspaceID, model.ID, c.Param("ver"))
	if err != nil {
		mapDomainError(c, err)
		return uuid.Nil, nil, false
	}
	return workspaceID, version, true
}

func (h *Handler) ListModelVersions(c *gin.Context) {
	workspaceID, model, ok := h.versionScope(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.VersionListFilter{
		WorkspaceID: workspaceID,
		ModelID:     model.ID,
		Stage:       c.Query("stage"),
		Search:      c.Query("search"),
		SortBy:      c.Query("sort_by"),
		Order:       c.Query("order"),
		Limit:       limit,
		Offset:      offset,
	}

	versions, total, err := h.versionSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list model versions failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ModelVersionResponse, 0, len(versions))
	for _, v := range versions {
		items = append(items, dto.ToModelVersionResponse(v))
	}

	c.JSON(http.StatusOK, dto.ListModelVersionsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) CreateModelVersion(c *gin.Context) {
	workspaceID, model, ok := h.versionScope(c)
	if !ok {
		return
	}

	var req dto.CreateModelVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.versionSvc.Create(c.Request.Context(), workspaceID, model.ID, req.Name, req.Description, req.Tags)
	if err != nil {
		log.WithError(err).Error("create model version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToModelVersionResponse(version))
}

func (h *Handler) GetModelVersion(c *gin.Context) {
	workspaceID, model, ok := h.versionScope(c)
	if !ok {
		return
	}

	version, err := h.versionSvc.Resolve(c.Request.Context(), workspaceID, model.ID, c.Param("ver"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelVersionResponse(version))
}

func (h *Handler) UpdateModelVersion(c *gin.Context) {
	workspaceID, model, ok := h.versionScope(c)
	if !ok {
		return
	}

	var req dto.UpdateModelVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Tags != nil {
		updates["tags"] = req.Tags
	}

	version, err := h.versionSvc.Update(c.Request.Context(), workspaceID, model.ID, c.Param("ver"), updates)
	if err != nil {
		log.WithError(err).Error("update model version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelVersionResponse(version))
}

func (h *Handler) DeleteModelVersion(c *gin.Context) {
	workspaceID, model, ok := h.versionScope(c)
	if !ok {
		return
	}

	force := c.Query("force") == "true"

	if err := h.versionSvc.Delete(c.Request.Context(), workspaceID, model.ID, c.Param("ver"), force); err != nil {
		log.WithError(err).Error("delete model version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) SetModelVersionStage(c *gin.Context) {
	workspaceID, model, ok := h.versionScope(c)
	if !ok {
		return
	}

	var req dto.SetStageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.versionSvc.SetStage(c.Request.Context(), workspaceID, model.ID, c.Param("ver"), domain.Stage(req.Stage), req.Force)
	if err != nil {
		log.WithError(err).Error("set model version stage failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelVersionResponse(version))
}

func (h *Handler) LogModelVersionMetadata(c *gin.Context) {
	workspaceID, model, ok := h.versionScope(c)
	if !ok {
		return
	}

	var req dto.LogMetadataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	version, err := h.versionSvc.LogMetadata(c.Request.Context(), workspaceID, model.ID, c.Param("ver"), req.Metadata)
	if err != nil {
		log.WithError(err).Error("log model version metadata failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelVersionResponse(version))
}

func (h *Handler) ListAllModelVersions(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.VersionListFilter{
		WorkspaceID: workspaceID,
		Stage:       c.Query("stage"),
		Search:      c.Query("search"),
		SortBy:      c.Query("sort_by"),
		Order:       c.Query("order"),
		Limit:       limit,
		Offset:      offset,
	}
	if modelID, err := uuid.Parse(c.Query("model_id")); err == nil {
		filter.ModelID = modelID
	}

	versions, total, err := h.versionSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list all model versions failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ModelVersionResponse, 0, len(versions))
	for _, v := range versions {
		items = append(items, dto.ToModelVersionResponse(v))
	}

	c.JSON(http.StatusOK, dto.ListModelVersionsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetModelVersionDirect(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid model version id"})
		return
	}

	version, err := h.versionSvc.Get(c.Request.Context(), workspaceID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelVersionResponse(version))
}
