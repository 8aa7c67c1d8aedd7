package handlers

import (
	"net/http"
	"strconv"

	"model-control-plane/internal/adapters/primary/http/dto"
	"model-control-plane/internal/core/domain"
	"model-control-plane/internal/core/ports/output"
	"model-control-plane/internal/core/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

func (h *Handler) ListModels(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.ModelListFilter{
		WorkspaceID: workspaceID,
		Search:      c.Query("search"),
		Tag:         c.Query("tag"),
		SortBy:      c.Query("sort_by"),
		Order:       c.Query("order"),
		Limit:       limit,
		Offset:      offset,
	}

	models, total, err := h.modelSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list models failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ModelResponse, 0, len(models))
	for _, m := range models {
		items = append(items, dto.ToModelResponse(m))
	}

	c.JSON(http.StatusOK, dto.ListModelsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetModel(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	// The path segment takes an ID or a model name.
	model, err := h.modelSvc.Resolve(c.Request.Context(), workspaceID, c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelResponse(model))
}

func (h *Handler) GetModelByParams(c *gin.Context) {
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

	model, err := h.modelSvc.GetByName(c.Request.Context(), workspaceID, name)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelResponse(model))
}

func (h *Handler) CreateModel(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	var req dto.CreateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	card := services.ModelCard{
		Description: req.Description,
		License:     req.License,
		Audience:    req.Audience,
		UseCases:    req.UseCases,
		Limitations: req.Limitations,
		TradeOffs:   req.TradeOffs,
		Ethics:      req.Ethics,
	}

	model, err := h.modelSvc.Create(c.Request.Context(), workspaceID, req.Name, card, req.Tags)
	if err != nil {
		log.WithError(err).Error("create model failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToModelResponse(model))
}

func (h *Handler) UpdateModel(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	model, err := h.modelSvc.Resolve(c.Request.Context(), workspaceID, c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	var req dto.UpdateModelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.License != nil {
		updates["license"] = *req.License
	}
	if req.Audience != nil {
		updates["audience"] = *req.Audience
	}
	if req.UseCases != nil {
		updates["use_cases"] = *req.UseCases
	}
	if req.Limitations != nil {
		updates["limitations"] = *req.Limitations
	}
	if req.TradeOffs != nil {
		updates["trade_offs"] = *req.TradeOffs
	}
	if req.Ethics != nil {
		updates["ethics"] = *req.Ethics
	}
	if req.Tags != nil {
		updates["tags"] = req.Tags
	}

	updated, err := h.modelSvc.Update(c.Request.Context(), workspaceID, model.ID, updates)
	if err != nil {
		log.WithError(err).Error("update model failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToModelResponse(updated))
}

func (h *Handler) DeleteModel(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	model, err := h.modelSvc.Resolve(c.Request.Context(), workspaceID, c.Param("id"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	force := c.Query("force") == "true"

	if err := h.modelSvc.Delete(c.Request.Context(), workspaceID, model.ID, force); err != nil {
		log.WithError(err).Error("delete model failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func getWorkspaceID(c *gin.Context) (uuid.UUID, error) {
	header := c.GetHeader("X-Workspace-ID")
	if header == "" {
		return uuid.Nil, domain.ErrMissingWorkspaceID
	}
	return uuid.Parse(header)
}
