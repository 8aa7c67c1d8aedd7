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

func (h *Handler) ListArtifactVersions(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	filter := ports.ArtifactListFilter{
		WorkspaceID: workspaceID,
		Kind:        c.Query("kind"),
		Name:        c.Query("name"),
		Search:      c.Query("search"),
		SortBy:      c.Query("sort_by"),
		Order:       c.Query("order"),
		Limit:       limit,
		Offset:      offset,
	}

	artifacts, total, err := h.artifactSvc.List(c.Request.Context(), filter)
	if err != nil {
		log.WithError(err).Error("list artifact versions failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ArtifactVersionResponse, 0, len(artifacts))
	for _, a := range artifacts {
		items = append(items, dto.ToArtifactVersionResponse(a))
	}

	c.JSON(http.StatusOK, dto.ListArtifactVersionsResponse{
		Items:      items,
		Total:      total,
		PageSize:   limit,
		NextOffset: offset + len(items),
	})
}

func (h *Handler) GetArtifactVersion(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artifact version id"})
		return
	}

	artifact, err := h.artifactSvc.Get(c.Request.Context(), workspaceID, id)
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtifactVersionResponse(artifact))
}

func (h *Handler) FindArtifactVersion(c *gin.Context) {
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

	artifact, err := h.artifactSvc.Find(c.Request.Context(), workspaceID, name, c.Query("version"))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtifactVersionResponse(artifact))
}

func (h *Handler) CreateArtifactVersion(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	var req dto.CreateArtifactVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	artifact, err := h.artifactSvc.Create(
		c.Request.Context(), workspaceID,
		req.Name, req.Version, domain.ArtifactKind(req.Kind),
		req.URI, req.Metadata, req.ProducerRunID,
	)
	if err != nil {
		log.WithError(err).Error("create artifact version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToArtifactVersionResponse(artifact))
}

func (h *Handler) UpdateArtifactVersion(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artifact version id"})
		return
	}

	var req dto.UpdateArtifactVersionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	updates := make(map[string]interface{})
	if req.URI != nil {
		updates["uri"] = *req.URI
	}
	if req.Metadata != nil {
		updates["metadata"] = req.Metadata
	}

	artifact, err := h.artifactSvc.Update(c.Request.Context(), workspaceID, id, updates)
	if err != nil {
		log.WithError(err).Error("update artifact version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtifactVersionResponse(artifact))
}

func (h *Handler) DeleteArtifactVersion(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": domain.ErrMissingWorkspaceID.Error()})
		return
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artifact version id"})
		return
	}

	if err := h.artifactSvc.Delete(c.Request.Context(), workspaceID, id); err != nil {
		log.WithError(err).Error("delete artifact version failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *Handler) ListVersionArtifacts(c *gin.Context) {
	workspaceID, version, ok := h.resolveVersion(c)
	if !ok {
		return
	}

	artifacts, err := h.artifactSvc.ListForVersion(c.Request.Context(), workspaceID, version.ID, domain.ArtifactKind(c.Query("kind")))
	if err != nil {
		log.WithError(err).Error("list version artifacts failed")
		mapDomainError(c, err)
		return
	}

	items := make([]dto.ArtifactVersionResponse, 0, len(artifacts))
	for _, a := range artifacts {
		items = append(items, dto.ToArtifactVersionResponse(a))
	}

	c.JSON(http.StatusOK, dto.ListArtifactVersionsResponse{
		Items:      items,
		Total:      len(items),
		PageSize:   len(items),
		NextOffset: len(items),
	})
}

func (h *Handler) LinkVersionArtifact(c *gin.Context) {
	workspaceID, version, ok := h.resolveVersion(c)
	if !ok {
		return
	}

	var req dto.LinkArtifactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.artifactSvc.Link(c.Request.Context(), workspaceID, version.ID, req.ArtifactVersionID); err != nil {
		log.WithError(err).Error("link artifact failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": "linked"})
}

func (h *Handler) UnlinkVersionArtifact(c *gin.Context) {
	workspaceID, version, ok := h.resolveVersion(c)
	if !ok {
		return
	}

	artifactID, err := uuid.Parse(c.Param("artifact_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid artifact version id"})
		return
	}

	if err := h.artifactSvc.Unlink(c.Request.Context(), workspaceID, version.ID, artifactID); err != nil {
		log.WithError(err).Error("unlink artifact failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "unlinked"})
}

// GetVersionArtifact fetches one linked artifact by name, optionally
// restricted to a kind via the kind query parameter.
func (h *Handler) GetVersionArtifact(c *gin.Context) {
	workspaceID, version, ok := h.resolveVersion(c)
	if !ok {
		return
	}

	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name query parameter is required"})
		return
	}

	artifact, err := h.artifactSvc.FetchForVersion(c.Request.Context(), workspaceID, version.ID, name, domain.ArtifactKind(c.Query("kind")))
	if err != nil {
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToArtifactVersionResponse(artifact))
}
