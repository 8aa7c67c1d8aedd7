package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"model-control-plane/internal/adapters/primary/http/dto"
)

func (h *Handler) GetModelVersionLineage(c *gin.Context) {
	workspaceID, version, ok := h.resolveVersion(c)
	if !ok {
		return
	}

	graph, err := h.lineageSvc.Graph(c.Request.Context(), workspaceID, version.ID)
	if err != nil {
		log.WithError(err).Error("build lineage failed")
		mapDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToLineageResponse(graph))
}
