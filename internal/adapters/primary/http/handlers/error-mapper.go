package handlers

import (
	"errors"
	"net/http"

	"model-control-plane/internal/core/domain"

	"github.com/gin-gonic/gin"
)

func mapDomainError(c *gin.Context, err error) {
	switch {
	// Not found errors
	case errors.Is(err, domain.ErrModelNotFound),
		errors.Is(err, domain.ErrVersionNotFound),
		errors.Is(err, domain.ErrArtifactNotFound),
		errors.Is(err, domain.ErrRunNotFound),
		errors.Is(err, domain.ErrDeploymentNotFound),
		errors.Is(err, domain.ErrArtifactLinkNotFound),
		errors.Is(err, domain.ErrRunLinkNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})

	// Conflict errors
	case errors.Is(err, domain.ErrModelNameConflict),
		errors.Is(err, domain.ErrVersionNameConflict),
		errors.Is(err, domain.ErrArtifactNameConflict),
		errors.Is(err, domain.ErrRunNameConflict),
		errors.Is(err, domain.ErrDeploymentNameConflict),
		errors.Is(err, domain.ErrStageOccupied),
		errors.Is(err, domain.ErrArtifactLinkExists),
		errors.Is(err, domain.ErrRunLinkExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})

	// Bad request / validation errors
	case errors.Is(err, domain.ErrInvalidModelName),
		errors.Is(err, domain.ErrMissingWorkspaceID),
		errors.Is(err, domain.ErrModelHasStagedVersion),
		errors.Is(err, domain.ErrInvalidVersionRef),
		errors.Is(err, domain.ErrInvalidVersionID),
		errors.Is(err, domain.ErrInvalidStage),
		errors.Is(err, domain.ErrStageReserved),
		errors.Is(err, domain.ErrEmptyMetadata),
		errors.Is(err, domain.ErrVersionPromoted),
		errors.Is(err, domain.ErrInvalidArtifactName),
		errors.Is(err, domain.ErrInvalidArtifactKind),
		errors.Is(err, domain.ErrNoModelArtifact),
		errors.Is(err, domain.ErrUnsupportedFramework),
		errors.Is(err, domain.ErrInvalidRunName),
		errors.Is(err, domain.ErrInvalidRunState),
		errors.Is(err, domain.ErrInvalidDeploymentName):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	// Service unavailable errors
	case errors.Is(err, domain.ErrServingNotAvailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})

	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
