package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kurihiro0119/git-fetcher/internal/errors"
	"github.com/kurihiro0119/git-fetcher/internal/storage"
)

// Handler handles API requests
type Handler struct {
	store storage.Storage
}

// NewHandler creates a new API handler
func NewHandler(store storage.Storage) *Handler {
	return &Handler{
		store: store,
	}
}

// ListRepositories returns the cached repositories of an owner
// GET /api/v1/owners/:owner/repos
func (h *Handler) ListRepositories(c *gin.Context) {
	owner := c.Param("owner")
	ctx := c.Request.Context()

	exists, err := h.store.Exists(ctx, owner)
	if err != nil {
		respondError(c, apperrors.NewInternalError("failed to check cache", err))
		return
	}
	if !exists {
		respondError(c, apperrors.NewNotFoundError("owner "+owner))
		return
	}

	repos, err := h.store.ListByOwner(ctx, owner)
	if err != nil {
		respondError(c, apperrors.NewInternalError("failed to list repositories", err))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": repos,
	})
}

// HealthCheck returns the health status of the API
// GET /health
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
	})
}

func respondError(c *gin.Context, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		status := http.StatusInternalServerError
		switch appErr.Code {
		case apperrors.ErrCodeNotFound:
			status = http.StatusNotFound
		case apperrors.ErrCodeMissingArgument, apperrors.ErrCodeInvalidArgument:
			status = http.StatusBadRequest
		}
		c.JSON(status, gin.H{
			"error": gin.H{
				"code":    appErr.Code,
				"message": appErr.Message,
			},
		})
		return
	}

	c.JSON(http.StatusInternalServerError, gin.H{
		"error": gin.H{
			"code":    apperrors.ErrCodeInternal,
			"message": err.Error(),
		},
	})
}
