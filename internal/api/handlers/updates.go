package handlers

import (
	"context"
	"net/http"

	"github.com/wonny/stockpilot/internal/updatelog"
	"github.com/wonny/stockpilot/pkg/logger"
)

// UpdateLister reads the update history
type UpdateLister interface {
	ListAll(ctx context.Context) ([]updatelog.Entry, error)
}

// UpdateLogHandler serves the read-only update history
type UpdateLogHandler struct {
	repo   UpdateLister
	logger *logger.Logger
}

// NewUpdateLogHandler creates a new update log handler
func NewUpdateLogHandler(repo UpdateLister, log *logger.Logger) *UpdateLogHandler {
	return &UpdateLogHandler{
		repo:   repo,
		logger: log,
	}
}

// List returns every update entry, newest first
// GET /api/updates
func (h *UpdateLogHandler) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.repo.ListAll(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list update logs")
		respondError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"updates": entries,
	})
}
