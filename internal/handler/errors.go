package handler

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-sync-api/internal/repo"
	"github.com/BuzzLyutic/task-sync-api/internal/service"
	"github.com/BuzzLyutic/task-sync-api/pkg/respond"
)

// handleErrors maps service and repository errors to HTTP responses.
// notFound is the message used for repo.ErrorNotFound.
func handleErrors(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error, notFound string) {
	var syncErr *service.SyncError

	switch {
	case errors.Is(err, repo.ErrorNotFound):
		respond.Error(w, r, http.StatusNotFound, notFound)
	case errors.Is(err, repo.ErrorConflict):
		respond.Error(w, r, http.StatusConflict, "conflict")
	case errors.Is(err, service.ErrValidation):
		respond.Error(w, r, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrStoreUnavailable):
		respond.Error(w, r, http.StatusInternalServerError, "Database not connected")
	case errors.Is(err, service.ErrRemoteUnconfigured):
		respond.Error(w, r, http.StatusBadRequest, "Notion not configured")
	case errors.As(err, &syncErr):
		logger.Error("sync failed", zap.Error(syncErr.Err))
		respond.Error(w, r, http.StatusInternalServerError, "Sync failed: "+syncErr.Err.Error())
	default:
		logger.Error("internal error", zap.Error(err))
		respond.Error(w, r, http.StatusInternalServerError, "internal error")
	}
}
