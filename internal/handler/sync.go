package handler

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-sync-api/internal/service"
	"github.com/BuzzLyutic/task-sync-api/pkg/respond"
)

type SyncHandler struct {
	service *service.SyncService
	logger  *zap.Logger
}

func NewSyncHandler(srv *service.SyncService, logger *zap.Logger) *SyncHandler {
	return &SyncHandler{
		service: srv,
		logger:  logger,
	}
}

// Sync runs a full pull-then-push reconcile with Notion.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Reconcile(r.Context())
	if err != nil {
		handleErrors(w, r, h.logger, err, "not found")
		return
	}
	respond.JSON(w, r, http.StatusOK, result)
}

func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	status, err := h.service.Status(r.Context())
	if err != nil {
		handleErrors(w, r, h.logger, err, "not found")
		return
	}
	respond.JSON(w, r, http.StatusOK, status)
}

// Pinger reports store reachability; *pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

type SystemHandler struct {
	db               Pinger
	notionConfigured bool
}

// NewSystemHandler accepts a nil db when no store is configured.
func NewSystemHandler(db Pinger, notionConfigured bool) *SystemHandler {
	return &SystemHandler{db: db, notionConfigured: notionConfigured}
}

func (h *SystemHandler) Root(w http.ResponseWriter, r *http.Request) {
	respond.Message(w, r, http.StatusOK, "Notion Task Manager API")
}

func (h *SystemHandler) Health(w http.ResponseWriter, r *http.Request) {
	notionStatus := "not_configured"
	if h.notionConfigured {
		notionStatus = "connected"
	}

	dbStatus := "not_connected"
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err == nil {
			dbStatus = "connected"
		}
	}

	respond.JSON(w, r, http.StatusOK, map[string]any{
		"status":        "healthy",
		"notion_status": notionStatus,
		"db_status":     dbStatus,
		"timestamp":     time.Now().UTC(),
	})
}
