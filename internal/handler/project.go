package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-sync-api/internal/model"
	"github.com/BuzzLyutic/task-sync-api/internal/service"
	"github.com/BuzzLyutic/task-sync-api/pkg/respond"
)

const projectNotFound = "Project not found"

type ProjectHandler struct {
	service *service.ProjectService
	logger  *zap.Logger
}

func NewProjectHandler(srv *service.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		service: srv,
		logger:  logger,
	}
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	if r.ContentLength == 0 {
		respond.Error(w, r, http.StatusBadRequest, "empty request body")
		return
	}

	var req model.ProjectCreate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.Error(w, r, http.StatusBadRequest, fmt.Sprintf("invalid json: %v", err))
		return
	}

	project, err := h.service.Create(r.Context(), req)
	if err != nil {
		handleErrors(w, r, h.logger, err, projectNotFound)
		return
	}

	w.Header().Set("Location", path.Join(r.URL.Path, project.ID))
	respond.JSON(w, r, http.StatusCreated, project)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context())
	if err != nil {
		handleErrors(w, r, h.logger, err, projectNotFound)
		return
	}
	respond.JSON(w, r, http.StatusOK, projects)
}

func (h *ProjectHandler) Tasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.service.Tasks(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleErrors(w, r, h.logger, err, projectNotFound)
		return
	}
	respond.JSON(w, r, http.StatusOK, tasks)
}
