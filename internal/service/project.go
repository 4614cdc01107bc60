package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BuzzLyutic/task-sync-api/internal/model"
	"github.com/BuzzLyutic/task-sync-api/internal/repo"
)

type ProjectService struct {
	projects repo.ProjectRepository
	tasks    repo.TaskRepository
	now      func() time.Time
	newID    func() string
}

func NewProjectService(projects repo.ProjectRepository, tasks repo.TaskRepository) *ProjectService {
	return &ProjectService{
		projects: projects,
		tasks:    tasks,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    uuid.NewString,
	}
}

func (s *ProjectService) Create(ctx context.Context, in model.ProjectCreate) (model.Project, error) {
	if s.projects == nil {
		return model.Project{}, ErrStoreUnavailable
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Project{}, fmt.Errorf("%w: name is required", ErrValidation)
	}

	taskIDs := in.Tasks
	if taskIDs == nil {
		taskIDs = []string{}
	}

	return s.projects.Create(ctx, model.Project{
		ID:          s.newID(),
		Name:        in.Name,
		Description: in.Description,
		Tasks:       taskIDs,
		CreatedAt:   s.now(),
	})
}

func (s *ProjectService) List(ctx context.Context) ([]model.Project, error) {
	if s.projects == nil {
		return []model.Project{}, nil
	}
	return s.projects.List(ctx, MaxListLimit)
}

// Tasks returns the project's tasks in the project's order. Identifiers of
// deleted tasks are skipped.
func (s *ProjectService) Tasks(ctx context.Context, projectID string) ([]model.Task, error) {
	if s.projects == nil || s.tasks == nil {
		return nil, ErrStoreUnavailable
	}

	project, err := s.projects.Get(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(project.Tasks) == 0 {
		return []model.Task{}, nil
	}

	found, err := s.tasks.ListByIDs(ctx, project.Tasks, MaxListLimit)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]model.Task, len(found))
	for _, t := range found {
		byID[t.ID] = t
	}

	ordered := make([]model.Task, 0, len(found))
	for _, id := range project.Tasks {
		if t, ok := byID[id]; ok {
			ordered = append(ordered, t)
			delete(byID, id)
		}
	}
	return ordered, nil
}
