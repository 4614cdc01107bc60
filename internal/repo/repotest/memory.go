// Package repotest provides in-memory repositories for handler tests.
package repotest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/BuzzLyutic/task-sync-api/internal/model"
	"github.com/BuzzLyutic/task-sync-api/internal/repo"
)

type TaskStore struct {
	mu    sync.Mutex
	tasks map[string]model.Task

	// FailSetNotionID makes linking a pushed page fail.
	FailSetNotionID bool
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[string]model.Task)}
}

func (s *TaskStore) Create(_ context.Context, t model.Task) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; ok {
		return t, repo.ErrorConflict
	}
	if t.Synced() {
		for _, existing := range s.tasks {
			if existing.Synced() && *existing.NotionID == *t.NotionID {
				return t, repo.ErrorConflict
			}
		}
	}
	s.tasks[t.ID] = clone(t)
	return clone(t), nil
}

func (s *TaskStore) Get(_ context.Context, id string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return model.Task{}, repo.ErrorNotFound
	}
	return clone(t), nil
}

func (s *TaskStore) List(_ context.Context, limit int) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.sorted(func(a, b model.Task) bool { return a.CreatedAt.After(b.CreatedAt) })
	return truncate(out, limit), nil
}

func (s *TaskStore) ListByIDs(_ context.Context, ids []string, limit int) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, 0, len(ids))
	for _, id := range ids {
		if t, ok := s.tasks[id]; ok {
			out = append(out, clone(t))
		}
	}
	return truncate(out, limit), nil
}

func (s *TaskStore) UpdateFields(_ context.Context, id string, fields map[string]any) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tasks[id]
	if !ok {
		return 0, nil
	}
	for k, v := range fields {
		if err := apply(&t, k, v); err != nil {
			return 0, err
		}
	}
	t.UpdatedAt = time.Now().UTC()
	s.tasks[id] = t
	return 1, nil
}

func (s *TaskStore) Delete(_ context.Context, id string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return 0, nil
	}
	delete(s.tasks, id)
	return 1, nil
}

func (s *TaskStore) GetByNotionID(_ context.Context, notionID string) (model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.tasks {
		if t.Synced() && *t.NotionID == notionID {
			return clone(t), nil
		}
	}
	return model.Task{}, repo.ErrorNotFound
}

func (s *TaskStore) ListUnsynced(_ context.Context, limit int) ([]model.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Task, 0)
	for _, t := range s.sorted(func(a, b model.Task) bool { return a.CreatedAt.Before(b.CreatedAt) }) {
		if !t.Synced() {
			out = append(out, t)
		}
	}
	return truncate(out, limit), nil
}

func (s *TaskStore) SetNotionID(ctx context.Context, id, notionID string) error {
	if s.FailSetNotionID {
		return fmt.Errorf("set notion_id on %s: store unavailable", id)
	}
	n, err := s.UpdateFields(ctx, id, map[string]any{"notion_id": notionID})
	if err != nil {
		return err
	}
	if n == 0 {
		return repo.ErrorNotFound
	}
	return nil
}

func (s *TaskStore) GetStats(_ context.Context) (model.SyncStats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := model.SyncStats{TotalTasks: len(s.tasks)}
	for _, t := range s.tasks {
		if t.Synced() {
			stats.SyncedTasks++
		}
	}
	return stats, nil
}

// All returns every stored task, oldest first.
func (s *TaskStore) All() []model.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sorted(func(a, b model.Task) bool { return a.CreatedAt.Before(b.CreatedAt) })
}

func (s *TaskStore) sorted(less func(a, b model.Task) bool) []model.Task {
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, clone(t))
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return less(out[i], out[j])
	})
	return out
}

func apply(t *model.Task, field string, v any) error {
	switch field {
	case "title":
		t.Title = v.(string)
	case "description":
		t.Description = v.(string)
	case "status":
		t.Status = v.(string)
	case "priority":
		t.Priority = v.(string)
	case "notion_id":
		id := v.(string)
		t.NotionID = &id
	case "due_date":
		switch d := v.(type) {
		case time.Time:
			t.DueDate = &d
		case *time.Time:
			if d == nil {
				t.DueDate = nil
			} else {
				cp := *d
				t.DueDate = &cp
			}
		}
	default:
		return fmt.Errorf("unknown column %q", field)
	}
	return nil
}

func clone(t model.Task) model.Task {
	if t.NotionID != nil {
		id := *t.NotionID
		t.NotionID = &id
	}
	if t.DueDate != nil {
		d := *t.DueDate
		t.DueDate = &d
	}
	return t
}

func truncate[T any](s []T, limit int) []T {
	if limit > 0 && len(s) > limit {
		return s[:limit]
	}
	return s
}

type ProjectStore struct {
	mu       sync.Mutex
	projects map[string]model.Project
}

func NewProjectStore() *ProjectStore {
	return &ProjectStore{projects: make(map[string]model.Project)}
}

func (s *ProjectStore) Create(_ context.Context, p model.Project) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ID]; ok {
		return p, repo.ErrorConflict
	}
	p.Tasks = append([]string{}, p.Tasks...)
	s.projects[p.ID] = p
	return p, nil
}

func (s *ProjectStore) Get(_ context.Context, id string) (model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.projects[id]
	if !ok {
		return model.Project{}, repo.ErrorNotFound
	}
	return p, nil
}

func (s *ProjectStore) List(_ context.Context, limit int) ([]model.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Project, 0, len(s.projects))
	for _, p := range s.projects {
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return truncate(out, limit), nil
}
