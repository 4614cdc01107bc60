package repo

import (
	"context"

	"github.com/BuzzLyutic/task-sync-api/internal/model"
)

// TaskRepository определяет интерфейс для работы с задачами
type TaskRepository interface {
	Create(ctx context.Context, t model.Task) (model.Task, error)
	Get(ctx context.Context, id string) (model.Task, error)
	List(ctx context.Context, limit int) ([]model.Task, error)
	ListByIDs(ctx context.Context, ids []string, limit int) ([]model.Task, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) (int64, error)
	Delete(ctx context.Context, id string) (int64, error)
	GetByNotionID(ctx context.Context, notionID string) (model.Task, error)
	ListUnsynced(ctx context.Context, limit int) ([]model.Task, error)
	SetNotionID(ctx context.Context, id, notionID string) error
	GetStats(ctx context.Context) (model.SyncStats, error)
}

// ProjectRepository определяет интерфейс для работы с проектами
type ProjectRepository interface {
	Create(ctx context.Context, p model.Project) (model.Project, error)
	Get(ctx context.Context, id string) (model.Project, error)
	List(ctx context.Context, limit int) ([]model.Project, error)
}
