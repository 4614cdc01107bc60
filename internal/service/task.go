package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BuzzLyutic/task-sync-api/internal/model"
	"github.com/BuzzLyutic/task-sync-api/internal/repo"
)

// MaxListLimit caps every list read.
const MaxListLimit = 1000

type TaskService struct {
	repo   repo.TaskRepository
	sync   *SyncService
	logger *zap.Logger
	now    func() time.Time
	newID  func() string
}

func NewTaskService(repo repo.TaskRepository, sync *SyncService, logger *zap.Logger) *TaskService {
	return &TaskService{
		repo:   repo,
		sync:   sync,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
		newID:  uuid.NewString,
	}
}

func (s *TaskService) Create(ctx context.Context, in model.TaskCreate) (model.Task, error) {
	if s.repo == nil {
		return model.Task{}, ErrStoreUnavailable
	}
	if strings.TrimSpace(in.Title) == "" { // Валидация обязательного поля
		return model.Task{}, fmt.Errorf("%w: title is required", ErrValidation)
	}

	now := s.now()
	task := model.Task{
		ID:          s.newID(),
		Title:       in.Title,
		Description: in.Description,
		Status:      defaultString(in.Status, model.StatusTodo),
		Priority:    defaultString(in.Priority, model.PriorityMedium),
		DueDate:     in.DueDate.TimePtr(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.repo.Create(ctx, task)
	if err != nil {
		return task, err
	}

	return s.push(ctx, created), nil
}

func (s *TaskService) Get(ctx context.Context, id string) (model.Task, error) {
	if s.repo == nil {
		return model.Task{}, ErrStoreUnavailable
	}
	return s.repo.Get(ctx, id)
}

// List returns tasks newest first; without a store it is empty rather than an error.
func (s *TaskService) List(ctx context.Context) ([]model.Task, error) {
	if s.repo == nil {
		return []model.Task{}, nil
	}
	return s.repo.List(ctx, MaxListLimit)
}

// Update replaces only the provided fields. An empty update still stamps updated_at.
func (s *TaskService) Update(ctx context.Context, id string, upd model.TaskUpdate) (model.Task, error) {
	if s.repo == nil {
		return model.Task{}, ErrStoreUnavailable
	}
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return model.Task{}, fmt.Errorf("%w: title must not be empty", ErrValidation)
	}

	// Пустой select Notion не примет
	if upd.Status != nil && *upd.Status == "" {
		upd.Status = stringPtr(model.StatusTodo)
	}
	if upd.Priority != nil && *upd.Priority == "" {
		upd.Priority = stringPtr(model.PriorityMedium)
	}

	matched, err := s.repo.UpdateFields(ctx, id, upd.Fields())
	if err != nil {
		return model.Task{}, err
	}
	if matched == 0 {
		return model.Task{}, repo.ErrorNotFound
	}

	task, err := s.repo.Get(ctx, id)
	if err != nil {
		return task, err
	}

	return s.push(ctx, task), nil
}

func (s *TaskService) Delete(ctx context.Context, id string) error {
	if s.repo == nil {
		return ErrStoreUnavailable
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return repo.ErrorNotFound
	}
	return nil
}

// push mirrors the task to Notion when configured. The outcome never fails
// the request; a fresh link is reflected in the returned task.
func (s *TaskService) push(ctx context.Context, t model.Task) model.Task {
	if s.sync == nil || !s.sync.Configured() {
		return t
	}

	notionID, ok := s.sync.PushTask(ctx, t)
	if ok && !t.Synced() {
		t.NotionID = &notionID
	}
	return t
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func stringPtr(s string) *string { return &s }
