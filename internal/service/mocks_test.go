package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/BuzzLyutic/task-sync-api/internal/model"
)

// MockTaskRepository - мок репозитория задач
type MockTaskRepository struct {
	mock.Mock
}

func (m *MockTaskRepository) Create(ctx context.Context, t model.Task) (model.Task, error) {
	args := m.Called(ctx, t)
	if fn, ok := args.Get(0).(func(context.Context, model.Task) model.Task); ok {
		return fn(ctx, t), args.Error(1)
	}
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) Get(ctx context.Context, id string) (model.Task, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) List(ctx context.Context, limit int) ([]model.Task, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListByIDs(ctx context.Context, ids []string, limit int) ([]model.Task, error) {
	args := m.Called(ctx, ids, limit)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) UpdateFields(ctx context.Context, id string, fields map[string]any) (int64, error) {
	args := m.Called(ctx, id, fields)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) Delete(ctx context.Context, id string) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTaskRepository) GetByNotionID(ctx context.Context, notionID string) (model.Task, error) {
	args := m.Called(ctx, notionID)
	return args.Get(0).(model.Task), args.Error(1)
}

func (m *MockTaskRepository) ListUnsynced(ctx context.Context, limit int) ([]model.Task, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.Task), args.Error(1)
}

func (m *MockTaskRepository) SetNotionID(ctx context.Context, id, notionID string) error {
	args := m.Called(ctx, id, notionID)
	return args.Error(0)
}

func (m *MockTaskRepository) GetStats(ctx context.Context) (model.SyncStats, error) {
	args := m.Called(ctx)
	return args.Get(0).(model.SyncStats), args.Error(1)
}

// MockProjectRepository - мок репозитория проектов
type MockProjectRepository struct {
	mock.Mock
}

func (m *MockProjectRepository) Create(ctx context.Context, p model.Project) (model.Project, error) {
	args := m.Called(ctx, p)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *MockProjectRepository) Get(ctx context.Context, id string) (model.Project, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Project), args.Error(1)
}

func (m *MockProjectRepository) List(ctx context.Context, limit int) ([]model.Project, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]model.Project), args.Error(1)
}

// MockBoard - мок Notion
type MockBoard struct {
	mock.Mock
}

func (m *MockBoard) Push(ctx context.Context, t model.Task) (string, error) {
	args := m.Called(ctx, t)
	return args.String(0), args.Error(1)
}

func (m *MockBoard) PullAll(ctx context.Context) ([]model.RemotePage, error) {
	args := m.Called(ctx)
	pages, _ := args.Get(0).([]model.RemotePage)
	return pages, args.Error(1)
}

func strPtr(s string) *string { return &s }
