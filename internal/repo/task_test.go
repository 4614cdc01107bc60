// internal/repo/task_test.go
package repo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/task-sync-api/internal/model"
)

func setupTestDB(t *testing.T) *pgxpool.Pool {
	dbURL := os.Getenv("TEST_DATABASE_URL")
	if dbURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	pool, err := pgxpool.New(context.Background(), dbURL)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(pool.Close)

	require.NoError(t, EnsureSchema(context.Background(), pool, "public"))

	// Очистка
	_, err = pool.Exec(context.Background(), "TRUNCATE tasks, projects")
	require.NoError(t, err)

	return pool
}

func newTask(title string) model.Task {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return model.Task{
		ID:        uuid.NewString(),
		Title:     title,
		Status:    model.StatusTodo,
		Priority:  model.PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTaskRepo_CreateGet(t *testing.T) {
	repo := NewTaskRepo(setupTestDB(t), "public")
	ctx := context.Background()

	due := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	task := newTask("Test")
	task.DueDate = &due

	created, err := repo.Create(ctx, task)
	require.NoError(t, err)
	assert.Equal(t, task.ID, created.ID)
	assert.Nil(t, created.NotionID)

	got, err := repo.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "Test", got.Title)
	require.NotNil(t, got.DueDate)
	assert.True(t, due.Equal(*got.DueDate))

	_, err = repo.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrorNotFound)
}

func TestTaskRepo_ListNewestFirst(t *testing.T) {
	repo := NewTaskRepo(setupTestDB(t), "public")
	ctx := context.Background()

	older := newTask("older")
	older.CreatedAt = older.CreatedAt.Add(-time.Hour)
	newer := newTask("newer")
	_, err := repo.Create(ctx, older)
	require.NoError(t, err)
	_, err = repo.Create(ctx, newer)
	require.NoError(t, err)

	tasks, err := repo.List(ctx, 1000)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, "newer", tasks[0].Title)

	tasks, err = repo.List(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, tasks, 1)
}

func TestTaskRepo_UpdateFields(t *testing.T) {
	repo := NewTaskRepo(setupTestDB(t), "public")
	ctx := context.Background()

	task := newTask("before")
	task.UpdatedAt = task.UpdatedAt.Add(-time.Hour)
	_, err := repo.Create(ctx, task)
	require.NoError(t, err)

	n, err := repo.UpdateFields(ctx, task.ID, map[string]any{"title": "after", "status": "Done"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := repo.Get(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "after", got.Title)
	assert.Equal(t, "Done", got.Status)
	assert.True(t, got.UpdatedAt.After(task.UpdatedAt))

	n, err = repo.UpdateFields(ctx, task.ID, map[string]any{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.UpdateFields(ctx, "missing", map[string]any{"title": "x"})
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestTaskRepo_NotionLink(t *testing.T) {
	repo := NewTaskRepo(setupTestDB(t), "public")
	ctx := context.Background()

	linked := newTask("linked")
	unlinked := newTask("unlinked")
	_, err := repo.Create(ctx, linked)
	require.NoError(t, err)
	_, err = repo.Create(ctx, unlinked)
	require.NoError(t, err)

	require.NoError(t, repo.SetNotionID(ctx, linked.ID, "page-1"))
	assert.ErrorIs(t, repo.SetNotionID(ctx, "missing", "page-2"), ErrorNotFound)

	got, err := repo.GetByNotionID(ctx, "page-1")
	require.NoError(t, err)
	assert.Equal(t, linked.ID, got.ID)

	_, err = repo.GetByNotionID(ctx, "page-unknown")
	assert.ErrorIs(t, err, ErrorNotFound)

	pending, err := repo.ListUnsynced(ctx, 1000)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, unlinked.ID, pending[0].ID)

	stats, err := repo.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.SyncStats{TotalTasks: 2, SyncedTasks: 1}, stats)

	// notion_id уникален
	dup := newTask("dup")
	notionID := "page-1"
	dup.NotionID = &notionID
	_, err = repo.Create(ctx, dup)
	assert.ErrorIs(t, err, ErrorConflict)
}

func TestTaskRepo_Delete(t *testing.T) {
	repo := NewTaskRepo(setupTestDB(t), "public")
	ctx := context.Background()

	task := newTask("to delete")
	_, err := repo.Create(ctx, task)
	require.NoError(t, err)

	n, err := repo.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = repo.Delete(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)
}

func TestProjectRepo(t *testing.T) {
	pool := setupTestDB(t)
	tasks := NewTaskRepo(pool, "public")
	projects := NewProjectRepo(pool, "public")
	ctx := context.Background()

	a, b := newTask("a"), newTask("b")
	_, err := tasks.Create(ctx, a)
	require.NoError(t, err)
	_, err = tasks.Create(ctx, b)
	require.NoError(t, err)

	p, err := projects.Create(ctx, model.Project{
		ID:        uuid.NewString(),
		Name:      "Launch",
		Tasks:     []string{b.ID, a.ID, "gone"},
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	assert.Equal(t, []string{b.ID, a.ID, "gone"}, p.Tasks)

	got, err := projects.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.Tasks, got.Tasks)

	_, err = projects.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrorNotFound)

	list, err := projects.List(ctx, 1000)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	found, err := tasks.ListByIDs(ctx, got.Tasks, 1000)
	require.NoError(t, err)
	assert.Len(t, found, 2)
}

func TestEnsureSchema_CustomSchema(t *testing.T) {
	pool := setupTestDB(t)
	ctx := context.Background()

	const schema = "taskdb"
	_, err := pool.Exec(ctx, `DROP SCHEMA IF EXISTS "taskdb" CASCADE`)
	require.NoError(t, err)
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DROP SCHEMA IF EXISTS "taskdb" CASCADE`)
	})

	require.NoError(t, EnsureSchema(ctx, pool, schema))
	// повторный вызов ничего не ломает
	require.NoError(t, EnsureSchema(ctx, pool, schema))

	tasks := NewTaskRepo(pool, schema)
	projects := NewProjectRepo(pool, schema)

	task := newTask("in custom schema")
	_, err = tasks.Create(ctx, task)
	require.NoError(t, err)
	require.NoError(t, tasks.SetNotionID(ctx, task.ID, "page-1"))

	got, err := tasks.GetByNotionID(ctx, "page-1")
	require.NoError(t, err)
	assert.Equal(t, task.ID, got.ID)

	_, err = projects.Create(ctx, model.Project{ID: uuid.NewString(), Name: "p", CreatedAt: time.Now().UTC()})
	require.NoError(t, err)

	// public не задет
	public, err := NewTaskRepo(pool, "public").List(ctx, 1000)
	require.NoError(t, err)
	assert.Empty(t, public)
}
