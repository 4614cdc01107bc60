package repo

import (
	"context"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/task-sync-api/internal/model"
)

var (
	ErrorNotFound = errors.New("not found")
	ErrorConflict = errors.New("conflict")
)

var taskColumns = []string{
	"id", "title", "description", "status", "priority",
	"due_date", "notion_id", "created_at", "updated_at",
}

type TaskRepo struct { // Репозиторий для работы непосредственно с БД
	pool  *pgxpool.Pool
	table string
	sq    squirrel.StatementBuilderType
}

// NewTaskRepo creates a repository over the tasks collection in the given schema.
func NewTaskRepo(pool *pgxpool.Pool, schema string) *TaskRepo {
	return &TaskRepo{
		pool:  pool,
		table: qualify(schema, "tasks"),
		sq:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *TaskRepo) Create(ctx context.Context, t model.Task) (model.Task, error) {
	query, args, err := r.sq.Insert(r.table).
		Columns(taskColumns...).
		Values(t.ID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.NotionID, t.CreatedAt, t.UpdatedAt).
		Suffix("RETURNING " + columnList(taskColumns)).
		ToSql()
	if err != nil {
		return t, err
	}

	created, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		return t, r.mapError(err)
	}
	return created, nil
}

func (r *TaskRepo) Get(ctx context.Context, id string) (model.Task, error) {
	return r.getOne(ctx, squirrel.Eq{"id": id})
}

func (r *TaskRepo) GetByNotionID(ctx context.Context, notionID string) (model.Task, error) {
	return r.getOne(ctx, squirrel.Eq{"notion_id": notionID})
}

func (r *TaskRepo) getOne(ctx context.Context, where squirrel.Eq) (model.Task, error) {
	query, args, err := r.sq.Select(taskColumns...).From(r.table).Where(where).Limit(1).ToSql()
	if err != nil {
		return model.Task{}, err
	}

	t, err := scanTask(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return t, ErrorNotFound
	}
	return t, err
}

// List returns tasks newest-created first.
func (r *TaskRepo) List(ctx context.Context, limit int) ([]model.Task, error) {
	return r.query(ctx, r.sq.Select(taskColumns...).From(r.table).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)))
}

func (r *TaskRepo) ListByIDs(ctx context.Context, ids []string, limit int) ([]model.Task, error) {
	if len(ids) == 0 {
		return []model.Task{}, nil
	}
	return r.query(ctx, r.sq.Select(taskColumns...).From(r.table).
		Where(squirrel.Eq{"id": ids}).
		Limit(uint64(limit)))
}

// ListUnsynced returns tasks that have never been pushed to Notion, oldest first.
func (r *TaskRepo) ListUnsynced(ctx context.Context, limit int) ([]model.Task, error) {
	return r.query(ctx, r.sq.Select(taskColumns...).From(r.table).
		Where(squirrel.Or{squirrel.Eq{"notion_id": nil}, squirrel.Eq{"notion_id": ""}}).
		OrderBy("created_at", "id").
		Limit(uint64(limit)))
}

func (r *TaskRepo) query(ctx context.Context, b squirrel.SelectBuilder) ([]model.Task, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := make([]model.Task, 0)
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

// UpdateFields sets the given columns and stamps updated_at; returns the matched row count.
func (r *TaskRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) (int64, error) {
	return r.update(ctx, squirrel.Eq{"id": id}, fields)
}

func (r *TaskRepo) SetNotionID(ctx context.Context, id, notionID string) error {
	n, err := r.UpdateFields(ctx, id, map[string]any{"notion_id": notionID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrorNotFound
	}
	return nil
}

func (r *TaskRepo) update(ctx context.Context, where squirrel.Eq, fields map[string]any) (int64, error) {
	query, args, err := r.sq.Update(r.table).
		SetMap(fields).
		Set("updated_at", squirrel.Expr("now()")).
		Where(where).
		ToSql()
	if err != nil {
		return 0, err
	}

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, r.mapError(err)
	}
	return cmd.RowsAffected(), nil
}

func (r *TaskRepo) Delete(ctx context.Context, id string) (int64, error) {
	query, args, err := r.sq.Delete(r.table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return 0, err
	}

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *TaskRepo) GetStats(ctx context.Context) (model.SyncStats, error) {
	var s model.SyncStats
	err := r.pool.QueryRow(ctx, `
		SELECT count(*),
		       count(*) FILTER (WHERE notion_id IS NOT NULL AND notion_id <> '')
		FROM `+r.table).Scan(&s.TotalTasks, &s.SyncedTasks)
	return s, err
}

func (r *TaskRepo) mapError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" { // unique_violation: notion_id уже привязан
			return ErrorConflict
		}
	}
	return err
}

func scanTask(row pgx.Row) (model.Task, error) {
	var t model.Task
	err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.Status, &t.Priority,
		&t.DueDate, &t.NotionID, &t.CreatedAt, &t.UpdatedAt,
	)
	return t, err
}
