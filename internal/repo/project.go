package repo

import (
	"context"
	"errors"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/BuzzLyutic/task-sync-api/internal/model"
)

var projectColumns = []string{"id", "name", "description", "tasks", "created_at"}

type ProjectRepo struct {
	pool  *pgxpool.Pool
	table string
	sq    squirrel.StatementBuilderType
}

func NewProjectRepo(pool *pgxpool.Pool, schema string) *ProjectRepo {
	return &ProjectRepo{
		pool:  pool,
		table: qualify(schema, "projects"),
		sq:    squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func (r *ProjectRepo) Create(ctx context.Context, p model.Project) (model.Project, error) {
	if p.Tasks == nil {
		p.Tasks = []string{}
	}

	query, args, err := r.sq.Insert(r.table).
		Columns(projectColumns...).
		Values(p.ID, p.Name, p.Description, p.Tasks, p.CreatedAt).
		Suffix("RETURNING " + columnList(projectColumns)).
		ToSql()
	if err != nil {
		return p, err
	}

	return scanProject(r.pool.QueryRow(ctx, query, args...))
}

func (r *ProjectRepo) Get(ctx context.Context, id string) (model.Project, error) {
	query, args, err := r.sq.Select(projectColumns...).From(r.table).Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return model.Project{}, err
	}

	p, err := scanProject(r.pool.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return p, ErrorNotFound
	}
	return p, err
}

func (r *ProjectRepo) List(ctx context.Context, limit int) ([]model.Project, error) {
	query, args, err := r.sq.Select(projectColumns...).From(r.table).
		OrderBy("created_at DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]model.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func scanProject(row pgx.Row) (model.Project, error) {
	var p model.Project
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Tasks, &p.CreatedAt)
	if p.Tasks == nil {
		p.Tasks = []string{}
	}
	return p, err
}

// qualify builds a schema-qualified, quoted table name.
func qualify(schema, table string) string {
	if schema == "" {
		schema = "public"
	}
	return pgx.Identifier{schema, table}.Sanitize()
}

func columnList(cols []string) string {
	return strings.Join(cols, ", ")
}
