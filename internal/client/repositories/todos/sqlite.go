package todos

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/memodo/internal/client/models"
	"github.com/dmitrijs2005/memodo/internal/client/repositories/sortorder"
	"github.com/dmitrijs2005/memodo/internal/common"
	"github.com/dmitrijs2005/memodo/internal/dbx"
)

const table = "todos"

type SQLiteRepository struct {
	db  dbx.DB
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.Todo, error) {
	query := `SELECT id, content, completed, sort_order, created_at, updated_at FROM todos ` + sortorder.OrderBy
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, sortorder.Wrap("list failed", err)
	}
	defer rows.Close()

	result := []models.Todo{}
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, sortorder.Wrap("list failed", err)
		}
		result = append(result, *item)
	}

	if err := rows.Err(); err != nil {
		return nil, sortorder.Wrap("list failed", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, content string) (*models.Todo, error) {
	if strings.TrimSpace(content) == "" {
		return nil, common.ErrEmptyContent
	}

	now := r.now().UTC()
	query := `INSERT INTO todos (content, completed, sort_order, created_at)
		VALUES (?, 0, ` + sortorder.Next(table, nil) + `, ?)
		RETURNING id, sort_order`

	todo := &models.Todo{Content: content, CreatedAt: sortorder.Decode(sortorder.Encode(now))}
	if err := r.db.QueryRowContext(ctx, query, content, sortorder.Encode(now)).Scan(&todo.ID, &todo.SortOrder); err != nil {
		return nil, sortorder.Wrap("create failed", err)
	}

	return todo, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.Todo, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, content, completed, sort_order, created_at, updated_at FROM todos WHERE id = ?`, id)

	todo, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("todo %d: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, sortorder.Wrap("get failed", err)
	}

	return todo, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id int64, patch models.TodoPatch) error {
	if patch.Empty() {
		return common.ErrNoOp
	}

	sets := []string{}
	args := []any{}

	if patch.Content != nil {
		if strings.TrimSpace(*patch.Content) == "" {
			return common.ErrEmptyContent
		}
		sets = append(sets, "content = ?")
		args = append(args, *patch.Content)
	}
	if patch.Completed != nil {
		sets = append(sets, "completed = ?")
		args = append(args, *patch.Completed)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, sortorder.Encode(r.now()), id)

	query := `UPDATE todos SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return sortorder.Wrap("update failed", err)
	}

	return expectOne(res, id, "update failed")
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = ?`, id)
	if err != nil {
		return sortorder.Wrap("delete failed", err)
	}

	return expectOne(res, id, "delete failed")
}

func (r *SQLiteRepository) Reorder(ctx context.Context, ids []int64) error {
	return sortorder.Reorder(ctx, r.db, table, ids, r.now(), nil)
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Todo, error) {
	var (
		t       models.Todo
		created int64
		updated sql.NullInt64
	)
	if err := s.Scan(&t.ID, &t.Content, &t.Completed, &t.SortOrder, &created, &updated); err != nil {
		return nil, err
	}
	t.CreatedAt = sortorder.Decode(created)
	t.UpdatedAt = sortorder.DecodeNull(updated)
	return &t, nil
}

func expectOne(res sql.Result, id int64, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return sortorder.Wrap(op, err)
	}
	if n == 0 {
		return fmt.Errorf("todo %d: %w", id, common.ErrorNotFound)
	}
	return nil
}
