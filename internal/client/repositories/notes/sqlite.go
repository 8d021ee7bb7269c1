package notes

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

const table = "notes"

var errLockedWithoutPassword = fmt.Errorf("%w: locked note requires a password", common.ErrValidation)

const selectColumns = `SELECT id, title, is_locked, password, sort_order, created_at, updated_at FROM notes`

type SQLiteRepository struct {
	db  dbx.DB
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func (r *SQLiteRepository) ListAll(ctx context.Context) ([]models.Note, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` `+sortorder.OrderBy)
	if err != nil {
		return nil, sortorder.Wrap("list failed", err)
	}
	defer rows.Close()

	result := []models.Note{}
	for rows.Next() {
		n, err := scan(rows)
		if err != nil {
			return nil, sortorder.Wrap("list failed", err)
		}
		result = append(result, *n)
	}

	if err := rows.Err(); err != nil {
		return nil, sortorder.Wrap("list failed", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, in models.NewNote) (*models.Note, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, common.ErrEmptyContent
	}
	if in.IsLocked && in.Password == "" {
		return nil, errLockedWithoutPassword
	}

	var password sql.NullString
	if in.IsLocked {
		password = sql.NullString{String: in.Password, Valid: true}
	}

	now := sortorder.Encode(r.now())
	query := `INSERT INTO notes (title, is_locked, password, sort_order, created_at)
		VALUES (?, ?, ?, ` + sortorder.Next(table, nil) + `, ?)
		RETURNING id, sort_order`

	n := &models.Note{
		Title:     in.Title,
		IsLocked:  in.IsLocked,
		Password:  password.String,
		CreatedAt: sortorder.Decode(now),
	}
	if err := r.db.QueryRowContext(ctx, query, in.Title, in.IsLocked, password, now).Scan(&n.ID, &n.SortOrder); err != nil {
		return nil, sortorder.Wrap("create failed", err)
	}

	return n, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.Note, error) {
	n, err := scan(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note %d: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, sortorder.Wrap("get failed", err)
	}
	return n, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id int64, patch models.NotePatch) error {
	if patch.Empty() {
		return common.ErrNoOp
	}

	sets := []string{}
	args := []any{}

	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return common.ErrEmptyContent
		}
		sets = append(sets, "title = ?")
		args = append(args, *patch.Title)
	}

	switch {
	case patch.IsLocked != nil && *patch.IsLocked:
		if patch.Password == nil || *patch.Password == "" {
			return errLockedWithoutPassword
		}
		sets = append(sets, "is_locked = 1", "password = ?")
		args = append(args, *patch.Password)
	case patch.IsLocked != nil:
		sets = append(sets, "is_locked = 0", "password = NULL")
	case patch.Password != nil:
		return fmt.Errorf("%w: password can only change together with the lock", common.ErrValidation)
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, sortorder.Encode(r.now()), id)

	res, err := r.db.ExecContext(ctx, `UPDATE notes SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return sortorder.Wrap("update failed", err)
	}
	return expectOne(res, id, "update failed")
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM memos WHERE note_id = ?`, id); err != nil {
			return sortorder.Wrap("delete memos failed", err)
		}
		res, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
		if err != nil {
			return sortorder.Wrap("delete failed", err)
		}
		return expectOne(res, id, "delete failed")
	})
	if err != nil && !errors.Is(err, common.ErrPersistence) && !errors.Is(err, common.ErrorNotFound) {
		return sortorder.Wrap("delete failed", err)
	}
	return err
}

func (r *SQLiteRepository) Reorder(ctx context.Context, ids []int64) error {
	return sortorder.Reorder(ctx, r.db, table, ids, r.now(), nil)
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Note, error) {
	var (
		n        models.Note
		password sql.NullString
		created  int64
		updated  sql.NullInt64
	)
	if err := s.Scan(&n.ID, &n.Title, &n.IsLocked, &password, &n.SortOrder, &created, &updated); err != nil {
		return nil, err
	}
	if n.IsLocked {
		n.Password = password.String
	}
	n.CreatedAt = sortorder.Decode(created)
	n.UpdatedAt = sortorder.DecodeNull(updated)
	return &n, nil
}

func expectOne(res sql.Result, id int64, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return sortorder.Wrap(op, err)
	}
	if n == 0 {
		return fmt.Errorf("note %d: %w", id, common.ErrorNotFound)
	}
	return nil
}
