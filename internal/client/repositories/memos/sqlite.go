package memos

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

const table = "memos"

const selectColumns = `SELECT id, note_id, content, sort_order, created_at, updated_at FROM memos`

type SQLiteRepository struct {
	db  dbx.DB
	now func() time.Time
}

func NewSQLiteRepository(db dbx.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db, now: time.Now}
}

func scope(noteID int64) *sortorder.Scope {
	return &sortorder.Scope{Column: "note_id", Value: noteID}
}

func (r *SQLiteRepository) ListByNote(ctx context.Context, noteID int64) ([]models.Memo, error) {
	rows, err := r.db.QueryContext(ctx, selectColumns+` WHERE note_id = ? `+sortorder.OrderBy, noteID)
	if err != nil {
		return nil, sortorder.Wrap("list failed", err)
	}
	defer rows.Close()

	result := []models.Memo{}
	for rows.Next() {
		m, err := scan(rows)
		if err != nil {
			return nil, sortorder.Wrap("list failed", err)
		}
		result = append(result, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, sortorder.Wrap("list failed", err)
	}

	return result, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, noteID int64, content string) (*models.Memo, error) {
	if strings.TrimSpace(content) == "" {
		return nil, common.ErrEmptyContent
	}

	now := sortorder.Encode(r.now())
	// No row is inserted when the note is missing, so RETURNING yields nothing.
	query := `INSERT INTO memos (note_id, content, sort_order, created_at)
		SELECT ?, ?, ` + sortorder.Next(table, scope(noteID)) + `, ?
		WHERE EXISTS (SELECT 1 FROM notes WHERE id = ?)
		RETURNING id, sort_order`

	m := &models.Memo{NoteID: noteID, Content: content, CreatedAt: sortorder.Decode(now)}
	err := r.db.QueryRowContext(ctx, query, noteID, content, noteID, now, noteID).Scan(&m.ID, &m.SortOrder)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("note %d: %w", noteID, common.ErrorNotFound)
	}
	if err != nil {
		return nil, sortorder.Wrap("create failed", err)
	}

	return m, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id int64) (*models.Memo, error) {
	m, err := scan(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("memo %d: %w", id, common.ErrorNotFound)
	}
	if err != nil {
		return nil, sortorder.Wrap("get failed", err)
	}
	return m, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, id int64, patch models.MemoPatch) error {
	if patch.Empty() {
		return common.ErrNoOp
	}
	if strings.TrimSpace(*patch.Content) == "" {
		return common.ErrEmptyContent
	}

	res, err := r.db.ExecContext(ctx, `UPDATE memos SET content = ?, updated_at = ? WHERE id = ?`,
		*patch.Content, sortorder.Encode(r.now()), id)
	if err != nil {
		return sortorder.Wrap("update failed", err)
	}
	return expectOne(res, id, "update failed")
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM memos WHERE id = ?`, id)
	if err != nil {
		return sortorder.Wrap("delete failed", err)
	}
	return expectOne(res, id, "delete failed")
}

func (r *SQLiteRepository) Reorder(ctx context.Context, noteID int64, ids []int64) error {
	return sortorder.Reorder(ctx, r.db, table, ids, r.now(), scope(noteID))
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (*models.Memo, error) {
	var (
		m       models.Memo
		created int64
		updated sql.NullInt64
	)
	if err := s.Scan(&m.ID, &m.NoteID, &m.Content, &m.SortOrder, &created, &updated); err != nil {
		return nil, err
	}
	m.CreatedAt = sortorder.Decode(created)
	m.UpdatedAt = sortorder.DecodeNull(updated)
	return &m, nil
}

func expectOne(res sql.Result, id int64, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return sortorder.Wrap(op, err)
	}
	if n == 0 {
		return fmt.Errorf("memo %d: %w", id, common.ErrorNotFound)
	}
	return nil
}

// ForNote adapts repo to a single note's memo collection.
func ForNote(repo Repository, noteID int64) *NoteMemos {
	return &NoteMemos{repo: repo, noteID: noteID}
}

// NoteMemos is the memo collection of one note.
type NoteMemos struct {
	repo   Repository
	noteID int64
}

func (n *NoteMemos) NoteID() int64 { return n.noteID }

func (n *NoteMemos) ListAll(ctx context.Context) ([]models.Memo, error) {
	return n.repo.ListByNote(ctx, n.noteID)
}

func (n *NoteMemos) Reorder(ctx context.Context, ids []int64) error {
	return n.repo.Reorder(ctx, n.noteID, ids)
}
