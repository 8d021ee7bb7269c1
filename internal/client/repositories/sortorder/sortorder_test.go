package sortorder

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/memodo/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNext(t *testing.T) {
	assert.Equal(t, "(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM todos)", Next("todos", nil))
	assert.Equal(t,
		"(SELECT COALESCE(MAX(sort_order), 0) + 1 FROM memos WHERE note_id = ?)",
		Next("memos", &Scope{Column: "note_id", Value: int64(3)}))
}

func TestBuildReorder(t *testing.T) {
	q, args := BuildReorder("todos", []int64{7, 3, 5}, 99, nil)

	assert.Equal(t,
		"UPDATE todos SET sort_order = CASE id WHEN ? THEN ? WHEN ? THEN ? WHEN ? THEN ? END, updated_at = ? WHERE id IN (?, ?, ?)",
		q)
	assert.Equal(t, []any{
		int64(7), int64(1), int64(3), int64(2), int64(5), int64(3),
		int64(99),
		int64(7), int64(3), int64(5),
	}, args)
}

func TestBuildReorder_Scoped(t *testing.T) {
	q, args := BuildReorder("memos", []int64{2}, 1, &Scope{Column: "note_id", Value: int64(4)})

	assert.Equal(t,
		"UPDATE memos SET sort_order = CASE id WHEN ? THEN ? END, updated_at = ? WHERE id IN (?) AND note_id = ?",
		q)
	assert.Equal(t, []any{int64(2), int64(1), int64(1), int64(2), int64(4)}, args)
}

func TestEncodeDecode(t *testing.T) {
	ts := time.Date(2024, 5, 6, 7, 8, 9, 123456789, time.FixedZone("X", 3600))

	got := Decode(Encode(ts))
	assert.True(t, ts.Equal(got))
	assert.Equal(t, time.UTC, got.Location())

	assert.Nil(t, DecodeNull(sql.NullInt64{}))
	p := DecodeNull(sql.NullInt64{Int64: Encode(ts), Valid: true})
	require.NotNil(t, p)
	assert.True(t, ts.Equal(*p))
}

func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func TestReorder_EmptyIsNoOp(t *testing.T) {
	db, mock := newMock(t)

	require.NoError(t, Reorder(context.Background(), db, "todos", nil, time.Now(), nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReorder_DuplicateIDs(t *testing.T) {
	db, mock := newMock(t)

	err := Reorder(context.Background(), db, "todos", []int64{1, 2, 1}, time.Now(), nil)
	require.ErrorIs(t, err, common.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReorder_Commit(t *testing.T) {
	db, mock := newMock(t)
	now := time.Unix(0, 42)
	q, _ := BuildReorder("todos", []int64{2, 1}, 42, nil)

	mock.ExpectBegin()
	mock.ExpectExec(q).
		WithArgs(int64(2), int64(1), int64(1), int64(2), int64(42), int64(2), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, Reorder(context.Background(), db, "todos", []int64{2, 1}, now, nil))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReorder_PartialRollsBack(t *testing.T) {
	db, mock := newMock(t)
	q, _ := BuildReorder("todos", []int64{2, 9}, 1, nil)

	mock.ExpectBegin()
	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectRollback()

	err := Reorder(context.Background(), db, "todos", []int64{2, 9}, time.Unix(0, 1), nil)
	require.ErrorIs(t, err, common.ErrPartialReorder)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReorder_ExecErrorRollsBack(t *testing.T) {
	db, mock := newMock(t)
	q, _ := BuildReorder("todos", []int64{1}, 1, nil)
	boom := errors.New("disk I/O error")

	mock.ExpectBegin()
	mock.ExpectExec(q).WillReturnError(boom)
	mock.ExpectRollback()

	err := Reorder(context.Background(), db, "todos", []int64{1}, time.Unix(0, 1), nil)
	require.ErrorIs(t, err, common.ErrPersistence)
	require.ErrorIs(t, err, boom)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReorder_BeginError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectBegin().WillReturnError(errors.New("locked"))

	err := Reorder(context.Background(), db, "todos", []int64{1}, time.Now(), nil)
	require.ErrorIs(t, err, common.ErrPersistence)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestReorder_CommitError(t *testing.T) {
	db, mock := newMock(t)
	q, _ := BuildReorder("todos", []int64{1}, 1, nil)

	mock.ExpectBegin()
	mock.ExpectExec(q).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit().WillReturnError(errors.New("busy"))

	err := Reorder(context.Background(), db, "todos", []int64{1}, time.Unix(0, 1), nil)
	require.ErrorIs(t, err, common.ErrPersistence)
	require.NoError(t, mock.ExpectationsWereMet())
}
