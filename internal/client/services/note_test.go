package services

import (
	"context"
	"testing"
	"time"

	"github.com/dmitrijs2005/memodo/internal/client/lockgate"
	"github.com/dmitrijs2005/memodo/internal/client/models"
	"github.com/dmitrijs2005/memodo/internal/client/repositories/memos"
	"github.com/dmitrijs2005/memodo/internal/client/repositories/notes"
	"github.com/dmitrijs2005/memodo/internal/client/repositories/repotest"
	"github.com/dmitrijs2005/memodo/internal/common"
	"github.com/dmitrijs2005/memodo/internal/cryptox"
	"github.com/dmitrijs2005/memodo/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func titles(items []models.Note) []string {
	out := make([]string, len(items))
	for i, n := range items {
		out[i] = n.Title
	}
	return out
}

func memoTexts(items []models.Memo) []string {
	out := make([]string, len(items))
	for i, m := range items {
		out[i] = m.Content
	}
	return out
}

func newNoteService(t *testing.T) (*NoteService, *memos.SQLiteRepository) {
	t.Helper()
	db := repotest.OpenDB(t)
	nr := notes.NewSQLiteRepository(db)
	mr := memos.NewSQLiteRepository(db)
	gate := lockgate.New(nr, cryptox.Argon2Hasher{})
	s := NewNoteService(nr, mr, gate, logging.Discard(), time.Second)
	require.NoError(t, s.Load(context.Background()))
	return s, mr
}

func TestNoteService_CreateRenameReorder(t *testing.T) {
	s, _ := newNoteService(t)
	ctx := context.Background()

	_, err := s.Create(ctx, "")
	require.ErrorIs(t, err, common.ErrValidation)

	a, err := s.Create(ctx, "Alpha")
	require.NoError(t, err)
	b, err := s.Create(ctx, "Beta")
	require.NoError(t, err)

	_, err = s.Rename(ctx, a.ID, "Alef")
	require.NoError(t, err)
	assert.Equal(t, []string{"Alef", "Beta"}, titles(s.Notes()))

	_, err = s.DragEnd(ctx, b.ID, a.ID)
	require.NoError(t, err)
	require.NoError(t, s.Load(ctx))
	assert.Equal(t, []string{"Beta", "Alef"}, titles(s.Notes()))
}

func TestNoteService_LockScenario(t *testing.T) {
	s, _ := newNoteService(t)
	ctx := context.Background()
	n, err := s.Create(ctx, "N")
	require.NoError(t, err)

	_, err = s.SetLock(ctx, n.ID, true, "pw12", "pw13")
	require.ErrorIs(t, err, common.ErrPasswordMismatch)
	_, err = s.SetLock(ctx, n.ID, true, "pw1", "pw1")
	require.ErrorIs(t, err, common.ErrPasswordTooShort)

	locked, err := s.SetLock(ctx, n.ID, true, "pw12", "pw12")
	require.NoError(t, err)
	assert.True(t, locked.IsLocked)
	assert.True(t, s.Notes()[0].IsLocked)

	ok, err := s.CheckPassword(ctx, n.ID, "pw12")
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = s.SetLock(ctx, n.ID, false, "wrong", "")
	require.ErrorIs(t, err, common.ErrIncorrectPassword)
	assert.True(t, s.Notes()[0].IsLocked)
}

func TestNoteService_OpenLockedNoteOncePerSession(t *testing.T) {
	s, _ := newNoteService(t)
	ctx := context.Background()
	n, _ := s.Create(ctx, "Secret")
	_, err := s.SetLock(ctx, n.ID, true, "abcd", "abcd")
	require.NoError(t, err)

	need, err := s.NeedsPassword(n.ID)
	require.NoError(t, err)
	assert.True(t, need)

	_, err = s.Open(ctx, n.ID, "nope")
	require.ErrorIs(t, err, common.ErrIncorrectPassword)

	board, err := s.Open(ctx, n.ID, "abcd")
	require.NoError(t, err)
	need, _ = s.NeedsPassword(n.ID)
	assert.False(t, need)

	again, err := s.Open(ctx, n.ID, "")
	require.NoError(t, err)
	assert.Equal(t, n.ID, again.Note().ID)

	board.Close()
	need, _ = s.NeedsPassword(n.ID)
	assert.True(t, need)

	_, err = s.NeedsPassword(404)
	require.ErrorIs(t, err, common.ErrorNotFound)
}

func TestMemoBoard_Lifecycle(t *testing.T) {
	s, mr := newNoteService(t)
	ctx := context.Background()
	n, _ := s.Create(ctx, "N")
	other, _ := s.Create(ctx, "Other")

	b, err := s.Open(ctx, n.ID, "")
	require.NoError(t, err)
	assert.Empty(t, b.Memos())

	_, err = b.Add(ctx, " ")
	require.ErrorIs(t, err, common.ErrValidation)

	m1, err := b.Add(ctx, "one")
	require.NoError(t, err)
	m2, err := b.Add(ctx, "two")
	require.NoError(t, err)
	m3, err := b.Add(ctx, "three")
	require.NoError(t, err)

	out, err := b.DragEnd(ctx, m3.ID, m1.ID)
	require.NoError(t, err)
	assert.True(t, out.Persisted())
	assert.Equal(t, []string{"three", "one", "two"}, memoTexts(b.Memos()))

	_, err = b.Edit(ctx, m2.ID, "TWO")
	require.NoError(t, err)
	require.NoError(t, b.Delete(ctx, m1.ID))
	assert.Equal(t, []string{"three", "TWO"}, memoTexts(b.Memos()))

	durable, err := mr.ListByNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "TWO"}, memoTexts(durable))

	foreign, err := mr.Create(ctx, other.ID, "foreign")
	require.NoError(t, err)
	_, err = b.Edit(ctx, foreign.ID, "hijack")
	require.ErrorIs(t, err, common.ErrorNotFound)
	require.ErrorIs(t, b.Delete(ctx, foreign.ID), common.ErrorNotFound)
}

func TestNoteService_DeleteCascades(t *testing.T) {
	s, mr := newNoteService(t)
	ctx := context.Background()
	n, _ := s.Create(ctx, "N")

	b, err := s.Open(ctx, n.ID, "")
	require.NoError(t, err)
	_, err = b.Add(ctx, "a")
	require.NoError(t, err)
	_, err = b.Add(ctx, "b")
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, n.ID))
	assert.Empty(t, s.Notes())

	left, err := mr.ListByNote(ctx, n.ID)
	require.NoError(t, err)
	assert.Empty(t, left)

	require.ErrorIs(t, s.Delete(ctx, n.ID), common.ErrorNotFound)
}
