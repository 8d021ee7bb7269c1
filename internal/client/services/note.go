package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/memodo/internal/client/lockgate"
	"github.com/dmitrijs2005/memodo/internal/client/models"
	"github.com/dmitrijs2005/memodo/internal/client/ordering"
	"github.com/dmitrijs2005/memodo/internal/client/repositories/memos"
	"github.com/dmitrijs2005/memodo/internal/client/repositories/notes"
	"github.com/dmitrijs2005/memodo/internal/common"
	"github.com/dmitrijs2005/memodo/internal/logging"
)

// NoteService owns the displayed note list and hands out memo boards for
// opened notes.
type NoteService struct {
	notes   notes.Repository
	memos   memos.Repository
	gate    *lockgate.Gate
	list    *ordering.List[models.Note]
	log     logging.Logger
	timeout time.Duration
}

func noteKey(n models.Note) int64 { return n.ID }

func NewNoteService(nr notes.Repository, mr memos.Repository, gate *lockgate.Gate, l logging.Logger, reorderTimeout time.Duration) *NoteService {
	log := l.With("module", "notes")
	return &NoteService{
		notes:   nr,
		memos:   mr,
		gate:    gate,
		log:     log,
		timeout: reorderTimeout,
		list: ordering.New[models.Note](nr, noteKey,
			ordering.WithTimeout[models.Note](reorderTimeout),
			ordering.WithLogger[models.Note](log),
		),
	}
}

func (s *NoteService) Load(ctx context.Context) error {
	if err := s.list.Load(ctx); err != nil {
		s.log.Error(ctx, "load notes", "error", err)
		return err
	}
	return nil
}

func (s *NoteService) Notes() []models.Note { return s.list.Items() }

func (s *NoteService) Create(ctx context.Context, title string) (*models.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, common.ErrEmptyContent
	}

	n, err := s.notes.Create(ctx, models.NewNote{Title: title})
	if err != nil {
		s.log.Error(ctx, "create note", "error", err)
		return nil, err
	}
	s.list.Append(*n)
	return n, nil
}

func (s *NoteService) Rename(ctx context.Context, id int64, title string) (*models.Note, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, common.ErrEmptyContent
	}

	if err := s.notes.Update(ctx, id, models.NotePatch{Title: &title}); err != nil {
		s.log.Error(ctx, "rename note", "id", id, "error", err)
		return nil, err
	}
	return s.refresh(ctx, id)
}

// Delete removes the note and its memos.
func (s *NoteService) Delete(ctx context.Context, id int64) error {
	if err := s.notes.Delete(ctx, id); err != nil {
		s.log.Error(ctx, "delete note", "id", id, "error", err)
		return err
	}
	s.list.Remove(id)
	s.gate.Close(id)
	return nil
}

func (s *NoteService) DragEnd(ctx context.Context, active, over int64) (ordering.Outcome, error) {
	return s.list.DragEnd(ctx, active, over)
}

// SetLock locks or unlocks a note. See lockgate.Gate.SetLock.
func (s *NoteService) SetLock(ctx context.Context, id int64, locked bool, password, confirmation string) (*models.Note, error) {
	if err := s.gate.SetLock(ctx, id, locked, password, confirmation); err != nil {
		return nil, err
	}
	return s.refresh(ctx, id)
}

func (s *NoteService) CheckPassword(ctx context.Context, id int64, attempt string) (bool, error) {
	return s.gate.CheckPassword(ctx, id, attempt)
}

// NeedsPassword reports whether opening id will ask for its password.
func (s *NoteService) NeedsPassword(id int64) (bool, error) {
	n, ok := s.list.Find(id)
	if !ok {
		return false, fmt.Errorf("note %d: %w", id, common.ErrorNotFound)
	}
	return s.gate.NeedsPassword(n), nil
}

// Open passes the lock gate and loads the note's memos.
func (s *NoteService) Open(ctx context.Context, id int64, attempt string) (*MemoBoard, error) {
	n, err := s.gate.Open(ctx, id, attempt)
	if err != nil {
		return nil, err
	}

	b := newMemoBoard(*n, s.memos, s.gate, s.log, s.timeout)
	if err := b.load(ctx); err != nil {
		s.gate.Close(id)
		return nil, err
	}
	return b, nil
}

func (s *NoteService) refresh(ctx context.Context, id int64) (*models.Note, error) {
	n, err := s.notes.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.list.Replace(*n)
	return n, nil
}

// MemoBoard is the memo list of one opened note.
type MemoBoard struct {
	note models.Note
	repo memos.Repository
	gate *lockgate.Gate
	list *ordering.List[models.Memo]
	log  logging.Logger
}

func memoKey(m models.Memo) int64 { return m.ID }

func newMemoBoard(n models.Note, repo memos.Repository, gate *lockgate.Gate, l logging.Logger, timeout time.Duration) *MemoBoard {
	log := l.With("module", "memos", "note", n.ID)
	return &MemoBoard{
		note: n,
		repo: repo,
		gate: gate,
		log:  log,
		list: ordering.New[models.Memo](memos.ForNote(repo, n.ID), memoKey,
			ordering.WithTimeout[models.Memo](timeout),
			ordering.WithLogger[models.Memo](log),
		),
	}
}

func (b *MemoBoard) load(ctx context.Context) error {
	if err := b.list.Load(ctx); err != nil {
		b.log.Error(ctx, "load memos", "error", err)
		return err
	}
	return nil
}

func (b *MemoBoard) Note() models.Note { return b.note }

func (b *MemoBoard) Memos() []models.Memo { return b.list.Items() }

func (b *MemoBoard) Add(ctx context.Context, content string) (*models.Memo, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.ErrEmptyContent
	}

	m, err := b.repo.Create(ctx, b.note.ID, content)
	if err != nil {
		b.log.Error(ctx, "create memo", "error", err)
		return nil, err
	}
	b.list.Append(*m)
	return m, nil
}

func (b *MemoBoard) Edit(ctx context.Context, id int64, content string) (*models.Memo, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, common.ErrEmptyContent
	}
	if _, ok := b.list.Find(id); !ok {
		return nil, fmt.Errorf("memo %d: %w", id, common.ErrorNotFound)
	}

	if err := b.repo.Update(ctx, id, models.MemoPatch{Content: &content}); err != nil {
		b.log.Error(ctx, "edit memo", "id", id, "error", err)
		return nil, err
	}

	m, err := b.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	b.list.Replace(*m)
	return m, nil
}

func (b *MemoBoard) Delete(ctx context.Context, id int64) error {
	if _, ok := b.list.Find(id); !ok {
		return fmt.Errorf("memo %d: %w", id, common.ErrorNotFound)
	}
	if err := b.repo.Delete(ctx, id); err != nil {
		b.log.Error(ctx, "delete memo", "id", id, "error", err)
		return err
	}
	b.list.Remove(id)
	return nil
}

func (b *MemoBoard) DragEnd(ctx context.Context, active, over int64) (ordering.Outcome, error) {
	return b.list.DragEnd(ctx, active, over)
}

// Close leaves the note; a locked note asks for its password again.
func (b *MemoBoard) Close() {
	b.gate.Close(b.note.ID)
}
