package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/memodo/internal/client/models"
	"github.com/dmitrijs2005/memodo/internal/client/ordering"
	"github.com/dmitrijs2005/memodo/internal/client/repositories/todos"
	"github.com/dmitrijs2005/memodo/internal/common"
	"github.com/dmitrijs2005/memodo/internal/logging"
)

// EditState is the todo currently being edited and its draft text.
type EditState struct {
	ID   int64
	Text string
}

// TodoService owns the displayed task list. Incomplete todos are
// draggable; completed ones trail them.
type TodoService struct {
	repo todos.Repository
	list *ordering.List[models.Todo]
	log  logging.Logger

	mu      sync.Mutex
	editing *EditState
}

func todoKey(t models.Todo) int64 { return t.ID }

func NewTodoService(repo todos.Repository, l logging.Logger, reorderTimeout time.Duration) *TodoService {
	log := l.With("module", "todos")
	return &TodoService{
		repo: repo,
		log:  log,
		list: ordering.New[models.Todo](repo, todoKey,
			ordering.WithVisible(func(t models.Todo) bool { return !t.Completed }),
			ordering.WithTimeout[models.Todo](reorderTimeout),
			ordering.WithLogger[models.Todo](log),
		),
	}
}

func (s *TodoService) Load(ctx context.Context) error {
	if err := s.list.Load(ctx); err != nil {
		s.log.Error(ctx, "load todos", "error", err)
		return err
	}
	return nil
}

// Incomplete returns the draggable part of the list in display order.
func (s *TodoService) Incomplete() []models.Todo { return s.list.Visible() }

// Completed returns the completed todos in display order.
func (s *TodoService) Completed() []models.Todo { return s.list.Hidden() }

func (s *TodoService) Add(ctx context.Context, text string) (*models.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.ErrEmptyContent
	}

	todo, err := s.repo.Create(ctx, text)
	if err != nil {
		s.log.Error(ctx, "create todo", "error", err)
		return nil, err
	}

	s.list.Append(*todo)
	return todo, nil
}

func (s *TodoService) Toggle(ctx context.Context, id int64) (*models.Todo, error) {
	cur, ok := s.list.Find(id)
	if !ok {
		return nil, fmt.Errorf("todo %d: %w", id, common.ErrorNotFound)
	}

	if err := s.repo.Update(ctx, id, models.TodoPatch{Completed: models.Ptr(!cur.Completed)}); err != nil {
		s.log.Error(ctx, "toggle todo", "id", id, "error", err)
		return nil, err
	}
	return s.refresh(ctx, id)
}

// StartEdit opens the editor for id with text as the draft.
func (s *TodoService) StartEdit(id int64, text string) error {
	if _, ok := s.list.Find(id); !ok {
		return fmt.Errorf("todo %d: %w", id, common.ErrorNotFound)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = &EditState{ID: id, Text: text}
	return nil
}

func (s *TodoService) Editing() (EditState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.editing == nil {
		return EditState{}, false
	}
	return *s.editing, true
}

// SaveEdit stores text as the content of id. An empty text is rejected and
// the editor stays open.
func (s *TodoService) SaveEdit(ctx context.Context, id int64, text string) (*models.Todo, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, common.ErrEmptyContent
	}

	if err := s.repo.Update(ctx, id, models.TodoPatch{Content: &text}); err != nil {
		s.log.Error(ctx, "edit todo", "id", id, "error", err)
		return nil, err
	}

	s.CancelEdit()
	return s.refresh(ctx, id)
}

func (s *TodoService) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.editing = nil
}

func (s *TodoService) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Error(ctx, "delete todo", "id", id, "error", err)
		return err
	}

	s.list.Remove(id)

	s.mu.Lock()
	if s.editing != nil && s.editing.ID == id {
		s.editing = nil
	}
	s.mu.Unlock()
	return nil
}

// DragEnd moves active onto the position of over among incomplete todos.
func (s *TodoService) DragEnd(ctx context.Context, active, over int64) (ordering.Outcome, error) {
	return s.list.DragEnd(ctx, active, over)
}

func (s *TodoService) refresh(ctx context.Context, id int64) (*models.Todo, error) {
	todo, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	s.list.Replace(*todo)
	return todo, nil
}
