// Package ordering keeps a displayed, ordered collection in step with its
// durable order. Reorders are applied to memory first and persisted
// afterwards; a failed or timed-out write is undone by reloading the
// collection from the store.
package ordering

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/memodo/internal/logging"
)

// DefaultTimeout bounds a single reorder write and the refetch after it.
const DefaultTimeout = 5 * time.Second

// ErrGestureInProgress is returned when a drag starts while the previous
// one has not settled.
var ErrGestureInProgress = errors.New("reorder already in progress")

// Source is the durable side of a collection.
type Source[T any] interface {
	ListAll(ctx context.Context) ([]T, error)
	Reorder(ctx context.Context, ids []int64) error
}

// State of the gesture machine.
type State int

const (
	Idle State = iota
	Dragging
	Applied
	Reverting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Applied:
		return "applied"
	case Reverting:
		return "reverting"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Outcome reports what a DragEnd did.
type Outcome struct {
	// Moved is false when the drop was a no-op and nothing was written.
	Moved bool
	// RolledBack is set when the write failed and memory was reloaded.
	RolledBack bool
}

func (o Outcome) Persisted() bool { return o.Moved && !o.RolledBack }

type Option[T any] func(*List[T])

// WithVisible limits dragging to items matching keep. Hidden items keep
// their relative order and trail the visible ones after a move.
func WithVisible[T any](keep func(T) bool) Option[T] {
	return func(l *List[T]) { l.visible = keep }
}

// WithTimeout bounds the reorder write. Zero disables the bound.
func WithTimeout[T any](d time.Duration) Option[T] {
	return func(l *List[T]) { l.timeout = d }
}

func WithLogger[T any](log logging.Logger) Option[T] {
	return func(l *List[T]) { l.log = log }
}

// List owns the displayed sequence of one collection. It is the only
// place that sequence changes.
type List[T any] struct {
	src     Source[T]
	key     func(T) int64
	visible func(T) bool
	timeout time.Duration
	log     logging.Logger

	mu     sync.Mutex
	items  []T
	state  State
	active int64
}

func New[T any](src Source[T], key func(T) int64, opts ...Option[T]) *List[T] {
	l := &List[T]{
		src:     src,
		key:     key,
		visible: func(T) bool { return true },
		timeout: DefaultTimeout,
		log:     logging.Discard(),
	}
	for _, o := range opts {
		o(l)
	}
	return l
}

// Load replaces memory with the store's current order.
func (l *List[T]) Load(ctx context.Context) error {
	items, err := l.src.ListAll(ctx)
	if err != nil {
		return err
	}

	l.mu.Lock()
	l.items = items
	l.mu.Unlock()
	return nil
}

// Items returns a copy of the displayed sequence.
func (l *List[T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]T(nil), l.items...)
}

// Visible returns the draggable subsequence.
func (l *List[T]) Visible() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	v, _ := l.split()
	return v
}

// Hidden returns the items excluded from dragging.
func (l *List[T]) Hidden() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	_, h := l.split()
	return h
}

func (l *List[T]) Find(id int64) (T, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := l.index(l.items, id); i >= 0 {
		return l.items[i], true
	}
	var zero T
	return zero, false
}

func (l *List[T]) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Append adds an item the store has just created.
func (l *List[T]) Append(item T) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, item)
}

// Replace swaps in the confirmed version of an item. It reports whether
// the item was present.
func (l *List[T]) Replace(item T) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(l.items, l.key(item))
	if i < 0 {
		return false
	}
	l.items[i] = item
	return true
}

// Remove drops an item the store has deleted.
func (l *List[T]) Remove(id int64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	i := l.index(l.items, id)
	if i < 0 {
		return false
	}
	l.items = append(l.items[:i:i], l.items[i+1:]...)
	return true
}

// BeginDrag marks id as picked up.
func (l *List[T]) BeginDrag(id int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != Idle {
		return ErrGestureInProgress
	}
	l.state = Dragging
	l.active = id
	return nil
}

// CancelDrag drops a pending pickup without moving anything.
func (l *List[T]) CancelDrag() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == Dragging {
		l.state = Idle
	}
}

// DragEnd moves activeID to the position of overID within the visible
// subsequence, applies the result to memory and then persists it.
//
// When the write fails the displayed sequence is reloaded from the store
// and the returned error wraps the write failure. If the reload fails as
// well the sequence from before the drag is restored.
func (l *List[T]) DragEnd(ctx context.Context, activeID, overID int64) (Outcome, error) {
	l.mu.Lock()
	if l.state == Applied || l.state == Reverting {
		l.mu.Unlock()
		return Outcome{}, ErrGestureInProgress
	}
	if l.state == Dragging && l.active != activeID {
		l.mu.Unlock()
		return Outcome{}, ErrGestureInProgress
	}

	visible, hidden := l.split()
	from, to := l.index(visible, activeID), l.index(visible, overID)
	if activeID == overID || from < 0 || to < 0 {
		l.state = Idle
		l.mu.Unlock()
		return Outcome{}, nil
	}

	snapshot := l.items
	combined := append(Move(visible, from, to), hidden...)
	l.items = combined
	l.state = Applied
	l.mu.Unlock()

	ids := make([]int64, len(combined))
	for i, it := range combined {
		ids[i] = l.key(it)
	}

	err := l.persist(ctx, ids)

	if err == nil {
		l.mu.Lock()
		l.state = Idle
		l.mu.Unlock()
		return Outcome{Moved: true}, nil
	}

	l.mu.Lock()
	l.state = Reverting
	l.mu.Unlock()

	l.log.Warn(ctx, "reorder failed, reloading", "active", activeID, "over", overID, "error", err)

	rctx, cancel := l.bound(context.WithoutCancel(ctx))
	fresh, ferr := l.src.ListAll(rctx)
	cancel()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.state = Idle

	if ferr != nil {
		l.log.Error(ctx, "reload after failed reorder", "error", ferr)
		l.items = snapshot
		return Outcome{Moved: true, RolledBack: true},
			fmt.Errorf("reorder rolled back: %w", errors.Join(err, fmt.Errorf("reload: %w", ferr)))
	}

	l.items = fresh
	return Outcome{Moved: true, RolledBack: true}, fmt.Errorf("reorder rolled back: %w", err)
}

func (l *List[T]) persist(ctx context.Context, ids []int64) error {
	ctx, cancel := l.bound(ctx)
	defer cancel()

	if err := l.src.Reorder(ctx, ids); err != nil {
		return err
	}
	// A store that ignores ctx may return after the deadline.
	return ctx.Err()
}

func (l *List[T]) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, l.timeout)
}

// split must be called with mu held.
func (l *List[T]) split() (visible, hidden []T) {
	visible = make([]T, 0, len(l.items))
	for _, it := range l.items {
		if l.visible(it) {
			visible = append(visible, it)
		} else {
			hidden = append(hidden, it)
		}
	}
	return visible, hidden
}

func (l *List[T]) index(items []T, id int64) int {
	for i, it := range items {
		if l.key(it) == id {
			return i
		}
	}
	return -1
}

// Move returns a copy of items with the element at from moved to to.
// The relative order of every other element is unchanged.
func Move[T any](items []T, from, to int) []T {
	out := make([]T, 0, len(items))
	out = append(out, items[:from]...)
	out = append(out, items[from+1:]...)

	moved := items[from]
	out = append(out, moved)
	copy(out[to+1:], out[to:len(out)-1])
	out[to] = moved
	return out
}
