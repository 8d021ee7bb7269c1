package ordering

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

type item struct {
	ID   int64
	Done bool
}

func itemKey(i item) int64 { return i.ID }

// fakeSource keeps a durable order in memory.
type fakeSource struct {
	mu        sync.Mutex
	durable   []item
	reorders  [][]int64
	failNext  error
	failList  error
	onReorder func(ctx context.Context) error
}

func (f *fakeSource) ListAll(context.Context) ([]item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failList != nil {
		return nil, f.failList
	}
	return slices.Clone(f.durable), nil
}

func (f *fakeSource) Reorder(ctx context.Context, ids []int64) error {
	f.mu.Lock()
	f.reorders = append(f.reorders, slices.Clone(ids))
	hook := f.onReorder
	fail := f.failNext
	f.failNext = nil
	f.mu.Unlock()

	if hook != nil {
		if err := hook(ctx); err != nil {
			return err
		}
	}
	if fail != nil {
		return fail
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	byID := map[int64]item{}
	for _, it := range f.durable {
		byID[it.ID] = it
	}
	next := make([]item, 0, len(ids))
	for _, id := range ids {
		next = append(next, byID[id])
	}
	f.durable = next
	return nil
}

func keys(items []item) []int64 {
	out := make([]int64, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func newLoaded(t *testing.T, src *fakeSource, opts ...Option[item]) *List[item] {
	t.Helper()
	l := New[item](src, itemKey, opts...)
	require.NoError(t, l.Load(context.Background()))
	return l
}

const (
	A int64 = 1
	B int64 = 2
	C int64 = 3
)

func TestDragEnd_PersistsThenRejectedReorderRollsBack(t *testing.T) {
	src := &fakeSource{durable: []item{{ID: A}, {ID: B}, {ID: C}}}
	l := newLoaded(t, src)
	ctx := context.Background()

	out, err := l.DragEnd(ctx, C, A)
	require.NoError(t, err)
	assert.True(t, out.Persisted())
	assert.Equal(t, []int64{C, A, B}, keys(l.Items()))
	assert.Equal(t, []int64{C, A, B}, keys(src.durable))

	src.failNext = errors.New("store rejected")
	out, err = l.DragEnd(ctx, A, C)
	require.Error(t, err)
	assert.ErrorContains(t, err, "store rejected")
	assert.True(t, out.Moved)
	assert.True(t, out.RolledBack)
	assert.Equal(t, []int64{A, C, B}, src.reorders[1])
	assert.Equal(t, []int64{C, A, B}, keys(l.Items()))
	assert.Equal(t, Idle, l.State())
}

func TestDragEnd_AppliesBeforeWrite(t *testing.T) {
	src := &fakeSource{durable: []item{{ID: A}, {ID: B}, {ID: C}}}
	l := newLoaded(t, src)

	var seen []int64
	var state State
	src.onReorder = func(context.Context) error {
		seen = keys(l.Items())
		state = l.State()
		return nil
	}

	_, err := l.DragEnd(context.Background(), A, C)
	require.NoError(t, err)
	assert.Equal(t, []int64{B, C, A}, seen)
	assert.Equal(t, Applied, state)
}

func TestDragEnd_NoOps(t *testing.T) {
	src := &fakeSource{durable: []item{{ID: A}, {ID: B, Done: true}}}
	l := newLoaded(t, src, WithVisible(func(i item) bool { return !i.Done }))
	ctx := context.Background()

	for _, tc := range []struct {
		name         string
		active, over int64
	}{
		{"same item", A, A},
		{"unknown active", 99, A},
		{"unknown over", A, 99},
		{"hidden target", A, B},
	} {
		t.Run(tc.name, func(t *testing.T) {
			out, err := l.DragEnd(ctx, tc.active, tc.over)
			require.NoError(t, err)
			assert.False(t, out.Moved)
			assert.False(t, out.Persisted())
		})
	}
	assert.Empty(t, src.reorders)
	assert.Equal(t, []int64{A, B}, keys(l.Items()))
}

func TestDragEnd_HiddenItemsTrailInOrder(t *testing.T) {
	src := &fakeSource{durable: []item{
		{ID: 1}, {ID: 10, Done: true}, {ID: 2}, {ID: 20, Done: true}, {ID: 3},
	}}
	l := newLoaded(t, src, WithVisible(func(i item) bool { return !i.Done }))

	out, err := l.DragEnd(context.Background(), 3, 1)
	require.NoError(t, err)
	assert.True(t, out.Persisted())

	want := []int64{3, 1, 2, 10, 20}
	assert.Equal(t, want, src.reorders[0])
	assert.Equal(t, want, keys(l.Items()))
	assert.Equal(t, []int64{3, 1, 2}, keys(l.Visible()))
	assert.Equal(t, []int64{10, 20}, keys(l.Hidden()))
}

func TestDragEnd_ReloadFailureRestoresSnapshot(t *testing.T) {
	src := &fakeSource{durable: []item{{ID: A}, {ID: B}}}
	l := newLoaded(t, src)

	writeErr := errors.New("write failed")
	readErr := errors.New("read failed")
	src.failNext = writeErr
	src.failList = readErr

	out, err := l.DragEnd(context.Background(), B, A)
	assert.True(t, out.RolledBack)
	require.ErrorIs(t, err, writeErr)
	require.ErrorIs(t, err, readErr)
	assert.Equal(t, []int64{A, B}, keys(l.Items()))
}

func TestDragEnd_TimeoutRollsBack(t *testing.T) {
	src := &fakeSource{durable: []item{{ID: A}, {ID: B}}}
	l := newLoaded(t, src, WithTimeout[item](20*time.Millisecond))

	src.onReorder = func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}

	out, err := l.DragEnd(context.Background(), B, A)
	assert.True(t, out.RolledBack)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []int64{A, B}, keys(l.Items()))
}

func TestDragEnd_SlowStoreIgnoringContextStillRollsBack(t *testing.T) {
	src := &fakeSource{durable: []item{{ID: A}, {ID: B}}}
	l := newLoaded(t, src, WithTimeout[item](10*time.Millisecond))

	src.onReorder = func(context.Context) error {
		time.Sleep(30 * time.Millisecond)
		return nil
	}

	out, err := l.DragEnd(context.Background(), B, A)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.True(t, out.RolledBack)
	// The late write landed, so the reload shows it.
	assert.Equal(t, keys(src.durable), keys(l.Items()))
}

func TestDragEnd_CanceledCallerStillReloads(t *testing.T) {
	src := &fakeSource{durable: []item{{ID: A}, {ID: B}}}
	l := newLoaded(t, src)
	src.onReorder = func(ctx context.Context) error { return ctx.Err() }

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out, err := l.DragEnd(ctx, B, A)
	require.ErrorIs(t, err, context.Canceled)
	assert.True(t, out.RolledBack)
	assert.Equal(t, []int64{A, B}, keys(l.Items()))
}

func TestGestureExclusivity(t *testing.T) {
	src := &fakeSource{durable: []item{{ID: A}, {ID: B}, {ID: C}}}
	l := newLoaded(t, src)
	ctx := context.Background()

	require.NoError(t, l.BeginDrag(A))
	assert.Equal(t, Dragging, l.State())
	assert.ErrorIs(t, l.BeginDrag(B), ErrGestureInProgress)

	_, err := l.DragEnd(ctx, B, C)
	assert.ErrorIs(t, err, ErrGestureInProgress)

	var inner error
	src.onReorder = func(context.Context) error {
		_, inner = l.DragEnd(ctx, B, C)
		return nil
	}
	out, err := l.DragEnd(ctx, A, C)
	require.NoError(t, err)
	assert.True(t, out.Persisted())
	assert.ErrorIs(t, inner, ErrGestureInProgress)
	assert.Equal(t, Idle, l.State())

	require.NoError(t, l.BeginDrag(B))
	l.CancelDrag()
	assert.Equal(t, Idle, l.State())
}

func TestTransitions(t *testing.T) {
	src := &fakeSource{durable: []item{{ID: A}, {ID: B}}}
	l := newLoaded(t, src)

	l.Append(item{ID: C})
	assert.Equal(t, []int64{A, B, C}, keys(l.Items()))

	assert.True(t, l.Replace(item{ID: B, Done: true}))
	got, ok := l.Find(B)
	require.True(t, ok)
	assert.True(t, got.Done)
	assert.False(t, l.Replace(item{ID: 42}))

	assert.True(t, l.Remove(A))
	assert.False(t, l.Remove(A))
	assert.Equal(t, []int64{B, C}, keys(l.Items()))

	_, ok = l.Find(A)
	assert.False(t, ok)
}

func TestLoad_ErrorKeepsMemory(t *testing.T) {
	src := &fakeSource{durable: []item{{ID: A}}}
	l := newLoaded(t, src)

	src.failList = errors.New("list failed")
	require.Error(t, l.Load(context.Background()))
	assert.Equal(t, []int64{A}, keys(l.Items()))
}

func TestMove(t *testing.T) {
	in := []int64{1, 2, 3, 4}

	assert.Equal(t, []int64{3, 1, 2, 4}, Move(in, 2, 0))
	assert.Equal(t, []int64{2, 3, 1, 4}, Move(in, 0, 2))
	assert.Equal(t, []int64{1, 2, 4, 3}, Move(in, 3, 2))
	assert.Equal(t, []int64{1, 2, 3, 4}, Move(in, 1, 1))
	assert.Equal(t, []int64{1, 2, 3, 4}, in)
}

func TestMove_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		in := rapid.SliceOfNDistinct(rapid.Int64(), 1, 20, rapid.ID[int64]).Draw(t, "in")
		from := rapid.IntRange(0, len(in)-1).Draw(t, "from")
		to := rapid.IntRange(0, len(in)-1).Draw(t, "to")

		out := Move(in, from, to)
		require.Len(t, out, len(in))
		require.Equal(t, in[from], out[to])

		rest := slices.Delete(slices.Clone(in), from, from+1)
		restOut := slices.Delete(slices.Clone(out), to, to+1)
		require.Equal(t, rest, restOut)
	})
}

// After a failed write the displayed order equals whatever the store holds.
func TestRollbackMatchesDurable_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(2, 10).Draw(t, "n")
		durable := make([]item, n)
		for i := range durable {
			durable[i] = item{ID: int64(i + 1), Done: i > 1 && rapid.Bool().Draw(t, "done")}
		}
		src := &fakeSource{durable: durable}
		l := New[item](src, itemKey, WithVisible(func(i item) bool { return !i.Done }))
		require.NoError(t, l.Load(context.Background()))

		visible := keys(l.Visible())
		active := rapid.SampledFrom(visible).Draw(t, "active")
		over := rapid.SampledFrom(visible).Draw(t, "over")

		// The failing store may still have changed, e.g. by a concurrent delete.
		dropLast := rapid.Bool().Draw(t, "dropLast")
		src.onReorder = func(context.Context) error {
			if dropLast {
				src.mu.Lock()
				src.durable = src.durable[:len(src.durable)-1]
				src.mu.Unlock()
			}
			return errors.New("rejected")
		}

		out, err := l.DragEnd(context.Background(), active, over)
		if active == over {
			require.NoError(t, err)
			require.False(t, out.Moved)
			return
		}
		require.Error(t, err)
		require.True(t, out.RolledBack)

		want, _ := src.ListAll(context.Background())
		require.Equal(t, want, l.Items())
	})
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "dragging", Dragging.String())
	assert.Equal(t, "applied", Applied.String())
	assert.Equal(t, "reverting", Reverting.String())
	assert.Equal(t, "State(9)", State(9).String())
}
