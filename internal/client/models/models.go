// Package models defines the records kept in the local store: todos, notes
// and the memos that belong to a note.
package models

import "time"

// Todo is a single task of the task list.
type Todo struct {
	ID        int64
	Content   string
	Completed bool
	SortOrder int64
	CreatedAt time.Time
	// UpdatedAt is nil until the first update or reorder.
	UpdatedAt *time.Time
}

// Note groups memos and may be protected by a lock password.
type Note struct {
	ID    int64
	Title string
	// IsLocked notes always carry a non-empty Password. Unlocked notes are
	// returned with an empty one.
	IsLocked  bool
	Password  string
	SortOrder int64
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// Memo is an entry inside a note. NoteID scopes ordering.
type Memo struct {
	ID        int64
	NoteID    int64
	Content   string
	SortOrder int64
	CreatedAt time.Time
	UpdatedAt *time.Time
}

// NewNote carries the fields accepted when a note is created.
type NewNote struct {
	Title    string
	IsLocked bool
	// Password is the value to store, already hashed by the caller.
	Password string
}

// TodoPatch lists the todo fields to change. Nil fields are left alone.
type TodoPatch struct {
	Content   *string
	Completed *bool
}

func (p TodoPatch) Empty() bool { return p.Content == nil && p.Completed == nil }

// NotePatch lists the note fields to change. Setting IsLocked to false
// clears the stored password.
type NotePatch struct {
	Title    *string
	IsLocked *bool
	Password *string
}

func (p NotePatch) Empty() bool { return p.Title == nil && p.IsLocked == nil && p.Password == nil }

// MemoPatch lists the memo fields to change.
type MemoPatch struct {
	Content *string
}

func (p MemoPatch) Empty() bool { return p.Content == nil }

// Ptr returns a pointer to v. Handy for building patches.
func Ptr[T any](v T) *T { return &v }
