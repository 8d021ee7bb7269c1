package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/memodo/internal/client/backup"
	"github.com/dmitrijs2005/memodo/internal/client/models"
)

func formatTodos(incomplete, completed []models.Todo) string {
	if len(incomplete)+len(completed) == 0 {
		return "No todos yet."
	}

	var b strings.Builder
	for _, t := range incomplete {
		fmt.Fprintf(&b, "  [ ] %d  %s\n", t.ID, t.Content)
	}
	if len(completed) > 0 {
		fmt.Fprintf(&b, "Completed (%d)\n", len(completed))
		for _, t := range completed {
			fmt.Fprintf(&b, "  [x] %d  %s\n", t.ID, t.Content)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatNotes(items []models.Note) string {
	if len(items) == 0 {
		return "No notes yet."
	}

	var b strings.Builder
	for _, n := range items {
		lock := " "
		if n.IsLocked {
			lock = "*"
		}
		fmt.Fprintf(&b, "  %s %d  %s\n", lock, n.ID, n.Title)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatMemos(note models.Note, items []models.Memo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "== %s ==\n", note.Title)
	if len(items) == 0 {
		b.WriteString("  (no memos)")
		return b.String()
	}
	for _, m := range items {
		fmt.Fprintf(&b, "  %d  %s\n", m.ID, m.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSnapshots(items []backup.Snapshot) string {
	if len(items) == 0 {
		return "No backups."
	}

	var b strings.Builder
	for _, s := range items {
		fmt.Fprintf(&b, "  %s  %8d bytes  %s\n", s.TakenAt.Local().Format(time.DateTime), s.Size, s.Key)
	}
	return strings.TrimRight(b.String(), "\n")
}
