package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/memodo/internal/client/ordering"
)

func (a *App) ListTodos(ctx context.Context) error {
	printlnFn(formatTodos(a.todos.Incomplete(), a.todos.Completed()))
	return nil
}

func (a *App) AddTodo(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("add <text>")
	}
	t, err := a.todos.Add(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Added %d.", t.ID))
	return nil
}

func (a *App) ToggleTodo(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, 1, "done <id>")
	if err != nil {
		return err
	}
	t, err := a.todos.Toggle(ctx, ids[0])
	if err != nil {
		return err
	}
	if t.Completed {
		printlnFn(fmt.Sprintf("Completed %d.", t.ID))
	} else {
		printlnFn(fmt.Sprintf("Reopened %d.", t.ID))
	}
	return nil
}

// EditTodo saves the text given inline, or prompts for it with the current
// content shown. An empty answer cancels the edit.
func (a *App) EditTodo(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, 1, "edit <id> [text]")
	if err != nil {
		return err
	}
	id := ids[0]

	text := strings.Join(args[1:], " ")
	if text == "" {
		cur := ""
		for _, t := range append(a.todos.Incomplete(), a.todos.Completed()...) {
			if t.ID == id {
				cur = t.Content
			}
		}
		if err := a.todos.StartEdit(id, cur); err != nil {
			return err
		}
		text, err = getSimpleText(a.reader, fmt.Sprintf("Edit %q (empty to cancel)", cur), os.Stdout)
		if err != nil || strings.TrimSpace(text) == "" {
			a.todos.CancelEdit()
			return err
		}
	} else if err := a.todos.StartEdit(id, text); err != nil {
		return err
	}

	if _, err := a.todos.SaveEdit(ctx, id, text); err != nil {
		a.todos.CancelEdit()
		return err
	}
	printlnFn(fmt.Sprintf("Saved %d.", id))
	return nil
}

func (a *App) RemoveTodo(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, 1, "rm <id>")
	if err != nil {
		return err
	}
	if err := a.todos.Delete(ctx, ids[0]); err != nil {
		return err
	}
	printlnFn(fmt.Sprintf("Deleted %d.", ids[0]))
	return nil
}

func (a *App) MoveTodo(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, 2, "mv <id> <over-id>")
	if err != nil {
		return err
	}
	out, err := a.todos.DragEnd(ctx, ids[0], ids[1])
	reportMove(out, err)
	if err != nil {
		return err
	}
	return a.ListTodos(ctx)
}

func reportMove(out ordering.Outcome, err error) {
	switch {
	case out.RolledBack:
		printlnFn("Reorder was not saved; the list was reloaded.")
	case !out.Moved && err == nil:
		printlnFn("Nothing to move.")
	}
}
