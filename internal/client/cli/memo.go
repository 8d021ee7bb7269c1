package cli

import (
	"context"
	"fmt"
	"strings"
)

// Memo dispatches the "memo" subcommands against the open note.
func (a *App) Memo(ctx context.Context, args []string) error {
	if a.board == nil {
		return errNoOpenNote
	}
	if len(args) == 0 {
		return usageError("memo add|edit|rm|mv|ls ...")
	}
	b := a.board
	sub, rest := args[0], args[1:]

	switch sub {
	case "ls", "list":

	case "add":
		if len(rest) == 0 {
			return usageError("memo add <text>")
		}
		m, err := b.Add(ctx, strings.Join(rest, " "))
		if err != nil {
			return err
		}
		printlnFn(fmt.Sprintf("Added memo %d.", m.ID))
		return nil

	case "edit":
		ids, err := parseIDs(rest, 1, "memo edit <id> <text>")
		if err != nil {
			return err
		}
		if _, err := b.Edit(ctx, ids[0], strings.Join(rest[1:], " ")); err != nil {
			return err
		}

	case "rm":
		ids, err := parseIDs(rest, 1, "memo rm <id>")
		if err != nil {
			return err
		}
		if err := b.Delete(ctx, ids[0]); err != nil {
			return err
		}

	case "mv":
		ids, err := parseIDs(rest, 2, "memo mv <id> <over-id>")
		if err != nil {
			return err
		}
		out, err := b.DragEnd(ctx, ids[0], ids[1])
		reportMove(out, err)
		if err != nil {
			return err
		}

	default:
		printlnFn("Unknown memo command:", sub)
		return nil
	}

	printlnFn(formatMemos(b.Note(), b.Memos()))
	return nil
}
