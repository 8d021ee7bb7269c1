package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/memodo/internal/common"
)

var errNoOpenNote = errors.New("no note is open (use: note open <id>)")

func (a *App) ListNotes(ctx context.Context) error {
	printlnFn(formatNotes(a.notes.Notes()))
	return nil
}

// Note dispatches the "note" subcommands.
func (a *App) Note(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return usageError("note add|rename|rm|mv|lock|unlock|open ...")
	}
	sub, rest := args[0], args[1:]

	switch sub {
	case "ls", "list":
		return a.ListNotes(ctx)

	case "add":
		if len(rest) == 0 {
			return usageError("note add <title>")
		}
		n, err := a.notes.Create(ctx, strings.Join(rest, " "))
		if err != nil {
			return err
		}
		printlnFn(fmt.Sprintf("Added note %d.", n.ID))

	case "rename":
		ids, err := parseIDs(rest, 1, "note rename <id> <title>")
		if err != nil {
			return err
		}
		if _, err := a.notes.Rename(ctx, ids[0], strings.Join(rest[1:], " ")); err != nil {
			return err
		}
		printlnFn("Renamed.")

	case "rm":
		ids, err := parseIDs(rest, 1, "note rm <id>")
		if err != nil {
			return err
		}
		if err := a.notes.Delete(ctx, ids[0]); err != nil {
			return err
		}
		if a.board != nil && a.board.Note().ID == ids[0] {
			a.board = nil
		}
		printlnFn(fmt.Sprintf("Deleted note %d and its memos.", ids[0]))

	case "mv":
		ids, err := parseIDs(rest, 2, "note mv <id> <over-id>")
		if err != nil {
			return err
		}
		out, err := a.notes.DragEnd(ctx, ids[0], ids[1])
		reportMove(out, err)
		if err != nil {
			return err
		}
		return a.ListNotes(ctx)

	case "lock":
		return a.lockNote(ctx, rest)

	case "unlock":
		return a.unlockNote(ctx, rest)

	case "open":
		return a.openNote(ctx, rest)

	default:
		printlnFn("Unknown note command:", sub)
	}
	return nil
}

func (a *App) lockNote(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, 1, "note lock <id>")
	if err != nil {
		return err
	}

	pw, err := getPassword("New password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)
	confirm, err := getPassword("Confirm password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if _, err := a.notes.SetLock(ctx, ids[0], true, string(pw), string(confirm)); err != nil {
		return err
	}
	if a.board != nil && a.board.Note().ID == ids[0] {
		a.board = nil
	}
	printlnFn("Note locked.")
	return nil
}

func (a *App) unlockNote(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, 1, "note unlock <id>")
	if err != nil {
		return err
	}

	pw, err := getPassword("Password", os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(pw)

	if _, err := a.notes.SetLock(ctx, ids[0], false, string(pw), ""); err != nil {
		return err
	}
	printlnFn("Note unlocked.")
	return nil
}

// openNote asks for the password of a locked note unless it was already
// opened in this session, then shows its memos.
func (a *App) openNote(ctx context.Context, args []string) error {
	ids, err := parseIDs(args, 1, "note open <id>")
	if err != nil {
		return err
	}
	id := ids[0]

	need, err := a.notes.NeedsPassword(id)
	if err != nil {
		return err
	}

	attempt := ""
	if need {
		pw, err := getPassword("Password", os.Stdout)
		if err != nil {
			return err
		}
		attempt = string(pw)
		common.WipeByteArray(pw)
	}

	board, err := a.notes.Open(ctx, id, attempt)
	if err != nil {
		return err
	}
	if a.board != nil && a.board.Note().ID != id {
		a.board.Close()
	}
	a.board = board
	printlnFn(formatMemos(board.Note(), board.Memos()))
	return nil
}

// CloseNote leaves the open note. A locked note will ask for its password
// next time.
func (a *App) CloseNote(ctx context.Context) error {
	if a.board == nil {
		return errNoOpenNote
	}
	a.board.Close()
	a.board = nil
	return nil
}
