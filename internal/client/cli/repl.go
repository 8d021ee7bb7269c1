package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isAuthenticated() bool

	SignIn(ctx context.Context) error
	SignUp(ctx context.Context) error
	SignOut(ctx context.Context) error

	ListTodos(ctx context.Context) error
	AddTodo(ctx context.Context, args []string) error
	ToggleTodo(ctx context.Context, args []string) error
	EditTodo(ctx context.Context, args []string) error
	RemoveTodo(ctx context.Context, args []string) error
	MoveTodo(ctx context.Context, args []string) error

	ListNotes(ctx context.Context) error
	Note(ctx context.Context, args []string) error
	Memo(ctx context.Context, args []string) error
	CloseNote(ctx context.Context) error

	Backup(ctx context.Context) error
	Backups(ctx context.Context) error
}

const (
	helpSignedOut = "Available commands: signin, signup, exit"
	helpSignedIn  = "Available commands: todos, add, done, edit, rm, mv, notes, note, memo, close, backup, backups, signout, exit"
)

// runREPL reads a line from scanner, parses the first token as the command
// and dispatches to a. Errors returned by handlers are printed and the loop
// continues. It exits on scanner EOF, "exit"/"quit" or when ctx is done.
//
// While sign-in is required and missing only help, signin, signup and exit
// are accepted.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		if ctx.Err() != nil {
			return
		}
		printlnFn(fmt.Sprintf("memodo%s> ", prefixSpace(statusFn())))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd, args := parts[0], parts[1:]

		if cmd == "exit" || cmd == "quit" {
			printlnFn("Bye!")
			return
		}

		report(dispatch(ctx, a, cmd, args))
	}
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) error {
	switch cmd {
	case "help":
		if a.isAuthenticated() {
			printlnFn(helpSignedIn)
		} else {
			printlnFn(helpSignedOut)
		}
		return nil
	case "signin", "login":
		return a.SignIn(ctx)
	case "signup", "register":
		return a.SignUp(ctx)
	}

	if !a.isAuthenticated() {
		printlnFn("Sign in first.", helpSignedOut)
		return nil
	}

	switch cmd {
	case "signout", "logout":
		return a.SignOut(ctx)
	case "todos", "ls", "l":
		return a.ListTodos(ctx)
	case "add":
		return a.AddTodo(ctx, args)
	case "done", "toggle":
		return a.ToggleTodo(ctx, args)
	case "edit":
		return a.EditTodo(ctx, args)
	case "rm":
		return a.RemoveTodo(ctx, args)
	case "mv":
		return a.MoveTodo(ctx, args)
	case "notes":
		return a.ListNotes(ctx)
	case "note":
		return a.Note(ctx, args)
	case "memo":
		return a.Memo(ctx, args)
	case "close":
		return a.CloseNote(ctx)
	case "backup":
		return a.Backup(ctx)
	case "backups":
		return a.Backups(ctx)
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}

func report(err error) {
	if err != nil {
		printlnFn("Error:", err)
	}
}

func prefixSpace(s string) string {
	if s == "" {
		return ""
	}
	return " " + s
}
