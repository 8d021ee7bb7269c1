package cli

import (
	"bufio"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/memodo/internal/client/backup"
	"github.com/dmitrijs2005/memodo/internal/client/client"
	"github.com/dmitrijs2005/memodo/internal/client/config"
	"github.com/dmitrijs2005/memodo/internal/client/lockgate"
	"github.com/dmitrijs2005/memodo/internal/client/services"
	"github.com/dmitrijs2005/memodo/internal/cryptox"
	"github.com/dmitrijs2005/memodo/internal/logging"
)

type Mode string

const (
	ModeOffline  Mode = "offline"
	ModeOnline   Mode = "online"
	ModeDisabled Mode = "disabled"
)

const pingTimeout = 3 * time.Second

type App struct {
	config *config.Config
	db     *sql.DB
	api    client.Client
	log    logging.Logger

	auth   *services.AuthService
	todos  *services.TodoService
	notes  *services.NoteService
	gate   *lockgate.Gate
	backup *backup.Uploader

	// board is the memo list of the open note, if any.
	board *services.MemoBoard

	reader *bufio.Reader

	modeMu sync.Mutex
	mode   Mode
}

// NewApp opens the local store, loads both lists and connects to the auth
// server when one is configured.
func NewApp(ctx context.Context, c *config.Config, l logging.Logger) (*App, error) {
	hasher, err := cryptox.NewPasswordHasher(c.LockHash)
	if err != nil {
		return nil, err
	}

	var api client.Client
	var grpcClient *client.GRPCClient
	if c.AuthAddr != "" {
		grpcClient, err = client.NewGRPCClient(c.AuthAddr)
		if err != nil {
			return nil, fmt.Errorf("connect auth server: %w", err)
		}
		api = grpcClient
	} else if c.AuthRequired {
		return nil, errors.New("sign-in is required but no auth server address is set")
	}

	var uploader *backup.Uploader
	if c.Backup.Bucket != "" {
		uploader, err = backup.New(ctx, backup.Config{
			Bucket:   c.Backup.Bucket,
			Endpoint: c.Backup.Endpoint,
			Region:   c.Backup.Region,
		})
		if err != nil {
			return nil, err
		}
	}

	db, err := client.InitDatabase(ctx, c.DBPath)
	if err != nil {
		l.Error(ctx, "error initializing database", "path", c.DBPath, "error", err)
		if grpcClient != nil {
			_ = grpcClient.Close()
		}
		return nil, err
	}

	a := newApp(c, db, api, hasher, l)
	a.backup = uploader
	if grpcClient != nil {
		grpcClient.OnRefresh = func(s client.Session) {
			if err := a.auth.SaveTokens(context.Background(), s); err != nil {
				l.Warn(context.Background(), "save rotated tokens", "error", err)
			}
		}
	}

	if err := a.load(ctx); err != nil {
		_ = a.Close()
		return nil, err
	}
	return a, nil
}

func newApp(c *config.Config, db *sql.DB, api client.Client, hasher cryptox.PasswordHasher, l logging.Logger) *App {
	repos := client.NewRepositories(db)
	gate := lockgate.New(repos.Notes, hasher)

	a := &App{
		config: c,
		db:     db,
		api:    api,
		log:    l,
		auth:   services.NewAuthService(api, repos.Metadata, c.AuthRequired, l),
		todos:  services.NewTodoService(repos.Todos, l, c.ReorderTimeout),
		notes:  services.NewNoteService(repos.Notes, repos.Memos, gate, l, c.ReorderTimeout),
		gate:   gate,
		reader: bufio.NewReader(os.Stdin),
		mode:   ModeDisabled,
	}
	return a
}

func (a *App) load(ctx context.Context) error {
	if err := a.todos.Load(ctx); err != nil {
		return err
	}
	return a.notes.Load(ctx)
}

// Run restores a saved session, starts the connectivity watcher and blocks
// in the REPL until the user exits or ctx is done.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	printlnFn("Welcome to memodo (type 'help' for commands)")

	if err := a.auth.Restore(ctx); err != nil {
		a.log.Warn(ctx, "restore session", "error", err)
		printlnFn("Could not restore the saved session:", err)
	}

	if a.api != nil {
		go a.StartOnlineStatusWatcher(ctx, a.config.OnlineCheckInterval)
	}

	if !a.auth.IsAuthenticated() {
		printlnFn("Sign in to continue (signin / signup).")
	}

	runREPL(ctx, a, a.getStatus, bufio.NewScanner(a.reader))
}

func (a *App) Close() error {
	var errs []error
	if a.api != nil {
		errs = append(errs, a.api.Close())
	}
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	return errors.Join(errs...)
}

func (a *App) isAuthenticated() bool { return a.auth.IsAuthenticated() }

func (a *App) setMode(ctx context.Context, mode Mode) {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.log.Info(ctx, "connectivity changed", "mode", mode)
	}
}

func (a *App) Mode() Mode {
	a.modeMu.Lock()
	defer a.modeMu.Unlock()
	return a.mode
}

func (a *App) getStatus() string {
	var parts []string
	if email := a.auth.Email(); email != "" {
		parts = append(parts, email)
	}
	if a.api != nil {
		parts = append(parts, string(a.Mode()))
	}
	if a.board != nil {
		parts = append(parts, "#"+a.board.Note().Title)
	}
	if len(parts) == 0 {
		return ""
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "))
}

// StartOnlineStatusWatcher pings the auth server every interval and tracks
// whether it is reachable.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pctx, cancel := context.WithTimeout(ctx, pingTimeout)
			err := a.api.Ping(pctx)
			cancel()

			if err != nil {
				a.setMode(ctx, ModeOffline)
			} else {
				a.setMode(ctx, ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
