package client

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/memodo/internal/client/migrations"
	"github.com/dmitrijs2005/memodo/internal/client/repositories/memos"
	"github.com/dmitrijs2005/memodo/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/memodo/internal/client/repositories/notes"
	"github.com/dmitrijs2005/memodo/internal/client/repositories/todos"
	"github.com/dmitrijs2005/memodo/internal/filex"

	_ "modernc.org/sqlite"
)

type Repositories struct {
	Metadata metadata.Repository
	Todos    todos.Repository
	Notes    notes.Repository
	Memos    memos.Repository
}

func NewRepositories(db *sql.DB) *Repositories {
	return &Repositories{
		Metadata: metadata.NewSQLiteRepository(db),
		Todos:    todos.NewSQLiteRepository(db),
		Notes:    notes.NewSQLiteRepository(db),
		Memos:    memos.NewSQLiteRepository(db),
	}
}

func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrations.Up(ctx, db)
}

// InitDatabase opens the SQLite file at dsn on a single connection with
// foreign keys enforced and brings its schema up to date.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	if err := filex.EnsureParentDir(dsn); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, `PRAGMA foreign_keys = ON`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return db, nil
}
