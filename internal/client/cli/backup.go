package cli

import (
	"context"

	"github.com/dmitrijs2005/memodo/internal/client/backup"
)

func (a *App) Backup(ctx context.Context) error {
	if a.backup == nil {
		return backup.ErrDisabled
	}
	key, err := a.backup.Snapshot(ctx, a.db)
	if err != nil {
		return err
	}
	printlnFn("Uploaded", key)
	return nil
}

func (a *App) Backups(ctx context.Context) error {
	if a.backup == nil {
		return backup.ErrDisabled
	}
	list, err := a.backup.List(ctx)
	if err != nil {
		return err
	}
	printlnFn(formatSnapshots(list))
	return nil
}
