// Package memos stores the memos of each note in SQLite. Every memo
// belongs to exactly one note and is ordered within that note only.
package memos

import (
	"context"

	"github.com/dmitrijs2005/memodo/internal/client/models"
)

type Repository interface {
	// ListByNote returns the memos of noteID in display order.
	ListByNote(ctx context.Context, noteID int64) ([]models.Memo, error)
	Create(ctx context.Context, noteID int64, content string) (*models.Memo, error)
	Get(ctx context.Context, id int64) (*models.Memo, error)
	Update(ctx context.Context, id int64, patch models.MemoPatch) error
	Delete(ctx context.Context, id int64) error

	// Reorder rewrites the order of noteID's memos. Ids of other notes
	// reject the whole batch.
	Reorder(ctx context.Context, noteID int64, ids []int64) error
}
