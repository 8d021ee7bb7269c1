// Package notes stores notes and their lock state in SQLite.
package notes

import (
	"context"

	"github.com/dmitrijs2005/memodo/internal/client/models"
)

// Repository describes the persistence operations of the note list.
type Repository interface {
	ListAll(ctx context.Context) ([]models.Note, error)
	Create(ctx context.Context, n models.NewNote) (*models.Note, error)
	Get(ctx context.Context, id int64) (*models.Note, error)
	Update(ctx context.Context, id int64, patch models.NotePatch) error

	// Delete removes the note together with all of its memos.
	Delete(ctx context.Context, id int64) error

	Reorder(ctx context.Context, ids []int64) error
}
