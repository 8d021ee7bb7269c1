// Package todos stores the task list in SQLite.
package todos

import (
	"context"

	"github.com/dmitrijs2005/memodo/internal/client/models"
)

// Repository describes the persistence operations of the task list.
type Repository interface {
	// ListAll returns every todo in display order.
	ListAll(ctx context.Context) ([]models.Todo, error)

	// Create appends a todo after the current last one.
	Create(ctx context.Context, content string) (*models.Todo, error)

	Get(ctx context.Context, id int64) (*models.Todo, error)

	// Update applies the non-nil patch fields and stamps updated_at.
	Update(ctx context.Context, id int64, patch models.TodoPatch) error

	Delete(ctx context.Context, id int64) error

	// Reorder assigns position+1 as sort order to each id, atomically.
	Reorder(ctx context.Context, ids []int64) error
}
