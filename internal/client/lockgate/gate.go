// Package lockgate guards the memos of a locked note behind its password
// and remembers, for the current session, which notes were opened.
package lockgate

import (
	"context"
	"sync"
	"unicode/utf8"

	"github.com/dmitrijs2005/memodo/internal/client/models"
	"github.com/dmitrijs2005/memodo/internal/common"
	"github.com/dmitrijs2005/memodo/internal/cryptox"
)

// Store is the part of the notes repository the gate needs.
type Store interface {
	Get(ctx context.Context, id int64) (*models.Note, error)
	Update(ctx context.Context, id int64, patch models.NotePatch) error
}

type Gate struct {
	store  Store
	hasher cryptox.PasswordHasher

	mu       sync.Mutex
	unlocked map[int64]struct{}
}

func New(store Store, hasher cryptox.PasswordHasher) *Gate {
	return &Gate{store: store, hasher: hasher, unlocked: map[int64]struct{}{}}
}

// ValidateNewPassword checks a lock password against its confirmation.
// A mismatch is reported before a short password.
func ValidateNewPassword(password, confirmation string) error {
	if password != confirmation {
		return common.ErrPasswordMismatch
	}
	if utf8.RuneCountInString(password) < common.MinLockPasswordLength {
		return common.ErrPasswordTooShort
	}
	return nil
}

// SetLock locks the note with password (which must equal confirmation) or,
// when locked is false, unlocks it if password matches the stored one.
func (g *Gate) SetLock(ctx context.Context, noteID int64, locked bool, password, confirmation string) error {
	if locked {
		if err := ValidateNewPassword(password, confirmation); err != nil {
			return err
		}
	}

	note, err := g.store.Get(ctx, noteID)
	if err != nil {
		return err
	}

	if locked {
		if note.IsLocked {
			return common.ErrAlreadyLocked
		}
		stored, err := g.hasher.Hash(password)
		if err != nil {
			return err
		}
		if err := g.store.Update(ctx, noteID, models.NotePatch{IsLocked: models.Ptr(true), Password: &stored}); err != nil {
			return err
		}
		g.Close(noteID)
		return nil
	}

	if !note.IsLocked {
		return common.ErrNotLocked
	}
	ok, err := g.hasher.Verify(note.Password, password)
	if err != nil {
		return err
	}
	if !ok {
		return common.ErrIncorrectPassword
	}
	if err := g.store.Update(ctx, noteID, models.NotePatch{IsLocked: models.Ptr(false)}); err != nil {
		return err
	}
	g.Close(noteID)
	return nil
}

// CheckPassword compares attempt with the note's stored password. Unlocked
// notes accept any attempt.
func (g *Gate) CheckPassword(ctx context.Context, noteID int64, attempt string) (bool, error) {
	note, err := g.store.Get(ctx, noteID)
	if err != nil {
		return false, err
	}
	if !note.IsLocked {
		return true, nil
	}
	return g.hasher.Verify(note.Password, attempt)
}

// NeedsPassword reports whether opening n must prompt for its password.
func (g *Gate) NeedsPassword(n models.Note) bool {
	if !n.IsLocked {
		return false
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	_, ok := g.unlocked[n.ID]
	return !ok
}

// Open admits the session to the note's memos. A note already opened in
// this session is admitted without checking attempt again.
func (g *Gate) Open(ctx context.Context, noteID int64, attempt string) (*models.Note, error) {
	note, err := g.store.Get(ctx, noteID)
	if err != nil {
		return nil, err
	}
	if !g.NeedsPassword(*note) {
		return note, nil
	}

	ok, err := g.hasher.Verify(note.Password, attempt)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, common.ErrIncorrectPassword
	}

	g.mu.Lock()
	g.unlocked[noteID] = struct{}{}
	g.mu.Unlock()
	return note, nil
}

// Close forgets that noteID was opened.
func (g *Gate) Close(noteID int64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.unlocked, noteID)
}

// Reset forgets every opened note, e.g. on sign-out.
func (g *Gate) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	clear(g.unlocked)
}
