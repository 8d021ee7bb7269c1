// Package repomanager hands out repositories bound to either the pool or a
// running transaction, and applies the schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/memodo/internal/dbx"
	"github.com/dmitrijs2005/memodo/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/memodo/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
}
