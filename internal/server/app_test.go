package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/memodo/internal/dbx"
	"github.com/dmitrijs2005/memodo/internal/logging"
	"github.com/dmitrijs2005/memodo/internal/server/config"
	"github.com/dmitrijs2005/memodo/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/memodo/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/memodo/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeManager struct {
	migrateErr error
	migrated   bool
}

func (m *fakeManager) RunMigrations(context.Context, *sql.DB) error {
	m.migrated = true
	return m.migrateErr
}

func (m *fakeManager) Users(db dbx.DBTX) users.Repository {
	return repomanager.NewPostgresRepositoryManager().Users(db)
}

func (m *fakeManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return repomanager.NewPostgresRepositoryManager().RefreshTokens(db)
}

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return db, mock
}

func TestNewApp_MigrationError(t *testing.T) {
	db, _ := newMockDB(t)
	defer db.Close()

	m := &fakeManager{migrateErr: errors.New("boom")}
	_, err := newApp(context.Background(), &config.Config{}, db, m, logging.Discard())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "migrations failed: boom")
}

func TestApp_RunAndClose(t *testing.T) {
	db, mock := newMockDB(t)
	mock.ExpectClose()

	cfg := &config.Config{EndpointAddrGRPC: "127.0.0.1:0", SecretKey: "k", RateLimitRPS: 1, RateLimitBurst: 1}
	m := &fakeManager{}
	app, err := newApp(context.Background(), cfg, db, m, logging.Discard())
	require.NoError(t, err)
	assert.True(t, m.migrated)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("app did not stop after cancel")
	}

	require.NoError(t, app.Close())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApp_RunBadAddress(t *testing.T) {
	db, _ := newMockDB(t)
	defer db.Close()

	cfg := &config.Config{EndpointAddrGRPC: "127.0.0.1:99999"}
	app, err := newApp(context.Background(), cfg, db, &fakeManager{}, logging.Discard())
	require.NoError(t, err)

	assert.Error(t, app.Run(context.Background()))
}
