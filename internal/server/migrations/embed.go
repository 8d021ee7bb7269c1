// Package migrations embeds the auth server's PostgreSQL schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
