// Package migrations embeds the postgres schema migrations.
package migrations

import "embed"

// FS holds the versioned up/down SQL files
//
//go:embed *.sql
var FS embed.FS
