// Package migrations bundles the SQL schema for both database dialects.
package migrations

import "embed"

// FS holds the sqlite and postgres migration folders
//
//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
