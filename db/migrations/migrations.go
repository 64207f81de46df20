// Package migrations embeds the goose SQL migrations.
package migrations

import "embed"

// FS holds the Postgres migrations under sql/.
//
//go:embed sql/*.sql
var FS embed.FS

// Dir is the directory inside FS that goose reads.
const Dir = "sql"
