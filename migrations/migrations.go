// Package migrations ships the schema for both storage backends embedded in
// the binary, so the embedded database file can be created on first use
// without any files on disk next to the executable.
package migrations

import "embed"

//go:embed sqlite/*.sql postgres/*.sql
var FS embed.FS
