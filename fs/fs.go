// Package appfs embeds the static files shipped inside the binaries.
package appfs

import "embed"

// FS holds the SQL migrations, one directory per database engine (migrations/mysql, migrations/postgres).
//
//go:embed migrations
var FS embed.FS
