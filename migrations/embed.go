// AngelaMos | 2026
// embed.go

package migrations

import "embed"

//go:embed *.sql
var EmbedMigrations embed.FS
