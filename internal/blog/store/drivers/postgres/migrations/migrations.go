// Package migrations embeds the postgres schema migrations. Kept column-for
// -column compatible with the sqlite driver's schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
