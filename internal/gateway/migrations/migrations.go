// Package migrations embeds the gateway schema applied by goose.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
