// Package migrations embeds the SQL schema files into the server binary.
package migrations

import "embed"

//go:embed *.sql
var Files embed.FS
