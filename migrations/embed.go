// Package migrations embeds the goose SQL migrations applied by the server at
// startup, by `vaultctl migrate` and by integration tests.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
