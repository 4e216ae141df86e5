// Package migrations bundles the ward schema into the binary.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
