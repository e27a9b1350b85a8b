// Package scripts holds the Risor scripts bundled with sapling. The CLI
// runs them by name when no script file of that name exists on disk.
package scripts

import "embed"

//go:embed *.risor
var FS embed.FS
