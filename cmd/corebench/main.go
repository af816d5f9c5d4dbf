// cmd/corebench/main.go
package main

import (
	cmd "github.com/mwiater/corebench/internal/cli"
)

var executeCmd = cmd.Execute

// main starts the corebench CLI application by delegating to the cobra root
// command defined in the corebench package.
func main() {
	executeCmd()
}
