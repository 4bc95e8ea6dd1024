// Command starcoin runs the household task and reward server.
package main

import "github.com/dukerupert/starcoin/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
