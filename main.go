// Command kgcl is the CLI entry point wiring configuration, logging, and
// the engine facade together behind the apply/tick/query/inspect
// subcommands (§6.6).
package main

import (
	"fmt"
	"os"

	"github.com/seanchatmangpt/kgcl/cli"
)

func main() {
	if err := cli.RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
