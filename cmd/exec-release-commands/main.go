// exec-release-commands runs the command sequence recorded in
// release-commands.toml during the build.
package main

import (
	"context"
	"log"
	"os"

	"github.com/jasoet/go-release-artifacts/commands"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <config-dir>", os.Args[0])
	}

	cfg, err := commands.ReadConfig(os.Args[1])
	if err != nil {
		log.Fatalf("exec-release-commands failed: %v", err)
	}
	if err := commands.ExecSequence(context.Background(), cfg); err != nil {
		log.Fatalf("exec-release-commands failed: %v", err)
	}
}
