// save-release-artifacts archives a directory and stores it in the
// configured release artifact store.
package main

import (
	"context"
	"log"
	"os"

	"github.com/jasoet/go-release-artifacts/artifacts"
)

func main() {
	if len(os.Args) != 2 {
		log.Fatalf("usage: %s <source-dir>", os.Args[0])
	}

	env := artifacts.CaptureEnv("")
	if err := artifacts.Save(context.Background(), env, os.Args[1]); err != nil {
		log.Fatalf("save-release-artifacts failed: %v", err)
	}
}
