// gc-release-artifacts removes bundles older than the retained set from
// the configured release artifact store.
package main

import (
	"context"
	"log"

	"github.com/jasoet/go-release-artifacts/artifacts"
)

func main() {
	env := artifacts.CaptureEnv(artifacts.DefaultMetadataDir)
	if err := artifacts.GC(context.Background(), env); err != nil {
		log.Fatalf("gc-release-artifacts failed: %v", err)
	}
}
