// load-release-artifacts fetches the bundle for the current release and
// extracts it into the destination directory. The storage key that was
// actually loaded is printed on stdout as
// STATIC_ARTIFACTS_LOADED_FROM_KEY=<key> so callers can record it.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jasoet/go-release-artifacts/artifacts"
)

const defaultDestDir = "static-artifacts"

func main() {
	destDir := defaultDestDir
	switch len(os.Args) {
	case 1:
	case 2:
		destDir = os.Args[1]
	default:
		log.Fatalf("usage: %s [dest-dir]", os.Args[0])
	}

	env := artifacts.CaptureEnv(artifacts.DefaultMetadataDir)
	key, err := artifacts.Load(context.Background(), env, destDir)
	if err != nil {
		log.Fatalf("load-release-artifacts failed: %v", err)
	}
	fmt.Printf("STATIC_ARTIFACTS_LOADED_FROM_KEY=%s\n", key)
}
