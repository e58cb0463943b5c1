// release-artifacts-worker serves the artifact activities on a Temporal
// task queue so release orchestration workflows can call them remotely.
package main

import (
	"log"

	"github.com/jasoet/go-release-artifacts/artifacts"
	"github.com/jasoet/pkg/v2/temporal"
	"go.temporal.io/sdk/worker"
)

const taskQueue = "release-artifacts"

func main() {
	c, closer, err := temporal.NewClient(temporal.DefaultConfig())
	if err != nil {
		log.Fatalf("Failed to create Temporal client: %v", err)
	}
	defer func() { _ = closer.Close() }()
	defer c.Close()

	w := worker.New(c, taskQueue, worker.Options{
		MaxConcurrentActivityExecutionSize: 10,
	})

	artifacts.RegisterActivities(w)

	log.Println("Registered activities:")
	log.Println("  - SaveArtifactsActivity")
	log.Println("  - LoadArtifactsActivity")
	log.Println("  - GCArtifactsActivity")
	log.Printf("Worker listening on task queue: %s", taskQueue)

	if err := w.Run(worker.InterruptCh()); err != nil {
		log.Fatalf("Worker failed: %v", err)
	}
}
