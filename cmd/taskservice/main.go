package main

import (
	"context"
	"log"

	"taskhive/internal/app/bootstrap"
)

// Task service entrypoint: task lifecycle, remote profile checks.
func main() {
	app, err := bootstrap.BuildTaskService()
	if err != nil {
		log.Fatalf("bootstrap task service failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("task service shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("task service stopped with error: %v", err)
	}
}
