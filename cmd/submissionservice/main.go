package main

import (
	"context"
	"log"

	"taskhive/internal/app/bootstrap"
)

// Submission service entrypoint: submissions, reviews, remote task checks.
func main() {
	app, err := bootstrap.BuildSubmissionService()
	if err != nil {
		log.Fatalf("bootstrap submission service failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("submission service shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("submission service stopped with error: %v", err)
	}
}
