package main

import (
	"context"
	"log"

	"taskhive/internal/app/bootstrap"
)

// User service entrypoint: signup/signin, token minting, profile lookups.
func main() {
	app, err := bootstrap.BuildUserService()
	if err != nil {
		log.Fatalf("bootstrap user service failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("user service shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("user service stopped with error: %v", err)
	}
}
