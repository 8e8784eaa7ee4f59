package main

import (
	"context"
	"log"

	"taskhive/internal/app/bootstrap"
)

// Gateway entrypoint: edge path-prefix forwarding, rate limiting, swagger.
func main() {
	app, err := bootstrap.BuildGateway()
	if err != nil {
		log.Fatalf("bootstrap gateway failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("gateway shutdown close failed: %v", err)
		}
	}()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("gateway stopped with error: %v", err)
	}
}
