package main

import (
	"context"
	"log"

	"github.com/masayahak/go-order-app/internal/app/api"
)

func main() {
	if err := api.Run(context.Background()); err != nil {
		log.Fatalf("order API failed: %v", err)
	}
}
