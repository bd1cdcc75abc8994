package main

import (
	"context"
	"log"

	"github.com/anovikov/journalvault/internal/server"
	"github.com/anovikov/journalvault/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	app, err := server.NewApp(cfg)

	if err != nil {
		log.Printf("%v", err)
		return
	}

	app.Run(ctx)

}
