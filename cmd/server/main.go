package main

import (
	"context"
	"log"
	"os"

	"github.com/citycare/citycare/internal/buildinfo"
	"github.com/citycare/citycare/internal/server"
	"github.com/citycare/citycare/internal/server/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	app, err := server.NewApp(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	app.Run(ctx)
}
