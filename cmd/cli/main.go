package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/citycare/citycare/internal/buildinfo"
	"github.com/citycare/citycare/internal/client/cli"
	"github.com/citycare/citycare/internal/client/config"
)

func main() {
	buildinfo.PrintBuildData(os.Stdout)

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := cli.NewApp(ctx, cfg, cli.NewLogger())
	if err != nil {
		stop()
		log.Fatal(err)
	}
	app.Run(ctx)
}
