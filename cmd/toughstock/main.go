package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/talkincode/toughstock/config"
	"github.com/talkincode/toughstock/internal/adminapi"
	"github.com/talkincode/toughstock/internal/app"
	"github.com/talkincode/toughstock/internal/webserver"
	"go.uber.org/zap"
)

var (
	h           = flag.Bool("h", false, "help usage")
	conffile    = flag.String("c", "", "config yaml file")
	initdb      = flag.Bool("initdb", false, "discard the inventory and reseed the sample data")
	printConfig = flag.Bool("print-config", false, "print the effective config and exit")
)

func main() {
	flag.Parse()

	if *h {
		flag.Usage()
		return
	}

	cfg := config.LoadConfig(*conffile)
	if *printConfig {
		fmt.Print(cfg.Dump())
		return
	}

	application := app.NewApplication(cfg)
	if err := application.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "init failed: %v\n", err)
		os.Exit(1)
	}
	defer application.Release()

	if *initdb {
		if err := application.InitDb(context.Background()); err != nil {
			zap.S().Errorf("reseed failed: %v", err)
			os.Exit(1)
		}
		zap.S().Info("inventory reseeded")
		return
	}

	srv := webserver.Init(cfg, application)
	adminapi.Init()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := application.Run(ctx, srv); err != nil {
		zap.S().Errorf("server stopped: %v", err)
	}
}
