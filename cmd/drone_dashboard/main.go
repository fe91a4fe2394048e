package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/user/drone_analyzer_go/internal/config"
	"github.com/user/drone_analyzer_go/internal/dashboard"
)

func main() {
	envFile := flag.String("env", ".env", "optional env file")
	addr := flag.String("addr", "", "listen address, overrides DRONE_DASHBOARD_ADDR")
	flag.Parse()

	cfg, err := config.Load(*envFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *addr != "" {
		cfg.DashboardAddr = *addr
	}

	srv, err := dashboard.New(cfg)
	if err != nil {
		log.Fatalf("Failed to build dashboard: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		log.Fatalf("Dashboard stopped: %v", err)
	}
	log.Println("Dashboard shut down")
}
