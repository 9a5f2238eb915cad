package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"platecheck/internal/config"
	"platecheck/internal/fetch"
	"platecheck/internal/web"
)

// main starts the report web server and blocks until SIGINT or SIGTERM.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("%v", err)
	}

	client := fetch.NewClient(fetch.Config{
		Timeout:            cfg.FetchTimeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server := web.New(cfg, client)
	log.Printf("listening on %s", cfg.ListenAddr)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
