package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recondeck/config"
	"recondeck/engine"
	"recondeck/messaging"
	"recondeck/store"
	"recondeck/www"
)

func main() {
	configPath := flag.String("config", "recondeck.yaml", "path to config file")
	debug := flag.Bool("debug", false, "enable debug logging")
	port := flag.Int("port", 0, "HTTP port (overrides config)")
	flag.Parse()

	if *debug {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	if *port > 0 {
		cfg.Web.Port = *port
	}

	// Open database
	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	// Create and start engine
	eng := engine.New(engine.Config{
		AppConfig:  cfg,
		ConfigPath: *configPath,
		DB:         db,
		LogFunc:    log.Printf,
		Debug:      *debug,
	})
	if err := eng.Start(); err != nil {
		log.Fatalf("start engine: %v", err)
	}
	defer eng.Stop()

	// Broker notifications: events are written to the outbox regardless,
	// the drainer ships them whenever a broker is reachable.
	if cfg.Messaging.Enabled {
		notifier := messaging.NewNotifier(db, cfg.Dealership, cfg.Messaging.EventsTopic)
		notifier.Start(eng.Events)
		defer notifier.Stop()

		msgClient := messaging.NewClient(&cfg.Messaging)
		defer msgClient.Close()
		if err := msgClient.Connect(); err != nil {
			log.Printf("messaging connect: %v (will retry via outbox)", err)
		}

		drainer := messaging.NewDrainer(db, msgClient, &cfg.Messaging)
		drainer.Start()
		defer drainer.Stop()
	}

	// Set up HTTP server
	router, stopWeb := www.NewRouter(eng)
	defer stopWeb()

	addr := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	server := &http.Server{Addr: addr, Handler: router}

	// Start HTTP server
	go func() {
		log.Printf("Recondeck listening on %s", addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("Shutting down...")

	// Stop SSE event hub first so long-lived connections close
	stopWeb()

	// Graceful HTTP shutdown with 10s deadline
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("http server shutdown: %v", err)
	}
}
