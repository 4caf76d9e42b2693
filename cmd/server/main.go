/*
main.go - HTTP server entry point

PURPOSE:
  Initializes and starts the logistics engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags, load configuration
  2. Initialize SQLite run archive
  3. Register instances (built-ins plus optional CSV directory)
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -config  Path to a YAML config file (optional; LOGISTICS_* env
           variables and defaults apply either way)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close the run archive
  4. Exit

EXAMPLES:
  # Defaults (port 8080, ./data/runs.db)
  ./server

  # Explicit config file
  ./server -config=./config.yaml

  # Environment override
  LOGISTICS_PORT=3000 ./server

SEE ALSO:
  - config/config.go: Configuration loading
  - api/server.go: Router configuration
  - store/sqlite/sqlite.go: Run archive implementation
*/
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

	"github.com/warp/logistics-engine/api"
	"github.com/warp/logistics-engine/config"
	"github.com/warp/logistics-engine/dataset"
	"github.com/warp/logistics-engine/store/sqlite"
)

func main() {
	configPath := flag.String("config", "", "path to YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	runs, err := sqlite.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize run archive: %v", err)
	}
	defer runs.Close()

	instances := []*dataset.Instance{dataset.Small(), dataset.Medium()}
	if cfg.DataDir != "" {
		in, err := dataset.LoadDir(cfg.DataDir)
		if err != nil {
			log.Fatalf("Failed to load instance from %s: %v", cfg.DataDir, err)
		}
		instances = append(instances, in)
	}

	handler := api.NewHandler(runs, instances...)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", cfg.Port)
		log.Printf("API available at http://localhost:%d/api", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}
