/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the payables engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Load terms configuration (JSON file, optional)
  3. Initialize SQLite store
  4. Create API handler and transmission scheduler
  5. Configure HTTP router
  6. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080, env PORT)
  -db      SQLite database path (default: payables.db, env DB_PATH)
           Use ":memory:" for an in-memory database
  -terms   Path to a terms JSON file (env TERMS_CONFIG); omit for the
           default policy (net 14, 5 grace days, payroll on the 10th)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop the transmission scheduler
  2. Stop accepting new connections
  3. Wait for active requests to complete (30s timeout)
  4. Close database connection
  5. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/payables.db"

  # Run with custom terms
  ./server -terms="./terms.json"

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
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
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/warp/payables-engine/api"
	"github.com/warp/payables-engine/factory"
	"github.com/warp/payables-engine/payment"
	"github.com/warp/payables-engine/store/sqlite"
)

func main() {
	// .env is optional; flags still win over the environment.
	_ = godotenv.Load()

	port := flag.Int("port", envInt("PORT", 8080), "HTTP server port")
	dbPath := flag.String("db", envStr("DB_PATH", "payables.db"), "SQLite database path")
	termsPath := flag.String("terms", envStr("TERMS_CONFIG", ""), "Terms JSON file path (optional)")
	flag.Parse()

	// Terms: the default preset, or a JSON file overriding it. Going
	// through the parser either way keeps the two paths identical;
	// DefaultTermsJSON is also the starting point for a config file.
	termsJSON := factory.DefaultTermsJSON()
	if *termsPath != "" {
		raw, err := os.ReadFile(*termsPath)
		if err != nil {
			log.Fatalf("Failed to read terms config: %v", err)
		}
		termsJSON = string(raw)
	}
	terms, err := factory.ParseTerms(termsJSON)
	if err != nil {
		log.Fatalf("Failed to parse terms config: %v", err)
	}

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	clock := payment.SystemClock{}

	// Initialize handler and scheduler
	handler := api.NewHandler(store, terms, clock)
	scheduler := api.NewTransmissionScheduler(store, clock)
	scheduler.Start()

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
