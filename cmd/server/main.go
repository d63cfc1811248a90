/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the solar sizing engine server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and parse command-line flags
  2. Build the Gemini narrator when GEMINI_API_KEY is set
  3. Create API handler with dependencies
  4. Configure HTTP router
  5. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)

ENVIRONMENT:
  GEMINI_API_KEY   Enables LLM narration and the assistant endpoint.
                   Without it the server still answers every numeric
                   endpoint; narration uses the local template.
  GEMINI_MODEL     Overrides the default model name.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Exit

EXAMPLES:
  # Run on the default port
  ./server

  # Run on a different port with narration
  GEMINI_API_KEY=... ./server -port=3000

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - narrate/gemini.go: LLM backend
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

	"github.com/joho/godotenv"

	"github.com/energyai/solar-engine/api"
	"github.com/energyai/solar-engine/narrate"
)

func main() {
	// .env is optional; real environments set variables directly
	_ = godotenv.Load()

	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	flag.Parse()

	// Narration backend
	narrator := &narrate.Narrator{}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		narrator.Gen = &narrate.Gemini{
			APIKey: key,
			Model:  os.Getenv("GEMINI_MODEL"),
		}
		log.Println("Gemini narration enabled")
	} else {
		log.Println("GEMINI_API_KEY not set, narration uses local template")
	}

	// Initialize handler
	handler := api.NewHandler(narrator)

	// Create router
	router := api.NewRouter(handler)

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("🚀 Server starting on http://localhost:%d", *port)
		log.Printf("📊 API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
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
