package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
)

// main starts the NVR websocket gateway and blocks until shutdown
func main() {
	cfg := loadConfig()
	gateway := NewGateway(cfg, NewCameraDirectory())
	router := newRouter(gateway)

	srv := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router,
	}

	go func() {
		log.Printf("NVR WebSocket Server starting on %s", cfg.ServerAddress)
		log.Println("Endpoints:")
		log.Println("  GET /          - Liveness probe")
		log.Println("  GET /health    - Session, stream and recording counts")
		log.Println("  WS  /ws/live   - Client connection")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Stop producers, recording timers and clients before draining HTTP
	gateway.Shutdown()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}
