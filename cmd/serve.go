package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/andrewpaige1/codementor-api/config"
	"github.com/andrewpaige1/codementor-api/handlers"
	"github.com/andrewpaige1/codementor-api/middleware"
)

const shutdownTimeout = 15 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// newHTTPHandler stacks the middleware around the router. The outermost
// layer runs first.
func newHTTPHandler(cfg *config.Config, h *handlers.APIHandler) (http.Handler, error) {
	authMiddleware, err := middleware.EnsureValidToken(cfg.Auth)
	if err != nil {
		return nil, err
	}

	mux := handlers.NewRouter(h)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin", "If-None-Match", middleware.RequestIDHeader},
		ExposedHeaders:   []string{"ETag", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(
		middleware.RequestID(
			middleware.Logging(
				middleware.Recovery(
					authMiddleware(mux)))))

	return gzhttp.GzipHandler(corsHandler), nil
}

func runServe(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	db, err := config.Connect(cfg.Database)
	if err != nil {
		return err
	}
	log.Printf("serve: connected to %s database", cfg.Database.Driver)

	h, err := newAPIHandler(cfg, db)
	if err != nil {
		return err
	}
	if cfg.Gemini.APIKey == "" {
		log.Println("serve: GEMINI_API_KEY is not set, AI requests will fail")
	}
	if cfg.ElevenLabs.APIKey == "" {
		log.Println("serve: ELEVENLABS_API_KEY is not set, text-to-speech is disabled")
	}

	handler, err := newHTTPHandler(cfg, h)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Printf("serve: listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Println("serve: shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
