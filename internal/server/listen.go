package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
)

const shutdownTimeout = 5 * time.Second

// NewAPIRouter builds a [BasicRouter] with request id, recovery and logging middleware and the API routes.
func NewAPIRouter(api *API, logger *log.Logger) *BasicRouter {
	router := NewBasicRouter()
	router.Use(RequestID(), Recover(logger), Logging(logger))
	router.Handler(api)
	return router
}

// ListenAndServe serves handler on addr until ctx is cancelled, then shuts down gracefully.
func ListenAndServe(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErrors <- err
		}
		close(serverErrors)
	}()

	select {
	case err := <-serverErrors:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down server: %w", err)
	}
	return nil
}
