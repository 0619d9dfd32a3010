// Package serve runs the HTTP API
package serve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fjacquet/fin-insights/cmd/root"
	"fjacquet/fin-insights/internal/api"
	"fjacquet/fin-insights/internal/logging"

	"github.com/spf13/cobra"
)

var address string

// Cmd represents the serve command
var Cmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API over HTTP",
	RunE:  serveFunc,
}

func init() {
	Cmd.Flags().StringVarP(&address, "addr", "l", "", "Listen address (default from config server.address)")
}

func serveFunc(cmd *cobra.Command, args []string) error {
	c := root.GetContainer()
	addr := address
	if addr == "" {
		addr = c.GetConfig().Server.Address
	}

	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewServer(c).Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		root.Log.Info("Starting server", logging.Field{Key: "address", Value: addr})
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	root.Log.Info("Server stopped")
	return nil
}
