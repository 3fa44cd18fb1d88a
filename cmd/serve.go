package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pable/go-league-standings/internal/httpapi"
	"github.com/pable/go-league-standings/internal/logging"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve stored standings as read-only JSON over HTTP",
	Long: `Endpoints:
  GET /rounds
  GET /rounds/latest
  GET /rounds/{round}          label or round number
  GET /h2h/{team}/{opponent}`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default $STANDINGS_HTTP_ADDR or :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logging.Default()

	db, err := openStorage()
	if err != nil {
		return err
	}
	defer db.Close()

	addr := firstNonEmpty(serveAddr, cfg.HTTPAddr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.NewRouter(db, log),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("serving standings", "addr", addr, "db", dbPath)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("server stopped")
	return nil
}
