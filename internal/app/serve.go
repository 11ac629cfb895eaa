package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/devstreaks/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reports as a JSON API",
	Long: `Start an HTTP server exposing reports, the dashboard, the saved profile
and GitHub repositories as JSON for the mobile client.

  GET  /healthz
  GET  /api/reports/:platform/:username
  GET  /api/dashboard?github=<user>&leetcode=<user>
  GET  /api/profile
  PUT  /api/profile
  GET  /api/repos/:username`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: server.addr from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveAddr == "" {
		serveAddr = cfg.Server.Addr
	}

	db, err := openDB()
	if err != nil {
		return err
	}
	defer closeDB(db)

	// Request logs are on by default when serving.
	logger = newLogger(logLevel(slog.LevelInfo))
	srv := server.New(newService(cfg, db), db, logger)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen(serveAddr) }()

	select {
	case err := <-errCh:
		return fmt.Errorf("serving on %s: %w", serveAddr, err)
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}
