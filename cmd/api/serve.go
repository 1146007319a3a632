package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"notesapp/internal/database"
	"notesapp/internal/notes"
	"notesapp/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(parent context.Context) error {
	if parent == nil {
		parent = context.Background()
	}
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := database.New(database.FromAppConfig(cfg))
	defer db.Close()

	srv := server.New(cfg, db, notes.New(db))
	srv.RegisterFiberRoutes()

	done := make(chan error, 1)
	go func() {
		done <- srv.Listen(fmt.Sprintf(":%d", cfg.Port))
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
	}

	zap.S().Infof("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.ShutdownWithContext(shutdownCtx); err != nil {
		zap.S().Errorf("Server forced to shutdown with error: %v", err)
	}
	zap.S().Infof("Server exiting")
	return nil
}
