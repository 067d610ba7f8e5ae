package app

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
	"go.uber.org/zap"

	"github.com/campusconnect/campus-api/internal/api"
	"github.com/campusconnect/campus-api/internal/config"
	"github.com/campusconnect/campus-api/internal/db"
	"github.com/campusconnect/campus-api/internal/logger"
	"github.com/campusconnect/campus-api/internal/repository/dao"
)

const shutdownTimeout = 10 * time.Second

var cfgFile string

var rootCmd = &cobra.Command{
	Use:          "campus-api",
	Short:        "CampusConnect events API",
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE:  runMigrate,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "./cmd/app/config.yml",
		"config file")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// Execute runs the command line; without a subcommand it serves the API.
func Execute() error {
	return rootCmd.Execute()
}

func setup() (*config.AppConfig, *db.Handle, error) {
	conf, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize config -> %w", err)
	}

	if err = logger.Init(conf.API.Environment); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger -> %w", err)
	}

	return conf, db.Postgres(conf.Postgres, os.Getenv("DATABASE_URL")), nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	conf, h, err := setup()
	if err != nil {
		return err
	}

	s := api.NewServer(conf, h)

	addr := ":" + s.Config.API.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info(fmt.Sprintf("starting server at %v", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err = <-errCh:
		if err != nil {
			return fmt.Errorf("failed to start the server -> %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zap.L().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down the server -> %w", err)
	}

	return nil
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	_, h, err := setup()
	if err != nil {
		return err
	}

	if err = dao.InitTables(cmd.Context(), h); err != nil {
		return fmt.Errorf("failed to migrate database -> %w", err)
	}
	zap.L().Info("database tables are up to date")

	return nil
}
