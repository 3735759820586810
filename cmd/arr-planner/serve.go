package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/iwvelando/arr-planner/internal/server"
	"github.com/iwvelando/arr-planner/pkg/constants"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var (
	flagServerConfig string
	flagAddress      string
	flagProduction   bool
	flagEnvFile      string
	flagMaxBodySize  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site and planner API over HTTP",
	Long: "Serve the blog listing, the planner page and its JSON API.\n" +
		"Environment variables from --env-file are loaded first; PORT and ARR_PRODUCTION\n" +
		"override the server config, and flags override both.",
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagServerConfig, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	serveCmd.Flags().StringVar(&flagAddress, "address", "", "listen address override")
	serveCmd.Flags().BoolVar(&flagProduction, "production", false, "hide drafts and run gin in release mode")
	serveCmd.Flags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file to load before reading the environment")
	serveCmd.Flags().StringVar(&flagMaxBodySize, "max-body-size", "", "API request body limit override, e.g. 64K or 1M")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := loadEnvFile(flagEnvFile); err != nil {
		return err
	}

	cfg, err := server.LoadConfig(flagServerConfig)
	if err != nil {
		return err
	}
	if err := applyServeOverrides(cfg, os.Getenv); err != nil {
		return err
	}
	if cmd.Flags().Changed("address") {
		cfg.Address = flagAddress
	}
	if cmd.Flags().Changed("production") {
		cfg.Production = flagProduction
	}
	if cmd.Flags().Changed("max-body-size") {
		if err := applyBodySizeOverride(cfg, flagMaxBodySize); err != nil {
			return err
		}
	}

	logger, err := initializeLogger(cfg.Logging, flagLogLevel)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	if cfg.Production {
		gin.SetMode(gin.ReleaseMode)
	}

	srv := &http.Server{
		Addr: cfg.Address,
		Handler: server.NewHandler(logger, server.Options{
			MaxBodySize: cfg.BodySizeBytes(),
			Version:     version,
			Production:  cfg.Production,
			RateLimit:   cfg.RateLimit.Requests,
			RateWindow:  cfg.RateWindow(),
		}),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return serve(ctx, srv, logger)
}

// loadEnvFile loads path into the environment without overriding variables
// that are already set. A missing default file is not an error.
func loadEnvFile(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}
	return nil
}

// applyServeOverrides applies PORT and ARR_PRODUCTION from getenv.
func applyServeOverrides(cfg *server.Config, getenv func(string) string) error {
	if port := strings.TrimSpace(getenv("PORT")); port != "" {
		if _, err := strconv.Atoi(port); err != nil {
			return fmt.Errorf("invalid PORT %q: %w", port, err)
		}
		cfg.Address = ":" + port
	}
	if raw := strings.TrimSpace(getenv("ARR_PRODUCTION")); raw != "" {
		production, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid ARR_PRODUCTION %q: %w", raw, err)
		}
		cfg.Production = production
	}
	return nil
}

// applyBodySizeOverride replaces the configured body limit with value.
func applyBodySizeOverride(cfg *server.Config, value string) error {
	size, err := server.ParseSize(value)
	if err != nil {
		return err
	}
	if size <= 0 {
		return fmt.Errorf("max body size must be positive, got %q", value)
	}
	cfg.SetBodySizeBytes(size)
	return nil
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, logger *zap.Logger) error {
	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting HTTP server",
			zap.String("op", "main.serve"),
			zap.String("address", srv.Addr),
			zap.String("version", version),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err, ok := <-serverErr:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		logger.Info("shutting down HTTP server",
			zap.String("op", "main.serve"),
		)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	logger.Info("server exited", zap.String("op", "main.serve"))
	return nil
}
