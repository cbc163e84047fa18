package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/TWRT/memory-relay/internal/api"
	"github.com/TWRT/memory-relay/internal/config"
	"github.com/TWRT/memory-relay/internal/repository"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		slog.Error("Failed to load .env", "error", err)
		os.Exit(1)
	}

	if err := newApp().Run(os.Args); err != nil {
		slog.Error("Application failed", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "memory-relay",
		Usage: "Relay Omi memory action items into a Notion tasks database.",
		Commands: []*cli.Command{
			serveCommand(),
			checkCommand(),
		},
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the webhook server.",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "port", Usage: "Port to listen on. Overrides PORT."},
			&cli.StringFlag{Name: "db", Usage: "Delivery log path, empty to disable. Overrides RELAY_DB_PATH."},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if c.IsSet("port") {
				cfg.Port = c.String("port")
			}
			if c.IsSet("db") {
				cfg.DBPath = c.String("db")
			}

			logger := setupLogger(cfg.LogLevel)

			var db *sql.DB
			if cfg.DBPath != "" {
				db, err = repository.InitDB(cfg.DBPath)
				if err != nil {
					return fmt.Errorf("failed to initialize delivery log: %w", err)
				}
				defer db.Close()
				logger.Info("Delivery log ready.", "path", cfg.DBPath)
			}

			server := &http.Server{
				Addr:              ":" + cfg.Port,
				Handler:           api.SetupRouter(logger, db, cfg),
				ReadHeaderTimeout: 10 * time.Second,
			}

			ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
			defer stop()

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()

			logger.Info("Omi-Notion relay running.",
				"port", cfg.Port,
				"webhook", "http://localhost:"+cfg.Port+"/omi-webhook",
				"health", "http://localhost:"+cfg.Port+"/health",
				"source_mode", cfg.Mapping.Mode)

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("server failed: %w", err)
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info("Shutting down.")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}

func setupLogger(level string) *slog.Logger {
	var logLevel slog.Level
	switch strings.ToLower(level) {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))
}
