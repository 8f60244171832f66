package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/clean-dependency-project/wwwserve/internal/config"
	"github.com/clean-dependency-project/wwwserve/internal/resolver"
	"github.com/clean-dependency-project/wwwserve/internal/server"
	"github.com/clean-dependency-project/wwwserve/internal/storage"
)

// applyServeFlags overrides configuration values with flags the user set.
func applyServeFlags(c *cli.Context, cfg *config.Config) {
	if c.IsSet("host") {
		cfg.Server.Host = c.String("host")
	}
	if c.IsSet("port") {
		cfg.Server.Port = c.Int("port")
	}
	if c.IsSet("root") {
		cfg.Server.DocumentRoot = c.String("root")
	}
	if c.IsSet("redirect-policy") {
		cfg.Server.RedirectPolicy = c.String("redirect-policy")
	}
	if c.IsSet("read-timeout") {
		cfg.Server.ReadTimeout = c.Duration("read-timeout").String()
	}
	if c.IsSet("access-db") {
		cfg.AccessLog.Enabled = true
		cfg.AccessLog.DatabasePath = c.String("access-db")
	}
}

// serveCommand implements the serve command.
func serveCommand(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}

	applyServeFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		return fmt.Errorf("invalid configuration: %w", err)
	}

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runServer(ctx, cfg, logger)
}

// runServer wires the resolver, optional access log and listener from cfg
// and blocks until ctx is cancelled.
func runServer(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	res := resolver.New(cfg.Server.DocumentRoot, cfg.Server.GetRedirectPolicy(), nil)
	if !fileExists(res.Root()) {
		logger.Warn("document root does not exist, every GET will be 404", "root", res.Root())
	}

	var recorder server.AccessRecorder
	if cfg.AccessLog.Enabled {
		db, err := storage.InitDB(storage.Config{
			DatabasePath: cfg.AccessLog.DatabasePath,
			LogLevel:     "silent",
		})
		if err != nil {
			logger.Error("failed to open access log", "path", cfg.AccessLog.DatabasePath, "error", err)
			return fmt.Errorf("failed to open access log: %w", err)
		}
		defer func() {
			if closeErr := db.Close(); closeErr != nil {
				logger.Warn("failed to close access log", "error", closeErr)
			}
		}()
		recorder = db
	}

	srv := server.New(server.Options{
		Addr:         cfg.Server.Address(),
		BufferSize:   cfg.Server.BufferSize,
		ReadTimeout:  cfg.Server.GetReadTimeout(),
		WriteTimeout: cfg.Server.GetWriteTimeout(),
	}, res, recorder, logger)

	logger.Info("starting server",
		"addr", cfg.Server.Address(),
		"root", res.Root(),
		"redirect_policy", string(res.Policy()),
		"access_log", cfg.AccessLog.Enabled)

	if err := srv.ListenAndServe(ctx); err != nil {
		logger.Error("server failed", "error", err)
		return err
	}
	return nil
}
