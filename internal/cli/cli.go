// Package cli provides the command-line interface for the static file server.
// It merges the optional YAML configuration with command-line flags.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/clean-dependency-project/wwwserve/internal/config"
)

// NewApp creates and configures the main CLI application.
// Running it without a command serves the configured document root.
func NewApp() *cli.App {
	return &cli.App{
		Name:     "wwwserve",
		Usage:    "Serve static files over a minimal HTTP/1.1 subset",
		Version:  "1.0.0",
		Compiled: time.Now(),
		Authors: []*cli.Author{
			{
				Name:  "Clean Dependency Project",
				Email: "info@example.com",
			},
		},
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to YAML configuration file (defaults apply when unset)",
				EnvVars: []string{"WWWSERVE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "log level (debug, info, warn, error)",
				EnvVars: []string{"WWWSERVE_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   "json",
				Usage:   "log format (json, text)",
				EnvVars: []string{"WWWSERVE_LOG_FORMAT"},
			},
		},
		DefaultCommand: "serve",
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Serve the document root until interrupted",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "host",
						Usage: "interface to listen on (default from config: localhost)",
					},
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "TCP port to listen on (default from config: 8080)",
					},
					&cli.StringFlag{
						Name:    "root",
						Aliases: []string{"d"},
						Usage:   "document root (default from config: www)",
					},
					&cli.StringFlag{
						Name:  "redirect-policy",
						Usage: "when to answer 301: directory or extension",
					},
					&cli.DurationFlag{
						Name:  "read-timeout",
						Usage: "deadline for receiving the request (0 disables)",
					},
					&cli.StringFlag{
						Name:    "access-db",
						Usage:   "SQLite access log path; enables the access log",
						EnvVars: []string{"WWWSERVE_ACCESS_DB"},
					},
				},
				Action: serveCommand,
			},
			{
				Name:  "init",
				Usage: "Write a starter document root",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "root",
						Aliases: []string{"d"},
						Usage:   "document root to create (default from config: www)",
					},
					&cli.StringFlag{
						Name:  "name",
						Value: "home",
						Usage: "site name used for page titles",
					},
					&cli.StringFlag{
						Name:  "write-config",
						Usage: "also write the effective configuration to this YAML file",
					},
					&cli.BoolFlag{
						Name:  "dry-run",
						Usage: "list files without writing them",
					},
				},
				Action: initCommand,
			},
			{
				Name:  "access-log",
				Usage: "Show recent requests from the SQLite access log",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "db",
						Usage:   "path to SQLite access log (default from config)",
						EnvVars: []string{"WWWSERVE_ACCESS_DB"},
					},
					&cli.IntFlag{
						Name:  "limit",
						Value: 20,
						Usage: "number of recent records to show",
					},
					&cli.IntFlag{
						Name:  "status",
						Usage: "only show records with this status code",
					},
					&cli.StringFlag{
						Name:  "output",
						Value: "text",
						Usage: "output format (text, json)",
					},
				},
				Action: accessLogCommand,
			},
		},
	}
}

// loadConfig returns the file configuration, or defaults when path is empty.
func loadConfig(path string, logger *slog.Logger) (*config.Config, error) {
	if path == "" {
		logger.Debug("no config file given, using defaults")
		return config.DefaultConfig(), nil
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("loaded config", "path", path)
	return cfg, nil
}

// setup builds the logger and configuration shared by every command.
func setup(c *cli.Context) (*config.Config, *slog.Logger, error) {
	logger, err := newLogger(c.String("log-level"), c.String("log-format"))
	if err != nil {
		return nil, nil, err
	}
	cfg, err := loadConfig(c.String("config"), logger)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		return nil, nil, err
	}
	return cfg, logger, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
