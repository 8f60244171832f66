package cli

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/clean-dependency-project/wwwserve/internal/config"
	"github.com/clean-dependency-project/wwwserve/internal/scaffold"
)

// initCommand implements the init command.
func initCommand(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}
	if c.IsSet("root") {
		cfg.Server.DocumentRoot = c.String("root")
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	root := cfg.Server.DocumentRoot
	dryRun := c.Bool("dry-run")

	result, err := scaffold.NewGenerator(logger).Generate(c.Context, scaffold.Options{
		OutputDir: root,
		SiteName:  c.String("name"),
		DryRun:    dryRun,
	})
	if err != nil {
		logger.Error("failed to write document root", "root", root, "error", err)
		return fmt.Errorf("failed to write document root: %w", err)
	}

	out := c.App.Writer
	if !dryRun {
		_, _ = fmt.Fprintf(out, "%s: %d written, %d unchanged\n", root, len(result.Written), len(result.Unchanged))
		for _, path := range result.Written {
			_, _ = fmt.Fprintf(out, "  + %s\n", path)
		}
	}

	if path := c.String("write-config"); path != "" && !dryRun {
		if err := config.SaveConfig(cfg, path); err != nil {
			logger.Error("failed to write config", "path", path, "error", err)
			return err
		}
		_, _ = fmt.Fprintf(out, "config written to %s\n", path)
	}
	return nil
}
