package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/clean-dependency-project/wwwserve/internal/logger"
)

// newLogger creates the process logger. All logs go to stderr to keep stdout
// clean for command output.
func newLogger(level, format string) (*slog.Logger, error) {
	l, err := logger.New(level, format, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("failed to configure logging: %w", err)
	}
	return l, nil
}
