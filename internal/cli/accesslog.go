package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/clean-dependency-project/wwwserve/internal/storage"
)

// ErrAccessLogMissing is returned when the access log database does not exist.
var ErrAccessLogMissing = errors.New("access log database not found")

// AccessReport is the JSON shape of the access-log command.
type AccessReport struct {
	Records  []storage.AccessRecord `json:"records"`
	ByStatus []storage.StatusCount  `json:"by_status"`
}

// ReportOptions selects what writeAccessReport prints.
type ReportOptions struct {
	Limit  int
	Status int // zero means any status
	Output string
}

// accessLogCommand implements the access-log command.
func accessLogCommand(c *cli.Context) error {
	cfg, logger, err := setup(c)
	if err != nil {
		return err
	}

	path := cfg.AccessLog.DatabasePath
	if c.IsSet("db") {
		path = c.String("db")
	}
	// Opening a missing file would silently create an empty database.
	if !fileExists(path) {
		return fmt.Errorf("%w: %s", ErrAccessLogMissing, path)
	}

	db, err := storage.InitDB(storage.Config{DatabasePath: path, LogLevel: "silent"})
	if err != nil {
		return fmt.Errorf("failed to open access log: %w", err)
	}
	defer func() {
		if closeErr := db.Close(); closeErr != nil {
			logger.Warn("failed to close access log", "error", closeErr)
		}
	}()

	return writeAccessReport(c.App.Writer, db, ReportOptions{
		Limit:  c.Int("limit"),
		Status: c.Int("status"),
		Output: c.String("output"),
	})
}

// writeAccessReport queries reader and writes the report as text or JSON.
func writeAccessReport(w io.Writer, reader AccessReader, opts ReportOptions) error {
	var report AccessReport
	var err error

	if opts.Status != 0 {
		report.Records, err = reader.ListByStatus(opts.Status)
		if err == nil && opts.Limit > 0 && len(report.Records) > opts.Limit {
			report.Records = report.Records[:opts.Limit]
		}
	} else {
		report.Records, err = reader.ListRecent(opts.Limit)
	}
	if err != nil {
		return err
	}

	report.ByStatus, err = reader.CountByStatus()
	if err != nil {
		return err
	}

	switch opts.Output {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "text", "":
		return writeAccessText(w, report)
	default:
		return fmt.Errorf("unsupported output format %q", opts.Output)
	}
}

func writeAccessText(w io.Writer, report AccessReport) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "TIME\tREMOTE\tREQUEST\tSTATUS\tBYTES\tDURATION")
	for _, r := range report.Records {
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s %s\t%d\t%d\t%dms\n",
			r.CreatedAt.UTC().Format(time.RFC3339), r.RemoteAddr, r.Method, r.Path, r.Status, r.Bytes, r.DurationMs)
	}
	_, _ = fmt.Fprintln(tw)
	_, _ = fmt.Fprintln(tw, "STATUS\tCOUNT")
	for _, sc := range report.ByStatus {
		_, _ = fmt.Fprintf(tw, "%d\t%d\n", sc.Status, sc.Count)
	}
	return tw.Flush()
}
