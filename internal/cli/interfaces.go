// Package cli provides command-line interface components with testable abstractions.
package cli

import "github.com/clean-dependency-project/wwwserve/internal/storage"

// AccessReader abstracts the access-log queries used by the access-log command.
// Following Dave Cheney's principle: "Accept interfaces, return structs"
type AccessReader interface {
	// ListRecent returns up to limit records, newest first.
	ListRecent(limit int) ([]storage.AccessRecord, error)

	// ListByStatus returns every record answered with status.
	ListByStatus(status int) ([]storage.AccessRecord, error)

	// CountByStatus groups all records by status code.
	CountByStatus() ([]storage.StatusCount, error)
}
