package reports

import (
	"context"
	"time"

	"github.com/dalemusser/sponsorlists/internal/domain/models"
)

// NoSponsorsMessage is logged when a run has nothing to report on,
// including when discovery itself failed.
const NoSponsorsMessage = "No sponsor events found"

// runDirLayout is the timestamp layout of run directory names.
const runDirLayout = "20060102_150405"

// Source supplies sponsors and their lists. *userstore.Store satisfies it.
type Source interface {
	DiscoverSponsors(ctx context.Context) ([]string, error)
	PriorityLists(ctx context.Context, sponsor string) (models.PriorityLists, error)
}

// Config controls a single run.
type Config struct {
	// Root is the directory the run directory is created in.
	Root string
	// Sponsor, when set, skips discovery and reports on this sponsor only.
	Sponsor string
	// StartedAt stamps the run directory name. Fixed at process start.
	StartedAt time.Time
}

// Result summarizes a finished run.
type Result struct {
	// Dir is the run directory, or "" when nothing was reported.
	Dir      string
	Sponsors []string
	// Skipped lists sponsors whose lists could not be fetched.
	Skipped []string
	Files   []string
}

// RunDirName returns the run directory name for a run started at t.
func RunDirName(t time.Time) string {
	return "reports_" + t.Format(runDirLayout)
}
