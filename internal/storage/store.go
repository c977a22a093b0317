package storage

import (
	"context"
	"errors"
	"time"

	"help2postman/internal/parser"
)

// ErrNoSnapshot is returned when no run has been stored for a help page yet.
var ErrNoSnapshot = errors.New("no snapshot stored")

// Run describes one stored generation run.
type Run struct {
	ID            int64
	HelpURL       string
	CreatedAt     time.Time
	SectionCount  int
	EndpointCount int
}

// Snapshot is a stored run together with the sections parsed in it.
type Snapshot struct {
	Run
	Sections []parser.Section
}

// SnapshotStore persists the parsed endpoints of each run so later runs can
// report what changed on the help page.
type SnapshotStore interface {
	// SaveSnapshot stores sections as a new run and returns its ID.
	SaveSnapshot(ctx context.Context, helpURL string, sections []parser.Section) (int64, error)

	// LatestSnapshot returns the most recent run for helpURL.
	LatestSnapshot(ctx context.Context, helpURL string) (*Snapshot, error)

	// ListRuns returns the most recent runs, newest first.
	ListRuns(ctx context.Context, limit int) ([]Run, error)

	Close() error
}
