// Package cli implements the lanegraph command-line interface.
//
// This package provides commands for printing the commit graph of a git
// repository as inline terminal images, exporting it as a PNG, a layout
// JSON file or a Graphviz diagram, and managing the row image cache. The
// CLI is built using cobra and supports verbose logging via the
// charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - log: Print the graph next to the commit list, optionally watching for changes
//   - snapshot: Write every row image stacked into one PNG
//   - layout: Write the computed lanes and edges as JSON
//   - dot: Render the graph as a Graphviz diagram
//   - export: Save the history as JSON commit records
//   - cache: Manage the row image cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// logs every row render and cache access.
package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a new logger with timestamp formatting.
// The logger writes to w and filters messages at the specified level.
// Timestamps are formatted as "HH:MM:SS.ms" (e.g., "14:32:01.45").
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress tracks the start time of an operation and logs completion with elapsed duration.
// It is safe for sequential use by a single goroutine; concurrent calls to done will race.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress creates a progress tracker that captures the current time as start.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time since progress was created.
// Example output: "Rendered snapshot (1.234s)"
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}
