// Package cli implements the mindmap command-line interface.
//
// The CLI loads a folder hierarchy from a directory, a JSON snapshot or a
// SQLite document index and either explores it interactively in the
// terminal or renders it to image and graph formats. It is built on cobra
// and logs through charmbracelet/log.
//
// # Commands
//
// The main commands are:
//   - view: Explore a hierarchy as an animated mind map in the terminal
//   - render: Settle the layout and write SVG, PNG, PDF, DOT or JSON output
//   - scan: Print the documents a source yields
//   - cache: Manage the snapshot and artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger stamping each line with "HH:MM:SS.cc".
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one command step.
type progress struct {
	logger *log.Logger
	start  time.Time
	now    func() time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now(), now: time.Now}
}

// done logs msg at info level with an elapsed field appended to keyvals.
func (p *progress) done(msg string, keyvals ...any) {
	elapsed := p.now().Sub(p.start).Round(time.Millisecond)
	p.logger.Info(msg, append(keyvals, "elapsed", elapsed)...)
}

type ctxKey struct{}

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger attached by withLogger, or the
// package default when there is none.
func loggerFromContext(ctx context.Context) *log.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
			return l
		}
	}
	return log.Default()
}

// atLevel returns a copy of l filtered at level, leaving l untouched.
func atLevel(l *log.Logger, level log.Level) *log.Logger {
	q := l.With()
	q.SetLevel(level)
	return q
}
