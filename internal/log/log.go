// Package log is the project's thin wrapper over log/slog.
//
// Loggers are dependency-injected: serve builds one logger at startup and
// every component receives it through its constructor, usually narrowed
// with With("component", ...). Nothing in the codebase logs through a
// global.
//
//	logger := log.New(log.Config{JSON: true})
//	store := corpus.NewStore(queries, logger.With("component", "corpus"))
package log

import (
	"io"
	"log/slog"
	"os"
)

// Logger aliases *slog.Logger so components depend on the standard type
// directly — With, groups and the handler ecosystem all keep working, and
// no adapter interface is needed.
type Logger = *slog.Logger

// Config defines logger construction options.
type Config struct {
	// Level is the minimum level emitted. Default: slog.LevelInfo.
	Level slog.Level

	// JSON switches to JSON output; the default is text, which reads
	// better when tailing a local serve.
	JSON bool

	// AddSource attaches file:line to every entry.
	AddSource bool
}

// New creates a logger writing to os.Stderr.
func New(cfg Config) Logger {
	return NewWithWriter(os.Stderr, cfg)
}

// NewWithWriter creates a logger writing to w. Tests point it at a buffer
// to assert on output.
func NewWithWriter(w io.Writer, cfg Config) Logger {
	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.AddSource,
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return slog.New(handler)
}

// NewNop returns a logger that discards everything. Test use only —
// production components get a real logger from serve.
func NewNop() Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
