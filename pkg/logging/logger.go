// Package logging provides structured logging for andromeda components,
// built on log/slog with two additions: writing to more than one
// destination at once (stderr plus an optional log file), and an
// asynchronous LogExporter extension point for callers that want entries
// mirrored somewhere else (a metrics pipeline, a log aggregator).
//
// # Basic Usage
//
//	logger := logging.Default()
//	logger.Info("evaluation started", "run_id", id)
//	logger.Error("evaluation failed", "error", err)
//
// # File Logging
//
//	logger := logging.New(logging.Config{
//	    Level:   logging.LevelInfo,
//	    LogDir:  "~/.andromeda/logs",
//	    Service: "andromeda",
//	})
//	defer logger.Close()
package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level represents log severity, ordered Debug < Info < Warn < Error.
type Level int

const (
	// LevelDebug is for verbose tracing of the evaluation graph walk.
	LevelDebug Level = iota
	// LevelInfo is for normal operational events (evaluation start/end).
	LevelInfo
	// LevelWarn is for recoverable issues (ignored clause fallback, retry).
	LevelWarn
	// LevelError is for evaluation failures the caller should see.
	LevelError
)

// String returns "DEBUG", "INFO", "WARN", "ERROR", or "UNKNOWN".
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

func (l Level) toSlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// exportQueueDepth bounds how many entries may be waiting for the exporter
// worker before Logger starts dropping them. andromeda's watch subcommand
// can produce a burst of log lines faster than a slow exporter drains them
// (many files changing inside one debounce window); a bounded queue keeps
// that burst from spawning unbounded goroutines, at the cost of dropping
// each new entry logged while the queue is full.
const exportQueueDepth = 64

// Config configures Logger construction. A zero-value Config produces a
// logger writing Debug+ text to stderr (Level's zero value is LevelDebug;
// callers that want the Info default should set it explicitly, matching
// Default()).
type Config struct {
	// Level sets the minimum level. Messages below it are discarded.
	Level Level

	// LogDir enables file logging to this directory in addition to
	// stderr. Files are named "{Service}_{YYYY-MM-DD}.log" and always
	// JSON regardless of the JSON setting below. Supports "~" expansion.
	LogDir string

	// Service is attached to every entry as the "service" attribute and
	// used as the log file name prefix. Default file prefix if empty:
	// "andromeda".
	Service string

	// JSON selects JSON output for stderr. File output is always JSON.
	JSON bool

	// Quiet disables stderr output entirely.
	Quiet bool

	// Exporter optionally receives every entry asynchronously, in
	// addition to stderr/file output.
	Exporter LogExporter
}

// LogExporter forwards log entries to an external system. Export should be
// non-blocking; Flush and Close are called during shutdown.
type LogExporter interface {
	Export(ctx context.Context, entry LogEntry) error
	Flush(ctx context.Context) error
	Close() error
}

// LogEntry is a structured log entry handed to a LogExporter.
type LogEntry struct {
	Timestamp time.Time
	Level     Level
	Message   string
	Service   string
	Attrs     map[string]any
}

// Logger wraps slog.Logger with multi-destination output and an optional
// exporter drained by one background worker goroutine.
type Logger struct {
	slog     *slog.Logger
	config   Config
	file     *os.File
	exporter LogExporter
	exportCh chan LogEntry
	workerWG sync.WaitGroup
}

// New builds a Logger from config.
func New(config Config) *Logger {
	var sinks []slog.Handler
	opts := &slog.HandlerOptions{Level: config.Level.toSlogLevel()}

	if !config.Quiet {
		sinks = append(sinks, newTextOrJSONHandler(os.Stderr, config.JSON, opts))
	}

	logger := &Logger{config: config}

	if config.LogDir != "" {
		if file, ok := openLogFile(config); ok {
			logger.file = file
			sinks = append(sinks, slog.NewJSONHandler(file, opts))
		}
	}

	logger.slog = slog.New(withService(combineSinks(sinks, opts), config.Service))

	if config.Exporter != nil {
		logger.exporter = config.Exporter
		logger.exportCh = make(chan LogEntry, exportQueueDepth)
		logger.workerWG.Add(1)
		go logger.runExportWorker()
	}

	return logger
}

func newTextOrJSONHandler(w io.Writer, json bool, opts *slog.HandlerOptions) slog.Handler {
	if json {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}

func openLogFile(config Config) (*os.File, bool) {
	logDir := expandPath(config.LogDir)
	if err := os.MkdirAll(logDir, 0750); err != nil {
		return nil, false
	}
	serviceName := config.Service
	if serviceName == "" {
		serviceName = "andromeda"
	}
	filename := fmt.Sprintf("%s_%s.log", serviceName, time.Now().Format("2006-01-02"))
	file, err := os.OpenFile(filepath.Join(logDir, filename), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		return nil, false
	}
	return file, true
}

// combineSinks folds zero, one, or many handlers into a single one,
// avoiding the fanoutHandler wrapper entirely when it isn't needed.
func combineSinks(sinks []slog.Handler, opts *slog.HandlerOptions) slog.Handler {
	switch len(sinks) {
	case 0:
		return slog.NewTextHandler(os.Stderr, opts)
	case 1:
		return sinks[0]
	default:
		return &fanoutHandler{sinks: sinks}
	}
}

func withService(handler slog.Handler, service string) slog.Handler {
	if service == "" {
		return handler
	}
	return handler.WithAttrs([]slog.Attr{slog.String("service", service)})
}

// Default returns a Logger at LevelInfo, stderr-only, service "andromeda".
func Default() *Logger {
	return New(Config{Level: LevelInfo, Service: "andromeda"})
}

// Debug logs at Debug level.
func (l *Logger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args...) }

// Info logs at Info level.
func (l *Logger) Info(msg string, args ...any) { l.log(LevelInfo, msg, args...) }

// Warn logs at Warn level.
func (l *Logger) Warn(msg string, args ...any) { l.log(LevelWarn, msg, args...) }

// Error logs at Error level.
func (l *Logger) Error(msg string, args ...any) { l.log(LevelError, msg, args...) }

// With returns a child Logger carrying additional attributes. The parent
// is unmodified; file handle, exporter, and export worker are shared, so
// only the original Logger returned by New should ever have Close called
// on it.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{
		slog:     l.slog.With(args...),
		config:   l.config,
		file:     l.file,
		exporter: l.exporter,
		exportCh: l.exportCh,
	}
}

// Slog exposes the underlying slog.Logger for callers that need direct
// access to features this wrapper doesn't surface.
func (l *Logger) Slog() *slog.Logger {
	return l.slog
}

// Close stops the export worker (flushing and closing the exporter), then
// syncs and closes the log file. It returns every error encountered, joined
// with errors.Join, or nil.
func (l *Logger) Close() error {
	var errs []error

	if l.exportCh != nil {
		close(l.exportCh)
		l.workerWG.Wait()

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := l.exporter.Flush(ctx); err != nil {
			errs = append(errs, fmt.Errorf("flush exporter: %w", err))
		}
		if err := l.exporter.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close exporter: %w", err))
		}
	}

	if l.file != nil {
		if err := l.file.Sync(); err != nil {
			errs = append(errs, fmt.Errorf("sync log file: %w", err))
		}
		if err := l.file.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close log file: %w", err))
		}
	}

	return errors.Join(errs...)
}

func (l *Logger) log(level Level, msg string, args ...any) {
	switch level {
	case LevelDebug:
		l.slog.Debug(msg, args...)
	case LevelInfo:
		l.slog.Info(msg, args...)
	case LevelWarn:
		l.slog.Warn(msg, args...)
	case LevelError:
		l.slog.Error(msg, args...)
	}

	if l.exportCh == nil || level < l.config.Level {
		return
	}
	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   msg,
		Service:   l.config.Service,
		Attrs:     argsToMap(args),
	}
	select {
	case l.exportCh <- entry:
	default:
		// Queue is full; drop rather than block the caller or grow an
		// unbounded backlog of pending exports.
	}
}

// runExportWorker drains exportCh into the exporter, one entry at a time,
// until the channel is closed by Close. It is the sole goroutine that ever
// calls exporter.Export, so exporters need not be safe for concurrent
// Export calls from a single Logger.
func (l *Logger) runExportWorker() {
	defer l.workerWG.Done()
	for entry := range l.exportCh {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		_ = l.exporter.Export(ctx, entry)
		cancel()
	}
}

// fanoutHandler dispatches one record to every sink able to accept it,
// continuing past a sink's error instead of aborting the rest, so a broken
// file write can never suppress stderr output.
type fanoutHandler struct {
	sinks []slog.Handler
}

func (h *fanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, sink := range h.sinks {
		if sink.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (h *fanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, sink := range h.sinks {
		if !sink.Enabled(ctx, r.Level) {
			continue
		}
		if err := sink.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (h *fanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, sink := range h.sinks {
		sinks[i] = sink.WithAttrs(attrs)
	}
	return &fanoutHandler{sinks: sinks}
}

func (h *fanoutHandler) WithGroup(name string) slog.Handler {
	sinks := make([]slog.Handler, len(h.sinks))
	for i, sink := range h.sinks {
		sinks[i] = sink.WithGroup(name)
	}
	return &fanoutHandler{sinks: sinks}
}

func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

func argsToMap(args []any) map[string]any {
	result := make(map[string]any)
	for i := 0; i+1 < len(args); i += 2 {
		if key, ok := args[i].(string); ok {
			result[key] = args[i+1]
		}
	}
	return result
}

// NopExporter discards every entry. Useful as an explicit no-op default.
type NopExporter struct{}

func (e *NopExporter) Export(ctx context.Context, entry LogEntry) error { return nil }
func (e *NopExporter) Flush(ctx context.Context) error                 { return nil }
func (e *NopExporter) Close() error                                    { return nil }

var _ LogExporter = (*NopExporter)(nil)

// BufferedExporter collects entries in memory, for tests that assert on
// log output:
//
//	exporter := logging.NewBufferedExporter()
//	logger := logging.New(logging.Config{Exporter: exporter})
//	logger.Info("test message")
//	logger.Close()
//	assert.Equal(t, "test message", exporter.Entries()[0].Message)
type BufferedExporter struct {
	mu      sync.Mutex
	entries []LogEntry
}

// NewBufferedExporter builds an empty BufferedExporter.
func NewBufferedExporter() *BufferedExporter {
	return &BufferedExporter{}
}

func (e *BufferedExporter) Export(ctx context.Context, entry LogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries = append(e.entries, entry)
	return nil
}

func (e *BufferedExporter) Flush(ctx context.Context) error { return nil }
func (e *BufferedExporter) Close() error                    { return nil }

// Entries returns a copy of the entries collected so far.
func (e *BufferedExporter) Entries() []LogEntry {
	e.mu.Lock()
	defer e.mu.Unlock()
	result := make([]LogEntry, len(e.entries))
	copy(result, e.entries)
	return result
}

// WriterExporter writes each entry as one line to w.
type WriterExporter struct {
	w  io.Writer
	mu sync.Mutex
}

// NewWriterExporter wraps w as a LogExporter.
func NewWriterExporter(w io.Writer) *WriterExporter {
	return &WriterExporter{w: w}
}

func (e *WriterExporter) Export(ctx context.Context, entry LogEntry) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	_, err := fmt.Fprintf(e.w, "[%s] %s: %s %v\n",
		entry.Timestamp.Format(time.RFC3339), entry.Level, entry.Message, entry.Attrs)
	return err
}

func (e *WriterExporter) Flush(ctx context.Context) error { return nil }
func (e *WriterExporter) Close() error                    { return nil }
