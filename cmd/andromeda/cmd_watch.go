package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rollingflamingo/andromeda/pkg/andromeda"
	"github.com/rollingflamingo/andromeda/pkg/metrics"
	"github.com/spf13/cobra"
)

const watchDebounce = 150 * time.Millisecond

// runWatch is the CLI handler for "andromeda watch". It re-runs one
// evaluation whenever the directives or record file changes, logging the
// outcome and recording it in pkg/metrics. It runs until interrupted.
func runWatch(cmd *cobra.Command, args []string) {
	logger, runID := newRunLogger()
	defer logger.Close()

	engineMetrics := metrics.NewEngineMetrics(prometheus.DefaultRegisterer)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Error("failed to create file watcher", "error", err)
		os.Exit(CLIExitError)
	}
	defer watcher.Close()

	for _, path := range []string{directivesPath, recordPath} {
		if err := watcher.Add(path); err != nil {
			logger.Error("failed to watch file", "path", path, "error", err)
			os.Exit(CLIExitError)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	evaluate := func() {
		start := time.Now()
		valid, diag, err, fieldsVisited := runOneEvaluation(logger)
		engineMetrics.RecordFieldsVisited(fieldsVisited)
		switch {
		case err != nil:
			logger.Error("evaluation errored", "run_id", runID, "error", err)
		case diag != nil:
			engineMetrics.RecordReject(diagnosticKind(diag), time.Since(start))
		case valid:
			engineMetrics.RecordAccept(time.Since(start))
		}
	}

	logger.Info("watching for changes", "directives", directivesPath, "record", recordPath)
	evaluate()

	var timer *time.Timer
	var timerC <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping watch")
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
				timerC = timer.C
			} else {
				timer.Reset(watchDebounce)
			}
		case <-timerC:
			evaluate()
		case werr, ok := <-watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher error", "error", werr)
		}
	}
}

func diagnosticKind(err error) string {
	var d *andromeda.Diagnostic
	if errors.As(err, &d) {
		return d.Kind.String()
	}
	return "unknown"
}
