package main

import (
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

// runServeMetrics is the CLI handler for "andromeda serve-metrics". It
// exposes the process-wide Prometheus registry (the one pkg/metrics
// registers into by default) over HTTP until the process is killed.
func runServeMetrics(cmd *cobra.Command, args []string) {
	logger, _ := newRunLogger()
	defer logger.Close()

	http.Handle("/metrics", promhttp.Handler())
	logger.Info("serving metrics", "addr", metricsAddr)
	if err := http.ListenAndServe(metricsAddr, nil); err != nil {
		logger.Error("metrics server failed", "error", err)
		os.Exit(CLIExitError)
	}
}
