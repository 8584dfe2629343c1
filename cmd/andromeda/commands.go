package main

import (
	"github.com/spf13/cobra"
)

// --- Global Command Flags ---
var (
	directivesPath string
	recordPath     string
	ignoreTokens   []string
	onlyContexts   []string
	ignoreContexts []string
	jsonOutput     bool
	metricsAddr    string

	rootCmd = &cobra.Command{
		Use:   "andromeda",
		Short: "Evaluate declarative field-validation directive graphs",
		Long: `andromeda validates a record against a declarative graph of
field directives: mandatory fields, mutually exclusive alternatives,
cascading requirements, and conflicts.`,
	}

	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "Run one evaluation against a directives file and a record file",
		Run:   runValidate,
	}

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Re-run validate whenever the directives or record file changes",
		Run:   runWatch,
	}

	serveMetricsCmd = &cobra.Command{
		Use:   "serve-metrics",
		Short: "Serve Prometheus metrics for evaluations recorded via pkg/metrics",
		Run:   runServeMetrics,
	}
)

func init() {
	for _, cmd := range []*cobra.Command{validateCmd, watchCmd} {
		cmd.Flags().StringVar(&directivesPath, "directives", "", "path to the directives YAML file (required)")
		cmd.Flags().StringVar(&recordPath, "record", "", "path to the record YAML file (required)")
		cmd.Flags().StringSliceVar(&ignoreTokens, "ignore", nil, "clauses to ignore: ALTERNATIVES, MANDATORY, REQUIREMENTS, CONFLICTS")
		cmd.Flags().StringSliceVar(&onlyContexts, "only-context", nil, "restrict evaluation to directives tagged with these contexts")
		cmd.Flags().StringSliceVar(&ignoreContexts, "ignore-context", nil, "skip directives tagged with these contexts")
		cmd.MarkFlagRequired("directives")
		cmd.MarkFlagRequired("record")
	}
	validateCmd.Flags().BoolVar(&jsonOutput, "json", false, "print the result as JSON")

	serveMetricsCmd.Flags().StringVar(&metricsAddr, "addr", ":9090", "address to listen on")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(serveMetricsCmd)
}
