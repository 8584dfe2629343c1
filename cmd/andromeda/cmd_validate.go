package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// runValidate is the CLI handler for "andromeda validate".
//
// # Exit Codes
//
//   - 0: record passed evaluation
//   - 1: record failed evaluation (a Diagnostic)
//   - 2: structural error (bad flags, unreadable file, DirectiveError)
func runValidate(cmd *cobra.Command, args []string) {
	logger, runID := newRunLogger()
	defer logger.Close()

	valid, diag, err, _ := runOneEvaluation(logger)
	if err != nil {
		if jsonOutput {
			OutputJSON(ValidateResult{RunID: runID, Valid: false, Error: err.Error()})
		} else {
			OutputError("validation errored", err)
		}
		os.Exit(CLIExitError)
	}

	if diag != nil {
		if jsonOutput {
			OutputJSON(ValidateResult{RunID: runID, Valid: false, Error: diag.Error()})
		} else {
			fmt.Println(diag.Error())
		}
		os.Exit(CLIExitInvalid)
	}

	if jsonOutput {
		OutputJSON(ValidateResult{RunID: runID, Valid: valid})
	} else {
		fmt.Println("valid")
	}
	os.Exit(CLIExitSuccess)
}
