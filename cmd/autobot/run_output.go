package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gorewood/autobot/internal/lifecycle"
	"github.com/gorewood/autobot/internal/output"
)

// addToolFlag registers --tool on an AI command.
func addToolFlag(cmd *cobra.Command, tool *string) {
	cmd.Flags().StringVarP(tool, "tool", "t", "", "AI tool adapter to use (default from config, then claude)")
}

// reportRun prints the outcome of an AI run and returns runErr mapped to
// an exit code. res may be nil when the run never started.
func reportRun(printer *output.Printer, res *lifecycle.Result, runErr error) error {
	if res == nil {
		return fail(printer, runErr)
	}
	if printer.IsJSON() {
		return reportRunJSON(printer, res, runErr)
	}

	if runErr != nil {
		if res.Caveat != "" {
			printer.Warn("%s", res.Caveat)
		}
		if res.Restored {
			printer.Note("The spec was restored to its previous content: %s", res.SpecPath)
		}
		reportEditor(printer, res)
		return fail(printer, runErr)
	}

	reportEditor(printer, res)
	switch res.Outcome {
	case lifecycle.OutcomeApplied:
		reportApplied(printer, res)
	case lifecycle.OutcomeUnverified:
		reportUnverified(printer, res)
	}
	return nil
}

func reportRunJSON(printer *output.Printer, res *lifecycle.Result, runErr error) error {
	if runErr == nil {
		return printer.WriteJSON(res)
	}
	err := toExitError(runErr)
	if writeErr := printer.WriteJSON(map[string]any{
		"error":  err.Error(),
		"code":   output.GetExitCode(err),
		"result": res,
	}); writeErr != nil {
		return writeErr
	}
	return err
}

func reportApplied(printer *output.Printer, res *lifecycle.Result) {
	switch {
	case res.Verb == "generate":
		printer.Println(fmt.Sprintf("Generated from spec %s with %s in %s", res.Spec, res.Adapter, formatDuration(res.Duration)))
	case res.SavedOutput:
		printer.Println(fmt.Sprintf("Saved %s output to %s", res.Adapter, res.SpecPath))
	default:
		printer.Println(fmt.Sprintf("Spec %s updated by %s: %s", res.Spec, res.Adapter, res.SpecPath))
	}
}

func reportUnverified(printer *output.Printer, res *lifecycle.Result) {
	if res.Verb != "infer" {
		printer.Warn("%s exited successfully but did not change %s", res.Adapter, res.SpecPath)
		return
	}
	printer.Warn("%s exited successfully but did not write %s", res.Adapter, res.SpecPath)
	if strings.TrimSpace(res.Stdout) != "" {
		printer.Box("AI tool output", strings.TrimRight(res.Stdout, "\n"))
		printer.Note("Rerun with --save-output to write this output to the spec.")
	}
}

func reportEditor(printer *output.Printer, res *lifecycle.Result) {
	switch {
	case res.ManualEdit:
		printer.Warn("%s", lifecycle.ManualEditMessage(res.SpecPath))
	case res.EditorError != "":
		printer.Warn("%s failed on %s: %s", res.EditorUsed, res.SpecPath, res.EditorError)
	case res.EditorUsed != "":
		printer.Note("Opened %s in %s.", res.SpecPath, res.EditorUsed)
	}
}

// reportCancelled handles a declined update, which is not a failure.
func reportCancelled(printer *output.Printer, err error) (bool, error) {
	if !errors.Is(err, lifecycle.ErrCancelled) {
		return false, nil
	}
	if printer.IsJSON() {
		return true, printer.Success(map[string]any{"status": "cancelled", "message": "Update cancelled."})
	}
	printer.Println("Update cancelled.")
	return true, nil
}

func formatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return d.Round(time.Second).String()
}
