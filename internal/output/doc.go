// Package output renders command results for the autobot CLI.
//
// Commands build one Printer per invocation and route every result and
// error through it, so the same command works for a person at a terminal
// and for a script reading --json:
//
//	printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), output.ColorAuto.Enabled(cmd.OutOrStdout()))
//	printer.Success(map[string]any{"message": "Created spec todo-app", "path": path})
//	printer.Error(err)
//
// # Exit Codes
//
//	output.ExitSuccess     // 0: success, including a declined confirmation
//	output.ExitUserError   // 1: bad input, unknown spec/adapter/path, missing meta document
//	output.ExitSystemError // 2: I/O failure, AI tool exited non-zero, adapter contract broken
//	output.ExitConflict    // 3: spec already exists
//
// Errors created with the New*Error constructors or Wrap carry their exit
// code; GetExitCode recovers it for os.Exit.
package output
