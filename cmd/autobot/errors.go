package main

import (
	"errors"

	"github.com/gorewood/autobot/internal/adapter"
	"github.com/gorewood/autobot/internal/config"
	"github.com/gorewood/autobot/internal/digest"
	"github.com/gorewood/autobot/internal/output"
	"github.com/gorewood/autobot/internal/prompt"
	"github.com/gorewood/autobot/internal/spec"
)

// toExitError maps a domain error to the exit code the CLI reports.
// Errors that already carry an exit code pass through unchanged.
func toExitError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, spec.ErrAlreadyExists):
		return output.Wrap(output.ExitConflict, err)
	case errors.Is(err, spec.ErrNotFound),
		errors.Is(err, digest.ErrRootNotFound),
		errors.Is(err, prompt.ErrMetaMissing),
		errors.Is(err, adapter.ErrNotFound),
		errors.Is(err, spec.ErrInvalidName),
		errors.Is(err, config.ErrUnknownKey),
		errors.Is(err, config.ErrInvalidValue):
		return output.Wrap(output.ExitUserError, err)
	default:
		// Contract violations, subprocess failures and I/O errors.
		return output.Wrap(output.ExitSystemError, err)
	}
}

// fail prints err through printer and returns it with its exit code.
func fail(printer *output.Printer, err error) error {
	err = toExitError(err)
	printer.Error(err)
	return err
}
