package cli

import (
	"errors"
	"strings"

	"github.com/voxelsplace/plyslim/internal/config"
	"github.com/voxelsplace/plyslim/ply"
	"github.com/voxelsplace/plyslim/utils"
)

// Exit codes for semantic error classification.
const (
	ExitSuccess         = 0  // Completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitMalformedHeader = 20 // PLY header could not be parsed
	ExitTruncated       = 21 // PLY payload shorter than declared
	ExitNoChange        = 22 // Nothing to remove
	ExitNothingKept     = 23 // Every vertex property would be removed
)

// ErrUsage marks argument combinations cobra cannot validate on its own.
var ErrUsage = errors.New("usage error")

// cobra and pflag report usage problems as plain errors.
var usagePatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
	"flag needs an argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrUsage), errors.Is(err, utils.ErrNotPLY):
		return ExitUsageError
	case errors.Is(err, config.ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ply.ErrMalformedHeader):
		return ExitMalformedHeader
	case errors.Is(err, ply.ErrTruncatedPayload):
		return ExitTruncated
	case errors.Is(err, ply.ErrNoChange):
		return ExitNoChange
	case errors.Is(err, ply.ErrNothingKept):
		return ExitNothingKept
	}

	msg := err.Error()
	for _, p := range usagePatterns {
		if strings.Contains(msg, p) {
			return ExitUsageError
		}
	}
	return ExitGeneralError
}
