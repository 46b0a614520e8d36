package cli

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/voxelsplace/plyslim/internal/config"
	"github.com/voxelsplace/plyslim/ply"
	"github.com/voxelsplace/plyslim/utils"
)

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"plain", errors.New("disk on fire"), ExitGeneralError},
		{"usage", fmt.Errorf("%w: --output needs exactly one input", ErrUsage), ExitUsageError},
		{"not ply", fmt.Errorf("notes.txt: %w", utils.ErrNotPLY), ExitUsageError},
		{"cobra args", errors.New("requires at least 1 arg(s), only received 0"), ExitUsageError},
		{"cobra exact args", errors.New("accepts 2 arg(s), received 1"), ExitUsageError},
		{"unknown flag", errors.New("unknown flag: --bogus"), ExitUsageError},
		{"unknown command", errors.New(`unknown command "slim" for "plyslim"`), ExitUsageError},
		{"invalid flag value", errors.New(`invalid argument "x" for "-w, --workers" flag`), ExitUsageError},
		{"config", fmt.Errorf("plyslim.yaml: %w", config.ErrInvalidConfig), ExitConfigError},
		{"malformed", fmt.Errorf("a.ply: %w", ply.ErrMalformedHeader), ExitMalformedHeader},
		{"truncated", fmt.Errorf("a.ply: %w", ply.ErrTruncatedPayload), ExitTruncated},
		{"no change", fmt.Errorf("a.ply: %w", ply.ErrNoChange), ExitNoChange},
		{"nothing kept", fmt.Errorf("a.ply: %w", ply.ErrNothingKept), ExitNothingKept},
		{"batch wraps first failure", fmt.Errorf("1 of 3 files failed: %w", fmt.Errorf("b.ply: %w", ply.ErrTruncatedPayload)), ExitTruncated},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExitCodeForError(tt.err))
		})
	}
}
