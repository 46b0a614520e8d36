package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/voxelsplace/plyslim/internal/logging"
)

const rootLong = `plyslim rewrites PLY point clouds with a subset of their vertex properties.

By default it removes the higher-order spherical harmonic coefficients
(f_rest_*) of a Gaussian splat and keeps positions, scales, rotations,
opacity and the direct colour (f_dc_*). Kept values are copied bit for bit.

Settings are read from plyslim.yaml in the working directory, then from
PLYSLIM_* environment variables (a .env file is loaded first), then from flags.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  20 - Malformed PLY header
  21 - Truncated PLY payload
  22 - Nothing to remove
  23 - Every vertex property would be removed`

// newRootCmd builds the command tree. Each call returns fresh flag state.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "plyslim",
		Short:         "Strip higher-order spherical harmonics from Gaussian splat PLY files",
		Long:          rootLong,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
	root.AddCommand(
		newSimplifyCmd(),
		newInspectCmd(),
		newGLBCmd(),
		newPackCmd(),
		newUnpackCmd(),
		newGenCmd(),
		newVersionCmd(),
	)
	return root
}

// Execute runs the root command. SIGINT stops batches between files.
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err := newRootCmd().ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	return err
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}

func newLogger(cmd *cobra.Command) logging.Logger {
	return logging.NewConsoleLogger(getVerboseFlag(cmd))
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
