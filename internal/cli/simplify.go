package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxelsplace/plyslim/ply"
	"github.com/voxelsplace/plyslim/utils"
)

type simplifyFlags struct {
	output    string
	manifest  string
	configDir string
}

func newSimplifyCmd() *cobra.Command {
	var flags simplifyFlags
	cmd := &cobra.Command{
		Use:   "simplify <file.ply>...",
		Short: "Remove vertex properties from PLY files",
		Long: `Rewrite each PLY file without the vertex properties whose names start with a
drop prefix (f_rest_ unless configured otherwise). Output goes next to the
input as <name><suffix>.ply, or to --output when a single file is given.

Files with nothing to remove are skipped. A single such file exits with code 22.`,
		Example: `  plyslim simplify scene.ply
  plyslim simplify -o small.ply scene.ply
  plyslim simplify --workers 4 --manifest run.yaml captures/*.ply
  plyslim simplify --drop-prefix f_rest_ --drop-prefix f_dc_ scene.ply`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimplify(cmd, flags, args)
		},
	}
	f := cmd.Flags()
	f.StringVarP(&flags.output, "output", "o", "", "Output path (single input only)")
	f.StringVarP(&flags.manifest, "manifest", "m", "", "Write a YAML run manifest to this path")
	f.StringVar(&flags.configDir, "config-dir", ".", "Directory searched for plyslim.yaml")
	// Read through resolveSettings so that unset flags fall back to config.
	f.StringP("suffix", "s", "_dc", "Suffix added to output file names")
	f.StringArray("drop-prefix", []string{ply.HigherOrderPrefix}, "Remove vertex properties with this name prefix (repeatable)")
	f.IntP("workers", "w", 1, "Files processed in parallel")
	f.Bool("compress", false, "Write zstd-compressed output (.ply.zst)")
	return cmd
}

func runSimplify(cmd *cobra.Command, flags simplifyFlags, args []string) error {
	if flags.output != "" && len(args) > 1 {
		return fmt.Errorf("%w: --output needs exactly one input, got %d", ErrUsage, len(args))
	}
	cfg, err := resolveSettings(cmd, flags.configDir)
	if err != nil {
		return err
	}
	log := newLogger(cmd)
	log.Verbose("dropping prefixes %v, suffix %q, %d worker(s)", cfg.DropPrefixes, cfg.Suffix, cfg.Workers)

	opts := utils.SimplifyOptions{
		Keep:     ply.DropPrefixes(cfg.DropPrefixes...),
		Suffix:   cfg.Suffix,
		Output:   flags.output,
		Workers:  cfg.Workers,
		Compress: cfg.Compress,
	}
	outcomes, runErr := utils.RunSimplifyFiles(commandContext(cmd), args, opts, log)

	if flags.manifest != "" && len(outcomes) > 0 {
		m := utils.NewManifest(cfg.DropPrefixes, outcomes)
		if err := m.WriteFile(flags.manifest); err != nil {
			log.Error("failed to write manifest: %v", err)
			if runErr == nil {
				runErr = err
			}
		} else {
			log.Verbose("manifest %s written (run %s)", flags.manifest, m.RunID)
		}
	}
	return runErr
}
