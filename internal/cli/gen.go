package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxelsplace/plyslim/utils"
)

func newGenCmd() *cobra.Command {
	var opts utils.GenerateOptions
	cmd := &cobra.Command{
		Use:   "gen <output_dir>",
		Short: "Generate random Gaussian splat PLY files",
		Long: `Generate synthetic binary little-endian splat files named 0.ply, 1.ply, ...
with the vertex layout of a 3D Gaussian splatting trainer. Useful as
benchmark input for simplify.`,
		Example: `  plyslim gen --count 4 --vertices 100000 bench/`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Degree < 0 || opts.Degree > utils.MaxSHDegree {
				return fmt.Errorf("%w: --degree must be in [0,%d]", ErrUsage, utils.MaxSHDegree)
			}
			if opts.Vertices < 0 || opts.Amount < 0 {
				return fmt.Errorf("%w: --count and --vertices must not be negative", ErrUsage)
			}
			paths, err := utils.RunGenerateSplats(opts, args[0])
			log := newLogger(cmd)
			for _, p := range paths {
				log.Verbose("wrote %s", p)
			}
			if err != nil {
				return err
			}
			log.Info("generated %d file(s) in %s", len(paths), args[0])
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVarP(&opts.Amount, "count", "n", 1, "Number of files")
	f.IntVar(&opts.Vertices, "vertices", 1000, "Vertices per file")
	f.IntVar(&opts.Degree, "degree", utils.MaxSHDegree, "Spherical harmonic degree")
	f.Int64Var(&opts.Seed, "seed", 0, "Random seed (0 picks one from the clock)")
	return cmd
}
