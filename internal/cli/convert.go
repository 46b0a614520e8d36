package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/voxelsplace/plyslim/plypack"
	"github.com/voxelsplace/plyslim/utils"
)

func newGLBCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "glb <in.ply> <out.glb>",
		Short: "Export a PLY splat as a glTF point cloud preview",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			newLogger(cmd).Verbose("converting %s -> %s", args[0], args[1])
			return utils.RunPLY2GLB(args[0], args[1])
		},
	}
}

func newPackCmd() *cobra.Command {
	var compression string
	cmd := &cobra.Command{
		Use:   "pack <out.plypack> <file.ply>...",
		Short: "Bundle PLY files into one .plypack",
		Long: `Bundle PLY files into one .plypack container. Identical files are stored
once. zstd-compressed inputs are stored uncompressed inside the pack.`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			comp, err := plypack.ParseCompression(compression)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrUsage, err)
			}
			return utils.CreatePack(args[1:], args[0], comp, newLogger(cmd))
		},
	}
	cmd.Flags().StringVarP(&compression, "compression", "c", "zstd", "Content compression: none, zlib or zstd")
	return cmd
}

func newUnpackCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unpack <in.plypack> <dir>",
		Short: "Extract the PLY files of a .plypack into a directory",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return utils.UnpackToDir(args[0], args[1])
		},
	}
}
