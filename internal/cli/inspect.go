package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/voxelsplace/plyslim/api"
	"github.com/voxelsplace/plyslim/ply"
)

type inspectFlags struct {
	dump         bool
	asYAML       bool
	dropPrefixes []string
}

func newInspectCmd() *cobra.Command {
	var flags inspectFlags
	cmd := &cobra.Command{
		Use:   "inspect <file.ply>",
		Short: "Show the header of a PLY file and what simplify would remove",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, flags, args[0])
		},
	}
	f := cmd.Flags()
	f.BoolVar(&flags.dump, "dump", false, "Dump the parsed header structure")
	f.BoolVar(&flags.asYAML, "yaml", false, "Print the summary as YAML")
	f.StringArrayVar(&flags.dropPrefixes, "drop-prefix", []string{ply.HigherOrderPrefix}, "Prefix counted as removable (repeatable)")
	return cmd
}

func runInspect(cmd *cobra.Command, flags inspectFlags, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	info, header, err := api.Inspect(data, ply.DropPrefixes(flags.dropPrefixes...))
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	out := cmd.OutOrStdout()

	switch {
	case flags.dump:
		cfg := spew.ConfigState{Indent: "  ", DisablePointerAddresses: true, DisableCapacities: true, SortKeys: true}
		cfg.Fdump(out, header)
	case flags.asYAML:
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(info); err != nil {
			return err
		}
		return enc.Close()
	default:
		printInfo(out, path, info)
	}
	return nil
}

func printInfo(w io.Writer, name string, info *api.Info) {
	fmt.Fprintf(w, "%s\n", name)
	format := info.Format + " " + info.Version
	if info.Compressed {
		format += " (zstd)"
	}
	fmt.Fprintf(w, "  format:      %s\n", format)
	fmt.Fprintf(w, "  vertices:    %d\n", info.Vertices)
	fmt.Fprintf(w, "  record size: %d bytes\n", info.RecordSize)
	fmt.Fprintf(w, "  header:      %d bytes\n", info.HeaderBytes)
	fmt.Fprintf(w, "  payload:     %d bytes\n", info.PayloadBytes)
	fmt.Fprintf(w, "  xxhash:      %s\n", info.Fingerprint)
	var elems []string
	for _, e := range info.Elements {
		elems = append(elems, fmt.Sprintf("%s(%d)", e.Name, e.Count))
	}
	fmt.Fprintf(w, "  elements:    %s\n", strings.Join(elems, " "))
	fmt.Fprintf(w, "  properties:  %d, %d removable\n", len(info.Properties), info.Removable)
	for _, p := range info.Properties {
		mark := " "
		if p.Removable {
			mark = "-"
		}
		fmt.Fprintf(w, "    %s %-8s %s\n", mark, p.Type, p.Name)
	}
}
