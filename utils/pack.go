package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/voxelsplace/plyslim/api"
	"github.com/voxelsplace/plyslim/internal/logging"
	"github.com/voxelsplace/plyslim/plypack"
)

// CreatePack reads PLY files and writes a .plypack to outputFile. Entries
// are named by file base name, which must be unique.
func CreatePack(inputFiles []string, outputFile string, comp plypack.Compression, log logging.Logger) error {
	if len(inputFiles) == 0 {
		return fmt.Errorf("no .ply files provided")
	}
	if log == nil {
		log = logging.NewNullLogger()
	}
	files := make(map[string][]byte, len(inputFiles))
	blobs := make([][]byte, len(inputFiles))

	var g errgroup.Group
	for i, path := range inputFiles {
		g.Go(func() error {
			b, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			blobs[i] = b
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i, path := range inputFiles {
		name := filepath.Base(path)
		if _, dup := files[name]; dup {
			return fmt.Errorf("duplicate entry name %s (%s)", name, path)
		}
		files[name] = blobs[i]
	}

	start := time.Now()
	data, err := api.PackPLYs(files, comp)
	if err != nil {
		return err
	}
	log.Verbose("packing %d files (%s) took %d ms", len(files), comp, time.Since(start).Milliseconds())
	return os.WriteFile(outputFile, data, 0o644)
}

// UnpackToDir writes the PLY files of a .plypack into outputDir.
func UnpackToDir(packFile, outputDir string) error {
	data, err := os.ReadFile(packFile)
	if err != nil {
		return err
	}
	pack, _, err := plypack.Unmarshal(data)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(pack.Entries))
	for _, e := range pack.Entries {
		if !safeEntryName(e.Name) {
			return fmt.Errorf("unsafe entry name %q", e.Name)
		}
		if seen[e.Name] {
			return fmt.Errorf("duplicate entry name %q", e.Name)
		}
		seen[e.Name] = true
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	var g errgroup.Group
	for _, e := range pack.Entries {
		g.Go(func() error {
			return os.WriteFile(filepath.Join(outputDir, e.Name), e.Data, 0o644)
		})
	}
	return g.Wait()
}

func safeEntryName(name string) bool {
	return name != "" && name != "." && name != ".." &&
		!strings.ContainsAny(name, `/\`) && filepath.Base(name) == name
}
