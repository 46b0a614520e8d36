package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/voxelsplace/plyslim/internal/config"
)

// resolveSettings layers defaults, plyslim.yaml from dir, PLYSLIM_*
// variables and the flags the user actually set, in that order.
func resolveSettings(cmd *cobra.Command, dir string) (config.Config, error) {
	_ = godotenv.Load()

	cfg := config.Default()
	fileCfg, err := config.Load(dir)
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
	case err != nil:
		return cfg, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	default:
		cfg = *fileCfg
	}
	if err := cfg.ApplyEnv(os.Getenv); err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("drop-prefix") {
		cfg.DropPrefixes, _ = flags.GetStringArray("drop-prefix")
	}
	if flags.Changed("suffix") {
		cfg.Suffix, _ = flags.GetString("suffix")
	}
	if flags.Changed("workers") {
		cfg.Workers, _ = flags.GetInt("workers")
	}
	if flags.Changed("compress") {
		cfg.Compress, _ = flags.GetBool("compress")
	}
	return cfg, cfg.Validate()
}
