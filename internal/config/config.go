package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/voxelsplace/plyslim/ply"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

// ErrInvalidConfig marks values that parse but cannot be used.
var ErrInvalidConfig = errors.New("invalid config")

// Config holds the simplify defaults shared by the CLI commands.
type Config struct {
	DropPrefixes []string `yaml:"drop_prefixes"`
	Suffix       string   `yaml:"suffix"`
	Workers      int      `yaml:"workers"`
	Compress     bool     `yaml:"compress"`
}

const ConfigFileName = "plyslim.yaml"

// Environment variables read by ApplyEnv.
const (
	EnvDropPrefixes = "PLYSLIM_DROP_PREFIXES"
	EnvSuffix       = "PLYSLIM_SUFFIX"
	EnvWorkers      = "PLYSLIM_WORKERS"
)

// Default returns the built-in settings: drop f_rest_*, write <name>_dc.ply,
// one worker.
func Default() Config {
	return Config{
		DropPrefixes: []string{ply.HigherOrderPrefix},
		Suffix:       "_dc",
		Workers:      1,
	}
}

// Load reads plyslim.yaml from dir. Keys missing from the file keep their
// Default value.
func Load(dir string) (*Config, error) {
	configPath := filepath.Join(dir, ConfigFileName)
	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigFileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", ConfigFileName, err)
	}
	return &cfg, nil
}

// ApplyEnv overrides fields from the environment. getenv is usually os.Getenv.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if v := getenv(EnvDropPrefixes); v != "" {
		c.DropPrefixes = splitList(v)
	}
	if v := getenv(EnvSuffix); v != "" {
		c.Suffix = v
	}
	if v := getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q is not an integer", ErrInvalidConfig, EnvWorkers, v)
		}
		c.Workers = n
	}
	return c.Validate()
}

// Validate rejects settings that would make simplify overwrite its input or
// remove nothing.
func (c Config) Validate() error {
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Suffix == "" {
		return fmt.Errorf("%w: suffix must not be empty", ErrInvalidConfig)
	}
	if strings.ContainsAny(c.Suffix, `/\`) {
		return fmt.Errorf("%w: suffix %q contains a path separator", ErrInvalidConfig, c.Suffix)
	}
	if len(c.DropPrefixes) == 0 {
		return fmt.Errorf("%w: drop_prefixes is empty", ErrInvalidConfig)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
