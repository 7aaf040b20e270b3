// Package config holds the harness defaults, optionally overridden by a
// TOML file. Precedence is flags over file over built-in defaults; the
// merge happens in the CLI layer, which only applies file values for
// flags the user did not set.
package config

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the harness configuration surface.
type Config struct {
	// Seed drives the deterministic injection plan.
	Seed uint64 `toml:"seed"`

	// MaxEvents caps the run loop.
	MaxEvents int `toml:"max_events"`

	// Spacing scales the grid layout.
	Spacing int `toml:"spacing"`

	// Demo is the program source path.
	Demo string `toml:"demo"`

	// CppExe skips the reference build and uses this binary directly.
	CppExe string `toml:"cpp_exe"`

	// KernelDir is the reference kernel's CMake source directory.
	KernelDir string `toml:"kernel_dir"`

	// BuildDir is where the reference build is configured.
	BuildDir string `toml:"build_dir"`

	// DB is the run-ledger path; empty disables the ledger.
	DB string `toml:"db"`
}

// Default returns the built-in configuration: the canonical seed 42,
// 1000-event cap, unit grid spacing.
func Default() Config {
	return Config{
		Seed:      42,
		MaxEvents: 1000,
		Spacing:   1,
	}
}

func parse(r io.Reader) (Config, error) {
	cfg := Default()
	meta, err := toml.NewDecoder(r).Decode(&cfg)
	if err != nil {
		return Config{}, err
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, fmt.Errorf("unknown configuration key %q", undecoded[0].String())
	}
	return cfg, nil
}

// LoadFile reads a TOML configuration file over the built-in defaults.
func LoadFile(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("opening config: %w", err)
	}
	defer f.Close()

	cfg, err := parse(f)
	if err != nil {
		return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return cfg, nil
}
