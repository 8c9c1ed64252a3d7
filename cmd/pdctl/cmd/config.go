package cmd

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// loadConfig reads a TOML file whose keys are flag names. Top-level keys
// apply to every command; a table named after a command applies to that
// command only:
//
//	log-level = "debug"
//
//	[roundtrip]
//	passes = 8
//	gain = 1.5
func loadConfig(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	var cfg map[string]any
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// applyConfig sets every flag of cmd named in cfg that was not given on the
// command line.
func applyConfig(cmd *cobra.Command, cfg map[string]any) error {
	fs := cmd.Flags()
	for key, val := range cfg {
		if table, ok := val.(map[string]any); ok {
			if key != cmd.Name() {
				continue
			}
			for k, v := range table {
				if err := setFlag(fs, k, v); err != nil {
					return fmt.Errorf("config [%s]: %w", key, err)
				}
			}
			continue
		}
		if fs.Lookup(key) == nil {
			// shared keys may belong to another command
			continue
		}
		if err := setFlag(fs, key, val); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

func setFlag(fs *pflag.FlagSet, name string, val any) error {
	f := fs.Lookup(name)
	if f == nil {
		return fmt.Errorf("unknown flag %q", name)
	}
	if f.Changed {
		return nil
	}
	if err := fs.Set(name, fmt.Sprint(val)); err != nil {
		return fmt.Errorf("flag %q: %w", name, err)
	}
	return nil
}
