/*
Package config loads the CLI demo's run configuration (spec.md §6, "CLI...
flags only for: dataset path, run mode, dt, t_max, seed"). TOML is the
donor corpus's configuration format of choice; BurntSushi/toml is used the
same way the rest of the ecosystem examples wire it, a direct Unmarshal
into a plain struct.
*/
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config is the CLI demo's run configuration.
type Config struct {
	DatasetPath string  `toml:"dataset_path"`
	Mode        string  `toml:"mode"` // "event" or "clock"
	Dt          float64 `toml:"dt"`
	TMax        float64 `toml:"t_max"`
	Seed        int64   `toml:"seed"`
	SpikeLog    string  `toml:"spike_log"`
	SavePath    string  `toml:"save_path"`
}

// Default returns the demo's baseline configuration.
func Default() Config {
	return Config{
		Mode: "event",
		Dt:   0,
		TMax: 1.0,
		Seed: 1,
	}
}

// Load reads and validates a TOML config file.
func Load(path string) (Config, error) {
	cfg := Default()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate rejects configurations the facade could not act on
// (spec.md §7, "Configuration error... fail fast at construction").
func (c Config) Validate() error {
	if c.Mode != "event" && c.Mode != "clock" {
		return fmt.Errorf("config: mode must be \"event\" or \"clock\", got %q", c.Mode)
	}
	if c.Mode == "clock" && c.Dt <= 0 {
		return fmt.Errorf("config: clock mode requires dt > 0")
	}
	if c.TMax <= 0 {
		return fmt.Errorf("config: t_max must be > 0")
	}
	return nil
}
