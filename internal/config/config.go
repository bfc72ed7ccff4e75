package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/l1jgo/factory/internal/world"
	"go.uber.org/multierr"
)

type Config struct {
	Sim       SimConfig       `toml:"sim"`
	Tuning    TuningConfig    `toml:"tuning"`
	Spatial   SpatialConfig   `toml:"spatial"`
	Layout    LayoutConfig    `toml:"layout"`
	Scripting ScriptingConfig `toml:"scripting"`
	Report    ReportConfig    `toml:"report"`
	Logging   LoggingConfig   `toml:"logging"`
}

type SimConfig struct {
	TickRate       time.Duration `toml:"tick_rate"`
	MaxEntities    int           `toml:"max_entities"`     // per column, sentinel slot included
	CheckFreeSpace bool          `toml:"check_free_space"` // false lets footprints overlap
	FactorySize    int           `toml:"factory_size"`     // 2 or 3
}

type TuningConfig struct {
	MinerWorkPerItem   int `toml:"miner_work_per_item"`
	FactoryWorkPerItem int `toml:"factory_work_per_item"`
	BeltWorkPerItem    int `toml:"belt_work_per_item"`
	FactoryOutputItem  int `toml:"factory_output_item"`
	MinerItemKinds     int `toml:"miner_item_kinds"`
}

type SpatialConfig struct {
	RootExtent int32 `toml:"root_extent"` // half width of the quad tree root, power of two
}

type LayoutConfig struct {
	Path string `toml:"path"` // empty = no layout
}

type ScriptingConfig struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type ReportConfig struct {
	IntervalTicks int `toml:"interval_ticks"` // 0 = off
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Default returns the built-in configuration.
func Default() *Config { return defaults() }

func defaults() *Config {
	return &Config{
		Sim: SimConfig{
			TickRate:       50 * time.Millisecond,
			MaxEntities:    100_000,
			CheckFreeSpace: true,
			FactorySize:    2,
		},
		Tuning: TuningConfig{
			MinerWorkPerItem:   40,
			FactoryWorkPerItem: 120,
			BeltWorkPerItem:    10,
			FactoryOutputItem:  9,
			MinerItemKinds:     4,
		},
		Spatial: SpatialConfig{
			RootExtent: 1 << 16,
		},
		Layout: LayoutConfig{
			Path: "data/yaml/layout.yaml",
		},
		Scripting: ScriptingConfig{
			Enabled: true,
			Dir:     "scripts",
		},
		Report: ReportConfig{
			IntervalTicks: 200,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	var err error
	if c.Sim.TickRate <= 0 {
		err = multierr.Append(err, errors.New("sim.tick_rate must be positive"))
	}
	if c.Sim.MaxEntities < 2 {
		err = multierr.Append(err, errors.New("sim.max_entities must leave room past the sentinel slot"))
	}
	if c.Sim.FactorySize != 2 && c.Sim.FactorySize != 3 {
		err = multierr.Append(err, fmt.Errorf("sim.factory_size %d: want 2 or 3", c.Sim.FactorySize))
	}
	if c.Tuning.MinerWorkPerItem < 1 || c.Tuning.FactoryWorkPerItem < 1 {
		err = multierr.Append(err, errors.New("tuning work thresholds must be at least 1"))
	}
	if c.Tuning.BeltWorkPerItem < 1 || c.Tuning.BeltWorkPerItem > 255 {
		err = multierr.Append(err, fmt.Errorf("tuning.belt_work_per_item %d: want 1..255", c.Tuning.BeltWorkPerItem))
	}
	if c.Tuning.FactoryOutputItem < 1 || c.Tuning.FactoryOutputItem > 255 {
		err = multierr.Append(err, fmt.Errorf("tuning.factory_output_item %d: want 1..255", c.Tuning.FactoryOutputItem))
	}
	if c.Tuning.MinerItemKinds < 1 || c.Tuning.MinerItemKinds > 254 {
		err = multierr.Append(err, fmt.Errorf("tuning.miner_item_kinds %d: want 1..254", c.Tuning.MinerItemKinds))
	}
	if e := c.Spatial.RootExtent; e <= 0 || e&(e-1) != 0 {
		err = multierr.Append(err, fmt.Errorf("spatial.root_extent %d: want a power of two", e))
	}
	return err
}

// World converts the simulation, tuning and spatial sections into world
// options.
func (c *Config) World() world.Options {
	return world.Options{
		Capacity:       c.Sim.MaxEntities,
		CheckFreeSpace: c.Sim.CheckFreeSpace,
		Extent:         c.Spatial.RootExtent,
		Tuning: world.Tuning{
			MinerWorkPerItem:   uint32(c.Tuning.MinerWorkPerItem),
			FactoryWorkPerItem: uint32(c.Tuning.FactoryWorkPerItem),
			BeltWorkPerItem:    uint8(c.Tuning.BeltWorkPerItem),
			FactoryOutput:      world.Item(c.Tuning.FactoryOutputItem),
			MinerItemKinds:     uint8(c.Tuning.MinerItemKinds),
			FactorySize:        uint8(c.Sim.FactorySize),
		},
	}
}
