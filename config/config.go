// Package config loads the sidecar's YAML configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	SocketPath string `yaml:"socket_path"`
	// SpawnName selects the primary spawn. Empty uses the first spawn in
	// each snapshot.
	SpawnName string `yaml:"spawn_name"`
	LogLevel  string `yaml:"log_level"`

	Memory     Memory     `yaml:"memory"`
	Journal    Journal    `yaml:"journal"`
	Tuning     Tuning     `yaml:"tuning"`
	Production Production `yaml:"production"`
}

type Memory struct {
	Backend     string `yaml:"backend"` // memory | sqlite | redis
	SQLitePath  string `yaml:"sqlite_path"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`
}

// Journal enables the per-tick zstd journal when Dir is set.
type Journal struct {
	Dir string `yaml:"dir"`
}

// Tuning holds the creep controller's targeting and pathing constants.
type Tuning struct {
	SourceCrowdRadius int `yaml:"source_crowd_radius"`

	GatherReusePath   int `yaml:"gather_reuse_path"`
	TransferReusePath int `yaml:"transfer_reuse_path"`
	BuildReusePath    int `yaml:"build_reuse_path"`
	UpgradeReusePath  int `yaml:"upgrade_reuse_path"`
	UpgradeRange      int `yaml:"upgrade_range"`

	// TransferPriorities ranks fill targets by structure type; lower wins.
	// Fill types missing from the map rank last. A configured table replaces
	// the default table as a whole.
	TransferPriorities map[string]int `yaml:"transfer_priorities"`
}

// Production holds the planner's thresholds.
type Production struct {
	MinSpawnEnergy int `yaml:"min_spawn_energy"`

	GathererLowEnergy     int     `yaml:"gatherer_low_energy"`
	GathererShortage      int     `yaml:"gatherer_shortage"`
	GathererPerSource     int     `yaml:"gatherer_per_source"`
	GathererMax           int     `yaml:"gatherer_max"`
	BuilderBacklogSites   int     `yaml:"builder_backlog_sites"`
	BuilderBusyWork       int     `yaml:"builder_busy_work"`
	BuilderMax            int     `yaml:"builder_max"`
	BuilderDamageRatio    float64 `yaml:"builder_damage_ratio"`
	UpgraderDowngradeRisk int     `yaml:"upgrader_downgrade_risk"`
	UpgraderNearLevelUp   float64 `yaml:"upgrader_near_level_up"`
	UpgraderMax           int     `yaml:"upgrader_max"`
}

// Default returns the configuration every unset field falls back to.
func Default() Config {
	return Config{
		SocketPath: "/tmp/burrow.sock",
		SpawnName:  "",
		LogLevel:   "info",
		Memory: Memory{
			Backend:     "memory",
			SQLitePath:  "data/creeps.db",
			RedisPrefix: "burrow",
		},
		Tuning: Tuning{
			SourceCrowdRadius: 2,
			GatherReusePath:   10,
			TransferReusePath: 10,
			BuildReusePath:    10,
			UpgradeReusePath:  15,
			UpgradeRange:      3,
			TransferPriorities: map[string]int{
				"spawn":     0,
				"extension": 1,
				"tower":     2,
			},
		},
		Production: Production{
			MinSpawnEnergy:        250,
			GathererLowEnergy:     500,
			GathererShortage:      1000,
			GathererPerSource:     3,
			GathererMax:           6,
			BuilderBacklogSites:   5,
			BuilderBusyWork:       3,
			BuilderMax:            3,
			BuilderDamageRatio:    0.8,
			UpgraderDowngradeRisk: 2000,
			UpgraderNearLevelUp:   0.8,
			UpgraderMax:           4,
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return c, err
	}
	// A configured priority table replaces the default one instead of
	// merging into it; Validate restores the default when none is given.
	c.Tuning.TransferPriorities = nil
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	c.Validate()
	return c, nil
}

// Validate clamps values to ranges the controllers can work with.
func (c *Config) Validate() {
	d := Default()
	if c.SocketPath == "" {
		c.SocketPath = d.SocketPath
	}
	t := &c.Tuning
	t.SourceCrowdRadius = clampInt(t.SourceCrowdRadius, 0, 10)
	t.GatherReusePath = clampInt(t.GatherReusePath, 0, 100)
	t.TransferReusePath = clampInt(t.TransferReusePath, 0, 100)
	t.BuildReusePath = clampInt(t.BuildReusePath, 0, 100)
	t.UpgradeReusePath = clampInt(t.UpgradeReusePath, 0, 100)
	t.UpgradeRange = clampInt(t.UpgradeRange, 1, 3)
	if len(t.TransferPriorities) == 0 {
		t.TransferPriorities = d.Tuning.TransferPriorities
	}

	p := &c.Production
	p.MinSpawnEnergy = max(p.MinSpawnEnergy, 200)
	p.GathererPerSource = max(p.GathererPerSource, 1)
	p.GathererMax = max(p.GathererMax, 1)
	p.BuilderMax = max(p.BuilderMax, 1)
	p.UpgraderMax = max(p.UpgraderMax, 1)
	p.BuilderDamageRatio = clamp(p.BuilderDamageRatio, 0, 1)
	p.UpgraderNearLevelUp = clamp(p.UpgraderNearLevelUp, 0, 1)
}

// SlogLevel maps LogLevel onto slog; unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
