// Package config handles loading daybook.toml configuration files.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// EnvDataDir overrides the configured data directory when set.
const EnvDataDir = "DAYBOOK_DATA"

// Config represents the daybook.toml configuration file.
type Config struct {
	Storage Storage `toml:"storage"`
	Tasks   Tasks   `toml:"tasks"`
	Timer   Timer   `toml:"timer"`
	Export  Export  `toml:"export"`
}

// Storage contains storage-related configuration.
type Storage struct {
	// Dir is the directory where task data is kept.
	// Defaults to ~/.local/share/daybook.
	Dir string `toml:"dir"`

	// Backend selects the storage backend: "jsonl" or "sqlite".
	// Defaults to jsonl.
	Backend string `toml:"backend"`
}

// Tasks contains task-related defaults.
type Tasks struct {
	// DefaultCategory is assigned to tasks created without a category.
	DefaultCategory string `toml:"default-category"`

	// DefaultPriority is assigned to tasks created without a priority.
	DefaultPriority string `toml:"default-priority"`
}

// Timer contains time-tracking configuration.
type Timer struct {
	// Timezone is an IANA zone name used for day boundaries, e.g.
	// "Europe/Berlin". Empty means the system's local zone.
	Timezone string `toml:"timezone"`
}

// Export contains export defaults.
type Export struct {
	// Format selects the default export format: json, csv, or txt.
	Format string `toml:"format"`

	// ExcludeCompleted omits completed tasks from exports by default.
	ExcludeCompleted bool `toml:"exclude-completed"`
}

// Load loads configuration from the working directory and the global
// config file. Project values win over global ones key by key.
// Returns an empty config if no config files exist.
func Load(dir string) (*Config, error) {
	globalPath, err := globalConfigPath()
	if err != nil {
		return nil, err
	}

	globalCfg, globalMeta, err := loadConfigFile(globalPath)
	if err != nil {
		return nil, err
	}

	projectCfg, projectMeta, err := loadConfigFile(filepath.Join(dir, "daybook.toml"))
	if err != nil {
		return nil, err
	}

	merged := mergeConfigs(globalCfg, projectCfg, globalMeta, projectMeta)
	return merged, nil
}

// DataDir resolves the data directory: the DAYBOOK_DATA environment
// variable wins, then the configured dir, then the default under the
// user's home.
func (c *Config) DataDir() (string, error) {
	if dir := os.Getenv(EnvDataDir); dir != "" {
		return dir, nil
	}
	if c.Storage.Dir != "" {
		return c.Storage.Dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".local", "share", "daybook"), nil
}

// Location resolves the configured timezone, falling back to the
// system's local zone when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Timer.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timer.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timer.Timezone, err)
	}
	return loc, nil
}

func globalConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "daybook", "config.toml"), nil
}

func loadConfigFile(path string) (*Config, toml.MetaData, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Config{}, toml.MetaData{}, nil
	}
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	var cfg Config
	meta, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return nil, toml.MetaData{}, fmt.Errorf("parse config file %s: %w", path, err)
	}

	return &cfg, meta, nil
}

func mergeConfigs(globalCfg, projectCfg *Config, globalMeta, projectMeta toml.MetaData) *Config {
	if globalCfg == nil {
		globalCfg = &Config{}
	}
	if projectCfg == nil {
		projectCfg = &Config{}
	}

	merged := Config{}
	merged.Storage.Dir = mergeString(projectMeta.IsDefined("storage", "dir"), projectCfg.Storage.Dir, globalCfg.Storage.Dir)
	merged.Storage.Backend = mergeString(projectMeta.IsDefined("storage", "backend"), projectCfg.Storage.Backend, globalCfg.Storage.Backend)
	merged.Tasks.DefaultCategory = mergeString(projectMeta.IsDefined("tasks", "default-category"), projectCfg.Tasks.DefaultCategory, globalCfg.Tasks.DefaultCategory)
	merged.Tasks.DefaultPriority = mergeString(projectMeta.IsDefined("tasks", "default-priority"), projectCfg.Tasks.DefaultPriority, globalCfg.Tasks.DefaultPriority)
	merged.Timer.Timezone = mergeString(projectMeta.IsDefined("timer", "timezone"), projectCfg.Timer.Timezone, globalCfg.Timer.Timezone)
	merged.Export.Format = mergeString(projectMeta.IsDefined("export", "format"), projectCfg.Export.Format, globalCfg.Export.Format)
	if projectMeta.IsDefined("export", "exclude-completed") {
		merged.Export.ExcludeCompleted = projectCfg.Export.ExcludeCompleted
	} else if globalMeta.IsDefined("export", "exclude-completed") {
		merged.Export.ExcludeCompleted = globalCfg.Export.ExcludeCompleted
	}

	return &merged
}

func mergeString(projectDefined bool, projectValue, globalValue string) string {
	value := globalValue
	if projectDefined {
		value = projectValue
	}
	return strings.TrimSpace(value)
}
