package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// RoleConfig binds one model role to a weights file plus its resource and
// sampling defaults. Zero values mean "unspecified" and are replaced by
// defaults when the slot manager is constructed.
type RoleConfig struct {
	// Model id resolved against the registry (full gguf filename), or an
	// absolute weights path.
	Model string `json:"model" yaml:"model" toml:"model"`
	// Context window size in tokens.
	CtxSize int `json:"ctx_size" yaml:"ctx_size" toml:"ctx_size"`
	// CPU threads used for generation.
	Threads int `json:"threads" yaml:"threads" toml:"threads"`
	// Default sampling temperature.
	Temperature float64 `json:"temperature" yaml:"temperature" toml:"temperature"`
	// Default max new tokens per call.
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" toml:"max_tokens"`
	// Exempt this role from eviction.
	AlwaysResident bool `json:"always_resident" yaml:"always_resident" toml:"always_resident"`
	// Unload after this many idle seconds (0 = never).
	IdleUnloadSeconds int `json:"idle_unload_seconds" yaml:"idle_unload_seconds" toml:"idle_unload_seconds"`
}

// Config holds runtime parameters for the assistant process. It is loaded
// once in main and passed by value into constructors; there is no ambient
// global settings object.
type Config struct {
	ModelsDir      string `json:"models_dir" yaml:"models_dir" toml:"models_dir"`
	MemBudgetMB    int    `json:"mem_budget_mb" yaml:"mem_budget_mb" toml:"mem_budget_mb"`
	MemMarginMB    int    `json:"mem_margin_mb" yaml:"mem_margin_mb" toml:"mem_margin_mb"`
	GenTimeoutSecs int    `json:"gen_timeout_seconds" yaml:"gen_timeout_seconds" toml:"gen_timeout_seconds"`
	HTTPAddr       string `json:"http_addr" yaml:"http_addr" toml:"http_addr"`
	WorkDir        string `json:"work_dir" yaml:"work_dir" toml:"work_dir"`

	Router     RoleConfig `json:"router" yaml:"router" toml:"router"`
	Primary    RoleConfig `json:"primary" yaml:"primary" toml:"primary"`
	Specialist RoleConfig `json:"specialist" yaml:"specialist" toml:"specialist"`
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".json":
		if err := json.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	case ".toml":
		if err := toml.Unmarshal(b, &cfg); err != nil {
			return cfg, err
		}
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	return cfg, nil
}

// Validate reports configuration errors that would make the process
// unusable. The router role must always be bound since classification
// depends on it.
func (c Config) Validate() error {
	if c.Router.Model == "" {
		return fmt.Errorf("router role has no model configured")
	}
	if c.MemBudgetMB < 0 {
		return fmt.Errorf("mem_budget_mb must be >= 0")
	}
	return nil
}
