// Package config loads interpreter settings from yex.yaml and the
// environment. Environment variables override file values, flags override
// both; resolution happens once at startup.
package config

import (
	"fmt"
	"os"

	"github.com/xyproto/env/v2"
	"gopkg.in/yaml.v3"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "yex.yaml"

// Config holds the runtime settings of the interpreter.
type Config struct {
	// Debug enables bytecode disassembly and VM tracing output.
	Debug bool `yaml:"debug"`

	// StackSize is the operand stack capacity in values.
	StackSize int `yaml:"stack_size"`

	// CallDepth is the maximum nesting of function frames.
	CallDepth int `yaml:"call_depth"`

	// Color controls ANSI colors in REPL output. Auto-detected from the
	// terminal when left unset; NoColor forces it off.
	NoColor bool `yaml:"no_color"`

	// Database is the sqlite file the Db module opens. ":memory:" gives a
	// fresh in-memory database per run.
	Database string `yaml:"database"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		StackSize: 1024,
		CallDepth: 256,
		Database:  ":memory:",
	}
}

// Load resolves the configuration: defaults, then the yaml file at path
// (silently skipped when absent), then YEX_* environment variables.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// no file is fine
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	cfg.applyEnv()

	if cfg.StackSize <= 0 {
		return nil, fmt.Errorf("config: stack_size must be positive, got %d", cfg.StackSize)
	}
	if cfg.CallDepth <= 0 {
		return nil, fmt.Errorf("config: call_depth must be positive, got %d", cfg.CallDepth)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	// the env package snapshots the environment; drop the snapshot so
	// variables set after process start (tests included) are seen
	env.Unload()
	if env.Has("YEX_DEBUG") {
		c.Debug = env.Bool("YEX_DEBUG")
	}
	c.StackSize = env.Int("YEX_STACK_SIZE", c.StackSize)
	c.CallDepth = env.Int("YEX_CALL_DEPTH", c.CallDepth)
	if env.Has("YEX_NO_COLOR") || env.Has("NO_COLOR") {
		c.NoColor = true
	}
	c.Database = env.Str("YEX_DATABASE", c.Database)
}
