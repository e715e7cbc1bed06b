package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclwrite"

	"github.com/lox/rpsbot/internal/fileutil"
	"github.com/lox/rpsbot/internal/game"
)

// Config represents the complete game configuration
type Config struct {
	Game    *GameSettings   `hcl:"game,block"`
	Choices []ChoiceConfig  `hcl:"choice,block"`
	Server  *ServerSettings `hcl:"server,block"`
	Log     *LogSettings    `hcl:"log,block"`
	Prefs   *PrefsSettings  `hcl:"prefs,block"`
}

// GameSettings controls round pacing and table validation
type GameSettings struct {
	Delay      string `hcl:"delay,optional"`
	Validation string `hcl:"validation,optional"`
	Seed       int64  `hcl:"seed,optional"`
}

// ChoiceConfig declares one choice and the choices it beats
type ChoiceConfig struct {
	Name  string   `hcl:"name,label"`
	Key   string   `hcl:"key,optional"`
	Emoji string   `hcl:"emoji,optional"`
	Beats []string `hcl:"beats,optional"`
}

// ServerSettings contains websocket server settings
type ServerSettings struct {
	Address string `hcl:"address,optional"`
	Port    int    `hcl:"port,optional"`
}

// LogSettings contains logging settings
type LogSettings struct {
	Level string `hcl:"level,optional"`
	File  string `hcl:"file,optional"`
}

// PrefsSettings locates the preference store
type PrefsSettings struct {
	File string `hcl:"file,optional"`
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	defaults := game.DefaultChoices()
	choices := make([]ChoiceConfig, len(defaults))
	for i, c := range defaults {
		choices[i] = ChoiceConfig{Name: c.Name, Key: c.Key, Emoji: c.Emoji, Beats: c.Beats}
	}

	return &Config{
		Game: &GameSettings{
			Delay:      game.DefaultDelay.String(),
			Validation: game.Strict.String(),
		},
		Choices: choices,
		Server: &ServerSettings{
			Address: "localhost",
			Port:    8080,
		},
		Log: &LogSettings{
			Level: "info",
			File:  "rpsbot.log",
		},
		Prefs: &PrefsSettings{
			File: "rpsbot-prefs.hcl",
		},
	}
}

// Load loads configuration from an HCL file. A missing file yields the
// defaults.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); errors.Is(err, os.ErrNotExist) {
		return DefaultConfig(), nil
	}

	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(src, filename)
}

// Parse decodes HCL source and applies defaults for missing values
func Parse(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	config.applyDefaults()
	return &config, nil
}

func (c *Config) applyDefaults() {
	defaults := DefaultConfig()

	if c.Game == nil {
		c.Game = defaults.Game
	}
	if c.Game.Delay == "" {
		c.Game.Delay = defaults.Game.Delay
	}
	if c.Game.Validation == "" {
		c.Game.Validation = defaults.Game.Validation
	}

	if len(c.Choices) == 0 {
		c.Choices = defaults.Choices
	}

	if c.Server == nil {
		c.Server = defaults.Server
	}
	if c.Server.Address == "" {
		c.Server.Address = defaults.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = defaults.Server.Port
	}

	if c.Log == nil {
		c.Log = defaults.Log
	}
	if c.Log.Level == "" {
		c.Log.Level = defaults.Log.Level
	}
	if c.Log.File == "" {
		c.Log.File = defaults.Log.File
	}

	if c.Prefs == nil {
		c.Prefs = defaults.Prefs
	}
	if c.Prefs.File == "" {
		c.Prefs.File = defaults.Prefs.File
	}
}

// Validate validates the configuration, including the choice table
func (c *Config) Validate() error {
	if _, err := c.Delay(); err != nil {
		return err
	}

	if _, err := c.Validation(); err != nil {
		return err
	}

	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if _, err := c.Table(); err != nil {
		return err
	}

	return nil
}

// Delay returns the parsed thinking delay
func (c *Config) Delay() (time.Duration, error) {
	d, err := time.ParseDuration(c.Game.Delay)
	if err != nil {
		return 0, fmt.Errorf("invalid delay %q: %w", c.Game.Delay, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("delay cannot be negative: %s", c.Game.Delay)
	}
	return d, nil
}

// Validation returns the table validation mode
func (c *Config) Validation() (game.Validation, error) {
	switch c.Game.Validation {
	case "strict":
		return game.Strict, nil
	case "lenient":
		return game.Lenient, nil
	default:
		return game.Strict, fmt.Errorf("invalid validation mode: %s", c.Game.Validation)
	}
}

// Table builds the choice table. Malformed tables return *game.ConfigError.
func (c *Config) Table() (*game.Table, error) {
	mode, err := c.Validation()
	if err != nil {
		return nil, err
	}

	choices := make([]game.Choice, len(c.Choices))
	for i, cc := range c.Choices {
		choices[i] = game.Choice{Name: cc.Name, Key: cc.Key, Emoji: cc.Emoji, Beats: cc.Beats}
	}
	return game.NewTableWithValidation(choices, mode)
}

// LogLevel returns the parsed log level, defaulting to info
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.Log.Level)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// ListenAddr returns the host:port the server binds to
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Server.Address, strconv.Itoa(c.Server.Port))
}

// Encode renders the configuration as HCL
func (c *Config) Encode() []byte {
	f := hclwrite.NewEmptyFile()
	gohcl.EncodeIntoBody(c, f.Body())
	return hclwrite.Format(f.Bytes())
}

// Write saves the configuration to filename
func (c *Config) Write(filename string) error {
	if err := fileutil.WriteFileAtomic(filename, c.Encode(), 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
