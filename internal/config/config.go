// Package config loads handcoach settings from an HCL file and the
// environment.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/kelseyhightower/envconfig"
)

// EnvPrefix prefixes every environment override, e.g. HANDCOACH_API_KEY.
const EnvPrefix = "handcoach"

// Config represents the complete configuration
type Config struct {
	Analysis *AnalysisSettings `hcl:"analysis,block"`
	UI       *UISettings       `hcl:"ui,block"`
	Server   *ServerSettings   `hcl:"server,block"`

	// APIKey only ever comes from the environment.
	APIKey string
}

// AnalysisSettings configures the analysis service client
type AnalysisSettings struct {
	Endpoint  string `hcl:"endpoint,optional"`
	Model     string `hcl:"model,optional"`
	MaxTokens int    `hcl:"max_tokens,optional"`
	Timeout   int    `hcl:"timeout,optional"`
}

// UISettings configures the terminal wizard and document language
type UISettings struct {
	Locale   string `hcl:"locale,optional"`
	LogLevel string `hcl:"log_level,optional"`
	LogFile  string `hcl:"log_file,optional"`
}

// ServerSettings configures the WebSocket session server
type ServerSettings struct {
	Address     string `hcl:"address,optional"`
	Port        int    `hcl:"port,optional"`
	IdleTimeout int    `hcl:"idle_timeout,optional"`
}

// env lists the environment overrides. AnthropicKey is tagged so that the
// unprefixed ANTHROPIC_API_KEY is read as well.
type env struct {
	APIKey       string `split_words:"true"`
	AnthropicKey string `envconfig:"anthropic_api_key"`
	Endpoint     string
	Model        string
	Locale       string
	LogLevel     string `split_words:"true"`
	Port         int
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Analysis: &AnalysisSettings{
			Endpoint:  "https://api.anthropic.com",
			Model:     "claude-3-7-sonnet-20250219",
			MaxTokens: 4096,
			Timeout:   120,
		},
		UI: &UISettings{
			Locale:   "ja",
			LogLevel: "info",
			LogFile:  "handcoach.log",
		},
		Server: &ServerSettings{
			Address:     "localhost",
			Port:        8090,
			IdleTimeout: 600,
		},
	}
}

// Load reads filename, fills unset values from Default and applies
// environment overrides. A missing file is not an error.
func Load(filename string) (*Config, error) {
	config := Default()

	if _, err := os.Stat(filename); err == nil {
		parser := hclparse.NewParser()
		file, diags := parser.ParseHCLFile(filename)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
		}

		var parsed Config
		diags = gohcl.DecodeBody(file.Body, nil, &parsed)
		if diags.HasErrors() {
			return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
		}
		parsed.backfill(config)
		config = &parsed
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat %s: %w", filename, err)
	}

	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}

// backfill copies defaults into every zero field.
func (c *Config) backfill(d *Config) {
	if c.Analysis == nil {
		c.Analysis = d.Analysis
	}
	if c.Analysis.Endpoint == "" {
		c.Analysis.Endpoint = d.Analysis.Endpoint
	}
	if c.Analysis.Model == "" {
		c.Analysis.Model = d.Analysis.Model
	}
	if c.Analysis.MaxTokens == 0 {
		c.Analysis.MaxTokens = d.Analysis.MaxTokens
	}
	if c.Analysis.Timeout == 0 {
		c.Analysis.Timeout = d.Analysis.Timeout
	}

	if c.UI == nil {
		c.UI = d.UI
	}
	if c.UI.Locale == "" {
		c.UI.Locale = d.UI.Locale
	}
	if c.UI.LogLevel == "" {
		c.UI.LogLevel = d.UI.LogLevel
	}
	if c.UI.LogFile == "" {
		c.UI.LogFile = d.UI.LogFile
	}

	if c.Server == nil {
		c.Server = d.Server
	}
	if c.Server.Address == "" {
		c.Server.Address = d.Server.Address
	}
	if c.Server.Port == 0 {
		c.Server.Port = d.Server.Port
	}
	if c.Server.IdleTimeout == 0 {
		c.Server.IdleTimeout = d.Server.IdleTimeout
	}
}

func (c *Config) applyEnv() error {
	var e env
	if err := envconfig.Process(EnvPrefix, &e); err != nil {
		return fmt.Errorf("read environment: %w", err)
	}

	switch {
	case e.APIKey != "":
		c.APIKey = e.APIKey
	case e.AnthropicKey != "":
		c.APIKey = e.AnthropicKey
	}
	if e.Endpoint != "" {
		c.Analysis.Endpoint = e.Endpoint
	}
	if e.Model != "" {
		c.Analysis.Model = e.Model
	}
	if e.Locale != "" {
		c.UI.Locale = e.Locale
	}
	if e.LogLevel != "" {
		c.UI.LogLevel = e.LogLevel
	}
	if e.Port != 0 {
		c.Server.Port = e.Port
	}
	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Analysis.MaxTokens <= 0 {
		return fmt.Errorf("analysis: max_tokens must be positive")
	}
	if c.Analysis.Timeout <= 0 {
		return fmt.Errorf("analysis: timeout must be positive")
	}
	switch c.UI.Locale {
	case "ja", "en":
	default:
		return fmt.Errorf("ui: unsupported locale %q (want ja or en)", c.UI.Locale)
	}
	if _, err := log.ParseLevel(c.UI.LogLevel); err != nil {
		return fmt.Errorf("ui: %w", err)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}
	if c.Server.IdleTimeout < 0 {
		return fmt.Errorf("server: idle_timeout must not be negative")
	}
	return nil
}

// AnalysisTimeout returns the analysis request timeout.
func (c *Config) AnalysisTimeout() time.Duration {
	return time.Duration(c.Analysis.Timeout) * time.Second
}

// IdleTimeout returns how long a WebSocket session may sit idle.
func (c *Config) IdleTimeout() time.Duration {
	return time.Duration(c.Server.IdleTimeout) * time.Second
}

// LogLevel returns the parsed log level, defaulting to info.
func (c *Config) LogLevel() log.Level {
	level, err := log.ParseLevel(c.UI.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return level
}

// GetServerAddress returns the full server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}
