package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Config represents the application configuration.
type Config struct {
	Name                  string        `json:"name"`
	AnthropicAPIKey       string        `json:"anthropic_api_key"`
	BankLocation          string        `json:"bank_location"`
	ConflictTableLocation string        `json:"conflict_table_location,omitempty"`
	DataDir               string        `json:"data_dir,omitempty"`
	Models                ModelsConfig  `json:"models,omitempty"`
	Defaults              DefaultConfig `json:"defaults"`
}

// ModelsConfig holds model selection for ranking and rewriting.
type ModelsConfig struct {
	Ranking   string `json:"ranking,omitempty"`
	Rewriting string `json:"rewriting,omitempty"`
}

// DefaultConfig holds default values for commands.
type DefaultConfig struct {
	OutputDir          string `json:"output_dir"`
	HighlightSlots     int    `json:"highlight_slots,omitempty"`
	BulletsPerPosition int    `json:"bullets_per_position,omitempty"`
}

// GetRankingModel returns the ranking model or default if not specified.
func (c *Config) GetRankingModel() (model string) {
	if c.Models.Ranking != "" {
		model = c.Models.Ranking
		return model
	}
	model = "claude-sonnet-4-20250514"
	return model
}

// GetRewritingModel returns the rewriting model or default if not specified.
func (c *Config) GetRewritingModel() (model string) {
	if c.Models.Rewriting != "" {
		model = c.Models.Rewriting
		return model
	}
	model = "claude-sonnet-4-20250514"
	return model
}

// defaultPath returns the standard config file location.
func defaultPath() (path string, err error) {
	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return path, err
	}
	path = filepath.Join(homeDir, ".resume-allocator", "config.json")
	return path, err
}

// Load reads configuration from file with environment variable overrides.
func Load(configPath string) (cfg Config, err error) {
	// Determine config file location
	path := configPath
	if path == "" {
		path, err = defaultPath()
		if err != nil {
			return cfg, err
		}
	}

	// Read config file
	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			err = errors.Errorf("config file not found: %s (run 'resume-allocator init' to create)", path)
			return cfg, err
		}
		err = errors.Wrapf(err, "failed to read config file: %s", path)
		return cfg, err
	}

	// Parse JSON
	err = json.Unmarshal(data, &cfg)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse config file: %s", path)
		return cfg, err
	}

	// Override with environment variable if set
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		cfg.AnthropicAPIKey = apiKey
	}

	// Validate required fields
	err = cfg.Validate()
	if err != nil {
		err = errors.Wrap(err, "config validation failed")
		return cfg, err
	}

	return cfg, err
}

// Validate checks that all required configuration is present and fills in
// defaults for the rest.
func (c *Config) Validate() (err error) {
	if c.Name == "" {
		err = errors.New("name is required in config")
		return err
	}

	// API key is optional: without one, commands fall back to the offline tag
	// ranker and skip prose rewriting.

	if c.BankLocation == "" {
		err = errors.New("bank_location is required in config")
		return err
	}

	// Check bank file exists
	_, err = os.Stat(c.BankLocation)
	if os.IsNotExist(err) {
		err = errors.Errorf("content bank not found: %s", c.BankLocation)
		return err
	}
	err = nil

	// Conflict table is optional; when set, the file must exist
	if c.ConflictTableLocation != "" {
		_, err = os.Stat(c.ConflictTableLocation)
		if os.IsNotExist(err) {
			err = errors.Errorf("conflict table not found: %s", c.ConflictTableLocation)
			return err
		}
		err = nil
	}

	// Set defaults for optional fields
	if c.DataDir == "" {
		var homeDir string
		homeDir, err = os.UserHomeDir()
		if err != nil {
			err = errors.Wrap(err, "failed to get user home directory")
			return err
		}
		c.DataDir = filepath.Join(homeDir, ".resume-allocator")
	}

	if c.Defaults.OutputDir == "" {
		c.Defaults.OutputDir = "./applications"
	}

	return err
}

// InitConfig creates a default configuration file.
func InitConfig(configPath string) (err error) {
	// Determine config file location
	path := configPath
	if path == "" {
		path, err = defaultPath()
		if err != nil {
			return err
		}
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create config directory: %s", dir)
		return err
	}

	// Check if file already exists
	_, err = os.Stat(path)
	if err == nil {
		err = errors.Errorf("config file already exists: %s", path)
		return err
	}

	var homeDir string
	homeDir, err = os.UserHomeDir()
	if err != nil {
		err = errors.Wrap(err, "failed to get user home directory")
		return err
	}

	defaultConfig := Config{
		Name:            "your-name",
		AnthropicAPIKey: "sk-ant-api03-...",
		BankLocation:    filepath.Join(homeDir, ".resume-allocator", "content-bank.json"),
		DataDir:         filepath.Join(homeDir, ".resume-allocator"),
		Defaults: DefaultConfig{
			OutputDir: filepath.Join(homeDir, "Documents", "Applications"),
		},
	}

	// Write to file
	var data []byte
	data, err = json.MarshalIndent(defaultConfig, "", "  ")
	if err != nil {
		err = errors.Wrap(err, "failed to marshal default config")
		return err
	}

	err = os.WriteFile(path, data, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write config file: %s", path)
		return err
	}

	return err
}
