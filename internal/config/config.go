package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DefaultHelpURL    = "http://localhost:1212/Help"
	DefaultBaseURL    = "http://localhost:1212"
	DefaultOutputPath = "postman_collection_with_folders_and_headers.json"
)

// ErrMissingAPIKey is returned by Validate when no API key was configured.
var ErrMissingAPIKey = errors.New("api key not configured (set HELP2POSTMAN_API_KEY env or api_key in config.yaml)")

type Config struct {
	HelpURL    string        `yaml:"help_url"`
	BaseURL    string        `yaml:"base_url"`
	OutputPath string        `yaml:"output_path"`
	APIKey     string        `yaml:"api_key"`
	DBPath     string        `yaml:"db_path"`     // optional snapshot database
	ReportPath string        `yaml:"report_path"` // optional run report
	Timeout    time.Duration `yaml:"timeout"`
	// StrictSections stops a heading from binding to a table that follows a later heading.
	StrictSections bool `yaml:"strict_sections"`
	Log            struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
}

// Default returns a configuration matching the help page of a local development server.
func Default() *Config {
	cfg := &Config{
		HelpURL:    DefaultHelpURL,
		BaseURL:    DefaultBaseURL,
		OutputPath: DefaultOutputPath,
	}
	cfg.Log.Level = "info"
	cfg.Log.Format = "text"
	return cfg
}

// LoadConfig reads path on top of the defaults. A missing file is not an error,
// so the tool runs with defaults plus environment overrides.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load YAML config
	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(file, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse %s: %w", path, err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, err
		}
	}

	// 3. Override with Environment Variables if present
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	overrides := map[string]*string{
		"HELP2POSTMAN_HELP_URL": &c.HelpURL,
		"HELP2POSTMAN_BASE_URL": &c.BaseURL,
		"HELP2POSTMAN_OUTPUT":   &c.OutputPath,
		"HELP2POSTMAN_API_KEY":  &c.APIKey,
		"HELP2POSTMAN_DB":       &c.DBPath,
	}
	for env, dst := range overrides {
		if v := strings.TrimSpace(os.Getenv(env)); v != "" {
			*dst = v
		}
	}
}

// Validate reports the first missing required option.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.HelpURL) == "" {
		return errors.New("help_url is required")
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		return errors.New("base_url is required")
	}
	if strings.TrimSpace(c.OutputPath) == "" {
		return errors.New("output_path is required")
	}
	if strings.TrimSpace(c.APIKey) == "" {
		return ErrMissingAPIKey
	}
	return nil
}
