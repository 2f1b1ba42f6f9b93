package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"index-dashboard/src/models"
	"index-dashboard/src/utils"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new Config from a YAML file, applying .env and
// environment overrides on top of it.
func NewConfig(configPath string) (*Config, error) {
	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}

	// 3. Environment overrides (.env is optional)
	_ = godotenv.Load()
	if err := config.applyEnv(); err != nil {
		return nil, err
	}
	config.applyDefaults()

	// 4. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyEnv() error {
	if v := os.Getenv("DASHBOARD_HOST"); v != "" {
		c.Host = v
	}
	if v := os.Getenv("DASHBOARD_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("DASHBOARD_PORT must be a number: %w", err)
		}
		c.Port = port
	}
	if v := os.Getenv("DASHBOARD_LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("DASHBOARD_REFERENCE_URL"); v != "" {
		c.Reference.URL = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		c.Network.Enabled = true
		c.Network.Proxies = append([]string{v}, c.Network.Proxies...)
	}
	return nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "INFO"
	}
	c.LogLevel = strings.ToUpper(c.LogLevel)
	if c.GrpcHost == "" {
		c.GrpcHost = c.Host
	}
	if c.GrpcPort == 0 {
		c.GrpcPort = 50051
	}
	if c.Reference.URL == "" {
		c.Reference.URL = "https://en.wikipedia.org/wiki/List_of_S%26P_500_companies"
	}
	if c.Reference.SymbolColumn == "" {
		c.Reference.SymbolColumn = "Symbol"
	}
	if c.Reference.SecurityColumn == "" {
		c.Reference.SecurityColumn = "Security"
	}
	if c.Reference.SectorColumn == "" {
		c.Reference.SectorColumn = "GICS Sector"
	}
	if c.Network.ConcurrentRequests == 0 {
		c.Network.ConcurrentRequests = 8
	}
	if c.DataSource.BaseURL == "" {
		c.DataSource.BaseURL = "https://query1.finance.yahoo.com/v8/finance/chart"
	}
	if c.DataSource.Range == "" {
		c.DataSource.Range = "ytd"
	}
	if c.DataSource.Interval == "" {
		c.DataSource.Interval = "1d"
	}
	if c.DataSource.AutoAdjust == nil {
		adjust := true
		c.DataSource.AutoAdjust = &adjust
	}
	if c.DataSource.MinDate == "" {
		c.DataSource.MinDate = utils.DefaultMinDate
	}
	if c.Chart.Width == 0 {
		c.Chart.Width = 800
	}
	if c.Chart.Height == 0 {
		c.Chart.Height = 320
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}
	switch c.LogLevel {
	case "DEBUG", "INFO", "WARNING", "ERROR":
	default:
		return fmt.Errorf("invalid log level: %s", c.LogLevel)
	}

	// Server
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}
	if c.GrpcPort != 0 && (c.GrpcPort <= 1024 || c.GrpcPort > 65535) {
		return fmt.Errorf("invalid grpc port number: %d", c.GrpcPort)
	}

	// Reference page
	if !strings.HasPrefix(c.Reference.URL, "http://") && !strings.HasPrefix(c.Reference.URL, "https://") {
		return fmt.Errorf("reference url must be http(s): %q", c.Reference.URL)
	}

	// Network
	if c.Network.RequestTimeout < 0 {
		return fmt.Errorf("request timeout cannot be negative")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}
	if c.Network.ConcurrentRequests <= 0 {
		return fmt.Errorf("concurrent requests must be greater than 0")
	}

	// Data source
	if _, err := time.Parse(utils.DateLayout, c.DataSource.MinDate); err != nil {
		return fmt.Errorf("invalid data_source.min_date %q: %w", c.DataSource.MinDate, err)
	}

	// Chart
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart dimensions must be positive")
	}

	return nil
}

// -----------------------------------------------------------------------------

// MinDate returns the earliest selectable chart date.
func (c *Config) MinDate() time.Time {
	t, err := time.Parse(utils.DateLayout, c.DataSource.MinDate)
	if err != nil {
		t, _ = time.Parse(utils.DateLayout, utils.DefaultMinDate)
	}
	return t
}

// -----------------------------------------------------------------------------

// Save persists the current configuration to the specified YAML file path
func (c *Config) Save(configPath string) error {
	// 1. Marshal the struct to YAML
	data, err := yaml.Marshal(c.MConfig)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	// 2. Write to file (0644 permissions)
	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write config to file '%s': %w", configPath, err)
	}

	return nil
}
