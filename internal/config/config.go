package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/supplychain-insight/internal/infra/ai/cortex"
	"github.com/bryanwahyu/supplychain-insight/internal/infra/db/warehouse"
)

const (
	ProviderCortex = "cortex"
	ProviderOpenAI = "openai"
)

type Config struct {
	Server struct {
		Port            int               `yaml:"port"`
		ReadTimeoutSec  int               `yaml:"readTimeoutSec"`
		WriteTimeoutSec int               `yaml:"writeTimeoutSec"`
		AllowedOrigins  []string          `yaml:"allowedOrigins"`
		APIKeys         map[string]string `yaml:"apiKeys"`
	} `yaml:"server"`

	Warehouse struct {
		Driver      string `yaml:"driver"`
		DSN         string `yaml:"dsn"`
		FactTable   string `yaml:"factTable"`
		VendorTable string `yaml:"vendorTable"`
	} `yaml:"warehouse"`

	Completion struct {
		Provider  string `yaml:"provider"`
		APIKey    string `yaml:"apiKey"`
		BaseURL   string `yaml:"baseURL"`
		MaxTokens int    `yaml:"maxTokens"`
		Function  string `yaml:"function"`
	} `yaml:"completion"`

	Sessions struct {
		MaxSessions int `yaml:"maxSessions"`
		TTLMinutes  int `yaml:"ttlMinutes"`
	} `yaml:"sessions"`

	RateLimit struct {
		Capacity     int `yaml:"capacity"`
		RefillPerSec int `yaml:"refillPerSec"`
	} `yaml:"rateLimit"`

	Archive struct {
		Enabled    bool   `yaml:"enabled"`
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		Prefix     string `yaml:"prefix"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"archive"`

	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
}

// Load reads the YAML file at path (a missing file is fine), applies .env and
// environment overrides, then fills defaults and validates.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, err
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Warehouse.Driver, "WAREHOUSE_DRIVER")
	set(&c.Warehouse.DSN, "WAREHOUSE_DSN")
	set(&c.Completion.Provider, "COMPLETION_PROVIDER")
	set(&c.Completion.APIKey, "OPENAI_API_KEY")
	set(&c.Completion.BaseURL, "OPENAI_BASE_URL")
	set(&c.Logging.Level, "LOG_LEVEL")
	set(&c.Archive.AccessKey, "ARCHIVE_ACCESS_KEY")
	set(&c.Archive.SecretKey, "ARCHIVE_SECRET_KEY")
	if v := getenv("SERVER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
}

// Validate fills defaults and rejects settings the process cannot run with.
func (c *Config) Validate() error {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.ReadTimeoutSec == 0 {
		c.Server.ReadTimeoutSec = 15
	}
	// completion calls routinely take longer than a plain page render
	if c.Server.WriteTimeoutSec == 0 {
		c.Server.WriteTimeoutSec = 120
	}

	if c.Warehouse.Driver == "" {
		c.Warehouse.Driver = string(warehouse.Snowflake)
	}
	c.Warehouse.Driver = strings.ToLower(c.Warehouse.Driver)
	if !warehouse.Dialect(c.Warehouse.Driver).Valid() {
		return fmt.Errorf("unsupported warehouse driver %q (allowed: postgres, mysql, sqlite, snowflake)", c.Warehouse.Driver)
	}
	if c.Warehouse.DSN == "" {
		return fmt.Errorf("warehouse dsn is required")
	}
	if c.Warehouse.FactTable == "" {
		c.Warehouse.FactTable = warehouse.DefaultFactTable
	}
	if c.Warehouse.VendorTable == "" {
		c.Warehouse.VendorTable = warehouse.DefaultVendorTable
	}
	if err := c.Tables().Validate(); err != nil {
		return err
	}

	if c.Completion.Provider == "" {
		c.Completion.Provider = ProviderCortex
	}
	c.Completion.Provider = strings.ToLower(c.Completion.Provider)
	switch c.Completion.Provider {
	case ProviderCortex:
		if c.Completion.Function == "" {
			c.Completion.Function = cortex.DefaultFunction
		}
		if !warehouse.ValidIdentifier(c.Completion.Function) {
			return fmt.Errorf("invalid completion function %q", c.Completion.Function)
		}
	case ProviderOpenAI:
		if c.Completion.APIKey == "" {
			return fmt.Errorf("completion apiKey (OPENAI_API_KEY) is required for provider openai")
		}
	default:
		return fmt.Errorf("unsupported completion provider %q (allowed: cortex, openai)", c.Completion.Provider)
	}

	if c.Sessions.MaxSessions == 0 {
		c.Sessions.MaxSessions = 1024
	}
	if c.Sessions.TTLMinutes == 0 {
		c.Sessions.TTLMinutes = 60
	}
	if c.RateLimit.Capacity == 0 {
		c.RateLimit.Capacity = 5
	}
	if c.RateLimit.RefillPerSec == 0 {
		c.RateLimit.RefillPerSec = 1
	}

	if c.Archive.Enabled {
		if c.Archive.Endpoint == "" || c.Archive.BucketName == "" {
			return fmt.Errorf("archive endpoint and bucketName are required when archive is enabled")
		}
		if c.Archive.Prefix == "" {
			c.Archive.Prefix = "reports"
		}
	}

	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "console"
	}
	return nil
}

func (c *Config) Tables() warehouse.Tables {
	return warehouse.Tables{Fact: c.Warehouse.FactTable, Vendor: c.Warehouse.VendorTable}
}

func (c *Config) Dialect() warehouse.Dialect {
	return warehouse.Dialect(c.Warehouse.Driver)
}
