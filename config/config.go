package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the application-wide configuration root.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Retry    RetryConfig    `mapstructure:"retry"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Snapshot SnapshotConfig `mapstructure:"snapshot"`
	Log      LogConfig      `mapstructure:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port    int        `mapstructure:"port"`
	BaseURL string     `mapstructure:"base_url"`
	CORS    CORSConfig `mapstructure:"cors"`
}

// CORSConfig lists the origins allowed to call the API.
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

// StorageConfig selects and configures the workbook storage backend.
//
// The data of record lives in two Excel workbooks on a file host:
// the staffing workbook (slot ledger + roster sheets) and the
// findings workbook (apontamentos).
type StorageConfig struct {
	// Backend is "sharepoint" or "local".
	Backend      string           `mapstructure:"backend"`
	SharePoint   SharePointConfig `mapstructure:"sharepoint"`
	Local        LocalConfig      `mapstructure:"local"`
	StaffingPath string           `mapstructure:"staffing_path"`
	FindingsPath string           `mapstructure:"findings_path"`
	// CacheTTL bounds how long a downloaded workbook may be served
	// from the in-memory read cache before a fresh download.
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

// SharePointConfig configures the SharePoint REST gateway.
type SharePointConfig struct {
	SiteURL     string        `mapstructure:"site_url"`
	AccessToken string        `mapstructure:"access_token"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// LocalConfig configures the filesystem gateway (development and tests).
type LocalConfig struct {
	RootDir string `mapstructure:"root_dir"`
}

// RetryConfig drives the lock-retry wrapper around workbook uploads.
type RetryConfig struct {
	// MaxAttempts caps the number of upload attempts, the first
	// attempt included. Must be >= 1.
	MaxAttempts int `mapstructure:"max_attempts"`
	// Delay is the wait before the first retry.
	Delay time.Duration `mapstructure:"delay"`
	// Backoff is "fixed" or "exponential".
	Backoff string `mapstructure:"backoff"`
	// MaxDelay caps exponential growth.
	MaxDelay time.Duration `mapstructure:"max_delay"`
}

// RedisConfig configures the optional Redis connection.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SnapshotConfig controls the grid-edit snapshot session store.
type SnapshotConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
// Precedence: environment variables > config file > defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:5173"})

	v.SetDefault("storage.backend", "local")
	v.SetDefault("storage.local.root_dir", "./data")
	v.SetDefault("storage.staffing_path", "Documentos/Operações/Staff Operações Clínica.xlsx")
	v.SetDefault("storage.findings_path", "Documentos/Operações/Apontamentos.xlsx")
	v.SetDefault("storage.cache_ttl", "30s")
	v.SetDefault("storage.sharepoint.timeout", "30s")

	v.SetDefault("retry.max_attempts", 5)
	v.SetDefault("retry.delay", "3s")
	v.SetDefault("retry.backoff", "fixed")
	v.SetDefault("retry.max_delay", "30s")

	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("snapshot.ttl", "30m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment variables ──
	v.SetEnvPrefix("ADM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// No config file: run on defaults plus environment variables.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the application cannot run without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config validation: server.port must be between 1 and 65535")
	}

	switch c.Storage.Backend {
	case "local":
		if c.Storage.Local.RootDir == "" {
			return fmt.Errorf("config validation: storage.local.root_dir must not be empty")
		}
	case "sharepoint":
		if c.Storage.SharePoint.SiteURL == "" {
			return fmt.Errorf("config validation: storage.sharepoint.site_url must not be empty")
		}
		if c.Storage.SharePoint.AccessToken == "" {
			return fmt.Errorf("config validation: storage.sharepoint.access_token must not be empty")
		}
	default:
		return fmt.Errorf("config validation: unknown storage.backend %q", c.Storage.Backend)
	}

	if c.Storage.StaffingPath == "" || c.Storage.FindingsPath == "" {
		return fmt.Errorf("config validation: storage paths must not be empty")
	}

	if c.Retry.MaxAttempts < 1 {
		return fmt.Errorf("config validation: retry.max_attempts must be >= 1")
	}
	if c.Retry.Backoff != "fixed" && c.Retry.Backoff != "exponential" {
		return fmt.Errorf("config validation: retry.backoff must be \"fixed\" or \"exponential\"")
	}

	return nil
}
