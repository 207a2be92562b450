package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"RiskPulse/internal/services/scoring"
	"RiskPulse/pkg/util"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`

	// Weights is the composite scoring table. Validated against the
	// sum-to-one invariant at load; the engine refuses to start otherwise.
	Weights scoring.Weights `yaml:"weights"`

	Refresh struct {
		Interval   time.Duration `yaml:"interval"`
		RunOnStart bool          `yaml:"run_on_start"`
	} `yaml:"refresh"`

	// Assets maps CoinGecko IDs to the ticker symbols used in output.
	Assets map[string]string `yaml:"assets"`

	CoinGecko struct {
		BaseURL     string        `yaml:"base_url"`
		Timeout     time.Duration `yaml:"timeout"`
		HistoryDays int           `yaml:"history_days"`
		MaxRPS      float64       `yaml:"max_rps"`
	} `yaml:"coingecko"`
	FearGreed struct {
		BaseURL string        `yaml:"base_url"`
		Timeout time.Duration `yaml:"timeout"`
	} `yaml:"feargreed"`
	Videos struct {
		Enabled    bool              `yaml:"enabled"`
		Channels   map[string]string `yaml:"channels"` // name -> YouTube channel ID
		MaxAgeDays int               `yaml:"max_age_days"`
		MaxPerFeed int               `yaml:"max_per_feed"`
	} `yaml:"videos"`

	Output struct {
		// Backend selects where risk records go besides the local files:
		// "file" (files only), "kafka", or "clickhouse".
		Backend      string `yaml:"backend"`
		Dir          string `yaml:"dir"`
		SnapshotFile string `yaml:"snapshot_file"`
		AnalysisFile string `yaml:"analysis_file"`
		ReportFile   string `yaml:"report_file"`
	} `yaml:"output"`

	Kafka struct {
		Brokers      []string      `yaml:"brokers"`
		Topic        string        `yaml:"topic"`
		RequiredAcks int           `yaml:"required_acks"`
		Compression  string        `yaml:"compression"`
		MaxAttempts  int           `yaml:"max_attempts"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host         string        `yaml:"host"`
		Port         int           `yaml:"port"`
		Database     string        `yaml:"database"`
		User         string        `yaml:"user"`
		Password     string        `yaml:"password"`
		DialTimeout  time.Duration `yaml:"dial_timeout"`
		ReadTimeout  time.Duration `yaml:"read_timeout"`
		WriteTimeout time.Duration `yaml:"write_timeout"`
	} `yaml:"clickhouse"`
	Cache struct {
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		SnapshotTTL time.Duration `yaml:"snapshot_ttl"`
	} `yaml:"cache"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := defaultConfig()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	c.Server.Port = util.ParseIntDefault(os.Getenv("SERVER_PORT"), c.Server.Port)
	c.CoinGecko.HistoryDays = util.ParseIntDefault(os.Getenv("HISTORY_DAYS"), c.CoinGecko.HistoryDays)
	if v := os.Getenv("OUTPUT_BACKEND"); v != "" {
		c.Output.Backend = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
		c.Cache.Redis.Enabled = true
	}

	// The backend may have changed; re-check.
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func defaultConfig() *Config {
	c := &Config{}
	c.Environment = "development"
	c.Server.Port = 8080
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 10 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Log.Level = "info"
	c.Log.Format = "console"
	c.Log.Output = "stdout"
	c.Weights = scoring.DefaultWeights()
	c.Refresh.Interval = time.Hour
	c.Refresh.RunOnStart = true
	c.CoinGecko.BaseURL = "https://api.coingecko.com/api/v3"
	c.CoinGecko.Timeout = 30 * time.Second
	c.CoinGecko.HistoryDays = 365
	c.CoinGecko.MaxRPS = 0.5
	c.FearGreed.BaseURL = "https://api.alternative.me"
	c.FearGreed.Timeout = 30 * time.Second
	c.Videos.MaxAgeDays = 30
	c.Videos.MaxPerFeed = 50
	c.Output.Backend = "file"
	c.Output.Dir = "data"
	c.Output.SnapshotFile = "data.json"
	c.Output.AnalysisFile = "analysis.json"
	c.Output.ReportFile = "email_summary.html"
	c.Cache.SnapshotTTL = 2 * time.Hour
	return c
}

// Validate checks if the configuration is valid. A malformed weight table is
// a startup error, never silently renormalized.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if len(c.Assets) == 0 {
		return fmt.Errorf("assets cannot be empty")
	}
	if err := c.Weights.Validate(); err != nil {
		return err
	}
	if c.Refresh.Interval <= 0 {
		return fmt.Errorf("refresh.interval must be positive")
	}
	switch c.Output.Backend {
	case "file", "kafka", "clickhouse":
	default:
		return fmt.Errorf("output.backend must be 'file', 'kafka' or 'clickhouse', got '%s'", c.Output.Backend)
	}
	if c.Output.Backend == "kafka" && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers required for kafka backend")
	}
	if c.Output.Backend == "clickhouse" && c.ClickHouse.Host == "" {
		return fmt.Errorf("clickhouse.host required for clickhouse backend")
	}
	return nil
}
