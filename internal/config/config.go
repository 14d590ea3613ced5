// Package config loads application settings from defaults, an optional
// YAML file, INTERVIEWER_* environment variables and bound CLI flags.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	// EnvPrefix prefixes every environment override.
	EnvPrefix = "INTERVIEWER"

	// FileName is the config file looked up in the working directory.
	FileName = "interviewer"
)

// Config is the full application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Store     StoreConfig     `mapstructure:"store"`
	Interview InterviewConfig `mapstructure:"interview"`
	Retention RetentionConfig `mapstructure:"retention"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Log       LogConfig       `mapstructure:"log"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StoreConfig selects the session backend. An empty Backend means redis
// when RedisURL is set and memory otherwise.
type StoreConfig struct {
	Backend     string        `mapstructure:"backend"`
	DBPath      string        `mapstructure:"db_path"`
	RedisURL    string        `mapstructure:"redis_url"`
	RedisPrefix string        `mapstructure:"redis_prefix"`
	RedisTTL    time.Duration `mapstructure:"redis_ttl"`
}

type InterviewConfig struct {
	// OfflineMode is "templates" or "bank".
	OfflineMode       string        `mapstructure:"offline_mode"`
	Seed              uint64        `mapstructure:"seed"`
	LogicalKinds      []string      `mapstructure:"logical_kinds"`
	AptitudeKinds     []string      `mapstructure:"aptitude_kinds"`
	GenerationTimeout time.Duration `mapstructure:"generation_timeout"`
	GradingTimeout    time.Duration `mapstructure:"grading_timeout"`
	DisableLLM        bool          `mapstructure:"disable_llm"`
}

type RetentionConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Schedule string        `mapstructure:"schedule"`
	Sessions time.Duration `mapstructure:"sessions"`
	Events   time.Duration `mapstructure:"events"`
}

type TelegramConfig struct {
	Token       string        `mapstructure:"token"`
	Debug       bool          `mapstructure:"debug"`
	PollTimeout time.Duration `mapstructure:"poll_timeout"`
}

type LogConfig struct {
	Debug bool `mapstructure:"debug"`
	JSON  bool `mapstructure:"json"`
}

// New returns a viper instance with defaults and environment bindings.
// Callers may bind flags on it before calling Load.
func New() *viper.Viper {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	// Unprefixed names used by common deployments.
	_ = v.BindEnv("store.redis_url", EnvPrefix+"_STORE_REDIS_URL", "REDIS_URL")
	_ = v.BindEnv("telegram.token", EnvPrefix+"_TELEGRAM_TOKEN", "TELEGRAM_BOT_TOKEN")
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)
	v.SetDefault("server.idle_timeout", 60*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("store.backend", "")
	v.SetDefault("store.db_path", "")
	v.SetDefault("store.redis_url", "")
	v.SetDefault("store.redis_prefix", "interviewer:")
	v.SetDefault("store.redis_ttl", 7*24*time.Hour)

	v.SetDefault("interview.offline_mode", "templates")
	v.SetDefault("interview.seed", 0)
	v.SetDefault("interview.logical_kinds", []string{})
	v.SetDefault("interview.aptitude_kinds", []string{})
	v.SetDefault("interview.generation_timeout", 5*time.Second)
	v.SetDefault("interview.grading_timeout", 5*time.Second)
	v.SetDefault("interview.disable_llm", false)

	v.SetDefault("retention.enabled", true)
	v.SetDefault("retention.schedule", "@daily")
	v.SetDefault("retention.sessions", 30*24*time.Hour)
	v.SetDefault("retention.events", 90*24*time.Hour)

	v.SetDefault("telegram.token", "")
	v.SetDefault("telegram.debug", false)
	v.SetDefault("telegram.poll_timeout", 60*time.Second)

	v.SetDefault("log.debug", false)
	v.SetDefault("log.json", false)
}

// LoadDotEnv loads .env from the working directory. A missing file is fine.
func LoadDotEnv() error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

// Load reads the config file and unmarshals v. When file is empty,
// interviewer.yaml in the working directory is used if it exists.
func Load(v *viper.Viper, file string) (*Config, error) {
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.Store.Backend = cfg.Store.ResolvedBackend()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ResolvedBackend applies the redis-or-memory default.
func (s StoreConfig) ResolvedBackend() string {
	if s.Backend != "" {
		return strings.ToLower(s.Backend)
	}
	if s.RedisURL != "" {
		return "redis"
	}
	return "memory"
}

// maxCallTimeout bounds every generation and grading call.
const maxCallTimeout = 10 * time.Second

// Validate checks settings that would otherwise fail late.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case "memory", "sqlite":
	case "redis":
		if c.Store.RedisURL == "" {
			return errors.New("store.backend is redis but store.redis_url is empty")
		}
	default:
		return fmt.Errorf("unknown store.backend %q (want memory, sqlite or redis)", c.Store.Backend)
	}

	switch c.Interview.OfflineMode {
	case "templates", "bank":
	default:
		return fmt.Errorf("unknown interview.offline_mode %q", c.Interview.OfflineMode)
	}

	if c.Interview.GenerationTimeout <= 0 || c.Interview.GradingTimeout <= 0 {
		return errors.New("interview timeouts must be positive")
	}
	if c.Interview.GenerationTimeout >= maxCallTimeout || c.Interview.GradingTimeout >= maxCallTimeout {
		return fmt.Errorf("interview timeouts must be under %s", maxCallTimeout)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	return nil
}
