package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	WS       WSConfig       `mapstructure:"ws"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Mode            string        `mapstructure:"mode"`
	Port            int           `mapstructure:"port"`
	ClientURL       string        `mapstructure:"client_url"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type AuthConfig struct {
	Secret        string        `mapstructure:"secret"`
	CookieSecret  string        `mapstructure:"cookie_secret"`
	Leeway        time.Duration `mapstructure:"leeway"`
	LookupTimeout time.Duration `mapstructure:"lookup_timeout"`
	JoinLimit     int           `mapstructure:"join_limit"`
	JoinWindow    time.Duration `mapstructure:"join_window"`
}

type DatabaseConfig struct {
	Driver          string        `mapstructure:"driver"`
	URL             string        `mapstructure:"url"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// Seed is a yaml file loaded into the memory driver at startup;
	// other drivers ignore it.
	Seed string `mapstructure:"seed"`
}

// RedisConfig is optional; an empty Addr disables caching and revocation.
type RedisConfig struct {
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	CacheTTL time.Duration `mapstructure:"cache_ttl"`
}

type WSConfig struct {
	ReadLimit  int64         `mapstructure:"read_limit"`
	PingPeriod time.Duration `mapstructure:"ping_period"`
	PongWait   time.Duration `mapstructure:"pong_wait"`
	WriteWait  time.Duration `mapstructure:"write_wait"`
	SendBuffer int           `mapstructure:"send_buffer"`
	KickSlow   bool          `mapstructure:"kick_slow"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Load reads config/config.<CONFIG_ENV>.yaml (dev by default) and applies
// environment overrides.
func Load() (*Config, error) {
	env := os.Getenv("CONFIG_ENV")
	if env == "" {
		env = "dev"
	}
	return LoadFile(fmt.Sprintf("config/config.%s.yaml", env))
}

func LoadFile(fileName string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(fileName)
	setDefaults(v)

	v.SetEnvPrefix("DEBUGCOLLAB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Names the rest of the stack already exports.
	_ = v.BindEnv("auth.secret", "DEBUGCOLLAB_AUTH_SECRET", "JWT_KEY")
	_ = v.BindEnv("server.port", "DEBUGCOLLAB_SERVER_PORT", "PORT")
	_ = v.BindEnv("server.client_url", "DEBUGCOLLAB_SERVER_CLIENT_URL", "CLIENT_URL")
	_ = v.BindEnv("database.url", "DEBUGCOLLAB_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("redis.addr", "DEBUGCOLLAB_REDIS_ADDR", "REDIS_ADDR")

	if err := v.ReadInConfig(); err != nil {
		fmt.Printf("⚠️ Config file not found (%s), using defaults\n", fileName)
	} else {
		fmt.Printf("✅ Loaded config: %s\n", fileName)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fmt.Printf("🧩 Mode: %s | Port: %d | Store: %s\n", cfg.Server.Mode, cfg.Server.Port, cfg.Database.Driver)
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.client_url", "http://localhost:3000")
	v.SetDefault("server.shutdown_timeout", "5s")

	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.cookie_secret", "")
	v.SetDefault("auth.leeway", "0s")
	v.SetDefault("auth.lookup_timeout", "3s")
	v.SetDefault("auth.join_limit", 5)
	v.SetDefault("auth.join_window", "10s")

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 10)
	v.SetDefault("database.max_idle_conns", 2)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.seed", "")

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.cache_ttl", "1m")

	v.SetDefault("ws.read_limit", 32768)
	v.SetDefault("ws.ping_period", "54s")
	v.SetDefault("ws.pong_wait", "60s")
	v.SetDefault("ws.write_wait", "5s")
	v.SetDefault("ws.send_buffer", 64)
	v.SetDefault("ws.kick_slow", true)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 100)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

func (c *Config) Validate() error {
	var errs []error
	if c.Auth.Secret == "" {
		errs = append(errs, errors.New("auth.secret (JWT_KEY) is required"))
	}
	switch c.Database.Driver {
	case "memory":
	case "postgres":

		if c.Database.URL == "" {
			errs = append(errs, errors.New("database.url (DATABASE_URL) is required for the postgres driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown database.driver %q", c.Database.Driver))
	}
	if c.WS.PingPeriod >= c.WS.PongWait {
		errs = append(errs, errors.New("ws.ping_period must be shorter than ws.pong_wait"))
	}
	if c.WS.SendBuffer <= 0 {
		errs = append(errs, errors.New("ws.send_buffer must be positive"))
	}
	return errors.Join(errs...)
}
