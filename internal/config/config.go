package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"swarm-console/internal/utils"
)

// EnvPrefix is prepended to every key when it is looked up in the
// environment: core_url is read from SWARM_CORE_URL, log.level from
// SWARM_LOG_LEVEL.
const EnvPrefix = "SWARM"

type LoggerConfig struct {
	File       string `mapstructure:"file"`
	Level      string `mapstructure:"level"`
	Console    bool   `mapstructure:"console"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
}

type Config struct {
	CoreURL     string        `mapstructure:"core_url"`
	WSURL       string        `mapstructure:"ws_url"`
	AuthToken   string        `mapstructure:"auth_token"`
	CatalogFile string        `mapstructure:"catalog_file"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	RevealChunk int           `mapstructure:"reveal_chunk"`
	RevealTick  time.Duration `mapstructure:"reveal_tick"`
	Logger      LoggerConfig  `mapstructure:"log"`
}

// LoadDotEnv reads .env into the process environment. A missing file is fine;
// everything has a default.
func LoadDotEnv(paths ...string) error {
	err := godotenv.Load(paths...)
	if err != nil && os.IsNotExist(err) {
		return nil
	}
	return err
}

// SetDefaults registers every key, so each one can be overridden from the
// environment.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("core_url", "http://localhost:8080")
	v.SetDefault("ws_url", "")
	v.SetDefault("auth_token", "")
	v.SetDefault("catalog_file", "")
	v.SetDefault("http_timeout", "30s")
	v.SetDefault("reveal_chunk", 5)
	v.SetDefault("reveal_tick", "5ms")

	v.SetDefault("log.file", "swarmctl.log")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.console", false)
	v.SetDefault("log.max_size", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age", 28)
}

// NewViper returns a viper instance with defaults and SWARM_ environment
// lookup. Command-line flags are bound onto it by the caller.
func NewViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load decodes v into a Config and finalizes it. Flags bound to v take
// precedence over the environment, which takes precedence over defaults.
func Load(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	if err := cfg.Finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Finalize trims input, fills the websocket URL from the core URL when none
// was given and validates.
func (c *Config) Finalize() error {
	c.CoreURL = strings.TrimRight(strings.TrimSpace(c.CoreURL), "/")
	c.WSURL = strings.TrimSpace(c.WSURL)
	c.AuthToken = strings.TrimSpace(c.AuthToken)
	c.CatalogFile = strings.TrimSpace(c.CatalogFile)

	u, err := url.Parse(c.CoreURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("invalid swarm-core URL %q: expected http(s)://host[:port]", c.CoreURL)
	}
	if c.WSURL == "" {
		c.WSURL, err = utils.WebSocketURL(c.CoreURL, "/api/v1/ws")
		if err != nil {
			return fmt.Errorf("derive websocket URL: %w", err)
		}
	}
	wu, err := url.Parse(c.WSURL)
	if err != nil || (wu.Scheme != "ws" && wu.Scheme != "wss") || wu.Host == "" {
		return fmt.Errorf("invalid websocket URL %q: expected ws(s)://host[:port]/path", c.WSURL)
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("http timeout must be positive, got %s", c.HTTPTimeout)
	}
	if c.RevealTick <= 0 {
		return fmt.Errorf("reveal tick must be positive, got %s", c.RevealTick)
	}
	if c.RevealChunk <= 0 {
		return fmt.Errorf("reveal chunk must be positive, got %d", c.RevealChunk)
	}
	return nil
}
