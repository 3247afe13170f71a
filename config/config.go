package config

import (
	"errors"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type HTTP struct {
	Addr string `yaml:"addr"`
}

type WS struct {
	// PublicDomain is the origin suffix allowed to connect besides
	// localhost, e.g. "frub.bio" also admits chat.frub.bio.
	PublicDomain string `yaml:"publicDomain"`
}

type Logging struct {
	Env       string `yaml:"env"`       // dev|stage|prod
	Service   string `yaml:"service"`   // chat-service
	Version   string `yaml:"version"`   // v0.1.0
	Backend   string `yaml:"backend"`   // std|zap
	AddSource bool   `yaml:"addSource"` // false|true
	Debug     bool   `yaml:"debug"`     // false|true
}

type Postgres struct {
	DSN string `yaml:"dsn"`
}

type Room struct {
	HistoryLimit  int    `yaml:"historyLimit"`  // retained entries
	HistoryOnJoin int    `yaml:"historyOnJoin"` // replayed on join
	RateBurst     int    `yaml:"rateBurst"`     // chat messages per window
	RateWindow    string `yaml:"rateWindow"`    // e.g. "10s"
}

type Config struct {
	HTTP     HTTP     `yaml:"http"`
	WS       WS       `yaml:"ws"`
	Logging  Logging  `yaml:"logging"`
	Postgres Postgres `yaml:"postgres"`
	Room     Room     `yaml:"room"`
}

func LoadConfig() (*Config, error) {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "./config/config.yaml"
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.HTTP.Addr == "" {
		return errors.New("http.addr is required")
	}
	if c.Postgres.DSN == "" {
		return errors.New("postgres.dsn is required")
	}
	if c.Logging.Service == "" {
		c.Logging.Service = "chat-service"
	}
	if c.Logging.Env == "" {
		c.Logging.Env = "dev"
	}
	if c.Logging.Version == "" {
		c.Logging.Version = "v0.1.0"
	}
	if c.Logging.Backend == "" {
		c.Logging.Backend = "std"
	}
	if c.Room.HistoryLimit <= 0 {
		c.Room.HistoryLimit = 200
	}
	if c.Room.HistoryOnJoin <= 0 {
		c.Room.HistoryOnJoin = 100
	}
	if c.Room.RateBurst <= 0 {
		c.Room.RateBurst = 5
	}
	return nil
}

// RateWindow parses the configured window, falling back to the stock 10s.
func (c *Config) RateWindow() time.Duration {
	return parseDurationOr(10*time.Second, c.Room.RateWindow)
}

func parseDurationOr(def time.Duration, s string) time.Duration {
	if d, err := time.ParseDuration(s); err == nil && d > 0 {
		return d
	}
	return def
}
