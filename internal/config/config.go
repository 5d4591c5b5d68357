package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	"taskboard/internal/format"
	"taskboard/internal/model"
)

const (
	EnvDev   = "dev"
	EnvProd  = "prod"
	EnvLocal = "local"
)

const DefaultDotenv = ".env"

type Config struct {
	Env      string `env:"TASKBOARD_ENV" env-default:"prod"`
	LogLevel string `env:"TASKBOARD_LOG_LEVEL" env-default:"warn"`
	Addr     string `env:"TASKBOARD_ADDR" env-default:"127.0.0.1:3333"`
	Seed     string `env:"TASKBOARD_SEED"`
	Format   string `env:"TASKBOARD_FORMAT" env-default:"json"`
	Pretty   bool   `env:"TASKBOARD_PRETTY" env-default:"false"`
	// Today pins the current day (YYYY-MM-DD) for overdue and calendar views.
	Today string `env:"TASKBOARD_TODAY"`
}

type Reader interface {
	Read() (*Config, error)
}

// EnvReader reads Config from the process environment after loading
// DotenvPath, if that file exists. Variables already set win over the file.
type EnvReader struct {
	DotenvPath string
}

func NewEnvReader() EnvReader {
	return EnvReader{DotenvPath: DefaultDotenv}
}

func (r EnvReader) Read() (*Config, error) {
	if p := strings.TrimSpace(r.DotenvPath); p != "" {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", p, err)
		}
	}
	cfg := new(Config)
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Env {
	case EnvDev, EnvProd, EnvLocal:
	default:
		return fmt.Errorf("unknown env: %s", c.Env)
	}
	if !format.Valid(c.Format) {
		return fmt.Errorf("unknown format: %s", c.Format)
	}
	if strings.TrimSpace(c.Today) != "" {
		if _, err := model.ParseDate(c.Today); err != nil {
			return fmt.Errorf("TASKBOARD_TODAY: %w", err)
		}
	}
	return nil
}

// Usage describes the environment variables Config reads.
func Usage() string {
	desc, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return desc
}
