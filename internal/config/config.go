package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const devJWTSecret = "default_super_secret_key" // Development fallback only

// Config holds everything the API process reads from the environment
type Config struct {
	Port        string        `env:"PORT" envDefault:"8080"`
	GinMode     string        `env:"GIN_MODE" envDefault:"debug"`
	JWTSecret   string        `env:"JWT_SECRET"`
	JWTTTL      time.Duration `env:"JWT_TTL" envDefault:"720h"`
	CORSOrigins []string      `env:"CORS_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173,http://127.0.0.1:5173,http://localhost:5174"`

	DB    DatabaseConfig
	Admin AdminConfig
	Log   LogConfig
}

// DatabaseConfig describes the postgres connection
type DatabaseConfig struct {
	Host     string `env:"DB_HOST" envDefault:"localhost"`
	Port     string `env:"DB_PORT" envDefault:"5432"`
	User     string `env:"DB_USER" envDefault:"postgres"`
	Password string `env:"DB_PASSWORD" envDefault:"postgres"`
	Name     string `env:"DB_NAME" envDefault:"postgres"`
	SSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// AdminConfig is the account provisioned on first boot. The default password must be
// changed before production use.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL" envDefault:"admin@projector.com"`
	Password string `env:"ADMIN_PASSWORD" envDefault:"password123"`
	Name     string `env:"ADMIN_NAME" envDefault:"Admin User"`
}

// LogConfig controls the logrus output
type LogConfig struct {
	Level      string `env:"LOG_LEVEL" envDefault:"info"`
	Format     string `env:"LOG_FORMAT" envDefault:"text"`  // text, json
	File       string `env:"LOG_FILE"`                      // empty = stdout only
	MaxSize    int    `env:"LOG_MAX_SIZE" envDefault:"100"` // MB
	MaxBackups int    `env:"LOG_MAX_BACKUPS" envDefault:"7"`
	MaxAge     int    `env:"LOG_MAX_AGE" envDefault:"7"` // days
	Compress   bool   `env:"LOG_COMPRESS" envDefault:"true"`
}

// Load reads the optional dotenv files (configs/.env by default) and then parses the
// environment. Variables already set in the environment win over the files.
func Load(files ...string) (*Config, error) {
	if len(files) == 0 {
		files = []string{"configs/.env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to load %s: %w", f, err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}

	if cfg.JWTSecret == "" {
		if cfg.IsRelease() {
			return nil, errors.New("JWT_SECRET environment variable is required in release mode")
		}
		cfg.JWTSecret = devJWTSecret
	}

	return &cfg, nil
}

// IsRelease reports whether gin runs in release mode
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// DSN builds the postgres connection URL
func (d DatabaseConfig) DSN() string {
	return "postgres://" + d.User + ":" + d.Password + "@" + d.Host + ":" + d.Port + "/" + d.Name + "?sslmode=" + d.SSLMode
}
