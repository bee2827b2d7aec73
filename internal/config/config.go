package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

// Config holds everything the service needs at construction time. There is
// no other process-wide setup: directories, schema, and loggers are wired
// explicitly in main from this struct.
type Config struct {
	// HTTP listen port
	Port string `env:"PORT" envDefault:"8000"`

	// Content-store directory for uploaded file bytes
	UploadDir string `env:"UPLOAD_DIR" envDefault:"images"`

	// Directory holding the upload-form page
	StaticDir string `env:"STATIC_DIR" envDefault:"static"`

	DBName     string `env:"DB_NAME" envDefault:"images_db"`
	DBUser     string `env:"DB_USER" envDefault:"postgres"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"password"`

	// Host and port default per environment (container vs host); an
	// explicit DB_HOST/DB_PORT always wins.
	DBHost string `env:"DB_HOST"`
	DBPort string `env:"DB_PORT"`
}

// Load reads .env (if present) and parses environment variables into Config,
// filling the database host and port defaults for the current environment.
func Load() (Config, error) {
	// Ignore the error if no .env file exists
	_ = godotenv.Load()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	defaultHost, defaultPort := resolveDBDefaults(runningInContainer())
	if cfg.DBHost == "" {
		cfg.DBHost = defaultHost
	}
	if cfg.DBPort == "" {
		cfg.DBPort = defaultPort
	}

	return cfg, nil
}

// resolveDBDefaults picks the database host and port for the environment:
// the Compose service name and native port inside a container, the forwarded
// port on a developer host.
func resolveDBDefaults(inContainer bool) (host, port string) {
	if inContainer {
		return "db", "5432"
	}
	return "localhost", "5433"
}

// runningInContainer detects a container environment via the Docker sentinel
// file or the IN_DOCKER variable.
func runningInContainer() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return os.Getenv("IN_DOCKER") == "1"
}
