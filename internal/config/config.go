// Package config handles loading and parsing application configuration.
// It supports two sources (in priority order):
//  1. An environment variable:  CONFIG_PATH=/path/to/config.yaml
//  2. A command-line flag:      --config=/path/to/config.yaml
//
// Every field can also be overridden by its env:"..." variable, so a
// container deployment never needs the YAML file edited.
package config

import (
	"flag"
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the root configuration structure.
type Config struct {
	// Env controls log format and verbosity: "dev", "staging", "prod".
	Env string `yaml:"env" env:"ENV" env-default:"dev"`

	// StoragePath is the filesystem path to the SQLite .db file.
	StoragePath string `yaml:"storage_path" env:"STORAGE_PATH" env-required:"true"`

	HTTPServer `yaml:"http_server"`
	Verifier   `yaml:"verifier"`
}

// HTTPServer holds settings specific to the HTTP server.
type HTTPServer struct {
	Addr string `yaml:"address" env:"HTTP_SERVER_ADDR" env-default:"localhost:5001"`
}

// Verifier configures the profile-verification client. The GitHub API
// base is injected rather than hardcoded so tests can point it at a
// fake server.
type Verifier struct {
	GitHubAPI string        `yaml:"github_api" env:"GITHUB_API" env-default:"https://api.github.com"`
	Timeout   time.Duration `yaml:"request_timeout" env:"VERIFY_TIMEOUT" env-default:"10s"`
}

// MustLoad reads, validates, and returns the application config.
// Functions prefixed with "Must" are allowed to fatal on failure;
// if this returns, the config is valid.
func MustLoad() *Config {
	configPath := os.Getenv("CONFIG_PATH")

	if configPath == "" {
		flags := flag.String("config", "", "Path to the configuration YAML file")
		flag.Parse()
		configPath = *flags
	}

	if configPath == "" {
		log.Fatal("config path is not set: use --config flag or CONFIG_PATH env var")
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err.Error())
	}

	return &cfg
}
