package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "PENNYWISE_"

// Config holds application configuration
type Config struct {
	Env      string `koanf:"env"`
	Port     string `koanf:"port"`
	LogLevel string `koanf:"loglevel"`
	Currency string `koanf:"currency"`
	// CORSOrigins is a comma-separated allow list; "*" allows any origin.
	CORSOrigins string   `koanf:"corsorigins"`
	Database    Database `koanf:"db"`
	AMQP        AMQP     `koanf:"amqp"`
	AI          AI       `koanf:"ai"`
}

// Database selects the storage driver and its connection settings.
// Path is only used by the sqlite driver.
type Database struct {
	Driver   string `koanf:"driver"`
	Host     string `koanf:"host"`
	Port     string `koanf:"port"`
	User     string `koanf:"user"`
	Password string `koanf:"password"`
	Name     string `koanf:"name"`
	SSLMode  string `koanf:"sslmode"`
	Path     string `koanf:"path"`
}

// AMQP configures ledger event publishing. An empty URL disables it.
type AMQP struct {
	URL      string `koanf:"url"`
	Exchange string `koanf:"exchange"`
}

// AI configures the transaction classifier and the chat assistant.
type AI struct {
	Provider    string  `koanf:"provider"`
	APIKey      string  `koanf:"apikey"`
	BaseURL     string  `koanf:"baseurl"`
	Model       string  `koanf:"model"`
	ChatModel   string  `koanf:"chatmodel"`
	Temperature float32 `koanf:"temperature"`
	MaxTokens   int     `koanf:"maxtokens"`
}

// AI providers.
const (
	ProviderNone   = "none"
	ProviderOpenAI = "openai"
	ProviderOllama = "ollama"
)

// Database drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

func defaults() Config {
	return Config{
		Env:         "development",
		Port:        "8080",
		LogLevel:    "info",
		Currency:    "zł",
		CORSOrigins: "*",
		Database: Database{
			Driver:  DriverPostgres,
			Host:    "localhost",
			Port:    "5432",
			User:    "pennywise",
			Name:    "pennywise",
			SSLMode: "disable",
			Path:    "pennywise.db",
		},
		AMQP: AMQP{
			Exchange: "pennywise.events",
		},
		AI: AI{
			Provider:    ProviderNone,
			BaseURL:     "http://localhost:11434/v1",
			Model:       "gpt-3.5-turbo",
			ChatModel:   "gpt-3.5-turbo",
			Temperature: 0.7,
			MaxTokens:   500,
		},
	}
}

// Load builds the configuration from struct defaults, an optional YAML file
// at path and PENNYWISE_* environment variables, in that order. A .env file
// in the working directory is loaded into the environment first.
func Load(path string) (*Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load config defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: envPrefix,
		TransformFunc: func(k, v string) (string, any) {
			k = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(k, envPrefix)), "_", ".")
			return k, v
		},
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}

	switch c.AI.Provider {
	case ProviderNone, ProviderOllama:
	case ProviderOpenAI:
		if c.AI.APIKey == "" {
			return fmt.Errorf("ai.apikey is required for the openai provider")
		}
	default:
		return fmt.Errorf("unsupported ai provider %q", c.AI.Provider)
	}

	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	return nil
}

// AllowedOrigins splits CORSOrigins into its entries.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.CORSOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// DefaultPath returns the config file location, honouring PENNYWISE_CONFIG.
func DefaultPath() string {
	if p := os.Getenv(envPrefix + "CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}
