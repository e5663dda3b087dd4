package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig `mapstructure:"server"`
	API    APIConfig    `mapstructure:"api"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Form   FormConfig   `mapstructure:"form"`
	Log    LogConfig    `mapstructure:"log"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Host string `mapstructure:"host"`
	// SessionTTL is how long, in seconds, an untouched form session is kept
	SessionTTL int `mapstructure:"session_ttl"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIConfig holds the remote catalog API configuration
type APIConfig struct {
	BaseURL              string   `mapstructure:"base_url"`
	PrivateKey           string   `mapstructure:"private_key"`
	CategoriesPath       string   `mapstructure:"categories_path"`
	Timeout              int      `mapstructure:"timeout"`
	MaxRequestsPerSecond int      `mapstructure:"max_requests_per_second"`
	Proxies              []string `mapstructure:"proxies"`
}

// RedisConfig holds the optional category cache connection details
type RedisConfig struct {
	Enabled     bool   `mapstructure:"enabled"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	Password    string `mapstructure:"password"`
	Database    int    `mapstructure:"database"`
	CategoryTTL int    `mapstructure:"category_ttl"`
}

// FormConfig holds form behaviour knobs
type FormConfig struct {
	OtherLabel string `mapstructure:"other_label"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

// Load loads configuration from a YAML file with environment variable overrides.
// An empty path searches for config.yaml in the current directory; a missing
// file there is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	setDefaults(v)

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if config.API.BaseURL == "" {
		return nil, fmt.Errorf("api.base_url must not be empty")
	}
	config.API.BaseURL = strings.TrimRight(config.API.BaseURL, "/")

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.session_ttl", 1800)

	v.SetDefault("api.base_url", "http://localhost:3000/api")
	v.SetDefault("api.private_key", "")
	v.SetDefault("api.categories_path", "/get_categories")
	v.SetDefault("api.timeout", 30)
	v.SetDefault("api.max_requests_per_second", 10)
	v.SetDefault("api.proxies", []string{})

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.database", 0)
	v.SetDefault("redis.category_ttl", 300)

	v.SetDefault("form.other_label", "other")

	v.SetDefault("log.level", "info")
}
