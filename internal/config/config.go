package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	MCP     MCPConfig     `yaml:"mcp"`
	Karma   KarmaConfig   `yaml:"karma"`
	Logging LoggingConfig `yaml:"logging"`
}

type ServerConfig struct {
	BindAddr string `yaml:"bindAddr"`
}

type MCPConfig struct {
	Transport string `yaml:"transport"` // "streamable-http" or "stdio"
	Port      int    `yaml:"port"`
	Endpoint  string `yaml:"endpoint"`
}

type KarmaConfig struct {
	URL     string `yaml:"url"`
	Timeout string `yaml:"timeout"` // e.g. "15s"
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Load builds the configuration from environment variables, then applies
// overrides from the optional YAML file at path.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			BindAddr: getEnv("SERVER_BIND_ADDR", ":8081"),
		},
		MCP: MCPConfig{
			Transport: getEnv("MCP_TRANSPORT", "streamable-http"),
			Port:      getEnvInt("MCP_PORT", 8082),
			Endpoint:  getEnv("MCP_ENDPOINT", "/mcp"),
		},
		Karma: KarmaConfig{
			URL:     getEnv("KARMA_URL", "http://localhost:8080"),
			Timeout: getEnv("KARMA_TIMEOUT", "15s"),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}

	if path != "" {
		if err := loadFromFile(cfg, path); err != nil {
			return nil, err
		}
	}

	// fill reasonable defaults when fields omitted in file
	if cfg.Server.BindAddr == "" {
		cfg.Server.BindAddr = ":8081"
	}
	if cfg.MCP.Transport == "" {
		cfg.MCP.Transport = "streamable-http"
	}
	if cfg.MCP.Port == 0 {
		cfg.MCP.Port = 8082
	}
	if cfg.MCP.Endpoint == "" {
		cfg.MCP.Endpoint = "/mcp"
	}
	if cfg.Karma.URL == "" {
		cfg.Karma.URL = "http://localhost:8080"
	}
	if cfg.Karma.Timeout == "" {
		cfg.Karma.Timeout = "15s"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}

	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
