// File: internal/config/config.go
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ServerPort   string `yaml:"server_port"`
	DatabasePath string `yaml:"database_path"`
	Environment  string `yaml:"env"`
	LogLevel     string `yaml:"log_level"`

	// AuthMode is "jwt" (verify HS256 bearer tokens) or "header" (trust X-User-Id
	// set by an upstream identity proxy).
	AuthMode     string        `yaml:"auth_mode"`
	JWTSecretKey string        `yaml:"jwt_secret_key"`
	TokenTTL     time.Duration `yaml:"token_ttl"`

	MaxChatsPerOwner   int    `yaml:"max_chats_per_owner"`
	IDAllocator        string `yaml:"id_allocator"`
	IDAllocatorRetries int    `yaml:"id_allocator_retries"`

	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`

	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		ServerPort:         "8080",
		DatabasePath:       "chatsync.db",
		Environment:        "development",
		LogLevel:           "info",
		AuthMode:           "jwt",
		TokenTTL:           24 * time.Hour,
		MaxChatsPerOwner:   100,
		IDAllocator:        "max",
		IDAllocatorRetries: 3,
		RateLimitRPS:       5,
		RateLimitBurst:     20,
		ShutdownTimeout:    15 * time.Second,
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_FILE, then environment variables. A .env file is read outside production.
func Load() (*Config, error) {
	if !isProduction(os.Getenv("ENV")) {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := Defaults()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, err
		}
	}
	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.ServerPort = getEnv("SERVER_PORT", c.ServerPort)
	c.DatabasePath = getEnv("DATABASE_PATH", c.DatabasePath)
	c.Environment = getEnv("ENV", c.Environment)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.AuthMode = strings.ToLower(getEnv("AUTH_MODE", c.AuthMode))
	c.JWTSecretKey = getEnv("JWT_SECRET_KEY", c.JWTSecretKey)
	c.TokenTTL = getEnvAsDuration("TOKEN_TTL", c.TokenTTL)
	c.MaxChatsPerOwner = getEnvAsInt("MAX_CHATS_PER_OWNER", c.MaxChatsPerOwner)
	c.IDAllocator = strings.ToLower(getEnv("ID_ALLOCATOR", c.IDAllocator))
	c.IDAllocatorRetries = getEnvAsInt("ID_ALLOCATOR_RETRIES", c.IDAllocatorRetries)
	c.RateLimitRPS = getEnvAsFloat("RATE_LIMIT_RPS", c.RateLimitRPS)
	c.RateLimitBurst = getEnvAsInt("RATE_LIMIT_BURST", c.RateLimitBurst)
	c.ShutdownTimeout = getEnvAsDuration("SHUTDOWN_TIMEOUT", c.ShutdownTimeout)
}

// Validate rejects values the server cannot run with.
func (c *Config) Validate() error {
	var problems []string

	if c.ServerPort == "" {
		problems = append(problems, "SERVER_PORT is empty")
	}
	if c.DatabasePath == "" {
		problems = append(problems, "DATABASE_PATH is empty")
	}
	switch c.AuthMode {
	case "jwt":
		if isProduction(c.Environment) && c.JWTSecretKey == "" {
			problems = append(problems, "JWT_SECRET_KEY is required in production")
		}
	case "header":
	default:
		problems = append(problems, fmt.Sprintf("AUTH_MODE must be jwt or header, got %q", c.AuthMode))
	}
	if c.MaxChatsPerOwner <= 0 {
		problems = append(problems, "MAX_CHATS_PER_OWNER must be positive")
	}
	switch c.IDAllocator {
	case "max", "counter":
	default:
		problems = append(problems, fmt.Sprintf("ID_ALLOCATOR must be max or counter, got %q", c.IDAllocator))
	}
	if c.IDAllocatorRetries < 2 {
		problems = append(problems, "ID_ALLOCATOR_RETRIES must be at least 2")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		problems = append(problems, "RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func (c *Config) IsProduction() bool {
	return isProduction(c.Environment)
}

func isProduction(env string) bool {
	return strings.ToLower(env) == "production"
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as number. Using default value.", key)
		return defaultValue
	}
	return v
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as duration. Using default value.", key)
		return defaultValue
	}
	return v
}
