package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	Game    GameConfig
	Oracle  OracleConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port string
	Host string
	Env  string // "development" or "production"
}

// GameConfig holds game-related configuration
type GameConfig struct {
	MaxPlayers       int
	RoomRoundTime    time.Duration // room mode round duration
	DuelRoundTime    time.Duration // single-player mode round duration
	RoomCodeLength   int
	StaleRoomTimeout time.Duration
	CategoriesFile   string // optional YAML override of per-language categories
}

// OracleConfig holds word-oracle configuration. An empty BaseURL selects the
// built-in wordlist oracle.
type OracleConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string
	Format string // "json" or "console"
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8080"),
			Host: getEnv("HOST", "0.0.0.0"),
			Env:  getEnv("ENV", "development"),
		},
		Game: GameConfig{
			MaxPlayers:       getEnvInt("MAX_PLAYERS", 10),
			RoomRoundTime:    time.Duration(getEnvInt("ROOM_ROUND_SECONDS", 90)) * time.Second,
			DuelRoundTime:    time.Duration(getEnvInt("DUEL_ROUND_SECONDS", 60)) * time.Second,
			RoomCodeLength:   getEnvInt("ROOM_CODE_LENGTH", 6),
			StaleRoomTimeout: time.Duration(getEnvInt("STALE_ROOM_TIMEOUT_MINUTES", 120)) * time.Minute,
			CategoriesFile:   getEnv("CATEGORIES_FILE", ""),
		},
		Oracle: OracleConfig{
			BaseURL: getEnv("ORACLE_BASE_URL", ""),
			APIKey:  getEnv("ORACLE_API_KEY", ""),
			Timeout: time.Duration(getEnvInt("ORACLE_TIMEOUT_SECONDS", 15)) * time.Second,
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}

// CategoryOverrides is the shape of the optional categories YAML file:
//
//	categories:
//	  en: [Name, Place, Animal]
//	  es: [Nombre, Lugar, Animal]
type CategoryOverrides struct {
	Categories map[string][]string `yaml:"categories"`
}

// LoadCategoryOverrides reads the configured categories file, if any
func (c *Config) LoadCategoryOverrides() (map[string][]string, error) {
	if c.Game.CategoriesFile == "" {
		return nil, nil
	}

	data, err := os.ReadFile(c.Game.CategoriesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read categories file: %w", err)
	}

	var overrides CategoryOverrides
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse categories file: %w", err)
	}
	return overrides.Categories, nil
}

// getEnv returns an environment variable or a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvInt returns an environment variable as an integer or a default value
func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
