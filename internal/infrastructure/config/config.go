package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for our application
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Game     GameConfig     `mapstructure:"game"`
	Bulk     BulkConfig     `mapstructure:"bulk"`
	HTTP     HTTPConfig     `mapstructure:"http"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
	Path     string `mapstructure:"path"`
	LogSQL   bool   `mapstructure:"log_sql"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelegramConfig holds the bot credentials and send limits.
type TelegramConfig struct {
	Token       string        `mapstructure:"token"`
	Rate        float64       `mapstructure:"rate"`
	Burst       int           `mapstructure:"burst"`
	PollTimeout int           `mapstructure:"poll_timeout"`
	SessionIdle time.Duration `mapstructure:"session_idle"`
}

// GameConfig holds scoring and round size settings.
type GameConfig struct {
	Quantity int   `mapstructure:"quantity"`
	Reward   int64 `mapstructure:"reward"`
	Penalty  int64 `mapstructure:"penalty"`
}

// BulkConfig points at the depletable word list.
type BulkConfig struct {
	Path string `mapstructure:"path"`
}

// HTTPConfig holds the status server settings.
type HTTPConfig struct {
	Addr        string   `mapstructure:"addr"`
	CORSOrigins []string `mapstructure:"cors_origins"`
}

// Load reads configuration from file and environment variables
func Load() (*Config, error) {
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")

	// Set default values
	setDefaults()

	// Enable reading from environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read configuration file
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Database defaults
	viper.SetDefault("database.driver", "sqlite3")
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.name", "vocquiz")
	viper.SetDefault("database.user", "postgres")
	viper.SetDefault("database.password", "postgres")
	viper.SetDefault("database.sslmode", "disable")
	viper.SetDefault("database.path", "vocquiz.db")
	viper.SetDefault("database.log_sql", false)

	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "json")

	// Telegram defaults
	viper.SetDefault("telegram.token", "")
	viper.SetDefault("telegram.rate", 25.0)
	viper.SetDefault("telegram.burst", 5)
	viper.SetDefault("telegram.poll_timeout", 60)
	viper.SetDefault("telegram.session_idle", 10*time.Minute)

	// Game defaults
	viper.SetDefault("game.quantity", 4)
	viper.SetDefault("game.reward", 1)
	viper.SetDefault("game.penalty", 3)

	viper.SetDefault("bulk.path", "russian_english_words.csv")

	viper.SetDefault("http.addr", ":8080")
	viper.SetDefault("http.cors_origins", []string{"*"})
}

// Validate rejects settings the game cannot run with.
func (c *Config) Validate() error {
	if _, err := c.DatabaseDriver(); err != nil {
		return err
	}
	if c.Game.Quantity < 2 {
		return fmt.Errorf("game.quantity must be at least 2, got %d", c.Game.Quantity)
	}
	if c.Game.Reward < 0 || c.Game.Penalty < 0 {
		return fmt.Errorf("game.reward and game.penalty must not be negative")
	}
	return nil
}

// DatabaseDriver returns the normalized database/sql driver name.
func (c *Config) DatabaseDriver() (string, error) {
	switch strings.ToLower(strings.TrimSpace(c.Database.Driver)) {
	case "postgres", "postgresql", "pgx":
		return "postgres", nil
	case "sqlite", "sqlite3", "":
		return "sqlite3", nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
}

// DatabaseURL returns the connection string for the configured driver.
func (c *Config) DatabaseURL() (string, error) {
	driver, err := c.DatabaseDriver()
	if err != nil {
		return "", err
	}
	if driver == "sqlite3" {
		path := strings.TrimSpace(c.Database.Path)
		if path == "" {
			return "", fmt.Errorf("database.path is required for sqlite")
		}
		return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path), nil
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	), nil
}
