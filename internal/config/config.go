package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server   Server   `mapstructure:"server"`
	Database Database `mapstructure:"database"`
	Logger   Logger   `mapstructure:"logger"`
	Quote    Quote    `mapstructure:"quote"`
	Finance  Finance  `mapstructure:"finance"`
}

// Server holds the configuration for the web server.
type Server struct {
	Port          int    `mapstructure:"port"`
	SessionSecret string `mapstructure:"session_secret"`
	TemplateDir   string `mapstructure:"template_dir"`
	StaticDir     string `mapstructure:"static_dir"`
}

// Database holds the configuration for the database.
type Database struct {
	DSN string `mapstructure:"dsn"`
}

// Logger holds the configuration for the logger.
type Logger struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Quote holds the configuration for the external quote provider.
type Quote struct {
	BaseURL        string  `mapstructure:"base_url"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
	RateLimit      float64 `mapstructure:"rate_limit"`
	RateLimitBurst int     `mapstructure:"rate_limit_burst"`
}

// Finance holds the configuration for account bookkeeping.
type Finance struct {
	// StartingCash is the cash balance granted to every new account,
	// as a decimal string.
	StartingCash string `mapstructure:"starting_cash"`
}

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName("config") // name of config file (without extension)
	viper.SetConfigType("yml")    // or yaml, json

	// Allow environment variables to override config file
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Set default values
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.template_dir", "web/templates")
	viper.SetDefault("server.static_dir", "web/static")
	viper.SetDefault("database.dsn", "finance.db")
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("quote.timeout_seconds", 5)
	viper.SetDefault("quote.rate_limit", 10) // requests per second
	viper.SetDefault("quote.rate_limit_burst", 5)
	viper.SetDefault("finance.starting_cash", "10000")

	err = viper.ReadInConfig()
	if err != nil {
		return
	}

	err = viper.Unmarshal(&config)
	return
}
