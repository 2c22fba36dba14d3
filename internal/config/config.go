// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"

	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or environment variables.
// The secret key must never be logged or echoed in any response.
type Config struct {
	Port           string `mapstructure:"PORT"`
	DBHost         string `mapstructure:"DATABASE_HOSTNAME"`
	DBPort         string `mapstructure:"DATABASE_PORT"`
	DBUser         string `mapstructure:"DATABASE_USERNAME"`
	DBPassword     string `mapstructure:"DATABASE_PASSWORD"`
	DBName         string `mapstructure:"DATABASE_NAME"`
	DBSSLMode      string `mapstructure:"DB_SSLMODE"`
	SecretKey      string `mapstructure:"SECRET_KEY"`
	Algorithm      string `mapstructure:"ALGORITHM"`
	TokenTTLMin    int    `mapstructure:"ACCESS_TOKEN_EXPIRE_MINUTES"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	Env            string `mapstructure:"APP_ENV"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	// The config file is optional; environment variables and defaults are
	// enough to run in development.
	_ = viper.ReadInConfig()

	// Set default values for development
	viper.SetDefault("PORT", "8000")
	viper.SetDefault("DATABASE_HOSTNAME", "localhost")
	viper.SetDefault("DATABASE_PORT", "5432")
	viper.SetDefault("DATABASE_USERNAME", "user")
	viper.SetDefault("DATABASE_PASSWORD", "password")
	viper.SetDefault("DATABASE_NAME", "voxpop")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("SECRET_KEY", "your-secret-key-change-in-production")
	viper.SetDefault("ALGORITHM", "HS256")
	viper.SetDefault("ACCESS_TOKEN_EXPIRE_MINUTES", 30)
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	viper.SetDefault("APP_ENV", "development")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.SecretKey == "" {
		return errors.New("SECRET_KEY is required")
	}
	if c.Algorithm == "" {
		return errors.New("ALGORITHM is required")
	}
	if c.TokenTTLMin <= 0 {
		return errors.New("ACCESS_TOKEN_EXPIRE_MINUTES must be positive")
	}

	isProduction := c.Env == "production" || c.Env == "prod"

	// Strict checks for production
	if isProduction {
		if c.SecretKey == "your-secret-key-change-in-production" {
			return errors.New("SECRET_KEY must be changed from the default value in production")
		}
		if len(c.SecretKey) < 32 {
			return errors.New("SECRET_KEY must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DATABASE_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			log.Println("WARNING: DB_SSLMODE is 'disable' in production. It is highly recommended to use SSL for database connections.")
		}
	} else {
		// Development/Test warnings
		if len(c.SecretKey) < 32 {
			log.Println("WARNING: SECRET_KEY is shorter than 32 characters. Consider using a stronger secret for production.")
		}
	}

	return nil
}
