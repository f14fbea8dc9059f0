package config

import (
	"fmt"
	"os"
	"strings"
)

const AvatarSize = 96

const (
	DriverMySQL  = "mysql"
	DriverMemory = "memory"
)

// Config holds everything the server reads from the environment.
type Config struct {
	DBDriver  string
	DBUser    string
	DBPass    string
	DBHost    string
	DBName    string
	Port      string
	FEOrigins []string
	GinMode   string
	LogLevel  string
}

func Load() (*Config, error) {
	cfg := &Config{
		DBDriver: getDefault("DB_DRIVER", DriverMySQL),
		DBUser:   os.Getenv("DB_USER"),
		DBPass:   os.Getenv("DB_PASS"),
		DBHost:   os.Getenv("DB_HOST"),
		DBName:   getDefault("DB_NAME", "hostel-portal"),
		Port:     os.Getenv("PORT"),
		GinMode:  os.Getenv("GIN_MODE"),
		LogLevel: getDefault("LOG_LEVEL", "info"),
	}
	if origins := os.Getenv("FE_ORIGINS"); origins != "" {
		cfg.FEOrigins = strings.Split(origins, ";")
	}

	if cfg.Port == "" {
		return nil, fmt.Errorf("$PORT must be set")
	}
	switch cfg.DBDriver {
	case DriverMySQL:
		if cfg.DBUser == "" || cfg.DBHost == "" {
			return nil, fmt.Errorf("$DB_USER and $DB_HOST must be set when DB_DRIVER=%v", DriverMySQL)
		}
	case DriverMemory:
	default:
		return nil, fmt.Errorf("unknown DB_DRIVER %v", cfg.DBDriver)
	}
	return cfg, nil
}

// DSN builds the MySQL connection string for the configured database.
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s)/%s?tls=true&parseTime=true",
		c.DBUser, c.DBPass, c.DBHost, c.DBName)
}

func getDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
