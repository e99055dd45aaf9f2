package catalog

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Pool defaults applied when the corresponding config field is zero.
const (
	defaultMaxOpenConns    = 50
	defaultMaxIdleConns    = 25
	defaultConnMaxLifetime = time.Minute
)

// Config holds PostgreSQL connection settings for the image catalog.
type Config struct {
	Host     string `yaml:"host" envconfig:"CATALOG_DB_HOST"`
	Port     int    `yaml:"port" envconfig:"CATALOG_DB_PORT"`
	User     string `yaml:"user" envconfig:"CATALOG_DB_USER"`
	Password string `yaml:"password" envconfig:"CATALOG_DB_PASSWORD"`
	DBName   string `yaml:"db_name" envconfig:"CATALOG_DB_NAME"`
	SSLMode  string `yaml:"ssl_mode" envconfig:"CATALOG_DB_SSL_MODE"`

	// MaxOpenConns, MaxIdleConns bound the connection pool.
	MaxOpenConns int `yaml:"max_open_conns" envconfig:"CATALOG_DB_MAX_OPEN_CONNS"`
	MaxIdleConns int `yaml:"max_idle_conns" envconfig:"CATALOG_DB_MAX_IDLE_CONNS"`
}

// NewConfig reads the catalog configuration from environment variables.
func NewConfig() *Config {
	port := 5432
	if v := os.Getenv("CATALOG_DB_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			port = n
		}
	}

	sslMode := os.Getenv("CATALOG_DB_SSL_MODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	return &Config{
		Host:     os.Getenv("CATALOG_DB_HOST"),
		Port:     port,
		User:     os.Getenv("CATALOG_DB_USER"),
		Password: os.Getenv("CATALOG_DB_PASSWORD"),
		DBName:   os.Getenv("CATALOG_DB_NAME"),
		SSLMode:  sslMode,
	}
}

// Validate ensures required fields are present.
func (c *Config) Validate() error {
	if c.Host == "" {
		return fmt.Errorf("catalog: missing CATALOG_DB_HOST")
	}
	if c.User == "" {
		return fmt.Errorf("catalog: missing CATALOG_DB_USER")
	}
	if c.DBName == "" {
		return fmt.Errorf("catalog: missing CATALOG_DB_NAME")
	}
	return nil
}

// dsn builds the connection string.
func (c *Config) dsn() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
