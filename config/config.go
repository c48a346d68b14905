package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	DriverMySQL  = "mysql"
	DriverSQLite = "sqlite"
)

// Config contiene todo lo que la API lee de las variables de entorno
type Config struct {
	DBDriver   string `env:"DB_DRIVER" envDefault:"mysql"`
	DBHost     string `env:"DB_HOST" envDefault:"localhost"`
	DBPort     string `env:"DB_PORT" envDefault:"3306"`
	DBUser     string `env:"DB_USER" envDefault:"crm_user"`
	DBPassword string `env:"DB_PASSWORD" envDefault:"crm_password"`
	DBName     string `env:"DB_NAME" envDefault:"crm_db"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"crm.db"`
	DBLogLevel string `env:"DB_LOG_LEVEL" envDefault:"warn"`

	Port               string   `env:"SERVER_PORT" envDefault:"8081"`
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000"`

	// Sin MemcachedHost el cache queda solo en memoria
	MemcachedHost string        `env:"MEMCACHED_HOST"`
	CacheMaxSize  int64         `env:"CACHE_MAX_SIZE" envDefault:"1000"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"5m"`

	// Sin RabbitMQURL no se publican eventos
	RabbitMQURL     string `env:"RABBITMQ_URL"`
	PropertiesQueue string `env:"PROPERTIES_QUEUE" envDefault:"properties_queue"`
}

// Load lee el entorno y valida los valores que tienen un conjunto cerrado
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if cfg.DBDriver != DriverMySQL && cfg.DBDriver != DriverSQLite {
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}
	if cfg.CacheMaxSize <= 0 {
		return nil, fmt.Errorf("CACHE_MAX_SIZE must be positive, got %d", cfg.CacheMaxSize)
	}
	return cfg, nil
}

// DSN arma el data source name de MySQL
// Los timestamps se guardan y se leen en UTC
func (c *Config) DSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}
