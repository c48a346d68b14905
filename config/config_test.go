package config

import (
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.DBDriver != DriverMySQL {
		t.Errorf("Expected driver %s, got %s", DriverMySQL, cfg.DBDriver)
	}
	if cfg.Port != "8081" {
		t.Errorf("Expected port 8081, got %s", cfg.Port)
	}
	if cfg.PropertiesQueue != "properties_queue" {
		t.Errorf("Expected queue properties_queue, got %s", cfg.PropertiesQueue)
	}
	if cfg.CacheTTL != 5*time.Minute {
		t.Errorf("Expected cache TTL 5m, got %s", cfg.CacheTTL)
	}
	if cfg.RabbitMQURL != "" || cfg.MemcachedHost != "" {
		t.Error("Expected RabbitMQ and Memcached to be disabled by default")
	}
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.example,http://b.example")
	t.Setenv("CACHE_TTL", "30s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.DBDriver != DriverSQLite {
		t.Errorf("Expected driver %s, got %s", DriverSQLite, cfg.DBDriver)
	}
	if cfg.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Port)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "http://b.example" {
		t.Errorf("Unexpected CORS origins %v", cfg.CORSAllowedOrigins)
	}
	if cfg.CacheTTL != 30*time.Second {
		t.Errorf("Expected cache TTL 30s, got %s", cfg.CacheTTL)
	}
}

func TestLoad_UnsupportedDriver(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")

	if _, err := Load(); err == nil {
		t.Error("Expected error for unsupported driver, got nil")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "db", DBPort: "3306", DBName: "crm"}

	want := "u:p@tcp(db:3306)/crm?charset=utf8mb4&parseTime=True&loc=UTC"
	if got := cfg.DSN(); got != want {
		t.Errorf("Expected DSN %s, got %s", want, got)
	}
}
