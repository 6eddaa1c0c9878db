// AngelaMos | 2026
// config_test.go

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Environment: "development"},
		Server:   ServerConfig{ReadTimeout: time.Second, WriteTimeout: time.Second},
		Database: DatabaseConfig{URL: "postgres://localhost/barulogix"},
		Redis:    RedisConfig{URL: "redis://localhost:6379/0"},
		JWT: JWTConfig{
			PrivateKeyPath: "keys/private.pem",
			PublicKeyPath:  "keys/public.pem",
		},
		CORS:    CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Metrics: MetricsConfig{Enabled: true, Path: "/metrics"},
		Deliveries: DeliveriesConfig{
			MaxImportBatch:  500,
			DefaultPageSize: 50,
			MaxPageSize:     200,
		},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:    "missing database url",
			mutate:  func(c *Config) { c.Database.URL = "" },
			wantErr: true,
		},
		{
			name:    "missing redis url",
			mutate:  func(c *Config) { c.Redis.URL = "" },
			wantErr: true,
		},
		{
			name: "wildcard origin with credentials",
			mutate: func(c *Config) {
				c.CORS.AllowCredentials = true
				c.CORS.AllowedOrigins = []string{"*"}
			},
			wantErr: true,
		},
		{
			name: "insecure otel in production",
			mutate: func(c *Config) {
				c.App.Environment = "production"
				c.Otel.Enabled = true
				c.Otel.Insecure = true
			},
			wantErr: true,
		},
		{
			name:    "zero import batch",
			mutate:  func(c *Config) { c.Deliveries.MaxImportBatch = 0 },
			wantErr: true,
		},
		{
			name:    "import batch at limit",
			mutate:  func(c *Config) { c.Deliveries.MaxImportBatch = MaxImportBatchLimit },
			wantErr: false,
		},
		{
			name:    "import batch over bind parameter limit",
			mutate:  func(c *Config) { c.Deliveries.MaxImportBatch = MaxImportBatchLimit + 1 },
			wantErr: true,
		},
		{
			name:    "default page size above max",
			mutate:  func(c *Config) { c.Deliveries.DefaultPageSize = 500 },
			wantErr: true,
		},
		{
			name:    "relative metrics path",
			mutate:  func(c *Config) { c.Metrics.Path = "metrics" },
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := validConfig()
			tc.mutate(c)

			err := validate(c)
			if tc.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tc.wantErr && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

func TestLoadFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	yamlBody := []byte(`
app:
  name: BaruLogix Test
database:
  url: postgres://file/barulogix
redis:
  url: redis://file:6379/0
deliveries:
  max_import_batch: 100
`)
	if err := os.WriteFile(path, yamlBody, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("DATABASE_URL", "postgres://env/barulogix")
	t.Setenv("PORT", "9090")
	t.Setenv("HOST", "0.0.0.0")

	c, err := load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.App.Name != "BaruLogix Test" {
		t.Errorf("app name = %q, want file value", c.App.Name)
	}
	if c.Database.URL != "postgres://env/barulogix" {
		t.Errorf("database url = %q, want env override", c.Database.URL)
	}
	if c.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", c.Server.Port)
	}
	if c.Deliveries.MaxImportBatch != 100 {
		t.Errorf("max import batch = %d, want 100", c.Deliveries.MaxImportBatch)
	}
	if c.Deliveries.DefaultPageSize != 50 {
		t.Errorf("default page size = %d, want default 50", c.Deliveries.DefaultPageSize)
	}
	if c.Server.Address() != "0.0.0.0:9090" {
		t.Errorf("address = %q", c.Server.Address())
	}
}
