package config

import (
	"os"
	"path/filepath"
	"testing"
)

func isolate(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ADDR", "WEB_DIR", "PAGE_SIZE", "STORE", "DATABASE_URL", "SQLITE_PATH", "IMPORT_FILE"} {
		t.Setenv(k, "")
	}
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "absent.env"))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Addr != ":8080" || cfg.Store != StoreMemory || cfg.SQLitePath != "pregweight.db" || cfg.PageSize != 10 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"sqlite", map[string]string{"STORE": "sqlite"}, false},
		{"postgres without url", map[string]string{"STORE": "postgres"}, true},
		{"postgres with url", map[string]string{"STORE": "postgres", "DATABASE_URL": "postgres://localhost/x"}, false},
		{"unknown store", map[string]string{"STORE": "redis"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			isolate(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if (err != nil) != tc.wantErr {
				t.Fatalf("wantErr=%v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoad_EnvFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("SQLITE_PATH=/tmp/from-file.db\nADDR=:9999\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("ENV_FILE", path)
	t.Setenv("ADDR", ":7000")
	// godotenv only fills variables that are absent, not ones set empty.
	_ = os.Unsetenv("SQLITE_PATH")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.SQLitePath != "/tmp/from-file.db" {
		t.Errorf("expected value from file, got %s", cfg.SQLitePath)
	}
	if cfg.Addr != ":7000" {
		t.Errorf("process env should win, got %s", cfg.Addr)
	}
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("N", "x")
	if got := getEnvAsInt("N", 3); got != 3 {
		t.Errorf("expected fallback, got %d", got)
	}
	t.Setenv("N", "25")
	if got := getEnvAsInt("N", 3); got != 25 {
		t.Errorf("expected 25, got %d", got)
	}
}
