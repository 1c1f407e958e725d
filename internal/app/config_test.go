package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/qnadesk/gephi-export/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("init logger: %v", err)
	}
	return log
}

func clearPGEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"PGHOST", "PGPORT", "PGDATABASE", "PGUSER", "PGPASSWORD", "PGSSLMODE"} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	clearPGEnv(t)

	cfg, err := LoadConfig("", testLogger(t))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Endpoint != "localhost" || cfg.Database.Port != "5432" {
		t.Fatalf("defaults = %+v, want localhost:5432", cfg.Database)
	}
	if cfg.Database.SSLMode != "disable" {
		t.Fatalf("default sslmode = %q, want disable", cfg.Database.SSLMode)
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearPGEnv(t)
	path := writeConfig(t, `
database:
  ENDPOINT: db.internal
  PORT: "6432"
  DBNAME: qna
  USER: exporter
  PASSWORD: hunter2
`)

	cfg, err := LoadConfig(path, testLogger(t))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	db := cfg.Database
	if db.Endpoint != "db.internal" || db.Port != "6432" || db.DBName != "qna" || db.User != "exporter" || db.Password != "hunter2" {
		t.Fatalf("file values not applied: %+v", db)
	}
	// Keys absent from the file keep their defaults.
	if db.SSLMode != "disable" {
		t.Fatalf("sslmode = %q, want default disable", db.SSLMode)
	}
}

func TestLoadConfigEnvOverridesFile(t *testing.T) {
	clearPGEnv(t)
	path := writeConfig(t, `
database:
  ENDPOINT: from-file
  DBNAME: from-file-db
`)
	t.Setenv("PGHOST", "from-env")
	t.Setenv("PGPASSWORD", "env-secret")

	cfg, err := LoadConfig(path, testLogger(t))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Database.Endpoint != "from-env" {
		t.Fatalf("endpoint = %q, want env to win over file", cfg.Database.Endpoint)
	}
	if cfg.Database.DBName != "from-file-db" {
		t.Fatalf("dbname = %q, want file value kept", cfg.Database.DBName)
	}
	if cfg.Database.Password != "env-secret" {
		t.Fatalf("password = %q, want env value", cfg.Database.Password)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	clearPGEnv(t)
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), testLogger(t)); err == nil {
		t.Fatalf("LoadConfig should fail on a missing file passed explicitly")
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	clearPGEnv(t)
	path := writeConfig(t, "database: [not: a: mapping")
	if _, err := LoadConfig(path, testLogger(t)); err == nil {
		t.Fatalf("LoadConfig should fail on malformed YAML")
	}
}
