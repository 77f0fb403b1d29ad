package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTempConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing temp config: %v", err)
	}
	return path
}

func TestLoadFromFile(t *testing.T) {
	path := writeTempConfig(t, `
server:
  port: 9090
  mode: release
database:
  host: db.internal
  user: svc
  password: secret
  db_name: legal
log:
  level: debug
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Server.Mode != "release" {
		t.Errorf("server config not applied: %+v", cfg.Server)
	}
	if cfg.Database.Host != "db.internal" || cfg.Database.DBName != "legal" {
		t.Errorf("database config not applied: %+v", cfg.Database)
	}
	// Defaults fill untouched sections.
	if cfg.Milvus.Addr != DefaultMilvusAddr {
		t.Errorf("milvus.addr default not applied: %q", cfg.Milvus.Addr)
	}
	if cfg.Analysis.MaxDiffLines != DefaultMaxDiffLines {
		t.Errorf("analysis.max_diff_lines default not applied: %d", cfg.Analysis.MaxDiffLines)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load("/nonexistent/config.yaml"); err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestLoadInvalidConfigFails(t *testing.T) {
	path := writeTempConfig(t, `
server:
  port: 9090
  mode: nonsense
`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LEXATLAS_SERVER_PORT", "7070")
	t.Setenv("LEXATLAS_DATABASE_HOST", "envhost")
	t.Setenv("LEXATLAS_REDIS_ADDR", "envredis:6379")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv: %v", err)
	}
	if cfg.Server.Port != 7070 {
		t.Errorf("server.port = %d, want 7070", cfg.Server.Port)
	}
	if cfg.Database.Host != "envhost" {
		t.Errorf("database.host = %q, want envhost", cfg.Database.Host)
	}
	if cfg.Redis.Addr != "envredis:6379" {
		t.Errorf("redis.addr = %q", cfg.Redis.Addr)
	}
}

func TestMustLoadPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("MustLoad should panic on a missing file")
		}
	}()
	MustLoad("/nonexistent/config.yaml")
}
