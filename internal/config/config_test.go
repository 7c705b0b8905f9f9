package config

import (
	"os"
	"testing"
)

func TestConfigLoad_Defaults(t *testing.T) {
	unsetBuildEnv()
	_ = os.Unsetenv("KEEPSAKE_HTTP_PORT")
	_ = os.Unsetenv("KEEPSAKE_SQLITE_PATH")

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 8080 {
		t.Fatalf("unexpected default port: %d", cfg.HTTPPort)
	}
	if cfg.SQLitePath != "./data/keepsake.db" {
		t.Fatalf("unexpected default sqlite path: %s", cfg.SQLitePath)
	}
	if cfg.GetHTTPAddr() != ":8080" {
		t.Fatalf("unexpected addr: %s", cfg.GetHTTPAddr())
	}
}

func TestConfigLoad_EnvOverride(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("KEEPSAKE_HTTP_PORT", "9999")
	defer func() { _ = os.Unsetenv("KEEPSAKE_HTTP_PORT") }()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.HTTPPort != 9999 {
		t.Fatalf("port env override failed, got %d", cfg.HTTPPort)
	}
}

func TestIsDevMode(t *testing.T) {
	cfg := NewForTesting()
	if !cfg.IsDevMode() {
		t.Fatal("testing config should be dev mode")
	}
	cfg.Environment = EnvProduction
	if cfg.IsDevMode() {
		t.Fatal("production config must not be dev mode")
	}
}
