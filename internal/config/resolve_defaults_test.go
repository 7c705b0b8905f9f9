package config

import (
	"os"
	"testing"
)

func unsetBuildEnv() {
	_ = os.Unsetenv("KEEPSAKE_BUILD_TARGET")
	_ = os.Unsetenv("KEEPSAKE_DB_DRIVER")
	_ = os.Unsetenv("KEEPSAKE_MEDIA_DRIVER")
	_ = os.Unsetenv("KEEPSAKE_POSTGRES_DSN")
}

func TestResolveDefaultsLocal(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("KEEPSAKE_BUILD_TARGET", "local")
	defer unsetBuildEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "sqlite" || cfg.MediaDriver != "local" {
		t.Fatalf("unexpected mapping for local: %s %s", cfg.DBDriver, cfg.MediaDriver)
	}
}

func TestResolveDefaultsCloud(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("KEEPSAKE_BUILD_TARGET", "cloud")
	_ = os.Setenv("KEEPSAKE_POSTGRES_DSN", "postgres://localhost/keepsake")
	defer unsetBuildEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "postgres" || cfg.MediaDriver != "s3" {
		t.Fatalf("unexpected mapping for cloud: %s %s", cfg.DBDriver, cfg.MediaDriver)
	}
}

func TestResolveDefaultsOverride(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("KEEPSAKE_BUILD_TARGET", "local")
	_ = os.Setenv("KEEPSAKE_DB_DRIVER", "postgres")
	_ = os.Setenv("KEEPSAKE_POSTGRES_DSN", "postgres://localhost/keepsake")
	defer unsetBuildEnv()

	cfg, err := New()
	if err != nil {
		t.Fatalf("config load: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("override failed, got %s", cfg.DBDriver)
	}
}

func TestResolveDefaultsRejectsUnknownTarget(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("KEEPSAKE_BUILD_TARGET", "mainframe")
	defer unsetBuildEnv()

	if _, err := New(); err == nil {
		t.Fatal("expected error for unknown build target")
	}
}

func TestResolveDefaultsPostgresNeedsDSN(t *testing.T) {
	unsetBuildEnv()
	_ = os.Setenv("KEEPSAKE_BUILD_TARGET", "cloud")
	defer unsetBuildEnv()

	if _, err := New(); err == nil {
		t.Fatal("expected error when postgres DSN is missing")
	}
}
