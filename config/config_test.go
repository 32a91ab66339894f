package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SNAPGRAM_SERVER_MODE", "debug")
	t.Setenv("SNAPGRAM_JWT_SECRET", "")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Server.Port)
	}
	if cfg.JWT.Secret != DevJWTSecret {
		t.Fatalf("expected dev secret outside release mode, got %q", cfg.JWT.Secret)
	}
	if cfg.Upload.Path != "uploads" || cfg.Storage.Driver != "local" {
		t.Fatalf("unexpected upload/storage defaults: %+v %+v", cfg.Upload, cfg.Storage)
	}
	if cfg.JWTExpiration() != 24*time.Hour {
		t.Fatalf("expected 24h expiration, got %v", cfg.JWTExpiration())
	}
	if cfg.Push.Enabled() {
		t.Fatalf("push should be disabled without VAPID keys")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SNAPGRAM_SERVER_PORT", "9090")
	t.Setenv("SNAPGRAM_JWT_SECRET", "s3cret")
	t.Setenv("SNAPGRAM_JWT_EXPIRATION_HOURS", "2")
	t.Setenv("SNAPGRAM_MONGO_DATABASE", "snapgram_test")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("expected port 9090, got %q", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "s3cret" || cfg.JWTExpiration() != 2*time.Hour {
		t.Fatalf("unexpected jwt config: %+v", cfg.JWT)
	}
	if cfg.Mongo.Database != "snapgram_test" {
		t.Fatalf("expected database override, got %q", cfg.Mongo.Database)
	}
}

func TestLoad_ReadsYAMLFile(t *testing.T) {
	dir := t.TempDir()
	yaml := "upload:\n  path: media\n  max_files: 5\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Upload.Path != "media" || cfg.Upload.MaxFiles != 5 {
		t.Fatalf("expected yaml values, got %+v", cfg.Upload)
	}
}

func TestLoad_ReleaseModeRequiresSecret(t *testing.T) {
	t.Setenv("SNAPGRAM_SERVER_MODE", "release")
	t.Setenv("SNAPGRAM_JWT_SECRET", "")

	if _, err := Load(t.TempDir()); err == nil {
		t.Fatalf("expected error for empty secret in release mode")
	}

	t.Setenv("SNAPGRAM_JWT_SECRET", DevJWTSecret)
	if _, err := Load(t.TempDir()); err == nil {
		t.Fatalf("expected error for dev secret in release mode")
	}
}
