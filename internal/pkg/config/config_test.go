package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "4000" {
		t.Fatalf("expected port 4000, got %q", cfg.Port)
	}
	if cfg.Auth.TokenTTL != 24*time.Hour {
		t.Fatalf("expected 24h ttl, got %v", cfg.Auth.TokenTTL)
	}
	if cfg.Uploads.MaxBytes != 5*1024*1024 {
		t.Fatalf("expected 5 MiB upload ceiling, got %d", cfg.Uploads.MaxBytes)
	}
	if cfg.Uploads.Backend != BackendLocal {
		t.Fatalf("expected local backend, got %q", cfg.Uploads.Backend)
	}
	if cfg.DeleteRequiresAuthor {
		t.Fatalf("expected open delete by default")
	}
	if !cfg.IsDevelopment() {
		t.Fatalf("expected development env by default")
	}
}

func TestLoad_RequiresSecret(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":                   "s3cret",
		"TOKEN_TTL":                    "90m",
		"POSTS_DELETE_REQUIRES_AUTHOR": "true",
		"STORAGE_BACKEND":              "minio",
		"MINIO_BUCKET":                 "images",
		"ENV":                          "production",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.TokenTTL != 90*time.Minute {
		t.Fatalf("unexpected ttl %v", cfg.Auth.TokenTTL)
	}
	if !cfg.DeleteRequiresAuthor {
		t.Fatalf("expected delete to require author")
	}
	if cfg.Uploads.Backend != BackendMinio || cfg.Minio.Bucket != "images" {
		t.Fatalf("unexpected storage config: %+v %+v", cfg.Uploads, cfg.Minio)
	}
	if cfg.IsDevelopment() {
		t.Fatalf("expected production")
	}
}

func TestLoad_RejectsUnknownBackend(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":      "s3cret",
		"STORAGE_BACKEND": "ftp",
	}))
	if err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}
