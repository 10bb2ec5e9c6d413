package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoadWith_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Errorf("unexpected server defaults: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 10*time.Second {
		t.Errorf("expected 10s shutdown timeout, got %v", cfg.ShutdownTimeout)
	}
	if cfg.Auth.JWTTTL != 24*time.Hour || cfg.Auth.JWTIssuer != "challenge-api" || cfg.Auth.BcryptCost != 10 {
		t.Errorf("unexpected auth defaults: %+v", cfg.Auth)
	}
	if cfg.Mongo.Database != "challenge_platform" || cfg.Redis.Addr != "localhost:6379" {
		t.Errorf("unexpected store defaults: %+v %+v", cfg.Mongo, cfg.Redis)
	}
	if cfg.Redis.IdempotencyTTL != 24*time.Hour {
		t.Errorf("expected 24h idempotency ttl, got %v", cfg.Redis.IdempotencyTTL)
	}
	if !cfg.IsDevelopment() {
		t.Error("default env should be development")
	}
	if cfg.Admin.Enabled() {
		t.Error("admin seeding must be off without credentials")
	}
}

func TestLoadWith_AdminSeed(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":     "s3cret",
		"ADMIN_EMAIL":    "root@x.com",
		"ADMIN_PASSWORD": "pw",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !cfg.Admin.Enabled() || cfg.Admin.Username != "admin" {
		t.Errorf("unexpected admin config: %+v", cfg.Admin)
	}
}

func TestLoadWith_Overrides(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":  "s3cret",
		"JWT_TTL":     "15m",
		"ENV":         "production",
		"BCRYPT_COST": "12",
		"REDIS_DB":    "3",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Auth.JWTTTL != 15*time.Minute || cfg.Auth.BcryptCost != 12 || cfg.Redis.DB != 3 {
		t.Errorf("overrides not applied: %+v %+v", cfg.Auth, cfg.Redis)
	}
	if cfg.IsDevelopment() {
		t.Error("production must not be development")
	}
}

func TestLoadWith_MissingSecret(t *testing.T) {
	if _, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoadWith_MalformedDuration(t *testing.T) {
	_, err := LoadWith(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
		"JWT_TTL":    "forever",
	}))
	if err == nil {
		t.Fatal("expected error for malformed JWT_TTL")
	}
}
