package config

import (
	"context"
	"testing"
	"time"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("VAULT_MASTER_KEY", "test-master-key")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Port != "8080" || cfg.Env != "development" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.JWTTTL != 24*time.Hour {
		t.Fatalf("expected 24h JWT TTL, got %v", cfg.JWTTTL)
	}
	if cfg.CipherAlgorithm != CipherAES256CBC {
		t.Fatalf("expected %s, got %s", CipherAES256CBC, cfg.CipherAlgorithm)
	}
	if cfg.Throttle.MaxAttempts != 5 || cfg.Throttle.AttemptWindow != 15*time.Minute {
		t.Fatalf("unexpected throttle defaults: %+v", cfg.Throttle)
	}
	if cfg.Mongo.Database != "cofre" {
		t.Fatalf("unexpected mongo database: %s", cfg.Mongo.Database)
	}
}

func TestLoad_MissingMasterKey(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("VAULT_MASTER_KEY", "")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("expected error for missing VAULT_MASTER_KEY")
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("VAULT_MASTER_KEY", "test-master-key")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
}

func TestLoad_RejectsUnknownCipher(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CIPHER_ALGORITHM", "aes-256-gcm")

	if _, err := Load(context.Background()); err == nil {
		t.Fatal("expected error for unsupported cipher")
	}
}
