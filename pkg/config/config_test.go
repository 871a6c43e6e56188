package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if !cfg.App.IsDev() {
		t.Fatalf("expected default env to be development, got %q", cfg.App.Env)
	}
	if cfg.DB.Driver != "sqlite" {
		t.Fatalf("expected sqlite default driver, got %q", cfg.DB.Driver)
	}
	if cfg.KV.Backend != "memory" {
		t.Fatalf("expected memory kv backend, got %q", cfg.KV.Backend)
	}
	if cfg.Checkout.AuthWindow != 5*time.Minute {
		t.Fatalf("expected 5m auth window, got %v", cfg.Checkout.AuthWindow)
	}
	if cfg.Checkout.ProcessingDelay != 3*time.Second {
		t.Fatalf("expected 3s processing delay, got %v", cfg.Checkout.ProcessingDelay)
	}
	if cfg.Checkout.ApprovedCard != "4242424242424242" {
		t.Fatalf("unexpected approved card %q", cfg.Checkout.ApprovedCard)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "9090")
	t.Setenv(EnvApprovedPassword, "supersecret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if !cfg.App.IsProd() {
		t.Fatalf("expected production env, got %q", cfg.App.Env)
	}
	if cfg.App.Port != "9090" {
		t.Fatalf("expected port override, got %q", cfg.App.Port)
	}
	if cfg.Checkout.ApprovedPassword != "supersecret" {
		t.Fatalf("expected password override, got %q", cfg.Checkout.ApprovedPassword)
	}
}

func TestLoadRejectsUnknownBackends(t *testing.T) {
	t.Setenv(EnvKVBackend, "etcd")
	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported kv backend to fail")
	}

	t.Setenv(EnvKVBackend, "memory")
	t.Setenv(EnvDBDriver, "oracle")
	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported db driver to fail")
	}
}
