// FILE: config_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DomainName != "rooms" || !cfg.VerifyGoals || cfg.MaxTries != 10 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFromYAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "htnplan.yaml")
	content := "domain_name: warehouse\nverify_goals: false\nmax_depth: 50\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load("", path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DomainName != "warehouse" || cfg.VerifyGoals || cfg.MaxDepth != 50 {
		t.Fatalf("yaml overrides not applied: %+v", cfg)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "htnplan.yaml")
	if err := os.WriteFile(path, []byte("domain_name: warehouse\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("HTN_DOMAIN", "rooms-env")
	cfg, err := Load("", path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DomainName != "rooms-env" {
		t.Fatalf("expected env var to win over file, got %q", cfg.DomainName)
	}
}

func TestMissingConfigFileIsNotAnError(t *testing.T) {
	if _, err := Load("", "/no/such/file.yaml"); err != nil {
		t.Fatalf("expected a missing config file to be tolerated, got %v", err)
	}
}
