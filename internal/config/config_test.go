package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("a missing file is not an error: %s", err)
	}
	if cfg.StackSize != 1024 || cfg.CallDepth != 256 {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Database != ":memory:" {
		t.Fatalf("expected an in-memory database, got %q", cfg.Database)
	}
}

func TestYamlFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yex.yaml")
	data := "debug: true\nstack_size: 2048\ndatabase: state.db\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug || cfg.StackSize != 2048 || cfg.Database != "state.db" {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.CallDepth != 256 {
		t.Fatal("unset keys keep their defaults")
	}
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yex.yaml")
	if err := os.WriteFile(path, []byte("stack_size: 2048\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("YEX_STACK_SIZE", "4096")
	t.Setenv("YEX_NO_COLOR", "1")

	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StackSize != 4096 {
		t.Fatalf("environment must win, got %d", cfg.StackSize)
	}
	if !cfg.NoColor {
		t.Fatal("YEX_NO_COLOR must force colors off")
	}
}

func TestRejectsBadValues(t *testing.T) {
	t.Setenv("YEX_STACK_SIZE", "-1")
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("a non-positive stack size must be rejected")
	}
}

func TestRejectsBadYaml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "yex.yaml")
	if err := os.WriteFile(path, []byte(":\n  - ["), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed yaml must be rejected")
	}
}
