package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"go.rowdb/internal/config"
)

func TestLoadDefaultsUnderHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("ROWDB_HOME", home)

	cfg, err := config.Load("", "")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.Home != home {
		t.Fatalf("Home = %s, want %s", cfg.Home, home)
	}
	if cfg.DataDir != filepath.Join(home, "data") {
		t.Fatalf("DataDir = %s", cfg.DataDir)
	}
	for _, dir := range []string{cfg.DataDir, cfg.LogDir} {
		if _, err := os.Stat(dir); err != nil {
			t.Fatalf("%s was not created: %v", dir, err)
		}
	}
}

func TestLoadYAMLOverrides(t *testing.T) {
	home := t.TempDir()

	yaml := "log_level: debug\nrow_cache: 16\n"
	if err := os.WriteFile(filepath.Join(home, "config.yaml"), []byte(yaml), 0o666); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(home, "")
	if err != nil {
		t.Fatal(err)
	}

	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %s, want debug", cfg.LogLevel)
	}
	if cfg.RowCache != 16 {
		t.Fatalf("RowCache = %d, want 16", cfg.RowCache)
	}
}

func TestHomeFlagBeatsEnv(t *testing.T) {
	t.Setenv("ROWDB_HOME", t.TempDir())
	override := t.TempDir()

	cfg, err := config.Load(override, "")
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Home != override {
		t.Fatalf("Home = %s, want %s", cfg.Home, override)
	}
}
