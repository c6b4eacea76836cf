package cli

import (
	"os"
	"path/filepath"
	"testing"

	errs "github.com/matzehuels/seqtree/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
unit_height = 24.0
base_offset = 0.0
state_file  = "state.json"
cache_dir   = "/tmp/c"
redis_addr  = "localhost:6379"
`)

	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.UnitHeight != 24 {
		t.Errorf("UnitHeight = %g", cfg.UnitHeight)
	}
	if cfg.BaseOffset == nil || *cfg.BaseOffset != 0 {
		t.Errorf("BaseOffset = %v, want explicit 0", cfg.BaseOffset)
	}
	if cfg.StateFile != "state.json" || cfg.CacheDir != "/tmp/c" || cfg.RedisAddr != "localhost:6379" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.Listen != defaultListen {
		t.Errorf("Listen = %q, want default %q", cfg.Listen, defaultListen)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("optional missing config: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("cfg = %+v, want defaults", cfg)
	}

	if _, err := LoadConfig(path, true); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("required missing config: err = %v, want %s", err, errs.ErrCodeFileNotFound)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"syntax", "unit_height = "},
		{"unknown key", "unit_heigth = 10.0"},
		{"negative unit height", "unit_height = -1.0"},
		{"negative base offset", "base_offset = -5.0"},
		{"NaN unit height", "unit_height = nan"},
		{"infinite unit height", "unit_height = inf"},
		{"infinite base offset", "base_offset = -inf"},
		{"wrong type", `unit_height = "tall"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.content), true)
			if !errs.Is(err, errs.ErrCodeInvalidInput) {
				t.Errorf("err = %v, want %s", err, errs.ErrCodeInvalidInput)
			}
		})
	}
}

func TestExplicitConfigMustExist(t *testing.T) {
	scene := setupCLI(t)

	_, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "missing.toml"), "layout", scene)
	if !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("err = %v, want %s", err, errs.ErrCodeFileNotFound)
	}
}
