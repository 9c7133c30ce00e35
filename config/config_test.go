package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kilianp07/staffalloc/core/search"
	"github.com/kilianp07/staffalloc/core/tabu"
)

//nolint:gocyclo
func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	data := `search:
  workers: 2
  objective:
    - type: priority_inversion
      conf:
        multiplier: 2
  generators:
    - type: add
    - type: remove
    - type: swap
      active: false
  stop:
    - type: max_iterations
      conf:
        limit: 40
  tabu:
    mode: movement
    tenures:
      add: 3
metrics:
  addr: ":9100"
  sinks:
    - type: "nop"
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"workers", cfg.Search.Workers, 2},
		{"objective", cfg.Search.Objective[0].Type, "priority_inversion"},
		{"generators", len(cfg.Search.Generators), 3},
		{"swap inactive", cfg.Search.Generators[2].IsActive(), false},
		{"stop", len(cfg.Search.Stop), 1},
		{"constraints default", len(cfg.Search.Constraints), 6},
		{"aspiration default", len(cfg.Search.Aspiration), 2},
		{"tabu mode", cfg.Search.Tabu.Mode, tabu.ModeMovement},
		{"tabu add", cfg.Search.Tabu.Tenures.Add, 3},
		{"tabu drop default", cfg.Search.Tabu.Tenures.Drop, 5},
		{"tabu size default", cfg.Search.Tabu.Size, 25},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"metrics addr", cfg.Metrics.Addr, ":9100"},
		{"logging level", cfg.Logging.Level, "debug"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: %v", c.name, c.got)
		}
	}
	if _, err := search.New(cfg.Search); err != nil {
		t.Fatalf("loaded config does not build an engine: %v", err)
	}
}

func TestLoad_JSONWithEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	data := `{"search": {"workers": 1}, "logging": {"level": "warn"}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STAFFALLOC_SEARCH__WORKERS", "8")
	t.Setenv("STAFFALLOC_LOGGING__LEVEL", "debug")
	t.Setenv("STAFFALLOC_SEARCH__TABU__SIZE", "40")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Search.Workers != 8 {
		t.Errorf("env override not applied: %d", cfg.Search.Workers)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("env level not applied: %s", cfg.Logging.Level)
	}
	if cfg.Search.Tabu.Size != 40 {
		t.Errorf("nested env override not applied: %d", cfg.Search.Tabu.Size)
	}
	if cfg.Search.Tabu.Mode != tabu.ModeSolution {
		t.Errorf("override dropped sibling defaults: %s", cfg.Search.Tabu.Mode)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "search:\n  workers: 1\nlogging:\n  level: info\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("STAFFALLOC_SEARCH__WORKERS", "8")
	t.Setenv("STAFFALLOC_LOGGING__LEVEL", "error")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Search.Workers != 8 || cfg.Logging.Level != "error" {
		t.Errorf("overrides ignored: workers=%d level=%s", cfg.Search.Workers, cfg.Logging.Level)
	}
	if len(cfg.Search.Generators) != 3 {
		t.Errorf("file sections lost after override: %d generators", len(cfg.Search.Generators))
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default level %s", cfg.Logging.Level)
	}
	if len(cfg.Search.Generators) != 3 {
		t.Errorf("default generators %d", len(cfg.Search.Generators))
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
		return p
	}

	if _, err := Load(write("config.toml", "")); err == nil {
		t.Error("expected unsupported format error")
	}
	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected missing file error")
	}
	if _, err := Load(write("level.yaml", "logging:\n  level: loud\n")); err == nil {
		t.Error("expected invalid level error")
	}
	_, err := Load(write("gen.yaml", "search:\n  generators:\n    - type: add\n      active: false\n"))
	if !errors.Is(err, search.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
