package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pthm-cable/slugs/components"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load defaults: %v", err)
	}

	if cfg.Derived.WorldW != 800 || cfg.Derived.WorldH != 800 {
		t.Errorf("world = %vx%v, want 800x800", cfg.Derived.WorldW, cfg.Derived.WorldH)
	}
	if cfg.Derived.StepsPerFrame != 3 {
		t.Errorf("StepsPerFrame = %d, want 3", cfg.Derived.StepsPerFrame)
	}
	if cfg.Navigation.CellSize != 20 {
		t.Errorf("CellSize = %v, want 20", cfg.Navigation.CellSize)
	}
	if got := cfg.Kinds.ByKind(components.KindNest).Radius; got != 100 {
		t.Errorf("nest radius = %v, want 100", got)
	}
	if got := cfg.Population.Count(components.KindMantis); got != 5 {
		t.Errorf("mantis count = %d, want 5", got)
	}
}

func TestOverlayKeepsUnsetDefaults(t *testing.T) {
	cfg, err := Parse([]byte("world:\n  width: 400\npopulation:\n  slugs: 0\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	if cfg.Derived.WorldW != 400 {
		t.Errorf("WorldW = %v, want 400", cfg.Derived.WorldW)
	}
	if cfg.Derived.WorldH != 800 {
		t.Errorf("WorldH = %v, want default 800", cfg.Derived.WorldH)
	}
	if cfg.Population.Slugs != 0 {
		t.Errorf("Slugs = %d, want 0", cfg.Population.Slugs)
	}
	if cfg.Population.Mantises != 5 {
		t.Errorf("Mantises = %d, want default 5", cfg.Population.Mantises)
	}
}

func TestWorldFallsBackToScreen(t *testing.T) {
	cfg, err := Parse([]byte("world:\n  width: 0\n  height: 0\n"))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Derived.WorldW != float64(cfg.Screen.Width) || cfg.Derived.WorldH != float64(cfg.Screen.Height) {
		t.Errorf("world = %vx%v, want screen %dx%d",
			cfg.Derived.WorldW, cfg.Derived.WorldH, cfg.Screen.Width, cfg.Screen.Height)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(bad, []byte("world: [not, a, map"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(bad); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestWriteYAMLRoundTrip(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.Population.Seed = 99

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := cfg.WriteYAML(path); err != nil {
		t.Fatalf("WriteYAML: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load written config: %v", err)
	}
	if loaded.Population.Seed != 99 {
		t.Errorf("Seed = %d, want 99", loaded.Population.Seed)
	}
}
