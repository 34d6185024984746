package prism

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/pelletier/go-toml/v2"
)

func TestLoadConfigFileMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.toml")
	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile on missing file: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigFilePartial(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.toml")
	data := `
[input]
drag_threshold = 8.0

[window]
title = "Demo"
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}

	want := DefaultConfig()
	want.Input.DragThreshold = 8.0
	want.Window.Title = "Demo"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfigFileInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.toml")
	if err := os.WriteFile(path, []byte("input = {{{"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfigFile(path); err == nil {
		t.Error("LoadConfigFile on malformed TOML returned nil error")
	}
}

func TestLoadConfigFileSanitizes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prism.toml")
	data := `
[input]
double_click_interval_ms = -100
drag_threshold = 0.0

[list]
estimated_item_height = -1.0
overdraw = -2

[window]
width = 0.0
height = 600.0
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), cfg); diff != "" {
		t.Errorf("out-of-range values not replaced (-want +got):\n%s", diff)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Input.DragThreshold = 6.5
	cfg.List.Overdraw = 4
	cfg.Window.Title = "Round Trip"

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	path := filepath.Join(t.TempDir(), "prism.toml")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestDoubleClickInterval(t *testing.T) {
	c := InputConfig{DoubleClickIntervalMS: 250}
	if got := c.DoubleClickInterval().Milliseconds(); got != 250 {
		t.Errorf("DoubleClickInterval() = %dms, want 250ms", got)
	}
}
