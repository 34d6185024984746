package prism

import (
	"fmt"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config tunes input handling, list virtualization, and the initial
// window geometry. Every field has a working default; a prism.toml in
// the working directory overrides them.
type Config struct {
	Input  InputConfig  `toml:"input"`
	List   ListConfig   `toml:"list"`
	Window WindowConfig `toml:"window"`
}

// InputConfig controls click and drag detection.
type InputConfig struct {
	// Max time between clicks for them to chain into a multi-click, in ms.
	DoubleClickIntervalMS int `toml:"double_click_interval_ms"`
	// Max distance between clicks for them to chain into a multi-click, in px.
	DoubleClickDistance float32 `toml:"double_click_distance"`
	// How far the pointer must travel with a button held before a drag
	// starts, in px. Movement inside this radius stays a click.
	DragThreshold float32 `toml:"drag_threshold"`
	// Pixel height of one wheel "line" for devices that report
	// line-based scroll deltas.
	WheelLineHeight float32 `toml:"wheel_line_height"`
}

// DoubleClickInterval returns the multi-click window as a duration.
func (c InputConfig) DoubleClickInterval() time.Duration {
	return time.Duration(c.DoubleClickIntervalMS) * time.Millisecond
}

// ListConfig controls list virtualization.
type ListConfig struct {
	// Height assumed for items that have never been measured, in px.
	EstimatedItemHeight float32 `toml:"estimated_item_height"`
	// Extra items rendered above and below the visible range so small
	// scrolls reveal already-painted rows.
	Overdraw int `toml:"overdraw"`
}

// WindowConfig sets the initial window geometry.
type WindowConfig struct {
	Title  string  `toml:"title"`
	Width  float32 `toml:"width"`
	Height float32 `toml:"height"`
}

// DefaultConfig returns the configuration used when no prism.toml exists.
func DefaultConfig() Config {
	return Config{
		Input: InputConfig{
			DoubleClickIntervalMS: 500,
			DoubleClickDistance:   5.0,
			DragThreshold:         4.0,
			WheelLineHeight:       40.0,
		},
		List: ListConfig{
			EstimatedItemHeight: 24.0,
			Overdraw:            2,
		},
		Window: WindowConfig{
			Title:  "Prism App",
			Width:  1024,
			Height: 768,
		},
	}
}

// LoadConfig loads prism.toml from the current directory.
// If the file doesn't exist, returns the default config.
func LoadConfig() (Config, error) {
	return LoadConfigFile("prism.toml")
}

// LoadConfigFile loads configuration from the given path, filling
// anything the file leaves out from DefaultConfig.
func LoadConfigFile(path string) (Config, error) {
	config := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return config, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &config); err != nil {
		return config, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	config.sanitize(path)
	return config, nil
}

// SaveConfig writes the configuration to prism.toml.
func SaveConfig(config Config) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile("prism.toml", data, 0644); err != nil {
		return fmt.Errorf("failed to write prism.toml: %w", err)
	}

	return nil
}

// sanitize replaces out-of-range values with their defaults so a bad
// config file degrades instead of breaking input handling.
func (c *Config) sanitize(path string) {
	def := DefaultConfig()
	if c.Input.DoubleClickIntervalMS <= 0 {
		Logger().Warn("config: double_click_interval_ms out of range, using default",
			"path", path, "value", c.Input.DoubleClickIntervalMS)
		c.Input.DoubleClickIntervalMS = def.Input.DoubleClickIntervalMS
	}
	if c.Input.DoubleClickDistance <= 0 {
		c.Input.DoubleClickDistance = def.Input.DoubleClickDistance
	}
	if c.Input.DragThreshold <= 0 {
		c.Input.DragThreshold = def.Input.DragThreshold
	}
	if c.Input.WheelLineHeight <= 0 {
		c.Input.WheelLineHeight = def.Input.WheelLineHeight
	}
	if c.List.EstimatedItemHeight <= 0 {
		c.List.EstimatedItemHeight = def.List.EstimatedItemHeight
	}
	if c.List.Overdraw < 0 {
		c.List.Overdraw = def.List.Overdraw
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		c.Window.Width = def.Window.Width
		c.Window.Height = def.Window.Height
	}
}
