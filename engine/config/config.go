package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/spaghettifunk/scena/engine/core"
)

/** @brief Capture settings of the scene's root camera. */
type CaptureSettings struct {
	Enabled bool   `toml:"enabled"`
	/** @brief Destination path the raw RGBA8 frames are appended to. */
	Path   string `toml:"path"`
	Width  int32  `toml:"width"`
	Height int32  `toml:"height"`
}

/** @brief Settings describe how a scene is rendered. */
type Settings struct {
	Name   string `toml:"name"`
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`
	/** @brief Frames per second of the virtual timeline. */
	FrameRate int `toml:"frame_rate"`
	/** @brief Scene duration in seconds. */
	Duration     float64         `toml:"duration"`
	Multisampled bool            `toml:"multisampled"`
	LogLevel     string          `toml:"log_level"`
	Capture      CaptureSettings `toml:"capture"`
}

// DefaultSettings returns the settings used when no file is provided.
func DefaultSettings() *Settings {
	return &Settings{
		Name:      "scena",
		Width:     1280,
		Height:    720,
		FrameRate: 60,
		Duration:  5.0,
		LogLevel:  "info",
	}
}

// Load reads TOML settings from path on top of the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading settings: %w", err)
	}
	settings := DefaultSettings()
	if err := toml.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing settings: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

func (s *Settings) Validate() error {
	if s.Width == 0 || s.Height == 0 {
		return fmt.Errorf("canvas dimensions must be positive, got %dx%d", s.Width, s.Height)
	}
	if s.FrameRate <= 0 {
		return fmt.Errorf("frame rate must be positive, got %d", s.FrameRate)
	}
	if s.Duration < 0 {
		return fmt.Errorf("duration must not be negative, got %f", s.Duration)
	}
	if s.Capture.Enabled {
		if s.Capture.Path == "" {
			return fmt.Errorf("capture requires a destination path")
		}
		if s.Capture.Width <= 0 || s.Capture.Height <= 0 {
			return fmt.Errorf("capture dimensions must be positive, got %dx%d",
				s.Capture.Width, s.Capture.Height)
		}
	}
	return nil
}

// ParsedLogLevel maps the textual log level onto the logger's levels,
// defaulting to info on unknown input.
func (s *Settings) ParsedLogLevel() core.LogLevel {
	switch s.LogLevel {
	case "debug":
		return core.DebugLevel
	case "warn":
		return core.WarnLevel
	case "error":
		return core.ErrorLevel
	}
	return core.InfoLevel
}
