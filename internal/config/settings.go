// Package config holds the user settings of plotter-strips and persists them
// as JSON.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ironsheep/plotter-strips/internal/layout"
	"github.com/ironsheep/plotter-strips/internal/overlay"
)

// EnvConfigPath overrides the location of the settings file.
const EnvConfigPath = "PLOTTER_STRIPS_CONFIG"

// ErrInvalidSettings is returned by Validate, and by Load for a file holding
// out-of-range values.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings is the persisted configuration. Lengths are in inches.
type Settings struct {
	// Printer
	PrinterWidth float64 `json:"printer_width"`

	// Cut marks
	LineLength      float64 `json:"line_length"`
	LineWidth       float64 `json:"line_width"`
	TextTopMargin   float64 `json:"text_top_margin"`
	TextRightMargin float64 `json:"text_right_margin"`
	TextSize        float64 `json:"text_size"`
	ColorAlpha      int     `json:"color_alpha"` // 0-255

	// SourceDPI is assumed for input files; SVG documents are rasterised at it.
	SourceDPI float64 `json:"source_dpi"`
}

// Default returns the factory settings.
func Default() Settings {
	marks := overlay.DefaultSettings()
	return Settings{
		PrinterWidth:    layout.DefaultMaxWidthInches,
		LineLength:      marks.LineLength,
		LineWidth:       marks.LineWidth,
		TextTopMargin:   marks.TextTopMargin,
		TextRightMargin: marks.TextRightMargin,
		TextSize:        marks.TextSize,
		ColorAlpha:      int(marks.ColorAlpha),
		SourceDPI:       96,
	}
}

// Validate reports the first out-of-range value.
func (s Settings) Validate() error {
	positive := []struct {
		name  string
		value float64
	}{
		{"printer_width", s.PrinterWidth},
		{"line_length", s.LineLength},
		{"line_width", s.LineWidth},
		{"text_size", s.TextSize},
		{"source_dpi", s.SourceDPI},
	}
	for _, f := range positive {
		if !(f.value > 0) {
			return fmt.Errorf("%w: %s must be positive, got %g", ErrInvalidSettings, f.name, f.value)
		}
	}
	if s.TextTopMargin < 0 {
		return fmt.Errorf("%w: text_top_margin must not be negative, got %g", ErrInvalidSettings, s.TextTopMargin)
	}
	if s.TextRightMargin < 0 {
		return fmt.Errorf("%w: text_right_margin must not be negative, got %g", ErrInvalidSettings, s.TextRightMargin)
	}
	if s.ColorAlpha < 0 || s.ColorAlpha > 255 {
		return fmt.Errorf("%w: color_alpha must be within 0-255, got %d", ErrInvalidSettings, s.ColorAlpha)
	}
	return nil
}

// Constraint returns the printer constraint for the planner.
func (s Settings) Constraint() layout.Constraint {
	return layout.Constraint{MaxWidthInches: s.PrinterWidth}
}

// Overlay returns the cut mark settings. ColorAlpha is clamped to 0-255.
func (s Settings) Overlay() overlay.Settings {
	return overlay.Settings{
		LineLength:      s.LineLength,
		LineWidth:       s.LineWidth,
		TextTopMargin:   s.TextTopMargin,
		TextRightMargin: s.TextRightMargin,
		TextSize:        s.TextSize,
		ColorAlpha:      uint8(min(max(s.ColorAlpha, 0), 255)),
	}
}

// DefaultDir returns ~/.plotter-strips, or .plotter-strips when there is no
// home directory.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".plotter-strips")
}

// DefaultPath returns the settings file location, honouring EnvConfigPath.
func DefaultPath() string {
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(DefaultDir(), "settings.json")
}

// Load reads settings from path. A missing file yields Default with no error.
// Fields absent from the file keep their default value.
func Load(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return Settings{}, fmt.Errorf("failed to read settings: %w", err)
	}

	s := Default()
	if err := json.Unmarshal(data, &s); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings %s: %w", path, err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, fmt.Errorf("settings %s: %w", path, err)
	}
	return s, nil
}

// Save writes s to path as indented JSON, creating missing parent
// directories. Invalid settings are not written.
func Save(path string, s Settings) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create settings directory: %w", err)
	}
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}

// Reset writes the factory settings to path and returns them.
func Reset(path string) (Settings, error) {
	s := Default()
	if err := Save(path, s); err != nil {
		return Settings{}, err
	}
	return s, nil
}
