package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ironsheep/plotter-strips/internal/layout"
	"github.com/ironsheep/plotter-strips/internal/overlay"
)

func TestDefault(t *testing.T) {
	s := Default()
	want := Settings{
		PrinterWidth:    52,
		LineLength:      0.25,
		LineWidth:       0.02,
		TextTopMargin:   0.1,
		TextRightMargin: 0.02,
		TextSize:        0.1,
		ColorAlpha:      200,
		SourceDPI:       96,
	}
	if s != want {
		t.Errorf("got %+v, want %+v", s, want)
	}
	if err := s.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestConversions(t *testing.T) {
	s := Default()
	s.PrinterWidth = 24

	if got := s.Constraint(); got != (layout.Constraint{MaxWidthInches: 24}) {
		t.Errorf("Constraint() = %+v, want 24in", got)
	}
	if got := s.Overlay(); got != overlay.DefaultSettings() {
		t.Errorf("Overlay() = %+v, want %+v", got, overlay.DefaultSettings())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Settings)
	}{
		{"zero printer width", func(s *Settings) { s.PrinterWidth = 0 }},
		{"negative line length", func(s *Settings) { s.LineLength = -1 }},
		{"zero line width", func(s *Settings) { s.LineWidth = 0 }},
		{"zero text size", func(s *Settings) { s.TextSize = 0 }},
		{"zero dpi", func(s *Settings) { s.SourceDPI = 0 }},
		{"negative top margin", func(s *Settings) { s.TextTopMargin = -0.1 }},
		{"negative right margin", func(s *Settings) { s.TextRightMargin = -0.1 }},
		{"alpha too high", func(s *Settings) { s.ColorAlpha = 256 }},
		{"alpha negative", func(s *Settings) { s.ColorAlpha = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Default()
			tt.modify(&s)
			if err := s.Validate(); !errors.Is(err, ErrInvalidSettings) {
				t.Errorf("expected ErrInvalidSettings, got %v", err)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")

	s := Default()
	s.PrinterWidth = 36
	s.ColorAlpha = 128
	if err := Save(path, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != s {
		t.Errorf("got %+v, want %+v", loaded, s)
	}
}

func TestLoadMissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nonexistent", "settings.json"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if s != Default() {
		t.Errorf("missing file should give defaults, got %+v", s)
	}
}

func TestLoadPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte(`{"printer_width": 24}`), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Default()
	want.PrinterWidth = 24
	if s != want {
		t.Errorf("got %+v, want %+v", s, want)
	}
}

func TestLoadInvalidFile(t *testing.T) {
	dir := t.TempDir()

	garbage := filepath.Join(dir, "garbage.json")
	if err := os.WriteFile(garbage, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	if _, err := Load(garbage); err == nil {
		t.Error("expected an error for malformed JSON")
	}

	outOfRange := filepath.Join(dir, "range.json")
	if err := os.WriteFile(outOfRange, []byte(`{"color_alpha": 300}`), 0644); err != nil {
		t.Fatalf("failed to write settings: %v", err)
	}
	if _, err := Load(outOfRange); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings, got %v", err)
	}
}

func TestSaveCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "settings.json")
	if err := Save(path, Default()); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("settings file not created: %v", err)
	}
}

func TestSaveRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s := Default()
	s.TextSize = 0

	if err := Save(path, s); !errors.Is(err, ErrInvalidSettings) {
		t.Errorf("expected ErrInvalidSettings, got %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("invalid settings should not be written")
	}
}

func TestReset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	s := Default()
	s.PrinterWidth = 12
	if err := Save(path, s); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	reset, err := Reset(path)
	if err != nil {
		t.Fatalf("Reset failed: %v", err)
	}
	if reset != Default() {
		t.Errorf("Reset returned %+v, want defaults", reset)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded != Default() {
		t.Errorf("file holds %+v after reset, want defaults", loaded)
	}
}

func TestDefaultPathEnvOverride(t *testing.T) {
	t.Setenv(EnvConfigPath, "/tmp/custom.json")
	if got := DefaultPath(); got != "/tmp/custom.json" {
		t.Errorf("DefaultPath() = %q, want the override", got)
	}

	t.Setenv(EnvConfigPath, "")
	if got := filepath.Base(DefaultPath()); got != "settings.json" {
		t.Errorf("DefaultPath() base = %q, want settings.json", got)
	}
}
