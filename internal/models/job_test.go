package models

import (
	"errors"
	"testing"
)

func TestValidateSettings(t *testing.T) {
	caps := ScannerCapabilities{
		MaxResolution: 600,
		ColorModes:    []ColorMode{ColorModeGrayscale, ColorModeColor},
		PaperSizes:    []PaperSize{{Size: PaperSizeA4}, {Size: PaperSizeLetter}},
		HasDuplex:     false,
		HasADF:        false,
	}

	valid := ScanSettings{
		Resolution:   300,
		ColorMode:    ColorModeColor,
		PaperSize:    PaperSize{Size: PaperSizeA4},
		Duplex:       false,
		OutputFormat: OutputFormatPDF,
		Quality:      85,
	}

	tests := []struct {
		name      string
		mutate    func(*ScanSettings)
		wantField string
	}{
		{
			name:   "valid settings",
			mutate: func(s *ScanSettings) {},
		},
		{
			name:      "resolution above maximum",
			mutate:    func(s *ScanSettings) { s.Resolution = 1200 },
			wantField: "resolution",
		},
		{
			name:      "zero resolution",
			mutate:    func(s *ScanSettings) { s.Resolution = 0 },
			wantField: "resolution",
		},
		{
			name:      "unsupported color mode",
			mutate:    func(s *ScanSettings) { s.ColorMode = ColorModeBlackAndWhite },
			wantField: "color_mode",
		},
		{
			name:      "unsupported paper size",
			mutate:    func(s *ScanSettings) { s.PaperSize = PaperSize{Size: PaperSizeA3} },
			wantField: "paper_size",
		},
		{
			name:   "custom paper size with positive dimensions",
			mutate: func(s *ScanSettings) { s.PaperSize = CustomPaperSize(100, 150) },
		},
		{
			name:      "custom paper size with zero width",
			mutate:    func(s *ScanSettings) { s.PaperSize = CustomPaperSize(0, 150) },
			wantField: "paper_size",
		},
		{
			name:      "duplex without duplex unit",
			mutate:    func(s *ScanSettings) { s.Duplex = true },
			wantField: "duplex",
		},
		{
			name:      "quality below range",
			mutate:    func(s *ScanSettings) { s.Quality = 9 },
			wantField: "quality",
		},
		{
			name:      "quality above range",
			mutate:    func(s *ScanSettings) { s.Quality = 101 },
			wantField: "quality",
		},
		{
			name:      "unknown output format",
			mutate:    func(s *ScanSettings) { s.OutputFormat = OutputFormat("bmp") },
			wantField: "output_format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			settings := valid
			tt.mutate(&settings)

			err := ValidateSettings(settings, caps)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid settings, got error: %v", err)
				}
				return
			}

			var invalid *InvalidSettingsError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidSettingsError, got: %v", err)
			}
			if invalid.Field != tt.wantField {
				t.Errorf("expected field %q, got %q", tt.wantField, invalid.Field)
			}
		})
	}
}

func TestJobStatusTerminal(t *testing.T) {
	tests := []struct {
		status   JobStatus
		terminal bool
	}{
		{JobPending(), false},
		{JobScanning(), false},
		{JobProcessing(), false},
		{JobCompleted(), true},
		{JobFailed("scanner hardware error"), true},
		{JobCancelled(), true},
	}

	for _, tt := range tests {
		if got := tt.status.IsTerminal(); got != tt.terminal {
			t.Errorf("IsTerminal(%s) = %v, want %v", tt.status.State, got, tt.terminal)
		}
		if got := tt.status.IsActive(); got == tt.terminal {
			t.Errorf("IsActive(%s) = %v, want %v", tt.status.State, got, !tt.terminal)
		}
	}
}

func TestDefaultScanSettingsAreValidForDefaultCapabilities(t *testing.T) {
	if err := ValidateSettings(DefaultScanSettings(), DefaultCapabilities()); err != nil {
		t.Fatalf("default settings should satisfy default capabilities: %v", err)
	}
}

func TestCapabilitiesValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ScannerCapabilities)
		ok     bool
	}{
		{"defaults", func(c *ScannerCapabilities) {}, true},
		{"zero max resolution", func(c *ScannerCapabilities) { c.MaxResolution = 0 }, false},
		{"no color modes", func(c *ScannerCapabilities) { c.ColorModes = nil }, false},
		{"no paper sizes", func(c *ScannerCapabilities) { c.PaperSizes = nil }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caps := DefaultCapabilities()
			tt.mutate(&caps)
			err := caps.Validate()
			if tt.ok && err != nil {
				t.Fatalf("expected valid capabilities, got: %v", err)
			}
			if !tt.ok && err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestPaperSizeEqual(t *testing.T) {
	if !(PaperSize{Size: PaperSizeA4}).Equal(PaperSize{Size: PaperSizeA4}) {
		t.Error("identical standard sizes should be equal")
	}
	if (PaperSize{Size: PaperSizeA4}).Equal(PaperSize{Size: PaperSizeA3}) {
		t.Error("different standard sizes should not be equal")
	}
	if !CustomPaperSize(100, 150).Equal(CustomPaperSize(100, 150)) {
		t.Error("identical custom sizes should be equal")
	}
	if CustomPaperSize(100, 150).Equal(CustomPaperSize(100, 151)) {
		t.Error("custom sizes with different dimensions should not be equal")
	}
}
