package models

// ScannerType identifies the hardware class of a simulated scanner
type ScannerType string

const (
	ScannerTypeFlatbed        ScannerType = "flatbed"
	ScannerTypeDocumentFeeder ScannerType = "document_feeder"
	ScannerTypeSheetFed       ScannerType = "sheet_fed"
	ScannerTypeHandheld       ScannerType = "handheld"
	ScannerTypeFilmScanner    ScannerType = "film_scanner"
	ScannerTypePhotoScanner   ScannerType = "photo_scanner"
)

// ScannerTypes returns all known scanner types
func ScannerTypes() []ScannerType {
	return []ScannerType{
		ScannerTypeFlatbed,
		ScannerTypeDocumentFeeder,
		ScannerTypeSheetFed,
		ScannerTypeHandheld,
		ScannerTypeFilmScanner,
		ScannerTypePhotoScanner,
	}
}

// IsValid reports whether t is a known scanner type
func (t ScannerType) IsValid() bool {
	for _, known := range ScannerTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// SystemType identifies the platform a simulated scanner belongs to
type SystemType string

const (
	SystemTypeWindows SystemType = "windows"
	SystemTypeMacOS   SystemType = "macos"
	SystemTypeLinux   SystemType = "linux"
)

// IsValid reports whether s is a known system type
func (s SystemType) IsValid() bool {
	return s == SystemTypeWindows || s == SystemTypeMacOS || s == SystemTypeLinux
}

// ScannerState enumerates the per-scanner status variants
type ScannerState string

const (
	ScannerStateAvailable ScannerState = "available"
	ScannerStateBusy      ScannerState = "busy"
	ScannerStateOffline   ScannerState = "offline"
	ScannerStateError     ScannerState = "error"
)

// ScannerStatus is a tagged status value. Message is only set for the
// error state and carries the simulated fault description.
type ScannerStatus struct {
	State   ScannerState `json:"state"`
	Message string       `json:"message,omitempty"`
}

// StatusAvailable returns an Available status value
func StatusAvailable() ScannerStatus {
	return ScannerStatus{State: ScannerStateAvailable}
}

// StatusBusy returns a Busy status value
func StatusBusy() ScannerStatus {
	return ScannerStatus{State: ScannerStateBusy}
}

// StatusOffline returns an Offline status value
func StatusOffline() ScannerStatus {
	return ScannerStatus{State: ScannerStateOffline}
}

// StatusError returns an Error status value carrying the fault reason
func StatusError(reason string) ScannerStatus {
	return ScannerStatus{State: ScannerStateError, Message: reason}
}

// IsAvailable reports whether the scanner can accept a new job claim
func (s ScannerStatus) IsAvailable() bool {
	return s.State == ScannerStateAvailable
}

// ColorMode enumerates supported scan color modes
type ColorMode string

const (
	ColorModeBlackAndWhite ColorMode = "black_and_white"
	ColorModeGrayscale     ColorMode = "grayscale"
	ColorModeColor         ColorMode = "color"
)

// ColorModes returns all known color modes
func ColorModes() []ColorMode {
	return []ColorMode{ColorModeBlackAndWhite, ColorModeGrayscale, ColorModeColor}
}

// PaperSizeName enumerates the paper size variants
type PaperSizeName string

const (
	PaperSizeA4     PaperSizeName = "a4"
	PaperSizeA3     PaperSizeName = "a3"
	PaperSizeLetter PaperSizeName = "letter"
	PaperSizeLegal  PaperSizeName = "legal"
	PaperSizeCustom PaperSizeName = "custom"
)

// PaperSize is a tagged paper size. Width and Height (millimeters) are
// only meaningful for the custom variant.
type PaperSize struct {
	Size   PaperSizeName `json:"size"`
	Width  int           `json:"width,omitempty"`
	Height int           `json:"height,omitempty"`
}

// StandardPaperSizes returns the non-custom paper sizes
func StandardPaperSizes() []PaperSize {
	return []PaperSize{
		{Size: PaperSizeA4},
		{Size: PaperSizeA3},
		{Size: PaperSizeLetter},
		{Size: PaperSizeLegal},
	}
}

// CustomPaperSize builds a custom paper size with explicit dimensions
func CustomPaperSize(width, height int) PaperSize {
	return PaperSize{Size: PaperSizeCustom, Width: width, Height: height}
}

// Equal compares two paper sizes, including custom dimensions
func (p PaperSize) Equal(other PaperSize) bool {
	if p.Size != other.Size {
		return false
	}
	if p.Size == PaperSizeCustom {
		return p.Width == other.Width && p.Height == other.Height
	}
	return true
}

// ScannerCapabilities declares the constraints a scanner places on
// valid scan settings
type ScannerCapabilities struct {
	MaxResolution int         `json:"max_resolution"`
	ColorModes    []ColorMode `json:"color_modes"`
	PaperSizes    []PaperSize `json:"paper_sizes"`
	HasDuplex     bool        `json:"has_duplex"`
	HasADF        bool        `json:"has_adf"`
}

// DefaultCapabilities returns the capability set assumed for scanners
// added without an explicit one
func DefaultCapabilities() ScannerCapabilities {
	return ScannerCapabilities{
		MaxResolution: 600,
		ColorModes:    ColorModes(),
		PaperSizes:    StandardPaperSizes(),
		HasDuplex:     true,
		HasADF:        false,
	}
}

// SupportsColorMode reports whether mode is in the supported set
func (c ScannerCapabilities) SupportsColorMode(mode ColorMode) bool {
	for _, m := range c.ColorModes {
		if m == mode {
			return true
		}
	}
	return false
}

// SupportsPaperSize reports whether size is in the supported set.
// Custom sizes are accepted by any scanner as long as the dimensions
// are positive; that check belongs to settings validation.
func (c ScannerCapabilities) SupportsPaperSize(size PaperSize) bool {
	if size.Size == PaperSizeCustom {
		return true
	}
	for _, p := range c.PaperSizes {
		if p.Equal(size) {
			return true
		}
	}
	return false
}

// Validate checks the capability declaration itself
func (c ScannerCapabilities) Validate() error {
	if c.MaxResolution <= 0 {
		return &InvalidSettingsError{Field: "max_resolution", Message: "must be a positive DPI value"}
	}
	if len(c.ColorModes) == 0 {
		return &InvalidSettingsError{Field: "color_modes", Message: "at least one color mode is required"}
	}
	if len(c.PaperSizes) == 0 {
		return &InvalidSettingsError{Field: "paper_sizes", Message: "at least one paper size is required"}
	}
	return nil
}

// Scanner is a simulated scanner device record
type Scanner struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	ScannerType  ScannerType         `json:"scanner_type"`
	Status       ScannerStatus       `json:"status"`
	Capabilities ScannerCapabilities `json:"capabilities"`
	SystemType   SystemType          `json:"system_type"`
}

// SystemInfo summarizes engine state for the presentation layer
type SystemInfo struct {
	Platform   SystemType `json:"platform"`
	Scanners   int        `json:"scanners"`
	ActiveJobs int        `json:"active_jobs"`
}
