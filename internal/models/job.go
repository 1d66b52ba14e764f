package models

import (
	"time"
)

// DocumentType identifies the kind of document being scanned
type DocumentType string

const (
	DocumentTypeText         DocumentType = "text"
	DocumentTypeImage        DocumentType = "image"
	DocumentTypeMixed        DocumentType = "mixed"
	DocumentTypePhoto        DocumentType = "photo"
	DocumentTypeBusinessCard DocumentType = "business_card"
	DocumentTypeReceipt      DocumentType = "receipt"
	DocumentTypeContract     DocumentType = "contract"
	DocumentTypeInvoice      DocumentType = "invoice"
)

// DocumentTypes returns all known document types
func DocumentTypes() []DocumentType {
	return []DocumentType{
		DocumentTypeText,
		DocumentTypeImage,
		DocumentTypeMixed,
		DocumentTypePhoto,
		DocumentTypeBusinessCard,
		DocumentTypeReceipt,
		DocumentTypeContract,
		DocumentTypeInvoice,
	}
}

// IsValid reports whether d is a known document type
func (d DocumentType) IsValid() bool {
	for _, known := range DocumentTypes() {
		if d == known {
			return true
		}
	}
	return false
}

// OutputFormat enumerates scan output file formats
type OutputFormat string

const (
	OutputFormatPDF  OutputFormat = "pdf"
	OutputFormatJPEG OutputFormat = "jpeg"
	OutputFormatPNG  OutputFormat = "png"
	OutputFormatTIFF OutputFormat = "tiff"
)

// OutputFormats returns all known output formats
func OutputFormats() []OutputFormat {
	return []OutputFormat{OutputFormatPDF, OutputFormatJPEG, OutputFormatPNG, OutputFormatTIFF}
}

// IsValid reports whether f is a known output format
func (f OutputFormat) IsValid() bool {
	for _, known := range OutputFormats() {
		if f == known {
			return true
		}
	}
	return false
}

// ScanSettings holds the per-job scan parameters. All fields are
// validated against the target scanner's capabilities at job creation.
type ScanSettings struct {
	Resolution   int          `json:"resolution"`
	ColorMode    ColorMode    `json:"color_mode"`
	PaperSize    PaperSize    `json:"paper_size"`
	Duplex       bool         `json:"duplex"`
	OutputFormat OutputFormat `json:"output_format"`
	Quality      int          `json:"quality"`
}

// DefaultScanSettings returns the settings preselected for new jobs
func DefaultScanSettings() ScanSettings {
	return ScanSettings{
		Resolution:   300,
		ColorMode:    ColorModeColor,
		PaperSize:    PaperSize{Size: PaperSizeA4},
		Duplex:       false,
		OutputFormat: OutputFormatPDF,
		Quality:      85,
	}
}

// ValidateSettings checks settings against a scanner's capabilities
func ValidateSettings(settings ScanSettings, caps ScannerCapabilities) error {
	if settings.Resolution <= 0 {
		return &InvalidSettingsError{Field: "resolution", Message: "must be a positive DPI value"}
	}
	if settings.Resolution > caps.MaxResolution {
		return &InvalidSettingsError{
			Field:   "resolution",
			Message: "exceeds the scanner's maximum resolution",
		}
	}
	if !caps.SupportsColorMode(settings.ColorMode) {
		return &InvalidSettingsError{
			Field:   "color_mode",
			Message: "not supported by this scanner",
		}
	}
	if settings.PaperSize.Size == PaperSizeCustom {
		if settings.PaperSize.Width <= 0 || settings.PaperSize.Height <= 0 {
			return &InvalidSettingsError{
				Field:   "paper_size",
				Message: "custom dimensions must be positive",
			}
		}
	} else if !caps.SupportsPaperSize(settings.PaperSize) {
		return &InvalidSettingsError{
			Field:   "paper_size",
			Message: "not supported by this scanner",
		}
	}
	if settings.Duplex && !caps.HasDuplex {
		return &InvalidSettingsError{
			Field:   "duplex",
			Message: "scanner has no duplex unit",
		}
	}
	if !settings.OutputFormat.IsValid() {
		return &InvalidSettingsError{Field: "output_format", Message: "unknown output format"}
	}
	if settings.Quality < 10 || settings.Quality > 100 {
		return &InvalidSettingsError{Field: "quality", Message: "must be between 10 and 100"}
	}
	return nil
}

// JobState enumerates the scan job status variants
type JobState string

const (
	JobStatePending    JobState = "pending"
	JobStateScanning   JobState = "scanning"
	JobStateProcessing JobState = "processing"
	JobStateCompleted  JobState = "completed"
	JobStateFailed     JobState = "failed"
	JobStateCancelled  JobState = "cancelled"
)

// JobStatus is a tagged status value. Reason is only set for the
// failed state and carries the simulated fault description.
type JobStatus struct {
	State  JobState `json:"state"`
	Reason string   `json:"reason,omitempty"`
}

// JobPending returns a Pending status value
func JobPending() JobStatus {
	return JobStatus{State: JobStatePending}
}

// JobScanning returns a Scanning status value
func JobScanning() JobStatus {
	return JobStatus{State: JobStateScanning}
}

// JobProcessing returns a Processing status value
func JobProcessing() JobStatus {
	return JobStatus{State: JobStateProcessing}
}

// JobCompleted returns a Completed status value
func JobCompleted() JobStatus {
	return JobStatus{State: JobStateCompleted}
}

// JobFailed returns a Failed status value carrying the fault reason
func JobFailed(reason string) JobStatus {
	return JobStatus{State: JobStateFailed, Reason: reason}
}

// JobCancelled returns a Cancelled status value
func JobCancelled() JobStatus {
	return JobStatus{State: JobStateCancelled}
}

// IsTerminal reports whether the job has reached a terminal state
func (s JobStatus) IsTerminal() bool {
	return s.State == JobStateCompleted || s.State == JobStateFailed || s.State == JobStateCancelled
}

// IsActive reports whether the job still holds its scanner claim
func (s JobStatus) IsActive() bool {
	return !s.IsTerminal()
}

// ScanResult describes the synthesized output artifact of a completed
// scan. It is present exactly when the job status is Completed.
type ScanResult struct {
	FilePath   string        `json:"file_path"`
	FileSize   int64         `json:"file_size"`
	Pages      int           `json:"pages"`
	Resolution int           `json:"resolution"`
	ColorMode  ColorMode     `json:"color_mode"`
	Format     OutputFormat  `json:"format"`
	ScanTime   time.Duration `json:"scan_time"`
}

// ScanJob is a scan job record. Snapshots handed to callers are copies;
// the authoritative record is owned by the job manager.
type ScanJob struct {
	ID           string       `json:"id"`
	ScannerID    string       `json:"scanner_id"`
	DocumentType DocumentType `json:"document_type"`
	Settings     ScanSettings `json:"settings"`
	Status       JobStatus    `json:"status"`
	Progress     float64      `json:"progress"`
	CreatedAt    time.Time    `json:"created_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	Result       *ScanResult  `json:"result,omitempty"`
}
