package jobs

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/scantech/scansim/internal/models"
)

// typePrefixes names output files by document type
var typePrefixes = map[models.DocumentType]string{
	models.DocumentTypeText:         "text_document",
	models.DocumentTypeImage:        "scanned_image",
	models.DocumentTypeMixed:        "mixed_content",
	models.DocumentTypePhoto:        "photo_scan",
	models.DocumentTypeBusinessCard: "business_card",
	models.DocumentTypeReceipt:      "receipt",
	models.DocumentTypeContract:     "contract",
	models.DocumentTypeInvoice:      "invoice",
}

// basePages estimates simplex page counts per document type
var basePages = map[models.DocumentType]int{
	models.DocumentTypeText:         3,
	models.DocumentTypeImage:        1,
	models.DocumentTypeMixed:        2,
	models.DocumentTypePhoto:        1,
	models.DocumentTypeBusinessCard: 1,
	models.DocumentTypeReceipt:      1,
	models.DocumentTypeContract:     5,
	models.DocumentTypeInvoice:      2,
}

var formatExtensions = map[models.OutputFormat]string{
	models.OutputFormatPDF:  "pdf",
	models.OutputFormatJPEG: "jpg",
	models.OutputFormatPNG:  "png",
	models.OutputFormatTIFF: "tiff",
}

// pagesFor derives the page count from document type and duplex mode
func pagesFor(docType models.DocumentType, duplex bool) int {
	pages := basePages[docType]
	if pages < 1 {
		pages = 1
	}
	if duplex {
		pages *= 2
	}
	return pages
}

// colorWeight orders color modes by bytes per sample
func colorWeight(mode models.ColorMode) int64 {
	switch mode {
	case models.ColorModeBlackAndWhite:
		return 1
	case models.ColorModeGrayscale:
		return 2
	default:
		return 3
	}
}

// fileSizeFor estimates the artifact size. The formula is monotonic in
// resolution, quality, page count and color depth.
func fileSizeFor(settings models.ScanSettings, pages int) int64 {
	return int64(settings.Resolution) * int64(settings.Quality) * int64(pages) *
		colorWeight(settings.ColorMode) * 8
}

// filenameFor builds the artifact filename from type, format and time
func filenameFor(docType models.DocumentType, format models.OutputFormat, t time.Time) string {
	prefix := typePrefixes[docType]
	if prefix == "" {
		prefix = "scanned_document"
	}
	return fmt.Sprintf("%s_%s.%s", prefix, t.Format("20060102_150405"), formatExtensions[format])
}

// synthesizeResult writes a placeholder artifact file and returns the
// result descriptor. The reported file size comes from the size
// formula, not the placeholder bytes; real image synthesis is out of
// scope for the simulator.
func (m *Manager) synthesizeResult(docType models.DocumentType, settings models.ScanSettings, elapsed time.Duration) (*models.ScanResult, error) {
	if err := os.MkdirAll(m.outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	now := time.Now()
	pages := pagesFor(docType, settings.Duplex)
	path := filepath.Join(m.outDir, filenameFor(docType, settings.OutputFormat, now))

	content := fmt.Sprintf(
		"SIMULATED SCAN ARTIFACT\n"+
			"document_type: %s\n"+
			"pages: %d\n"+
			"resolution: %d DPI\n"+
			"color_mode: %s\n"+
			"output_format: %s\n"+
			"quality: %d\n"+
			"duplex: %t\n"+
			"scanned_at: %s\n",
		docType, pages, settings.Resolution, settings.ColorMode,
		settings.OutputFormat, settings.Quality, settings.Duplex,
		now.Format(time.RFC3339),
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, fmt.Errorf("failed to write output artifact: %w", err)
	}

	return &models.ScanResult{
		FilePath:   path,
		FileSize:   fileSizeFor(settings, pages),
		Pages:      pages,
		Resolution: settings.Resolution,
		ColorMode:  settings.ColorMode,
		Format:     settings.OutputFormat,
		ScanTime:   elapsed,
	}, nil
}
