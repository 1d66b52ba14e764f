package jobs

import (
	"strings"
	"testing"
	"time"

	"github.com/scantech/scansim/internal/models"
)

func TestPagesFor(t *testing.T) {
	tests := []struct {
		docType models.DocumentType
		duplex  bool
		want    int
	}{
		{models.DocumentTypeText, false, 3},
		{models.DocumentTypeText, true, 6},
		{models.DocumentTypeContract, false, 5},
		{models.DocumentTypeInvoice, true, 4},
		{models.DocumentTypePhoto, false, 1},
		{models.DocumentType("unknown"), false, 1},
	}

	for _, tt := range tests {
		if got := pagesFor(tt.docType, tt.duplex); got != tt.want {
			t.Errorf("pagesFor(%s, duplex=%t) = %d, want %d", tt.docType, tt.duplex, got, tt.want)
		}
	}
}

func TestFileSizeMonotonic(t *testing.T) {
	base := models.DefaultScanSettings()
	baseSize := fileSizeFor(base, 1)

	higher := base
	higher.Resolution = 600
	if fileSizeFor(higher, 1) <= baseSize {
		t.Error("higher resolution should produce a larger estimate")
	}

	gray := base
	gray.ColorMode = models.ColorModeGrayscale
	if fileSizeFor(gray, 1) >= baseSize {
		t.Error("grayscale should produce a smaller estimate than color")
	}

	if fileSizeFor(base, 4) <= fileSizeFor(base, 2) {
		t.Error("more pages should produce a larger estimate")
	}
}

func TestFilenameFor(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	got := filenameFor(models.DocumentTypeInvoice, models.OutputFormatJPEG, at)
	if got != "invoice_20260314_092653.jpg" {
		t.Errorf("unexpected filename %q", got)
	}

	got = filenameFor(models.DocumentType("unknown"), models.OutputFormatPDF, at)
	if !strings.HasPrefix(got, "scanned_document_") || !strings.HasSuffix(got, ".pdf") {
		t.Errorf("unknown type should fall back to generic prefix, got %q", got)
	}
}
