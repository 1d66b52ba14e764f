package registry

import "github.com/scantech/scansim/internal/models"

// seedCatalog is the built-in scanner fleet registered at startup. The
// capability spread is deliberate: high-DPI photo hardware without
// duplex, office feeders with duplex and ADF, a plain SANE fallback.
func seedCatalog() []struct {
	spec AddSpec
	caps models.ScannerCapabilities
} {
	return []struct {
		spec AddSpec
		caps models.ScannerCapabilities
	}{
		{
			spec: AddSpec{
				Name:        "HP ScanJet Pro 2500 f1",
				ScannerType: models.ScannerTypeDocumentFeeder,
				SystemType:  models.SystemTypeWindows,
			},
			caps: capabilities(1200, true, true),
		},
		{
			spec: AddSpec{
				Name:        "Canon CanoScan LiDE 400",
				ScannerType: models.ScannerTypeFlatbed,
				SystemType:  models.SystemTypeWindows,
			},
			caps: capabilities(4800, false, false),
		},
		{
			spec: AddSpec{
				Name:        "Epson Perfection V850 Pro",
				ScannerType: models.ScannerTypePhotoScanner,
				SystemType:  models.SystemTypeMacOS,
			},
			caps: capabilities(6400, false, false),
		},
		{
			spec: AddSpec{
				Name:        "Brother MFC-L3770CDW",
				ScannerType: models.ScannerTypeDocumentFeeder,
				SystemType:  models.SystemTypeMacOS,
			},
			caps: capabilities(1200, true, true),
		},
		{
			spec: AddSpec{
				Name:        "HP LaserJet MFP M28w",
				ScannerType: models.ScannerTypeFlatbed,
				SystemType:  models.SystemTypeLinux,
			},
			caps: capabilities(1200, false, false),
		},
		{
			spec: AddSpec{
				Name:        "SANE Generic Scanner",
				ScannerType: models.ScannerTypeDocumentFeeder,
				SystemType:  models.SystemTypeLinux,
			},
			caps: capabilities(600, true, true),
		},
	}
}

func capabilities(maxResolution int, duplex, adf bool) models.ScannerCapabilities {
	caps := models.DefaultCapabilities()
	caps.MaxResolution = maxResolution
	caps.HasDuplex = duplex
	caps.HasADF = adf
	return caps
}

// Seed registers the built-in scanner catalog
func (r *Registry) Seed() error {
	for _, item := range seedCatalog() {
		spec := item.spec
		caps := item.caps
		spec.Capabilities = &caps
		if _, err := r.Add(spec); err != nil {
			return err
		}
	}
	r.logger.WithField("scanners", r.Count()).Info("Seed scanner catalog loaded")
	return nil
}
