package registry

import (
	"github.com/sirupsen/logrus"

	"github.com/scantech/scansim/internal/models"
	"github.com/scantech/scansim/pkg/metrics"
)

// discoverable is the pool of models a simulated bus scan can turn up
var discoverable = []AddSpec{
	{Name: "Fujitsu ScanSnap iX1600", ScannerType: models.ScannerTypeDocumentFeeder},
	{Name: "Plustek OpticFilm 8200i", ScannerType: models.ScannerTypeFilmScanner},
	{Name: "Xerox Duplex Portable", ScannerType: models.ScannerTypeSheetFed},
	{Name: "IRIScan Book 5", ScannerType: models.ScannerTypeHandheld},
	{Name: "Epson WorkForce ES-580W", ScannerType: models.ScannerTypeDocumentFeeder},
}

// Discover simulates a hardware bus scan on the current platform. With
// the configured probability it registers one not-yet-known scanner
// from the discoverable pool, then returns the platform-scoped list.
func (r *Registry) Discover() ([]models.Scanner, error) {
	platform := CurrentSystem()

	if r.rng.Float64() < r.sim.DiscoverProbability {
		if spec, ok := r.pickUndiscovered(platform); ok {
			id, err := r.Add(spec)
			if err != nil {
				return nil, err
			}
			metrics.ScannersDiscovered.Inc()
			r.logger.WithFields(logrus.Fields{
				"scanner_id": id,
				"name":       spec.Name,
			}).Info("New scanner discovered")
		}
	}

	return r.ListBySystem(platform), nil
}

// pickUndiscovered selects a random pool entry whose name is not yet
// registered, scoped to the given platform
func (r *Registry) pickUndiscovered(platform models.SystemType) (AddSpec, bool) {
	known := make(map[string]bool)
	for _, s := range r.List() {
		known[s.Name] = true
	}

	candidates := make([]AddSpec, 0, len(discoverable))
	for _, spec := range discoverable {
		if !known[spec.Name] {
			spec.SystemType = platform
			candidates = append(candidates, spec)
		}
	}
	if len(candidates) == 0 {
		return AddSpec{}, false
	}
	return candidates[r.rng.Intn(len(candidates))], true
}
