package registry

import (
	"github.com/sirupsen/logrus"

	"github.com/scantech/scansim/internal/models"
	"github.com/scantech/scansim/pkg/config"
	"github.com/scantech/scansim/pkg/metrics"
	"github.com/scantech/scansim/pkg/simrand"
)

// hardwareFaults is the fixed pool of reasons for injected Error states
var hardwareFaults = []string{
	"paper jam detected",
	"scanner lamp failure",
	"carriage motor stall",
	"ADF pickup roller failure",
	"calibration data corrupted",
}

// EventSimulator perturbs a random subset of scanners' statuses to
// emulate real-world flakiness. It never touches jobs, and it never
// touches a scanner currently claimed by one.
type EventSimulator struct {
	sim    config.SimulationConfig
	rng    simrand.Rand
	logger *logrus.Logger
}

// NewEventSimulator creates an event simulator with the given tunables
func NewEventSimulator(sim config.SimulationConfig, rng simrand.Rand, logger *logrus.Logger) *EventSimulator {
	return &EventSimulator{sim: sim, rng: rng, logger: logger}
}

// draw picks the new status for one perturbed scanner
func (s *EventSimulator) draw() models.ScannerStatus {
	switch s.rng.Intn(4) {
	case 0:
		return models.StatusAvailable()
	case 1:
		return models.StatusBusy()
	case 2:
		return models.StatusOffline()
	default:
		return models.StatusError(hardwareFaults[s.rng.Intn(len(hardwareFaults))])
	}
}

// SimulateEvents iterates a random subset of scanners and assigns each
// a freshly drawn status. Scanners claimed by a non-terminal job are
// skipped so the claim invariant holds.
func (r *Registry) SimulateEvents() {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	changed := 0
	for _, e := range entries {
		if r.rng.Float64() >= r.sim.EventProbability {
			continue
		}

		status := r.events.draw()

		e.mu.Lock()
		if e.claimedBy != "" {
			e.mu.Unlock()
			continue
		}
		e.scanner.Status = status
		id := e.scanner.ID
		e.mu.Unlock()

		changed++
		metrics.RecordStatusEvent(string(status.State))
		r.logger.WithFields(logrus.Fields{
			"scanner_id": id,
			"state":      status.State,
			"message":    status.Message,
		}).Debug("Scanner status event injected")
	}

	if changed > 0 {
		r.logger.WithField("changed", changed).Info("Scanner events simulated")
	}
}
