package registry

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/scantech/scansim/internal/models"
	"github.com/scantech/scansim/pkg/config"
	"github.com/scantech/scansim/pkg/metrics"
	"github.com/scantech/scansim/pkg/simrand"
)

// connectionFaults is the fixed pool of reasons a simulated probe fails with
var connectionFaults = []string{
	"connection timed out",
	"device not responding",
	"USB communication error",
	"network path unreachable",
}

// connectSuccessRates gives each scanner class its own reliability,
// mirroring how feeders and handhelds flake more than flatbeds.
var connectSuccessRates = map[models.ScannerType]float64{
	models.ScannerTypeFlatbed:        0.95,
	models.ScannerTypeDocumentFeeder: 0.90,
	models.ScannerTypeSheetFed:       0.85,
	models.ScannerTypeHandheld:       0.80,
	models.ScannerTypeFilmScanner:    0.88,
	models.ScannerTypePhotoScanner:   0.92,
}

// ConnectionTester simulates a connectivity probe against one scanner:
// latency drawn from the configured bounds, then a pass/fail draw
// weighted by scanner type.
type ConnectionTester struct {
	sim    config.SimulationConfig
	rng    simrand.Rand
	logger *logrus.Logger
}

// NewConnectionTester creates a tester with the given simulation tunables
func NewConnectionTester(sim config.SimulationConfig, rng simrand.Rand, logger *logrus.Logger) *ConnectionTester {
	return &ConnectionTester{sim: sim, rng: rng, logger: logger}
}

// probe sleeps for the simulated latency and draws the outcome. On
// failure it returns the fault reason to record on the scanner.
func (t *ConnectionTester) probe(ctx context.Context, scannerType models.ScannerType) (bool, string, error) {
	latency := t.sim.LatencyMin()
	if spread := t.sim.LatencyMax() - t.sim.LatencyMin(); spread > 0 {
		latency += time.Duration(t.rng.Int63n(int64(spread)))
	}

	select {
	case <-time.After(latency):
	case <-ctx.Done():
		return false, "", ctx.Err()
	}

	rate, ok := connectSuccessRates[scannerType]
	if !ok {
		rate = 0.9
	}
	if t.rng.Float64() < rate {
		return true, "", nil
	}
	return false, connectionFaults[t.rng.Intn(len(connectionFaults))], nil
}

// TestConnection simulates a connectivity probe against the scanner.
// A failed probe flips the scanner to the Error state; a successful
// probe only reports connectivity and never mutates status — recovery
// from Offline/Error goes through ResetStatus.
func (r *Registry) TestConnection(ctx context.Context, id string) (bool, error) {
	e, err := r.entry(id)
	if err != nil {
		return false, err
	}

	e.mu.Lock()
	scannerType := e.scanner.ScannerType
	e.mu.Unlock()

	ok, reason, err := r.tester.probe(ctx, scannerType)
	if err != nil {
		return false, err
	}

	metrics.RecordConnectionTest(ok)

	if !ok {
		e.mu.Lock()
		// A claimed scanner stays Busy; the probe failure is still
		// reported but must not break the claim invariant.
		if e.claimedBy == "" {
			e.scanner.Status = models.StatusError(reason)
		}
		e.mu.Unlock()

		r.logger.WithFields(logrus.Fields{
			"scanner_id": id,
			"reason":     reason,
		}).Warn("Connection test failed")
		return false, nil
	}

	r.logger.WithField("scanner_id", id).Debug("Connection test passed")
	return true, nil
}
