package jobs

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/scantech/scansim/internal/models"
	"github.com/scantech/scansim/pkg/metrics"
)

// scanFaults is the fixed pool of reasons for the designed random
// terminal failure
var scanFaults = []string{
	"scanner hardware error",
	"paper jam during scan",
	"document feeder misfeed",
	"scan head position lost",
}

// runDriver simulates one scan: progress advances over a randomized
// total duration in fixed steps, the job flips to Processing at the
// configured completion fraction, and the terminal outcome is drawn
// from the injected random source. Cancellation is checked at every
// step boundary.
func (m *Manager) runDriver(e *jobEntry) {
	defer m.wg.Done()

	e.mu.Lock()
	jobID := e.job.ID
	scannerID := e.job.ScannerID
	docType := e.job.DocumentType
	settings := e.job.Settings
	e.mu.Unlock()

	driverLog := m.logger.WithFields(logrus.Fields{
		"job_id":     jobID,
		"scanner_id": scannerID,
	})

	steps := m.sim.Steps
	total := m.sim.MinDuration()
	if spread := m.sim.MaxDuration() - m.sim.MinDuration(); spread > 0 {
		total += time.Duration(m.rng.Int63n(int64(spread)))
	}
	stepDelay := total / time.Duration(steps)

	// The outcome is drawn up front so a fixed seed reproduces it. A
	// failing run aborts at a step in the second half, before that
	// step's progress update, which keeps Failed progress below 1.0.
	var failure *models.SimulatedFailureError
	failStep := 0
	if m.rng.Float64() < m.sim.FailureProbability {
		failure = &models.SimulatedFailureError{Reason: scanFaults[m.rng.Intn(len(scanFaults))]}
		failStep = steps/2 + 1 + m.rng.Intn(steps-steps/2)
	}

	start := time.Now()
	driverLog.WithFields(logrus.Fields{
		"duration_ms": total.Milliseconds(),
		"steps":       steps,
	}).Debug("Scan driver started")

	for step := 1; step <= steps; step++ {
		// Jitter each step by up to ±25% of the base delay; the sum
		// stays close to the drawn total.
		delay := stepDelay
		if stepDelay > 0 {
			jitter := time.Duration(m.rng.Int63n(int64(stepDelay)/2+1)) - stepDelay/4
			delay += jitter
		}

		select {
		case <-e.cancel:
			driverLog.Debug("Scan driver observed cancellation")
			return
		case <-time.After(delay):
		}

		if failure != nil && step == failStep {
			m.failJob(e, failure.Reason, start)
			driverLog.WithField("reason", failure.Reason).Warn("Simulated scan failure")
			return
		}

		progress := float64(step) / float64(steps)
		e.mu.Lock()
		if e.job.Status.IsTerminal() {
			// Cancelled between the timer firing and taking the lock.
			e.mu.Unlock()
			return
		}
		if progress < 1.0 && progress > e.job.Progress {
			e.job.Progress = progress
		}
		if e.job.Status.State == models.JobStateScanning && progress >= m.sim.ProcessingThreshold {
			e.job.Status = models.JobProcessing()
		}
		e.mu.Unlock()
	}

	elapsed := time.Since(start)
	result, err := m.synthesizeResult(docType, settings, elapsed)
	if err != nil {
		m.failJob(e, err.Error(), start)
		driverLog.WithError(err).Error("Failed to synthesize scan artifact")
		return
	}

	e.mu.Lock()
	if e.job.Status.IsTerminal() {
		e.mu.Unlock()
		return
	}
	now := time.Now()
	e.job.Status = models.JobCompleted()
	e.job.Progress = 1.0
	e.job.CompletedAt = &now
	e.job.Result = result
	e.mu.Unlock()

	m.registry.Release(scannerID, jobID)
	metrics.RecordJobFinished("completed", elapsed.Seconds())
	driverLog.WithFields(logrus.Fields{
		"duration_ms": elapsed.Milliseconds(),
		"file_path":   result.FilePath,
		"pages":       result.Pages,
	}).Info("Scan job completed")
}

// failJob applies a terminal failure and releases the scanner claim
func (m *Manager) failJob(e *jobEntry, reason string, start time.Time) {
	e.mu.Lock()
	if e.job.Status.IsTerminal() {
		e.mu.Unlock()
		return
	}
	now := time.Now()
	e.job.Status = models.JobFailed(reason)
	e.job.CompletedAt = &now
	jobID := e.job.ID
	scannerID := e.job.ScannerID
	e.mu.Unlock()

	m.registry.Release(scannerID, jobID)
	metrics.RecordJobFinished("failed", time.Since(start).Seconds())
}
