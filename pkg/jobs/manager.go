// Package jobs implements the scan job state machine: job creation
// against a claimed scanner, the background progress driver, polling
// snapshots and cooperative cancellation.
package jobs

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/scantech/scansim/internal/models"
	"github.com/scantech/scansim/pkg/config"
	"github.com/scantech/scansim/pkg/metrics"
	"github.com/scantech/scansim/pkg/registry"
	"github.com/scantech/scansim/pkg/simrand"
)

// Manager creates, starts, polls and cancels scan jobs. It owns the
// lifetime of every per-job driver goroutine.
type Manager struct {
	mu   sync.RWMutex
	jobs map[string]*jobEntry

	registry *registry.Registry
	sim      config.SimulationConfig
	outDir   string
	rng      simrand.Rand
	logger   *logrus.Logger

	wg       sync.WaitGroup
	stopOnce sync.Once
}

// jobEntry pairs a job record with its lock and the driver's
// cancellation signal. Status and progress are only ever mutated under
// mu, so a reader always sees a pair that actually coexisted.
type jobEntry struct {
	mu         sync.Mutex
	job        models.ScanJob
	cancel     chan struct{}
	cancelOnce sync.Once
}

// NewManager creates a job manager bound to a scanner registry
func NewManager(cfg *config.Config, reg *registry.Registry, rng simrand.Rand, logger *logrus.Logger) *Manager {
	return &Manager{
		jobs:     make(map[string]*jobEntry),
		registry: reg,
		sim:      cfg.Simulation,
		outDir:   cfg.Output.Directory,
		rng:      rng,
		logger:   logger,
	}
}

// Create validates the request, claims the scanner and stores a new job
// in the Pending state. The claim is taken before the job becomes
// visible, so a concurrent Create on the same scanner cannot also
// succeed.
func (m *Manager) Create(scannerID string, docType models.DocumentType, settings models.ScanSettings) (string, error) {
	scanner, err := m.registry.Get(scannerID)
	if err != nil {
		return "", err
	}
	if !scanner.Status.IsAvailable() {
		return "", &models.ScannerUnavailableError{ScannerID: scannerID, State: scanner.Status.State}
	}
	if !docType.IsValid() {
		return "", &models.InvalidSettingsError{Field: "document_type", Message: "unknown document type"}
	}
	if err := models.ValidateSettings(settings, scanner.Capabilities); err != nil {
		return "", err
	}

	jobID := uuid.NewString()
	if err := m.registry.Claim(scannerID, jobID); err != nil {
		return "", err
	}

	entry := &jobEntry{
		job: models.ScanJob{
			ID:           jobID,
			ScannerID:    scannerID,
			DocumentType: docType,
			Settings:     settings,
			Status:       models.JobPending(),
			Progress:     0,
			CreatedAt:    time.Now(),
		},
		cancel: make(chan struct{}),
	}

	m.mu.Lock()
	m.jobs[jobID] = entry
	m.mu.Unlock()

	metrics.RecordJobCreated()
	m.logger.WithFields(logrus.Fields{
		"job_id":        jobID,
		"scanner_id":    scannerID,
		"document_type": docType,
	}).Info("Scan job created")

	return jobID, nil
}

// Start transitions a Pending job to Scanning and spawns its driver
func (m *Manager) Start(jobID string) error {
	e, err := m.entry(jobID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.job.Status.State != models.JobStatePending {
		state := e.job.Status.State
		e.mu.Unlock()
		return &models.InvalidTransitionError{JobID: jobID, State: state, Operation: "start"}
	}
	e.job.Status = models.JobScanning()
	e.mu.Unlock()

	m.wg.Add(1)
	go m.runDriver(e)

	m.logger.WithField("job_id", jobID).Info("Scan job started")
	return nil
}

// Get returns a consistent snapshot of one job
func (m *Manager) Get(jobID string) (models.ScanJob, error) {
	e, err := m.entry(jobID)
	if err != nil {
		return models.ScanJob{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return snapshot(e.job), nil
}

// List returns snapshots of all jobs, newest first
func (m *Manager) List() []models.ScanJob {
	m.mu.RLock()
	entries := make([]*jobEntry, 0, len(m.jobs))
	for _, e := range m.jobs {
		entries = append(entries, e)
	}
	m.mu.RUnlock()

	out := make([]models.ScanJob, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, snapshot(e.job))
		e.mu.Unlock()
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

// Result returns the scan result of a Completed job, or nil when the
// job has no result
func (m *Manager) Result(jobID string) (*models.ScanResult, error) {
	job, err := m.Get(jobID)
	if err != nil {
		return nil, err
	}
	return job.Result, nil
}

// Cancel signals the driver to stop and marks the job Cancelled. The
// scanner claim is released immediately; the driver observes the
// signal at its next step boundary and exits without touching the
// record again.
func (m *Manager) Cancel(jobID string) error {
	e, err := m.entry(jobID)
	if err != nil {
		return err
	}

	e.mu.Lock()
	if e.job.Status.IsTerminal() {
		state := e.job.Status.State
		e.mu.Unlock()
		return &models.InvalidTransitionError{JobID: jobID, State: state, Operation: "cancel"}
	}
	now := time.Now()
	e.job.Status = models.JobCancelled()
	e.job.CompletedAt = &now
	scannerID := e.job.ScannerID
	elapsed := now.Sub(e.job.CreatedAt)
	e.mu.Unlock()

	e.cancelOnce.Do(func() { close(e.cancel) })
	m.registry.Release(scannerID, jobID)
	metrics.RecordJobFinished("cancelled", elapsed.Seconds())

	m.logger.WithFields(logrus.Fields{
		"job_id":     jobID,
		"scanner_id": scannerID,
	}).Info("Scan job cancelled")
	return nil
}

// ActiveCount returns the number of non-terminal jobs
func (m *Manager) ActiveCount() int {
	count := 0
	for _, job := range m.List() {
		if job.Status.IsActive() {
			count++
		}
	}
	return count
}

// Stop cancels every active job and waits for all drivers to exit,
// up to the given timeout
func (m *Manager) Stop(timeout time.Duration) error {
	var stopErr error

	m.stopOnce.Do(func() {
		for _, job := range m.List() {
			if job.Status.IsActive() {
				// InvalidTransition races with drivers finishing on
				// their own; both outcomes are fine here.
				_ = m.Cancel(job.ID)
			}
		}

		done := make(chan struct{})
		go func() {
			m.wg.Wait()
			close(done)
		}()

		select {
		case <-done:
			m.logger.Info("All scan drivers stopped")
		case <-time.After(timeout):
			stopErr = fmt.Errorf("job manager shutdown timeout after %v", timeout)
			m.logger.Warn("Job manager shutdown timeout, some drivers may still be running")
		}
	})

	return stopErr
}

func (m *Manager) entry(jobID string) (*jobEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	e, ok := m.jobs[jobID]
	if !ok {
		return nil, &models.NotFoundError{Resource: "job", ID: jobID}
	}
	return e, nil
}

// snapshot copies a job record so callers never alias manager-owned
// pointers
func snapshot(job models.ScanJob) models.ScanJob {
	out := job
	if job.CompletedAt != nil {
		t := *job.CompletedAt
		out.CompletedAt = &t
	}
	if job.Result != nil {
		r := *job.Result
		out.Result = &r
	}
	return out
}
