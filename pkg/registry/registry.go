// Package registry owns the set of known simulated scanners and their
// status. Each record gets its own lock so claim/release traffic from
// the job manager, connection tests, and event injection never contend
// on a single global mutex.
package registry

import (
	"runtime"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/scantech/scansim/internal/models"
	"github.com/scantech/scansim/pkg/config"
	"github.com/scantech/scansim/pkg/simrand"
)

// Registry is the in-memory scanner table
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry

	sim    config.SimulationConfig
	rng    simrand.Rand
	logger *logrus.Logger

	tester *ConnectionTester
	events *EventSimulator
}

// entry pairs a scanner record with its lock and claim state. claimedBy
// holds the id of the non-terminal job owning the scanner, or "".
type entry struct {
	mu        sync.Mutex
	scanner   models.Scanner
	claimedBy string
}

// New creates an empty registry
func New(cfg *config.Config, rng simrand.Rand, logger *logrus.Logger) *Registry {
	r := &Registry{
		entries: make(map[string]*entry),
		sim:     cfg.Simulation,
		rng:     rng,
		logger:  logger,
	}
	r.tester = NewConnectionTester(cfg.Simulation, rng, logger)
	r.events = NewEventSimulator(cfg.Simulation, rng, logger)
	return r
}

// AddSpec describes a scanner to register. Capabilities may be nil to
// accept the default capability set.
type AddSpec struct {
	Name         string                      `json:"name"`
	ScannerType  models.ScannerType          `json:"scanner_type"`
	SystemType   models.SystemType           `json:"system_type"`
	Capabilities *models.ScannerCapabilities `json:"capabilities,omitempty"`
}

// Add validates the spec, assigns a fresh id and registers the scanner
// in the Available state
func (r *Registry) Add(spec AddSpec) (string, error) {
	if spec.Name == "" {
		return "", &models.InvalidSettingsError{Field: "name", Message: "must not be empty"}
	}
	if !spec.ScannerType.IsValid() {
		return "", &models.InvalidSettingsError{Field: "scanner_type", Message: "unknown scanner type"}
	}
	if !spec.SystemType.IsValid() {
		return "", &models.InvalidSettingsError{Field: "system_type", Message: "unknown system type"}
	}

	caps := models.DefaultCapabilities()
	if spec.Capabilities != nil {
		caps = *spec.Capabilities
	}
	if err := caps.Validate(); err != nil {
		return "", err
	}

	scanner := models.Scanner{
		ID:           uuid.NewString(),
		Name:         spec.Name,
		ScannerType:  spec.ScannerType,
		Status:       models.StatusAvailable(),
		Capabilities: caps,
		SystemType:   spec.SystemType,
	}

	r.mu.Lock()
	r.entries[scanner.ID] = &entry{scanner: scanner}
	r.mu.Unlock()

	r.logger.WithFields(logrus.Fields{
		"scanner_id":   scanner.ID,
		"name":         scanner.Name,
		"scanner_type": scanner.ScannerType,
		"system_type":  scanner.SystemType,
	}).Info("Scanner registered")

	return scanner.ID, nil
}

// Remove deletes a scanner record. It fails with RemovalBlocked while
// any non-terminal job still holds the scanner's claim.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.entries[id]
	if !ok {
		return &models.NotFoundError{Resource: "scanner", ID: id}
	}

	e.mu.Lock()
	claimedBy := e.claimedBy
	e.mu.Unlock()
	if claimedBy != "" {
		return &models.RemovalBlockedError{ScannerID: id, JobID: claimedBy}
	}

	delete(r.entries, id)
	r.logger.WithField("scanner_id", id).Info("Scanner removed")
	return nil
}

// Get returns a snapshot of one scanner
func (r *Registry) Get(id string) (models.Scanner, error) {
	e, err := r.entry(id)
	if err != nil {
		return models.Scanner{}, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scanner, nil
}

// Capabilities returns one scanner's capability declaration
func (r *Registry) Capabilities(id string) (models.ScannerCapabilities, error) {
	s, err := r.Get(id)
	if err != nil {
		return models.ScannerCapabilities{}, err
	}
	return s.Capabilities, nil
}

// List returns snapshots of all scanners, ordered by name for stable output
func (r *Registry) List() []models.Scanner {
	return r.listWhere(func(models.Scanner) bool { return true })
}

// ListBySystem returns snapshots of the scanners on one platform
func (r *Registry) ListBySystem(system models.SystemType) []models.Scanner {
	return r.listWhere(func(s models.Scanner) bool { return s.SystemType == system })
}

// Count returns the number of registered scanners
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// ResetStatus unconditionally forces a scanner back to Available. It is
// the recovery path for simulated Offline/Error states.
func (r *Registry) ResetStatus(id string) error {
	e, err := r.entry(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	e.scanner.Status = models.StatusAvailable()
	e.mu.Unlock()

	r.logger.WithField("scanner_id", id).Info("Scanner status reset")
	return nil
}

// Claim marks a scanner Busy on behalf of a job. The check and the
// status flip happen under the entry lock, so two concurrent claims on
// the same scanner cannot both succeed.
func (r *Registry) Claim(id, jobID string) error {
	e, err := r.entry(id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.claimedBy != "" || !e.scanner.Status.IsAvailable() {
		return &models.ScannerUnavailableError{ScannerID: id, State: e.scanner.Status.State}
	}

	e.claimedBy = jobID
	e.scanner.Status = models.StatusBusy()
	return nil
}

// Release drops a job's claim and reverts the scanner to Available.
// Calls by a job that does not hold the claim are ignored, which makes
// release idempotent across the cancel/driver race.
func (r *Registry) Release(id, jobID string) {
	e, err := r.entry(id)
	if err != nil {
		return
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.claimedBy != jobID {
		return
	}
	e.claimedBy = ""
	if e.scanner.Status.State == models.ScannerStateBusy {
		e.scanner.Status = models.StatusAvailable()
	}
}

// ClaimedBy returns the id of the job holding the scanner, or ""
func (r *Registry) ClaimedBy(id string) string {
	e, err := r.entry(id)
	if err != nil {
		return ""
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.claimedBy
}

func (r *Registry) entry(id string) (*entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "scanner", ID: id}
	}
	return e, nil
}

func (r *Registry) listWhere(keep func(models.Scanner) bool) []models.Scanner {
	r.mu.RLock()
	entries := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		entries = append(entries, e)
	}
	r.mu.RUnlock()

	scanners := make([]models.Scanner, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		s := e.scanner
		e.mu.Unlock()
		if keep(s) {
			scanners = append(scanners, s)
		}
	}
	sort.Slice(scanners, func(i, j int) bool { return scanners[i].Name < scanners[j].Name })
	return scanners
}

// CurrentSystem maps the running platform to a system type
func CurrentSystem() models.SystemType {
	switch runtime.GOOS {
	case "windows":
		return models.SystemTypeWindows
	case "darwin":
		return models.SystemTypeMacOS
	default:
		return models.SystemTypeLinux
	}
}
