package registry

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/scantech/scansim/internal/models"
	"github.com/scantech/scansim/pkg/config"
)

// seqRand replays scripted draws so simulation outcomes are forced
type seqRand struct {
	mu     sync.Mutex
	floats []float64
	ints   []int
}

func (r *seqRand) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.floats) == 0 {
		return 0.5
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *seqRand) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func (r *seqRand) Int63n(n int64) int64 { return 0 }

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Simulation.ConnectLatencyMin = "1ms"
	cfg.Simulation.ConnectLatencyMax = "1ms"
	cfg.Simulation.EventProbability = 1.0
	cfg.Simulation.DiscoverProbability = 1.0
	return cfg
}

func newTestRegistry(rng *seqRand) *Registry {
	return New(testConfig(), rng, testLogger())
}

func addScanner(t *testing.T, r *Registry, name string, system models.SystemType) string {
	t.Helper()
	id, err := r.Add(AddSpec{
		Name:        name,
		ScannerType: models.ScannerTypeFlatbed,
		SystemType:  system,
	})
	if err != nil {
		t.Fatalf("Add(%s) failed: %v", name, err)
	}
	return id
}

func TestAddAndGet(t *testing.T) {
	r := newTestRegistry(&seqRand{})
	id := addScanner(t, r, "Test Flatbed", models.SystemTypeLinux)

	scanner, err := r.Get(id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if scanner.Name != "Test Flatbed" {
		t.Errorf("expected name 'Test Flatbed', got %q", scanner.Name)
	}
	if scanner.Status.State != models.ScannerStateAvailable {
		t.Errorf("new scanner should be available, got %s", scanner.Status.State)
	}
	if scanner.Capabilities.MaxResolution != 600 {
		t.Errorf("expected default capabilities, got max resolution %d", scanner.Capabilities.MaxResolution)
	}
}

func TestAddValidation(t *testing.T) {
	r := newTestRegistry(&seqRand{})

	tests := []struct {
		name string
		spec AddSpec
	}{
		{
			name: "empty name",
			spec: AddSpec{ScannerType: models.ScannerTypeFlatbed, SystemType: models.SystemTypeLinux},
		},
		{
			name: "unknown scanner type",
			spec: AddSpec{Name: "X", ScannerType: "telepathic", SystemType: models.SystemTypeLinux},
		},
		{
			name: "unknown system type",
			spec: AddSpec{Name: "X", ScannerType: models.ScannerTypeFlatbed, SystemType: "beos"},
		},
		{
			name: "empty color modes",
			spec: AddSpec{
				Name:        "X",
				ScannerType: models.ScannerTypeFlatbed,
				SystemType:  models.SystemTypeLinux,
				Capabilities: &models.ScannerCapabilities{
					MaxResolution: 600,
					PaperSizes:    models.StandardPaperSizes(),
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Add(tt.spec); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestGetUnknownScanner(t *testing.T) {
	r := newTestRegistry(&seqRand{})

	_, err := r.Get("no-such-id")
	var notFound *models.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got: %v", err)
	}
}

func TestListBySystem(t *testing.T) {
	r := newTestRegistry(&seqRand{})
	addScanner(t, r, "Linux A", models.SystemTypeLinux)
	addScanner(t, r, "Linux B", models.SystemTypeLinux)
	addScanner(t, r, "Windows A", models.SystemTypeWindows)

	if got := len(r.ListBySystem(models.SystemTypeLinux)); got != 2 {
		t.Errorf("expected 2 linux scanners, got %d", got)
	}
	if got := len(r.ListBySystem(models.SystemTypeMacOS)); got != 0 {
		t.Errorf("expected 0 macos scanners, got %d", got)
	}
	if got := len(r.List()); got != 3 {
		t.Errorf("expected 3 scanners total, got %d", got)
	}
}

func TestClaimIsExclusive(t *testing.T) {
	r := newTestRegistry(&seqRand{})
	id := addScanner(t, r, "Contested", models.SystemTypeLinux)

	if err := r.Claim(id, "job-1"); err != nil {
		t.Fatalf("first claim failed: %v", err)
	}

	err := r.Claim(id, "job-2")
	var unavailable *models.ScannerUnavailableError
	if !errors.As(err, &unavailable) {
		t.Fatalf("expected ScannerUnavailableError, got: %v", err)
	}

	scanner, _ := r.Get(id)
	if scanner.Status.State != models.ScannerStateBusy {
		t.Errorf("claimed scanner should be busy, got %s", scanner.Status.State)
	}
	if r.ClaimedBy(id) != "job-1" {
		t.Errorf("expected claim held by job-1, got %q", r.ClaimedBy(id))
	}
}

func TestReleaseRevertsToAvailable(t *testing.T) {
	r := newTestRegistry(&seqRand{})
	id := addScanner(t, r, "Releasable", models.SystemTypeLinux)

	if err := r.Claim(id, "job-1"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	// A release by a job that does not hold the claim is a no-op.
	r.Release(id, "job-2")
	if r.ClaimedBy(id) != "job-1" {
		t.Error("release by non-owner should not drop the claim")
	}

	r.Release(id, "job-1")
	scanner, _ := r.Get(id)
	if scanner.Status.State != models.ScannerStateAvailable {
		t.Errorf("released scanner should be available, got %s", scanner.Status.State)
	}
	if r.ClaimedBy(id) != "" {
		t.Error("released scanner should have no claim")
	}

	if err := r.Claim(id, "job-3"); err != nil {
		t.Errorf("reclaim after release failed: %v", err)
	}
}

func TestRemoveBlockedWhileClaimed(t *testing.T) {
	r := newTestRegistry(&seqRand{})
	id := addScanner(t, r, "Claimed", models.SystemTypeLinux)

	if err := r.Claim(id, "job-1"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	err := r.Remove(id)
	var blocked *models.RemovalBlockedError
	if !errors.As(err, &blocked) {
		t.Fatalf("expected RemovalBlockedError, got: %v", err)
	}
	if blocked.JobID != "job-1" {
		t.Errorf("expected blocking job-1, got %q", blocked.JobID)
	}

	r.Release(id, "job-1")
	if err := r.Remove(id); err != nil {
		t.Fatalf("remove after release failed: %v", err)
	}
	if _, err := r.Get(id); !models.IsNotFound(err) {
		t.Errorf("removed scanner should be gone, got: %v", err)
	}
}

func TestConnectionFailureSetsError(t *testing.T) {
	// 0.99 is above every per-type success rate, so the probe fails.
	rng := &seqRand{floats: []float64{0.99}}
	r := newTestRegistry(rng)
	id := addScanner(t, r, "Flaky", models.SystemTypeLinux)

	ok, err := r.TestConnection(context.Background(), id)
	if err != nil {
		t.Fatalf("TestConnection failed: %v", err)
	}
	if ok {
		t.Fatal("expected probe failure")
	}

	scanner, _ := r.Get(id)
	if scanner.Status.State != models.ScannerStateError {
		t.Errorf("failed probe should set error state, got %s", scanner.Status.State)
	}
	if scanner.Status.Message == "" {
		t.Error("error state should carry a reason")
	}
}

func TestConnectionSuccessDoesNotMutateStatus(t *testing.T) {
	// First pass of SimulateEvents drives the scanner offline
	// (float 0.0 passes the probability gate, int 2 draws offline),
	// then a successful probe (float 0.0) must leave it offline.
	rng := &seqRand{floats: []float64{0.0, 0.0}, ints: []int{2}}
	r := newTestRegistry(rng)
	id := addScanner(t, r, "Sleepy", models.SystemTypeLinux)

	r.SimulateEvents()
	scanner, _ := r.Get(id)
	if scanner.Status.State != models.ScannerStateOffline {
		t.Fatalf("expected offline after event, got %s", scanner.Status.State)
	}

	ok, err := r.TestConnection(context.Background(), id)
	if err != nil || !ok {
		t.Fatalf("expected successful probe, got ok=%v err=%v", ok, err)
	}

	scanner, _ = r.Get(id)
	if scanner.Status.State != models.ScannerStateOffline {
		t.Errorf("successful probe must not mutate status, got %s", scanner.Status.State)
	}
}

func TestResetStatusRecovers(t *testing.T) {
	rng := &seqRand{floats: []float64{0.99}}
	r := newTestRegistry(rng)
	id := addScanner(t, r, "Recoverable", models.SystemTypeLinux)

	if ok, _ := r.TestConnection(context.Background(), id); ok {
		t.Fatal("expected probe failure")
	}

	if err := r.ResetStatus(id); err != nil {
		t.Fatalf("ResetStatus failed: %v", err)
	}
	scanner, _ := r.Get(id)
	if scanner.Status.State != models.ScannerStateAvailable {
		t.Errorf("reset scanner should be available, got %s", scanner.Status.State)
	}

	if err := r.ResetStatus("no-such-id"); !models.IsNotFound(err) {
		t.Errorf("expected NotFoundError, got: %v", err)
	}
}

func TestSimulateEventsSkipsClaimedScanners(t *testing.T) {
	// Every scanner passes the probability gate and would draw an
	// error status; the claimed one must be skipped anyway.
	rng := &seqRand{floats: []float64{0.0, 0.0}, ints: []int{3, 0, 3, 0}}
	r := newTestRegistry(rng)
	claimed := addScanner(t, r, "A Claimed", models.SystemTypeLinux)
	free := addScanner(t, r, "B Free", models.SystemTypeLinux)

	if err := r.Claim(claimed, "job-1"); err != nil {
		t.Fatalf("claim failed: %v", err)
	}

	r.SimulateEvents()

	scanner, _ := r.Get(claimed)
	if scanner.Status.State != models.ScannerStateBusy {
		t.Errorf("claimed scanner must keep its busy status, got %s", scanner.Status.State)
	}
	if r.ClaimedBy(claimed) != "job-1" {
		t.Error("claim must survive event simulation")
	}

	scanner, _ = r.Get(free)
	if scanner.Status.State != models.ScannerStateError {
		t.Errorf("free scanner should have been perturbed to error, got %s", scanner.Status.State)
	}
}

func TestDiscoverAddsNewScanner(t *testing.T) {
	rng := &seqRand{floats: []float64{0.0}, ints: []int{0}}
	r := newTestRegistry(rng)

	before := r.Count()
	scanners, err := r.Discover()
	if err != nil {
		t.Fatalf("Discover failed: %v", err)
	}
	if r.Count() != before+1 {
		t.Errorf("expected one discovered scanner, count went %d -> %d", before, r.Count())
	}

	platform := CurrentSystem()
	for _, s := range scanners {
		if s.SystemType != platform {
			t.Errorf("discover result should be scoped to %s, got %s", platform, s.SystemType)
		}
	}
}

func TestSeedCatalog(t *testing.T) {
	r := newTestRegistry(&seqRand{})
	if err := r.Seed(); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if r.Count() != 6 {
		t.Errorf("expected 6 seed scanners, got %d", r.Count())
	}
	for _, s := range r.List() {
		if !s.Status.IsAvailable() {
			t.Errorf("seed scanner %s should start available", s.Name)
		}
	}
}
