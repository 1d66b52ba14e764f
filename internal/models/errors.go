package models

import (
	"errors"
	"fmt"
)

// Domain error kinds returned by the registry and job manager. All of
// them are typed so callers can branch with errors.As instead of
// matching message strings.

// NotFoundError indicates an unknown scanner or job id
type NotFoundError struct {
	Resource string // "scanner" or "job"
	ID       string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// ScannerUnavailableError indicates a job creation attempt against a
// scanner that is not in the Available state
type ScannerUnavailableError struct {
	ScannerID string
	State     ScannerState
}

func (e *ScannerUnavailableError) Error() string {
	return fmt.Sprintf("scanner %s is not available (state: %s)", e.ScannerID, e.State)
}

// InvalidSettingsError indicates scan settings outside the target
// scanner's capabilities
type InvalidSettingsError struct {
	Field   string
	Message string
}

func (e *InvalidSettingsError) Error() string {
	return fmt.Sprintf("invalid setting %s: %s", e.Field, e.Message)
}

// InvalidTransitionError indicates a start or cancel call against a
// job whose current state does not permit it
type InvalidTransitionError struct {
	JobID     string
	State     JobState
	Operation string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s job %s in state %s", e.Operation, e.JobID, e.State)
}

// RemovalBlockedError indicates a scanner removal attempt while a
// non-terminal job still references it
type RemovalBlockedError struct {
	ScannerID string
	JobID     string
}

func (e *RemovalBlockedError) Error() string {
	return fmt.Sprintf("scanner %s cannot be removed: job %s is still active", e.ScannerID, e.JobID)
}

// SimulatedFailureError is the intentional, probability-driven terminal
// job failure. It is a designed behavior of the simulator and must stay
// distinguishable from genuine defects.
type SimulatedFailureError struct {
	Reason string
}

func (e *SimulatedFailureError) Error() string {
	return fmt.Sprintf("simulated scan failure: %s", e.Reason)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsSimulatedFailure reports whether err is the designed random failure
func IsSimulatedFailure(err error) bool {
	var sf *SimulatedFailureError
	return errors.As(err, &sf)
}
