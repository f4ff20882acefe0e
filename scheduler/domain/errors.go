package domain

import (
	"fmt"
)

// ConfigurationError reports bad or missing resource limits of a single job or task.
// It is reported as that entity's error and never stops the scheduler.
type ConfigurationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid resource limits: %s", e.Reason)
	}
	return fmt.Sprintf("invalid resource limits: %s=%v: %s", e.Field, e.Value, e.Reason)
}

// DesyncError means a status message contradicts the local view of a job or task.
// Local state can no longer be trusted, the scheduler must be reinitialized.
type DesyncError struct {
	Kind   Kind
	ID     string
	Status string
	Local  string
}

func (e *DesyncError) Error() string {
	return fmt.Sprintf("%s %s: received status %q while local state is %s", e.Kind, e.ID, e.Status, e.Local)
}

// ProtocolError is a malformed status message or a status code outside the closed vocabulary.
type ProtocolError struct {
	Raw    string
	Reason string
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error: %s: %q", e.Reason, e.Raw)
}

// BackendError wraps any error returned by a Runner call.
type BackendError struct {
	Op  string
	ID  string
	Err error
}

func (e *BackendError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("runner %s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("runner %s(%s) failed: %v", e.Op, e.ID, e.Err)
}

func (e *BackendError) Cause() error { return e.Err }
func (e *BackendError) Unwrap() error { return e.Err }
