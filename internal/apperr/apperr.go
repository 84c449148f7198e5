// Package apperr defines the typed error kinds raised across the support
// bot (spec.md §7), each wrapped with github.com/pkg/errors at the call
// site the way the teacher wraps repository and webhook failures.
package apperr

import "github.com/pkg/errors"

// PlatformError wraps a chat-platform API failure. Deletion-signalling
// substrings are interpreted as state by the caller (internal/ingress);
// everything else is logged and treated as non-fatal for that message.
type PlatformError struct {
	Op  string
	err error
}

func (e *PlatformError) Error() string { return errors.Wrapf(e.err, "platform: %s", e.Op).Error() }
func (e *PlatformError) Unwrap() error { return e.err }

func NewPlatformError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &PlatformError{Op: op, err: err}
}

// ClassifierError wraps a model/network failure from internal/classifier.
// Callers never propagate it; Classify returns "" and the caller
// substitutes other/Complaint (spec.md §4.3).
type ClassifierError struct {
	Op  string
	err error
}

func (e *ClassifierError) Error() string { return errors.Wrapf(e.err, "classifier: %s", e.Op).Error() }
func (e *ClassifierError) Unwrap() error { return e.err }

func NewClassifierError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &ClassifierError{Op: op, err: err}
}

// ResourceExhausted is raised when no worker identity is available to
// acquire (spec.md §4.2/§7). The caller emits a visible operational notice
// and aborts only the current escalation.
type ResourceExhausted struct {
	Resource string
}

func (e *ResourceExhausted) Error() string {
	return "no " + e.Resource + " available"
}

func NewResourceExhausted(resource string) error {
	return &ResourceExhausted{Resource: resource}
}
