package service

import "errors"

var (
	ErrValidation         = errors.New("validation error")
	ErrStoreUnavailable   = errors.New("database not connected")
	ErrRemoteUnconfigured = errors.New("notion not configured")
)

// SyncError is returned when a reconcile cannot run at all, e.g. the
// Notion query itself fails.
type SyncError struct {
	Err error
}

func (e *SyncError) Error() string { return "sync failed: " + e.Err.Error() }

func (e *SyncError) Unwrap() error { return e.Err }
