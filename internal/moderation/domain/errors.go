package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyReason    = errors.New("a moderation reason is required")
	ErrDialogClosed   = errors.New("moderation dialog is not open")
	ErrCannotBanAdmin = errors.New("administrators cannot be banned")
)

// Saga steps.
const (
	StepLog    = "log"
	StepDelete = "delete"
)

// StepError reports which step of a delete-with-reason failed. A failed
// delete step leaves its log entry behind: LogID is set in that case.
type StepError struct {
	Step  string
	LogID string
	Err   error
}

func (e *StepError) Error() string {
	if e.Step == StepDelete {
		return fmt.Sprintf("moderation delete failed after log %s: %v", e.LogID, e.Err)
	}
	return fmt.Sprintf("moderation log write failed: %v", e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
