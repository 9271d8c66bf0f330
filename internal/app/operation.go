package app

import "time"

// Operation tracks one CLI command from start to finish so the log carries
// a single summary line per run.
type Operation struct {
	Command   string
	StartedAt time.Time
	Status    string // "success" or "error"
	Err       error
}

// NewOperation starts an operation for command at now.
func NewOperation(command string, now time.Time) *Operation {
	return &Operation{
		Command:   command,
		StartedAt: now,
		Status:    "success",
	}
}

// Fail marks the operation as failed. A nil err leaves it untouched.
func (op *Operation) Fail(err error) {
	if err == nil {
		return
	}
	op.Status = "error"
	op.Err = err
}

// Duration returns the time elapsed between the operation start and now.
func (op *Operation) Duration(now time.Time) time.Duration {
	return now.Sub(op.StartedAt).Truncate(time.Millisecond)
}
