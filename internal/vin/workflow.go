package vin

import (
	"errors"
	"fmt"
)

// Phase is the per-session state of a compliance check.
type Phase int

const (
	// PhaseIdle: the user is typing or scanning a candidate VIN.
	PhaseIdle Phase = iota
	// PhaseAwaitingConfirm: validation passed; the user sees the target
	// VIN plus guidance and must explicitly confirm. Nothing is recorded
	// until they do.
	PhaseAwaitingConfirm
	// PhaseAwaitingResult: the history entry is written and the state site
	// is open; waiting for the user to self-report what they saw.
	PhaseAwaitingResult
	// PhaseResolved: an outcome was self-reported.
	PhaseResolved
)

// Outcome is the user's self-reported result. It is advisory only and is
// never persisted; the store records that a check occurred, not how it
// went, because the lookup site offers no programmatic result.
type Outcome int

const (
	OutcomeCompliant Outcome = iota + 1
	OutcomeBlocked
)

// ErrPhase is returned when an operation is invoked out of order.
var ErrPhase = errors.New("operation not valid in current phase")

// Workflow is the short-lived compliance-check state machine. It owns no
// storage or platform access itself; both arrive as callbacks so the
// machine is testable without side effects.
type Workflow struct {
	phase     Phase
	candidate string
	outcome   Outcome

	record func(normalized string) error
	open   func(url string) error
}

// NewWorkflow builds an idle workflow. record persists a history entry for
// the normalized VIN; open launches the external URL.
func NewWorkflow(record func(normalized string) error, open func(url string) error) *Workflow {
	return &Workflow{record: record, open: open}
}

// Phase returns the current phase.
func (w *Workflow) Phase() Phase { return w.phase }

// Candidate returns the validated VIN once submit has succeeded.
func (w *Workflow) Candidate() string { return w.candidate }

// Outcome returns the self-reported outcome once resolved.
func (w *Workflow) Outcome() Outcome { return w.outcome }

// Submit normalizes and validates input. On a validation failure the
// machine stays Idle and the error carries the user-facing message. On
// success the machine advances to AwaitingConfirm.
func (w *Workflow) Submit(input string) error {
	if w.phase != PhaseIdle {
		return ErrPhase
	}
	v := Normalize(input)
	if err := Validate(v); err != nil {
		return err
	}
	w.candidate = v
	w.phase = PhaseAwaitingConfirm
	return nil
}

// Cancel abandons a pending confirmation and returns to Idle.
func (w *Workflow) Cancel() {
	w.phase = PhaseIdle
	w.candidate = ""
	w.outcome = 0
}

// Confirm records the check and opens the state site, in that order: the
// history entry must exist before navigation so a record survives even if
// the user never comes back. A record failure aborts without opening.
func (w *Workflow) Confirm() error {
	if w.phase != PhaseAwaitingConfirm {
		return ErrPhase
	}
	if err := w.record(w.candidate); err != nil {
		return fmt.Errorf("failed to record check: %w", err)
	}
	if err := w.open(LookupURL(w.candidate)); err != nil {
		// The record stands; the user can open the URL manually.
		w.phase = PhaseAwaitingResult
		return fmt.Errorf("failed to open lookup site: %w", err)
	}
	w.phase = PhaseAwaitingResult
	return nil
}

// Report accepts the user's self-reported outcome. Compliant simply
// acknowledges; Blocked is the caller's cue to route toward the tester
// locator. Neither mutates any stored record.
func (w *Workflow) Report(o Outcome) error {
	if w.phase != PhaseAwaitingResult {
		return ErrPhase
	}
	w.outcome = o
	w.phase = PhaseResolved
	return nil
}

// Acknowledge consumes a resolved outcome and returns the machine to Idle
// for the next check.
func (w *Workflow) Acknowledge() {
	if w.phase == PhaseResolved {
		w.Cancel()
	}
}
