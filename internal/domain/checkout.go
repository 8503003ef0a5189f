package domain

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

type CheckoutState string

const (
	CheckoutStarted      CheckoutState = "STARTED"
	CheckoutDecrementing CheckoutState = "DECREMENTING"
	CheckoutCommitting   CheckoutState = "COMMITTING"
	CheckoutCommitted    CheckoutState = "COMMITTED"

	CheckoutAbortedEmpty           CheckoutState = "ABORTED_EMPTY"
	CheckoutAbortedStock           CheckoutState = "ABORTED_STOCK"
	CheckoutAbortedUnknownCustomer CheckoutState = "ABORTED_UNKNOWN_CUSTOMER"
	CheckoutAbortedPersistence     CheckoutState = "ABORTED_PERSISTENCE"
)

var forwardTransitions = map[CheckoutState]CheckoutState{
	CheckoutStarted:      CheckoutDecrementing,
	CheckoutDecrementing: CheckoutCommitting,
	CheckoutCommitting:   CheckoutCommitted,
}

func (s CheckoutState) IsTerminal() bool {
	return s == CheckoutCommitted || s.IsAborted()
}

func (s CheckoutState) IsAborted() bool {
	switch s {
	case CheckoutAbortedEmpty, CheckoutAbortedStock, CheckoutAbortedUnknownCustomer, CheckoutAbortedPersistence:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether a checkout attempt may move from s to next.
// Forward moves follow STARTED, DECREMENTING, COMMITTING, COMMITTED.
// Any non-terminal state may abort.
func (s CheckoutState) CanTransitionTo(next CheckoutState) bool {
	if s.IsTerminal() {
		return false
	}
	if next.IsAborted() {
		return true
	}
	return forwardTransitions[s] == next
}

type IllegalTransitionError struct {
	From CheckoutState
	To   CheckoutState
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal checkout transition %s -> %s", e.From, e.To)
}

// CheckoutError is returned for every aborted checkout. Err is the cause.
type CheckoutError struct {
	State     CheckoutState
	AttemptID uuid.UUID
	Err       error
}

func (e *CheckoutError) Error() string {
	return fmt.Sprintf("checkout %s: %v", e.State, e.Err)
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

// CheckoutStateOf returns the abort state carried by err, or "" if err is not a checkout error.
func CheckoutStateOf(err error) CheckoutState {
	var ce *CheckoutError
	if errors.As(err, &ce) {
		return ce.State
	}
	return ""
}
