package negotiation

import (
	"fmt"

	"recruitd/models"
)

// NotFoundError reports a missing negotiation, round or submission.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// InvalidStateError reports an operation attempted on a terminal negotiation.
type InvalidStateError struct {
	ID     string
	Status models.NegotiationStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("negotiation %s is %s and accepts no further operations", e.ID, e.Status)
}

// RoundLimitError reports the round cap being hit.
type RoundLimitError struct {
	ID        string
	MaxRounds int
}

func (e *RoundLimitError) Error() string {
	return fmt.Sprintf("maximum negotiation rounds (%d) reached for negotiation %s", e.MaxRounds, e.ID)
}

// ValidationError reports malformed input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ConflictError reports a concurrent mutation losing the version check.
type ConflictError struct {
	ID string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("negotiation %s was modified concurrently, retry the operation", e.ID)
}
