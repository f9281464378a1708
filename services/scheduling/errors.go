package scheduling

import (
	"fmt"

	"recruitd/models"
)

// NotFoundError is returned when a schedule id matches nothing.
type NotFoundError struct {
	ID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("interview schedule %s not found", e.ID)
}

// InvalidStateError is returned when an operation targets a schedule whose
// status no longer permits it.
type InvalidStateError struct {
	ID     string
	Status models.ScheduleStatus
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("interview schedule %s is %s and cannot be modified", e.ID, e.Status)
}

// ValidationError is returned when request input fails a precondition.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
