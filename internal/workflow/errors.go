package workflow

import (
	"fmt"

	"github.com/google/uuid"
)

// Every engine command fails with one of the typed errors below. They carry
// enough context (entity id, offending field) for the presentation layer to
// render a message; none of them is retried by the engine itself because
// identical input fails identically.

// InvalidSerialNumberError reports a serial number that is not exactly 13
// decimal digits.
type InvalidSerialNumberError struct {
	SerialNumber string
}

func (e *InvalidSerialNumberError) Error() string {
	return fmt.Sprintf("invalid serial number %q: must be exactly 13 decimal digits", e.SerialNumber)
}

// InvalidTransitionError reports a status change whose target is not
// reachable from the product's current status.
type InvalidTransitionError struct {
	ProductID  uuid.UUID
	FromStatus string
	ToStatus   string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("product %s: no transition from status %q to %q", e.ProductID, e.FromStatus, e.ToStatus)
}

// IncompleteTasksError reports a status change blocked by active task
// instances whose templates cannot be skipped.
type IncompleteTasksError struct {
	ProductID    uuid.UUID
	BlockedCount int
}

func (e *IncompleteTasksError) Error() string {
	return fmt.Sprintf("product %s: %d unskippable task(s) still active", e.ProductID, e.BlockedCount)
}

// AlreadyFinalizedError reports an attempt to complete or skip a task
// instance that was already completed or skipped.
type AlreadyFinalizedError struct {
	ProductTaskID uuid.UUID
}

func (e *AlreadyFinalizedError) Error() string {
	return fmt.Sprintf("product task %s is already completed or skipped", e.ProductTaskID)
}

// NotSkippableError reports a skip on a task whose template forbids it.
type NotSkippableError struct {
	ProductTaskID uuid.UUID
	TaskAction    string
}

func (e *NotSkippableError) Error() string {
	return fmt.Sprintf("task %q (instance %s) cannot be skipped", e.TaskAction, e.ProductTaskID)
}

// LocationOccupiedError reports a location already held by another
// non-removed product.
type LocationOccupiedError struct {
	Rack  string
	Layer int
	Space int
}

func (e *LocationOccupiedError) Error() string {
	return fmt.Sprintf("location rack %s layer %d space %d is already occupied", e.Rack, e.Layer, e.Space)
}

// PositionConflictError reports a template insert at a position at or before
// work a product has already finalized.
type PositionConflictError struct {
	StatusID       uuid.UUID
	Position       int
	FinalizedCount int
}

func (e *PositionConflictError) Error() string {
	return fmt.Sprintf("cannot insert at position %d: %d task(s) already finalized for the consuming product", e.Position, e.FinalizedCount)
}

// NotFoundError reports a missing referenced entity.
type NotFoundError struct {
	Entity string
	Key    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Entity, e.Key)
}

// ValidationError reports a field-level input violation not covered by a
// more specific error kind.
type ValidationError struct {
	Field string
	Value string
	Rule  string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Rule)
}
