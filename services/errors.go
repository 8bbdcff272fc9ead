package services

import (
	"fmt"

	"blindspot-api/models"
)

// ValidationError rejects malformed input before any mutation. Message
// identifies the offending field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NotFoundError marks a referenced entity as absent.
type NotFoundError struct {
	Entity string
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// StateError rejects a status transition attempted from the wrong
// predecessor state. The message names the required state.
type StateError struct {
	Target   models.IssueStatus
	Required models.IssueStatus
	Current  models.IssueStatus
}

func (e *StateError) Error() string {
	return fmt.Sprintf("cannot move issue to %s: issue must be %s, currently %s",
		e.Target, e.Required, e.Current)
}

// AuthorizationError rejects an authority-side operation by an account that
// is unlinked, inactive, or linked to a different authority. Distinct from
// StateError so callers can map it to a different outcome.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return "not authorized: " + e.Reason
}
