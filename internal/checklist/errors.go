// Package checklist implements the checklist completion and sign-off
// engine: the per-item state machine, progress aggregation, the signature
// gate, and checklist-level orchestration. The package is free of I/O;
// timestamps and actors are explicit parameters so every operation is
// deterministic and testable without a clock or a network.
package checklist

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// NotFoundError indicates an unknown checklist or item id.
type NotFoundError struct {
	Kind string // "checklist" or "item"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// IsNotFound reports whether err (or any error in its chain) is a NotFoundError.
func IsNotFound(err error) bool {
	var target *NotFoundError
	return errors.As(err, &target)
}

// ChecklistLockedError indicates a mutation attempted on a checklist in a
// terminal state (completed or cancelled).
type ChecklistLockedError struct {
	ChecklistID string
	Status      string
}

func (e *ChecklistLockedError) Error() string {
	return fmt.Sprintf("checklist %s is %s and can no longer be modified", e.ChecklistID, e.Status)
}

// IsLocked reports whether err is a ChecklistLockedError.
func IsLocked(err error) bool {
	var target *ChecklistLockedError
	return errors.As(err, &target)
}

// AttachmentRequiredError indicates an attempt to complete an item that
// requires evidence while no attachment is recorded.
type AttachmentRequiredError struct {
	ItemID    string
	ItemTitle string
}

func (e *AttachmentRequiredError) Error() string {
	return fmt.Sprintf("item %s requires at least one attachment before completion", e.ItemID)
}

// IsAttachmentRequired reports whether err is an AttachmentRequiredError.
func IsAttachmentRequired(err error) bool {
	var target *AttachmentRequiredError
	return errors.As(err, &target)
}

// NotReadyError indicates a signature attempt before the checklist met its
// completion preconditions. UnresolvedItemIDs lists every obligatory item
// that is neither done nor not applicable, so callers can surface
// actionable feedback.
type NotReadyError struct {
	ChecklistID       string
	Status            string
	Percentage        int
	UnresolvedItemIDs []string
}

func (e *NotReadyError) Error() string {
	if len(e.UnresolvedItemIDs) > 0 {
		return fmt.Sprintf(
			"checklist %s is not ready for signature (%d%%, unresolved obligatory items: %s)",
			e.ChecklistID, e.Percentage, strings.Join(e.UnresolvedItemIDs, ", "),
		)
	}
	return fmt.Sprintf("checklist %s is not ready for signature (%d%%, status %s)",
		e.ChecklistID, e.Percentage, e.Status)
}

// IsNotReady reports whether err is a NotReadyError.
func IsNotReady(err error) bool {
	var target *NotReadyError
	return errors.As(err, &target)
}

// AlreadySignedError indicates a duplicate signature attempt. Signing is
// idempotent-refusing: the first signature is never overwritten.
type AlreadySignedError struct {
	ChecklistID string
	SignedAt    time.Time
}

func (e *AlreadySignedError) Error() string {
	return fmt.Sprintf("checklist %s was already signed at %s",
		e.ChecklistID, e.SignedAt.Format(time.RFC3339))
}

// IsAlreadySigned reports whether err is an AlreadySignedError.
func IsAlreadySigned(err error) bool {
	var target *AlreadySignedError
	return errors.As(err, &target)
}
