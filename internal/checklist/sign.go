package checklist

import (
	"fmt"
	"time"

	"github.com/obratrack/obratrack/internal/model"
)

// Sign validates the completion preconditions and attaches a signature
// record, transitioning the checklist into its terminal completed state.
//
// The signature blob is produced by an external capture collaborator; the
// gate only validates presence and timing and treats it as opaque bytes.
// Validation happens fully before any mutation, so a failed call leaves
// the checklist untouched.
func Sign(c *model.Checklist, signer model.Actor, blob []byte, now time.Time) error {
	if c.Signature != nil {
		return &AlreadySignedError{ChecklistID: c.ID, SignedAt: c.Signature.SignedAt}
	}
	if len(blob) == 0 {
		return fmt.Errorf("checklist %s: signature data must not be empty", c.ID)
	}

	progress := Compute(c.Items)
	if c.Status != model.ChecklistStatusInProgress || !ReadyForSignature(c.Items) {
		return &NotReadyError{
			ChecklistID:       c.ID,
			Status:            c.Status,
			Percentage:        progress.Percentage,
			UnresolvedItemIDs: UnresolvedObligatory(c.Items),
		}
	}

	c.Signature = &model.Signature{
		SignerName:  signer.Name,
		SignerEmail: signer.Email,
		SignedAt:    now,
		Data:        append([]byte(nil), blob...),
	}
	c.Status = model.ChecklistStatusCompleted
	t := now
	c.CompletedAt = &t
	c.Progress = progress
	return nil
}
