package checklist

import (
	"fmt"
	"time"

	"github.com/obratrack/obratrack/internal/model"
)

// ItemOp is a closed union of item operations. Every variant is applied
// through applyItemOp, which guarantees the orchestrator recomputes
// aggregates after each dispatch.
type ItemOp interface {
	isItemOp()
}

// SetCompleted transitions an item to done (Completed true) or back to
// not started (Completed false, the correction path). Completing an item
// that requires evidence fails unless at least one attachment is recorded.
type SetCompleted struct {
	Completed bool
}

// SetObservation replaces the item's free-text observations.
type SetObservation struct {
	Text string
}

// AddAttachment appends an evidence reference to the item. The item's
// status is unchanged; the operator still has to complete it explicitly.
type AddAttachment struct {
	Ref model.Attachment
}

// SetStatus moves an item between the non-done states: not started,
// in progress, and not applicable. Done is only reachable through
// SetCompleted so that completion metadata is always captured.
type SetStatus struct {
	Status string
}

func (SetCompleted) isItemOp()   {}
func (SetObservation) isItemOp() {}
func (AddAttachment) isItemOp()  {}
func (SetStatus) isItemOp()      {}

// applyItemOp applies a single operation to the item in place. The caller
// passes a copy and commits it only on success, keeping every call
// all-or-nothing.
func applyItemOp(item *model.ChecklistItem, op ItemOp, actor model.Actor, now time.Time) error {
	switch op := op.(type) {
	case SetCompleted:
		return applySetCompleted(item, op.Completed, actor, now)

	case SetObservation:
		item.Observations = op.Text
		return nil

	case AddAttachment:
		// Copy-on-append so the caller's pre-mutation snapshot stays intact.
		item.Attachments = append(append([]model.Attachment(nil), item.Attachments...), op.Ref)
		return nil

	case SetStatus:
		return applySetStatus(item, op.Status)

	default:
		panic(fmt.Sprintf("checklist: unhandled item operation %T", op))
	}
}

func applySetCompleted(item *model.ChecklistItem, completed bool, actor model.Actor, now time.Time) error {
	if !completed {
		item.Status = model.ItemStatusNotStarted
		item.CompletedAt = nil
		item.CompletedBy = ""
		return nil
	}

	if item.RequiresAttachment && len(item.Attachments) == 0 {
		return &AttachmentRequiredError{ItemID: item.ID, ItemTitle: item.Title}
	}

	item.Status = model.ItemStatusDone
	t := now
	item.CompletedAt = &t
	item.CompletedBy = actor.Name
	return nil
}

func applySetStatus(item *model.ChecklistItem, status string) error {
	switch status {
	case model.ItemStatusNotStarted, model.ItemStatusInProgress, model.ItemStatusNotApplicable:
	case model.ItemStatusDone:
		return fmt.Errorf("item %s: done is only reachable through completion", item.ID)
	default:
		return fmt.Errorf("item %s: unknown status %q", item.ID, status)
	}

	// Done is terminal for status changes; the only way out is the
	// explicit un-complete correction.
	if item.Status == model.ItemStatusDone && status != model.ItemStatusNotStarted {
		return fmt.Errorf("item %s: cannot move a completed item to %s", item.ID, status)
	}

	item.Status = status
	if status != model.ItemStatusDone {
		item.CompletedAt = nil
		item.CompletedBy = ""
	}
	return nil
}
