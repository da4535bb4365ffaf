package checklist

import "github.com/obratrack/obratrack/internal/model"

// Compute derives checklist progress from the item set. Both done and
// not applicable items count as resolved. The percentage uses
// round-half-up in integer arithmetic so exact halves never drift.
func Compute(items []model.ChecklistItem) model.Progress {
	total := len(items)
	completed := 0
	for _, item := range items {
		if item.Resolved() {
			completed++
		}
	}

	percentage := 0
	if total > 0 {
		percentage = (200*completed + total) / (2 * total)
	}

	return model.Progress{
		Total:      total,
		Completed:  completed,
		Percentage: percentage,
	}
}

// UnresolvedObligatory returns the ids of obligatory items that are
// neither done nor not applicable, in item order.
func UnresolvedObligatory(items []model.ChecklistItem) []string {
	var ids []string
	for _, item := range items {
		if item.Obligatory && !item.Resolved() {
			ids = append(ids, item.ID)
		}
	}
	return ids
}

// ReadyForSignature reports whether the item set meets both completion
// preconditions: 100% progress and every obligatory item resolved. The
// conditions are checked independently; the obligatory check is the
// binding contract even while the percentage formula makes it redundant.
func ReadyForSignature(items []model.ChecklistItem) bool {
	if Compute(items).Percentage != 100 {
		return false
	}
	return len(UnresolvedObligatory(items)) == 0
}
