package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/obratrack/obratrack/internal/checklist"
	"github.com/obratrack/obratrack/internal/model"
	"github.com/obratrack/obratrack/internal/ui/signform"
)

// checklistLoadedMsg carries a loaded checklist document.
type checklistLoadedMsg struct {
	checklist *model.Checklist
	err       error
}

// opResultMsg is sent after an engine operation has been applied and
// the document persisted. On success status carries a short message for
// the status bar.
type opResultMsg struct {
	checklist *model.Checklist
	status    string
	err       error
}

// formOptionsLoadedMsg carries the reference data the creation form and
// the list filters need.
type formOptionsLoadedMsg struct {
	sites        []model.Site
	responsibles []model.Responsible
	templates    []model.ChecklistTemplate
	categories   []string
}

// loadChecklist returns a command that loads a checklist by ID.
func (m Model) loadChecklist(id string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		c, err := s.GetChecklistByID(context.Background(), id)
		return checklistLoadedMsg{checklist: c, err: err}
	}
}

// loadFormOptions loads sites, responsibles, templates, and the set of
// known categories.
func (m Model) loadFormOptions() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()

		sites, err := s.GetSites(ctx, false)
		if err != nil {
			return formOptionsLoadedMsg{}
		}
		responsibles, _ := s.GetResponsibles(ctx)
		templates, _ := s.GetTemplates(ctx)

		seen := make(map[string]bool)
		var categories []string
		for _, t := range templates {
			if t.Category != "" && !seen[t.Category] {
				seen[t.Category] = true
				categories = append(categories, t.Category)
			}
		}

		return formOptionsLoadedMsg{
			sites:        sites,
			responsibles: responsibles,
			templates:    templates,
			categories:   categories,
		}
	}
}

// createChecklist builds a new checklist from the form params and
// persists it. When TemplateID is set the items come from the template.
func (m Model) createChecklist(p checklist.NewChecklistParams) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		now := time.Now().UTC()

		p.ID = uuid.New().String()
		for i := range p.Items {
			p.Items[i].ID = uuid.New().String()
		}

		var (
			c   model.Checklist
			err error
		)
		if p.TemplateID != nil && len(p.Items) == 0 {
			tpl, tplErr := s.GetTemplateByID(ctx, *p.TemplateID)
			if tplErr != nil {
				return opResultMsg{err: tplErr}
			}
			c, err = checklist.FromTemplate(*tpl, p, now)
			if err == nil {
				for i := range c.Items {
					c.Items[i].ID = uuid.New().String()
					c.Items[i].ChecklistID = c.ID
				}
			}
		} else {
			c, err = checklist.New(p, now)
		}
		if err != nil {
			return opResultMsg{err: err}
		}

		if err := s.SaveChecklist(ctx, c); err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{checklist: &c, status: fmt.Sprintf("created %q", c.Title)}
	}
}

// mutateItem loads the checklist, applies the operation through the
// engine, and persists the whole document. The load-apply-save cycle
// keeps the persisted aggregates consistent with the item set.
func (m Model) mutateItem(checklistID, itemID string, op checklist.ItemOp, status string) tea.Cmd {
	s := m.store
	actor := m.actor
	return func() tea.Msg {
		ctx := context.Background()
		now := time.Now().UTC()

		c, err := s.GetChecklistByID(ctx, checklistID)
		if err != nil {
			return opResultMsg{err: err}
		}
		if err := checklist.ApplyItemMutation(c, itemID, op, actor, now); err != nil {
			return opResultMsg{checklist: c, err: err}
		}
		if err := s.SaveChecklist(ctx, *c); err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{checklist: c, status: status}
	}
}

// toggleItem flips an item's completion.
func (m Model) toggleItem(checklistID, itemID string) tea.Cmd {
	s := m.store
	actor := m.actor
	return func() tea.Msg {
		ctx := context.Background()
		now := time.Now().UTC()

		c, err := s.GetChecklistByID(ctx, checklistID)
		if err != nil {
			return opResultMsg{err: err}
		}

		completed := true
		for _, item := range c.Items {
			if item.ID == itemID {
				completed = item.Status != model.ItemStatusDone
				break
			}
		}

		op := checklist.SetCompleted{Completed: completed}
		if err := checklist.ApplyItemMutation(c, itemID, op, actor, now); err != nil {
			return opResultMsg{checklist: c, err: err}
		}
		if err := s.SaveChecklist(ctx, *c); err != nil {
			return opResultMsg{err: err}
		}

		status := fmt.Sprintf("progress %d%%", c.Progress.Percentage)
		return opResultMsg{checklist: c, status: status}
	}
}

// cycleItemStatus advances an item through the non-completion statuses:
// not started, in progress, not applicable.
func (m Model) cycleItemStatus(checklistID, itemID string) tea.Cmd {
	s := m.store
	actor := m.actor
	return func() tea.Msg {
		ctx := context.Background()
		now := time.Now().UTC()

		c, err := s.GetChecklistByID(ctx, checklistID)
		if err != nil {
			return opResultMsg{err: err}
		}

		next := model.ItemStatusInProgress
		for _, item := range c.Items {
			if item.ID != itemID {
				continue
			}
			switch item.Status {
			case model.ItemStatusNotStarted:
				next = model.ItemStatusInProgress
			case model.ItemStatusInProgress:
				next = model.ItemStatusNotApplicable
			default:
				next = model.ItemStatusNotStarted
			}
		}

		op := checklist.SetStatus{Status: next}
		if err := checklist.ApplyItemMutation(c, itemID, op, actor, now); err != nil {
			return opResultMsg{checklist: c, err: err}
		}
		if err := s.SaveChecklist(ctx, *c); err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{checklist: c, status: "marked " + next}
	}
}

// setObservation records observation text on an item.
func (m Model) setObservation(checklistID, itemID, text string) tea.Cmd {
	return m.mutateItem(checklistID, itemID,
		checklist.SetObservation{Text: text}, "observation saved")
}

// attachEvidence uploads a file into the vault and records the
// resulting reference on the item.
func (m Model) attachEvidence(checklistID, itemID, path string) tea.Cmd {
	s := m.store
	vault := m.vault
	actor := m.actor
	return func() tea.Msg {
		ctx := context.Background()
		now := time.Now().UTC()

		ref, err := vault.Upload(path, actor.Name, now)
		if err != nil {
			return opResultMsg{err: err}
		}

		c, err := s.GetChecklistByID(ctx, checklistID)
		if err != nil {
			return opResultMsg{err: err}
		}
		op := checklist.AddAttachment{Ref: ref}
		if err := checklist.ApplyItemMutation(c, itemID, op, actor, now); err != nil {
			return opResultMsg{checklist: c, err: err}
		}
		if err := s.SaveChecklist(ctx, *c); err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{checklist: c, status: "attached " + ref.FileName}
	}
}

// signChecklist runs the signature gate and persists the sign-off.
func (m Model) signChecklist(msg signform.SignSubmittedMsg) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		now := time.Now().UTC()

		c, err := s.GetChecklistByID(ctx, msg.ChecklistID)
		if err != nil {
			return opResultMsg{err: err}
		}
		if err := checklist.Sign(c, msg.Signer, msg.Blob, now); err != nil {
			return opResultMsg{checklist: c, err: err}
		}
		if err := s.SaveChecklist(ctx, *c); err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{checklist: c, status: "signed off by " + msg.Signer.Name}
	}
}

// togglePending blocks an in-progress checklist or resumes a pending one.
func (m Model) togglePending(checklistID string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		now := time.Now().UTC()

		c, err := s.GetChecklistByID(ctx, checklistID)
		if err != nil {
			return opResultMsg{err: err}
		}

		var status string
		if c.Status == model.ChecklistStatusPending {
			err = checklist.Resume(c, now)
			status = "resumed"
		} else {
			err = checklist.MarkPending(c, now)
			status = "marked pending"
		}
		if err != nil {
			return opResultMsg{checklist: c, err: err}
		}
		if err := s.SaveChecklist(ctx, *c); err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{checklist: c, status: status}
	}
}

// cancelChecklist moves a checklist to its terminal cancelled state.
func (m Model) cancelChecklist(checklistID string) tea.Cmd {
	s := m.store
	return func() tea.Msg {
		ctx := context.Background()
		now := time.Now().UTC()

		c, err := s.GetChecklistByID(ctx, checklistID)
		if err != nil {
			return opResultMsg{err: err}
		}
		if err := checklist.Cancel(c, now); err != nil {
			return opResultMsg{checklist: c, err: err}
		}
		if err := s.SaveChecklist(ctx, *c); err != nil {
			return opResultMsg{err: err}
		}
		return opResultMsg{checklist: c, status: "cancelled"}
	}
}

// friendlyError maps the engine's typed errors to short status-bar
// messages.
func friendlyError(err error) string {
	var notReady *checklist.NotReadyError
	if errors.As(err, &notReady) {
		if len(notReady.UnresolvedItemIDs) > 0 {
			return fmt.Sprintf("cannot sign: %d obligatory item(s) unresolved (%d%%)",
				len(notReady.UnresolvedItemIDs), notReady.Percentage)
		}
		return fmt.Sprintf("cannot sign: checklist at %d%%", notReady.Percentage)
	}

	var attach *checklist.AttachmentRequiredError
	if errors.As(err, &attach) {
		return fmt.Sprintf("%q needs evidence before completion", attach.ItemTitle)
	}

	var locked *checklist.ChecklistLockedError
	if errors.As(err, &locked) {
		return fmt.Sprintf("checklist is %s and can no longer change", locked.Status)
	}

	var signed *checklist.AlreadySignedError
	if errors.As(err, &signed) {
		return fmt.Sprintf("already signed on %s", signed.SignedAt.Format("2006-01-02"))
	}

	if checklist.IsNotFound(err) {
		return err.Error()
	}

	return "error: " + err.Error()
}
