package app

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/obratrack/obratrack/internal/checklist"
	"github.com/obratrack/obratrack/internal/evidence"
	"github.com/obratrack/obratrack/internal/model"
	"github.com/obratrack/obratrack/internal/store"
	"github.com/obratrack/obratrack/internal/theme"
	"github.com/obratrack/obratrack/internal/ui"
	"github.com/obratrack/obratrack/internal/ui/checklistform"
	"github.com/obratrack/obratrack/internal/ui/checklists"
	"github.com/obratrack/obratrack/internal/ui/detail"
	helpview "github.com/obratrack/obratrack/internal/ui/help"
	"github.com/obratrack/obratrack/internal/ui/signform"
	"github.com/obratrack/obratrack/internal/watch"
)

// unreadCountMsg carries the number of unread notifications to the UI.
type unreadCountMsg struct {
	count int
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewCreate
	ViewSign
	ViewHelp
	ViewPrompt
)

// promptKind determines what the inline prompt input is collecting.
type promptKind int

const (
	promptObservation promptKind = iota
	promptAttachPath
)

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the persistence layer.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	store        store.Store
	vault        *evidence.Vault
	actor        model.Actor
	keys         *KeyMap

	listView checklists.Model
	detail   detail.Model
	helpView helpview.Model
	formView checklistform.Model
	signView signform.Model

	// Inline prompt (observation text / evidence file path).
	promptInput  textinput.Model
	promptFor    promptKind
	promptTarget detail.ItemActionMsg

	watcher       *watch.Watcher
	current       *model.Checklist
	ready         bool
	unreadCount   int
	statusMessage string
}

// New creates the root application model.
func New(s store.Store, vault *evidence.Vault, actor model.Actor, watcher *watch.Watcher) Model {
	keys := DefaultKeyMap()

	pi := textinput.New()
	pi.Prompt = "> "

	return Model{
		currentView: ViewList,
		store:       s,
		vault:       vault,
		actor:       actor,
		keys:        keys,
		listView:    checklists.New(s, keys, nil, nil, 80, 24),
		detail:      detail.New(keys, 80, 24),
		helpView:    helpview.New(keys, 80, 24),
		formView:    checklistform.New(80, 24),
		signView:    signform.New(80, 24),
		promptInput: pi,
		watcher:     watcher,
	}
}

// Init loads the checklist list, refreshes form options, and starts the
// due-date watcher.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		m.listView.Init(),
		m.loadFormOptions(),
		m.fetchUnreadCount(),
	}
	if m.watcher != nil {
		cmds = append(cmds, m.watcher.Start())
	}
	return tea.Batch(cmds...)
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.listView.SetSize(contentWidth, contentHeight)
		m.detail.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		m.formView.SetSize(contentWidth, contentHeight)
		m.signView.SetSize(contentWidth, contentHeight)
		m.promptInput.Width = contentWidth - 4
		return m.updateActiveView(msg)

	case watch.ScanResultMsg:
		var cmds []tea.Cmd
		if msg.Error == nil && len(msg.Created) > 0 {
			cmds = append(cmds, m.fetchUnreadCount())
		}
		if m.watcher != nil {
			cmds = append(cmds, m.watcher.WaitForNextResult())
		}
		return m, tea.Batch(cmds...)

	case unreadCountMsg:
		m.unreadCount = msg.count
		return m, nil

	case formOptionsLoadedMsg:
		m.formView.SetOptions(msg.sites, msg.responsibles, msg.templates)
		m.listView.SetFilterOptions(msg.categories, msg.sites)
		return m, m.listView.LoadChecklists()

	case checklists.SelectedChecklistMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		return m, m.loadChecklist(msg.ChecklistID)

	case checklistLoadedMsg:
		if msg.err != nil {
			m.statusMessage = friendlyError(msg.err)
			m.currentView = ViewList
			return m, nil
		}
		m.current = msg.checklist
		m.detail.SetChecklist(msg.checklist)
		return m, nil

	case checklistform.ChecklistCreatedMsg:
		m.currentView = ViewList
		return m, m.createChecklist(msg.Params)

	case checklistform.FormCancelMsg:
		m.currentView = ViewList
		return m, nil

	case detail.BackMsg:
		m.currentView = ViewList
		m.statusMessage = ""
		return m, m.listView.LoadChecklists()

	case detail.ItemActionMsg:
		return m.handleItemAction(msg)

	case detail.ChecklistActionMsg:
		return m.handleChecklistAction(msg)

	case signform.SignSubmittedMsg:
		m.currentView = ViewDetail
		return m, m.signChecklist(msg)

	case signform.SignCancelMsg:
		m.currentView = ViewDetail
		return m, nil

	case opResultMsg:
		if msg.err != nil {
			m.statusMessage = friendlyError(msg.err)
			return m, nil
		}
		m.statusMessage = msg.status
		m.current = msg.checklist
		m.detail.SetChecklist(msg.checklist)
		return m, m.listView.LoadChecklists()

	case tea.KeyMsg:
		if m.currentView == ViewPrompt {
			return m.handlePromptKeys(msg)
		}

		switch msg.String() {
		case "ctrl+c":
			if m.watcher != nil {
				m.watcher.Stop()
			}
			return m, tea.Quit

		case "q":
			if m.currentView == ViewList {
				if m.watcher != nil {
					m.watcher.Stop()
				}
				return m, tea.Quit
			}

		case "?":
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			if m.currentView == ViewList || m.currentView == ViewDetail {
				m.previousView = m.currentView
				m.currentView = ViewHelp
				return m, nil
			}

		case "r":
			if m.currentView == ViewList {
				var cmds []tea.Cmd
				if m.watcher != nil {
					cmds = append(cmds, m.watcher.Refresh())
				}
				cmds = append(cmds, m.listView.LoadChecklists(), m.fetchUnreadCount())
				return m, tea.Batch(cmds...)
			}

		case "n":
			if m.currentView == ViewList {
				m.previousView = m.currentView
				m.currentView = ViewCreate
				return m, m.formView.StartCreate()
			}

		case "t":
			if m.currentView == ViewList {
				m.previousView = m.currentView
				m.currentView = ViewCreate
				return m, m.formView.StartFromTemplate()
			}
		}
	}

	return m.updateActiveView(msg)
}

// handleItemAction routes an item-level action from the detail view.
// Toggle and status cycling run directly; observation and attach first
// collect input through the inline prompt.
func (m Model) handleItemAction(msg detail.ItemActionMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case "toggle":
		return m, m.toggleItem(msg.ChecklistID, msg.ItemID)

	case "status":
		return m, m.cycleItemStatus(msg.ChecklistID, msg.ItemID)

	case "observation":
		m.previousView = m.currentView
		m.currentView = ViewPrompt
		m.promptFor = promptObservation
		m.promptTarget = msg
		m.promptInput.Placeholder = "observation..."
		m.promptInput.SetValue(m.currentObservation(msg.ItemID))
		return m, m.promptInput.Focus()

	case "attach":
		m.previousView = m.currentView
		m.currentView = ViewPrompt
		m.promptFor = promptAttachPath
		m.promptTarget = msg
		m.promptInput.Placeholder = "path to evidence file..."
		m.promptInput.SetValue("")
		return m, m.promptInput.Focus()
	}
	return m, nil
}

// handleChecklistAction routes a checklist-level action from the detail
// view.
func (m Model) handleChecklistAction(msg detail.ChecklistActionMsg) (tea.Model, tea.Cmd) {
	switch msg.Action {
	case "sign":
		if m.current != nil {
			if m.current.Signature != nil {
				m.statusMessage = "already signed"
				return m, nil
			}
			if !checklist.ReadyForSignature(m.current.Items) {
				m.statusMessage = fmt.Sprintf("not ready to sign: %d%%, obligatory items must be resolved",
					m.current.Progress.Percentage)
				return m, nil
			}
		}
		m.previousView = m.currentView
		m.currentView = ViewSign
		return m, m.signView.Start(msg.ChecklistID, m.actor)

	case "block":
		return m, m.togglePending(msg.ChecklistID)

	case "cancel":
		return m, m.cancelChecklist(msg.ChecklistID)
	}
	return m, nil
}

// handlePromptKeys processes input while the inline prompt is active.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.currentView = m.previousView
		value := m.promptInput.Value()
		m.promptInput.Reset()
		target := m.promptTarget
		if m.promptFor == promptObservation {
			return m, m.setObservation(target.ChecklistID, target.ItemID, value)
		}
		if value == "" {
			return m, nil
		}
		return m, m.attachEvidence(target.ChecklistID, target.ItemID, value)

	case "esc":
		m.currentView = m.previousView
		m.promptInput.Reset()
		return m, nil
	}

	var cmd tea.Cmd
	m.promptInput, cmd = m.promptInput.Update(msg)
	return m, cmd
}

// currentObservation returns the existing observation text of an item
// on the open checklist, for prompt pre-fill.
func (m Model) currentObservation(itemID string) string {
	if m.current == nil {
		return ""
	}
	for _, item := range m.current.Items {
		if item.ID == itemID {
			return item.Observations
		}
	}
	return ""
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.listView, cmd = m.listView.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewCreate:
		m.formView, cmd = m.formView.Update(msg)
	case ViewSign:
		m.signView, cmd = m.signView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	headerTitle := "ObraTrack"
	if m.unreadCount > 0 {
		headerTitle = fmt.Sprintf("ObraTrack [%d due]", m.unreadCount)
	}
	header := m.layout.RenderHeader(headerTitle, "")
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewList:
		return m.listView.View()
	case ViewDetail:
		return m.detail.View()
	case ViewCreate:
		return m.formView.View()
	case ViewSign:
		return m.signView.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewPrompt:
		title := "Observation"
		if m.promptFor == promptAttachPath {
			title = "Attach Evidence"
		}
		titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
		return lipgloss.NewStyle().Padding(1, 2).Render(
			titleStyle.Render(title) + "\n\n" + m.promptInput.View())
	default:
		return ""
	}
}

// keyHints returns keyboard shortcut hints for the status bar. A status
// message from the last operation takes precedence.
func (m Model) keyHints() string {
	if m.statusMessage != "" && (m.currentView == ViewList || m.currentView == ViewDetail) {
		return m.statusMessage
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewDetail:
		return "space toggle | o observation | a attach | m status | s sign | b block | x cancel | esc back"
	case ViewCreate:
		return "enter submit | esc cancel"
	case ViewSign:
		return "enter confirm | esc cancel"
	case ViewPrompt:
		return "enter confirm | esc cancel"
	default:
		return "q quit | ? help | n new | t template | / search | 1 status | 2 category | 3 site"
	}
}

// fetchUnreadCount returns a tea.Cmd that queries the store for the
// number of unread notifications.
func (m Model) fetchUnreadCount() tea.Cmd {
	s := m.store
	return func() tea.Msg {
		notifications, err := s.GetUnreadNotifications(context.Background())
		if err != nil {
			return unreadCountMsg{count: 0}
		}
		return unreadCountMsg{count: len(notifications)}
	}
}
