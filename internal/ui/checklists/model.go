package checklists

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/obratrack/obratrack/internal/keys"
	"github.com/obratrack/obratrack/internal/model"
	"github.com/obratrack/obratrack/internal/store"
	"github.com/obratrack/obratrack/internal/theme"
)

// ChecklistsLoadedMsg is sent when checklists have been loaded from the store.
type ChecklistsLoadedMsg struct {
	Checklists []model.Checklist
}

// SelectedChecklistMsg is sent when a user opens a checklist.
type SelectedChecklistMsg struct {
	ChecklistID string
}

// statusCycle is the status filter sequence cycled by the status key.
var statusCycle = []string{
	"all",
	model.ChecklistStatusDraft,
	model.ChecklistStatusInProgress,
	model.ChecklistStatusPending,
	model.ChecklistStatusCompleted,
	model.ChecklistStatusCancelled,
}

// Model is the main checklist list view component.
type Model struct {
	list        list.Model
	store       store.Store
	keys        *keys.KeyMap
	filter      store.ChecklistFilter
	statusIndex int
	categories  []string
	catIndex    int
	sites       []model.Site
	siteIndex   int
	searchMode  bool
	searchInput textinput.Model
	width       int
	height      int
}

// New creates a new checklist list model. categories is the set of
// known checklist categories used by the category filter cycle.
func New(s store.Store, k *keys.KeyMap, categories []string, sites []model.Site, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Checklists"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.Styles.Title = theme.HeaderStyle

	si := textinput.New()
	si.Placeholder = "search checklists..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        l,
		store:       s,
		keys:        k,
		categories:  append([]string{"all"}, categories...),
		sites:       sites,
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the initial set of checklists.
func (m Model) Init() tea.Cmd {
	return m.LoadChecklists()
}

// Update handles messages for the checklist list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ChecklistsLoadedMsg:
		items := make([]list.Item, len(msg.Checklists))
		for i, c := range msg.Checklists {
			items[i] = ChecklistItem{Checklist: c}
		}
		cmd := m.list.SetItems(items)
		return m, cmd

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searchMode = false
		query := m.searchInput.Value()
		if query != "" {
			m.filter.Search = &query
		} else {
			m.filter.Search = nil
		}
		return m, m.LoadChecklists()

	case "esc":
		m.searchMode = false
		m.searchInput.Reset()
		m.filter.Search = nil
		return m, m.LoadChecklists()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		item, ok := m.list.SelectedItem().(ChecklistItem)
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedChecklistMsg{ChecklistID: item.Checklist.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.Reset()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.CycleStatus):
		m.statusIndex = (m.statusIndex + 1) % len(statusCycle)
		m.filter.Status = cycleValue(statusCycle[m.statusIndex])
		return m, m.LoadChecklists()

	case key.Matches(msg, m.keys.CycleCategory):
		if len(m.categories) > 0 {
			m.catIndex = (m.catIndex + 1) % len(m.categories)
			m.filter.Category = cycleValue(m.categories[m.catIndex])
		}
		return m, m.LoadChecklists()

	case key.Matches(msg, m.keys.CycleSite):
		// Index 0 means no site filter.
		m.siteIndex = (m.siteIndex + 1) % (len(m.sites) + 1)
		if m.siteIndex == 0 {
			m.filter.SiteID = nil
		} else {
			id := m.sites[m.siteIndex-1].ID
			m.filter.SiteID = &id
		}
		return m, m.LoadChecklists()
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// SetFilterOptions replaces the category and site cycles, resetting
// both dimensions to "all".
func (m *Model) SetFilterOptions(categories []string, sites []model.Site) {
	m.categories = append([]string{"all"}, categories...)
	m.catIndex = 0
	m.filter.Category = nil
	m.sites = sites
	m.siteIndex = 0
	m.filter.SiteID = nil
}

// cycleValue maps the "all" sentinel to a nil filter dimension.
func cycleValue(v string) *string {
	if v == "all" {
		return nil
	}
	return &v
}

// View renders the checklist list view.
func (m Model) View() string {
	if m.searchMode {
		searchBar := lipgloss.NewStyle().
			Foreground(theme.ColorWhite).
			Padding(0, 1).
			Render(m.searchInput.View())
		return lipgloss.JoinVertical(lipgloss.Left, searchBar, m.list.View())
	}

	if len(m.list.Items()) == 0 {
		return m.renderEmptyState()
	}

	return m.list.View()
}

// renderEmptyState shows guidance text when no checklists are available.
func (m Model) renderEmptyState() string {
	hasFilters := m.filter.Search != nil ||
		m.filter.Status != nil ||
		m.filter.Category != nil ||
		m.filter.SiteID != nil

	style := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	if hasFilters {
		return style.Render("No matching checklists.\nTry adjusting your filters.")
	}

	return style.Render(
		"No checklists yet.\n\n" +
			"Press 'n' to create one, or 't' to start from a template.",
	)
}

// LoadChecklists returns a tea.Cmd that queries the store with the
// current filter.
func (m Model) LoadChecklists() tea.Cmd {
	filter := m.filter
	s := m.store
	return func() tea.Msg {
		checklists, err := s.GetChecklists(context.Background(), filter)
		if err != nil {
			return ChecklistsLoadedMsg{Checklists: nil}
		}
		return ChecklistsLoadedMsg{Checklists: checklists}
	}
}

// SelectedID returns the ID of the currently highlighted checklist, or
// an empty string.
func (m Model) SelectedID() string {
	item, ok := m.list.SelectedItem().(ChecklistItem)
	if !ok {
		return ""
	}
	return item.Checklist.ID
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
	m.searchInput.Width = width - 4
}
