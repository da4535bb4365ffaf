package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/obratrack/obratrack/internal/keys"
	"github.com/obratrack/obratrack/internal/model"
	"github.com/obratrack/obratrack/internal/theme"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// ItemActionMsg signals the parent to execute an operation on the
// highlighted item of the current checklist.
type ItemActionMsg struct {
	Action      string
	ChecklistID string
	ItemID      string
}

// ChecklistActionMsg signals the parent to execute a checklist-level
// operation (sign, block, resume, cancel).
type ChecklistActionMsg struct {
	Action      string
	ChecklistID string
}

// Model is the checklist detail view: the item list with a cursor plus
// the header and signature block.
type Model struct {
	checklist *model.Checklist
	cursor    int
	viewport  viewport.Model
	keys      *keys.KeyMap
	width     int
	height    int
}

// New creates a new detail view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command for the detail view.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetChecklist replaces the displayed checklist and re-renders,
// keeping the cursor on the same position when possible.
func (m *Model) SetChecklist(c *model.Checklist) {
	m.checklist = c
	if c != nil && m.cursor >= len(c.Items) {
		m.cursor = len(c.Items) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.viewport.SetContent(m.renderContent())
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}

	if m.checklist == nil {
		if key.Matches(keyMsg, m.keys.Back) {
			return m, func() tea.Msg { return BackMsg{} }
		}
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Back):
		return m, func() tea.Msg { return BackMsg{} }

	case key.Matches(keyMsg, m.keys.Down):
		if m.cursor < len(m.checklist.Items)-1 {
			m.cursor++
			m.viewport.SetContent(m.renderContent())
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
			m.viewport.SetContent(m.renderContent())
		}
		return m, nil

	case key.Matches(keyMsg, m.keys.Toggle):
		return m, m.itemAction("toggle")

	case key.Matches(keyMsg, m.keys.Observation):
		return m, m.itemAction("observation")

	case key.Matches(keyMsg, m.keys.Attach):
		return m, m.itemAction("attach")

	case key.Matches(keyMsg, m.keys.SetStatus):
		return m, m.itemAction("status")

	case key.Matches(keyMsg, m.keys.Sign):
		return m, m.checklistAction("sign")

	case key.Matches(keyMsg, m.keys.Block):
		return m, m.checklistAction("block")

	case key.Matches(keyMsg, m.keys.Cancel):
		return m, m.checklistAction("cancel")
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(keyMsg)
	return m, cmd
}

func (m Model) itemAction(action string) tea.Cmd {
	if m.cursor >= len(m.checklist.Items) {
		return nil
	}
	msg := ItemActionMsg{
		Action:      action,
		ChecklistID: m.checklist.ID,
		ItemID:      m.checklist.Items[m.cursor].ID,
	}
	return func() tea.Msg { return msg }
}

func (m Model) checklistAction(action string) tea.Cmd {
	msg := ChecklistActionMsg{
		Action:      action,
		ChecklistID: m.checklist.ID,
	}
	return func() tea.Msg { return msg }
}

// View renders the detail view.
func (m Model) View() string {
	if m.checklist == nil {
		emptyStyle := lipgloss.NewStyle().
			Width(m.width).
			Height(m.height).
			Align(lipgloss.Center, lipgloss.Center).
			Foreground(theme.ColorGray)
		return emptyStyle.Render("No checklist selected")
	}

	return m.viewport.View()
}

// renderContent builds the full detail content for the viewport.
func (m Model) renderContent() string {
	c := m.checklist
	if c == nil {
		return ""
	}

	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(c.Title))

	statusBadge := theme.StatusStyle(c.Status).Render(c.Status)
	progressBadge := theme.ProgressStyle(c.Progress.Percentage).Render(
		fmt.Sprintf("%d/%d done (%d%%)",
			c.Progress.Completed, c.Progress.Total, c.Progress.Percentage))
	sections = append(sections, lipgloss.JoinHorizontal(
		lipgloss.Top, statusBadge, "  ", progressBadge))
	sections = append(sections, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)

	sections = append(sections, fmt.Sprintf("%s        %s",
		metaStyle.Render("Site:"), valStyle.Render(c.SiteName)))
	sections = append(sections, fmt.Sprintf("%s %s",
		metaStyle.Render("Responsible:"), valStyle.Render(c.ResponsibleName)))
	if c.Category != "" {
		sections = append(sections, fmt.Sprintf("%s    %s",
			metaStyle.Render("Category:"), valStyle.Render(c.Category)))
	}
	if c.DueDate != nil {
		sections = append(sections, fmt.Sprintf("%s         %s",
			metaStyle.Render("Due:"), valStyle.Render(c.DueDate.Format("2006-01-02"))))
	}

	sepStyle := lipgloss.NewStyle().Foreground(theme.ColorSubtle)
	separator := sepStyle.Render(strings.Repeat("─", min(m.width-4, 80)))
	sections = append(sections, "", separator, "")

	for i, item := range c.Items {
		sections = append(sections, m.renderItem(i, item))
		if item.Observations != "" {
			obs := lipgloss.NewStyle().
				Foreground(theme.ColorGray).
				Italic(true).
				PaddingLeft(6).
				Render(item.Observations)
			sections = append(sections, obs)
		}
	}

	if c.Signature != nil {
		sections = append(sections, "", separator, "")
		sections = append(sections, theme.SignedBadgeStyle.Render(
			fmt.Sprintf("✓ Signed off by %s on %s",
				c.Signature.SignerName,
				c.Signature.SignedAt.Format("2006-01-02 15:04"))))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderItem draws a single checklist item row.
func (m Model) renderItem(index int, item model.ChecklistItem) string {
	var prefix string
	switch item.Status {
	case model.ItemStatusDone:
		prefix = "✓"
	case model.ItemStatusNotApplicable:
		prefix = "–"
	case model.ItemStatusInProgress:
		prefix = "◐"
	default:
		prefix = "○"
	}

	priBadge := theme.PriorityStyle(item.Priority).Render(priorityLabel(item.Priority))

	obligatory := ""
	if item.Obligatory {
		obligatory = theme.OverdueStyle.Render(" *")
	}

	evidence := ""
	if item.RequiresAttachment {
		mark := "📎?"
		if len(item.Attachments) > 0 {
			mark = fmt.Sprintf("📎%d", len(item.Attachments))
		}
		evidence = " " + lipgloss.NewStyle().Foreground(theme.ColorBlue).Render(mark)
	} else if len(item.Attachments) > 0 {
		evidence = " " + lipgloss.NewStyle().
			Foreground(theme.ColorBlue).
			Render(fmt.Sprintf("📎%d", len(item.Attachments)))
	}

	title := theme.ItemStatusStyle(item.Status).Render(item.Title)

	line := fmt.Sprintf("%s %s %s%s%s", prefix, priBadge, title, obligatory, evidence)

	if item.Status == model.ItemStatusDone && item.CompletedBy != "" {
		line += lipgloss.NewStyle().
			Foreground(theme.ColorGray).
			Render(fmt.Sprintf("  (%s)", item.CompletedBy))
	}

	if index == m.cursor {
		return theme.SelectedItemStyle.Render(line)
	}
	return theme.ListItemStyle.Render(line)
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
	m.viewport.SetContent(m.renderContent())
}

// priorityLabel returns a short label for the given priority level.
func priorityLabel(p int) string {
	switch p {
	case model.PriorityCritical:
		return "P1"
	case model.PriorityHigh:
		return "P2"
	case model.PriorityMedium:
		return "P3"
	case model.PriorityLow:
		return "P4"
	default:
		return "P?"
	}
}
