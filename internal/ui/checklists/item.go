package checklists

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/obratrack/obratrack/internal/model"
	"github.com/obratrack/obratrack/internal/theme"
)

// ChecklistItem wraps a model.Checklist so it can be used in a bubbles/list.
type ChecklistItem struct {
	Checklist model.Checklist
}

// FilterValue returns the string used for fuzzy filtering.
func (i ChecklistItem) FilterValue() string { return i.Checklist.Title }

// Title returns the checklist title for the list.
func (i ChecklistItem) Title() string { return i.Checklist.Title }

// Description returns a short summary line for the list.
func (i ChecklistItem) Description() string {
	return fmt.Sprintf("%s | %s | %d%%",
		i.Checklist.SiteName, i.Checklist.Status, i.Checklist.Progress.Percentage)
}

// ItemDelegate implements list.ItemDelegate for rendering checklist rows.
type ItemDelegate struct{}

// Height returns the number of lines each item takes.
func (d ItemDelegate) Height() int { return 1 }

// Spacing returns the number of blank lines between items.
func (d ItemDelegate) Spacing() int { return 0 }

// Update handles per-item messages (unused for now).
func (d ItemDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// Render draws a single checklist row.
func (d ItemDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	wrapper, ok := item.(ChecklistItem)
	if !ok {
		return
	}

	c := wrapper.Checklist
	isSelected := index == m.Index()

	statusBadge := theme.StatusStyle(c.Status).Render(c.Status)

	progress := theme.ProgressStyle(c.Progress.Percentage).
		Render(fmt.Sprintf("%3d%%", c.Progress.Percentage))

	site := lipgloss.NewStyle().
		Foreground(theme.ColorBlue).
		Render(c.SiteName)

	dueStr := ""
	if c.DueDate != nil && !c.Terminal() {
		if time.Now().After(*c.DueDate) {
			dueStr = theme.OverdueStyle.Render(" OVERDUE")
		} else {
			dueStr = theme.DueDateStyle.Render(" " + c.DueDate.Format("Jan 02"))
		}
	}

	signedStr := ""
	if c.Signature != nil {
		signedStr = theme.SignedBadgeStyle.Render(" ✓signed")
	}

	line := fmt.Sprintf("%s %s %s %s%s%s",
		statusBadge, progress, c.Title, site, dueStr, signedStr)

	if c.Terminal() {
		line = theme.DimmedStyle.Render(line)
	}

	if isSelected {
		line = theme.SelectedItemStyle.Render(line)
	} else {
		line = theme.ListItemStyle.Render(line)
	}

	fmt.Fprint(w, line)
}
