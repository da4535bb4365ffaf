// Package checklistform is the huh-based form for creating a checklist,
// either from scratch or from a template.
package checklistform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/obratrack/obratrack/internal/checklist"
	"github.com/obratrack/obratrack/internal/model"
	"github.com/obratrack/obratrack/internal/theme"
)

// ChecklistCreatedMsg is dispatched when the form is submitted. The
// parent builds the checklist from the params, pulling items from the
// template when TemplateID is set.
type ChecklistCreatedMsg struct {
	Params checklist.NewChecklistParams
}

// FormCancelMsg is dispatched when the user cancels the form.
type FormCancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title         string
	category      string
	description   string
	siteID        string
	responsibleID string
	dueDate       string
	templateID    string
	itemLines     string
}

// Model is the Bubble Tea model for the checklist creation form.
type Model struct {
	form         *huh.Form
	fb           *formBindings
	fromTemplate bool
	sites        []model.Site
	responsibles []model.Responsible
	templates    []model.ChecklistTemplate
	width        int
	height       int
}

// New creates a new checklist form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// SetOptions sets the selectable sites, responsibles, and templates.
func (m *Model) SetOptions(sites []model.Site, responsibles []model.Responsible, templates []model.ChecklistTemplate) {
	m.sites = sites
	m.responsibles = responsibles
	m.templates = templates
}

// StartCreate initializes the form for an ad-hoc checklist whose items
// are typed in directly.
func (m *Model) StartCreate() tea.Cmd {
	m.reset()
	m.fromTemplate = false
	m.form = m.buildForm()
	return m.form.Init()
}

// StartFromTemplate initializes the form with a template selector; the
// items come from the chosen template.
func (m *Model) StartFromTemplate() tea.Cmd {
	m.reset()
	m.fromTemplate = true
	if len(m.templates) > 0 {
		m.fb.templateID = m.templates[0].ID
	}
	m.form = m.buildForm()
	return m.form.Init()
}

func (m *Model) reset() {
	m.fb.title = ""
	m.fb.category = ""
	m.fb.description = ""
	m.fb.siteID = ""
	m.fb.responsibleID = ""
	m.fb.dueDate = ""
	m.fb.templateID = ""
	m.fb.itemLines = ""
}

// Update handles messages for the checklist form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return FormCancelMsg{} }
	}

	return m, cmd
}

// View renders the checklist form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleText := "New Checklist"
	if m.fromTemplate {
		titleText = "New Checklist from Template"
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render(titleText) + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m *Model) buildForm() *huh.Form {
	fields := []huh.Field{
		huh.NewInput().
			Title("Title").
			Placeholder("Inspeção de andaimes...").
			Value(&m.fb.title).
			Validate(validateRequired("Title")),
		huh.NewInput().
			Title("Category").
			Placeholder("Segurança, Qualidade... (optional)").
			Value(&m.fb.category),
		m.siteField(),
		m.responsibleField(),
		huh.NewInput().
			Title("Due Date").
			Placeholder("YYYY-MM-DD (optional)").
			Value(&m.fb.dueDate).
			Validate(validateOptionalDate),
	}

	if m.fromTemplate {
		fields = append(fields, m.templateField())
	} else {
		fields = append(fields,
			huh.NewText().
				Title("Items (one per line; prefix ! for obligatory, + to require evidence)").
				Placeholder("!Travas instaladas\n+Foto do guarda-corpo\nSinalização visível").
				Value(&m.fb.itemLines).
				Validate(validateRequired("Items")),
		)
	}

	return huh.NewForm(
		huh.NewGroup(fields...),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) siteField() huh.Field {
	opts := make([]huh.Option[string], 0, len(m.sites))
	for _, s := range m.sites {
		if s.Active {
			opts = append(opts, huh.NewOption(s.Name, s.ID))
		}
	}
	return huh.NewSelect[string]().
		Title("Site").
		Options(opts...).
		Value(&m.fb.siteID)
}

func (m *Model) responsibleField() huh.Field {
	opts := make([]huh.Option[string], len(m.responsibles))
	for i, r := range m.responsibles {
		opts[i] = huh.NewOption(r.Name, r.ID)
	}
	return huh.NewSelect[string]().
		Title("Responsible").
		Options(opts...).
		Value(&m.fb.responsibleID)
}

func (m *Model) templateField() huh.Field {
	opts := make([]huh.Option[string], len(m.templates))
	for i, t := range m.templates {
		label := fmt.Sprintf("%s (%d items)", t.Name, len(t.Items))
		opts[i] = huh.NewOption(label, t.ID)
	}
	return huh.NewSelect[string]().
		Title("Template").
		Options(opts...).
		Value(&m.fb.templateID)
}

func (m Model) handleSubmit() tea.Cmd {
	params := checklist.NewChecklistParams{
		Title:         m.fb.title,
		Category:      m.fb.category,
		Description:   m.fb.description,
		SiteID:        m.fb.siteID,
		ResponsibleID: m.fb.responsibleID,
	}

	if m.fb.dueDate != "" {
		if t, err := time.Parse("2006-01-02", m.fb.dueDate); err == nil {
			params.DueDate = &t
		}
	}

	if m.fromTemplate {
		id := m.fb.templateID
		params.TemplateID = &id
	} else {
		params.Items = parseItemLines(m.fb.itemLines)
	}

	return func() tea.Msg { return ChecklistCreatedMsg{Params: params} }
}

// parseItemLines turns the item text area into checklist items. A "!"
// prefix marks the item obligatory; a "+" prefix requires evidence.
// Prefixes may be combined in either order.
func parseItemLines(text string) []model.ChecklistItem {
	var items []model.ChecklistItem
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var item model.ChecklistItem
		for {
			switch {
			case strings.HasPrefix(line, "!"):
				item.Obligatory = true
				line = strings.TrimSpace(line[1:])
				continue
			case strings.HasPrefix(line, "+"):
				item.RequiresAttachment = true
				line = strings.TrimSpace(line[1:])
				continue
			}
			break
		}
		if line == "" {
			continue
		}
		item.Title = line
		items = append(items, item)
	}
	return items
}

func (m Model) formWidth() int {
	w := m.width - 4
	if w < 40 {
		w = 40
	}
	if w > 100 {
		w = 100
	}
	return w
}

func (m Model) formHeight() int {
	h := m.height - 4
	if h < 10 {
		h = 10
	}
	return h
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateOptionalDate(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := time.Parse("2006-01-02", s)
	if err != nil {
		return fmt.Errorf("invalid date format, use YYYY-MM-DD")
	}
	return nil
}
