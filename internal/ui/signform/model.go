// Package signform is the huh-based sign-off form: the signer confirms
// their identity and types their full name, which becomes the captured
// signature payload.
package signform

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/obratrack/obratrack/internal/model"
	"github.com/obratrack/obratrack/internal/theme"
)

// SignSubmittedMsg carries the captured signature back to the parent.
type SignSubmittedMsg struct {
	ChecklistID string
	Signer      model.Actor
	Blob        []byte
}

// SignCancelMsg is dispatched when the user backs out of signing.
type SignCancelMsg struct{}

type formBindings struct {
	typedName string
	confirmed bool
}

// Model is the Bubble Tea model for the sign-off form.
type Model struct {
	form        *huh.Form
	fb          *formBindings
	checklistID string
	signer      model.Actor
	width       int
	height      int
}

// New creates a new sign-off form model.
func New(width, height int) Model {
	return Model{
		fb:     &formBindings{},
		width:  width,
		height: height,
	}
}

// Start initializes the form for signing the given checklist as signer.
func (m *Model) Start(checklistID string, signer model.Actor) tea.Cmd {
	m.checklistID = checklistID
	m.signer = signer
	m.fb.typedName = ""
	m.fb.confirmed = false
	m.form = m.buildForm()
	return m.form.Init()
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Sign as %s <%s>", m.signer.Name, m.signer.Email)).
				Description("Type your full name to sign").
				Value(&m.fb.typedName).
				Validate(m.validateName),
			huh.NewConfirm().
				Title("Confirm sign-off").
				Description("Signing locks the checklist; no further edits are possible.").
				Affirmative("Sign").
				Negative("Back").
				Value(&m.fb.confirmed),
		),
	).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m *Model) validateName(s string) error {
	if !strings.EqualFold(strings.TrimSpace(s), strings.TrimSpace(m.signer.Name)) {
		return fmt.Errorf("name does not match the configured signer")
	}
	return nil
}

// Update handles messages for the sign-off form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		if !m.fb.confirmed {
			return m, func() tea.Msg { return SignCancelMsg{} }
		}
		return m, m.handleSubmit()
	}
	if m.form.State == huh.StateAborted {
		return m, func() tea.Msg { return SignCancelMsg{} }
	}

	return m, cmd
}

func (m Model) handleSubmit() tea.Cmd {
	payload := fmt.Sprintf("signed-by: %s <%s>\ntyped: %s\nat: %s",
		m.signer.Name, m.signer.Email,
		strings.TrimSpace(m.fb.typedName),
		time.Now().UTC().Format(time.RFC3339))

	msg := SignSubmittedMsg{
		ChecklistID: m.checklistID,
		Signer:      m.signer,
		Blob:        []byte(payload),
	}
	return func() tea.Msg { return msg }
}

// View renders the sign-off form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1)

	content := titleStyle.Render("Sign Off") + "\n" + m.form.View()

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(content)
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
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
