// Package tui is a terminal rendition of the portfolio contact form.
package tui

import (
	"context"
	"strings"

	"portfolio-backend/internal/contactform"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const focusSubmit = 4

var labels = map[contactform.Field]string{
	contactform.FieldName:    "Your Name",
	contactform.FieldEmail:   "Your Email",
	contactform.FieldSubject: "Subject",
	contactform.FieldMessage: "Message",
}

type stateMsg struct{}

type submitDoneMsg struct{ err error }

// Model renders the form and forwards keystrokes to the controller.
type Model struct {
	ctx     context.Context
	ctrl    *contactform.Controller
	updates chan struct{}
	state   contactform.State
	focus   int
	width   int
}

func New(ctx context.Context, ctrl *contactform.Controller) Model {
	updates := make(chan struct{}, 1)
	ctrl.Subscribe(func(contactform.State) {
		// Coalesce: the model always re-reads the latest state.
		select {
		case updates <- struct{}{}:
		default:
		}
	})
	return Model{
		ctx:     ctx,
		ctrl:    ctrl,
		updates: updates,
		state:   ctrl.State(),
		width:   60,
	}
}

func (m Model) waitForState() tea.Cmd {
	return func() tea.Msg {
		<-m.updates
		return stateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return m.waitForState()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = min(msg.Width-4, 80)
		return m, nil
	case stateMsg:
		m.state = m.ctrl.State()
		return m, m.waitForState()
	case submitDoneMsg:
		m.state = m.ctrl.State()
		return m, nil
	case tea.KeyMsg:
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyTab, tea.KeyDown:
		m.focus = (m.focus + 1) % (focusSubmit + 1)
		return m, nil
	case tea.KeyShiftTab, tea.KeyUp:
		m.focus = (m.focus + focusSubmit) % (focusSubmit + 1)
		return m, nil
	case tea.KeyCtrlS:
		return m.submit()
	case tea.KeyEnter:
		if m.focus == focusSubmit {
			return m.submit()
		}
		if contactform.Fields[m.focus] == contactform.FieldMessage {
			m.edit(func(v string) string { return v + "\n" })
			return m, nil
		}
		m.focus++
		return m, nil
	case tea.KeyBackspace:
		m.edit(func(v string) string {
			r := []rune(v)
			if len(r) == 0 {
				return v
			}
			return string(r[:len(r)-1])
		})
		return m, nil
	case tea.KeySpace:
		m.edit(func(v string) string { return v + " " })
		return m, nil
	case tea.KeyRunes:
		m.edit(func(v string) string { return v + string(msg.Runes) })
		return m, nil
	}
	return m, nil
}

// edit applies fn to the focused field and pushes the result to the controller.
func (m *Model) edit(fn func(string) string) {
	if m.focus >= len(contactform.Fields) {
		return
	}
	field := contactform.Fields[m.focus]
	m.ctrl.OnFieldChange(field, fn(m.ctrl.State().Draft.Get(field)))
	m.state = m.ctrl.State()
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	// The button is disabled while pending; the controller re-checks anyway.
	if m.state.Status == contactform.StatusPending {
		return m, nil
	}
	ctx, ctrl := m.ctx, m.ctrl
	return m, func() tea.Msg {
		return submitDoneMsg{err: ctrl.Submit(ctx)}
	}
}

func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("Get In Touch"))
	b.WriteString("\n")

	for i, field := range contactform.Fields {
		style := inputStyle
		if i == m.focus {
			style = focusedStyle
		}
		value := m.state.Draft.Get(field)
		if i == m.focus {
			value += "█"
		}
		b.WriteString(labelStyle.Render(labels[field]))
		b.WriteString("\n")
		b.WriteString(style.Width(m.width).Render(value))
		b.WriteString("\n")
	}

	button := buttonStyle
	if m.focus == focusSubmit {
		button = activeButton
	}
	text := "Send Message"
	if m.state.Status == contactform.StatusPending {
		text = "Sending..."
	}
	b.WriteString(button.Render(text))
	b.WriteString("\n")

	switch m.state.Status {
	case contactform.StatusSucceeded:
		b.WriteString(successStyle.Render("Message sent! I'll get back to you soon."))
	case contactform.StatusFailed:
		b.WriteString(errorStyle.Render(m.state.ErrorDetail))
	}

	b.WriteString(helpStyle.Render("tab/shift+tab move • enter next/send • ctrl+s send • esc quit"))
	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}
