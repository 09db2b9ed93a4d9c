package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	classStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type modelState int

const (
	stateList modelState = iota
	stateFilter
	stateDetail
)

type interactiveModel struct {
	err      error
	filename string
	detail   string
	msgs     []message
	visible  []int
	filter   textinput.Model
	selected int
	state    modelState
}

func newInteractiveModel(filename string, msgs []message) *interactiveModel {
	ti := textinput.New()
	ti.Placeholder = "list<f64>"
	ti.Prompt = "type: "
	ti.Width = 40

	m := &interactiveModel{
		filename: filename,
		msgs:     msgs,
		filter:   ti,
		state:    stateList,
	}
	m.applyFilter()
	return m
}

func (m *interactiveModel) Init() tea.Cmd {
	return nil
}

// applyFilter keeps the messages whose WIT description contains the filter text.
func (m *interactiveModel) applyFilter() {
	q := strings.TrimSpace(m.filter.Value())
	m.visible = m.visible[:0]
	for i, msg := range m.msgs {
		if q == "" || strings.Contains(msg.wit, q) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = max(len(m.visible)-1, 0)
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	if m.state == stateFilter {
		switch key.String() {
		case "ctrl+c":
			return m, tea.Quit
		case "enter", "esc":
			m.filter.Blur()
			m.state = stateList
			return m, nil
		}
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	switch key.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "up", "k":
		if m.state == stateList && m.selected > 0 {
			m.selected--
		}

	case "down", "j":
		if m.state == stateList && m.selected < len(m.visible)-1 {
			m.selected++
		}

	case "/":
		if m.state == stateList {
			m.state = stateFilter
			return m, m.filter.Focus()
		}

	case "enter":
		switch m.state {
		case stateList:
			if len(m.visible) == 0 {
				return m, nil
			}
			data, err := ToJSON(m.msgs[m.visible[m.selected]].value, true)
			m.detail, m.err = string(data), err
			m.state = stateDetail
		case stateDetail:
			m.state = stateList
			m.detail, m.err = "", nil
		}

	case "esc":
		if m.state == stateDetail {
			m.state = stateList
			m.detail, m.err = "", nil
		}
	}

	return m, nil
}

func (m *interactiveModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("mxpack"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString(fmt.Sprintf(" (%d messages)\n\n", len(m.msgs)))

	switch m.state {
	case stateList, stateFilter:
		if m.state == stateFilter || m.filter.Value() != "" {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		if len(m.visible) == 0 {
			b.WriteString("No messages.\n")
		}
		for i, idx := range m.visible {
			line := m.formatMessage(m.msgs[idx])
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.state == stateFilter {
			b.WriteString(helpStyle.Render("type to filter • enter/esc done"))
		} else {
			b.WriteString(helpStyle.Render("↑/↓ select • enter show • / filter • q quit"))
		}

	case stateDetail:
		msg := m.msgs[m.visible[m.selected]]
		b.WriteString(fmt.Sprintf("Message #%d %s\n\n", msg.index, typeStyle.Render(msg.wit)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.detail))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter back • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatMessage(msg message) string {
	return fmt.Sprintf("#%-4d %s %s", msg.index,
		classStyle.Render(fmt.Sprintf("%-8s", msg.value.Class())),
		typeStyle.Render(msg.wit))
}

func runInteractive(filename string, msgs []message) error {
	p := tea.NewProgram(newInteractiveModel(filename, msgs), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
