package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/wippyai/mxpack/value"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func testMessages() []message {
	vals := []value.Value{
		value.Double{1, 2, 3},
		value.NewChar("probe"),
		value.NewStruct(value.Field{Name: "id", Value: value.Uint32{7}}),
	}
	msgs := make([]message, len(vals))
	for i, v := range vals {
		msgs[i] = message{value: v, wit: value.TypeString(value.Describe(v)), index: i}
	}
	return msgs
}

func TestInteractive_Navigate(t *testing.T) {
	m := newInteractiveModel("in.mp", testMessages())

	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m.Update(runes("j"))
	m.Update(runes("j"))
	if m.selected != 2 {
		t.Fatalf("selected = %d, want 2", m.selected)
	}
	m.Update(runes("k"))
	if m.selected != 1 {
		t.Fatalf("selected = %d, want 1", m.selected)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateDetail {
		t.Fatalf("state = %d, want detail", m.state)
	}
	if m.detail != `"probe"` {
		t.Errorf("detail = %q", m.detail)
	}
	if !strings.Contains(m.View(), "Message #1") {
		t.Errorf("view should show message #1:\n%s", m.View())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.state != stateList || m.detail != "" {
		t.Errorf("esc should return to list, state = %d", m.state)
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Error("q should quit")
	}
}

func TestInteractive_Filter(t *testing.T) {
	m := newInteractiveModel("in.mp", testMessages())

	m.Update(runes("/"))
	if m.state != stateFilter {
		t.Fatalf("state = %d, want filter", m.state)
	}
	m.Update(runes("record"))
	if len(m.visible) != 1 || m.visible[0] != 2 {
		t.Fatalf("visible = %v, want [2]", m.visible)
	}

	// q is filter text while typing
	m.Update(runes("q"))
	if len(m.visible) != 0 {
		t.Errorf("visible = %v, want none", m.visible)
	}
	if !strings.Contains(m.View(), "No messages.") {
		t.Errorf("view should report no matches:\n%s", m.View())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.state != stateList {
		t.Fatalf("state = %d, want list", m.state)
	}

	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if !strings.Contains(m.detail, `"id": 7`) {
		t.Errorf("detail = %q", m.detail)
	}
}
