package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/storyboard/pkg/templates"
)

func testDefs() []templates.Definition {
	return []templates.Definition{
		{ID: "pulse", Name: "Pulse"},
		{ID: "studio", Name: "Studio"},
		{ID: "legacy-classic", Name: "Classic", Strategy: "legacy"},
		{ID: "neon", Name: "Neon", Preview: true},
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m TemplateListModel, keys ...string) (TemplateListModel, tea.Cmd) {
	var cmd tea.Cmd
	for _, k := range keys {
		var next tea.Model
		next, cmd = m.Update(key(k))
		m = next.(TemplateListModel)
	}
	return m, cmd
}

func TestTemplateListModelNavigation(t *testing.T) {
	tests := []struct {
		name    string
		current string
		keys    []string
		want    int
	}{
		{"starts on current", "studio", nil, 1},
		{"unknown current", "nope", nil, 0},
		{"down", "", []string{"down", "j"}, 2},
		{"down stops at end", "", []string{"down", "down", "down", "down", "down"}, 3},
		{"up stops at start", "studio", []string{"up", "k"}, 0},
		{"end and home", "", []string{"G", "g"}, 0},
		{"end", "", []string{"G"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewTemplateListModel(testDefs(), "pulse", tt.current)
			m, _ = press(m, tt.keys...)
			if m.Cursor != tt.want {
				t.Errorf("Cursor = %d, want %d", m.Cursor, tt.want)
			}
		})
	}
}

func TestTemplateListModelSelect(t *testing.T) {
	m := NewTemplateListModel(testDefs(), "pulse", "")
	m, cmd := press(m, "down", "enter")
	if m.Selected == nil || m.Selected.ID != "studio" {
		t.Fatalf("Selected = %v, want studio", m.Selected)
	}
	if cmd == nil {
		t.Error("enter should quit")
	}

	m = NewTemplateListModel(testDefs(), "pulse", "")
	m, cmd = press(m, "esc")
	if m.Selected != nil || cmd == nil {
		t.Errorf("esc: Selected = %v, cmd = %v, want nil and quit", m.Selected, cmd)
	}

	m = NewTemplateListModel(nil, "pulse", "")
	m, _ = press(m, "enter")
	if m.Selected != nil {
		t.Errorf("empty list selected %v", m.Selected)
	}
}

func TestTemplateListModelScroll(t *testing.T) {
	m := NewTemplateListModel(testDefs(), "pulse", "")
	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 10})
	m = next.(TemplateListModel)
	if m.Height != 3 {
		t.Fatalf("Height = %d, want 3", m.Height)
	}
	m, _ = press(m, "G")
	if m.Offset != 1 {
		t.Errorf("Offset = %d, want 1", m.Offset)
	}
	if view := m.View(); !strings.Contains(view, "neon") || strings.Contains(view, "pulse") {
		t.Errorf("View() shows the wrong window:\n%s", view)
	}
}

func TestTemplateStatus(t *testing.T) {
	defs := testDefs()
	tests := []struct {
		def  templates.Definition
		want string
	}{
		{defs[0], "fallback"},
		{defs[1], "—"},
		{defs[2], "legacy"},
		{defs[3], "preview"},
	}
	for _, tt := range tests {
		if got := templateStatus(tt.def, "pulse"); got != tt.want {
			t.Errorf("templateStatus(%s) = %q, want %q", tt.def.ID, got, tt.want)
		}
	}
}
