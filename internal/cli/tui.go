package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/storyboard/pkg/templates"
)

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// =============================================================================
// TemplateListModel - Interactive template selection
// =============================================================================

// TemplateListModel is the bubbletea model for picking a template.
type TemplateListModel struct {
	Templates []templates.Definition
	Fallback  string
	Cursor    int
	Selected  *templates.Definition
	Height    int
	Offset    int
}

// NewTemplateListModel creates a picker over defs with the cursor on the
// template named current, if present.
func NewTemplateListModel(defs []templates.Definition, fallback, current string) TemplateListModel {
	m := TemplateListModel{Templates: defs, Fallback: fallback, Height: 10}
	for i, d := range defs {
		if d.ID == current {
			m.Cursor = i
		}
	}
	m.scroll()
	return m
}

func (m TemplateListModel) Init() tea.Cmd {
	return nil
}

func (m TemplateListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Templates)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = len(m.Templates) - 1
		case "enter":
			if len(m.Templates) == 0 {
				return m, nil
			}
			d := m.Templates[m.Cursor]
			m.Selected = &d
			return m, tea.Quit
		}
		m.scroll()
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-8, 3)
		m.scroll()
	}
	return m, nil
}

// scroll keeps the cursor inside the visible window.
func (m *TemplateListModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m TemplateListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Template"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Templates))
	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		d := m.Templates[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows = append(rows, []string{cursor, d.ID, d.Name, templateStatus(d, m.Fallback), d.Description})
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "ID", "Name", "Status", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleTableHeader
			}
			idx := m.Offset + row
			switch {
			case idx == m.Cursor && col != 4:
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			case idx == m.Cursor:
				return lipgloss.NewStyle().Foreground(colorGray)
			case col == 3 || col == 4:
				return lipgloss.NewStyle().Foreground(colorDim)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Templates))))
	return b.String()
}

// templateStatus labels fallback, preview and legacy templates.
func templateStatus(d templates.Definition, fallback string) string {
	var tags []string
	if d.ID == fallback {
		tags = append(tags, "fallback")
	}
	if d.Preview {
		tags = append(tags, "preview")
	}
	if strategyDeprecated(d.Strategy) {
		tags = append(tags, "legacy")
	}
	if len(tags) == 0 {
		return "—"
	}
	return strings.Join(tags, ", ")
}

// pickTemplate runs the picker and returns the chosen id, or "" when the
// user quits without choosing.
func pickTemplate(reg *templates.Registry, current string) (string, error) {
	m := NewTemplateListModel(reg.List(), reg.Fallback(), current)
	final, err := tea.NewProgram(m).Run()
	if err != nil {
		return "", fmt.Errorf("template picker: %w", err)
	}
	if sel := final.(TemplateListModel).Selected; sel != nil {
		return sel.ID, nil
	}
	return "", nil
}
