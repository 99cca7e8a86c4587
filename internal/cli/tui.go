package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/branchmap/pkg/errors"
	"github.com/matzehuels/branchmap/pkg/gitquery"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// RefPickerModel - Interactive reference selection
// =============================================================================

// RefPickerModel is the bubbletea model for picking the references to graph.
// It is a multi-select list over the repository's local branches.
type RefPickerModel struct {
	Refs      []string
	Cursor    int
	Checked   map[int]bool
	Confirmed bool
	Height    int
	Offset    int
}

// NewRefPickerModel creates a picker over the given reference names.
func NewRefPickerModel(refs []string) RefPickerModel {
	return RefPickerModel{
		Refs:    refs,
		Checked: make(map[int]bool),
		Height:  15,
	}
}

func (m RefPickerModel) Init() tea.Cmd {
	return nil
}

func (m RefPickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Refs)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case " ":
			m.Checked[m.Cursor] = !m.Checked[m.Cursor]
		case "a":
			all := len(m.selected()) < len(m.Refs)
			for i := range m.Refs {
				m.Checked[i] = all
			}
		case "enter":
			if len(m.selected()) > 0 {
				m.Confirmed = true
				return m, tea.Quit
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m RefPickerModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select References"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  space toggle  a all  ⏎ confirm  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Refs) {
		end = len(m.Refs)
	}

	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		check := "[ ]"
		if m.Checked[i] {
			check = "[x]"
		}

		line := fmt.Sprintf("%s%s %s", cursor, check, m.Refs[i])
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case m.Checked[i]:
			b.WriteString(listNormalStyle.Render(line))
		default:
			b.WriteString(listDimStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  %d selected  [%d/%d]", len(m.selected()), m.Cursor+1, len(m.Refs))))

	return b.String()
}

// selected returns the checked reference names in list order.
func (m RefPickerModel) selected() []string {
	var out []string
	for i, ref := range m.Refs {
		if m.Checked[i] {
			out = append(out, ref)
		}
	}
	return out
}

// =============================================================================
// Picker Entry Point
// =============================================================================

// pickRefs lists the local branches and lets the user choose interactively.
func pickRefs(ctx context.Context, client *gitquery.Client) ([]string, error) {
	names, err := client.ListRefs(ctx, "refs/heads")
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyInput, "repository has no local branches")
	}

	p := tea.NewProgram(NewRefPickerModel(names))
	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	fm, ok := finalModel.(RefPickerModel)
	if !ok || !fm.Confirmed {
		return nil, errors.New(errors.ErrCodeEmptyInput, "no references selected")
	}
	return fm.selected(), nil
}
