package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dhebbeker/doxygen/pkg/dirtree"
	"github.com/dhebbeker/doxygen/pkg/dotdir"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// DirListModel - Interactive directory selection
// =============================================================================

// DirListModel is the bubbletea model for interactive directory selection.
// Typing filters the list by path substring.
type DirListModel struct {
	Dirs     []*dirtree.Dir
	Filter   string
	Cursor   int
	Selected *dirtree.Dir
	Height   int
	Offset   int

	visible []*dirtree.Dir
}

// NewDirListModel creates a new directory list model.
func NewDirListModel(dirs []*dirtree.Dir) DirListModel {
	m := DirListModel{Dirs: dirs, Height: 15}
	m.applyFilter()
	return m
}

func (m *DirListModel) applyFilter() {
	visible := make([]*dirtree.Dir, 0, len(m.Dirs))
	for _, d := range m.Dirs {
		if m.Filter == "" || strings.Contains(d.Path(), m.Filter) {
			visible = append(visible, d)
		}
	}
	m.visible = visible
	m.Cursor, m.Offset = 0, 0
}

func (m DirListModel) Init() tea.Cmd {
	return nil
}

func (m DirListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyUp:
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case tea.KeyDown:
			if m.Cursor < len(m.visible)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case tea.KeyEnter:
			if len(m.visible) == 0 {
				return m, nil
			}
			m.Selected = m.visible[m.Cursor]
			return m, tea.Quit
		case tea.KeyBackspace:
			if m.Filter != "" {
				m.Filter = m.Filter[:len(m.Filter)-1]
				m.applyFilter()
			}
		case tea.KeyRunes:
			m.Filter += string(msg.Runes)
			m.applyFilter()
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m DirListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Directory"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  type to filter  esc quit"))
	b.WriteString("\n")
	b.WriteString(StyleHighlight.Render("/ " + m.Filter))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.visible) {
		end = len(m.visible)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		d := m.visible[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		kind := "dir"
		if d.IsCluster() {
			kind = fmt.Sprintf("%d subdirs", len(d.Children()))
		}
		rows = append(rows, []string{cursor, d.Path(), kind, fmt.Sprint(len(d.Files())), fmt.Sprint(len(d.UsedDirs()))})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Directory", "Kind", "Files", "Uses").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			idx := m.Offset + row
			if idx >= len(m.visible) {
				return lipgloss.NewStyle()
			}
			d := m.visible[idx]
			base := lipgloss.NewStyle()
			if dotdir.IsTrivial(d) {
				base = base.Foreground(colorDim)
			}
			if idx == m.Cursor {
				return base.Foreground(colorGreen).Bold(true)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	pos := 0
	if len(m.visible) > 0 {
		pos = m.Cursor + 1
	}
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", pos, len(m.visible))))

	return b.String()
}

// pickDir lets the user choose a directory of t. It returns nil when the
// user quits without choosing.
func pickDir(t *dirtree.Tree) (*dirtree.Dir, error) {
	final, err := tea.NewProgram(NewDirListModel(t.Dirs())).Run()
	if err != nil {
		return nil, fmt.Errorf("directory picker: %w", err)
	}
	return final.(DirListModel).Selected, nil
}
