package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kinimod0/gOASper/layout"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F5FD7")).
			Padding(0, 1)

	cellStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	layerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#5F5FD7"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

var browseCmd = &cobra.Command{
	Use:   "browse <input.gds>",
	Short: "Browse cells interactively",
	Long: `Open an interactive browser over the cells of a GDSII file. The list
view shows every cell in declaration order; selecting one shows its
bounding box, layer usage and reference targets. A filter narrows the
list on large libraries.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p := tea.NewProgram(newBrowseModel(args[0]), tea.WithAltScreen())
		_, err := p.Run()
		return err
	},
}

func init() {
	rootCmd.AddCommand(browseCmd)
}

type browseState int

const (
	stateSelectCell browseState = iota
	stateShowCell
	stateFilter
)

type browseModel struct {
	err      error
	lib      *layout.Library
	summary  layout.LibrarySummary
	filename string
	filter   textinput.Model
	visible  []int // indices into summary.Cells after filtering
	selected int
	state    browseState
}

func newBrowseModel(filename string) *browseModel {
	ti := textinput.New()
	ti.Prompt = "filter: "
	ti.Width = 40
	return &browseModel{filename: filename, filter: ti}
}

type loadedMsg struct {
	err     error
	lib     *layout.Library
	summary layout.LibrarySummary
}

func (m *browseModel) Init() tea.Cmd {
	return m.loadLibrary
}

func (m *browseModel) loadLibrary() tea.Msg {
	lib, _, err := loadWithSkips(m.filename)
	if err != nil {
		return loadedMsg{err: err}
	}
	return loadedMsg{lib: lib, summary: lib.Summarize()}
}

func (m *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.state != stateFilter {
				return m, tea.Quit
			}

		case "up", "k":
			if m.state == stateSelectCell && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectCell && m.selected < len(m.visible)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectCell:
				if len(m.visible) > 0 {
					m.state = stateShowCell
				}
			case stateShowCell:
				m.state = stateSelectCell
			case stateFilter:
				m.filter.Blur()
				m.state = stateSelectCell
			}

		case "/":
			if m.state == stateSelectCell {
				m.state = stateFilter
				m.filter.Focus()
				return m, textinput.Blink
			}

		case "esc":
			switch m.state {
			case stateShowCell:
				m.state = stateSelectCell
			case stateFilter:
				m.filter.Blur()
				m.filter.SetValue("")
				m.applyFilter()
				m.state = stateSelectCell
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.lib = msg.lib
		m.summary = msg.summary
		m.applyFilter()
	}

	if m.state == stateFilter {
		var cmd tea.Cmd
		m.filter, cmd = m.filter.Update(msg)
		m.applyFilter()
		return m, cmd
	}

	return m, nil
}

func (m *browseModel) applyFilter() {
	needle := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, c := range m.summary.Cells {
		if needle == "" || strings.Contains(strings.ToLower(c.Name), needle) {
			m.visible = append(m.visible, i)
		}
	}
	if m.selected >= len(m.visible) {
		m.selected = 0
	}
}

func (m *browseModel) View() string {
	if m.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}
	if m.lib == nil {
		return "Loading layout..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("gOASper"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectCell, stateFilter:
		if m.state == stateFilter {
			b.WriteString(m.filter.View())
			b.WriteString("\n\n")
		}
		for pos, idx := range m.visible {
			c := m.summary.Cells[idx]
			line := fmt.Sprintf("%s  %d polygons", cellStyle.Render(c.Name), c.TotalPolygons)
			if pos == m.selected && m.state == stateSelectCell {
				b.WriteString(selectedStyle.Render("> " + c.Name))
				b.WriteString(fmt.Sprintf("  %d polygons", c.TotalPolygons))
			} else {
				b.WriteString("  " + line)
			}
			b.WriteString("\n")
		}
		if len(m.visible) == 0 {
			b.WriteString(helpStyle.Render("no cells match"))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		if m.state == stateFilter {
			b.WriteString(helpStyle.Render("enter apply • esc clear"))
		} else {
			b.WriteString(helpStyle.Render("↑/↓ select • enter details • / filter • q quit"))
		}

	case stateShowCell:
		c := m.summary.Cells[m.visible[m.selected]]
		b.WriteString(cellStyle.Render(c.Name))
		b.WriteString("\n\n")
		b.WriteString(fmt.Sprintf("Bounding box: %s\n", formatBBox(c.BBox)))
		b.WriteString(fmt.Sprintf("Polygons:     %d\n", c.TotalPolygons))
		b.WriteString("Layers:       ")
		b.WriteString(layerStyle.Render(formatLayers(c)))
		b.WriteString("\n")
		b.WriteString("References:   ")
		b.WriteString(strings.Join(m.referenceTargets(c.Name), " "))
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter/esc back • q quit"))
	}

	return b.String()
}

// referenceTargets lists the distinct cells the named cell instantiates.
func (m *browseModel) referenceTargets(name string) []string {
	cell, ok := m.lib.Cell(name)
	if !ok {
		return nil
	}
	seen := make(map[string]bool)
	var targets []string
	for _, el := range cell.Elements {
		var t string
		switch e := el.(type) {
		case layout.Reference:
			t = e.Target
		case layout.ArrayReference:
			t = e.Target
		default:
			continue
		}
		if !seen[t] {
			seen[t] = true
			targets = append(targets, t)
		}
	}
	sort.Strings(targets)
	if len(targets) == 0 {
		return []string{"(none)"}
	}
	return targets
}
