package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/tmcosta/goine/pkg/ine"
)

// =============================================================================
// Indicator Picker
// =============================================================================

var (
	pickerCursorStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)
	pickerCodeStyle   = lipgloss.NewStyle().Foreground(colorBlue)
	pickerDimStyle    = lipgloss.NewStyle().Foreground(colorDim)
)

// indicatorPicker is a scrollable list of catalogue indicators. Enter selects
// the indicator under the cursor, q or esc quits without a selection.
type indicatorPicker struct {
	indicators []ine.Indicator
	cursor     int
	offset     int
	height     int
	selected   *ine.Indicator
}

func newIndicatorPicker(indicators []ine.Indicator) indicatorPicker {
	return indicatorPicker{
		indicators: indicators,
		height:     15,
	}
}

func (m indicatorPicker) Init() tea.Cmd {
	return nil
}

func (m indicatorPicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.indicators)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			ind := m.indicators[m.cursor]
			m.selected = &ind
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m indicatorPicker) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Select Indicator"))
	b.WriteString("\n")
	b.WriteString(pickerDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.indicators) {
		end = len(m.indicators)
	}

	for i := m.offset; i < end; i++ {
		ind := m.indicators[i]

		cursor := "  "
		if i == m.cursor {
			cursor = pickerCursorStyle.Render("▸ ")
		}

		line := cursor + pickerCodeStyle.Render(ind.Code) + "  " + truncate(ind.Title, 64)
		if ind.Periodicity != "" {
			line += "  " + pickerDimStyle.Render(ind.Periodicity)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(pickerDimStyle.Render(fmt.Sprintf("%d/%d", m.cursor+1, len(m.indicators))))

	return b.String()
}

// pickIndicator runs the interactive picker and returns the chosen indicator,
// or nil if the user quit without selecting.
func pickIndicator(indicators []ine.Indicator) (*ine.Indicator, error) {
	p := tea.NewProgram(newIndicatorPicker(indicators))
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("interactive picker: %w", err)
	}
	m, ok := final.(indicatorPicker)
	if !ok {
		return nil, nil
	}
	return m.selected, nil
}
