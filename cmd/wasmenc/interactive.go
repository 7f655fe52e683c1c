package main

import (
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/wasm-encoder/manifest"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	nameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	sizeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#666666"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// listWidth is the width of the section list pane, borders excluded.
const listWidth = 34

type browserModel struct {
	res      *manifest.Result
	filename string
	dump     viewport.Model
	selected int
	ready    bool
}

func newBrowserModel(filename string, res *manifest.Result) *browserModel {
	return &browserModel{
		filename: filename,
		res:      res,
	}
}

func (m *browserModel) Init() tea.Cmd {
	return nil
}

func (m *browserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.refresh()
			}
			return m, nil

		case "down", "j":
			if m.selected < len(m.res.Sections)-1 {
				m.selected++
				m.refresh()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		// title, help and pane borders
		height := msg.Height - 6
		width := msg.Width - listWidth - 4
		if height < 1 {
			height = 1
		}
		if width < 1 {
			width = 1
		}
		if !m.ready {
			m.dump = viewport.New(width, height)
			m.ready = true
		} else {
			m.dump.Width = width
			m.dump.Height = height
		}
		m.refresh()
	}

	var cmd tea.Cmd
	m.dump, cmd = m.dump.Update(msg)
	return m, cmd
}

// refresh loads the hex dump of the selected section into the viewport.
func (m *browserModel) refresh() {
	if !m.ready {
		return
	}
	m.dump.SetContent(m.sectionDump())
	m.dump.GotoTop()
}

func (m *browserModel) sectionDump() string {
	if len(m.res.Sections) == 0 {
		return hex.Dump(m.res.Bytes)
	}
	s := m.res.Sections[m.selected]
	return hex.Dump(m.res.Bytes[s.Offset : s.Offset+s.Size])
}

func (m *browserModel) View() string {
	if !m.ready {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("WASM Sections"))
	b.WriteString(" ")
	b.WriteString(fmt.Sprintf("%s (%d bytes)", m.filename, len(m.res.Bytes)))
	b.WriteString("\n")

	var list strings.Builder
	if len(m.res.Sections) == 0 {
		list.WriteString("no sections")
	}
	for i, s := range m.res.Sections {
		line := fmt.Sprintf("%-12s %s", s.Name, sizeStyle.Render(fmt.Sprintf("%6d B @0x%04x", s.Size, s.Offset)))
		if i == m.selected {
			list.WriteString(selectedStyle.Render("> " + line))
		} else {
			list.WriteString("  " + nameStyle.Render(line))
		}
		list.WriteString("\n")
	}

	left := paneStyle.Width(listWidth).Height(m.dump.Height).Render(list.String())
	right := paneStyle.Render(m.dump.View())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(fmt.Sprintf("↑/↓ section • pgup/pgdn scroll • %3.f%% • q quit", m.dump.ScrollPercent()*100)))

	return b.String()
}

func runInteractive(filename string, res *manifest.Result) error {
	p := tea.NewProgram(newBrowserModel(filename, res), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
