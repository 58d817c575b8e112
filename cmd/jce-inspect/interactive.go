package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/tarsio/jce-go/codec"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	frameStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type inspectState int

const (
	stateFrameList inspectState = iota
	stateFrameDetail
)

type inspectModel struct {
	frames   []frameInfo
	selected int
	state    inspectState
	vp       viewport.Model
	width    int
	height   int
	ready    bool
}

func newInspectModel(frames []frameInfo) *inspectModel {
	return &inspectModel{frames: frames}
}

func (m *inspectModel) Init() tea.Cmd {
	return nil
}

func (m *inspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.vp = viewport.New(msg.Width, msg.Height-4)
			m.ready = true
		} else {
			m.vp.Width = msg.Width
			m.vp.Height = msg.Height - 4
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.state == stateFrameList && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateFrameList && m.selected < len(m.frames)-1 {
				m.selected++
			}

		case "enter":
			if m.state == stateFrameList && len(m.frames) > 0 {
				m.vp.SetContent(m.frameDetail(m.selected))
				m.vp.GotoTop()
				m.state = stateFrameDetail
			}

		case "esc":
			if m.state == stateFrameDetail {
				m.state = stateFrameList
			}
		}
	}

	if m.state == stateFrameDetail {
		var cmd tea.Cmd
		m.vp, cmd = m.vp.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *inspectModel) frameDetail(i int) string {
	f := m.frames[i]
	if f.err != nil {
		return errorStyle.Render(fmt.Sprintf("decode error: %v", f.err))
	}
	return renderTree(f.value, 0)
}

func (m *inspectModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("JCE Inspector"))
	b.WriteString(fmt.Sprintf(" %d frames\n\n", len(m.frames)))

	switch m.state {
	case stateFrameList:
		if len(m.frames) == 0 {
			b.WriteString("No frames decoded.\n\n")
			b.WriteString(helpStyle.Render("q quit"))
			return b.String()
		}
		for i, f := range m.frames {
			line := fmt.Sprintf("frame %d  %d bytes  %s", i, f.size, frameSummary(f))
			if i == m.selected {
				b.WriteString(selectedStyle.Render("> " + line))
			} else {
				b.WriteString("  " + frameStyle.Render(line))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter inspect • q quit"))

	case stateFrameDetail:
		b.WriteString(fmt.Sprintf("frame %d\n", m.selected))
		b.WriteString(m.vp.View())
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ scroll • esc back • q quit"))
	}
	return b.String()
}

func frameSummary(f frameInfo) string {
	if f.err != nil {
		return errorStyle.Render("decode failed")
	}
	switch v := f.value.(type) {
	case codec.Struct:
		return fmt.Sprintf("%d fields", len(v))
	case map[string]any:
		return fmt.Sprintf("%d fields", len(v))
	default:
		return fmt.Sprintf("%T", f.value)
	}
}

func runInteractive(frames []frameInfo) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal")
	}
	p := tea.NewProgram(newInspectModel(frames), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
