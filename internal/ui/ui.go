// Package ui implements the optional fullscreen progress program shown
// during a launch when --fullscreen is passed. By default Splitux logs
// straight to stderr; this package exists only for the alternate,
// full-terminal presentation.
package ui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/splitux/internal/logger"
)

const maxLogLines = 12

var (
	TitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	MutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	ErrorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	WarnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	SpinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212"))
)

type logLine struct {
	level   string
	message string
}

type doneMsg struct{ err error }

type logMsg logLine

type model struct {
	spinner  spinner.Model
	lines    []logLine
	width    int
	height   int
	finished bool
	err      error
	logCh    chan logLine
	doneCh   chan error
}

func newModel(logCh chan logLine, doneCh chan error) model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle
	return model{spinner: s, logCh: logCh, doneCh: doneCh}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForLog(m.logCh), waitForDone(m.doneCh))
}

func waitForLog(ch chan logLine) tea.Cmd {
	return func() tea.Msg {
		l, ok := <-ch
		if !ok {
			return nil
		}
		return logMsg(l)
	}
}

func waitForDone(ch chan error) tea.Cmd {
	return func() tea.Msg {
		return doneMsg{err: <-ch}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		if m.finished && (msg.String() == "q" || msg.String() == "ctrl+c" || msg.String() == "enter") {
			return m, tea.Quit
		}
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m, nil
	case logMsg:
		m.lines = append(m.lines, logLine(msg))
		if len(m.lines) > maxLogLines {
			m.lines = m.lines[len(m.lines)-maxLogLines:]
		}
		return m, waitForLog(m.logCh)
	case doneMsg:
		m.finished = true
		m.err = msg.err
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) View() string {
	if m.width == 0 {
		return "starting splitux...\n"
	}

	title := TitleStyle.Render("Splitux")

	var status string
	switch {
	case m.finished && m.err != nil:
		status = ErrorStyle.Render(fmt.Sprintf("launch failed: %v", m.err))
	case m.finished:
		status = MutedStyle.Render("all instances exited")
	default:
		status = fmt.Sprintf("%s launching...", m.spinner.View())
	}

	var logText string
	if len(m.lines) > 0 {
		rendered := make([]string, len(m.lines))
		for i, l := range m.lines {
			rendered[i] = styleForLevel(l.level).Render(fmt.Sprintf("[%s] %s", l.level, l.message))
		}
		logText = strings.Join(rendered, "\n")
	}

	footer := MutedStyle.Render("[q] quit once finished")
	if !m.finished {
		footer = MutedStyle.Render("[ctrl+c] abort")
	}

	content := lipgloss.JoinVertical(lipgloss.Left, title, "", status, "", logText, "", footer)
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Top, content)
}

func styleForLevel(level string) lipgloss.Style {
	switch level {
	case "ERROR":
		return ErrorStyle
	case "WARN":
		return WarnStyle
	default:
		return MutedStyle
	}
}

// RunFullscreen runs launch under a fullscreen bubbletea program, mirroring
// logger output into the program's own view until launch returns.
func RunFullscreen(launch func() error) error {
	logCh := make(chan logLine, 64)
	doneCh := make(chan error, 1)

	var once sync.Once
	logger.SetUINotifier(func(level, message string) {
		select {
		case logCh <- logLine{level: level, message: message}:
		default:
		}
	})
	defer logger.SetUINotifier(nil)

	go func() {
		err := launch()
		once.Do(func() { doneCh <- err })
	}()

	p := tea.NewProgram(newModel(logCh, doneCh), tea.WithAltScreen())
	finalModel, runErr := p.Run()
	if runErr != nil {
		return runErr
	}
	if fm, ok := finalModel.(model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
