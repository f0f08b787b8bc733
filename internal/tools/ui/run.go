package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

type tickMsg struct{}

type themeMsg struct{ dark bool }

type themeKey struct{}

type resultMsg struct {
	details []string
	err     error
}

type runModel struct {
	title   string
	styles  Styles
	frame   int
	done    bool
	details []string
	err     error
	cancel  context.CancelFunc
	work    tea.Cmd
}

func newRunModel(ctx context.Context, cancel context.CancelFunc, title string, fn func(context.Context) ([]string, error)) runModel {
	return runModel{
		title:  title,
		styles: Palette(false),
		cancel: cancel,
		work: func() tea.Msg {
			details, err := fn(ctx)
			return resultMsg{details: details, err: err}
		},
	}
}

func tick() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(time.Time) tea.Msg { return tickMsg{} })
}

func (m runModel) Init() tea.Cmd { return tea.Batch(m.work, tick()) }

func (m runModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.cancel()
		}
	case themeMsg:
		m.styles = Palette(msg.dark)
	case tickMsg:
		if m.done {
			return m, nil
		}
		m.frame = (m.frame + 1) % len(spinnerFrames)
		return m, tick()
	case resultMsg:
		m.done = true
		m.details = msg.details
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m runModel) View() string {
	var b strings.Builder
	switch {
	case !m.done:
		fmt.Fprintf(&b, "%s %s\n", spinnerFrames[m.frame], m.styles.Title.Render(m.title))
	case m.err != nil:
		fmt.Fprintf(&b, "%s %s\n", m.styles.Error.Render("✗"), m.styles.Title.Render(m.title))
	default:
		fmt.Fprintf(&b, "%s %s\n", m.styles.Success.Render("✓"), m.styles.Title.Render(m.title))
	}
	for _, d := range m.details {
		fmt.Fprintf(&b, "  %s\n", d)
	}
	if m.done && m.err != nil {
		fmt.Fprintf(&b, "  %s\n", m.styles.Error.Render(m.err.Error()))
	}
	return b.String()
}

// UseDarkMode switches the palette of the spinner driving ctx. Outside Run
// it does nothing.
func UseDarkMode(ctx context.Context, dark bool) {
	if send, ok := ctx.Value(themeKey{}).(func(tea.Msg)); ok {
		send(themeMsg{dark: dark})
	}
}

// Run shows a spinner while fn runs, then the detail lines it returned. fn
// sees ctx's deadline and is cancelled by ctrl+c.
func Run(ctx context.Context, title string, fn func(context.Context) ([]string, error), opts ...tea.ProgramOption) ([]string, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var p *tea.Program
	ctx = context.WithValue(ctx, themeKey{}, func(msg tea.Msg) { p.Send(msg) })
	p = tea.NewProgram(newRunModel(ctx, cancel, title, fn), opts...)
	final, err := p.Run()
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", title, err)
	}
	m := final.(runModel)
	if !m.done {
		return nil, context.Canceled
	}
	return m.details, m.err
}
