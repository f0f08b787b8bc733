package ui

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sandeepkv93/shophub-client/internal/chat"
	"github.com/sandeepkv93/shophub-client/internal/domain"
)

const EmptyConversation = "No conversation initiated yet..."

type Sender interface {
	Send(f chat.Frame) error
}

type changedMsg struct{}

type closedMsg struct{}

// ChatModel is the interactive chat view.
type ChatModel struct {
	conv    *chat.Conversation
	sender  Sender
	styles  Styles
	logger  *slog.Logger
	title   string
	changes chan struct{}
	closed  <-chan struct{}
	cancel  func()
	now     func() time.Time

	input  string
	width  int
	status string
}

// NewChatModel renders conv and sends composer output through sender.
// closed may be nil.
func NewChatModel(conv *chat.Conversation, sender Sender, closed <-chan struct{}, title string, styles Styles, logger *slog.Logger) *ChatModel {
	if logger == nil {
		logger = slog.Default()
	}
	m := &ChatModel{
		conv:    conv,
		sender:  sender,
		styles:  styles,
		logger:  logger,
		title:   title,
		changes: make(chan struct{}, 1),
		closed:  closed,
		now:     time.Now,
		width:   80,
	}
	m.cancel = conv.Subscribe(func() {
		select {
		case m.changes <- struct{}{}:
		default:
		}
	})
	return m
}

func (m *ChatModel) waitForChange() tea.Cmd {
	return func() tea.Msg {
		select {
		case <-m.changes:
			return changedMsg{}
		case <-m.closed:
			return closedMsg{}
		}
	}
}

func (m *ChatModel) Init() tea.Cmd { return m.waitForChange() }

func (m *ChatModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case changedMsg:
		return m, m.waitForChange()
	case closedMsg:
		m.status = "disconnected"
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *ChatModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.cancel()
		return m, tea.Quit
	case tea.KeyEnter:
		f, err := m.conv.Compose(m.input, m.now())
		if errors.Is(err, chat.ErrEmptyMessage) {
			return m, nil
		}
		if err != nil {
			m.logger.Warn("compose chat message failed", "error", err)
			return m, nil
		}
		m.send(f)
		m.input = ""
	case tea.KeyCtrlE:
		last, ok := m.conv.LastOwn()
		if !ok {
			return m, nil
		}
		content, err := m.conv.StartEdit(last.ID)
		if err != nil {
			m.logger.Warn("start edit failed", "error", err)
			return m, nil
		}
		m.input = content
	case tea.KeyCtrlD:
		last, ok := m.conv.LastOwn()
		if !ok {
			return m, nil
		}
		f, err := m.conv.DeleteFrame(last.ID)
		if err != nil {
			m.logger.Warn("delete message failed", "error", err)
			return m, nil
		}
		m.send(f)
	case tea.KeyEsc:
		m.conv.CancelEdit()
		m.input = ""
	case tea.KeyBackspace:
		if r := []rune(m.input); len(r) > 0 {
			m.input = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.input += " "
	case tea.KeyRunes:
		m.input += string(msg.Runes)
	}
	return m, nil
}

// send drops the frame on failure; delivery errors are logged only.
func (m *ChatModel) send(f chat.Frame) {
	if err := m.sender.Send(f); err != nil {
		m.logger.Warn("chat frame not sent", "event", f.Event, "error", err)
	}
}

func (m *ChatModel) Input() string { return m.input }

func (m *ChatModel) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render(m.title))
	if m.status != "" {
		b.WriteString(" " + m.styles.Muted.Render("("+m.status+")"))
	}
	b.WriteString("\n\n")
	b.WriteString(RenderMessages(m.conv.Visible(), m.conv.SelfID(), m.styles, m.width))
	b.WriteString("\n")
	prompt := "> "
	if m.conv.Editing() != "" {
		prompt = "edit> "
	}
	b.WriteString(m.styles.Composer.Width(m.width).Render(prompt + m.input))
	b.WriteString("\n" + m.styles.Muted.Render("enter send · ctrl+e edit last · ctrl+d delete last · esc cancel · ctrl+c quit"))
	return b.String()
}

// RenderMessages lays out visible messages, own ones right-aligned.
func RenderMessages(msgs []domain.Message, selfID string, styles Styles, width int) string {
	if len(msgs) == 0 {
		return styles.Muted.Render(EmptyConversation) + "\n"
	}
	if width <= 0 {
		width = 80
	}
	var b strings.Builder
	for _, msg := range msgs {
		line := msg.Content
		if msg.Updated {
			line += " " + styles.Edited.Render("(edited)")
		}
		if ts := messageTime(msg); ts != "" {
			line += " " + styles.Muted.Render(ts)
		}
		if msg.SenderID == selfID {
			b.WriteString(lipgloss.NewStyle().Width(width).Align(lipgloss.Right).Render(styles.Own.Render(line)))
		} else {
			b.WriteString(styles.Peer.Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func messageTime(m domain.Message) string {
	raw := m.UpdatedAt
	if raw == "" {
		raw = m.Timestamp
	}
	if raw == "" {
		return ""
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", t.Local().Hour(), t.Local().Minute())
}
