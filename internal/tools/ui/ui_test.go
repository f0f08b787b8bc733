package ui

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sandeepkv93/shophub-client/internal/chat"
	"github.com/sandeepkv93/shophub-client/internal/domain"
)

func TestRunReturnsDetails(t *testing.T) {
	details, err := Run(context.Background(), "products", func(context.Context) ([]string, error) {
		return []string{"one", "two"}, nil
	}, tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutRenderer())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(details) != 2 || details[1] != "two" {
		t.Fatalf("unexpected details: %v", details)
	}
}

func TestRunReturnsError(t *testing.T) {
	want := errors.New("boom")
	_, err := Run(context.Background(), "products", func(context.Context) ([]string, error) {
		return nil, want
	}, tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutRenderer())
	if !errors.Is(err, want) {
		t.Fatalf("expected %v, got %v", want, err)
	}
}

func TestRunHonoursDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := Run(ctx, "products", func(ctx context.Context) ([]string, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}, tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutRenderer())
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func TestRunSwitchesToDarkPalette(t *testing.T) {
	details, err := Run(context.Background(), "theme", func(ctx context.Context) ([]string, error) {
		UseDarkMode(ctx, true)
		return []string{"dark_mode=true"}, nil
	}, tea.WithInput(nil), tea.WithOutput(io.Discard), tea.WithoutRenderer())
	if err != nil || len(details) != 1 {
		t.Fatalf("run: details=%v err=%v", details, err)
	}

	// Outside Run the call is a no-op.
	UseDarkMode(context.Background(), true)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := newRunModel(ctx, cancel, "theme", nil)
	if m.styles.Title.GetForeground() != Palette(false).Title.GetForeground() {
		t.Fatal("expected the light palette before the theme is known")
	}
	next, _ := m.Update(themeMsg{dark: true})
	if got := next.(runModel).styles.Title.GetForeground(); got != Palette(true).Title.GetForeground() {
		t.Fatalf("expected dark title colour, got %v", got)
	}
}

func TestRunModelView(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m := newRunModel(ctx, cancel, "products", nil)
	if !strings.Contains(m.View(), "products") {
		t.Fatalf("expected title in view: %q", m.View())
	}
	next, cmd := m.Update(resultMsg{details: []string{"3 products"}, err: errors.New("partial")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	view := next.(runModel).View()
	if !strings.Contains(view, "3 products") || !strings.Contains(view, "partial") {
		t.Fatalf("unexpected final view: %q", view)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if ctx.Err() == nil {
		t.Fatal("expected ctrl+c to cancel the work context")
	}
}

type recordingSender struct {
	mu     sync.Mutex
	frames []chat.Frame
}

func (s *recordingSender) Send(f chat.Frame) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.frames = append(s.frames, f)
	return nil
}

func (s *recordingSender) events() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.frames))
	for _, f := range s.frames {
		out = append(out, f.Event)
	}
	return out
}

func typeText(m *ChatModel, text string) {
	m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func newTestChat(t *testing.T) (*ChatModel, *chat.Conversation, *recordingSender) {
	t.Helper()
	conv := chat.NewConversation("me", "them")
	history, err := chat.NewFrame(chat.EventChatHistory, []domain.Message{
		{ID: "m1", SenderID: "me", Content: "hello there"},
		{ID: "m2", SenderID: "them", Content: "hi back", Updated: true},
		{ID: "m3", SenderID: "them", Content: "gone", Deleted: true},
	})
	if err != nil {
		t.Fatalf("frame: %v", err)
	}
	if err := conv.Apply(history); err != nil {
		t.Fatalf("apply: %v", err)
	}
	sender := &recordingSender{}
	return NewChatModel(conv, sender, nil, "Chat", Palette(true), nil), conv, sender
}

func TestChatModelView(t *testing.T) {
	m, _, _ := newTestChat(t)
	view := m.View()
	if !strings.Contains(view, "hello there") || !strings.Contains(view, "(edited)") {
		t.Fatalf("unexpected view: %q", view)
	}
	if strings.Contains(view, "gone") {
		t.Fatalf("deleted message rendered: %q", view)
	}
}

func TestChatModelSendEditDelete(t *testing.T) {
	m, _, sender := newTestChat(t)

	typeText(m, "new")
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	typeText(m, "msg")
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.Input() != "" {
		t.Fatalf("expected composer cleared, got %q", m.Input())
	}

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	if m.Input() != "hello there" {
		t.Fatalf("expected prefill, got %q", m.Input())
	}
	if !strings.Contains(m.View(), "edit> ") {
		t.Fatal("expected edit prompt")
	}
	m.Update(tea.KeyMsg{Type: tea.KeyBackspace})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	m.Update(tea.KeyMsg{Type: tea.KeyCtrlD})
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})

	got := sender.events()
	want := []string{chat.EventSendMessage, chat.EventUpdateMessage, chat.EventDeleteMessage}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestChatModelEscCancelsEdit(t *testing.T) {
	m, conv, _ := newTestChat(t)
	m.Update(tea.KeyMsg{Type: tea.KeyCtrlE})
	m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if conv.Editing() != "" || m.Input() != "" {
		t.Fatalf("expected edit cancelled, editing=%q input=%q", conv.Editing(), m.Input())
	}
}

func TestChatModelWakesOnConversationChange(t *testing.T) {
	m, conv, _ := newTestChat(t)
	cmd := m.Init()
	f, _ := chat.NewFrame(chat.EventReceiveMessage, domain.Message{ID: "m4", SenderID: "them", Content: "ping"})
	if err := conv.Apply(f); err != nil {
		t.Fatalf("apply: %v", err)
	}
	if _, ok := cmd().(changedMsg); !ok {
		t.Fatal("expected change notification")
	}
}

func TestRenderMessagesEmpty(t *testing.T) {
	out := RenderMessages(nil, "me", Palette(false), 40)
	if !strings.Contains(out, EmptyConversation) {
		t.Fatalf("unexpected empty render: %q", out)
	}
}
