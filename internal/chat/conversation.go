package chat

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/shophub-client/internal/domain"
)

var (
	ErrNotAuthor      = errors.New("message was not sent by the local user")
	ErrUnknownMessage = errors.New("unknown message")
	ErrEmptyMessage   = errors.New("message is empty")
)

// Conversation is the local message list of one chat view. Server events
// are applied in arrival order, without reordering or deduplication.
// Messages are never removed; deleted ones are only hidden.
type Conversation struct {
	selfID string
	peerID string

	mu       sync.Mutex
	messages []domain.Message
	editing  string
	subs     map[int]func()
	nextSub  int
}

func NewConversation(selfID, peerID string) *Conversation {
	return &Conversation{selfID: selfID, peerID: peerID, subs: map[int]func(){}}
}

func (c *Conversation) SelfID() string { return c.selfID }

func (c *Conversation) PeerID() string { return c.peerID }

// Apply folds one inbound server event into the local state and notifies
// subscribers. Unknown events are ignored.
func (c *Conversation) Apply(f Frame) error {
	var err error
	switch f.Event {
	case EventChatHistory:
		var history []domain.Message
		if err = json.Unmarshal(f.Data, &history); err == nil {
			c.update(func() { c.messages = history })
		}
	case EventReceiveMessage:
		var m domain.Message
		if err = json.Unmarshal(f.Data, &m); err == nil {
			c.update(func() { c.messages = append(c.messages, m) })
		}
	case EventMessageDeleted:
		var id string
		if id, err = decodeMessageID(f.Data); err == nil {
			c.update(func() {
				for i := range c.messages {
					if c.messages[i].ID == id {
						c.messages[i].Deleted = true
					}
				}
				if c.editing == id {
					c.editing = ""
				}
			})
		}
	case EventMessageUpdated:
		var m domain.Message
		if err = json.Unmarshal(f.Data, &m); err == nil {
			c.update(func() {
				for i := range c.messages {
					if c.messages[i].ID == m.ID {
						c.messages[i].Content = m.Content
						c.messages[i].Updated = m.Updated
					}
				}
			})
		}
	default:
		return nil
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedFrame, f.Event, err)
	}
	return nil
}

func (c *Conversation) update(fn func()) {
	c.mu.Lock()
	fn()
	subs := make([]func(), 0, len(c.subs))
	for _, s := range c.subs {
		subs = append(subs, s)
	}
	c.mu.Unlock()
	for _, s := range subs {
		s()
	}
}

func (c *Conversation) Messages() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]domain.Message(nil), c.messages...)
}

// Visible returns the messages that are rendered, in arrival order.
func (c *Conversation) Visible() []domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Message, 0, len(c.messages))
	for _, m := range c.messages {
		if !m.Deleted {
			out = append(out, m)
		}
	}
	return out
}

func (c *Conversation) IsOwn(m domain.Message) bool { return m.SenderID == c.selfID }

// LastOwn returns the newest visible message sent by the local user.
func (c *Conversation) LastOwn() (domain.Message, bool) {
	visible := c.Visible()
	for i := len(visible) - 1; i >= 0; i-- {
		if c.IsOwn(visible[i]) {
			return visible[i], true
		}
	}
	return domain.Message{}, false
}

// StartEdit marks an own message for editing and returns its content to
// prefill the composer.
func (c *Conversation) StartEdit(id string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	m, ok := c.find(id)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownMessage, id)
	}
	if m.SenderID != c.selfID {
		return "", ErrNotAuthor
	}
	c.editing = id
	return m.Content, nil
}

func (c *Conversation) CancelEdit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.editing = ""
}

func (c *Conversation) Editing() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.editing
}

// Compose turns composer text into the outbound frame: update_message when
// an edit is pending, send_message otherwise. The edit ends once composed.
func (c *Conversation) Compose(content string, now time.Time) (Frame, error) {
	if strings.TrimSpace(content) == "" {
		return Frame{}, ErrEmptyMessage
	}
	c.mu.Lock()
	editing := c.editing
	c.editing = ""
	c.mu.Unlock()
	if editing != "" {
		return NewFrame(EventUpdateMessage, UpdateMessage{MessageID: editing, Content: content})
	}
	return NewFrame(EventSendMessage, SendMessage{
		SenderID:   c.selfID,
		ReceiverID: c.peerID,
		Content:    content,
		Timestamp:  now.UTC().Format(time.RFC3339Nano),
	})
}

// DeleteFrame builds the delete request for an own message. Local state
// changes only when the server echoes message_deleted.
func (c *Conversation) DeleteFrame(id string) (Frame, error) {
	c.mu.Lock()
	m, ok := c.find(id)
	c.mu.Unlock()
	if !ok {
		return Frame{}, fmt.Errorf("%w: %s", ErrUnknownMessage, id)
	}
	if m.SenderID != c.selfID {
		return Frame{}, ErrNotAuthor
	}
	return NewFrame(EventDeleteMessage, DeleteMessage{MessageID: id})
}

func (c *Conversation) JoinFrame() (Frame, error) {
	return NewFrame(EventJoinChat, JoinChat{SenderID: c.selfID, ReceiverID: c.peerID})
}

// Subscribe registers fn to run after every applied server event.
func (c *Conversation) Subscribe(fn func()) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Conversation) find(id string) (domain.Message, bool) {
	for _, m := range c.messages {
		if m.ID == id {
			return m, true
		}
	}
	return domain.Message{}, false
}
