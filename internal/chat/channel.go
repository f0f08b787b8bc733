package chat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/oauth2"

	"github.com/sandeepkv93/shophub-client/internal/observability"
)

const (
	defaultOutboxSize   = 32
	defaultWriteTimeout = 10 * time.Second
	closeGrace          = time.Second
)

var (
	ErrChannelClosed = errors.New("chat channel closed")
	ErrOutboxFull    = errors.New("chat outbox full")
	ErrNoToken       = errors.New("chat channel requires a session token")
)

type Config struct {
	URL          string
	TokenSource  oauth2.TokenSource
	OutboxSize   int
	WriteTimeout time.Duration
	Dialer       *websocket.Dialer
	Logger       *slog.Logger
}

// Channel is one WebSocket connection to the chat backend. Outbound frames
// are delivered at most once: a frame that cannot be queued or written is
// dropped and counted, never retried. There is no reconnection.
type Channel struct {
	conn         *websocket.Conn
	logger       *slog.Logger
	writeTimeout time.Duration
	outbox       chan Frame
	done         chan struct{}
	wg           sync.WaitGroup

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
	handlers  map[string][]func(Frame)
	any       []func(Frame)
}

// Open dials the chat endpoint, authenticating the handshake with the
// current session token in the Authorization header and the token query
// parameter.
func Open(ctx context.Context, cfg Config) (*Channel, error) {
	if cfg.TokenSource == nil {
		return nil, ErrNoToken
	}
	tok, err := cfg.TokenSource.Token()
	if err != nil || tok == nil || tok.AccessToken == "" {
		return nil, ErrNoToken
	}
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse chat url: %w", err)
	}
	q := u.Query()
	q.Set("token", tok.AccessToken)
	u.RawQuery = q.Encode()

	header := http.Header{}
	header.Set("Authorization", tok.Type()+" "+tok.AccessToken)
	header.Set("X-Request-Id", uuid.NewString())

	dialer := cfg.Dialer
	if dialer == nil {
		dialer = websocket.DefaultDialer
	}
	conn, resp, err := dialer.DialContext(ctx, u.String(), header)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		return nil, fmt.Errorf("dial chat: status %d: %w", status, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	size := cfg.OutboxSize
	if size <= 0 {
		size = defaultOutboxSize
	}
	timeout := cfg.WriteTimeout
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	c := &Channel{
		conn:         conn,
		logger:       logger,
		writeTimeout: timeout,
		outbox:       make(chan Frame, size),
		done:         make(chan struct{}),
		handlers:     make(map[string][]func(Frame)),
	}
	c.wg.Add(2)
	go c.readLoop()
	go c.writeLoop()
	return c, nil
}

// OnEvent registers fn for one inbound event. Handlers run on the read
// goroutine in arrival order.
func (c *Channel) OnEvent(event string, fn func(Frame)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[event] = append(c.handlers[event], fn)
}

// OnFrame registers fn for every inbound frame.
func (c *Channel) OnFrame(fn func(Frame)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.any = append(c.any, fn)
}

// Attach feeds every inbound frame into conv.
func (c *Channel) Attach(conv *Conversation) {
	c.OnFrame(func(f Frame) {
		if err := conv.Apply(f); err != nil {
			c.logger.Warn("chat event not applied", "event", f.Event, "error", err)
		}
	})
}

// Send queues f for the writer without blocking.
func (c *Channel) Send(f Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrChannelClosed
	}
	select {
	case c.outbox <- f:
		return nil
	default:
		observability.RecordChatSendDropped(context.Background(), f.Event, "outbox_full")
		c.logger.Warn("chat frame dropped", "event", f.Event, "reason", "outbox_full")
		return ErrOutboxFull
	}
}

func (c *Channel) Emit(event string, payload any) error {
	f, err := NewFrame(event, payload)
	if err != nil {
		return err
	}
	return c.Send(f)
}

func (c *Channel) Join(senderID, receiverID string) error {
	return c.Emit(EventJoinChat, JoinChat{SenderID: senderID, ReceiverID: receiverID})
}

// Done is closed once the channel stops, by Close or by a read failure.
func (c *Channel) Done() <-chan struct{} { return c.done }

// Close stops both loops and closes the connection. Queued frames that were
// not written yet are dropped.
func (c *Channel) Close() error {
	c.shutdown()
	c.wg.Wait()
	return nil
}

func (c *Channel) shutdown() {
	c.closeOnce.Do(func() {
		c.mu.Lock()
		c.closed = true
		c.mu.Unlock()
		close(c.done)
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(closeGrace))
		_ = c.conn.Close()
	})
}

func (c *Channel) isClosed() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.closed
}

func (c *Channel) readLoop() {
	defer c.wg.Done()
	defer c.shutdown()
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if !c.isClosed() && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn("chat read failed", "error", err)
			}
			return
		}
		var f Frame
		if err := json.Unmarshal(data, &f); err != nil || f.Event == "" {
			c.logger.Warn("chat frame ignored", "error", err)
			continue
		}
		observability.RecordChatEvent(context.Background(), f.Event)
		c.dispatch(f)
	}
}

func (c *Channel) dispatch(f Frame) {
	c.mu.RLock()
	handlers := append([]func(Frame){}, c.handlers[f.Event]...)
	handlers = append(handlers, c.any...)
	c.mu.RUnlock()
	for _, h := range handlers {
		h(f)
	}
}

func (c *Channel) writeLoop() {
	defer c.wg.Done()
	for {
		select {
		case <-c.done:
			return
		case f := <-c.outbox:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeTimeout))
			if err := c.conn.WriteJSON(f); err != nil {
				observability.RecordChatSendDropped(context.Background(), f.Event, "write_error")
				c.logger.Warn("chat frame dropped", "event", f.Event, "reason", "write_error", "error", err)
			}
		}
	}
}
