package app

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/sandeepkv93/shophub-client/internal/chat"
	"github.com/sandeepkv93/shophub-client/internal/config"
	"github.com/sandeepkv93/shophub-client/internal/domain"
	"github.com/sandeepkv93/shophub-client/internal/forms"
	"github.com/sandeepkv93/shophub-client/internal/navigation"
	"github.com/sandeepkv93/shophub-client/internal/testkit"
)

func testConfig(apiURL string) *config.Config {
	return &config.Config{
		APIBaseURL:        apiURL,
		HTTPTimeout:       5 * time.Second,
		StateDriver:       config.StateDriverMemory,
		LogLevel:          "error",
		OAuthCallbackAddr: "127.0.0.1:0",
		OTELServiceName:   "shophub-test",
	}
}

func initApp(t *testing.T, cfg *config.Config) *App {
	t.Helper()
	a, cleanup, err := Initialize(context.Background(), cfg, io.Discard)
	if err != nil {
		t.Fatalf("initialize: %v", err)
	}
	t.Cleanup(cleanup)
	a.Session.Bootstrap(context.Background())
	return a
}

func TestInitializeWiresSessionAndNavigation(t *testing.T) {
	backend := testkit.NewBackend(t)
	user := domain.User{ID: "u-9", Name: "Grace", Email: "grace@example.com", Role: domain.RoleBuyer}
	backend.AddAccount("hunter22", user)
	a := initApp(t, testConfig(backend.URL()))

	ctx := context.Background()
	res, err := a.Navigator.Navigate(ctx, navigation.CartPath)
	if err != nil {
		t.Fatalf("navigate: %v", err)
	}
	if res.Decision.State != navigation.Denied || a.Navigator.Current() != navigation.EntryPath {
		t.Fatalf("expected redirect to entry, got %+v at %s", res.Decision, a.Navigator.Current())
	}

	out := a.Account.SubmitAuth(ctx, forms.ModeLogin, forms.AuthForm{Email: user.Email, Password: "hunter22"})
	if !out.LoggedIn {
		t.Fatalf("expected login, got %v", out.Errors)
	}
	if got := a.Session.Snapshot(); got.User == nil || got.User.ID != user.ID {
		t.Fatalf("expected session user %s, got %+v", user.ID, got.User)
	}

	res, err = a.Navigator.Navigate(ctx, a.Navigator.ReturnTo(ctx))
	if err != nil {
		t.Fatalf("navigate back: %v", err)
	}
	if res.Decision.State != navigation.Authorized || a.Navigator.Current() != navigation.CartPath {
		t.Fatalf("expected authorized cart, got %+v at %s", res.Decision, a.Navigator.Current())
	}
}

func TestInitializeRejectsBadSealKey(t *testing.T) {
	backend := testkit.NewBackend(t)
	cfg := testConfig(backend.URL())
	cfg.StateSealKey = "not-hex"
	if _, _, err := Initialize(context.Background(), cfg, io.Discard); err == nil {
		t.Fatal("expected seal key error")
	}
}

func TestSignInWithGoogle(t *testing.T) {
	backend := testkit.NewBackend(t)
	a := initApp(t, testConfig(backend.URL()))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	snap, err := a.SignInWithGoogle(ctx, func(target string) error {
		go func() {
			resp, err := http.Get(target)
			if err == nil {
				_ = resp.Body.Close()
			}
		}()
		return nil
	})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if !snap.IsLoggedIn || snap.User == nil || snap.User.ID != "g-1" {
		t.Fatalf("expected google user session, got %+v", snap)
	}
}

func TestOpenChatRequiresSession(t *testing.T) {
	backend := testkit.NewBackend(t)
	a := initApp(t, testConfig(backend.URL()))
	if _, _, err := a.OpenChat(context.Background(), "u-2"); !errors.Is(err, ErrNotSignedIn) {
		t.Fatalf("expected ErrNotSignedIn, got %v", err)
	}
}

func TestOpenChatJoinsRoom(t *testing.T) {
	backend := testkit.NewBackend(t)
	user := domain.User{ID: "u-1", Name: "Ada", Email: "ada@example.com", Role: domain.RoleBuyer}
	backend.AddAccount("correct-horse", user)

	joined := make(chan chat.JoinChat, 1)
	upgrader := websocket.Upgrader{}
	chatSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		var f chat.Frame
		if err := conn.ReadJSON(&f); err != nil || f.Event != chat.EventJoinChat {
			return
		}
		var p chat.JoinChat
		if json.Unmarshal(f.Data, &p) == nil {
			joined <- p
		}
		_, _, _ = conn.ReadMessage()
	}))
	t.Cleanup(chatSrv.Close)

	cfg := testConfig(backend.URL())
	cfg.ChatURL = "ws" + strings.TrimPrefix(chatSrv.URL, "http")
	a := initApp(t, cfg)
	if out := a.Account.SubmitAuth(context.Background(), forms.ModeLogin, forms.AuthForm{Email: user.Email, Password: "correct-horse"}); !out.LoggedIn {
		t.Fatalf("login failed: %v", out.Errors)
	}

	ch, conv, err := a.OpenChat(context.Background(), "u-2")
	if err != nil {
		t.Fatalf("open chat: %v", err)
	}
	defer ch.Close()
	if conv.SelfID() != "u-1" || conv.PeerID() != "u-2" {
		t.Fatalf("unexpected conversation ids %s/%s", conv.SelfID(), conv.PeerID())
	}
	select {
	case p := <-joined:
		if p.SenderID != "u-1" || p.ReceiverID != "u-2" {
			t.Fatalf("unexpected join payload %+v", p)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for join")
	}
}
