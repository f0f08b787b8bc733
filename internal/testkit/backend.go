package testkit

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sandeepkv93/shophub-client/internal/domain"
)

type Account struct {
	Password string
	User     domain.User
}

type Request struct {
	Method        string
	Path          string
	Query         url.Values
	Authorization string
	RequestID     string
}

type Upload struct {
	Name     string
	Price    string
	Category string
	Filename string
	Size     int
}

type failure struct {
	status  int
	message string
}

// Backend is an in-process fake of the storefront REST API.
type Backend struct {
	Server *httptest.Server

	mu         sync.Mutex
	accounts   map[string]Account
	products   []domain.Product
	profiles   []domain.UserProfile
	chats      []domain.ChatPreview
	requests   []Request
	failures   map[string]failure
	uploads    []Upload
	cookieOnly bool
	oauthUser  domain.User
}

func NewBackend(tb testing.TB) *Backend {
	tb.Helper()
	b := &Backend{
		accounts:  make(map[string]Account),
		failures:  make(map[string]failure),
		oauthUser: domain.User{ID: "g-1", Name: "Google User", Email: "google@example.com", Role: domain.RoleBuyer},
	}
	b.Server = httptest.NewServer(b.routes())
	tb.Cleanup(b.Server.Close)
	return b
}

func (b *Backend) URL() string { return b.Server.URL }

func (b *Backend) AddAccount(password string, user domain.User) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[user.Email] = Account{Password: password, User: user}
}

func (b *Backend) SetProducts(products ...domain.Product) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.products = append([]domain.Product(nil), products...)
}

func (b *Backend) SetProfiles(profiles ...domain.UserProfile) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.profiles = append([]domain.UserProfile(nil), profiles...)
}

func (b *Backend) SetChats(chats ...domain.ChatPreview) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.chats = append([]domain.ChatPreview(nil), chats...)
}

// FailWith makes every request to path answer status with a bare message body.
func (b *Backend) FailWith(path string, status int, message string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[path] = failure{status: status, message: message}
}

// UseCookieAuth makes login set an http-only cookie instead of returning the token.
func (b *Backend) UseCookieAuth(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.cookieOnly = on
}

func (b *Backend) Requests() []Request {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Request(nil), b.requests...)
}

func (b *Backend) RequestsTo(path string) int {
	n := 0
	for _, r := range b.Requests() {
		if r.Path == path {
			n++
		}
	}
	return n
}

func (b *Backend) Uploads() []Upload {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Upload(nil), b.uploads...)
}

func (b *Backend) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(b.record)
	r.Use(b.injectFailures)

	r.Post("/auth/login", b.login)
	r.Post("/auth/register", b.register)
	r.Get("/auth/google", b.google)
	r.Post("/auth/forgot-password", b.forgotPassword)
	r.Post("/auth/reset-password", b.resetPassword)

	r.Get("/products", b.listProducts)
	r.Get("/products/search", b.searchProducts)
	r.Get("/products/category/{name}", b.productsByCategory)
	r.Get("/products/{id}", b.getProduct)
	r.With(b.requireAuth).Post("/products/upload", b.upload)

	r.With(b.requireAuth).Get("/user/with-products", b.usersWithProducts)
	r.Get("/user/{id}", b.getUser)
	r.Get("/user/{id}/products", b.getUser)
	r.With(b.requireAuth).Get("/chat", b.listChats)
	return r
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Query:         r.URL.Query(),
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-Id"),
		})
		b.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		f, ok := b.failures[r.URL.Path]
		b.mu.Unlock()
		if ok {
			writeMessage(w, f.status, f.message)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" {
			if c, err := r.Cookie("token"); err == nil {
				raw = c.Value
			}
		}
		if raw == "" {
			writeMessage(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		if _, err := verifyToken(raw); err != nil {
			writeMessage(w, http.StatusUnauthorized, "Invalid token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) login(w http.ResponseWriter, r *http.Request) {
	var creds domain.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Email == "" || creds.Password == "" {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	b.mu.Lock()
	acct, ok := b.accounts[creds.Email]
	b.mu.Unlock()
	if !ok {
		writeMessage(w, http.StatusNotFound, "User not found")
		return
	}
	if acct.Password != creds.Password {
		writeMessage(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	b.issue(w, http.StatusOK, acct.User)
}

func (b *Backend) register(w http.ResponseWriter, r *http.Request) {
	var reg domain.Registration
	if err := json.NewDecoder(r.Body).Decode(&reg); err != nil || reg.Email == "" || reg.Password == "" || reg.Name == "" {
		writeMessage(w, http.StatusBadRequest, "Invalid request")
		return
	}
	b.mu.Lock()
	if _, exists := b.accounts[reg.Email]; exists {
		b.mu.Unlock()
		writeMessage(w, http.StatusConflict, "User already exists")
		return
	}
	user := domain.User{ID: fmt.Sprintf("u-%d", len(b.accounts)+1), Name: reg.Name, Email: reg.Email, Role: domain.RoleBuyer}
	b.accounts[reg.Email] = Account{Password: reg.Password, User: user}
	b.mu.Unlock()
	b.issue(w, http.StatusCreated, user)
}

func (b *Backend) issue(w http.ResponseWriter, status int, user domain.User) {
	token, err := sign(user, time.Hour)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "sign token")
		return
	}
	b.mu.Lock()
	cookieOnly := b.cookieOnly
	b.mu.Unlock()
	if cookieOnly {
		http.SetCookie(w, &http.Cookie{Name: "token", Value: token, Path: "/", HttpOnly: true})
		writeJSON(w, status, domain.AuthResult{User: &user, Message: "Logged in"})
		return
	}
	writeJSON(w, status, domain.AuthResult{Token: token, User: &user})
}

func (b *Backend) google(w http.ResponseWriter, r *http.Request) {
	redirect := r.URL.Query().Get("redirect_uri")
	if redirect == "" {
		writeMessage(w, http.StatusBadRequest, "redirect_uri required")
		return
	}
	token, err := sign(b.oauthUser, time.Hour)
	if err != nil {
		writeMessage(w, http.StatusInternalServerError, "sign token")
		return
	}
	target, err := url.Parse(redirect)
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "invalid redirect_uri")
		return
	}
	q := target.Query()
	q.Set("token", token)
	target.RawQuery = q.Encode()
	http.Redirect(w, r, target.String(), http.StatusFound)
}

func (b *Backend) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	b.mu.Lock()
	_, ok := b.accounts[body.Email]
	b.mu.Unlock()
	if !ok {
		writeMessage(w, http.StatusNotFound, "No account with that email")
		return
	}
	writeMessage(w, http.StatusOK, "Reset link sent")
}

func (b *Backend) resetPassword(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Token       string `json:"token"`
		NewPassword string `json:"newPassword"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	if body.Token != "valid-reset" {
		writeMessage(w, http.StatusBadRequest, "Invalid or expired token")
		return
	}
	writeMessage(w, http.StatusOK, "Password updated")
}

func (b *Backend) listProducts(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	out := append([]domain.Product(nil), b.products...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) searchProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	query := strings.ToLower(q.Get("query"))
	category := q.Get("category")
	lo, hi := 0.0, -1.0
	if pr := q["priceRange[]"]; len(pr) == 2 {
		lo, _ = strconv.ParseFloat(pr[0], 64)
		hi, _ = strconv.ParseFloat(pr[1], 64)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Product, 0)
	for _, p := range b.products {
		if query != "" && !strings.Contains(strings.ToLower(p.DisplayName()), query) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		if hi >= 0 && (p.Price < lo || p.Price > hi) {
			continue
		}
		out = append(out, p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) productsByCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]domain.Product, 0)
	for _, p := range b.products {
		if p.Category == name {
			out = append(out, p)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.products {
		if p.ID == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "Product not found")
}

func (b *Backend) upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeMessage(w, http.StatusBadRequest, "Image required")
		return
	}
	defer func() { _ = file.Close() }()
	data, _ := io.ReadAll(file)
	up := Upload{
		Name:     r.FormValue("name"),
		Price:    r.FormValue("price"),
		Category: r.FormValue("category"),
		Filename: header.Filename,
		Size:     len(data),
	}
	price, _ := strconv.ParseFloat(up.Price, 64)
	b.mu.Lock()
	b.uploads = append(b.uploads, up)
	p := domain.Product{ID: fmt.Sprintf("p-up-%d", len(b.uploads)), Name: up.Name, Category: up.Category, Price: price, InStock: true}
	b.products = append(b.products, p)
	b.mu.Unlock()
	writeJSON(w, http.StatusCreated, p)
}

func (b *Backend) usersWithProducts(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	out := make([]domain.UserProfile, 0, len(b.profiles))
	for _, p := range b.profiles {
		if len(p.Products) > 0 {
			out = append(out, p)
		}
	}
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func (b *Backend) getUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, p := range b.profiles {
		if p.Identifier() == id {
			writeJSON(w, http.StatusOK, p)
			return
		}
	}
	writeMessage(w, http.StatusNotFound, "User not found")
}

func (b *Backend) listChats(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	out := append([]domain.ChatPreview(nil), b.chats...)
	b.mu.Unlock()
	writeJSON(w, http.StatusOK, out)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}
