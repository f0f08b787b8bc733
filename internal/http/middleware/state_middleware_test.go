package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCallbackStateRejectsMissingState(t *testing.T) {
	h := CallbackState("expected")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/callback?token=abc", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 without state, got %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), "STATE_MISSING") {
		t.Fatalf("expected STATE_MISSING, got %s", rr.Body.String())
	}
}

func TestCallbackStateRejectsMismatch(t *testing.T) {
	h := CallbackState("expected")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/callback?token=abc&state=other", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for state mismatch, got %d", rr.Code)
	}
}

func TestCallbackStateAllowsMatchingState(t *testing.T) {
	h := CallbackState("match")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/callback?token=abc&state=match", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected 204 for valid state, got %d", rr.Code)
	}
}

func TestCallbackStateRejectsEmptyExpectation(t *testing.T) {
	h := CallbackState("")(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/callback?state=", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 when no state was issued, got %d", rr.Code)
	}
}
