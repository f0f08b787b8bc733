package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/sandeepkv93/shophub-client/internal/http/response"
)

// Error is a non-2xx backend response.
type Error struct {
	Operation string
	Status    int
	Code      string
	Message   string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("%s: backend returned %d: %s", e.Operation, e.Status, msg)
}

func newError(op string, status int, raw []byte) *Error {
	var body response.Body
	_ = json.Unmarshal(raw, &body)
	return &Error{Operation: op, Status: status, Code: body.ErrorCode(), Message: body.ErrorMessage()}
}

// StatusCode returns the backend status carried by err, or 0.
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

// Message returns the backend's message carried by err, if any.
func Message(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
