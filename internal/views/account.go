package views

import (
	"context"
	"log/slog"
	"strings"

	"github.com/sandeepkv93/shophub-client/internal/domain"
	"github.com/sandeepkv93/shophub-client/internal/forms"
	"github.com/sandeepkv93/shophub-client/internal/http/client"
)

const (
	MsgResetLinkSent   = "A password reset link has been sent."
	MsgPasswordReset   = "Your password has been reset successfully."
	MsgUnexpectedError = "An unexpected error occurred"
)

type AuthResult struct {
	Errors   forms.FieldErrors
	LoggedIn bool
}

type FormResult struct {
	Errors  forms.FieldErrors
	Message string
	Err     string
	Success bool
}

// Account backs the login, register, forgot and reset password views.
type Account struct {
	session Session
	api     AccountAPI
	logger  *slog.Logger
}

func NewAccount(session Session, api AccountAPI, logger *slog.Logger) *Account {
	if logger == nil {
		logger = slog.Default()
	}
	return &Account{session: session, api: api, logger: logger}
}

// SubmitAuth validates the form and only then calls the backend. Backend
// rejections come back as field errors, never as an error value.
func (a *Account) SubmitAuth(ctx context.Context, mode forms.Mode, f forms.AuthForm) AuthResult {
	if errs := forms.ValidateAuth(mode, f); len(errs) > 0 {
		return AuthResult{Errors: errs}
	}
	var payload any = domain.Credentials{Email: f.Email, Password: f.Password}
	if mode == forms.ModeRegister {
		payload = domain.Registration{Name: strings.TrimSpace(f.Name), Email: f.Email, Password: f.Password}
	}
	if err := a.session.Login(ctx, mode.Endpoint(), payload); err != nil {
		a.logger.InfoContext(ctx, "authentication failed", "endpoint", mode.Endpoint(), "status", client.StatusCode(err))
		return AuthResult{Errors: forms.MapAuthError(mode, err)}
	}
	return AuthResult{LoggedIn: true}
}

func (a *Account) ForgotPassword(ctx context.Context, email string) FormResult {
	if errs := forms.ValidateForgotPassword(email); len(errs) > 0 {
		return FormResult{Errors: errs, Err: errs[forms.FieldEmail]}
	}
	if _, err := a.api.ForgotPassword(ctx, strings.TrimSpace(email)); err != nil {
		a.logger.ErrorContext(ctx, "forgot password failed", "error", err)
		return FormResult{Err: backendMessage(err)}
	}
	return FormResult{Success: true, Message: MsgResetLinkSent}
}

func (a *Account) ResetPassword(ctx context.Context, token, password, confirm string) FormResult {
	if errs := forms.ValidateResetPassword(token, password, confirm); len(errs) > 0 {
		return FormResult{Errors: errs, Err: firstMessage(errs)}
	}
	if _, err := a.api.ResetPassword(ctx, token, password); err != nil {
		a.logger.ErrorContext(ctx, "reset password failed", "error", err)
		return FormResult{Err: backendMessage(err)}
	}
	return FormResult{Success: true, Message: MsgPasswordReset}
}

func backendMessage(err error) string {
	if msg := client.Message(err); msg != "" {
		return msg
	}
	return MsgUnexpectedError
}

func firstMessage(errs forms.FieldErrors) string {
	for _, field := range []string{forms.FieldConfirmPassword, forms.FieldToken, forms.FieldPassword} {
		if msg, ok := errs[field]; ok {
			return msg
		}
	}
	return ""
}
